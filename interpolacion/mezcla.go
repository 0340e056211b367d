package interpolacion

import (
	"github.com/cbiale/animwave/tipos"
	"github.com/go-gl/mathgl/mgl32"
)

// AjustarAlpha aplica el tipo de interpolación al factor de mezcla
func AjustarAlpha(alpha float32, tipo tipos.TipoInterpolacion) float32 {
	if tipo == tipos.Escalonada {
		return 0
	}
	return alpha
}

// LerpVector interpola linealmente entre a y b
func LerpVector(a, b mgl32.Vec3, alpha float32) mgl32.Vec3 {
	if alpha == 0 {
		return a
	}
	return a.Add(b.Sub(a).Mul(alpha))
}

// NlerpRotacion mezcla dos cuaterniones linealmente y renormaliza. Toma el
// camino corto: si el producto punto es negativo se niega b.
func NlerpRotacion(a, b mgl32.Quat, alpha float32) mgl32.Quat {
	if alpha == 0 {
		return a.Normalize()
	}
	sesgo := float32(1)
	if a.Dot(b) < 0 {
		sesgo = -1
	}
	mezcla := mgl32.Quat{
		W: a.W*(1-alpha) + b.W*alpha*sesgo,
		V: a.V.Mul(1 - alpha).Add(b.V.Mul(alpha * sesgo)),
	}
	return mezcla.Normalize()
}
