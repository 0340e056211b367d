package compresor

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// prepararRotacion normaliza q y la lleva al hemisferio W >= 0, de modo que
// W pueda omitirse y reconstruirse con signo positivo.
func prepararRotacion(q mgl32.Quat) mgl32.Quat {
	if q.Len() == 0 {
		return mgl32.QuatIdent()
	}
	q = q.Normalize()
	if q.W < 0 {
		q = mgl32.Quat{W: -q.W, V: q.V.Mul(-1)}
	}
	return q
}

// reconstruirW recupera la componente W a partir de la restricción de
// longitud unitaria. El error de cuantización puede dejar 1-x²-y²-z² por
// debajo de cero, en cuyo caso W es 0.
func reconstruirW(x, y, z float32) mgl32.Quat {
	w2 := 1 - x*x - y*y - z*z
	var w float32
	if w2 > 0 {
		w = float32(math.Sqrt(float64(w2)))
	}
	return mgl32.Quat{W: w, V: mgl32.Vec3{x, y, z}}
}

func limitar(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
