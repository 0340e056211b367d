package clip

import (
	"math"

	"github.com/cbiale/animwave/interpolacion"
	"github.com/go-gl/mathgl/mgl32"
)

// reducirClaves elige los frames que se conservan como claves. Una clave se
// descarta si la interpolación entre la última clave conservada y un frame
// posterior reproduce todos los frames intermedios con error <= tolerancia.
// El primer y el último frame siempre se conservan.
func reducirClaves(n int, tolerancia float32, desviacion func(inicio, fin, j int) float32) []int {
	if n <= 2 || tolerancia <= 0 {
		claves := make([]int, n)
		for i := range claves {
			claves[i] = i
		}
		return claves
	}

	claves := []int{0}
	inicio := 0
	for fin := 2; fin < n; fin++ {
		for j := inicio + 1; j < fin; j++ {
			if desviacion(inicio, fin, j) > tolerancia {
				inicio = fin - 1
				claves = append(claves, inicio)
				break
			}
		}
	}
	return append(claves, n-1)
}

func alphaReduccion(inicio, fin, j int) float32 {
	return float32(j-inicio) / float32(fin-inicio)
}

func diferenciaMaxima(a, b mgl32.Vec3) float32 {
	d := float32(0)
	for i := 0; i < 3; i++ {
		d = float32(math.Max(float64(d), math.Abs(float64(a[i]-b[i]))))
	}
	return d
}

func reducirVectores(valores []mgl32.Vec3, tolerancia float32) []int {
	return reducirClaves(len(valores), tolerancia, func(inicio, fin, j int) float32 {
		estimado := interpolacion.LerpVector(valores[inicio], valores[fin], alphaReduccion(inicio, fin, j))
		return diferenciaMaxima(estimado, valores[j])
	})
}

func reducirRotaciones(valores []mgl32.Quat, tolerancia float32) []int {
	return reducirClaves(len(valores), tolerancia, func(inicio, fin, j int) float32 {
		estimado := interpolacion.NlerpRotacion(valores[inicio], valores[fin], alphaReduccion(inicio, fin, j))
		return diferenciaRotacion(estimado, valores[j])
	})
}

// diferenciaRotacion compara dos rotaciones sin importar el signo del cuaternión
func diferenciaRotacion(a, b mgl32.Quat) float32 {
	a = a.Normalize()
	b = b.Normalize()
	if a.Dot(b) < 0 {
		b = mgl32.Quat{W: -b.W, V: b.V.Mul(-1)}
	}
	return float32(math.Max(float64(diferenciaMaxima(a.V, b.V)), math.Abs(float64(a.W-b.W))))
}
