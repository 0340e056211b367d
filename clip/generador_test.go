package clip

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// clipCrudoPrueba genera tres pistas: la 0 con traslación y rotación
// animadas, la 1 constante y la 2 con solo la rotación animada.
func clipCrudoPrueba(numFrames int) ClipCrudo {
	crudo := ClipCrudo{
		Nombre:    "prueba",
		NumFrames: numFrames,
		Duracion:  float32(numFrames-1) / 30,
		Pistas:    make([]PistaCruda, 3),
	}
	eje := mgl32.Vec3{1, 2, 0.5}.Normalize()
	for p := range crudo.Pistas {
		crudo.Pistas[p] = PistaCruda{
			Traslaciones: make([]mgl32.Vec3, numFrames),
			Rotaciones:   make([]mgl32.Quat, numFrames),
		}
	}
	for f := 0; f < numFrames; f++ {
		x := float32(f)
		crudo.Pistas[0].Traslaciones[f] = mgl32.Vec3{float32(math.Sin(float64(x) * 0.1)), x * 0.05, -1}
		crudo.Pistas[0].Rotaciones[f] = mgl32.QuatRotate(x*0.04, eje)
		crudo.Pistas[1].Traslaciones[f] = mgl32.Vec3{1, 2, 3}
		crudo.Pistas[1].Rotaciones[f] = mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0})
		crudo.Pistas[2].Rotaciones[f] = mgl32.QuatRotate(float32(math.Cos(float64(x)*0.07)), mgl32.Vec3{0, 0, 1})
	}
	return crudo
}

// agregarEscala completa la escala de todas las pistas; la pista 0 pulsa
func agregarEscala(crudo *ClipCrudo) {
	for p := range crudo.Pistas {
		crudo.Pistas[p].Escalas = make([]mgl32.Vec3, crudo.NumFrames)
		for f := range crudo.Pistas[p].Escalas {
			s := float32(1)
			if p == 0 {
				s = 1 + 0.2*float32(math.Sin(float64(f)*0.2))
			}
			crudo.Pistas[p].Escalas[f] = mgl32.Vec3{s, s, s}
		}
	}
}
