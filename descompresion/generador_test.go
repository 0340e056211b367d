package descompresion

import (
	"math"
	"testing"

	"github.com/cbiale/animwave/clip"
	"github.com/cbiale/animwave/tipos"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

const fps = 30

// crudoPrueba genera tres pistas: la 0 con todos los canales animados, la 1
// constante y la 2 con solo la rotación animada.
func crudoPrueba(numFrames int, conEscala bool) clip.ClipCrudo {
	crudo := clip.ClipCrudo{
		Nombre:    "ciclo",
		NumFrames: numFrames,
		Duracion:  float32(numFrames-1) / fps,
		Pistas:    make([]clip.PistaCruda, 3),
	}
	eje := mgl32.Vec3{0.3, 1, -0.2}.Normalize()
	for p := range crudo.Pistas {
		crudo.Pistas[p] = clip.PistaCruda{
			Traslaciones: make([]mgl32.Vec3, numFrames),
			Rotaciones:   make([]mgl32.Quat, numFrames),
		}
		if conEscala {
			crudo.Pistas[p].Escalas = make([]mgl32.Vec3, numFrames)
		}
	}
	for f := 0; f < numFrames; f++ {
		x := float64(f)
		crudo.Pistas[0].Traslaciones[f] = mgl32.Vec3{float32(math.Sin(x * 0.1)), float32(x * 0.02), float32(math.Cos(x * 0.05))}
		crudo.Pistas[0].Rotaciones[f] = mgl32.QuatRotate(float32(x*0.03), eje)
		crudo.Pistas[1].Traslaciones[f] = mgl32.Vec3{1, 2, 3}
		crudo.Pistas[1].Rotaciones[f] = mgl32.QuatRotate(0.5, mgl32.Vec3{0, 1, 0})
		crudo.Pistas[2].Rotaciones[f] = mgl32.QuatRotate(float32(math.Sin(x*0.08)), mgl32.Vec3{1, 0, 0})
		if conEscala {
			s := float32(1 + 0.25*math.Sin(x*0.15))
			crudo.Pistas[0].Escalas[f] = mgl32.Vec3{s, s, 1}
			crudo.Pistas[1].Escalas[f] = mgl32.Vec3{2, 2, 2}
			crudo.Pistas[2].Escalas[f] = mgl32.Vec3{1, 1, 1}
		}
	}
	return crudo
}

func indicePrueba(t *testing.T, crudo clip.ClipCrudo, cfg tipos.ConfiguracionCompresion) *clip.Indice {
	t.Helper()
	c, err := clip.Codificar(crudo, cfg, nil)
	require.NoError(t, err)
	ix, err := clip.NuevoIndice(c)
	require.NoError(t, err)
	return ix
}

func contextoPrueba(t *testing.T, ix *clip.Indice, opts ...Opcion) *Contexto {
	t.Helper()
	ctx, err := NuevoContexto(ix, opts...)
	require.NoError(t, err)
	return ctx
}

// tiempoDeFrame convierte un frame a segundos
func tiempoDeFrame(frame float32) float32 {
	return frame / fps
}

func diferenciaRotacion(a, b mgl32.Quat) float64 {
	return 1 - math.Abs(float64(a.Dot(b)))
}

func diferenciaVector(a, b mgl32.Vec3) float64 {
	return float64(a.Sub(b).Len())
}
