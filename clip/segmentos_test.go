package clip

import (
	"math"
	"testing"

	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticionar_UnSegmento(t *testing.T) {
	segmentos := Particionar(100, 64, 127)
	require.Len(t, segmentos, 1)
	assert.Equal(t, Segmento{FrameInicial: 0, NumFrames: 100}, segmentos[0])

	segmentos = Particionar(1, 64, 127)
	require.Len(t, segmentos, 1)
	assert.Equal(t, 1, segmentos[0].NumFrames)
}

func TestParticionar_Reparto(t *testing.T) {
	casos := []struct {
		frames   int
		esperado []int
	}{
		{300, []int{75, 75, 75, 75}},
		{200, []int{67, 67, 66}},
		{128, []int{64, 64}},
		{191, []int{96, 95}},
	}
	for _, c := range casos {
		segmentos := Particionar(c.frames, 64, 127)
		require.Len(t, segmentos, len(c.esperado), "frames=%d", c.frames)

		inicio := 0
		for i, seg := range segmentos {
			assert.Equal(t, inicio, seg.FrameInicial)
			assert.Equal(t, c.esperado[i], seg.NumFrames)
			assert.GreaterOrEqual(t, seg.NumFrames, 64)
			assert.LessOrEqual(t, seg.NumFrames, 127)
			inicio += seg.NumFrames
		}
		assert.Equal(t, c.frames, inicio)
	}
}

func indicePrueba(t *testing.T, numFrames int, cfg tipos.ConfiguracionCompresion) *Indice {
	t.Helper()
	c, err := Codificar(clipCrudoPrueba(numFrames), cfg, nil)
	require.NoError(t, err)
	ix, err := NuevoIndice(c)
	require.NoError(t, err)
	return ix
}

func TestFramePos(t *testing.T) {
	ix := indicePrueba(t, 31, tipos.ConfiguracionCompresion{})

	pos, err := ix.FramePos(0.5)
	require.NoError(t, err)
	assert.InDelta(t, 15, pos, 1e-4)

	pos, err = ix.FramePos(1)
	require.NoError(t, err)
	assert.InDelta(t, 30, pos, 1e-4)

	for _, tiempo := range []float32{-0.1, 1.01, float32(math.NaN())} {
		_, err = ix.FramePos(tiempo)
		assert.True(t, errors.Is(err, tipos.ErrFueraDeRango), "tiempo %v: %v", tiempo, err)
	}
}

func TestFramePos_FramesExactos(t *testing.T) {
	for n := 2; n <= 400; n++ {
		ix := &Indice{clip: &Clip{NumFrames: n, Duracion: float32(n-1) / 30}}

		pos, err := ix.FramePos(ix.clip.Duracion)
		require.NoError(t, err)
		require.Equal(t, float32(n-1), pos, "n=%d", n)

		for f := 0; f < n; f++ {
			pos, err = ix.FramePos(float32(f) / 30)
			require.NoError(t, err)
			require.Equal(t, float32(f), pos, "n=%d frame=%d", n, f)
		}
	}
}

func TestSeleccionar_Dual(t *testing.T) {
	ix := indicePrueba(t, 200, tipos.ConfiguracionCompresion{})
	require.Equal(t, 3, ix.NumSegmentos())

	sel, err := ix.Seleccionar(10)
	require.NoError(t, err)
	assert.Equal(t, Seleccion{Segmento0: 0, Segmento1: 0, FramePos: 10}, sel)

	// El frame 66 es el último del primer segmento
	sel, err = ix.Seleccionar(66.25)
	require.NoError(t, err)
	assert.True(t, sel.Dual)
	assert.Equal(t, 0, sel.Segmento0)
	assert.Equal(t, 1, sel.Segmento1)
	assert.InDelta(t, 0.25, sel.Alpha, 1e-6)

	sel, err = ix.Seleccionar(66)
	require.NoError(t, err)
	assert.False(t, sel.Dual)

	sel, err = ix.Seleccionar(199)
	require.NoError(t, err)
	assert.Equal(t, 2, sel.Segmento0)
	assert.False(t, sel.Dual)

	assert.True(t, sel.MismaSeleccion(Seleccion{Segmento0: 2, Segmento1: 2, FramePos: 150}))
}

func TestBuscarSegmento(t *testing.T) {
	ix := indicePrueba(t, 200, tipos.ConfiguracionCompresion{})

	for frame, esperado := range map[int]int{0: 0, 66: 0, 67: 1, 133: 1, 134: 2, 199: 2} {
		i, err := ix.BuscarSegmento(frame)
		require.NoError(t, err)
		assert.Equal(t, esperado, i, "frame %d", frame)
	}
	_, err := ix.BuscarSegmento(200)
	assert.True(t, errors.Is(err, tipos.ErrFueraDeRango))
	_, err = ix.BuscarSegmento(-1)
	assert.True(t, errors.Is(err, tipos.ErrFueraDeRango))
}
