package clip

import (
	"math"
	"sort"

	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
)

// Particionar divide numFrames en segmentos contiguos sin solapamiento.
//
// Un clip de hasta maxPorSegmento frames es un único segmento. Si no, se usan
// floor(numFrames/idealPorSegmento) segmentos y los frames sobrantes se
// reparten desde el primero, de modo que ningún segmento supere
// 2×idealPorSegmento-1 frames ni tenga menos de idealPorSegmento.
func Particionar(numFrames, idealPorSegmento, maxPorSegmento int) []Segmento {
	if numFrames <= maxPorSegmento || idealPorSegmento < 2 {
		return []Segmento{{FrameInicial: 0, NumFrames: numFrames}}
	}

	numSegmentos := numFrames / idealPorSegmento
	base := numFrames / numSegmentos
	sobrantes := numFrames % numSegmentos

	segmentos := make([]Segmento, numSegmentos)
	inicio := 0
	for i := range segmentos {
		n := base
		if i < sobrantes {
			n++
		}
		segmentos[i] = Segmento{FrameInicial: inicio, NumFrames: n}
		inicio += n
	}
	return segmentos
}

// Seleccion es el resultado de ubicar una posición de muestreo en los segmentos
type Seleccion struct {
	Segmento0 int
	Segmento1 int  // igual a Segmento0 salvo en modo dual
	Dual      bool // la muestra cae entre el último frame de Segmento0 y el primero de Segmento1
	FramePos  float32
	Alpha     float32 // mezcla entre segmentos en modo dual
}

// MismaSeleccion indica si dos selecciones usan los mismos segmentos
func (s Seleccion) MismaSeleccion(otra Seleccion) bool {
	return s.Segmento0 == otra.Segmento0 && s.Segmento1 == otra.Segmento1 && s.Dual == otra.Dual
}

// FramePos convierte un tiempo en segundos a posición fraccional de frame
func (ix *Indice) FramePos(tiempo float32) (float32, error) {
	c := ix.clip
	if math.IsNaN(float64(tiempo)) || tiempo < 0 || tiempo > c.Duracion {
		return 0, errors.Wrapf(tipos.ErrFueraDeRango, "tiempo %v fuera de [0, %v]", tiempo, c.Duracion)
	}
	if c.Duracion <= 0 || c.NumFrames <= 1 {
		return 0, nil
	}
	ultimo := float64(c.NumFrames - 1)
	if tiempo >= c.Duracion {
		return float32(ultimo), nil
	}
	framePos := float64(tiempo) * ultimo / float64(c.Duracion)
	// Tiempos múltiplos del paso caen exactamente sobre su frame
	if entero := math.Round(framePos); math.Abs(framePos-entero) < toleranciaFrame {
		framePos = entero
	}
	return float32(math.Min(framePos, ultimo)), nil
}

// toleranciaFrame absorbe el redondeo de float32 al convertir tiempos
const toleranciaFrame = 1e-4

// BuscarSegmento retorna el índice del segmento que contiene frame
func (ix *Indice) BuscarSegmento(frame int) (int, error) {
	segmentos := ix.clip.Segmentos
	if frame < 0 || frame >= ix.clip.NumFrames {
		return 0, errors.Wrapf(tipos.ErrFueraDeRango, "frame %d fuera de [0, %d)", frame, ix.clip.NumFrames)
	}
	// Primer segmento que empieza después de frame, menos uno
	i := sort.Search(len(segmentos), func(i int) bool {
		return segmentos[i].FrameInicial > frame
	}) - 1
	if i < 0 {
		return 0, tipos.Corrupto("ningún segmento contiene el frame %d", frame)
	}
	return i, nil
}

// Seleccionar ubica framePos en uno o dos segmentos
func (ix *Indice) Seleccionar(framePos float32) (Seleccion, error) {
	frame := int(math.Floor(float64(framePos)))
	if frame >= ix.clip.NumFrames {
		frame = ix.clip.NumFrames - 1
	}
	i, err := ix.BuscarSegmento(frame)
	if err != nil {
		return Seleccion{}, err
	}
	sel := Seleccion{Segmento0: i, Segmento1: i, FramePos: framePos}

	seg := ix.clip.Segmentos[i]
	fraccion := framePos - float32(frame)
	if frame == seg.FrameFinal() && i+1 < len(ix.clip.Segmentos) && fraccion > 0 {
		sel.Segmento1 = i + 1
		sel.Dual = true
		sel.Alpha = fraccion
	}
	return sel, nil
}
