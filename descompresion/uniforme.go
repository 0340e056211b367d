package descompresion

import (
	"github.com/cbiale/animwave/clip"
	"github.com/cbiale/animwave/interpolacion"
	"github.com/cbiale/animwave/tipos"
)

// evaluador resuelve las claves de cada flujo dentro de un segmento.
// framePos es relativo al inicio del segmento.
type evaluador interface {
	preparar(seg *clip.IndiceSegmento) error
	avanzar(framePos float32) error
	// claves retorna los bytes de las dos claves que rodean la posición, el
	// factor de mezcla y los límites del flujo.
	claves(flujo int) (k0, k1 []byte, alpha float32, lim *tipos.Limites)
}

func nuevoEvaluador(ix *clip.Indice) evaluador {
	switch ix.Clip().Estrategia {
	case tipos.VariableLineal:
		return &evaluadorLineal{ix: ix}
	case tipos.VariableOrdenada:
		return &evaluadorOrdenado{ix: ix}
	}
	return &evaluadorUniforme{ix: ix}
}

// claveEn retorna los bytes de la clave k de un bloque por pista
func claveEn(ix *clip.Indice, bloque clip.BloqueFlujo, tamano, k int) []byte {
	inicio := bloque.Claves + k*tamano
	return ix.Clip().Datos[inicio : inicio+tamano]
}

// evaluadorUniforme: las claves cubren todos los frames del segmento y el
// índice se obtiene en O(1).
type evaluadorUniforme struct {
	ix       *clip.Indice
	seg      *clip.IndiceSegmento
	framePos float32
}

func (e *evaluadorUniforme) preparar(seg *clip.IndiceSegmento) error {
	e.seg = seg
	e.framePos = 0
	return nil
}

func (e *evaluadorUniforme) avanzar(framePos float32) error {
	e.framePos = framePos
	return nil
}

func (e *evaluadorUniforme) claves(flujo int) ([]byte, []byte, float32, *tipos.Limites) {
	bloque := e.seg.Bloques[flujo]
	tamano := e.ix.Info(flujo).TamanoClave()

	var relativa float32
	if e.seg.NumFrames > 1 {
		relativa = e.framePos / float32(e.seg.NumFrames-1)
	}
	r := interpolacion.ResolverUniforme(relativa, bloque.NumClaves)
	return claveEn(e.ix, bloque, tamano, r.Indice0), claveEn(e.ix, bloque, tamano, r.Indice1), r.Alpha, &e.seg.Limites[flujo]
}
