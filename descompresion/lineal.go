package descompresion

import (
	"github.com/cbiale/animwave/clip"
	"github.com/cbiale/animwave/interpolacion"
	"github.com/cbiale/animwave/tipos"
)

// evaluadorLineal busca en la tabla de marcas de cada flujo
type evaluadorLineal struct {
	ix       *clip.Indice
	seg      *clip.IndiceSegmento
	framePos float32
}

func (e *evaluadorLineal) preparar(seg *clip.IndiceSegmento) error {
	e.seg = seg
	e.framePos = 0
	return nil
}

func (e *evaluadorLineal) avanzar(framePos float32) error {
	e.framePos = framePos
	return nil
}

func (e *evaluadorLineal) claves(flujo int) ([]byte, []byte, float32, *tipos.Limites) {
	bloque := e.seg.Bloques[flujo]
	tamano := e.ix.Info(flujo).TamanoClave()

	r := interpolacion.ResolverLineal(e.ix.Marcas(e.seg, bloque), e.framePos)
	return claveEn(e.ix, bloque, tamano, r.Indice0), claveEn(e.ix, bloque, tamano, r.Indice1), r.Alpha, &e.seg.Limites[flujo]
}
