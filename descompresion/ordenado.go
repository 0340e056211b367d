package descompresion

import (
	"github.com/cbiale/animwave/clip"
	"github.com/cbiale/animwave/interpolacion"
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
)

// claveCache es una clave ya leída del flujo ordenado
type claveCache struct {
	frame int
	datos []byte
}

// cacheFlujo guarda las dos últimas claves leídas de un flujo
type cacheFlujo struct {
	claves [2]claveCache
	n      int
}

func (c *cacheFlujo) agregar(k claveCache) {
	c.claves[0] = c.claves[1]
	c.claves[1] = k
	if c.n < 2 {
		c.n++
	}
}

// necesario es el frame a partir del cual hace falta la próxima clave
func (c *cacheFlujo) necesario() int {
	if c.n == 0 {
		return -1
	}
	return c.claves[1].frame
}

// evaluadorOrdenado consume el flujo de registros hacia adelante. Solo avanza:
// retroceder exige preparar el segmento de nuevo.
type evaluadorOrdenado struct {
	ix        *clip.Indice
	seg       *clip.IndiceSegmento
	cursor    *clip.Cursor
	frame     int // frame absoluto dentro del segmento del último registro
	terminado bool
	caches    []cacheFlujo
	framePos  float32
}

func (e *evaluadorOrdenado) preparar(seg *clip.IndiceSegmento) error {
	e.seg = seg
	datos := e.ix.Clip().Datos[:seg.Desplazamiento+seg.Tamano]
	e.cursor = clip.NuevoCursor(datos, seg.InicioRegistros)
	e.frame = 0
	e.terminado = false
	e.framePos = 0
	if cap(e.caches) >= len(seg.Bloques) {
		e.caches = e.caches[:len(seg.Bloques)]
		for i := range e.caches {
			e.caches[i] = cacheFlujo{}
		}
	} else {
		e.caches = make([]cacheFlujo, len(seg.Bloques))
	}
	return nil
}

// avanzar lee registros mientras el flujo al que pertenecen ya necesite su
// siguiente clave en framePos.
func (e *evaluadorOrdenado) avanzar(framePos float32) error {
	e.framePos = framePos
	for !e.terminado {
		inicio := e.cursor.Posicion()
		cab, err := clip.LeerCabeceraRegistro(e.cursor)
		if err != nil {
			return err
		}
		if cab.Fin {
			e.terminado = true
			break
		}
		flujo, err := e.ix.FlujoDeRegistro(cab)
		if err != nil {
			return err
		}
		cache := &e.caches[flujo]
		if float32(cache.necesario()) > framePos {
			e.cursor.Reubicar(inicio)
			break
		}

		frame := e.frame + cab.Delta
		if frame < 0 || frame >= e.seg.NumFrames || (cache.n > 0 && frame <= cache.claves[1].frame) {
			return tipos.Corrupto("registro de la pista %d en el frame %d fuera de orden", cab.Pista, frame)
		}
		datos, err := e.cursor.Bytes(e.ix.Info(flujo).TamanoClave())
		if err != nil {
			return errors.Wrap(err, "error leyendo clave de registro")
		}
		cache.agregar(claveCache{frame: frame, datos: datos})
		e.frame = frame
	}
	return nil
}

func (e *evaluadorOrdenado) claves(flujo int) ([]byte, []byte, float32, *tipos.Limites) {
	cache := &e.caches[flujo]
	lim := &e.seg.Limites[flujo]
	c0, c1 := cache.claves[0], cache.claves[1]
	if cache.n < 2 || e.framePos >= float32(c1.frame) {
		return c1.datos, c1.datos, 0, lim
	}
	return c0.datos, c1.datos, interpolacion.AlphaEntreFrames(e.framePos, c0.frame, c1.frame), lim
}
