package intercambio

import (
	"encoding/binary"

	"github.com/cbiale/animwave/clip"
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
)

// ParsearOrden convierte "LE" o "BE" en un orden de bytes
func ParsearOrden(nombre string) (binary.ByteOrder, error) {
	switch nombre {
	case "", "LE":
		return binary.LittleEndian, nil
	case "BE":
		return binary.BigEndian, nil
	}
	return nil, errors.Wrapf(tipos.ErrConfiguracionInvalida, "orden de bytes '%s' desconocido", nombre)
}

// ExportarDatos retorna Datos y DatosTriviales de c convertidos al orden indicado.
// c debe estar en forma canónica.
func ExportarDatos(c *clip.Clip, orden binary.ByteOrder) (datos, triviales []byte, err error) {
	return convertirClip(c, binary.LittleEndian, orden)
}

// ImportarDatos convierte a forma canónica los Datos y DatosTriviales de c,
// escritos en el orden indicado. c no se modifica; el resultado debe
// validarse con clip.NuevoIndice antes de usarse.
func ImportarDatos(c *clip.Clip, orden binary.ByteOrder) (datos, triviales []byte, err error) {
	return convertirClip(c, orden, binary.LittleEndian)
}

func convertirClip(c *clip.Clip, origen, destino binary.ByteOrder) ([]byte, []byte, error) {
	if len(c.DatosTriviales)%4 != 0 {
		return nil, nil, tipos.Corrupto("datos triviales de %d bytes no alineados", len(c.DatosTriviales))
	}
	ct := nuevoConversor(c.DatosTriviales, origen, destino)
	if err := ct.campos(4, len(c.DatosTriviales)/4); err != nil {
		return nil, nil, err
	}

	for _, canal := range tipos.Canales {
		if c.TieneCanal(canal) && len(c.Triviales[canal]) != c.NumPistas {
			return nil, nil, tipos.Corrupto("canal %s con %d entradas triviales para %d pistas", canal, len(c.Triviales[canal]), c.NumPistas)
		}
	}
	flujos := c.Flujos()
	if len(c.FormatosFlujo) != len(flujos) {
		return nil, nil, tipos.Corrupto("%d formatos de flujo para %d flujos animados", len(c.FormatosFlujo), len(flujos))
	}

	cv := nuevoConversor(c.Datos, origen, destino)
	for i, seg := range c.Segmentos {
		if seg.Desplazamiento != cv.pos {
			return nil, nil, tipos.Corrupto("segmento %d en %d, se esperaba %d", i, seg.Desplazamiento, cv.pos)
		}
		var err error
		if c.Estrategia == tipos.VariableOrdenada {
			err = convertirSegmentoOrdenado(cv, c, flujos)
		} else {
			err = convertirSegmentoPorPista(cv, c, flujos, seg)
		}
		if err != nil {
			return nil, nil, errors.Wrapf(err, "segmento %d", i)
		}
		if cv.pos != seg.Desplazamiento+seg.Tamano {
			return nil, nil, tipos.Corrupto("segmento %d ocupa %d bytes, la tabla indica %d", i, cv.pos-seg.Desplazamiento, seg.Tamano)
		}
	}
	if cv.pos != len(c.Datos) {
		return nil, nil, tipos.Corrupto("%d bytes fuera de los segmentos", len(c.Datos)-cv.pos)
	}
	return cv.salida, ct.salida, nil
}

func convertirSegmentoPorPista(cv *conversor, c *clip.Clip, flujos []clip.Flujo, seg clip.Segmento) error {
	inicio := cv.pos
	desplazamientos := make([]int, len(flujos))
	numClaves := make([]int, len(flujos))
	for i := range flujos {
		d, err := cv.u32()
		if err != nil {
			return errors.Wrap(err, "error intercambiando tabla de flujos")
		}
		n, err := cv.u16()
		if err != nil {
			return errors.Wrap(err, "error intercambiando tabla de flujos")
		}
		desplazamientos[i], numClaves[i] = int(d), int(n)
	}
	if err := cv.relleno(4); err != nil {
		return err
	}

	ancho := 0
	if c.Estrategia == tipos.VariableLineal {
		ancho = clip.AnchoMarcador(seg.NumFrames)
	}
	for i, f := range flujos {
		if cv.pos-inicio != desplazamientos[i] {
			return tipos.Corrupto("bloque del flujo %d en %d, la tabla indica %d", i, cv.pos-inicio, desplazamientos[i])
		}
		b := BloquePista{Formato: c.FormatosFlujo[i], Canal: f.Canal, NumClaves: numClaves[i], AnchoMarcador: ancho}
		if err := cv.bloque(b); err != nil {
			return errors.Wrapf(err, "flujo %d (pista %d, %s)", i, f.Pista, f.Canal)
		}
	}
	return nil
}

func convertirSegmentoOrdenado(cv *conversor, c *clip.Clip, flujos []clip.Flujo) error {
	flujoDe := make(map[clip.Flujo]int, len(flujos))
	for i, f := range flujos {
		flujoDe[f] = i
		if c.FormatosFlujo[i].Info(f.Canal).Limites {
			if err := cv.limites(); err != nil {
				return errors.Wrap(err, "error intercambiando tabla de límites")
			}
		}
	}

	for {
		pista, err := cv.u16()
		if err != nil {
			return err
		}
		b0, err := cv.u8()
		if err != nil {
			return err
		}
		if pista == clip.PistaFinFlujo {
			if b0 != 0 {
				return tipos.Corrupto("fin de flujo con cabecera 0x%02x", b0)
			}
			break
		}
		if clip.TamanoCabecera(b0) == 4 {
			if _, err := cv.u8(); err != nil {
				return err
			}
		}
		canal := clip.CanalCabecera(b0)
		flujo, ok := flujoDe[clip.Flujo{Pista: int(pista), Canal: canal}]
		if !ok {
			return tipos.Corrupto("registro de la pista %d canal %d sin flujo animado", pista, canal)
		}
		if err := cv.claves(c.FormatosFlujo[flujo], canal, 1); err != nil {
			return errors.Wrap(err, "error intercambiando clave de registro")
		}
	}
	return cv.relleno(4)
}
