package clip

import (
	"github.com/cbiale/animwave/tipos"
)

// EstadisticasCanal resume el uso de un canal en el clip
type EstadisticasCanal struct {
	Formato          tipos.FormatoCompresion
	FlujosPorFormato map[tipos.FormatoCompresion]int // flujos animados por formato de claves
	PistasAnimadas   int
	PistasTriviales  int
	PistasIdentidad  int
	Claves           int // claves animadas en todos los segmentos
	BytesClaves      int
	BytesLimites     int
}

// Estadisticas resume el tamaño de un clip comprimido
type Estadisticas struct {
	Canales         [tipos.NumCanales]EstadisticasCanal
	Segmentos       int
	BytesTriviales  int
	BytesMarcas     int
	BytesSobrecarga int // tablas, cabeceras de registro y relleno
	BytesTotales    int
	BytesCrudos     int // float32 por componente, W incluida
	Ratio           float64
}

// CalcularEstadisticas recorre el índice de un clip y contabiliza sus bytes
func CalcularEstadisticas(ix *Indice) Estadisticas {
	c := ix.Clip()
	e := Estadisticas{
		Segmentos:      ix.NumSegmentos(),
		BytesTriviales: len(c.DatosTriviales),
		BytesTotales:   len(c.DatosTriviales) + len(c.Datos),
	}

	for _, canal := range tipos.Canales {
		ec := &e.Canales[canal]
		ec.Formato = c.Formatos[canal]
		if !c.TieneCanal(canal) {
			continue
		}
		for _, marca := range c.Triviales[canal] {
			switch marca {
			case PistaAnimada:
				ec.PistasAnimadas++
			case PistaIdentidad:
				ec.PistasIdentidad++
			default:
				ec.PistasTriviales++
			}
		}
	}

	flujos := ix.Flujos()
	for j, f := range flujos {
		ec := &e.Canales[f.Canal]
		if ec.FlujosPorFormato == nil {
			ec.FlujosPorFormato = make(map[tipos.FormatoCompresion]int)
		}
		ec.FlujosPorFormato[ix.Formato(j)]++
	}
	for i := 0; i < ix.NumSegmentos(); i++ {
		seg := ix.Segmento(i)
		for j, f := range flujos {
			info := ix.Info(j)
			ec := &e.Canales[f.Canal]
			claves := seg.Bloques[j].NumClaves
			ec.Claves += claves
			ec.BytesClaves += claves * info.TamanoClave()
			if info.Limites {
				ec.BytesLimites += tipos.TamanoLimites
			}
			e.BytesMarcas += claves * seg.AnchoMarcador
		}
	}

	utiles := e.BytesMarcas
	for _, ec := range e.Canales {
		utiles += ec.BytesClaves + ec.BytesLimites
	}
	e.BytesSobrecarga = len(c.Datos) - utiles

	componentes := 3 + 4
	if c.TieneEscala {
		componentes += 3
	}
	e.BytesCrudos = c.NumFrames * c.NumPistas * componentes * 4
	if e.BytesTotales > 0 {
		e.Ratio = float64(e.BytesCrudos) / float64(e.BytesTotales)
	}
	return e
}
