package almacen

import (
	"github.com/cbiale/animwave/clip"
	"github.com/cbiale/animwave/tipos"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ResumenClip es la ficha de un clip guardada junto al contenedor. Permite
// listar y filtrar clips sin descomprimirlos.
type ResumenClip struct {
	ID              string                   `json:"id"`
	Nombre          string                   `json:"nombre"`
	NumFrames       int                      `json:"num_frames"`
	Duracion        float32                  `json:"duracion"`
	NumPistas       int                      `json:"num_pistas"`
	Estrategia      string                   `json:"estrategia"`
	Formatos        [tipos.NumCanales]string `json:"formatos"`
	Segmentos       int                      `json:"segmentos"`
	BytesClip       int                      `json:"bytes_clip"`
	BytesContenedor int                      `json:"bytes_contenedor"`
	Ratio           float64                  `json:"ratio"`
}

// Resumir construye la ficha de un clip indexado y su contenedor
func Resumir(ix *clip.Indice, bytesContenedor int) ResumenClip {
	c := ix.Clip()
	est := clip.CalcularEstadisticas(ix)
	r := ResumenClip{
		ID:              c.ID,
		Nombre:          c.Nombre,
		NumFrames:       c.NumFrames,
		Duracion:        c.Duracion,
		NumPistas:       c.NumPistas,
		Estrategia:      c.Estrategia.String(),
		Segmentos:       est.Segmentos,
		BytesClip:       est.BytesTotales,
		BytesContenedor: bytesContenedor,
		Ratio:           est.Ratio,
	}
	for _, canal := range tipos.Canales {
		r.Formatos[canal] = c.Formatos[canal].String()
	}
	return r
}

func serializarResumen(r ResumenClip) ([]byte, error) {
	return json.Marshal(r)
}

func deserializarResumen(datos []byte) (ResumenClip, error) {
	var r ResumenClip
	err := json.Unmarshal(datos, &r)
	return r, err
}
