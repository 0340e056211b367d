/*
## Contenedor de clip persistido

	Contenedor (gob)
	├── Version
	├── OrdenBytes        "LE" | "BE"
	├── CompresionBloque  Ninguna | LZ4 | ZSTD | Snappy | Gzip
	└── Carga             comprimir(gob(clip.Clip)) con Datos en OrdenBytes

Empaquetar: intercambio al orden configurado → gob → compresión de bloque.
Desempaquetar: inverso, y el clip resultante se valida con clip.NuevoIndice
antes de entregarse.
*/

package almacen

import (
	"github.com/cbiale/animwave/clip"
	"github.com/cbiale/animwave/compresor"
	"github.com/cbiale/animwave/intercambio"
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
)

// VersionContenedor es la versión de formato que escribe este paquete
const VersionContenedor = 1

// Contenedor es el sobre persistido de un clip
type Contenedor struct {
	Version          uint16
	OrdenBytes       string
	CompresionBloque tipos.TipoCompresionBloque
	Carga            []byte
}

// Empaquetar serializa un clip canónico en un contenedor
func Empaquetar(c *clip.Clip, cfg ConfiguracionAlmacen) ([]byte, error) {
	cfg.AplicarDefaults()
	if err := cfg.Validar(); err != nil {
		return nil, err
	}
	orden, err := intercambio.ParsearOrden(cfg.OrdenBytes)
	if err != nil {
		return nil, err
	}

	persistido := *c
	persistido.Datos, persistido.DatosTriviales, err = intercambio.ExportarDatos(c, orden)
	if err != nil {
		return nil, errors.Wrap(err, "error exportando datos del clip")
	}
	serializado, err := tipos.SerializarGob(&persistido)
	if err != nil {
		return nil, errors.Wrap(err, "error serializando clip")
	}

	compresorBloque, err := compresor.ObtenerCompresorBloque(cfg.CompresionBloque)
	if err != nil {
		return nil, err
	}
	carga, err := compresorBloque.Comprimir(serializado)
	if err != nil {
		return nil, errors.Wrapf(err, "error comprimiendo con %s", cfg.CompresionBloque)
	}

	return tipos.SerializarGob(Contenedor{
		Version:          VersionContenedor,
		OrdenBytes:       cfg.OrdenBytes,
		CompresionBloque: cfg.CompresionBloque,
		Carga:            carga,
	})
}

// Desempaquetar reconstruye y valida un clip desde un contenedor
func Desempaquetar(datos []byte) (*clip.Indice, error) {
	var cont Contenedor
	if err := tipos.DeserializarGob(datos, &cont); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "error leyendo contenedor"), tipos.ErrDatosCorruptos)
	}
	if cont.Version != VersionContenedor {
		return nil, tipos.Corrupto("versión de contenedor %d no soportada", cont.Version)
	}
	orden, err := intercambio.ParsearOrden(cont.OrdenBytes)
	if err != nil {
		return nil, errors.Mark(err, tipos.ErrDatosCorruptos)
	}
	compresorBloque, err := compresor.ObtenerCompresorBloque(cont.CompresionBloque)
	if err != nil {
		return nil, errors.Mark(err, tipos.ErrDatosCorruptos)
	}

	serializado, err := compresorBloque.Descomprimir(cont.Carga)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "error descomprimiendo con %s", cont.CompresionBloque), tipos.ErrDatosCorruptos)
	}
	c := &clip.Clip{}
	if err := tipos.DeserializarGob(serializado, c); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "error deserializando clip"), tipos.ErrDatosCorruptos)
	}

	c.Datos, c.DatosTriviales, err = intercambio.ImportarDatos(c, orden)
	if err != nil {
		return nil, errors.Wrap(err, "error importando datos del clip")
	}
	return clip.NuevoIndice(c)
}
