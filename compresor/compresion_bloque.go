package compresor

import (
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
)

// CompresorBloque comprime un contenedor de clip completo (nivel 2).
// Las implementaciones no guardan estado y pueden compartirse entre goroutines.
type CompresorBloque interface {
	Comprimir(datos []byte) ([]byte, error)
	Descomprimir(datos []byte) ([]byte, error)
}

// ObtenerCompresorBloque retorna el compresor de bloque para el tipo dado
func ObtenerCompresorBloque(tipo tipos.TipoCompresionBloque) (CompresorBloque, error) {
	switch tipo {
	case tipos.Ninguna, "":
		return &CompresorBloqueNinguno{}, nil
	case tipos.LZ4:
		return &CompresorLZ4{}, nil
	case tipos.ZSTD:
		return &CompresorZSTD{}, nil
	case tipos.Snappy:
		return &CompresorSnappy{}, nil
	case tipos.Gzip:
		return &CompresorGzip{}, nil
	}
	return nil, errors.Wrapf(tipos.ErrConfiguracionInvalida, "compresión de bloque desconocida: '%s'", string(tipo))
}

// CompresorBloqueNinguno copia los datos sin comprimir
type CompresorBloqueNinguno struct{}

// Comprimir retorna una copia de los datos
func (c *CompresorBloqueNinguno) Comprimir(datos []byte) ([]byte, error) {
	return append([]byte{}, datos...), nil
}

// Descomprimir retorna una copia de los datos
func (c *CompresorBloqueNinguno) Descomprimir(datos []byte) ([]byte, error) {
	return append([]byte{}, datos...), nil
}
