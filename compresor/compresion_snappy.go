package compresor

import (
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/snappy"
)

// CompresorSnappy implementa compresión Snappy en formato de bloque
type CompresorSnappy struct{}

// Comprimir comprime los datos usando Snappy
func (c *CompresorSnappy) Comprimir(datos []byte) ([]byte, error) {
	if len(datos) == 0 {
		return []byte{}, nil
	}
	return snappy.Encode(nil, datos), nil
}

// Descomprimir descomprime los datos usando Snappy
func (c *CompresorSnappy) Descomprimir(datos []byte) ([]byte, error) {
	if len(datos) == 0 {
		return []byte{}, nil
	}

	// El largo declarado se verifica antes de reservar memoria
	largo, err := snappy.DecodedLen(datos)
	if err != nil {
		return nil, errors.Wrap(err, "error leyendo encabezado Snappy")
	}
	descomprimido, err := snappy.Decode(make([]byte, largo), datos)
	if err != nil {
		return nil, errors.Wrap(err, "error al descomprimir con Snappy")
	}
	return descomprimido, nil
}
