package compresor

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/pierrec/lz4/v4"
)

// CompresorLZ4 implementa compresión LZ4 en formato de trama
type CompresorLZ4 struct{}

// Comprimir comprime los datos usando LZ4
func (c *CompresorLZ4) Comprimir(datos []byte) ([]byte, error) {
	if len(datos) == 0 {
		return []byte{}, nil
	}

	var comprimido bytes.Buffer
	writer := lz4.NewWriter(&comprimido)
	if err := writer.Apply(lz4.ChecksumOption(true)); err != nil {
		return nil, errors.Wrap(err, "error configurando writer LZ4")
	}

	if _, err := writer.Write(datos); err != nil {
		return nil, errors.Wrap(err, "error al escribir datos LZ4")
	}
	if err := writer.Close(); err != nil {
		return nil, errors.Wrap(err, "error al cerrar writer LZ4")
	}

	return comprimido.Bytes(), nil
}

// Descomprimir descomprime una trama LZ4
func (c *CompresorLZ4) Descomprimir(datos []byte) ([]byte, error) {
	if len(datos) == 0 {
		return []byte{}, nil
	}

	reader := lz4.NewReader(bytes.NewReader(datos))
	resultado, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "error al descomprimir con LZ4")
	}

	return resultado, nil
}
