package compresor

import (
	"bytes"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
)

// CompresorGzip implementa compresión Gzip
type CompresorGzip struct{}

// Comprimir comprime los datos usando Gzip con el nivel de mejor compresión
func (c *CompresorGzip) Comprimir(datos []byte) ([]byte, error) {
	if len(datos) == 0 {
		return []byte{}, nil
	}

	var buf bytes.Buffer
	gzipWriter, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, errors.Wrap(err, "error al crear writer gzip")
	}

	if _, err := gzipWriter.Write(datos); err != nil {
		return nil, errors.Wrap(err, "error al escribir datos gzip")
	}

	// Cerrar writer para forzar el flush
	if err := gzipWriter.Close(); err != nil {
		return nil, errors.Wrap(err, "error al cerrar writer gzip")
	}

	return buf.Bytes(), nil
}

// Descomprimir descomprime los datos usando Gzip
func (c *CompresorGzip) Descomprimir(datos []byte) ([]byte, error) {
	if len(datos) == 0 {
		return []byte{}, nil
	}

	lector, err := gzip.NewReader(bytes.NewReader(datos))
	if err != nil {
		return nil, errors.Wrap(err, "error al crear reader gzip")
	}
	defer lector.Close()

	resultado, err := io.ReadAll(lector)
	if err != nil {
		return nil, errors.Wrap(err, "error al leer datos gzip")
	}
	return resultado, nil
}
