package compresor

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
)

// CompresorZSTD implementa compresión Zstd
type CompresorZSTD struct{}

// El encoder y el decoder de zstd son seguros para EncodeAll/DecodeAll
// concurrentes, así que se crean una sola vez.
var (
	zstdUnaVez    sync.Once
	zstdEncoder   *zstd.Encoder
	zstdDecoder   *zstd.Decoder
	zstdErrorInit error
)

func iniciarZSTD() error {
	zstdUnaVez.Do(func() {
		zstdEncoder, zstdErrorInit = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
		if zstdErrorInit != nil {
			return
		}
		zstdDecoder, zstdErrorInit = zstd.NewReader(nil, zstd.WithDecoderConcurrency(0))
	})
	return zstdErrorInit
}

// Comprimir comprime los datos usando el algoritmo Zstd.
func (c *CompresorZSTD) Comprimir(datos []byte) ([]byte, error) {
	// Si no hay datos, retornar vacío
	if len(datos) == 0 {
		return []byte{}, nil
	}
	if err := iniciarZSTD(); err != nil {
		return nil, errors.Wrap(err, "error al crear encoder con Zstd")
	}
	return zstdEncoder.EncodeAll(datos, make([]byte, 0, len(datos))), nil
}

// Descomprimir descomprime los datos usando el algoritmo Zstd.
func (c *CompresorZSTD) Descomprimir(datos []byte) ([]byte, error) {
	if len(datos) == 0 {
		return []byte{}, nil
	}
	if err := iniciarZSTD(); err != nil {
		return nil, errors.Wrap(err, "error creando decoder con Zstd")
	}
	descomprimido, err := zstdDecoder.DecodeAll(datos, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error al descomprimir con Zstd")
	}
	return descomprimido, nil
}
