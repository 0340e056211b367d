package tipos

import "github.com/cockroachdb/errors"

// Algoritmos de compresión para clips de animación
//
// El sistema soporta dos niveles de compresión:
// - Nivel 1 (FormatoCompresion): cuantización de cada clave por canal
// - Nivel 2 (TipoCompresionBloque): compresión genérica del contenedor almacenado
//
// El nivel 1 se decodifica en caliente durante la reproducción; el nivel 2
// solo se deshace al cargar el clip desde un almacén.

// TipoCompresionBloque - Algoritmos de compresión de nivel 2 (bloques completos)
type TipoCompresionBloque string

// Valores posibles para TipoCompresionBloque
const (
	Ninguna TipoCompresionBloque = "Ninguna" // Sin compresión
	LZ4     TipoCompresionBloque = "LZ4"     // LZ4 - rápido, compresión moderada
	ZSTD    TipoCompresionBloque = "ZSTD"    // Zstandard - mejor compresión, más lento
	Snappy  TipoCompresionBloque = "Snappy"  // Snappy - muy rápido, compresión baja
	Gzip    TipoCompresionBloque = "Gzip"    // Gzip - compatible, compresión moderada
)

// Validar verifica que el algoritmo de bloque sea conocido
func (t TipoCompresionBloque) Validar() error {
	switch t {
	case Ninguna, LZ4, ZSTD, Snappy, Gzip:
		return nil
	}
	return errors.Wrapf(ErrConfiguracionInvalida, "compresión de bloque desconocida: '%s'", string(t))
}
