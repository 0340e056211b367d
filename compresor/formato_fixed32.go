/*
## Formatos de 32 bits - Empaquetado 11-11-10

Los formatos Fixed32SinW, IntervaloFixed32SinW y Float32SinW comparten la
misma palabra de 32 bits:

	bit 31            21 20            10 9              0
	   [      x: 11     ][      y: 11     ][     z: 10     ]

Fixed32SinW (solo rotación):
• 11 bits: u ← round(c × 1023) + 1023  →  c = (u - 1023) / 1023
• 10 bits: u ← round(c × 511) + 511    →  c = (u - 511) / 511

IntervaloFixed32SinW y Float32SinW se describen en sus propios archivos.
*/

package compresor

import (
	"encoding/binary"
	"math"

	"github.com/cbiale/animwave/tipos"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	mascara11 = 0x7FF
	mascara10 = 0x3FF
)

func empaquetar111110(x, y, z uint32) uint32 {
	return (x&mascara11)<<21 | (y&mascara11)<<10 | z&mascara10
}

func desempaquetar111110(v uint32) (x, y, z uint32) {
	return v >> 21, (v >> 10) & mascara11, v & mascara10
}

// cuantizarConSigno lleva c ∈ [-1,1] a [0, 2×desplazamiento]
func cuantizarConSigno(c float32, desplazamiento float64) uint32 {
	return uint32(math.Round(float64(limitar(c, -1, 1))*desplazamiento) + desplazamiento)
}

func decuantizarConSigno(u uint32, desplazamiento float32) float32 {
	return (float32(u) - desplazamiento) / desplazamiento
}

func decodificarRotacionFixed32(datos []byte, _ *tipos.Limites) mgl32.Quat {
	x, y, z := desempaquetar111110(binary.LittleEndian.Uint32(datos))
	return reconstruirW(
		decuantizarConSigno(x, 1023),
		decuantizarConSigno(y, 1023),
		decuantizarConSigno(z, 511),
	)
}

func agregarRotacionFixed32(destino []byte, q mgl32.Quat) []byte {
	q = prepararRotacion(q)
	palabra := empaquetar111110(
		cuantizarConSigno(q.V[0], 1023),
		cuantizarConSigno(q.V[1], 1023),
		cuantizarConSigno(q.V[2], 511),
	)
	return binary.LittleEndian.AppendUint32(destino, palabra)
}
