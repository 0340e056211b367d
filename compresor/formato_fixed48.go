/*
## Formato Fixed48SinW - Rotaciones en 3 × 16 bits

Objetivo: Almacenar la parte vectorial de un cuaternión unitario con W >= 0
en 6 bytes, con paso de 2 bytes por componente.

Entrada: cuaternión q (se normaliza y se lleva a W >= 0)

Salida por clave: [x: uint16][y: uint16][z: uint16] little-endian

Algoritmo:
1. Cada componente c ∈ [-1, 1]:
 • u ← round(c × 32767) + 32767, limitado a [0, 65535]
2. Decodificación:
 • c ← (u - 32767) / 32767
 • W ← sqrt(max(0, 1 - x² - y² - z²))

Error máximo por componente: 1/65534
*/

package compresor

import (
	"encoding/binary"
	"math"

	"github.com/cbiale/animwave/tipos"
	"github.com/go-gl/mathgl/mgl32"
)

const desplazamiento16 = 32767

func cuantizar16(c float32) uint16 {
	u := math.Round(float64(limitar(c, -1, 1))*desplazamiento16) + desplazamiento16
	return uint16(u)
}

func decuantizar16(u uint16) float32 {
	return (float32(u) - desplazamiento16) / desplazamiento16
}

func decodificarRotacionFixed48(datos []byte, _ *tipos.Limites) mgl32.Quat {
	_ = datos[5]
	return reconstruirW(
		decuantizar16(binary.LittleEndian.Uint16(datos)),
		decuantizar16(binary.LittleEndian.Uint16(datos[2:])),
		decuantizar16(binary.LittleEndian.Uint16(datos[4:])),
	)
}

func agregarRotacionFixed48(destino []byte, q mgl32.Quat) []byte {
	q = prepararRotacion(q)
	destino = binary.LittleEndian.AppendUint16(destino, cuantizar16(q.V[0]))
	destino = binary.LittleEndian.AppendUint16(destino, cuantizar16(q.V[1]))
	return binary.LittleEndian.AppendUint16(destino, cuantizar16(q.V[2]))
}
