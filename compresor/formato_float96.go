/*
## Formatos de precisión completa - Ninguno y Float96SinW

Objetivo: Almacenar claves sin pérdida, como float32 IEEE 754 little-endian.

Disposición por clave:
• Vector (Ninguno o Float96SinW): [x: 4 bytes][y: 4 bytes][z: 4 bytes]
• Rotación Ninguno:               [x][y][z][w] (16 bytes)
• Rotación Float96SinW:           [x][y][z] (12 bytes), W reconstruido

Algoritmo (rotación sin W):
1. Normalizar el cuaternión
2. Si W < 0, negar las cuatro componentes (q y -q son la misma rotación)
3. Escribir x, y, z
4. Al decodificar: W = sqrt(max(0, 1 - x² - y² - z²))

Las claves triviales (pistas de una sola clave) siempre usan esta
disposición, independientemente del formato del canal.
*/

package compresor

import (
	"encoding/binary"
	"math"

	"github.com/cbiale/animwave/tipos"
	"github.com/go-gl/mathgl/mgl32"
)

func leerFloat32(datos []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(datos))
}

func agregarFloat32(destino []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(destino, math.Float32bits(v))
}

func decodificarVectorFloat96(datos []byte, _ *tipos.Limites) mgl32.Vec3 {
	_ = datos[11]
	return mgl32.Vec3{leerFloat32(datos), leerFloat32(datos[4:]), leerFloat32(datos[8:])}
}

func agregarVectorFloat96(destino []byte, v mgl32.Vec3) []byte {
	destino = agregarFloat32(destino, v[0])
	destino = agregarFloat32(destino, v[1])
	return agregarFloat32(destino, v[2])
}

func decodificarRotacionNinguno(datos []byte, _ *tipos.Limites) mgl32.Quat {
	_ = datos[15]
	return mgl32.Quat{
		V: mgl32.Vec3{leerFloat32(datos), leerFloat32(datos[4:]), leerFloat32(datos[8:])},
		W: leerFloat32(datos[12:]),
	}
}

func agregarRotacionNinguno(destino []byte, q mgl32.Quat) []byte {
	destino = agregarVectorFloat96(destino, q.V)
	return agregarFloat32(destino, q.W)
}

func decodificarRotacionFloat96(datos []byte, _ *tipos.Limites) mgl32.Quat {
	_ = datos[11]
	return reconstruirW(leerFloat32(datos), leerFloat32(datos[4:]), leerFloat32(datos[8:]))
}

func agregarRotacionFloat96(destino []byte, q mgl32.Quat) []byte {
	return agregarVectorFloat96(destino, prepararRotacion(q).V)
}
