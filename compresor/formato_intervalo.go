/*
## Formato IntervaloFixed32SinW - 11-11-10 bits relativos a un intervalo

Objetivo: Cuantizar claves dentro del rango real de la pista en el segmento,
ganando precisión cuando el rango es pequeño.

Entrada: claves [v₀, v₁, ..., vₙ] y su encabezado de límites
• min: mínimo por componente
• extension: max - min por componente (0 se guarda como 1)

Salida: [min: 3 × float32][extension: 3 × float32][palabra₀ ... palabraₙ]

Algoritmo:
1. n ← (c - min) / extension, limitado a [0, 1]
2. 11 bits: u ← round(n × 2047); 10 bits: u ← round(n × 1023)
3. Empaquetar x, y, z en 11-11-10 (ver formato_fixed32.go)
4. Decodificación: c ← min + extension × u / (2^bits - 1)

Para rotaciones el intervalo se calcula sobre x, y, z después de llevar cada
cuaternión a W >= 0, y W se reconstruye al decodificar.
*/

package compresor

import (
	"encoding/binary"
	"math"

	"github.com/cbiale/animwave/tipos"
	"github.com/go-gl/mathgl/mgl32"
)

func cuantizarIntervalo(c, min, extension float32, maximo float64) uint32 {
	n := limitar((c-min)/extension, 0, 1)
	return uint32(math.Round(float64(n) * maximo))
}

func empaquetarIntervalo(v mgl32.Vec3, lim *tipos.Limites) uint32 {
	return empaquetar111110(
		cuantizarIntervalo(v[0], lim.Min[0], lim.Extension[0], mascara11),
		cuantizarIntervalo(v[1], lim.Min[1], lim.Extension[1], mascara11),
		cuantizarIntervalo(v[2], lim.Min[2], lim.Extension[2], mascara10),
	)
}

func desempaquetarIntervalo(palabra uint32, lim *tipos.Limites) mgl32.Vec3 {
	x, y, z := desempaquetar111110(palabra)
	return mgl32.Vec3{
		lim.Min[0] + lim.Extension[0]*float32(x)/mascara11,
		lim.Min[1] + lim.Extension[1]*float32(y)/mascara11,
		lim.Min[2] + lim.Extension[2]*float32(z)/mascara10,
	}
}

func decodificarVectorIntervalo(datos []byte, lim *tipos.Limites) mgl32.Vec3 {
	return desempaquetarIntervalo(binary.LittleEndian.Uint32(datos), lim)
}

func agregarVectorIntervalo(destino []byte, v mgl32.Vec3, lim *tipos.Limites) []byte {
	return binary.LittleEndian.AppendUint32(destino, empaquetarIntervalo(v, lim))
}

func decodificarRotacionIntervalo(datos []byte, lim *tipos.Limites) mgl32.Quat {
	v := desempaquetarIntervalo(binary.LittleEndian.Uint32(datos), lim)
	return reconstruirW(v[0], v[1], v[2])
}

func agregarRotacionIntervalo(destino []byte, q mgl32.Quat, lim *tipos.Limites) []byte {
	return binary.LittleEndian.AppendUint32(destino, empaquetarIntervalo(prepararRotacion(q).V, lim))
}

// LimitesRotaciones calcula el intervalo de la parte vectorial de un conjunto
// de rotaciones ya llevadas a W >= 0.
func LimitesRotaciones(rotaciones []mgl32.Quat) tipos.Limites {
	vectores := make([]mgl32.Vec3, len(rotaciones))
	for i, q := range rotaciones {
		vectores[i] = prepararRotacion(q).V
	}
	return tipos.CalcularLimites(vectores)
}

// LeerLimites decodifica un encabezado min/extensión de 24 bytes
func LeerLimites(datos []byte) tipos.Limites {
	_ = datos[tipos.TamanoLimites-1]
	return tipos.Limites{
		Min:       mgl32.Vec3{leerFloat32(datos), leerFloat32(datos[4:]), leerFloat32(datos[8:])},
		Extension: mgl32.Vec3{leerFloat32(datos[12:]), leerFloat32(datos[16:]), leerFloat32(datos[20:])},
	}
}

// AgregarLimites escribe un encabezado min/extensión de 24 bytes
func AgregarLimites(destino []byte, lim tipos.Limites) []byte {
	destino = agregarVectorFloat96(destino, lim.Min)
	return agregarVectorFloat96(destino, lim.Extension)
}
