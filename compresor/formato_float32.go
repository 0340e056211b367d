/*
## Formato Float32SinW - Rotaciones como minifloats 11-11-10

Objetivo: Representar x, y, z con precisión relativa (mayor cerca de cero)
en una palabra de 32 bits.

Minifloat de 11 bits: [signo: 1][exponente: 3][mantisa: 7]
Minifloat de 10 bits: [signo: 1][exponente: 3][mantisa: 6]

Sesgo del exponente: 7
• exponente > 0: valor = (1 + mantisa / 2^m) × 2^(exponente - 7)   → [2^-6, 2)
• exponente = 0: valor = (mantisa / 2^m) × 2^-6                    (subnormal)

Las componentes de un cuaternión unitario están en [-1, 1], por lo que el
rango superior nunca se satura en datos válidos.
*/

package compresor

import (
	"encoding/binary"
	"math"

	"github.com/cbiale/animwave/tipos"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	sesgoMiniFloat   = 7
	maxExponenteMini = 7
	minNormalMini    = 1.0 / 64
)

func codificarMiniFloat(v float32, bitsMantisa uint) uint32 {
	var signo uint32
	if v < 0 {
		signo = 1
		v = -v
	}
	escala := float64(uint32(1) << bitsMantisa)
	maxMantisa := uint32(1)<<bitsMantisa - 1

	var exponente int
	var mantisa float64
	if v >= minNormalMini {
		frac, e := math.Frexp(float64(v)) // v = frac × 2^e, frac ∈ [0.5, 1)
		exponente = e - 1 + sesgoMiniFloat
		mantisa = math.Round((2*frac - 1) * escala)
		if mantisa >= escala {
			mantisa = 0
			exponente++
		}
	} else {
		mantisa = math.Round(float64(v) / minNormalMini * escala)
		if mantisa >= escala {
			mantisa = 0
			exponente = 1
		}
	}
	if exponente > maxExponenteMini {
		exponente = maxExponenteMini
		mantisa = float64(maxMantisa)
	}
	return signo<<(bitsMantisa+3) | uint32(exponente)<<bitsMantisa | uint32(mantisa)
}

func decodificarMiniFloat(bits uint32, bitsMantisa uint) float32 {
	escala := float32(uint32(1) << bitsMantisa)
	mantisa := bits & (uint32(1)<<bitsMantisa - 1)
	exponente := (bits >> bitsMantisa) & 0x7
	signo := (bits >> (bitsMantisa + 3)) & 0x1

	var v float32
	if exponente == 0 {
		v = float32(mantisa) / escala * minNormalMini
	} else {
		v = (1 + float32(mantisa)/escala) * float32(math.Ldexp(1, int(exponente)-sesgoMiniFloat))
	}
	if signo == 1 {
		v = -v
	}
	return v
}

func decodificarRotacionFloat32(datos []byte, _ *tipos.Limites) mgl32.Quat {
	x, y, z := desempaquetar111110(binary.LittleEndian.Uint32(datos))
	return reconstruirW(
		decodificarMiniFloat(x, 7),
		decodificarMiniFloat(y, 7),
		decodificarMiniFloat(z, 6),
	)
}

func agregarRotacionFloat32(destino []byte, q mgl32.Quat) []byte {
	q = prepararRotacion(q)
	palabra := empaquetar111110(
		codificarMiniFloat(q.V[0], 7),
		codificarMiniFloat(q.V[1], 7),
		codificarMiniFloat(q.V[2], 6),
	)
	return binary.LittleEndian.AppendUint32(destino, palabra)
}
