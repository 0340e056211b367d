/*
## Cabecera de registro del flujo ordenado

Cada registro del flujo VariableOrdenada lleva una clave de una pista:

	[pista: uint16 LE][b0][b1 opcional][bytes de la clave]

b0:
• bit 7:    cabecera grande (lleva b1)
• bits 5-6: canal (0 traslación, 1 rotación, 2 escala)
• bits 0-4: bits bajos del delta de frame

Delta de frame respecto al registro anterior, con signo en complemento a 2:
• pequeño: 5 bits, rango [-16, 15]  → cabecera de 24 bits
• grande: 13 bits (b0 bajos + b1 << 5), rango [-4096, 4095] → 32 bits

Fin de flujo: pista = 0xFFFF, b0 = 0.
*/

package clip

import (
	"github.com/cbiale/animwave/tipos"
)

// PistaFinFlujo es la pista del registro que cierra el flujo ordenado
const PistaFinFlujo = 0xFFFF

const (
	bitCabeceraGrande = 0x80
	minDeltaPequeno   = -16
	maxDeltaPequeno   = 15
	minDeltaGrande    = -4096
	maxDeltaGrande    = 4095
)

// CabeceraRegistro es la cabecera decodificada de un registro ordenado
type CabeceraRegistro struct {
	Pista int
	Canal tipos.TipoCanal
	Delta int
	Fin   bool
}

func extenderSigno(valor uint32, bits uint) int {
	desplazamiento := 32 - bits
	return int(int32(valor<<desplazamiento) >> desplazamiento)
}

// LeerCabeceraRegistro lee una cabecera en la posición del cursor
func LeerCabeceraRegistro(c *Cursor) (CabeceraRegistro, error) {
	pista, err := c.U16()
	if err != nil {
		return CabeceraRegistro{}, err
	}
	b0, err := c.U8()
	if err != nil {
		return CabeceraRegistro{}, err
	}
	if pista == PistaFinFlujo {
		if b0 != 0 {
			return CabeceraRegistro{}, tipos.Corrupto("fin de flujo con cabecera 0x%02x", b0)
		}
		return CabeceraRegistro{Fin: true}, nil
	}

	canal := CanalCabecera(b0)
	if canal >= tipos.NumCanales {
		return CabeceraRegistro{}, tipos.Corrupto("canal %d inválido en registro de la pista %d", canal, pista)
	}
	bajos := uint32(b0 & 0x1F)
	delta := extenderSigno(bajos, 5)
	if b0&bitCabeceraGrande != 0 {
		b1, err := c.U8()
		if err != nil {
			return CabeceraRegistro{}, err
		}
		delta = extenderSigno(bajos|uint32(b1)<<5, 13)
	}
	return CabeceraRegistro{Pista: int(pista), Canal: canal, Delta: delta}, nil
}

// AgregarCabeceraRegistro escribe la cabecera más corta que representa delta
func AgregarCabeceraRegistro(destino []byte, pista int, canal tipos.TipoCanal, delta int) ([]byte, error) {
	if pista < 0 || pista >= PistaFinFlujo {
		return destino, tipos.Corrupto("índice de pista %d no representable", pista)
	}
	destino = append(destino, byte(pista), byte(pista>>8))
	b0 := byte(canal&0x3) << 5
	switch {
	case delta >= minDeltaPequeno && delta <= maxDeltaPequeno:
		return append(destino, b0|byte(delta&0x1F)), nil
	case delta >= minDeltaGrande && delta <= maxDeltaGrande:
		return append(destino, bitCabeceraGrande|b0|byte(delta&0x1F), byte((delta>>5)&0xFF)), nil
	}
	return destino, tipos.Corrupto("delta de frame %d no representable", delta)
}

// AgregarFinFlujo escribe el registro de fin de flujo
func AgregarFinFlujo(destino []byte) []byte {
	return append(destino, 0xFF, 0xFF, 0)
}

// CanalCabecera extrae el canal del byte de control b0
func CanalCabecera(b0 byte) tipos.TipoCanal {
	return tipos.TipoCanal((b0 >> 5) & 0x3)
}

// TamanoCabecera retorna los bytes de cabecera, pista incluida, según el
// byte de control b0.
func TamanoCabecera(b0 byte) int {
	if b0&bitCabeceraGrande != 0 {
		return 4
	}
	return 3
}
