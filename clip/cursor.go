package clip

import (
	"encoding/binary"

	"github.com/cbiale/animwave/tipos"
)

// Cursor lee un flujo comprimido con verificación de límites. Toda lectura
// fuera del buffer es un error de datos corruptos.
type Cursor struct {
	datos []byte
	pos   int
}

// NuevoCursor crea un cursor sobre datos en la posición indicada
func NuevoCursor(datos []byte, pos int) *Cursor {
	return &Cursor{datos: datos, pos: pos}
}

// Posicion retorna el desplazamiento actual
func (c *Cursor) Posicion() int { return c.pos }

// Reubicar mueve el cursor a una posición ya leída
func (c *Cursor) Reubicar(pos int) { c.pos = pos }

// Restantes retorna los bytes sin leer
func (c *Cursor) Restantes() int { return len(c.datos) - c.pos }

// Bytes avanza n bytes y los retorna sin copiar
func (c *Cursor) Bytes(n int) ([]byte, error) {
	if n < 0 || c.pos < 0 || n > c.Restantes() {
		return nil, tipos.Corrupto("lectura de %d bytes en %d excede el flujo de %d bytes", n, c.pos, len(c.datos))
	}
	b := c.datos[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// Saltar avanza n bytes
func (c *Cursor) Saltar(n int) error {
	_, err := c.Bytes(n)
	return err
}

func (c *Cursor) U8() (uint8, error) {
	b, err := c.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *Cursor) U16() (uint16, error) {
	b, err := c.Bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (c *Cursor) U32() (uint32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// AlinearCentinela salta el relleno hasta la alineación verificando que cada
// byte sea el centinela.
func (c *Cursor) AlinearCentinela(alineacion int) error {
	relleno := tipos.Alinear(c.pos, alineacion) - c.pos
	b, err := c.Bytes(relleno)
	if err != nil {
		return err
	}
	for i, v := range b {
		if v != tipos.CentinelaRelleno {
			return tipos.Corrupto("byte de relleno 0x%02x en %d, se esperaba 0x%02x", v, c.pos-relleno+i, tipos.CentinelaRelleno)
		}
	}
	return nil
}

// Rellenar agrega bytes centinela hasta que len(destino) sea múltiplo de alineacion
func Rellenar(destino []byte, alineacion int) []byte {
	for len(destino)%alineacion != 0 {
		destino = append(destino, tipos.CentinelaRelleno)
	}
	return destino
}
