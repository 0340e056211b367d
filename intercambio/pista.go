/*
## Intercambio de orden de bytes

El flujo comprimido se guarda en little-endian. Exportar a otro orden
invierte cada campo multibyte según su ancho; importar es el recorrido
inverso. Ambos comparten el mismo recorrido (conversor), por lo que el
orden de los campos es idéntico en los dos sentidos.

Bloque de pista:

	[límites: 6 × 4 bytes][claves: n × componentes × paso][relleno 4][marcas: n × ancho][relleno 4]

• paso 2 o 4: se invierte cada componente
• marcas de 1 byte se copian; de 2 bytes se invierten
• el relleno se copia y se verifica contra el centinela 0x55
*/

package intercambio

import (
	"encoding/binary"
	"io"

	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
)

// BloquePista describe la disposición de un bloque de pista
type BloquePista struct {
	Formato       tipos.FormatoCompresion
	Canal         tipos.TipoCanal
	NumClaves     int
	AnchoMarcador int // 0 en bloques uniformes
}

// Tamano retorna los bytes del bloque completo, rellenos incluidos
func (b BloquePista) Tamano() int {
	info := b.Formato.Info(b.Canal)
	n := b.NumClaves * info.TamanoClave()
	if info.Limites {
		n += tipos.TamanoLimites
	}
	n = tipos.Alinear(n, 4)
	if b.AnchoMarcador > 0 {
		n = tipos.Alinear(n+b.NumClaves*b.AnchoMarcador, 4)
	}
	return n
}

func (b BloquePista) validar() error {
	if err := b.Formato.ValidarPara(b.Canal); err != nil {
		return err
	}
	if b.NumClaves < 0 || b.AnchoMarcador < 0 || b.AnchoMarcador > 2 {
		return errors.Newf("bloque con %d claves y marcas de %d bytes", b.NumClaves, b.AnchoMarcador)
	}
	return nil
}

// conversor recorre un flujo leyendo cada campo en el orden origen y
// escribiéndolo en el orden destino.
type conversor struct {
	origen  binary.ByteOrder
	destino binary.ByteOrder
	datos   []byte
	pos     int
	salida  []byte
}

func nuevoConversor(datos []byte, origen, destino binary.ByteOrder) *conversor {
	return &conversor{origen: origen, destino: destino, datos: datos, salida: make([]byte, 0, len(datos))}
}

func (c *conversor) tomar(n int) ([]byte, error) {
	if n < 0 || n > len(c.datos)-c.pos {
		return nil, tipos.Corrupto("intercambio de %d bytes en %d excede el flujo de %d bytes", n, c.pos, len(c.datos))
	}
	b := c.datos[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *conversor) agregar16(v uint16) {
	n := len(c.salida)
	c.salida = append(c.salida, 0, 0)
	c.destino.PutUint16(c.salida[n:], v)
}

func (c *conversor) agregar32(v uint32) {
	n := len(c.salida)
	c.salida = append(c.salida, 0, 0, 0, 0)
	c.destino.PutUint32(c.salida[n:], v)
}

// campos convierte n campos de ancho bytes
func (c *conversor) campos(ancho, n int) error {
	b, err := c.tomar(ancho * n)
	if err != nil {
		return err
	}
	switch ancho {
	case 1:
		c.salida = append(c.salida, b...)
	case 2:
		for i := 0; i < n; i++ {
			c.agregar16(c.origen.Uint16(b[2*i:]))
		}
	case 4:
		for i := 0; i < n; i++ {
			c.agregar32(c.origen.Uint32(b[4*i:]))
		}
	default:
		return errors.Newf("campo de %d bytes no soportado", ancho)
	}
	return nil
}

func (c *conversor) u8() (uint8, error) {
	b, err := c.tomar(1)
	if err != nil {
		return 0, err
	}
	c.salida = append(c.salida, b[0])
	return b[0], nil
}

func (c *conversor) u16() (uint16, error) {
	b, err := c.tomar(2)
	if err != nil {
		return 0, err
	}
	v := c.origen.Uint16(b)
	c.agregar16(v)
	return v, nil
}

func (c *conversor) u32() (uint32, error) {
	b, err := c.tomar(4)
	if err != nil {
		return 0, err
	}
	v := c.origen.Uint32(b)
	c.agregar32(v)
	return v, nil
}

// relleno copia el relleno hasta la alineación verificando el centinela
func (c *conversor) relleno(alineacion int) error {
	n := tipos.Alinear(c.pos, alineacion) - c.pos
	b, err := c.tomar(n)
	if err != nil {
		return err
	}
	for i, v := range b {
		if v != tipos.CentinelaRelleno {
			return tipos.Corrupto("relleno 0x%02x en %d durante el intercambio", v, c.pos-n+i)
		}
	}
	c.salida = append(c.salida, b...)
	return nil
}

func (c *conversor) limites() error {
	return c.campos(4, tipos.TamanoLimites/4)
}

// claves convierte n claves de un formato
func (c *conversor) claves(formato tipos.FormatoCompresion, canal tipos.TipoCanal, n int) error {
	info := formato.Info(canal)
	if info.Componentes == 0 {
		return nil
	}
	return c.campos(info.Paso, info.Componentes*n)
}

func (c *conversor) bloque(b BloquePista) error {
	if err := b.validar(); err != nil {
		return err
	}
	if b.Formato.Info(b.Canal).Limites {
		if err := c.limites(); err != nil {
			return errors.Wrap(err, "error intercambiando límites")
		}
	}
	if err := c.claves(b.Formato, b.Canal, b.NumClaves); err != nil {
		return errors.Wrap(err, "error intercambiando claves")
	}
	if err := c.relleno(4); err != nil {
		return err
	}
	if b.AnchoMarcador == 0 {
		return nil
	}
	if err := c.campos(b.AnchoMarcador, b.NumClaves); err != nil {
		return errors.Wrap(err, "error intercambiando marcas")
	}
	return c.relleno(4)
}

// IntercambiarSalida escribe en w el bloque canónico datos con el orden de
// bytes indicado. Retorna los bytes escritos.
func IntercambiarSalida(b BloquePista, w io.Writer, orden binary.ByteOrder, datos []byte) (int, error) {
	tamano := b.Tamano()
	if len(datos) < tamano {
		return 0, tipos.Corrupto("bloque de %d bytes, se esperaban %d", len(datos), tamano)
	}
	c := nuevoConversor(datos[:tamano], binary.LittleEndian, orden)
	if err := c.bloque(b); err != nil {
		return 0, err
	}
	return w.Write(c.salida)
}

// IntercambiarEntrada lee de r un bloque en el orden indicado y lo escribe en
// forma canónica en destino. Retorna los bytes leídos.
func IntercambiarEntrada(b BloquePista, r io.Reader, orden binary.ByteOrder, destino []byte) (int, error) {
	tamano := b.Tamano()
	if len(destino) < tamano {
		return 0, errors.Newf("destino de %d bytes para un bloque de %d", len(destino), tamano)
	}
	datos := make([]byte, tamano)
	if n, err := io.ReadFull(r, datos); err != nil {
		return n, errors.Mark(errors.Wrap(err, "error leyendo bloque de pista"), tipos.ErrDatosCorruptos)
	}
	c := nuevoConversor(datos, orden, binary.LittleEndian)
	if err := c.bloque(b); err != nil {
		return tamano, err
	}
	copy(destino, c.salida)
	return tamano, nil
}
