package clip

import (
	"github.com/cbiale/animwave/tipos"
	"github.com/go-gl/mathgl/mgl32"
)

// Marcas de Clip.Triviales para pistas que no guardan clave trivial
const (
	PistaAnimada   int32 = -1 // la pista tiene un flujo de claves en cada segmento
	PistaIdentidad int32 = -2 // el canal usa el formato Identidad
)

// Clip es un clip de animación comprimido tal como se persiste.
//
// Datos contiene los segmentos uno tras otro, cada uno alineado a 4 bytes, en
// orden little-endian. Clip es de solo lectura una vez construido y puede
// compartirse entre goroutines.
type Clip struct {
	ID          string
	Nombre      string
	NumFrames   int
	Duracion    float32 // segundos
	NumPistas   int
	TieneEscala bool
	Estrategia  tipos.EstrategiaClaves
	Formatos    [tipos.NumCanales]tipos.FormatoCompresion // Identidad marca el canal completo

	// FormatosFlujo[i] es el formato de las claves del flujo i de Flujos(),
	// el mismo en todos los segmentos.
	FormatosFlujo []tipos.FormatoCompresion

	// Triviales[canal][pista] es el desplazamiento de la clave trivial en
	// DatosTriviales, PistaAnimada o PistaIdentidad.
	Triviales      [tipos.NumCanales][]int32
	DatosTriviales []byte

	Segmentos []Segmento
	Datos     []byte
}

// Segmento es un rango contiguo de frames con su propio flujo de bytes
type Segmento struct {
	FrameInicial   int
	NumFrames      int
	Desplazamiento int // inicio del segmento en Clip.Datos
	Tamano         int
}

// FrameFinal retorna el último frame (inclusive) del segmento
func (s Segmento) FrameFinal() int {
	return s.FrameInicial + s.NumFrames - 1
}

// Flujo identifica un canal animado de una pista
type Flujo struct {
	Pista int
	Canal tipos.TipoCanal
}

// TieneCanal indica si el clip guarda datos para el canal
func (c *Clip) TieneCanal(canal tipos.TipoCanal) bool {
	return canal != tipos.Escala || c.TieneEscala
}

// Flujos enumera los canales animados en el orden de escritura:
// por pista, y dentro de cada pista traslación, rotación, escala.
func (c *Clip) Flujos() []Flujo {
	flujos := make([]Flujo, 0, c.NumPistas*tipos.NumCanales)
	for pista := 0; pista < c.NumPistas; pista++ {
		for _, canal := range tipos.Canales {
			if !c.TieneCanal(canal) {
				continue
			}
			if c.Triviales[canal][pista] == PistaAnimada {
				flujos = append(flujos, Flujo{Pista: pista, Canal: canal})
			}
		}
	}
	return flujos
}

// Transformacion es el valor decodificado de una pista en un instante
type Transformacion struct {
	Traslacion mgl32.Vec3
	Rotacion   mgl32.Quat
	Escala     mgl32.Vec3
}

// TransformacionIdentidad retorna la transformación neutra
func TransformacionIdentidad() Transformacion {
	return Transformacion{Rotacion: mgl32.QuatIdent(), Escala: mgl32.Vec3{1, 1, 1}}
}
