package tipos

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Formatos de cuantización de claves
//
// Cada canal de una pista (traslación, rotación, escala) se empaqueta con uno
// de estos formatos. El valor numérico se persiste en el clip comprimido, por
// lo que el orden de las constantes no debe cambiar.
//
// Ver compresor/formato_*.go para los algoritmos de empaquetado.

// FormatoCompresion identifica un esquema de cuantización para un canal
type FormatoCompresion uint8

// Valores posibles para FormatoCompresion
const (
	Ninguno              FormatoCompresion = iota // float32 por componente, rotación con W explícito
	Float96SinW                                   // 3 × float32, W reconstruido
	Fixed48SinW                                   // 3 × uint16 de punto fijo (solo rotación)
	IntervaloFixed32SinW                          // 11-11-10 bits normalizados con límites min/extensión
	Fixed32SinW                                   // 11-11-10 bits de punto fijo en [-1,1] (solo rotación)
	Float32SinW                                   // 11-11-10 bits como minifloats (solo rotación)
	Identidad                                     // sin datos, valor identidad

	numFormatos
)

var nombresFormato = [numFormatos]string{
	"Ninguno",
	"Float96SinW",
	"Fixed48SinW",
	"IntervaloFixed32SinW",
	"Fixed32SinW",
	"Float32SinW",
	"Identidad",
}

func (f FormatoCompresion) String() string {
	if f < numFormatos {
		return nombresFormato[f]
	}
	return fmt.Sprintf("FormatoCompresion(%d)", uint8(f))
}

// TipoCanal identifica el canal de una pista
type TipoCanal uint8

const (
	Traslacion TipoCanal = iota
	Rotacion
	Escala

	NumCanales = 3
)

func (c TipoCanal) String() string {
	switch c {
	case Traslacion:
		return "Traslacion"
	case Rotacion:
		return "Rotacion"
	case Escala:
		return "Escala"
	}
	return fmt.Sprintf("TipoCanal(%d)", uint8(c))
}

// Canales lista los canales en el orden en que se escriben los flujos
var Canales = [NumCanales]TipoCanal{Traslacion, Rotacion, Escala}

// InfoFormato describe la disposición de una clave en un formato y canal.
type InfoFormato struct {
	Paso        int  // bytes por componente
	Componentes int  // componentes almacenados por clave
	Limites     bool // un encabezado de 6 float32 precede a las claves
	Valido      bool // el formato es legal para el canal
}

// TamanoClave retorna los bytes que ocupa una clave
func (i InfoFormato) TamanoClave() int {
	return i.Paso * i.Componentes
}

// TablaFormatos es inmutable: [formato][0 = vector, 1 = rotación].
// Traslación y escala comparten la fila de vector.
var tablaFormatos = [numFormatos][2]InfoFormato{
	Ninguno:              {{4, 3, false, true}, {4, 4, false, true}},
	Float96SinW:          {{4, 3, false, true}, {4, 3, false, true}},
	Fixed48SinW:          {{}, {2, 3, false, true}},
	IntervaloFixed32SinW: {{4, 1, true, true}, {4, 1, true, true}},
	Fixed32SinW:          {{}, {4, 1, false, true}},
	Float32SinW:          {{}, {4, 1, false, true}},
	Identidad:            {{0, 0, false, true}, {0, 0, false, true}},
}

// Info retorna la disposición del formato para el canal dado.
// Un formato desconocido retorna InfoFormato con Valido en false.
func (f FormatoCompresion) Info(canal TipoCanal) InfoFormato {
	if f >= numFormatos {
		return InfoFormato{}
	}
	if canal == Rotacion {
		return tablaFormatos[f][1]
	}
	return tablaFormatos[f][0]
}

// ValidarPara verifica que el formato sea legal para el canal
func (f FormatoCompresion) ValidarPara(canal TipoCanal) error {
	if canal >= NumCanales {
		return errors.Wrapf(ErrFormatoInvalido, "canal desconocido %d", uint8(canal))
	}
	if !f.Info(canal).Valido {
		return errors.Wrapf(ErrFormatoInvalido, "formato '%s' no es válido para el canal '%s' (formatos válidos: %v)",
			f, canal, FormatosValidos(canal))
	}
	return nil
}

// FormatosValidos retorna los formatos legales para un canal
func FormatosValidos(canal TipoCanal) []FormatoCompresion {
	validos := make([]FormatoCompresion, 0, numFormatos)
	for f := FormatoCompresion(0); f < numFormatos; f++ {
		if f.Info(canal).Valido {
			validos = append(validos, f)
		}
	}
	return validos
}
