package tipos

import "github.com/cockroachdb/errors"

// Taxonomía de errores del códec.
//
// ErrDatosCorruptos es siempre fatal para el clip: un desplazamiento erróneo
// contamina la lectura de todas las pistas siguientes, por lo que no se
// intenta recuperar. ErrFueraDeRango y ErrSinPosicion señalan violaciones del
// contrato por parte del llamador.
var (
	ErrDatosCorruptos        = errors.New("datos comprimidos corruptos")
	ErrFueraDeRango          = errors.New("valor fuera de rango")
	ErrFormatoInvalido       = errors.New("formato de compresión inválido")
	ErrSinPosicion           = errors.New("contexto sin posición, se requiere Buscar")
	ErrConfiguracionInvalida = errors.New("configuración inválida")
	ErrClipNoEncontrado      = errors.New("clip no encontrado")
	ErrClipCrudoInvalido     = errors.New("curvas de entrada inválidas")
)

// Corrupto construye un error de datos corruptos con formato
func Corrupto(formato string, args ...interface{}) error {
	return errors.Mark(errors.Newf(formato, args...), ErrDatosCorruptos)
}
