package compresor

import (
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

// DecodificadorVector decodifica una clave de traslación o escala.
// datos debe contener al menos TamanoClave bytes; lim solo se usa en formatos
// con límites.
type DecodificadorVector func(datos []byte, lim *tipos.Limites) mgl32.Vec3

// DecodificadorRotacion decodifica una clave de rotación
type DecodificadorRotacion func(datos []byte, lim *tipos.Limites) mgl32.Quat

func decodificarVectorCero(_ []byte, _ *tipos.Limites) mgl32.Vec3 {
	return mgl32.Vec3{}
}

func decodificarVectorUno(_ []byte, _ *tipos.Limites) mgl32.Vec3 {
	return mgl32.Vec3{1, 1, 1}
}

func decodificarRotacionIdentidad(_ []byte, _ *tipos.Limites) mgl32.Quat {
	return mgl32.QuatIdent()
}

// ValorIdentidadVector retorna el valor de un canal vectorial en formato Identidad
func ValorIdentidadVector(canal tipos.TipoCanal) mgl32.Vec3 {
	if canal == tipos.Escala {
		return mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Vec3{}
}

// SeleccionarDecodificadorVector elige la función de decodificación para un
// canal vectorial. Se llama una vez por lote, no por clave.
func SeleccionarDecodificadorVector(formato tipos.FormatoCompresion, canal tipos.TipoCanal) (DecodificadorVector, error) {
	if canal == tipos.Rotacion {
		return nil, errors.Wrapf(tipos.ErrFormatoInvalido, "canal de rotación no es vectorial")
	}
	if err := formato.ValidarPara(canal); err != nil {
		return nil, err
	}
	switch formato {
	case tipos.Ninguno, tipos.Float96SinW:
		return decodificarVectorFloat96, nil
	case tipos.IntervaloFixed32SinW:
		return decodificarVectorIntervalo, nil
	case tipos.Identidad:
		if canal == tipos.Escala {
			return decodificarVectorUno, nil
		}
		return decodificarVectorCero, nil
	}
	return nil, errors.Wrapf(tipos.ErrFormatoInvalido, "formato '%s' sin decodificador vectorial", formato)
}

// SeleccionarDecodificadorRotacion elige la función de decodificación de rotaciones
func SeleccionarDecodificadorRotacion(formato tipos.FormatoCompresion) (DecodificadorRotacion, error) {
	switch formato {
	case tipos.Ninguno:
		return decodificarRotacionNinguno, nil
	case tipos.Float96SinW:
		return decodificarRotacionFloat96, nil
	case tipos.Fixed48SinW:
		return decodificarRotacionFixed48, nil
	case tipos.IntervaloFixed32SinW:
		return decodificarRotacionIntervalo, nil
	case tipos.Fixed32SinW:
		return decodificarRotacionFixed32, nil
	case tipos.Float32SinW:
		return decodificarRotacionFloat32, nil
	case tipos.Identidad:
		return decodificarRotacionIdentidad, nil
	}
	return nil, errors.Wrapf(tipos.ErrFormatoInvalido, "formato desconocido %d", uint8(formato))
}

// validarClave comprueba tamaño exacto y presencia de límites
func validarClave(formato tipos.FormatoCompresion, canal tipos.TipoCanal, lim *tipos.Limites, datos []byte) error {
	info := formato.Info(canal)
	if !info.Valido {
		return errors.Wrapf(tipos.ErrFormatoInvalido, "formato '%s' en canal '%s'", formato, canal)
	}
	if len(datos) != info.TamanoClave() {
		return tipos.Corrupto("clave de %d bytes, se esperaban %d para '%s'", len(datos), info.TamanoClave(), formato)
	}
	if info.Limites && lim == nil {
		return tipos.Corrupto("el formato '%s' requiere límites antes de la primera clave", formato)
	}
	return nil
}

// DecodificarVector decodifica una clave vectorial aislada verificando su tamaño
func DecodificarVector(formato tipos.FormatoCompresion, canal tipos.TipoCanal, lim *tipos.Limites, datos []byte) (mgl32.Vec3, error) {
	if err := validarClave(formato, canal, lim, datos); err != nil {
		return mgl32.Vec3{}, err
	}
	decodificar, err := SeleccionarDecodificadorVector(formato, canal)
	if err != nil {
		return mgl32.Vec3{}, err
	}
	return decodificar(datos, lim), nil
}

// DecodificarRotacion decodifica una clave de rotación aislada verificando su tamaño
func DecodificarRotacion(formato tipos.FormatoCompresion, lim *tipos.Limites, datos []byte) (mgl32.Quat, error) {
	if err := validarClave(formato, tipos.Rotacion, lim, datos); err != nil {
		return mgl32.Quat{}, err
	}
	decodificar, err := SeleccionarDecodificadorRotacion(formato)
	if err != nil {
		return mgl32.Quat{}, err
	}
	return decodificar(datos, lim), nil
}

// AgregarVector empaqueta una clave vectorial al final de destino
func AgregarVector(destino []byte, formato tipos.FormatoCompresion, canal tipos.TipoCanal, lim *tipos.Limites, v mgl32.Vec3) ([]byte, error) {
	if err := formato.ValidarPara(canal); err != nil {
		return destino, err
	}
	switch formato {
	case tipos.Ninguno, tipos.Float96SinW:
		return agregarVectorFloat96(destino, v), nil
	case tipos.IntervaloFixed32SinW:
		if lim == nil {
			return destino, errors.Wrapf(tipos.ErrFormatoInvalido, "el formato '%s' requiere límites", formato)
		}
		return agregarVectorIntervalo(destino, v, lim), nil
	case tipos.Identidad:
		return destino, nil
	}
	return destino, errors.Wrapf(tipos.ErrFormatoInvalido, "formato '%s' no empaqueta vectores", formato)
}

// AgregarRotacion empaqueta una clave de rotación al final de destino
func AgregarRotacion(destino []byte, formato tipos.FormatoCompresion, lim *tipos.Limites, q mgl32.Quat) ([]byte, error) {
	switch formato {
	case tipos.Ninguno:
		return agregarRotacionNinguno(destino, q.Normalize()), nil
	case tipos.Float96SinW:
		return agregarRotacionFloat96(destino, q), nil
	case tipos.Fixed48SinW:
		return agregarRotacionFixed48(destino, q), nil
	case tipos.IntervaloFixed32SinW:
		if lim == nil {
			return destino, errors.Wrapf(tipos.ErrFormatoInvalido, "el formato '%s' requiere límites", formato)
		}
		return agregarRotacionIntervalo(destino, q, lim), nil
	case tipos.Fixed32SinW:
		return agregarRotacionFixed32(destino, q), nil
	case tipos.Float32SinW:
		return agregarRotacionFloat32(destino, q), nil
	case tipos.Identidad:
		return destino, nil
	}
	return destino, errors.Wrapf(tipos.ErrFormatoInvalido, "formato desconocido %d", uint8(formato))
}

// Las claves triviales se guardan siempre a precisión completa

// TamanoTrivial es el tamaño en bytes de una clave trivial de cualquier canal
const TamanoTrivial = 12

// AgregarTrivialVector escribe un vector a precisión completa
func AgregarTrivialVector(destino []byte, v mgl32.Vec3) []byte {
	return agregarVectorFloat96(destino, v)
}

// AgregarTrivialRotacion escribe una rotación como Float96SinW
func AgregarTrivialRotacion(destino []byte, q mgl32.Quat) []byte {
	return agregarRotacionFloat96(destino, q)
}

// LeerTrivialVector lee un vector trivial
func LeerTrivialVector(datos []byte) mgl32.Vec3 {
	return decodificarVectorFloat96(datos, nil)
}

// LeerTrivialRotacion lee una rotación trivial
func LeerTrivialRotacion(datos []byte) mgl32.Quat {
	return decodificarRotacionFloat96(datos, nil)
}
