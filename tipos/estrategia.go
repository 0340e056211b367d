package tipos

import (
	"github.com/cockroachdb/errors"
)

// EstrategiaClaves representa la distribución temporal de las claves de un clip
type EstrategiaClaves struct {
	valor string
}

func (e EstrategiaClaves) String() string {
	return e.valor
}

// GobEncode implementa gob.GobEncoder para serialización
func (e EstrategiaClaves) GobEncode() ([]byte, error) {
	return []byte(e.valor), nil
}

// GobDecode implementa gob.GobDecoder para deserialización.
// Un nombre desconocido es un dato corrupto.
func (e *EstrategiaClaves) GobDecode(data []byte) error {
	decodificada, err := decodificarEstrategia(string(data))
	if err != nil {
		return errors.Mark(err, ErrDatosCorruptos)
	}
	*e = decodificada
	return nil
}

// MarshalJSON implementa json.Marshaler para serialización JSON
func (e EstrategiaClaves) MarshalJSON() ([]byte, error) {
	return []byte(`"` + e.valor + `"`), nil
}

// UnmarshalJSON implementa json.Unmarshaler para deserialización JSON
func (e *EstrategiaClaves) UnmarshalJSON(data []byte) error {
	// Remover comillas del string JSON
	valor := string(data)
	if len(data) >= 2 && data[0] == '"' && data[len(data)-1] == '"' {
		valor = string(data[1 : len(data)-1])
	}
	decodificada, err := decodificarEstrategia(valor)
	if err != nil {
		return err
	}
	*e = decodificada
	return nil
}

// decodificarEstrategia acepta el nombre vacío de EstrategiaDesconocida,
// que la configuración completa con su valor por defecto.
func decodificarEstrategia(valor string) (EstrategiaClaves, error) {
	if valor == "" {
		return EstrategiaDesconocida, nil
	}
	return ParsearEstrategia(valor)
}

// Valores posibles para EstrategiaClaves
var (
	EstrategiaDesconocida = EstrategiaClaves{}
	// Claves en cada frame del segmento, sin marcas de tiempo
	Uniforme = EstrategiaClaves{"Uniforme"}
	// Claves con marcas de tiempo en una tabla por pista, búsqueda binaria
	VariableLineal = EstrategiaClaves{"VariableLineal"}
	// Claves de todas las pistas intercaladas en orden temporal, cursor monótono
	VariableOrdenada = EstrategiaClaves{"VariableOrdenada"}
)

// EsVariable indica si las claves llevan marcas de tiempo explícitas
func (e EstrategiaClaves) EsVariable() bool {
	return e == VariableLineal || e == VariableOrdenada
}

// Validar verifica que la estrategia sea conocida
func (e EstrategiaClaves) Validar() error {
	switch e {
	case Uniforme, VariableLineal, VariableOrdenada:
		return nil
	}
	return errors.Wrapf(ErrConfiguracionInvalida, "estrategia de claves desconocida: '%s'", e.valor)
}

// ParsearEstrategia convierte un nombre en EstrategiaClaves
func ParsearEstrategia(nombre string) (EstrategiaClaves, error) {
	e := EstrategiaClaves{nombre}
	if err := e.Validar(); err != nil {
		return EstrategiaDesconocida, err
	}
	return e, nil
}

// TipoInterpolacion controla cómo se mezclan dos claves consecutivas
type TipoInterpolacion uint8

const (
	Lineal     TipoInterpolacion = iota // lerp para vectores, nlerp para rotaciones
	Escalonada                          // siempre la clave anterior
)

func (t TipoInterpolacion) String() string {
	if t == Escalonada {
		return "Escalonada"
	}
	return "Lineal"
}
