package tipos

import (
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Valores por defecto de segmentación
const (
	FramesPorSegmentoIdeal  = 64
	MaxFramesPorSegmento    = 127
	LimiteFramesPorSegmento = 4095 // delta máximo representable en un registro ordenado
)

var validador = validator.New()

// ConfiguracionCompresion contiene los parámetros del codificador de clips
type ConfiguracionCompresion struct {
	Estrategia        EstrategiaClaves
	FormatoTraslacion FormatoCompresion `validate:"lte=6"`
	FormatoRotacion   FormatoCompresion `validate:"lte=6"`
	FormatoEscala     FormatoCompresion `validate:"lte=6"`

	// Segmentación: clips de hasta MaxFramesPorSegmento frames usan un único segmento
	FramesPorSegmento    int `validate:"gte=2"`
	MaxFramesPorSegmento int `validate:"gtefield=FramesPorSegmento,lte=4095"`

	// Error máximo por componente al descartar claves (solo estrategias variables).
	// Cero conserva todos los frames.
	ToleranciaReduccion float32 `validate:"gte=0"`
	// Diferencia máxima para considerar constante una pista
	ToleranciaTrivial float32 `validate:"gte=0"`
	// Error máximo de cuantización al elegir el formato de cada flujo.
	// Cero usa el formato del canal en todos los flujos.
	ErrorMaximoFormato float32 `validate:"gte=0"`
}

// AplicarDefaults establece valores por defecto en campos opcionales
func (cfg *ConfiguracionCompresion) AplicarDefaults() {
	if cfg.Estrategia == EstrategiaDesconocida {
		cfg.Estrategia = Uniforme
	}
	if cfg.FramesPorSegmento == 0 {
		cfg.FramesPorSegmento = FramesPorSegmentoIdeal
	}
	if cfg.MaxFramesPorSegmento == 0 {
		cfg.MaxFramesPorSegmento = cfg.FramesPorSegmento*2 - 1
	}
	if cfg.ToleranciaTrivial == 0 {
		cfg.ToleranciaTrivial = 1e-6
	}
}

// Formato retorna el formato configurado para un canal
func (cfg ConfiguracionCompresion) Formato(canal TipoCanal) FormatoCompresion {
	switch canal {
	case Rotacion:
		return cfg.FormatoRotacion
	case Escala:
		return cfg.FormatoEscala
	}
	return cfg.FormatoTraslacion
}

// Validar verifica la configuración completa
func (cfg ConfiguracionCompresion) Validar() error {
	if err := validador.Struct(cfg); err != nil {
		return errors.Mark(errors.Wrap(err, "configuración de compresión"), ErrConfiguracionInvalida)
	}
	if err := cfg.Estrategia.Validar(); err != nil {
		return errors.Mark(err, ErrConfiguracionInvalida)
	}
	for _, canal := range Canales {
		if err := cfg.Formato(canal).ValidarPara(canal); err != nil {
			return errors.Mark(err, ErrConfiguracionInvalida)
		}
	}
	return nil
}
