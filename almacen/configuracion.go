package almacen

import (
	"github.com/cbiale/animwave/intercambio"
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

var validador = validator.New()

// ConfiguracionAlmacen define cómo se empaquetan los clips persistidos
type ConfiguracionAlmacen struct {
	Directorio       string                     // directorio de pebble; vacío en almacenes remotos
	CompresionBloque tipos.TipoCompresionBloque // por defecto ZSTD
	OrdenBytes       string                     `validate:"omitempty,oneof=LE BE"` // por defecto LE

	// Logger propio cuando no se pasa ConLogger; vacío no registra nada
	NivelLog      string `validate:"omitempty,oneof=debug info warn error"`
	LogDesarrollo bool
}

// AplicarDefaults establece valores por defecto en campos opcionales
func (cfg *ConfiguracionAlmacen) AplicarDefaults() {
	if cfg.CompresionBloque == "" {
		cfg.CompresionBloque = tipos.ZSTD
	}
	if cfg.OrdenBytes == "" {
		cfg.OrdenBytes = "LE"
	}
}

// Validar verifica la configuración
func (cfg ConfiguracionAlmacen) Validar() error {
	if err := validador.Struct(cfg); err != nil {
		return errors.Mark(errors.Wrap(err, "configuración de almacén"), tipos.ErrConfiguracionInvalida)
	}
	if err := cfg.CompresionBloque.Validar(); err != nil {
		return errors.Mark(err, tipos.ErrConfiguracionInvalida)
	}
	if _, err := intercambio.ParsearOrden(cfg.OrdenBytes); err != nil {
		return err
	}
	return nil
}
