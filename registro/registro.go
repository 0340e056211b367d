// Package registro construye los loggers zap compartidos por el resto de
// los paquetes.
package registro

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NuevoLogger crea un logger de producción (JSON) o de desarrollo (consola).
// nivel acepta debug, info, warn, error; vacío equivale a info.
func NuevoLogger(nivel string, desarrollo bool) (*zap.Logger, error) {
	if nivel == "" {
		nivel = "info"
	}
	nivelAtomico, err := zap.ParseAtomicLevel(nivel)
	if err != nil {
		return nil, errors.Wrapf(err, "nivel de log '%s' inválido", nivel)
	}

	cfg := zap.NewProductionConfig()
	if desarrollo {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = nivelAtomico
	cfg.EncoderConfig.TimeKey = "tiempo"
	cfg.EncoderConfig.MessageKey = "mensaje"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

