package descompresion

import (
	"sync/atomic"

	"github.com/cbiale/animwave/clip"
	"go.uber.org/zap"
)

// MotivoReconstruccion indica por qué el contexto descartó su estado
type MotivoReconstruccion uint8

const (
	MotivoInicial        MotivoReconstruccion = iota // primera búsqueda
	MotivoRetroceso                                  // el tiempo pedido es anterior al actual
	MotivoCambioSegmento                             // la muestra cae en otros segmentos
	numMotivos
)

func (m MotivoReconstruccion) String() string {
	switch m {
	case MotivoInicial:
		return "inicial"
	case MotivoRetroceso:
		return "retroceso"
	case MotivoCambioSegmento:
		return "cambio de segmento"
	}
	return "desconocido"
}

// Observador recibe los caminos lentos del contexto. Se invoca de forma
// síncrona desde Buscar, por lo que no debe bloquear.
type Observador interface {
	Reconstruccion(motivo MotivoReconstruccion, sel clip.Seleccion)
}

// Contadores cuenta reconstrucciones por motivo. Es seguro para uso
// concurrente, de modo que varios contextos pueden compartirlo.
type Contadores struct {
	porMotivo [numMotivos]atomic.Uint64
}

func (c *Contadores) Reconstruccion(motivo MotivoReconstruccion, _ clip.Seleccion) {
	if motivo < numMotivos {
		c.porMotivo[motivo].Add(1)
	}
}

// Total retorna las reconstrucciones registradas por un motivo
func (c *Contadores) Total(motivo MotivoReconstruccion) uint64 {
	if motivo >= numMotivos {
		return 0
	}
	return c.porMotivo[motivo].Load()
}

// ObservadorZap registra las reconstrucciones en nivel Debug
type ObservadorZap struct {
	logger *zap.Logger
}

// NuevoObservadorZap crea un observador sobre logger; nil descarta los mensajes
func NuevoObservadorZap(logger *zap.Logger) *ObservadorZap {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ObservadorZap{logger: logger}
}

func (o *ObservadorZap) Reconstruccion(motivo MotivoReconstruccion, sel clip.Seleccion) {
	o.logger.Debug("reconstrucción de contexto",
		zap.Stringer("motivo", motivo),
		zap.Int("segmento0", sel.Segmento0),
		zap.Int("segmento1", sel.Segmento1),
		zap.Bool("dual", sel.Dual),
		zap.Float32("frame", sel.FramePos))
}

type observadorNulo struct{}

func (observadorNulo) Reconstruccion(MotivoReconstruccion, clip.Seleccion) {}
