package clip

import (
	"math"

	"github.com/cbiale/animwave/compresor"
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PistaCruda contiene un valor por frame de cada canal de una pista.
// Escalas nil equivale a escala uno en todos los frames.
type PistaCruda struct {
	Traslaciones []mgl32.Vec3
	Rotaciones   []mgl32.Quat
	Escalas      []mgl32.Vec3
}

// ClipCrudo es la entrada del codificador: curvas muestreadas a paso fijo
type ClipCrudo struct {
	Nombre    string
	NumFrames int
	Duracion  float32
	Pistas    []PistaCruda
}

func (p PistaCruda) vectores(canal tipos.TipoCanal) []mgl32.Vec3 {
	if canal == tipos.Traslacion {
		return p.Traslaciones
	}
	return p.Escalas
}

// validar comprueba que las curvas estén completas y sean finitas
func (c ClipCrudo) validar() error {
	if c.NumFrames < 1 {
		return errors.Wrapf(tipos.ErrClipCrudoInvalido, "el clip necesita al menos un frame, tiene %d", c.NumFrames)
	}
	if math.IsNaN(float64(c.Duracion)) || math.IsInf(float64(c.Duracion), 0) || c.Duracion < 0 {
		return errors.Wrapf(tipos.ErrClipCrudoInvalido, "duración %v inválida", c.Duracion)
	}
	if len(c.Pistas) >= PistaFinFlujo {
		return errors.Wrapf(tipos.ErrClipCrudoInvalido, "%d pistas superan el máximo de %d", len(c.Pistas), PistaFinFlujo-1)
	}
	for i, p := range c.Pistas {
		if len(p.Traslaciones) != c.NumFrames || len(p.Rotaciones) != c.NumFrames {
			return errors.Wrapf(tipos.ErrClipCrudoInvalido, "pista %d con %d traslaciones y %d rotaciones para %d frames",
				i, len(p.Traslaciones), len(p.Rotaciones), c.NumFrames)
		}
		if p.Escalas != nil && len(p.Escalas) != c.NumFrames {
			return errors.Wrapf(tipos.ErrClipCrudoInvalido, "pista %d con %d escalas para %d frames", i, len(p.Escalas), c.NumFrames)
		}
		for f := 0; f < c.NumFrames; f++ {
			q := p.Rotaciones[f]
			if !finito(p.Traslaciones[f][:]...) || !finito(q.W, q.V[0], q.V[1], q.V[2]) ||
				(p.Escalas != nil && !finito(p.Escalas[f][:]...)) {
				return errors.Wrapf(tipos.ErrClipCrudoInvalido, "pista %d con valores no finitos en el frame %d", i, f)
			}
			if q.Len() < 1e-6 {
				return errors.Wrapf(tipos.ErrClipCrudoInvalido, "pista %d con rotación nula en el frame %d", i, f)
			}
		}
	}
	return nil
}

func finito(valores ...float32) bool {
	for _, v := range valores {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return false
		}
	}
	return true
}

// curvas es la vista normalizada de un canal de una pista: rotaciones
// unitarias y escalas completadas con uno.
type curvas struct {
	vectores   []mgl32.Vec3
	rotaciones []mgl32.Quat
}

func (c ClipCrudo) curvasDe(pista int, canal tipos.TipoCanal) curvas {
	p := c.Pistas[pista]
	switch canal {
	case tipos.Rotacion:
		rotaciones := make([]mgl32.Quat, c.NumFrames)
		for f, q := range p.Rotaciones {
			rotaciones[f] = q.Normalize()
		}
		return curvas{rotaciones: rotaciones}
	case tipos.Escala:
		if p.Escalas == nil {
			escalas := make([]mgl32.Vec3, c.NumFrames)
			for f := range escalas {
				escalas[f] = mgl32.Vec3{1, 1, 1}
			}
			return curvas{vectores: escalas}
		}
	}
	return curvas{vectores: p.vectores(canal)}
}

// esConstante indica si todos los frames están a tolerancia del primero
func (cv curvas) esConstante(tolerancia float32) bool {
	if cv.rotaciones != nil {
		for _, q := range cv.rotaciones[1:] {
			if diferenciaRotacion(cv.rotaciones[0], q) > tolerancia {
				return false
			}
		}
		return true
	}
	for _, v := range cv.vectores[1:] {
		if diferenciaMaxima(cv.vectores[0], v) > tolerancia {
			return false
		}
	}
	return true
}

// esIdentidad indica si todos los frames valen la identidad del canal
func (cv curvas) esIdentidad(canal tipos.TipoCanal, tolerancia float32) bool {
	if cv.rotaciones != nil {
		for _, q := range cv.rotaciones {
			if diferenciaRotacion(q, mgl32.QuatIdent()) > tolerancia {
				return false
			}
		}
		return true
	}
	identidad := compresor.ValorIdentidadVector(canal)
	for _, v := range cv.vectores {
		if diferenciaMaxima(v, identidad) > tolerancia {
			return false
		}
	}
	return true
}

// Codificar comprime curvas muestreadas en un Clip.
//
// Las pistas constantes de cada canal se guardan una sola vez como claves
// triviales a precisión completa. El resto se parte en segmentos y se escribe
// con la estrategia configurada; en estrategias variables se descartan las
// claves que la interpolación lineal reproduce dentro de ToleranciaReduccion.
func Codificar(crudo ClipCrudo, cfg tipos.ConfiguracionCompresion, logger *zap.Logger) (*Clip, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.AplicarDefaults()
	if err := cfg.Validar(); err != nil {
		return nil, err
	}
	if err := crudo.validar(); err != nil {
		return nil, err
	}

	c := &Clip{
		ID:         uuid.NewString(),
		Nombre:     crudo.Nombre,
		NumFrames:  crudo.NumFrames,
		Duracion:   crudo.Duracion,
		NumPistas:  len(crudo.Pistas),
		Estrategia: cfg.Estrategia,
	}
	for _, p := range crudo.Pistas {
		if p.Escalas != nil {
			c.TieneEscala = true
			break
		}
	}

	// Canales y claves triviales
	animadas := make(map[Flujo]curvas)
	for _, canal := range tipos.Canales {
		c.Formatos[canal] = cfg.Formato(canal)
		if !c.TieneCanal(canal) {
			continue
		}
		c.Triviales[canal] = make([]int32, c.NumPistas)
		for pista := range crudo.Pistas {
			cv := crudo.curvasDe(pista, canal)
			switch {
			case c.Formatos[canal] == tipos.Identidad:
				if !cv.esIdentidad(canal, cfg.ToleranciaTrivial) {
					return nil, errors.Wrapf(tipos.ErrClipCrudoInvalido,
						"la pista %d no es identidad en el canal %s con formato Identidad", pista, canal)
				}
				c.Triviales[canal][pista] = PistaIdentidad
			case cv.esConstante(cfg.ToleranciaTrivial):
				c.Triviales[canal][pista] = int32(len(c.DatosTriviales))
				if canal == tipos.Rotacion {
					c.DatosTriviales = compresor.AgregarTrivialRotacion(c.DatosTriviales, cv.rotaciones[0])
				} else {
					c.DatosTriviales = compresor.AgregarTrivialVector(c.DatosTriviales, cv.vectores[0])
				}
			default:
				c.Triviales[canal][pista] = PistaAnimada
				animadas[Flujo{Pista: pista, Canal: canal}] = cv
			}
		}
	}

	flujos := c.Flujos()
	c.Segmentos = Particionar(c.NumFrames, cfg.FramesPorSegmento, cfg.MaxFramesPorSegmento)
	for _, f := range flujos {
		c.FormatosFlujo = append(c.FormatosFlujo, elegirFormato(f, animadas[f], c.Segmentos, cfg))
	}
	for i := range c.Segmentos {
		seg := &c.Segmentos[i]
		if len(flujos) > 0 && seg.NumFrames > tipos.LimiteFramesPorSegmento {
			return nil, errors.Wrapf(tipos.ErrConfiguracionInvalida,
				"segmento de %d frames supera el límite de %d", seg.NumFrames, tipos.LimiteFramesPorSegmento)
		}

		porSegmento := make([]*flujoSegmento, len(flujos))
		for j, f := range flujos {
			porSegmento[j] = prepararFlujo(f, c.FormatosFlujo[j], animadas[f], *seg, cfg)
		}

		datos, err := escribirSegmento(c.Estrategia, porSegmento, seg.NumFrames)
		if err != nil {
			return nil, errors.Wrapf(err, "error escribiendo segmento %d", i)
		}
		seg.Desplazamiento = len(c.Datos)
		seg.Tamano = len(datos)
		c.Datos = append(c.Datos, datos...)
	}

	logger.Debug("clip codificado",
		zap.String("id", c.ID),
		zap.String("nombre", c.Nombre),
		zap.Stringer("estrategia", c.Estrategia),
		zap.Int("frames", c.NumFrames),
		zap.Int("segmentos", len(c.Segmentos)),
		zap.Int("flujos", len(flujos)),
		zap.Int("bytes_triviales", len(c.DatosTriviales)),
		zap.Int("bytes", len(c.Datos)))
	return c, nil
}

// prepararFlujo recorta las curvas al segmento, elige las claves y calcula
// los límites si el formato los usa.
func prepararFlujo(f Flujo, formato tipos.FormatoCompresion, cv curvas, seg Segmento, cfg tipos.ConfiguracionCompresion) *flujoSegmento {
	fs := &flujoSegmento{Flujo: f, formato: formato, info: formato.Info(f.Canal)}
	desde, hasta := seg.FrameInicial, seg.FrameInicial+seg.NumFrames

	var claves []int
	if f.Canal == tipos.Rotacion {
		valores := cv.rotaciones[desde:hasta]
		claves = seleccionarClaves(cfg, len(valores), func(tol float32) []int { return reducirRotaciones(valores, tol) })
		fs.rotaciones = make([]mgl32.Quat, len(claves))
		for k, frame := range claves {
			fs.rotaciones[k] = valores[frame]
		}
	} else {
		valores := cv.vectores[desde:hasta]
		claves = seleccionarClaves(cfg, len(valores), func(tol float32) []int { return reducirVectores(valores, tol) })
		fs.vectores = make([]mgl32.Vec3, len(claves))
		for k, frame := range claves {
			fs.vectores[k] = valores[frame]
		}
	}
	fs.frames = claves

	if fs.info.Limites {
		var lim tipos.Limites
		if f.Canal == tipos.Rotacion {
			lim = compresor.LimitesRotaciones(fs.rotaciones)
		} else {
			lim = tipos.CalcularLimites(fs.vectores)
		}
		fs.limites = &lim
	}
	return fs
}

func seleccionarClaves(cfg tipos.ConfiguracionCompresion, n int, reducir func(float32) []int) []int {
	if cfg.Estrategia.EsVariable() {
		return reducir(cfg.ToleranciaReduccion)
	}
	claves := make([]int, n)
	for i := range claves {
		claves[i] = i
	}
	return claves
}

func escribirSegmento(estrategia tipos.EstrategiaClaves, flujos []*flujoSegmento, numFrames int) ([]byte, error) {
	switch estrategia {
	case tipos.Uniforme:
		return escribirSegmentoPorPista(flujos, 0)
	case tipos.VariableLineal:
		return escribirSegmentoPorPista(flujos, AnchoMarcador(numFrames))
	case tipos.VariableOrdenada:
		return escribirSegmentoOrdenado(flujos)
	}
	return nil, errors.Wrapf(tipos.ErrConfiguracionInvalida, "estrategia '%s' sin escritor", estrategia)
}
