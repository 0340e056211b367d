/*
## Contexto de descompresión

Máquina de estados sobre un clip indexado:

	SinInicializar --Buscar--> UnSegmento | DosSegmentos
	UnSegmento <--Buscar--> DosSegmentos
	cualquier estado --datos corruptos--> SinInicializar

Buscar(t):
1. framePos ← t × (NumFrames - 1) / Duracion
2. Selección: segmento de floor(framePos); dual si ese frame es el último
   del segmento, existe un segmento siguiente y la fracción es positiva
3. Misma selección y t >= anterior: avance incremental de los evaluadores
4. Si no: reconstrucción y aviso al Observador

En modo dual el rol 0 se evalúa en el último frame de su segmento y el rol 1
en el frame 0 del siguiente; el resultado se mezcla con la fracción de frame.
*/

package descompresion

import (
	"github.com/cbiale/animwave/clip"
	"github.com/cbiale/animwave/compresor"
	"github.com/cbiale/animwave/interpolacion"
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// Estado del contexto
type Estado uint8

const (
	SinInicializar Estado = iota
	UnSegmento
	DosSegmentos
)

func (e Estado) String() string {
	switch e {
	case UnSegmento:
		return "un segmento"
	case DosSegmentos:
		return "dos segmentos"
	}
	return "sin inicializar"
}

type opciones struct {
	observador    Observador
	interpolacion tipos.TipoInterpolacion
	logger        *zap.Logger
}

// Opcion configura un Contexto
type Opcion func(*opciones)

// ConObservador registra un observador de reconstrucciones
func ConObservador(o Observador) Opcion {
	return func(op *opciones) {
		if o != nil {
			op.observador = o
		}
	}
}

// ConInterpolacion elige entre interpolación lineal y escalonada
func ConInterpolacion(tipo tipos.TipoInterpolacion) Opcion {
	return func(op *opciones) {
		op.interpolacion = tipo
	}
}

// ConLogger registra en logger los errores de datos corruptos
func ConLogger(logger *zap.Logger) Opcion {
	return func(op *opciones) {
		if logger != nil {
			op.logger = logger
		}
	}
}

// Contexto muestrea un clip en tiempos arbitrarios manteniendo cachés entre
// llamadas. No es seguro para uso concurrente: cada consumidor crea el suyo
// sobre el mismo Indice.
type Contexto struct {
	ix       *clip.Indice
	clip     *clip.Clip
	opciones opciones

	estado Estado
	tiempo float32
	sel    clip.Seleccion
	roles  [2]evaluador

	// por flujo; nil en los flujos del otro tipo de canal
	decodificarVector   []compresor.DecodificadorVector
	decodificarRotacion []compresor.DecodificadorRotacion
}

// NuevoContexto crea un contexto sin posición sobre un clip indexado
func NuevoContexto(ix *clip.Indice, opts ...Opcion) (*Contexto, error) {
	if ix == nil {
		return nil, errors.New("índice nulo")
	}
	ctx := &Contexto{
		ix:   ix,
		clip: ix.Clip(),
		opciones: opciones{
			observador:    observadorNulo{},
			interpolacion: tipos.Lineal,
			logger:        zap.NewNop(),
		},
	}
	for _, opt := range opts {
		opt(&ctx.opciones)
	}

	// Los decodificadores se eligen una vez por flujo
	flujos := ix.Flujos()
	ctx.decodificarVector = make([]compresor.DecodificadorVector, len(flujos))
	ctx.decodificarRotacion = make([]compresor.DecodificadorRotacion, len(flujos))
	for i, f := range flujos {
		var err error
		if f.Canal == tipos.Rotacion {
			ctx.decodificarRotacion[i], err = compresor.SeleccionarDecodificadorRotacion(ix.Formato(i))
		} else {
			ctx.decodificarVector[i], err = compresor.SeleccionarDecodificadorVector(ix.Formato(i), f.Canal)
		}
		if err != nil {
			return nil, errors.Mark(errors.Wrapf(err, "flujo %d", i), tipos.ErrDatosCorruptos)
		}
	}

	ctx.roles[0] = nuevoEvaluador(ix)
	ctx.roles[1] = nuevoEvaluador(ix)
	return ctx, nil
}

// Estado retorna el estado actual
func (ctx *Contexto) Estado() Estado { return ctx.estado }

// Tiempo retorna el tiempo de la última búsqueda exitosa
func (ctx *Contexto) Tiempo() float32 { return ctx.tiempo }

// Seleccion retorna los segmentos en uso
func (ctx *Contexto) Seleccion() clip.Seleccion { return ctx.sel }

// Indice retorna el clip indexado
func (ctx *Contexto) Indice() *clip.Indice { return ctx.ix }

// Invalidar descarta la posición actual
func (ctx *Contexto) Invalidar() {
	ctx.estado = SinInicializar
}

// Buscar posiciona el contexto en tiempo (segundos). Un tiempo fuera de
// [0, Duracion] retorna ErrFueraDeRango sin alterar el estado.
func (ctx *Contexto) Buscar(tiempo float32) error {
	framePos, err := ctx.ix.FramePos(tiempo)
	if err != nil {
		return err
	}
	sel, err := ctx.ix.Seleccionar(framePos)
	if err != nil {
		ctx.invalidar(err)
		return err
	}

	if ctx.estado != SinInicializar && sel.MismaSeleccion(ctx.sel) && tiempo >= ctx.tiempo {
		ctx.sel = sel
		ctx.tiempo = tiempo
		if err := ctx.avanzar(); err != nil {
			ctx.invalidar(err)
			return err
		}
		return nil
	}

	motivo := MotivoCambioSegmento
	switch {
	case ctx.estado == SinInicializar:
		motivo = MotivoInicial
	case tiempo < ctx.tiempo:
		motivo = MotivoRetroceso
	}
	ctx.opciones.observador.Reconstruccion(motivo, sel)

	ctx.sel = sel
	ctx.tiempo = tiempo
	if err := ctx.reconstruir(); err != nil {
		ctx.invalidar(err)
		return err
	}
	if sel.Dual {
		ctx.estado = DosSegmentos
	} else {
		ctx.estado = UnSegmento
	}
	return nil
}

func (ctx *Contexto) reconstruir() error {
	if err := ctx.roles[0].preparar(ctx.ix.Segmento(ctx.sel.Segmento0)); err != nil {
		return err
	}
	if ctx.sel.Dual {
		if err := ctx.roles[1].preparar(ctx.ix.Segmento(ctx.sel.Segmento1)); err != nil {
			return err
		}
	}
	return ctx.avanzar()
}

// avanzar lleva los evaluadores a la selección actual
func (ctx *Contexto) avanzar() error {
	seg0 := ctx.ix.Segmento(ctx.sel.Segmento0)
	if !ctx.sel.Dual {
		return ctx.roles[0].avanzar(ctx.sel.FramePos - float32(seg0.FrameInicial))
	}
	if err := ctx.roles[0].avanzar(float32(seg0.NumFrames - 1)); err != nil {
		return err
	}
	return ctx.roles[1].avanzar(0)
}

func (ctx *Contexto) invalidar(err error) {
	if errors.Is(err, tipos.ErrDatosCorruptos) {
		ctx.opciones.logger.Error("datos de clip corruptos",
			zap.String("clip", ctx.clip.ID),
			zap.Float32("tiempo", ctx.tiempo),
			zap.Error(err))
	}
	ctx.estado = SinInicializar
}

// verificarPista comprueba el estado y el rango de la pista
func (ctx *Contexto) verificarPista(pista int) error {
	if ctx.estado == SinInicializar {
		return tipos.ErrSinPosicion
	}
	if pista < 0 || pista >= ctx.clip.NumPistas {
		return errors.Wrapf(tipos.ErrFueraDeRango, "pista %d fuera de [0, %d)", pista, ctx.clip.NumPistas)
	}
	return nil
}

func (ctx *Contexto) alpha(alpha float32) float32 {
	return interpolacion.AjustarAlpha(alpha, ctx.opciones.interpolacion)
}

func (ctx *Contexto) vectorRol(rol int, flujo int) mgl32.Vec3 {
	k0, k1, alpha, lim := ctx.roles[rol].claves(flujo)
	decodificar := ctx.decodificarVector[flujo]
	return interpolacion.LerpVector(decodificar(k0, lim), decodificar(k1, lim), ctx.alpha(alpha))
}

func (ctx *Contexto) rotacionRol(rol int, flujo int) mgl32.Quat {
	k0, k1, alpha, lim := ctx.roles[rol].claves(flujo)
	decodificar := ctx.decodificarRotacion[flujo]
	return interpolacion.NlerpRotacion(decodificar(k0, lim), decodificar(k1, lim), ctx.alpha(alpha))
}

// muestraVector evalúa un canal vectorial de una pista ya verificada
func (ctx *Contexto) muestraVector(canal tipos.TipoCanal, pista int) mgl32.Vec3 {
	if !ctx.clip.TieneCanal(canal) {
		return compresor.ValorIdentidadVector(canal)
	}
	switch marca := ctx.clip.Triviales[canal][pista]; {
	case marca == clip.PistaIdentidad:
		return compresor.ValorIdentidadVector(canal)
	case marca >= 0:
		return compresor.LeerTrivialVector(ctx.clip.DatosTriviales[marca:])
	}

	flujo := ctx.ix.FlujoDe(canal, pista)
	v := ctx.vectorRol(0, flujo)
	if ctx.estado == DosSegmentos {
		v = interpolacion.LerpVector(v, ctx.vectorRol(1, flujo), ctx.alpha(ctx.sel.Alpha))
	}
	return v
}

func (ctx *Contexto) muestraRotacion(pista int) mgl32.Quat {
	switch marca := ctx.clip.Triviales[tipos.Rotacion][pista]; {
	case marca == clip.PistaIdentidad:
		return mgl32.QuatIdent()
	case marca >= 0:
		return compresor.LeerTrivialRotacion(ctx.clip.DatosTriviales[marca:])
	}

	flujo := ctx.ix.FlujoDe(tipos.Rotacion, pista)
	q := ctx.rotacionRol(0, flujo)
	if ctx.estado == DosSegmentos {
		q = interpolacion.NlerpRotacion(q, ctx.rotacionRol(1, flujo), ctx.alpha(ctx.sel.Alpha))
	}
	return q
}

// ObtenerTraslacion retorna la traslación de pista en la posición actual
func (ctx *Contexto) ObtenerTraslacion(pista int) (mgl32.Vec3, error) {
	if err := ctx.verificarPista(pista); err != nil {
		return mgl32.Vec3{}, err
	}
	return ctx.muestraVector(tipos.Traslacion, pista), nil
}

// ObtenerRotacion retorna la rotación unitaria de pista en la posición actual
func (ctx *Contexto) ObtenerRotacion(pista int) (mgl32.Quat, error) {
	if err := ctx.verificarPista(pista); err != nil {
		return mgl32.Quat{}, err
	}
	return ctx.muestraRotacion(pista), nil
}

// ObtenerEscala retorna la escala de pista; uno si el clip no tiene escala
func (ctx *Contexto) ObtenerEscala(pista int) (mgl32.Vec3, error) {
	if err := ctx.verificarPista(pista); err != nil {
		return mgl32.Vec3{}, err
	}
	return ctx.muestraVector(tipos.Escala, pista), nil
}

// ObtenerTransformacion retorna los tres canales de pista
func (ctx *Contexto) ObtenerTransformacion(pista int) (clip.Transformacion, error) {
	if err := ctx.verificarPista(pista); err != nil {
		return clip.Transformacion{}, err
	}
	return clip.Transformacion{
		Traslacion: ctx.muestraVector(tipos.Traslacion, pista),
		Rotacion:   ctx.muestraRotacion(pista),
		Escala:     ctx.muestraVector(tipos.Escala, pista),
	}, nil
}
