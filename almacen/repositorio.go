package almacen

import (
	"context"

	"github.com/cbiale/animwave/clip"
	"github.com/cbiale/animwave/registro"
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repositorio guarda y recupera clips comprimidos por identificador
type Repositorio interface {
	// Guardar persiste un clip ya validado y retorna su ficha
	Guardar(ctx context.Context, ix *clip.Indice) (ResumenClip, error)
	// Cargar recupera y valida un clip; tipos.ErrClipNoEncontrado si no existe
	Cargar(ctx context.Context, id string) (*clip.Indice, error)
	// Resumen recupera la ficha de un clip sin descomprimirlo
	Resumen(ctx context.Context, id string) (ResumenClip, error)
	// Listar retorna los identificadores guardados
	Listar(ctx context.Context) ([]string, error)
	// Eliminar borra un clip y su ficha
	Eliminar(ctx context.Context, id string) error
	Cerrar() error
}

type opciones struct {
	logger *zap.Logger
	fs     vfs.FS
}

// Opcion configura un repositorio
type Opcion func(*opciones)

// ConLogger registra las operaciones del repositorio en logger
func ConLogger(logger *zap.Logger) Opcion {
	return func(o *opciones) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// ConSistemaArchivos reemplaza el sistema de archivos de pebble (vfs.NewMem en tests)
func ConSistemaArchivos(fs vfs.FS) Opcion {
	return func(o *opciones) {
		o.fs = fs
	}
}

// aplicarOpciones resuelve las opciones; sin ConLogger el logger sale de
// cfg.NivelLog.
func aplicarOpciones(cfg ConfiguracionAlmacen, opts []Opcion) (opciones, error) {
	var o opciones
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger != nil {
		return o, nil
	}
	if cfg.NivelLog == "" {
		o.logger = zap.NewNop()
		return o, nil
	}
	logger, err := registro.NuevoLogger(cfg.NivelLog, cfg.LogDesarrollo)
	if err != nil {
		return o, errors.Mark(err, tipos.ErrConfiguracionInvalida)
	}
	o.logger = logger
	return o, nil
}

func validarID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errors.Wrapf(err, "identificador de clip '%s' inválido", id)
	}
	return nil
}

// empaquetarConResumen arma el contenedor y la ficha de un clip
func empaquetarConResumen(ix *clip.Indice, cfg ConfiguracionAlmacen) ([]byte, []byte, ResumenClip, error) {
	if ix == nil {
		return nil, nil, ResumenClip{}, errors.New("índice nulo")
	}
	if err := validarID(ix.Clip().ID); err != nil {
		return nil, nil, ResumenClip{}, err
	}
	contenedor, err := Empaquetar(ix.Clip(), cfg)
	if err != nil {
		return nil, nil, ResumenClip{}, err
	}
	resumen := Resumir(ix, len(contenedor))
	ficha, err := serializarResumen(resumen)
	if err != nil {
		return nil, nil, ResumenClip{}, errors.Wrap(err, "error serializando resumen")
	}
	return contenedor, ficha, resumen, nil
}
