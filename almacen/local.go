package almacen

import (
	"context"
	"sort"
	"strings"

	"github.com/cbiale/animwave/clip"
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"
)

const (
	prefijoClip    = "clip/"
	prefijoResumen = "resumen/"
)

func claveClip(id string) []byte    { return []byte(prefijoClip + id) }
func claveResumen(id string) []byte { return []byte(prefijoResumen + id) }

// AlmacenLocal guarda clips en una base pebble local. Cada clip ocupa dos
// claves: el contenedor en clip/<id> y la ficha JSON en resumen/<id>.
type AlmacenLocal struct {
	db     *pebble.DB
	cfg    ConfiguracionAlmacen
	logger *zap.Logger
}

var _ Repositorio = (*AlmacenLocal)(nil)

// NuevoAlmacenLocal abre (o crea) la base en cfg.Directorio
func NuevoAlmacenLocal(cfg ConfiguracionAlmacen, opts ...Opcion) (*AlmacenLocal, error) {
	cfg.AplicarDefaults()
	if err := cfg.Validar(); err != nil {
		return nil, err
	}
	if cfg.Directorio == "" {
		return nil, errors.Wrap(tipos.ErrConfiguracionInvalida, "Directorio es requerido")
	}
	o, err := aplicarOpciones(cfg, opts)
	if err != nil {
		return nil, err
	}

	pebbleOpts := &pebble.Options{}
	if o.fs != nil {
		pebbleOpts.FS = o.fs
	}
	db, err := pebble.Open(cfg.Directorio, pebbleOpts)
	if err != nil {
		return nil, errors.Wrapf(err, "error abriendo pebble en %s", cfg.Directorio)
	}
	o.logger.Info("almacén local abierto",
		zap.String("directorio", cfg.Directorio),
		zap.String("compresion", string(cfg.CompresionBloque)),
		zap.String("orden", cfg.OrdenBytes))
	return &AlmacenLocal{db: db, cfg: cfg, logger: o.logger}, nil
}

func (a *AlmacenLocal) Guardar(ctx context.Context, ix *clip.Indice) (ResumenClip, error) {
	contenedor, ficha, resumen, err := empaquetarConResumen(ix, a.cfg)
	if err != nil {
		return ResumenClip{}, err
	}

	lote := a.db.NewBatch()
	defer lote.Close()
	if err := lote.Set(claveClip(resumen.ID), contenedor, nil); err != nil {
		return ResumenClip{}, errors.Wrap(err, "error preparando contenedor")
	}
	if err := lote.Set(claveResumen(resumen.ID), ficha, nil); err != nil {
		return ResumenClip{}, errors.Wrap(err, "error preparando resumen")
	}
	if err := lote.Commit(pebble.Sync); err != nil {
		return ResumenClip{}, errors.Wrapf(err, "error guardando clip %s", resumen.ID)
	}

	a.logger.Info("clip guardado",
		zap.String("id", resumen.ID),
		zap.String("nombre", resumen.Nombre),
		zap.Int("bytes_clip", resumen.BytesClip),
		zap.Int("bytes_contenedor", resumen.BytesContenedor))
	return resumen, nil
}

// leer copia el valor de una clave; pebble solo garantiza el slice hasta Close
func (a *AlmacenLocal) leer(clave []byte, id string) ([]byte, error) {
	valor, closer, err := a.db.Get(clave)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, errors.Wrapf(tipos.ErrClipNoEncontrado, "clip %s", id)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error leyendo %s", clave)
	}
	defer closer.Close()
	return append([]byte(nil), valor...), nil
}

func (a *AlmacenLocal) Cargar(ctx context.Context, id string) (*clip.Indice, error) {
	if err := validarID(id); err != nil {
		return nil, err
	}
	contenedor, err := a.leer(claveClip(id), id)
	if err != nil {
		return nil, err
	}
	ix, err := Desempaquetar(contenedor)
	if err != nil {
		return nil, errors.Wrapf(err, "clip %s", id)
	}
	a.logger.Info("clip cargado", zap.String("id", id), zap.Int("bytes_contenedor", len(contenedor)))
	return ix, nil
}

func (a *AlmacenLocal) Resumen(ctx context.Context, id string) (ResumenClip, error) {
	if err := validarID(id); err != nil {
		return ResumenClip{}, err
	}
	ficha, err := a.leer(claveResumen(id), id)
	if err != nil {
		return ResumenClip{}, err
	}
	r, err := deserializarResumen(ficha)
	if err != nil {
		return ResumenClip{}, errors.Mark(errors.Wrapf(err, "resumen del clip %s", id), tipos.ErrDatosCorruptos)
	}
	return r, nil
}

func (a *AlmacenLocal) Listar(ctx context.Context) ([]string, error) {
	iter, err := a.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefijoResumen),
		UpperBound: []byte(strings.TrimSuffix(prefijoResumen, "/") + "0"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error creando iterador")
	}
	defer iter.Close()

	var ids []string
	for iter.First(); iter.Valid(); iter.Next() {
		ids = append(ids, strings.TrimPrefix(string(iter.Key()), prefijoResumen))
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "error listando clips")
	}
	sort.Strings(ids)
	return ids, nil
}

func (a *AlmacenLocal) Eliminar(ctx context.Context, id string) error {
	if err := validarID(id); err != nil {
		return err
	}
	if _, err := a.leer(claveResumen(id), id); err != nil {
		return err
	}

	lote := a.db.NewBatch()
	defer lote.Close()
	if err := lote.Delete(claveClip(id), nil); err != nil {
		return errors.Wrap(err, "error preparando borrado")
	}
	if err := lote.Delete(claveResumen(id), nil); err != nil {
		return errors.Wrap(err, "error preparando borrado")
	}
	if err := lote.Commit(pebble.Sync); err != nil {
		return errors.Wrapf(err, "error eliminando clip %s", id)
	}
	a.logger.Info("clip eliminado", zap.String("id", id))
	return nil
}

// Cerrar cierra la base
func (a *AlmacenLocal) Cerrar() error {
	return a.db.Close()
}
