package almacen

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cbiale/animwave/clip"
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// ExtensionResumen es el sufijo de las fichas JSON en S3
const ExtensionResumen = ".json"

// AlmacenS3 publica clips en un bucket S3-compatible:
// {prefijo}/{id}.anim con el contenedor y {prefijo}/{id}.json con la ficha.
type AlmacenS3 struct {
	cliente tipos.ClienteS3
	bucket  string
	prefijo string
	cfg     ConfiguracionAlmacen
	logger  *zap.Logger
}

var _ Repositorio = (*AlmacenS3)(nil)

// NuevoAlmacenS3 crea el almacén y el bucket si no existe
func NuevoAlmacenS3(ctx context.Context, cliente tipos.ClienteS3, cfgS3 tipos.ConfiguracionS3, cfg ConfiguracionAlmacen, opts ...Opcion) (*AlmacenS3, error) {
	if cliente == nil {
		return nil, errors.New("cliente S3 nulo")
	}
	cfgS3.AplicarDefaults()
	if err := cfgS3.Validar(); err != nil {
		return nil, errors.Mark(err, tipos.ErrConfiguracionInvalida)
	}
	cfg.AplicarDefaults()
	if err := cfg.Validar(); err != nil {
		return nil, err
	}
	o, err := aplicarOpciones(cfg, opts)
	if err != nil {
		return nil, err
	}

	if _, err := cliente.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(cfgS3.Bucket)}); err != nil {
		o.logger.Info("creando bucket de clips", zap.String("bucket", cfgS3.Bucket))
		if _, err := cliente.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(cfgS3.Bucket)}); err != nil {
			return nil, errors.Wrapf(err, "error creando bucket %s", cfgS3.Bucket)
		}
	}

	return &AlmacenS3{
		cliente: cliente,
		bucket:  cfgS3.Bucket,
		prefijo: cfgS3.Prefijo,
		cfg:     cfg,
		logger:  o.logger,
	}, nil
}

func (a *AlmacenS3) claveResumen(id string) string {
	return a.prefijo + "/" + id + ExtensionResumen
}

func (a *AlmacenS3) subir(ctx context.Context, clave string, datos []byte) error {
	_, err := a.cliente.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(clave),
		Body:   bytes.NewReader(datos),
	})
	if err != nil {
		return errors.Wrapf(err, "error subiendo %s", clave)
	}
	return nil
}

func (a *AlmacenS3) descargar(ctx context.Context, clave, id string) ([]byte, error) {
	salida, err := a.cliente.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(clave),
	})
	if err != nil {
		var noExiste *types.NoSuchKey
		if errors.As(err, &noExiste) {
			return nil, errors.Wrapf(tipos.ErrClipNoEncontrado, "clip %s", id)
		}
		return nil, errors.Wrapf(err, "error descargando %s", clave)
	}
	defer salida.Body.Close()

	datos, err := io.ReadAll(salida.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "error leyendo %s", clave)
	}
	return datos, nil
}

func (a *AlmacenS3) Guardar(ctx context.Context, ix *clip.Indice) (ResumenClip, error) {
	contenedor, ficha, resumen, err := empaquetarConResumen(ix, a.cfg)
	if err != nil {
		return ResumenClip{}, err
	}
	// La ficha se sube al final: un clip listado siempre tiene contenedor
	if err := a.subir(ctx, tipos.GenerarClaveS3Clip(a.prefijo, resumen.ID), contenedor); err != nil {
		return ResumenClip{}, err
	}
	if err := a.subir(ctx, a.claveResumen(resumen.ID), ficha); err != nil {
		return ResumenClip{}, err
	}
	a.logger.Info("clip publicado",
		zap.String("bucket", a.bucket),
		zap.String("id", resumen.ID),
		zap.Int("bytes_contenedor", resumen.BytesContenedor))
	return resumen, nil
}

func (a *AlmacenS3) Cargar(ctx context.Context, id string) (*clip.Indice, error) {
	if err := validarID(id); err != nil {
		return nil, err
	}
	contenedor, err := a.descargar(ctx, tipos.GenerarClaveS3Clip(a.prefijo, id), id)
	if err != nil {
		return nil, err
	}
	ix, err := Desempaquetar(contenedor)
	if err != nil {
		return nil, errors.Wrapf(err, "clip %s", id)
	}
	a.logger.Info("clip descargado", zap.String("id", id), zap.Int("bytes_contenedor", len(contenedor)))
	return ix, nil
}

func (a *AlmacenS3) Resumen(ctx context.Context, id string) (ResumenClip, error) {
	if err := validarID(id); err != nil {
		return ResumenClip{}, err
	}
	ficha, err := a.descargar(ctx, a.claveResumen(id), id)
	if err != nil {
		return ResumenClip{}, err
	}
	r, err := deserializarResumen(ficha)
	if err != nil {
		return ResumenClip{}, errors.Mark(errors.Wrapf(err, "resumen del clip %s", id), tipos.ErrDatosCorruptos)
	}
	return r, nil
}

// Listar recorre todas las páginas del prefijo y retorna los clips con contenedor
func (a *AlmacenS3) Listar(ctx context.Context) ([]string, error) {
	var ids []string
	var continuacion *string
	for {
		salida, err := a.cliente.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(a.bucket),
			Prefix:            aws.String(tipos.GenerarPrefijoS3Clips(a.prefijo)),
			ContinuationToken: continuacion,
		})
		if err != nil {
			return nil, errors.Wrap(err, "error listando clips")
		}
		for _, obj := range salida.Contents {
			clave := aws.ToString(obj.Key)
			if !strings.HasSuffix(clave, tipos.ExtensionClip) {
				continue
			}
			id, err := tipos.ParsearClaveS3Clip(clave)
			if err != nil {
				a.logger.Warn("objeto ignorado en el prefijo de clips", zap.String("clave", clave), zap.Error(err))
				continue
			}
			ids = append(ids, id)
		}
		if !aws.ToBool(salida.IsTruncated) {
			break
		}
		continuacion = salida.NextContinuationToken
	}
	sort.Strings(ids)
	return ids, nil
}

func (a *AlmacenS3) Eliminar(ctx context.Context, id string) error {
	if err := validarID(id); err != nil {
		return err
	}
	if _, err := a.descargar(ctx, a.claveResumen(id), id); err != nil {
		return err
	}
	for _, clave := range []string{a.claveResumen(id), tipos.GenerarClaveS3Clip(a.prefijo, id)} {
		if _, err := a.cliente.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(a.bucket),
			Key:    aws.String(clave),
		}); err != nil {
			return errors.Wrapf(err, "error eliminando %s", clave)
		}
	}
	a.logger.Info("clip eliminado", zap.String("bucket", a.bucket), zap.String("id", id))
	return nil
}

// Cerrar no libera recursos: el cliente S3 pertenece al llamador
func (a *AlmacenS3) Cerrar() error { return nil }
