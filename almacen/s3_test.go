package almacen

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// clienteS3Memoria implementa tipos.ClienteS3 sobre un mapa
type clienteS3Memoria struct {
	mu        sync.Mutex
	buckets   map[string]bool
	objetos   map[string][]byte
	porPagina int
}

var _ tipos.ClienteS3 = (*clienteS3Memoria)(nil)

func nuevoClienteS3Memoria() *clienteS3Memoria {
	return &clienteS3Memoria{buckets: map[string]bool{}, objetos: map[string][]byte{}, porPagina: 1000}
}

func (c *clienteS3Memoria) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.buckets[aws.ToString(in.Bucket)] {
		return nil, &types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (c *clienteS3Memoria) CreateBucket(_ context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buckets[aws.ToString(in.Bucket)] = true
	return &s3.CreateBucketOutput{}, nil
}

func (c *clienteS3Memoria) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	datos, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objetos[aws.ToString(in.Key)] = datos
	return &s3.PutObjectOutput{}, nil
}

func (c *clienteS3Memoria) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	datos, ok := c.objetos[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(datos))}, nil
}

func (c *clienteS3Memoria) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.objetos, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

// ListObjectsV2 pagina de a porPagina claves; el token es el índice de inicio
func (c *clienteS3Memoria) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var claves []string
	for clave := range c.objetos {
		if strings.HasPrefix(clave, aws.ToString(in.Prefix)) {
			claves = append(claves, clave)
		}
	}
	sort.Strings(claves)

	inicio := 0
	if in.ContinuationToken != nil {
		inicio, _ = strconv.Atoi(*in.ContinuationToken)
	}
	fin := min(inicio+c.porPagina, len(claves))
	salida := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(fin < len(claves))}
	for _, clave := range claves[inicio:fin] {
		salida.Contents = append(salida.Contents, types.Object{Key: aws.String(clave)})
	}
	if fin < len(claves) {
		salida.NextContinuationToken = aws.String(strconv.Itoa(fin))
	}
	return salida, nil
}

func almacenS3Prueba(t *testing.T, cliente *clienteS3Memoria) *AlmacenS3 {
	t.Helper()
	a, err := NuevoAlmacenS3(context.Background(), cliente, tipos.ConfiguracionS3{
		Endpoint:        "http://localhost:3900",
		AccessKeyID:     "test-access-key",
		SecretAccessKey: "test-secret-key",
		Bucket:          "clips-test",
	}, ConfiguracionAlmacen{OrdenBytes: "BE"}, ConLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	return a
}

func TestAlmacenS3_CreaBucket(t *testing.T) {
	cliente := nuevoClienteS3Memoria()
	almacenS3Prueba(t, cliente)
	assert.True(t, cliente.buckets["clips-test"])
}

func TestAlmacenS3_GuardarCargar(t *testing.T) {
	ctx := context.Background()
	cliente := nuevoClienteS3Memoria()
	a := almacenS3Prueba(t, cliente)
	defer a.Cerrar()

	ix := indicePrueba(t, tipos.VariableLineal)
	resumen, err := a.Guardar(ctx, ix)
	require.NoError(t, err)
	assert.Contains(t, cliente.objetos, "clips/"+resumen.ID+".anim")
	assert.Contains(t, cliente.objetos, "clips/"+resumen.ID+".json")

	cargado, err := a.Cargar(ctx, resumen.ID)
	require.NoError(t, err)
	assert.Equal(t, ix.Clip(), cargado.Clip())

	ficha, err := a.Resumen(ctx, resumen.ID)
	require.NoError(t, err)
	assertResumenIgual(t, resumen, ficha)
}

func TestAlmacenS3_ListarPaginado(t *testing.T) {
	ctx := context.Background()
	cliente := nuevoClienteS3Memoria()
	cliente.porPagina = 1
	a := almacenS3Prueba(t, cliente)

	r1, err := a.Guardar(ctx, indicePrueba(t, tipos.Uniforme))
	require.NoError(t, err)
	r2, err := a.Guardar(ctx, indicePrueba(t, tipos.VariableOrdenada))
	require.NoError(t, err)
	// Objetos ajenos en el prefijo
	cliente.objetos["clips/LEEME.txt"] = []byte("x")
	cliente.objetos["clips/no-es-uuid.anim"] = []byte("x")
	cliente.objetos["otros/"+r1.ID+".anim"] = []byte("x")

	ids, err := a.Listar(ctx)
	require.NoError(t, err)
	esperados := []string{r1.ID, r2.ID}
	sort.Strings(esperados)
	assert.Equal(t, esperados, ids)
}

func TestAlmacenS3_Eliminar(t *testing.T) {
	ctx := context.Background()
	cliente := nuevoClienteS3Memoria()
	a := almacenS3Prueba(t, cliente)

	resumen, err := a.Guardar(ctx, indicePrueba(t, tipos.Uniforme))
	require.NoError(t, err)
	require.NoError(t, a.Eliminar(ctx, resumen.ID))
	assert.Empty(t, cliente.objetos)

	_, err = a.Cargar(ctx, resumen.ID)
	assert.True(t, errors.Is(err, tipos.ErrClipNoEncontrado))
	assert.True(t, errors.Is(a.Eliminar(ctx, resumen.ID), tipos.ErrClipNoEncontrado))
}

func TestAlmacenS3_Errores(t *testing.T) {
	ctx := context.Background()

	_, err := NuevoAlmacenS3(ctx, nil, tipos.ConfiguracionS3{}, ConfiguracionAlmacen{})
	assert.Error(t, err)

	_, err = NuevoAlmacenS3(ctx, nuevoClienteS3Memoria(), tipos.ConfiguracionS3{Bucket: "b"}, ConfiguracionAlmacen{})
	assert.True(t, errors.Is(err, tipos.ErrConfiguracionInvalida))

	a := almacenS3Prueba(t, nuevoClienteS3Memoria())
	_, err = a.Resumen(ctx, "no-es-uuid")
	assert.Error(t, err)

	a.cliente.(*clienteS3Memoria).objetos["clips/6f1c2a9e-3b7d-4c1a-9f00-1a2b3c4d5e6f.json"] = []byte("{roto")
	_, err = a.Resumen(ctx, "6f1c2a9e-3b7d-4c1a-9f00-1a2b3c4d5e6f")
	assert.True(t, errors.Is(err, tipos.ErrDatosCorruptos))
}
