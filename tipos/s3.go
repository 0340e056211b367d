package tipos

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// ConfiguracionS3 contiene la configuración para conectar con almacenamiento S3-compatible
// (Garage, AWS S3, Cloudflare R2, MinIO, etc.) donde se publican clips comprimidos.
type ConfiguracionS3 struct {
	Endpoint        string `validate:"required,url"` // URL del servidor S3, ej: http://localhost:3900
	AccessKeyID     string `validate:"required"`     // Access Key ID de S3
	SecretAccessKey string `validate:"required"`     // Secret Access Key de S3
	Bucket          string `validate:"required"`     // Nombre del bucket de clips
	Region          string // Región (puede ser cualquier valor para implementaciones como Garage)
	Prefijo         string // Prefijo de las claves de clips, por defecto "clips"
}

// Validar verifica que todos los campos requeridos estén presentes
func (cfg ConfiguracionS3) Validar() error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("Endpoint es requerido")
	}
	if cfg.AccessKeyID == "" {
		return fmt.Errorf("AccessKeyID es requerido")
	}
	if cfg.SecretAccessKey == "" {
		return fmt.Errorf("SecretAccessKey es requerido")
	}
	if cfg.Bucket == "" {
		return fmt.Errorf("Bucket es requerido")
	}
	if err := validador.Struct(cfg); err != nil {
		return fmt.Errorf("configuración S3: %w", err)
	}
	// Region y Prefijo son opcionales, ver AplicarDefaults
	return nil
}

// AplicarDefaults establece valores por defecto en campos opcionales
func (cfg *ConfiguracionS3) AplicarDefaults() {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.Prefijo == "" {
		cfg.Prefijo = "clips"
	}
}

// ClienteS3 define las operaciones S3 utilizadas por el almacén remoto.
// Esta interfaz permite inyectar mocks para testing unitario.
//
// El tipo *s3.Client del AWS SDK implementa todos estos métodos,
// por lo que puede usarse directamente donde se espera ClienteS3.
type ClienteS3 interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// CrearClienteS3 crea un cliente S3 configurado para endpoints personalizados.
// Usa la API moderna de AWS SDK v2 (BaseEndpoint en lugar de EndpointResolver deprecado).
func CrearClienteS3(ctx context.Context, cfg ConfiguracionS3) (*s3.Client, error) {
	cfg.AplicarDefaults()
	if err := cfg.Validar(); err != nil {
		return nil, fmt.Errorf("configuración S3 inválida: %w", err)
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("error al cargar configuración de AWS: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	}), nil
}

// ExtensionClip es el sufijo de los objetos de clip en S3
const ExtensionClip = ".anim"

// GenerarClaveS3Clip genera la clave de un clip en S3
// Formato: {prefijo}/{clipID}.anim
func GenerarClaveS3Clip(prefijo, clipID string) string {
	return fmt.Sprintf("%s/%s%s", prefijo, clipID, ExtensionClip)
}

// GenerarPrefijoS3Clips genera el prefijo para listar clips
// Formato: {prefijo}/
func GenerarPrefijoS3Clips(prefijo string) string {
	return prefijo + "/"
}

// ParsearClaveS3Clip extrae el identificador de clip de una clave S3
// Entrada: {prefijo}/{clipID}.anim
func ParsearClaveS3Clip(clave string) (string, error) {
	indice := strings.LastIndex(clave, "/")
	if indice < 0 {
		return "", fmt.Errorf("formato de clave inválido: %s", clave)
	}
	nombre := clave[indice+1:]
	if !strings.HasSuffix(nombre, ExtensionClip) {
		return "", fmt.Errorf("extensión de clave inválida: %s", nombre)
	}
	id := strings.TrimSuffix(nombre, ExtensionClip)
	if _, err := uuid.Parse(id); err != nil {
		return "", fmt.Errorf("error parseando clipID: %v", err)
	}
	return id, nil
}
