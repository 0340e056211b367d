package intercambio

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/cbiale/animwave/clip"
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clipPrueba codifica tres pistas (una animada, una constante y una con
// solo rotación animada) con escala en la pista 0. Con escala Identidad
// todas las escalas son unitarias.
func clipPrueba(t *testing.T, numFrames int, cfg tipos.ConfiguracionCompresion) *clip.Clip {
	t.Helper()
	crudo := clip.ClipCrudo{
		Nombre:    "intercambio",
		NumFrames: numFrames,
		Duracion:  float32(numFrames-1) / 30,
		Pistas:    make([]clip.PistaCruda, 3),
	}
	for p := range crudo.Pistas {
		crudo.Pistas[p] = clip.PistaCruda{
			Traslaciones: make([]mgl32.Vec3, numFrames),
			Rotaciones:   make([]mgl32.Quat, numFrames),
			Escalas:      make([]mgl32.Vec3, numFrames),
		}
	}
	for f := 0; f < numFrames; f++ {
		x := float64(f)
		s := float32(1 + 0.1*math.Sin(x*0.3))
		crudo.Pistas[0].Traslaciones[f] = mgl32.Vec3{float32(math.Sin(x * 0.1)), float32(x * 0.05), -1}
		crudo.Pistas[0].Rotaciones[f] = mgl32.QuatRotate(float32(x*0.03), mgl32.Vec3{0, 1, 0})
		crudo.Pistas[0].Escalas[f] = mgl32.Vec3{s, s, 1}
		crudo.Pistas[1].Traslaciones[f] = mgl32.Vec3{1, 2, 3}
		crudo.Pistas[1].Rotaciones[f] = mgl32.QuatIdent()
		crudo.Pistas[1].Escalas[f] = mgl32.Vec3{2, 2, 2}
		crudo.Pistas[2].Rotaciones[f] = mgl32.QuatRotate(float32(math.Cos(x*0.07)), mgl32.Vec3{0, 0, 1})
		crudo.Pistas[2].Escalas[f] = mgl32.Vec3{1, 1, 1}
	}
	if cfg.FormatoEscala == tipos.Identidad {
		for p := range crudo.Pistas {
			for f := range crudo.Pistas[p].Escalas {
				crudo.Pistas[p].Escalas[f] = mgl32.Vec3{1, 1, 1}
			}
		}
	}
	c, err := clip.Codificar(crudo, cfg, nil)
	require.NoError(t, err)
	return c
}

var configuraciones = map[string]tipos.ConfiguracionCompresion{
	"lineal-fixed48": {
		Estrategia:          tipos.VariableLineal,
		FormatoRotacion:     tipos.Fixed48SinW,
		FormatoTraslacion:   tipos.IntervaloFixed32SinW,
		FormatoEscala:       tipos.Float96SinW,
		ToleranciaReduccion: 1e-3,
	},
	"ordenada-intervalo": {
		Estrategia:          tipos.VariableOrdenada,
		FormatoRotacion:     tipos.IntervaloFixed32SinW,
		FormatoTraslacion:   tipos.Float96SinW,
		FormatoEscala:       tipos.IntervaloFixed32SinW,
		ToleranciaReduccion: 1e-3,
	},
	"uniforme-fixed32-identidad": {
		Estrategia:        tipos.Uniforme,
		FormatoRotacion:   tipos.Fixed32SinW,
		FormatoTraslacion: tipos.IntervaloFixed32SinW,
		FormatoEscala:     tipos.Identidad,
	},
	"uniforme-float32": {
		Estrategia:      tipos.Uniforme,
		FormatoRotacion: tipos.Float32SinW,
		FormatoEscala:   tipos.IntervaloFixed32SinW,
	},
	"lineal-fixed32": {
		Estrategia:          tipos.VariableLineal,
		FormatoRotacion:     tipos.Fixed32SinW,
		FormatoTraslacion:   tipos.Float96SinW,
		ToleranciaReduccion: 1e-3,
	},
	"lineal-float32-identidad": {
		Estrategia:          tipos.VariableLineal,
		FormatoRotacion:     tipos.Float32SinW,
		FormatoTraslacion:   tipos.IntervaloFixed32SinW,
		FormatoEscala:       tipos.Identidad,
		ToleranciaReduccion: 1e-3,
	},
	"ordenada-fixed32-identidad": {
		Estrategia:          tipos.VariableOrdenada,
		FormatoRotacion:     tipos.Fixed32SinW,
		FormatoTraslacion:   tipos.IntervaloFixed32SinW,
		FormatoEscala:       tipos.Identidad,
		ToleranciaReduccion: 1e-3,
	},
	"ordenada-float32": {
		Estrategia:          tipos.VariableOrdenada,
		FormatoRotacion:     tipos.Float32SinW,
		FormatoEscala:       tipos.Float96SinW,
		ToleranciaReduccion: 1e-3,
	},
	"lineal-por-flujo": {
		Estrategia:          tipos.VariableLineal,
		ToleranciaReduccion: 1e-3,
		ErrorMaximoFormato:  1e-3,
	},
	"ordenada-por-flujo": {
		Estrategia:          tipos.VariableOrdenada,
		ToleranciaReduccion: 1e-3,
		ErrorMaximoFormato:  1e-3,
	},
	"uniforme": {},
}

func TestParsearOrden(t *testing.T) {
	orden, err := ParsearOrden("")
	require.NoError(t, err)
	assert.Equal(t, binary.ByteOrder(binary.LittleEndian), orden)

	orden, err = ParsearOrden("LE")
	require.NoError(t, err)
	assert.Equal(t, binary.ByteOrder(binary.LittleEndian), orden)

	orden, err = ParsearOrden("BE")
	require.NoError(t, err)
	assert.Equal(t, binary.ByteOrder(binary.BigEndian), orden)

	_, err = ParsearOrden("PDP")
	assert.True(t, errors.Is(err, tipos.ErrConfiguracionInvalida))
}

func TestExportarDatos_LittleEndianSinCambios(t *testing.T) {
	for nombre, cfg := range configuraciones {
		t.Run(nombre, func(t *testing.T) {
			c := clipPrueba(t, 200, cfg)
			datos, triviales, err := ExportarDatos(c, binary.LittleEndian)
			require.NoError(t, err)
			assert.Equal(t, c.Datos, datos)
			assert.Equal(t, c.DatosTriviales, triviales)
		})
	}
}

func TestExportarImportar_BigEndian(t *testing.T) {
	for nombre, cfg := range configuraciones {
		t.Run(nombre, func(t *testing.T) {
			c := clipPrueba(t, 200, cfg)
			require.Len(t, c.Segmentos, 3)

			datos, triviales, err := ExportarDatos(c, binary.BigEndian)
			require.NoError(t, err)
			require.Len(t, datos, len(c.Datos))
			assert.NotEqual(t, c.Datos, datos)

			// Las claves triviales son float32: cada palabra se invierte
			require.Len(t, triviales, len(c.DatosTriviales))
			for i := 0; i < len(triviales); i += 4 {
				assert.Equal(t, c.DatosTriviales[i], triviales[i+3])
				assert.Equal(t, c.DatosTriviales[i+3], triviales[i])
			}

			exportado := *c
			exportado.Datos, exportado.DatosTriviales = datos, triviales
			canonicos, canonicosTriviales, err := ImportarDatos(&exportado, binary.BigEndian)
			require.NoError(t, err)
			assert.Equal(t, c.Datos, canonicos)
			assert.Equal(t, c.DatosTriviales, canonicosTriviales)

			exportado.Datos, exportado.DatosTriviales = canonicos, canonicosTriviales
			_, err = clip.NuevoIndice(&exportado)
			assert.NoError(t, err)
		})
	}
}

func TestExportarDatos_ConservaRelleno(t *testing.T) {
	// 40 frames sin escala: tres flujos, tabla de 18 bytes y relleno en 18 y 19
	c := recodificarSinEscala(t)
	require.Len(t, c.Flujos(), 3)
	require.Equal(t, tipos.CentinelaRelleno, c.Datos[18])

	datos, _, err := ExportarDatos(c, binary.BigEndian)
	require.NoError(t, err)
	assert.Equal(t, tipos.CentinelaRelleno, datos[18])
	assert.Equal(t, tipos.CentinelaRelleno, datos[19])
}

// recodificarSinEscala produce un clip de 40 frames con flujos T0, R0 y R2
func recodificarSinEscala(t *testing.T) *clip.Clip {
	t.Helper()
	crudo := clip.ClipCrudo{Nombre: "sin escala", NumFrames: 40, Duracion: 39.0 / 30, Pistas: make([]clip.PistaCruda, 3)}
	for p := range crudo.Pistas {
		crudo.Pistas[p] = clip.PistaCruda{
			Traslaciones: make([]mgl32.Vec3, 40),
			Rotaciones:   make([]mgl32.Quat, 40),
		}
		for f := 0; f < 40; f++ {
			crudo.Pistas[p].Rotaciones[f] = mgl32.QuatIdent()
		}
	}
	for f := 0; f < 40; f++ {
		x := float32(f)
		crudo.Pistas[0].Traslaciones[f] = mgl32.Vec3{x, 0, 0}
		crudo.Pistas[0].Rotaciones[f] = mgl32.QuatRotate(x*0.02, mgl32.Vec3{1, 0, 0})
		crudo.Pistas[2].Rotaciones[f] = mgl32.QuatRotate(x*0.05, mgl32.Vec3{0, 1, 0})
	}
	c, err := clip.Codificar(crudo, tipos.ConfiguracionCompresion{}, nil)
	require.NoError(t, err)
	return c
}

func TestConvertirClip_Corrupto(t *testing.T) {
	casos := []struct {
		nombre    string
		corromper func(c *clip.Clip)
	}{
		{"relleno", func(c *clip.Clip) { c.Datos[18] = 0 }},
		{"truncado", func(c *clip.Clip) { c.Datos = c.Datos[:len(c.Datos)-4] }},
		{"bytes sobrantes", func(c *clip.Clip) { c.Datos = append(c.Datos, 0, 0, 0, 0) }},
		{"triviales desalineados", func(c *clip.Clip) { c.DatosTriviales = c.DatosTriviales[:len(c.DatosTriviales)-1] }},
		{"desplazamiento de flujo", func(c *clip.Clip) { c.Datos[0]++ }},
		{"formatos de flujo", func(c *clip.Clip) { c.FormatosFlujo = c.FormatosFlujo[:2] }},
	}
	for _, caso := range casos {
		t.Run(caso.nombre, func(t *testing.T) {
			c := recodificarSinEscala(t)
			caso.corromper(c)
			_, _, err := ExportarDatos(c, binary.BigEndian)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tipos.ErrDatosCorruptos), "error sin marca de corrupción: %v", err)
		})
	}
}

func TestConvertirClip_OrdenadoFinDeFlujo(t *testing.T) {
	c := clipPrueba(t, 40, configuraciones["ordenada-intervalo"])
	datos := c.Datos
	// El flujo termina en FF FF 00 seguido del relleno
	fin := len(datos) - 1
	for datos[fin] == tipos.CentinelaRelleno {
		fin--
	}
	require.Equal(t, byte(0), datos[fin])
	require.Equal(t, byte(0xFF), datos[fin-1])
	datos[fin] = 0x01

	_, _, err := ExportarDatos(c, binary.BigEndian)
	assert.True(t, errors.Is(err, tipos.ErrDatosCorruptos))
}

// ==================== Bloques de pista ====================

func bloqueFixed48() (BloquePista, []byte) {
	b := BloquePista{Formato: tipos.Fixed48SinW, Canal: tipos.Rotacion, NumClaves: 3, AnchoMarcador: 2}
	datos := make([]byte, 0, b.Tamano())
	for i := 0; i < 18; i++ {
		datos = append(datos, byte(i+1))
	}
	datos = append(datos, 0x55, 0x55)
	datos = binary.LittleEndian.AppendUint16(datos, 0)
	datos = binary.LittleEndian.AppendUint16(datos, 7)
	datos = binary.LittleEndian.AppendUint16(datos, 300)
	datos = append(datos, 0x55, 0x55)
	return b, datos
}

func TestBloquePista_Tamano(t *testing.T) {
	casos := []struct {
		nombre   string
		bloque   BloquePista
		esperado int
	}{
		{"fixed48 con marcas de 2", BloquePista{Formato: tipos.Fixed48SinW, Canal: tipos.Rotacion, NumClaves: 3, AnchoMarcador: 2}, 28},
		{"fixed48 uniforme", BloquePista{Formato: tipos.Fixed48SinW, Canal: tipos.Rotacion, NumClaves: 3}, 20},
		{"intervalo con límites", BloquePista{Formato: tipos.IntervaloFixed32SinW, Canal: tipos.Traslacion, NumClaves: 5, AnchoMarcador: 1}, 24 + 20 + 8},
		{"ninguno rotación", BloquePista{Formato: tipos.Ninguno, Canal: tipos.Rotacion, NumClaves: 2}, 32},
	}
	for _, caso := range casos {
		t.Run(caso.nombre, func(t *testing.T) {
			assert.Equal(t, caso.esperado, caso.bloque.Tamano())
		})
	}
}

func TestIntercambiarBloque_IdaYVuelta(t *testing.T) {
	b, datos := bloqueFixed48()
	require.Len(t, datos, b.Tamano())

	var buf bytes.Buffer
	n, err := IntercambiarSalida(b, &buf, binary.BigEndian, datos)
	require.NoError(t, err)
	assert.Equal(t, len(datos), n)

	salida := buf.Bytes()
	assert.Equal(t, []byte{2, 1, 4, 3}, salida[:4])
	assert.Equal(t, []byte{0x55, 0x55}, salida[18:20])
	assert.Equal(t, uint16(300), binary.BigEndian.Uint16(salida[24:]))
	assert.Equal(t, []byte{0x55, 0x55}, salida[26:28])

	destino := make([]byte, b.Tamano())
	n, err = IntercambiarEntrada(b, bytes.NewReader(salida), binary.BigEndian, destino)
	require.NoError(t, err)
	assert.Equal(t, len(datos), n)
	assert.Equal(t, datos, destino)
}

func TestIntercambiarBloque_Errores(t *testing.T) {
	b, datos := bloqueFixed48()

	t.Run("relleno corrupto", func(t *testing.T) {
		corrupto := append([]byte(nil), datos...)
		corrupto[19] = 0
		_, err := IntercambiarSalida(b, &bytes.Buffer{}, binary.BigEndian, corrupto)
		assert.True(t, errors.Is(err, tipos.ErrDatosCorruptos))
	})

	t.Run("datos cortos", func(t *testing.T) {
		_, err := IntercambiarSalida(b, &bytes.Buffer{}, binary.BigEndian, datos[:10])
		assert.True(t, errors.Is(err, tipos.ErrDatosCorruptos))
	})

	t.Run("lectura truncada", func(t *testing.T) {
		destino := make([]byte, b.Tamano())
		_, err := IntercambiarEntrada(b, bytes.NewReader(datos[:20]), binary.BigEndian, destino)
		assert.True(t, errors.Is(err, tipos.ErrDatosCorruptos))
	})

	t.Run("destino pequeño", func(t *testing.T) {
		_, err := IntercambiarEntrada(b, bytes.NewReader(datos), binary.BigEndian, make([]byte, 4))
		assert.Error(t, err)
	})

	t.Run("formato inválido para el canal", func(t *testing.T) {
		vector := BloquePista{Formato: tipos.Fixed48SinW, Canal: tipos.Traslacion, NumClaves: 1}
		_, err := IntercambiarSalida(vector, &bytes.Buffer{}, binary.BigEndian, make([]byte, 8))
		assert.True(t, errors.Is(err, tipos.ErrFormatoInvalido))
	})
}
