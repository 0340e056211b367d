package tipos

import (
	"testing"

	"github.com/cockroachdb/errors"
)

// ==================== Tests de ConfiguracionCompresion ====================

// TestConfiguracionCompresion_AplicarDefaults verifica los valores por defecto
func TestConfiguracionCompresion_AplicarDefaults(t *testing.T) {
	var cfg ConfiguracionCompresion
	cfg.AplicarDefaults()

	if cfg.Estrategia != Uniforme {
		t.Errorf("Estrategia default incorrecta: %s", cfg.Estrategia)
	}
	if cfg.FramesPorSegmento != FramesPorSegmentoIdeal {
		t.Errorf("FramesPorSegmento default incorrecto: %d", cfg.FramesPorSegmento)
	}
	if cfg.MaxFramesPorSegmento != MaxFramesPorSegmento {
		t.Errorf("MaxFramesPorSegmento default incorrecto: %d", cfg.MaxFramesPorSegmento)
	}
	if cfg.ToleranciaTrivial <= 0 {
		t.Errorf("ToleranciaTrivial default debería ser positiva: %v", cfg.ToleranciaTrivial)
	}
	if err := cfg.Validar(); err != nil {
		t.Errorf("La configuración por defecto debería ser válida: %v", err)
	}

	t.Logf("✓ Defaults: estrategia=%s frames=%d max=%d", cfg.Estrategia, cfg.FramesPorSegmento, cfg.MaxFramesPorSegmento)
}

// TestConfiguracionCompresion_AplicarDefaults_Existentes verifica que no sobreescribe
func TestConfiguracionCompresion_AplicarDefaults_Existentes(t *testing.T) {
	cfg := ConfiguracionCompresion{
		Estrategia:        VariableOrdenada,
		FramesPorSegmento: 16,
	}
	cfg.AplicarDefaults()

	if cfg.Estrategia != VariableOrdenada {
		t.Errorf("Estrategia sobreescrita: %s", cfg.Estrategia)
	}
	if cfg.FramesPorSegmento != 16 || cfg.MaxFramesPorSegmento != 31 {
		t.Errorf("Segmentación incorrecta: frames=%d max=%d", cfg.FramesPorSegmento, cfg.MaxFramesPorSegmento)
	}
}

// TestConfiguracionCompresion_Formato verifica el formato por canal
func TestConfiguracionCompresion_Formato(t *testing.T) {
	cfg := ConfiguracionCompresion{
		FormatoTraslacion: IntervaloFixed32SinW,
		FormatoRotacion:   Fixed48SinW,
		FormatoEscala:     Identidad,
	}
	if cfg.Formato(Traslacion) != IntervaloFixed32SinW ||
		cfg.Formato(Rotacion) != Fixed48SinW ||
		cfg.Formato(Escala) != Identidad {
		t.Error("Formato por canal incorrecto")
	}
}

// TestConfiguracionCompresion_Validar_Errores verifica configuraciones inválidas
func TestConfiguracionCompresion_Validar_Errores(t *testing.T) {
	casos := []struct {
		nombre    string
		modificar func(*ConfiguracionCompresion)
	}{
		{"formato de rotación para traslación", func(c *ConfiguracionCompresion) { c.FormatoTraslacion = Fixed32SinW }},
		{"formato de rotación para escala", func(c *ConfiguracionCompresion) { c.FormatoEscala = Float32SinW }},
		{"formato desconocido", func(c *ConfiguracionCompresion) { c.FormatoRotacion = FormatoCompresion(9) }},
		{"segmento de un frame", func(c *ConfiguracionCompresion) { c.FramesPorSegmento = 1 }},
		{"máximo menor que el ideal", func(c *ConfiguracionCompresion) { c.MaxFramesPorSegmento = 10 }},
		{"máximo sobre el límite", func(c *ConfiguracionCompresion) { c.MaxFramesPorSegmento = 5000 }},
		{"tolerancia negativa", func(c *ConfiguracionCompresion) { c.ToleranciaReduccion = -1 }},
		{"error de formato negativo", func(c *ConfiguracionCompresion) { c.ErrorMaximoFormato = -1 }},
		{"estrategia desconocida", func(c *ConfiguracionCompresion) { c.Estrategia = EstrategiaClaves{"Cubica"} }},
	}

	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			var cfg ConfiguracionCompresion
			cfg.AplicarDefaults()
			c.modificar(&cfg)
			err := cfg.Validar()
			if !errors.Is(err, ErrConfiguracionInvalida) {
				t.Errorf("Se esperaba ErrConfiguracionInvalida, obtenido %v", err)
			} else {
				t.Logf("✓ Error esperado: %v", err)
			}
		})
	}
}
