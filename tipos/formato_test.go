package tipos

import (
	"testing"

	"github.com/cockroachdb/errors"
)

// ==================== Tests de InfoFormato ====================

// TestFormatoCompresion_Info verifica la tabla de disposición por formato
func TestFormatoCompresion_Info(t *testing.T) {
	casos := []struct {
		formato FormatoCompresion
		canal   TipoCanal
		tamano  int
		limites bool
		valido  bool
	}{
		{Ninguno, Traslacion, 12, false, true},
		{Ninguno, Rotacion, 16, false, true},
		{Float96SinW, Rotacion, 12, false, true},
		{Float96SinW, Escala, 12, false, true},
		{Fixed48SinW, Rotacion, 6, false, true},
		{Fixed48SinW, Traslacion, 0, false, false},
		{IntervaloFixed32SinW, Traslacion, 4, true, true},
		{IntervaloFixed32SinW, Rotacion, 4, true, true},
		{Fixed32SinW, Rotacion, 4, false, true},
		{Fixed32SinW, Escala, 0, false, false},
		{Float32SinW, Rotacion, 4, false, true},
		{Identidad, Traslacion, 0, false, true},
		{Identidad, Rotacion, 0, false, true},
	}

	for _, c := range casos {
		info := c.formato.Info(c.canal)
		if info.TamanoClave() != c.tamano {
			t.Errorf("%s/%s: tamaño esperado %d, obtenido %d", c.formato, c.canal, c.tamano, info.TamanoClave())
		}
		if info.Limites != c.limites {
			t.Errorf("%s/%s: límites esperado %v", c.formato, c.canal, c.limites)
		}
		if info.Valido != c.valido {
			t.Errorf("%s/%s: válido esperado %v", c.formato, c.canal, c.valido)
		}
	}

	t.Logf("✓ %d combinaciones formato/canal verificadas", len(casos))
}

// TestFormatoCompresion_Desconocido verifica formatos fuera de la tabla
func TestFormatoCompresion_Desconocido(t *testing.T) {
	f := FormatoCompresion(42)
	if f.Info(Rotacion).Valido {
		t.Error("Un formato desconocido no debería ser válido")
	}
	if f.String() != "FormatoCompresion(42)" {
		t.Errorf("String inesperado: %s", f)
	}
	if err := f.ValidarPara(Rotacion); !errors.Is(err, ErrFormatoInvalido) {
		t.Errorf("Se esperaba ErrFormatoInvalido, obtenido %v", err)
	}
}

// TestFormatoCompresion_ValidarPara verifica legalidad por canal
func TestFormatoCompresion_ValidarPara(t *testing.T) {
	if err := Fixed32SinW.ValidarPara(Rotacion); err != nil {
		t.Errorf("Fixed32SinW debería ser válido para rotación: %v", err)
	}
	if err := Fixed32SinW.ValidarPara(Traslacion); !errors.Is(err, ErrFormatoInvalido) {
		t.Errorf("Fixed32SinW no debería ser válido para traslación: %v", err)
	}
	if err := Ninguno.ValidarPara(TipoCanal(7)); !errors.Is(err, ErrFormatoInvalido) {
		t.Errorf("Se esperaba error con canal desconocido: %v", err)
	}
	t.Log("✓ ValidarPara correcto")
}

// TestFormatosValidos verifica la lista de formatos por canal
func TestFormatosValidos(t *testing.T) {
	vectores := FormatosValidos(Traslacion)
	esperados := []FormatoCompresion{Ninguno, Float96SinW, IntervaloFixed32SinW, Identidad}
	if len(vectores) != len(esperados) {
		t.Fatalf("Formatos de vector: esperados %v, obtenidos %v", esperados, vectores)
	}
	for i := range esperados {
		if vectores[i] != esperados[i] {
			t.Errorf("Formato %d: esperado %s, obtenido %s", i, esperados[i], vectores[i])
		}
	}

	if n := len(FormatosValidos(Rotacion)); n != int(numFormatos) {
		t.Errorf("Todos los formatos deberían ser válidos para rotación, obtenidos %d", n)
	}
	t.Log("✓ FormatosValidos correcto")
}

// TestTipoCanal_String verifica nombres de canal
func TestTipoCanal_String(t *testing.T) {
	if Traslacion.String() != "Traslacion" || Rotacion.String() != "Rotacion" || Escala.String() != "Escala" {
		t.Error("Nombres de canal incorrectos")
	}
	if TipoCanal(9).String() != "TipoCanal(9)" {
		t.Errorf("String inesperado: %s", TipoCanal(9))
	}
}
