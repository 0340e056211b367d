/*
## Resolución de índices de clave

Convierte una posición de muestreo en el par de claves que la rodean y el
factor de mezcla entre ellas.

Uniforme (claves equiespaciadas, sin marcas de tiempo):
• posicion ← posicionRelativa × (N - 1)
• indice0 ← floor(posicion), indice1 ← min(indice0 + 1, N - 1)
• alpha ← posicion - indice0
Costo O(1).

No uniforme lineal (tabla de marcas por pista, en frames):
• indice1 ← primera marca estrictamente mayor que el frame (búsqueda binaria)
• indice0 ← indice1 - 1
• alpha ← (frame - marca0) / (marca1 - marca0)
Costo O(log N).

Políticas de borde:
• Más allá de la última clave: indice0 = indice1 = N - 1, alpha = 0
• Antes de la primera clave: indice0 = indice1 = 0, alpha = 0
• Pistas triviales no pasan por aquí
*/

package interpolacion

import (
	"math"
	"sort"
)

// Resultado es el par de claves que rodea una muestra
type Resultado struct {
	Indice0 int
	Indice1 int
	Alpha   float32
}

// ResolverUniforme resuelve una posición relativa en [0,1] sobre numClaves claves
func ResolverUniforme(posicionRelativa float32, numClaves int) Resultado {
	if numClaves <= 1 || posicionRelativa <= 0 {
		return Resultado{}
	}
	ultimo := numClaves - 1
	if posicionRelativa >= 1 {
		return Resultado{Indice0: ultimo, Indice1: ultimo}
	}

	posicion := posicionRelativa * float32(ultimo)
	indice0 := int(math.Floor(float64(posicion)))
	if indice0 >= ultimo {
		return Resultado{Indice0: ultimo, Indice1: ultimo}
	}
	return Resultado{
		Indice0: indice0,
		Indice1: indice0 + 1,
		Alpha:   posicion - float32(indice0),
	}
}

// Marcas abstrae una tabla ascendente de marcas de tiempo en frames, sea
// de 8 o de 16 bits.
type Marcas interface {
	Len() int
	Frame(i int) int
}

// MarcasEnteras adapta un slice de frames a Marcas
type MarcasEnteras []int

func (m MarcasEnteras) Len() int        { return len(m) }
func (m MarcasEnteras) Frame(i int) int { return m[i] }

// ResolverLineal busca el par de marcas que rodea framePos
func ResolverLineal(marcas Marcas, framePos float32) Resultado {
	n := marcas.Len()
	if n <= 1 || framePos <= float32(marcas.Frame(0)) {
		return Resultado{}
	}
	ultimo := n - 1
	if framePos >= float32(marcas.Frame(ultimo)) {
		return Resultado{Indice0: ultimo, Indice1: ultimo}
	}

	// Primera marca estrictamente posterior a framePos
	indice1 := sort.Search(n, func(i int) bool {
		return float32(marcas.Frame(i)) > framePos
	})
	indice0 := indice1 - 1
	return Resultado{
		Indice0: indice0,
		Indice1: indice1,
		Alpha:   AlphaEntreFrames(framePos, marcas.Frame(indice0), marcas.Frame(indice1)),
	}
}

// AlphaEntreFrames calcula la mezcla de framePos entre dos frames de clave.
// Un intervalo vacío produce 0.
func AlphaEntreFrames(framePos float32, frame0, frame1 int) float32 {
	delta := frame1 - frame0
	if delta <= 0 {
		return 0
	}
	alpha := (framePos - float32(frame0)) / float32(delta)
	if alpha < 0 {
		return 0
	}
	if alpha > 1 {
		return 1
	}
	return alpha
}
