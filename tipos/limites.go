package tipos

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CentinelaRelleno es el valor de los bytes de relleno del flujo comprimido.
// Un valor distinto en una posición de relleno indica asimetría de lectura.
const CentinelaRelleno byte = 0x55

// TamanoLimites es el tamaño del encabezado min/extensión (6 × float32)
const TamanoLimites = 24

// Limites es el encabezado de rango que precede a las claves de formatos con
// límites. Extension nunca es cero en un clip bien formado.
type Limites struct {
	Min       mgl32.Vec3
	Extension mgl32.Vec3
}

// CalcularLimites obtiene el mínimo y la extensión de un conjunto de vectores.
// Las componentes con extensión cero se guardan como 1.
func CalcularLimites(valores []mgl32.Vec3) Limites {
	if len(valores) == 0 {
		return Limites{Extension: mgl32.Vec3{1, 1, 1}}
	}
	min := valores[0]
	max := valores[0]
	for _, v := range valores[1:] {
		for i := 0; i < 3; i++ {
			if v[i] < min[i] {
				min[i] = v[i]
			}
			if v[i] > max[i] {
				max[i] = v[i]
			}
		}
	}
	lim := Limites{Min: min}
	for i := 0; i < 3; i++ {
		lim.Extension[i] = max[i] - min[i]
		if lim.Extension[i] == 0 {
			lim.Extension[i] = 1
		}
	}
	return lim
}

// Alinear redondea n hacia arriba al múltiplo de alineacion
func Alinear(n, alineacion int) int {
	return (n + alineacion - 1) / alineacion * alineacion
}
