package descompresion

import (
	"github.com/cbiale/animwave/clip"
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
)

// ParPista asocia una pista del clip con una ranura del arreglo de salida
type ParPista struct {
	Pista  int
	Ranura int
}

// verificarPares valida todos los pares antes de escribir la salida, de modo
// que un error no deje la pose a medio escribir.
func (ctx *Contexto) verificarPares(pares []ParPista, numRanuras int) error {
	if ctx.estado == SinInicializar {
		return tipos.ErrSinPosicion
	}
	for i, par := range pares {
		if par.Pista < 0 || par.Pista >= ctx.clip.NumPistas {
			return errors.Wrapf(tipos.ErrFueraDeRango, "par %d: pista %d fuera de [0, %d)", i, par.Pista, ctx.clip.NumPistas)
		}
		if par.Ranura < 0 || par.Ranura >= numRanuras {
			return errors.Wrapf(tipos.ErrFueraDeRango, "par %d: ranura %d fuera de [0, %d)", i, par.Ranura, numRanuras)
		}
	}
	return nil
}

// DecodificarPose escribe la transformación de cada pista en su ranura, en
// el orden de pares. Equivale a llamar ObtenerTransformacion por cada par.
func DecodificarPose(ctx *Contexto, pares []ParPista, destino []clip.Transformacion) error {
	if err := ctx.verificarPares(pares, len(destino)); err != nil {
		return err
	}
	for _, par := range pares {
		destino[par.Ranura] = clip.Transformacion{
			Traslacion: ctx.muestraVector(tipos.Traslacion, par.Pista),
			Rotacion:   ctx.muestraRotacion(par.Pista),
			Escala:     ctx.muestraVector(tipos.Escala, par.Pista),
		}
	}
	return nil
}

// DecodificarVectores decodifica un único canal vectorial para un lote de pistas
func DecodificarVectores(ctx *Contexto, canal tipos.TipoCanal, pares []ParPista, destino []mgl32.Vec3) error {
	if canal == tipos.Rotacion || canal >= tipos.NumCanales {
		return errors.Wrapf(tipos.ErrFormatoInvalido, "canal '%s' no es vectorial", canal)
	}
	if err := ctx.verificarPares(pares, len(destino)); err != nil {
		return err
	}
	for _, par := range pares {
		destino[par.Ranura] = ctx.muestraVector(canal, par.Pista)
	}
	return nil
}

// DecodificarRotaciones decodifica las rotaciones de un lote de pistas
func DecodificarRotaciones(ctx *Contexto, pares []ParPista, destino []mgl32.Quat) error {
	if err := ctx.verificarPares(pares, len(destino)); err != nil {
		return err
	}
	for _, par := range pares {
		destino[par.Ranura] = ctx.muestraRotacion(par.Pista)
	}
	return nil
}

// ParesIdentidad retorna los pares pista i → ranura i para todas las pistas
func ParesIdentidad(numPistas int) []ParPista {
	pares := make([]ParPista, numPistas)
	for i := range pares {
		pares[i] = ParPista{Pista: i, Ranura: i}
	}
	return pares
}
