package clip

import (
	"math"
	"sort"

	"github.com/cbiale/animwave/compresor"
	"github.com/cbiale/animwave/tipos"
)

// formatosCandidatos son los formatos con pérdida que se prueban por flujo
var formatosCandidatos = []tipos.FormatoCompresion{
	tipos.Fixed32SinW,
	tipos.Float32SinW,
	tipos.IntervaloFixed32SinW,
	tipos.Fixed48SinW,
	tipos.Float96SinW,
}

// elegirFormato retorna el formato más compacto cuyo error de cuantización
// sobre todo el flujo no supera cfg.ErrorMaximoFormato. Sin error máximo, o
// si ningún candidato alcanza, se usa el formato del canal.
func elegirFormato(f Flujo, cv curvas, segmentos []Segmento, cfg tipos.ConfiguracionCompresion) tipos.FormatoCompresion {
	predeterminado := cfg.Formato(f.Canal)
	if cfg.ErrorMaximoFormato <= 0 {
		return predeterminado
	}

	var candidatos []tipos.FormatoCompresion
	for _, formato := range formatosCandidatos {
		if formato.Info(f.Canal).Valido {
			candidatos = append(candidatos, formato)
		}
	}
	numFrames := len(cv.vectores) + len(cv.rotaciones)
	sort.SliceStable(candidatos, func(i, j int) bool {
		return costoFormato(candidatos[i], f.Canal, numFrames, len(segmentos)) <
			costoFormato(candidatos[j], f.Canal, numFrames, len(segmentos))
	})

	for _, formato := range candidatos {
		if errorFormato(formato, f.Canal, cv, segmentos) <= cfg.ErrorMaximoFormato {
			return formato
		}
	}
	return predeterminado
}

// costoFormato estima los bytes del flujo guardando todos sus frames
func costoFormato(formato tipos.FormatoCompresion, canal tipos.TipoCanal, numFrames, numSegmentos int) int {
	info := formato.Info(canal)
	costo := info.TamanoClave() * numFrames
	if info.Limites {
		costo += tipos.TamanoLimites * numSegmentos
	}
	return costo
}

// errorFormato empaqueta y decodifica cada frame con los límites de su
// segmento y retorna la mayor diferencia por componente.
func errorFormato(formato tipos.FormatoCompresion, canal tipos.TipoCanal, cv curvas, segmentos []Segmento) float32 {
	info := formato.Info(canal)
	maximo := float32(0)
	clave := make([]byte, 0, info.TamanoClave())

	for _, seg := range segmentos {
		desde, hasta := seg.FrameInicial, seg.FrameInicial+seg.NumFrames
		var lim *tipos.Limites
		if canal == tipos.Rotacion {
			valores := cv.rotaciones[desde:hasta]
			if info.Limites {
				l := compresor.LimitesRotaciones(valores)
				lim = &l
			}
			for _, q := range valores {
				datos, err := compresor.AgregarRotacion(clave[:0], formato, lim, q)
				if err != nil {
					return math.MaxFloat32
				}
				decodificada, err := compresor.DecodificarRotacion(formato, lim, datos)
				if err != nil {
					return math.MaxFloat32
				}
				maximo = max(maximo, diferenciaRotacion(q, decodificada))
			}
			continue
		}

		valores := cv.vectores[desde:hasta]
		if info.Limites {
			l := tipos.CalcularLimites(valores)
			lim = &l
		}
		for _, v := range valores {
			datos, err := compresor.AgregarVector(clave[:0], formato, canal, lim, v)
			if err != nil {
				return math.MaxFloat32
			}
			decodificado, err := compresor.DecodificarVector(formato, canal, lim, datos)
			if err != nil {
				return math.MaxFloat32
			}
			maximo = max(maximo, diferenciaMaxima(v, decodificado))
		}
	}
	return maximo
}
