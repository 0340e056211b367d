package clip

import (
	"encoding/binary"
	"sort"

	"github.com/cbiale/animwave/compresor"
	"github.com/cbiale/animwave/tipos"
	"github.com/go-gl/mathgl/mgl32"
)

// flujoSegmento son las claves de un flujo dentro de un segmento, listas
// para empaquetar.
type flujoSegmento struct {
	Flujo
	formato    tipos.FormatoCompresion
	info       tipos.InfoFormato
	frames     []int // relativos al inicio del segmento
	vectores   []mgl32.Vec3
	rotaciones []mgl32.Quat
	limites    *tipos.Limites
}

func (f *flujoSegmento) agregarClave(destino []byte, k int) ([]byte, error) {
	if f.Canal == tipos.Rotacion {
		return compresor.AgregarRotacion(destino, f.formato, f.limites, f.rotaciones[k])
	}
	return compresor.AgregarVector(destino, f.formato, f.Canal, f.limites, f.vectores[k])
}

// escribirSegmentoPorPista escribe la tabla de pares y un bloque por flujo.
// anchoMarcador 0 omite las tablas de marcas (estrategia uniforme).
func escribirSegmentoPorPista(flujos []*flujoSegmento, anchoMarcador int) ([]byte, error) {
	datos := make([]byte, len(flujos)*TamanoParFlujo)
	datos = Rellenar(datos, 4)

	for i, f := range flujos {
		par := datos[i*TamanoParFlujo:]
		binary.LittleEndian.PutUint32(par, uint32(len(datos)))
		binary.LittleEndian.PutUint16(par[4:], uint16(len(f.frames)))

		var err error
		if datos, err = escribirBloque(datos, f, anchoMarcador); err != nil {
			return nil, err
		}
	}
	return datos, nil
}

// escribirBloque: [límites][claves][relleno][marcas][relleno]
func escribirBloque(destino []byte, f *flujoSegmento, anchoMarcador int) ([]byte, error) {
	if f.info.Limites {
		destino = compresor.AgregarLimites(destino, *f.limites)
	}
	for k := range f.frames {
		var err error
		if destino, err = f.agregarClave(destino, k); err != nil {
			return nil, err
		}
	}
	destino = Rellenar(destino, 4)
	if anchoMarcador == 0 {
		return destino, nil
	}

	for _, frame := range f.frames {
		if anchoMarcador == 1 {
			destino = append(destino, byte(frame))
		} else {
			destino = binary.LittleEndian.AppendUint16(destino, uint16(frame))
		}
	}
	return Rellenar(destino, 4), nil
}

// escribirSegmentoOrdenado intercala las claves de todos los flujos ordenadas
// por el frame en que se necesitan, es decir, el frame de la clave anterior
// del mismo flujo (-1 para la primera).
func escribirSegmentoOrdenado(flujos []*flujoSegmento) ([]byte, error) {
	var datos []byte
	for _, f := range flujos {
		if f.info.Limites {
			datos = compresor.AgregarLimites(datos, *f.limites)
		}
	}

	type registro struct {
		flujo, clave, frame, necesario int
	}
	var registros []registro
	for i, f := range flujos {
		for k, frame := range f.frames {
			necesario := -1
			if k > 0 {
				necesario = f.frames[k-1]
			}
			registros = append(registros, registro{flujo: i, clave: k, frame: frame, necesario: necesario})
		}
	}
	sort.SliceStable(registros, func(a, b int) bool {
		ra, rb := registros[a], registros[b]
		if ra.necesario != rb.necesario {
			return ra.necesario < rb.necesario
		}
		fa, fb := flujos[ra.flujo], flujos[rb.flujo]
		if fa.Canal != fb.Canal {
			return fa.Canal < fb.Canal
		}
		return fa.Pista < fb.Pista
	})

	frameAnterior := 0
	for _, r := range registros {
		f := flujos[r.flujo]
		var err error
		if datos, err = AgregarCabeceraRegistro(datos, f.Pista, f.Canal, r.frame-frameAnterior); err != nil {
			return nil, err
		}
		if datos, err = f.agregarClave(datos, r.clave); err != nil {
			return nil, err
		}
		frameAnterior = r.frame
	}
	datos = AgregarFinFlujo(datos)
	return Rellenar(datos, 4), nil
}
