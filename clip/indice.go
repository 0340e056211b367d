package clip

import (
	"encoding/binary"

	"github.com/cbiale/animwave/compresor"
	"github.com/cbiale/animwave/tipos"
	"github.com/cockroachdb/errors"
)

// TamanoParFlujo es el tamaño de una entrada (u32 desplazamiento, u16 claves)
const TamanoParFlujo = 6

// BloqueFlujo ubica las claves de un flujo dentro de un segmento
type BloqueFlujo struct {
	Claves    int // desplazamiento absoluto de la primera clave en Clip.Datos
	NumClaves int
	Marcas    int // desplazamiento absoluto de la tabla de marcas, -1 si no hay
}

// IndiceSegmento es la vista validada de un segmento
type IndiceSegmento struct {
	Segmento
	AnchoMarcador   int             // 1 u 2 bytes; 0 en segmentos uniformes
	Limites         []tipos.Limites // por flujo; solo válidos en formatos con límites
	Bloques         []BloqueFlujo   // por flujo; en VariableOrdenada solo NumClaves
	InicioRegistros int             // primer registro del flujo ordenado
}

// Indice es la vista de solo lectura de un clip con la disposición de cada
// segmento ya validada. Puede compartirse entre goroutines.
type Indice struct {
	clip      *Clip
	flujos    []Flujo
	flujoDe   [tipos.NumCanales][]int
	infos     []tipos.InfoFormato // por flujo
	segmentos []IndiceSegmento
}

// Clip retorna el clip indexado
func (ix *Indice) Clip() *Clip { return ix.clip }

// Flujos retorna los flujos animados en orden de escritura
func (ix *Indice) Flujos() []Flujo { return ix.flujos }

// FlujoDe retorna el índice de flujo de una pista y canal, o -1 si no es animado
func (ix *Indice) FlujoDe(canal tipos.TipoCanal, pista int) int {
	if !ix.clip.TieneCanal(canal) {
		return -1
	}
	return ix.flujoDe[canal][pista]
}

// Formato retorna el formato de las claves de un flujo
func (ix *Indice) Formato(flujo int) tipos.FormatoCompresion { return ix.clip.FormatosFlujo[flujo] }

// Info retorna la disposición de claves de un flujo
func (ix *Indice) Info(flujo int) tipos.InfoFormato { return ix.infos[flujo] }

// NumSegmentos retorna la cantidad de segmentos
func (ix *Indice) NumSegmentos() int { return len(ix.segmentos) }

// Segmento retorna la vista validada del segmento i
func (ix *Indice) Segmento(i int) *IndiceSegmento { return &ix.segmentos[i] }

// AnchoMarcador retorna el ancho de las marcas de tiempo para un segmento
// de numFrames frames.
func AnchoMarcador(numFrames int) int {
	if numFrames <= 255 {
		return 1
	}
	return 2
}

// MarcasFlujo expone la tabla de marcas de un bloque como interpolacion.Marcas
type MarcasFlujo struct {
	datos []byte
	ancho int
}

// Marcas retorna la tabla de marcas del bloque; vacía si el bloque no tiene
func (ix *Indice) Marcas(seg *IndiceSegmento, bloque BloqueFlujo) MarcasFlujo {
	if bloque.Marcas < 0 {
		return MarcasFlujo{}
	}
	fin := bloque.Marcas + bloque.NumClaves*seg.AnchoMarcador
	return MarcasFlujo{datos: ix.clip.Datos[bloque.Marcas:fin], ancho: seg.AnchoMarcador}
}

func (m MarcasFlujo) Len() int {
	if m.ancho == 0 {
		return 0
	}
	return len(m.datos) / m.ancho
}

func (m MarcasFlujo) Frame(i int) int {
	if m.ancho == 1 {
		return int(m.datos[i])
	}
	return int(binary.LittleEndian.Uint16(m.datos[2*i:]))
}

// NuevoIndice valida la disposición completa del clip y construye su índice.
// Cualquier inconsistencia es un error de datos corruptos.
func NuevoIndice(c *Clip) (*Indice, error) {
	if c == nil {
		return nil, errors.New("clip nulo")
	}
	if err := validarEncabezado(c); err != nil {
		return nil, err
	}

	ix := &Indice{clip: c, flujos: c.Flujos()}
	for _, canal := range tipos.Canales {
		if !c.TieneCanal(canal) {
			continue
		}
		ix.flujoDe[canal] = make([]int, c.NumPistas)
		for p := range ix.flujoDe[canal] {
			ix.flujoDe[canal][p] = -1
		}
	}
	ix.infos = make([]tipos.InfoFormato, len(ix.flujos))
	for i, f := range ix.flujos {
		ix.flujoDe[f.Canal][f.Pista] = i
		ix.infos[i] = c.FormatosFlujo[i].Info(f.Canal)
	}

	ix.segmentos = make([]IndiceSegmento, len(c.Segmentos))
	for i, seg := range c.Segmentos {
		if err := ix.indexarSegmento(i, seg); err != nil {
			return nil, errors.Wrapf(err, "segmento %d", i)
		}
	}
	return ix, nil
}

func validarEncabezado(c *Clip) error {
	if c.NumFrames < 1 {
		return tipos.Corrupto("clip sin frames")
	}
	if c.NumPistas < 0 || c.NumPistas >= PistaFinFlujo {
		return tipos.Corrupto("cantidad de pistas %d inválida", c.NumPistas)
	}
	if c.Duracion < 0 {
		return tipos.Corrupto("duración negativa %v", c.Duracion)
	}
	if err := c.Estrategia.Validar(); err != nil {
		return errors.Mark(err, tipos.ErrDatosCorruptos)
	}

	for _, canal := range tipos.Canales {
		if !c.TieneCanal(canal) {
			continue
		}
		formato := c.Formatos[canal]
		if err := formato.ValidarPara(canal); err != nil {
			return errors.Mark(err, tipos.ErrDatosCorruptos)
		}
		triviales := c.Triviales[canal]
		if len(triviales) != c.NumPistas {
			return tipos.Corrupto("canal %s con %d entradas triviales para %d pistas", canal, len(triviales), c.NumPistas)
		}
		for pista, desplazamiento := range triviales {
			switch {
			case formato == tipos.Identidad && desplazamiento != PistaIdentidad:
				return tipos.Corrupto("pista %d no es identidad en canal %s con formato Identidad", pista, canal)
			case formato != tipos.Identidad && desplazamiento == PistaIdentidad:
				return tipos.Corrupto("pista %d marcada identidad con formato '%s'", pista, formato)
			case desplazamiento >= 0 && int(desplazamiento)+compresor.TamanoTrivial > len(c.DatosTriviales):
				return tipos.Corrupto("clave trivial de la pista %d fuera de los datos triviales", pista)
			case desplazamiento < PistaIdentidad:
				return tipos.Corrupto("marca trivial %d inválida en la pista %d", desplazamiento, pista)
			}
		}
	}

	flujos := c.Flujos()
	if len(c.FormatosFlujo) != len(flujos) {
		return tipos.Corrupto("%d formatos de flujo para %d flujos animados", len(c.FormatosFlujo), len(flujos))
	}
	for i, f := range flujos {
		formato := c.FormatosFlujo[i]
		if err := formato.ValidarPara(f.Canal); err != nil {
			return errors.Mark(errors.Wrapf(err, "flujo %d", i), tipos.ErrDatosCorruptos)
		}
		if formato == tipos.Identidad {
			return tipos.Corrupto("flujo animado %d con formato Identidad", i)
		}
	}

	if len(c.Segmentos) == 0 {
		return tipos.Corrupto("clip sin segmentos")
	}
	siguiente := 0
	for i, seg := range c.Segmentos {
		if seg.FrameInicial != siguiente || seg.NumFrames < 1 {
			return tipos.Corrupto("segmento %d no continúa la partición en el frame %d", i, siguiente)
		}
		if seg.Desplazamiento%4 != 0 || seg.Desplazamiento < 0 || seg.Tamano < 0 ||
			seg.Desplazamiento+seg.Tamano > len(c.Datos) {
			return tipos.Corrupto("segmento %d con bytes [%d, +%d) fuera del flujo de %d bytes",
				i, seg.Desplazamiento, seg.Tamano, len(c.Datos))
		}
		siguiente += seg.NumFrames
	}
	if siguiente != c.NumFrames {
		return tipos.Corrupto("los segmentos cubren %d frames de %d", siguiente, c.NumFrames)
	}
	return nil
}

func (ix *Indice) indexarSegmento(i int, seg Segmento) error {
	numFlujos := len(ix.flujos)
	is := IndiceSegmento{
		Segmento: seg,
		Limites:  make([]tipos.Limites, numFlujos),
		Bloques:  make([]BloqueFlujo, numFlujos),
	}
	if numFlujos > 0 && seg.NumFrames < 2 {
		return tipos.Corrupto("segmento de %d frame con pistas animadas", seg.NumFrames)
	}

	// Los datos del segmento se leen con un cursor acotado a su tamaño
	datos := ix.clip.Datos[:seg.Desplazamiento+seg.Tamano]
	cursor := NuevoCursor(datos, seg.Desplazamiento)

	var err error
	if ix.clip.Estrategia == tipos.VariableOrdenada {
		err = ix.indexarOrdenado(&is, cursor)
	} else {
		if ix.clip.Estrategia == tipos.VariableLineal {
			is.AnchoMarcador = AnchoMarcador(seg.NumFrames)
		}
		err = ix.indexarPorPista(&is, cursor)
	}
	if err != nil {
		return err
	}
	if cursor.Restantes() != 0 {
		return tipos.Corrupto("%d bytes sin consumir al final del segmento", cursor.Restantes())
	}
	ix.segmentos[i] = is
	return nil
}

// indexarPorPista recorre la tabla de pares y los bloques de cada flujo
func (ix *Indice) indexarPorPista(is *IndiceSegmento, cursor *Cursor) error {
	type par struct {
		desplazamiento int
		numClaves      int
	}
	pares := make([]par, len(ix.flujos))
	for i := range pares {
		desplazamiento, err := cursor.U32()
		if err != nil {
			return errors.Wrap(err, "error leyendo tabla de flujos")
		}
		numClaves, err := cursor.U16()
		if err != nil {
			return errors.Wrap(err, "error leyendo tabla de flujos")
		}
		pares[i] = par{int(desplazamiento), int(numClaves)}
	}
	if err := cursor.AlinearCentinela(4); err != nil {
		return err
	}

	for i, f := range ix.flujos {
		if cursor.Posicion() != is.Desplazamiento+pares[i].desplazamiento {
			return tipos.Corrupto("bloque del flujo %d en %d, la tabla indica %d",
				i, cursor.Posicion()-is.Desplazamiento, pares[i].desplazamiento)
		}
		bloque, lim, err := LeerBloque(cursor, ix.infos[i], pares[i].numClaves, is.AnchoMarcador, is.NumFrames)
		if err != nil {
			return errors.Wrapf(err, "flujo %d (pista %d, %s)", i, f.Pista, f.Canal)
		}
		is.Bloques[i] = bloque
		is.Limites[i] = lim
	}
	return nil
}

// LeerBloque valida un bloque de pista en la posición del cursor:
// [límites][claves][relleno][marcas][relleno]
func LeerBloque(cursor *Cursor, info tipos.InfoFormato, numClaves, anchoMarcador, numFrames int) (BloqueFlujo, tipos.Limites, error) {
	var lim tipos.Limites
	if numClaves < 2 {
		return BloqueFlujo{}, lim, tipos.Corrupto("flujo animado con %d claves", numClaves)
	}
	if info.Limites {
		b, err := cursor.Bytes(tipos.TamanoLimites)
		if err != nil {
			return BloqueFlujo{}, lim, errors.Wrap(err, "error leyendo límites")
		}
		lim = compresor.LeerLimites(b)
	}

	bloque := BloqueFlujo{Claves: cursor.Posicion(), NumClaves: numClaves, Marcas: -1}
	if err := cursor.Saltar(numClaves * info.TamanoClave()); err != nil {
		return BloqueFlujo{}, lim, errors.Wrap(err, "error leyendo claves")
	}
	if err := cursor.AlinearCentinela(4); err != nil {
		return BloqueFlujo{}, lim, err
	}
	if anchoMarcador == 0 {
		if numClaves != numFrames {
			return BloqueFlujo{}, lim, tipos.Corrupto("flujo uniforme con %d claves en %d frames", numClaves, numFrames)
		}
		return bloque, lim, nil
	}

	bloque.Marcas = cursor.Posicion()
	b, err := cursor.Bytes(numClaves * anchoMarcador)
	if err != nil {
		return BloqueFlujo{}, lim, errors.Wrap(err, "error leyendo marcas de tiempo")
	}
	marcas := MarcasFlujo{datos: b, ancho: anchoMarcador}
	if marcas.Frame(0) != 0 || marcas.Frame(numClaves-1) != numFrames-1 {
		return BloqueFlujo{}, lim, tipos.Corrupto("marcas [%d..%d] no cubren el segmento de %d frames",
			marcas.Frame(0), marcas.Frame(numClaves-1), numFrames)
	}
	for k := 1; k < numClaves; k++ {
		if marcas.Frame(k) <= marcas.Frame(k-1) {
			return BloqueFlujo{}, lim, tipos.Corrupto("marcas no crecientes en la clave %d", k)
		}
	}
	if err := cursor.AlinearCentinela(4); err != nil {
		return BloqueFlujo{}, lim, err
	}
	return bloque, lim, nil
}

// indexarOrdenado lee la tabla de límites y valida el flujo de registros completo
func (ix *Indice) indexarOrdenado(is *IndiceSegmento, cursor *Cursor) error {
	for i := range ix.flujos {
		is.Bloques[i].Marcas = -1
		is.Bloques[i].Claves = -1
		if !ix.infos[i].Limites {
			continue
		}
		b, err := cursor.Bytes(tipos.TamanoLimites)
		if err != nil {
			return errors.Wrap(err, "error leyendo tabla de límites")
		}
		is.Limites[i] = compresor.LeerLimites(b)
	}
	is.InicioRegistros = cursor.Posicion()

	ultimoFrame := make([]int, len(ix.flujos))
	frame := 0
	for {
		cab, err := LeerCabeceraRegistro(cursor)
		if err != nil {
			return err
		}
		if cab.Fin {
			break
		}
		flujo, err := ix.FlujoDeRegistro(cab)
		if err != nil {
			return err
		}
		frame += cab.Delta
		if frame < 0 || frame >= is.NumFrames {
			return tipos.Corrupto("registro de la pista %d en el frame %d fuera del segmento", cab.Pista, frame)
		}
		bloque := &is.Bloques[flujo]
		if bloque.NumClaves == 0 && frame != 0 {
			return tipos.Corrupto("la primera clave de la pista %d está en el frame %d", cab.Pista, frame)
		}
		if bloque.NumClaves > 0 && frame <= ultimoFrame[flujo] {
			return tipos.Corrupto("claves no crecientes en la pista %d", cab.Pista)
		}
		if err := cursor.Saltar(ix.infos[flujo].TamanoClave()); err != nil {
			return errors.Wrap(err, "error leyendo clave de registro")
		}
		bloque.NumClaves++
		ultimoFrame[flujo] = frame
	}
	for i := range ix.flujos {
		if is.Bloques[i].NumClaves < 2 || ultimoFrame[i] != is.NumFrames-1 {
			return tipos.Corrupto("flujo %d con %d claves no cubre el segmento", i, is.Bloques[i].NumClaves)
		}
	}
	return cursor.AlinearCentinela(4)
}

// FlujoDeRegistro resuelve el flujo al que pertenece un registro
func (ix *Indice) FlujoDeRegistro(cab CabeceraRegistro) (int, error) {
	if cab.Pista >= ix.clip.NumPistas || !ix.clip.TieneCanal(cab.Canal) {
		return -1, tipos.Corrupto("registro de pista %d canal %s inexistente", cab.Pista, cab.Canal)
	}
	flujo := ix.flujoDe[cab.Canal][cab.Pista]
	if flujo < 0 {
		return -1, tipos.Corrupto("registro para la pista no animada %d canal %s", cab.Pista, cab.Canal)
	}
	return flujo, nil
}
