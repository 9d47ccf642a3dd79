package meshing

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// GreedyMesher funde faces de voxel coplanares e equivalentes no menor
// número possível de quads retangulares, combinando greedy meshing com
// face culling: fronteiras entre faces equivalentes são interiores e não
// geram geometria.
//
// A varredura cobre 2 sentidos x 3 eixos = 6 passadas independentes. Para
// cada fatia perpendicular ao eixo varrido é montada uma máscara 2D de
// faces visíveis, que é então particionada gulosamente em retângulos
// maximais (largura antes de altura, em ordem row-major — um viés
// determinístico de projeto, não acidente).
type GreedyMesher struct {
	// Dims são as extensões da grade em cada eixo. Consultas fora de
	// [0, Dims) nunca são feitas; a camada virtual -1/Dims é tratada como
	// ausente para capturar as faces da borda.
	Dims [3]int32

	// Query fornece a face de um voxel (contrato externo).
	Query FaceQueryFunc

	// Equals decide a fusão de faces. Se nil, usa DefaultEquals.
	Equals EqualsFunc

	// Emit recebe cada quad produzido (contrato externo).
	Emit QuadFunc
}

// passSpec descreve uma das 6 passadas direcionais.
type passSpec struct {
	axis     int  // eixo varrido (d); máscara cobre u=(d+1)%3, v=(d+2)%3
	backFace bool // varredura no sentido negativo do eixo
	side     Side // lado canônico consultado nesta passada
}

// A enumeração explícita substitui o loop booleano "flip-flop" da versão
// clássica do algoritmo; a ordem é fixa para que a saída seja determinística.
var passes = [6]passSpec{
	{axis: 0, backFace: true, side: SideWest},
	{axis: 0, backFace: false, side: SideEast},
	{axis: 1, backFace: true, side: SideBottom},
	{axis: 1, backFace: false, side: SideTop},
	{axis: 2, backFace: true, side: SideSouth},
	{axis: 2, backFace: false, side: SideNorth},
}

// maskCell é uma entrada "face-ou-ausente" da máscara de uma fatia.
type maskCell struct {
	face    VoxelFace
	present bool
}

// maskPool recicla buffers de máscara entre passadas. Cada passada recebe o
// seu próprio buffer (nenhum estado compartilhado entre passadas), mas a
// memória é reaproveitada para aliviar o GC.
var maskPool = sync.Pool{
	New: func() interface{} {
		return make([]maskCell, 0, 256)
	},
}

func acquireMask(size int) []maskCell {
	m := maskPool.Get().([]maskCell)
	if cap(m) < size {
		return make([]maskCell, size)
	}
	return m[:size]
}

func releaseMask(m []maskCell) {
	maskPool.Put(m[:0])
}

// Mesh executa as 6 passadas sequencialmente, emitindo cada quad via Emit.
// O mesher não guarda estado entre execuções e pode ser reutilizado em
// grades diferentes.
func (m *GreedyMesher) Mesh() {
	eq := m.Equals
	if eq == nil {
		eq = DefaultEquals
	}
	for _, p := range passes {
		m.meshPass(p, eq, m.Emit)
	}
}

// quadRec guarda um quad produzido por uma passada paralela até a fase de
// emissão ordenada.
type quadRec struct {
	corners  [4]mgl32.Vec3
	w, h     int32
	face     VoxelFace
	backFace bool
}

// MeshParallel executa as 6 passadas em goroutines separadas. Cada passada
// é somente-leitura sobre a fonte de voxels e usa máscara e buffer de quads
// próprios; a emissão acontece depois, na ordem fixa das passadas, então o
// resultado é idêntico ao de Mesh.
func (m *GreedyMesher) MeshParallel() {
	eq := m.Equals
	if eq == nil {
		eq = DefaultEquals
	}

	var wg sync.WaitGroup
	buffers := make([][]quadRec, len(passes))
	for idx, p := range passes {
		wg.Add(1)
		go func(idx int, p passSpec) {
			defer wg.Done()
			local := make([]quadRec, 0, 64)
			m.meshPass(p, eq, func(corners [4]mgl32.Vec3, w, h int32, face VoxelFace, backFace bool) {
				local = append(local, quadRec{corners: corners, w: w, h: h, face: face, backFace: backFace})
			})
			buffers[idx] = local
		}(idx, p)
	}
	wg.Wait()

	for _, buf := range buffers {
		for i := range buf {
			q := &buf[i]
			m.Emit(q.corners, q.w, q.h, q.face, q.backFace)
		}
	}
}

// meshPass varre um eixo em um sentido: para cada fatia monta a máscara de
// faces visíveis e a particiona em retângulos maximais.
func (m *GreedyMesher) meshPass(p passSpec, eq EqualsFunc, emit QuadFunc) {
	d := p.axis
	u := (d + 1) % 3
	v := (d + 2) % 3

	dimU := m.Dims[u]
	dimV := m.Dims[v]

	mask := acquireMask(int(dimU * dimV))
	defer releaseMask(mask)

	var x [3]int32
	var q [3]int32
	q[d] = 1 // passo na direção da normal

	// A fatia -1 é virtual: captura as faces voltadas para fora na borda
	// inferior da grade. A última iteração (x[d] = Dims[d]-1) captura a
	// borda superior.
	for x[d] = -1; x[d] < m.Dims[d]; {

		// Montagem da máscara: para cada célula (u,v) comparamos a face
		// "perto" (camada atual) com a face "longe" (camada seguinte).
		// Se ambas existem e são equivalentes, a fronteira é interior e
		// invisível. Caso contrário, fica na máscara a face do lado que
		// esta passada enxerga.
		n := 0
		for x[v] = 0; x[v] < dimV; x[v]++ {
			for x[u] = 0; x[u] < dimU; x[u]++ {
				var near, far VoxelFace
				var hasNear, hasFar bool
				if x[d] >= 0 {
					near, hasNear = m.Query(x[0], x[1], x[2], p.side)
				}
				if x[d] < m.Dims[d]-1 {
					far, hasFar = m.Query(x[0]+q[0], x[1]+q[1], x[2]+q[2], p.side)
				}

				switch {
				case hasNear && hasFar && eq(near, far):
					mask[n] = maskCell{}
				case p.backFace:
					mask[n] = maskCell{face: far, present: hasFar}
				default:
					mask[n] = maskCell{face: near, present: hasNear}
				}
				n++
			}
		}

		x[d]++

		// Expansão gulosa: varremos a máscara em ordem row-major e, em cada
		// célula não reivindicada, crescemos um retângulo — largura primeiro,
		// depois altura linha a linha completa.
		n = 0
		for j := int32(0); j < dimV; j++ {
			for i := int32(0); i < dimU; {
				if !mask[n].present {
					i++
					n++
					continue
				}
				seed := mask[n].face

				w := int32(1)
				for i+w < dimU && mask[n+int(w)].present && eq(mask[n+int(w)].face, seed) {
					w++
				}

				// Uma linha só entra se TODAS as células do intervalo de
				// largura forem equivalentes à semente.
				h := int32(1)
			growth:
				for ; j+h < dimV; h++ {
					for k := int32(0); k < w; k++ {
						cell := &mask[n+int(k)+int(h)*int(dimU)]
						if !cell.present || !eq(cell.face, seed) {
							break growth
						}
					}
				}

				// Faces transparentes são reivindicadas (não podem fundir de
				// novo) mas não geram quad.
				if !seed.Transparent {
					x[u] = i
					x[v] = j

					var du, dv [3]int32
					du[u] = w
					dv[v] = h

					corners := [4]mgl32.Vec3{
						vec3i(x[0], x[1], x[2]),
						vec3i(x[0]+du[0], x[1]+du[1], x[2]+du[2]),
						vec3i(x[0]+du[0]+dv[0], x[1]+du[1]+dv[1], x[2]+du[2]+dv[2]),
						vec3i(x[0]+dv[0], x[1]+dv[1], x[2]+dv[2]),
					}
					emit(corners, w, h, seed, p.backFace)
				}

				// Zeramos as células reivindicadas para que a varredura não
				// as visite de novo.
				for l := int32(0); l < h; l++ {
					for k := int32(0); k < w; k++ {
						mask[n+int(k)+int(l)*int(dimU)] = maskCell{}
					}
				}

				i += w
				n += int(w)
			}
		}
	}
}

func vec3i(x, y, z int32) mgl32.Vec3 {
	return mgl32.Vec3{float32(x), float32(y), float32(z)}
}
