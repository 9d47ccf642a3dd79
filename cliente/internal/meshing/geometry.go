package meshing

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// GeometryData contém os buffers de vértices de uma malha (triângulos
// soltos, sem índices — evita estourar índices de 16 bits em chunks densos).
type GeometryData struct {
	Vertices []float32
	Normals  []float32
	Colors   []uint8
}

// Clone cria uma cópia profunda dos dados para evitar corrupção de memória
// quando o buffer de origem volta para o pool.
func (g GeometryData) Clone() GeometryData {
	clone := GeometryData{}
	if len(g.Vertices) > 0 {
		clone.Vertices = make([]float32, len(g.Vertices))
		copy(clone.Vertices, g.Vertices)
	}
	if len(g.Normals) > 0 {
		clone.Normals = make([]float32, len(g.Normals))
		copy(clone.Normals, g.Normals)
	}
	if len(g.Colors) > 0 {
		clone.Colors = make([]uint8, len(g.Colors))
		copy(clone.Colors, g.Colors)
	}
	return clone
}

// VertexCount retorna a quantidade de vértices na malha.
func (g GeometryData) VertexCount() int {
	return len(g.Vertices) / 3
}

// TriangleCount retorna a quantidade de triângulos na malha.
func (g GeometryData) TriangleCount() int {
	return g.VertexCount() / 3
}

// MeshBuffer acumula geometria durante o meshing de um chunk.
type MeshBuffer struct {
	Geometry GeometryData
}

// Pool global para reciclar MeshBuffers e evitar alocação excessiva
// (pressão de GC durante remesh de muitos chunks).
var meshBufferPool = sync.Pool{
	New: func() interface{} {
		return &MeshBuffer{
			Geometry: GeometryData{
				Vertices: make([]float32, 0, 4096),
				Normals:  make([]float32, 0, 4096),
				Colors:   make([]uint8, 0, 4096),
			},
		}
	},
}

// GetMeshBuffer aloca ou recicla um buffer vazio para meshing.
func GetMeshBuffer() *MeshBuffer {
	b := meshBufferPool.Get().(*MeshBuffer)
	b.Reset()
	return b
}

// PutMeshBuffer devolve a memória para o pool.
func PutMeshBuffer(b *MeshBuffer) {
	if b == nil {
		return
	}
	meshBufferPool.Put(b)
}

// Reset esvazia os buffers mantendo a capacidade.
func (b *MeshBuffer) Reset() {
	b.Geometry.Vertices = b.Geometry.Vertices[:0]
	b.Geometry.Normals = b.Geometry.Normals[:0]
	b.Geometry.Colors = b.Geometry.Colors[:0]
}

// As duas ordens de índices espelhadas da triangulação, uma para cada
// sentido de varredura, sobre os vértices (bottomLeft, bottomRight,
// topLeft, topRight). O espelhamento garante que a face visível do quad
// aponte para fora da grade nos dois sentidos.
var (
	backFaceIndexes  = [6]int{2, 0, 1, 1, 3, 2}
	frontFaceIndexes = [6]int{2, 3, 1, 1, 0, 2}
)

// sideShade escurece faces laterais e inferiores para dar leitura de volume
// sem iluminação (indexado por Side).
var sideShade = [6]float32{0.80, 0.60, 1.00, 0.45, 0.90, 0.55}

// ShadeColor aplica o fator de sombreamento direcional de uma face à cor.
func ShadeColor(color [4]uint8, side Side) [4]uint8 {
	f := sideShade[side]
	return [4]uint8{
		uint8(float32(color[0]) * f),
		uint8(float32(color[1]) * f),
		uint8(float32(color[2]) * f),
		color[3],
	}
}

// AddQuad triangula um quad do greedy mesher no buffer.
// Os cantos chegam na ordem (origem, origem+du, origem+du+dv, origem+dv);
// backFace seleciona a ordem de índices espelhada correspondente.
func (b *MeshBuffer) AddQuad(corners [4]mgl32.Vec3, face VoxelFace, backFace bool, color [4]uint8) {
	verts := [4]mgl32.Vec3{
		corners[0], // bottomLeft
		corners[3], // bottomRight (origem+dv)
		corners[1], // topLeft (origem+du)
		corners[2], // topRight
	}

	indexes := frontFaceIndexes
	if backFace {
		indexes = backFaceIndexes
	}

	normal := face.Side.Normal()
	for _, idx := range indexes {
		v := verts[idx]
		b.Geometry.Vertices = append(b.Geometry.Vertices, v.X(), v.Y(), v.Z())
		b.Geometry.Normals = append(b.Geometry.Normals, normal.X(), normal.Y(), normal.Z())
		b.Geometry.Colors = append(b.Geometry.Colors, color[0], color[1], color[2], color[3])
	}
}
