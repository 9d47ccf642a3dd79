package render

import (
	"VoxelVision/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ChunkModel é a representação em GPU da malha de um chunk.
type ChunkModel struct {
	Origin util.GridCoord
	Model  rl.Model
	MTime  int64
	Active bool

	// Estatísticas para o overlay de debug
	VertexCount int
}
