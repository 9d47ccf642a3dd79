package util

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Vector3 é um alias para rl.Vector3 para conveniência
type Vector3 = rl.Vector3

// GridCoord representa uma coordenada inteira no espaço de voxels.
// X = leste/oeste, Y = vertical (cima), Z = norte/sul
type GridCoord struct {
	X, Y, Z int32
}

// NewGridCoord cria uma nova coordenada de grade.
func NewGridCoord(x, y, z int32) GridCoord {
	return GridCoord{X: x, Y: y, Z: z}
}

// Add soma duas coordenadas.
func (c GridCoord) Add(other GridCoord) GridCoord {
	return GridCoord{
		X: c.X + other.X,
		Y: c.Y + other.Y,
		Z: c.Z + other.Z,
	}
}

// Sub subtrai duas coordenadas.
func (c GridCoord) Sub(other GridCoord) GridCoord {
	return GridCoord{
		X: c.X - other.X,
		Y: c.Y - other.Y,
		Z: c.Z - other.Z,
	}
}

// Equals verifica igualdade entre coordenadas.
func (c GridCoord) Equals(other GridCoord) bool {
	return c.X == other.X && c.Y == other.Y && c.Z == other.Z
}

// String retorna a representação em string da coordenada.
func (c GridCoord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// ChunkSize é a aresta de um chunk cúbico de voxels (16x16x16).
const ChunkSize = 16

// ChunkOrigin retorna a coordenada de origem do chunk que contém esta coordenada.
func (c GridCoord) ChunkOrigin() GridCoord {
	return GridCoord{
		X: int32(math.Floor(float64(c.X)/float64(ChunkSize))) * ChunkSize,
		Y: int32(math.Floor(float64(c.Y)/float64(ChunkSize))) * ChunkSize,
		Z: int32(math.Floor(float64(c.Z)/float64(ChunkSize))) * ChunkSize,
	}
}

// LocalCoord retorna a coordenada local dentro do chunk (0-15 em cada eixo).
func (c GridCoord) LocalCoord() GridCoord {
	o := c.ChunkOrigin()
	return GridCoord{
		X: c.X - o.X,
		Y: c.Y - o.Y,
		Z: c.Z - o.Z,
	}
}

// VoxelScale controla a escala de conversão grade → mundo 3D.
const VoxelScale float32 = 1.0

// GridToWorldPos converte uma coordenada de grade para posição 3D no mundo.
// A grade e o mundo compartilham os eixos: X = leste, Y = cima, Z = norte.
func GridToWorldPos(coord GridCoord) rl.Vector3 {
	return rl.Vector3{
		X: float32(coord.X) * VoxelScale,
		Y: float32(coord.Y) * VoxelScale,
		Z: float32(coord.Z) * VoxelScale,
	}
}

// WorldToGridPos converte uma posição 3D do mundo para a coordenada de grade
// que a contém.
func WorldToGridPos(pos rl.Vector3) GridCoord {
	return GridCoord{
		X: int32(math.Floor(float64(pos.X / VoxelScale))),
		Y: int32(math.Floor(float64(pos.Y / VoxelScale))),
		Z: int32(math.Floor(float64(pos.Z / VoxelScale))),
	}
}
