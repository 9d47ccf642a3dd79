package voxel

import (
	"VoxelVision/shared/util"
)

// Air é o tipo reservado para a ausência de voxel.
const Air int32 = 0

// Chunk representa um bloco cúbico 16x16x16 de voxels.
// Cada célula guarda apenas o tipo de material; 0 (Air) significa vazio.
type Chunk struct {
	Origin  util.GridCoord
	Voxels  [util.ChunkSize][util.ChunkSize][util.ChunkSize]int32
	MTime   int64 // Contador de modificações / versão
	IsDirty bool  // Indica que o chunk foi alterado e precisa salvar
	IsEmpty bool  // Indica que o chunk é conhecido e totalmente vazio
}

// NewChunk cria um chunk vazio na origem dada.
func NewChunk(origin util.GridCoord) *Chunk {
	return &Chunk{Origin: origin}
}

// Get retorna o tipo do voxel em coordenadas locais (0-15).
func (c *Chunk) Get(x, y, z int32) int32 {
	return c.Voxels[x][y][z]
}

// Set altera o tipo do voxel em coordenadas locais e marca o chunk como sujo.
func (c *Chunk) Set(x, y, z, t int32) {
	if c.Voxels[x][y][z] == t {
		return
	}
	c.Voxels[x][y][z] = t
	c.MTime++
	c.IsDirty = true
	c.IsEmpty = false
}

// CountSolid retorna a quantidade de voxels não-vazios do chunk.
func (c *Chunk) CountSolid() int {
	count := 0
	for x := range c.Voxels {
		for y := range c.Voxels[x] {
			for z := range c.Voxels[x][y] {
				if c.Voxels[x][y][z] != Air {
					count++
				}
			}
		}
	}
	return count
}
