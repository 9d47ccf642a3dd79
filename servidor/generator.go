package main

import (
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"
)

// WorldGenerator produz o mundo de demonstração de forma determinística a
// partir da seed: qualquer chunk pode ser gerado isoladamente, em qualquer
// ordem, com o mesmo resultado.
type WorldGenerator struct {
	Seed int64
}

func NewWorldGenerator(seed int64) *WorldGenerator {
	return &WorldGenerator{Seed: seed}
}

// hash2 é um hash inteiro barato e determinístico para ruído de altura.
func (g *WorldGenerator) hash2(x, z int32) uint64 {
	h := uint64(g.Seed)
	h ^= uint64(uint32(x)) * 0x9E3779B97F4A7C15
	h ^= uint64(uint32(z)) * 0xC2B2AE3D27D4EB4F
	h ^= h >> 29
	h *= 0xBF58476D1CE4E5B9
	h ^= h >> 32
	return h
}

// surfaceHeight retorna a altura do terreno (topo exclusivo) na coluna (x,z).
// Interpolação bilinear entre valores de grade espaçados de 8 em 8 dá colinas
// suaves sem dependência de bibliotecas de ruído.
func (g *WorldGenerator) surfaceHeight(x, z int32) int32 {
	const cell = 8
	const base = 8
	const amp = 6

	x0 := floorDiv(x, cell) * cell
	z0 := floorDiv(z, cell) * cell

	corner := func(cx, cz int32) float32 {
		return float32(g.hash2(cx, cz)%1000) / 1000.0
	}

	fx := float32(x-x0) / float32(cell)
	fz := float32(z-z0) / float32(cell)

	h00 := corner(x0, z0)
	h10 := corner(x0+cell, z0)
	h01 := corner(x0, z0+cell)
	h11 := corner(x0+cell, z0+cell)

	top := util.Lerp(h00, h10, fx)
	bottom := util.Lerp(h01, h11, fx)
	n := util.Lerp(top, bottom, fz)

	return base + int32(n*amp)
}

// voxelAt decide o material na coordenada global, ou Air.
func (g *WorldGenerator) voxelAt(x, y, z int32) int32 {
	// Estruturas de demonstração têm prioridade sobre o terreno (inclusive
	// para cavar ar dentro delas).
	if t, ok := g.featureAt(x, y, z); ok {
		return t
	}

	surface := g.surfaceHeight(x, z)
	switch {
	case y >= surface:
		return voxel.Air
	case y == surface-1:
		return 2 // grama
	case y >= surface-4:
		return 4 // terra
	default:
		return 3 // pedra
	}
}

// featureAt injeta as estruturas fixas perto da origem: três torres de
// materiais distintos (mostra que tipos diferentes nunca fundem) e uma
// redoma de vidro (mostra o culling de transparentes). O segundo retorno
// indica que a estrutura decide esta coordenada, mesmo quando decide ar.
func (g *WorldGenerator) featureAt(x, y, z int32) (int32, bool) {
	// Três torres 4x4 lado a lado em x ∈ [20, 32), z ∈ [8, 12)
	if z >= 8 && z < 12 && y >= g.surfaceHeight(x, z) && y < g.surfaceHeight(x, z)+6 {
		switch {
		case x >= 20 && x < 24:
			return 1, true // cristal
		case x >= 24 && x < 28:
			return 2, true // grama
		case x >= 28 && x < 32:
			return 3, true // pedra
		}
	}

	// Caixa de vidro oca 6x4x6 com um voxel de areia dentro, em torno de (-20, ., -20)
	const bx, bz = -20, -20
	if x >= bx && x < bx+6 && z >= bz && z < bz+6 {
		floor := g.surfaceHeight(bx, bz)
		if y >= floor && y < floor+4 {
			if x == bx || x == bx+5 || z == bz || z == bz+5 || y == floor+3 {
				return 6, true // vidro
			}
			if x == bx+2 && z == bz+2 && y == floor {
				return 5, true // areia
			}
			return voxel.Air, true // interior escavado
		}
	}

	return voxel.Air, false
}

// GenerateChunk materializa o chunk com a origem dada. Retorna nil se o
// chunk é inteiramente ar.
func (g *WorldGenerator) GenerateChunk(origin util.GridCoord) *voxel.Chunk {
	chunk := voxel.NewChunk(origin)
	solid := 0

	for lx := int32(0); lx < util.ChunkSize; lx++ {
		for lz := int32(0); lz < util.ChunkSize; lz++ {
			for ly := int32(0); ly < util.ChunkSize; ly++ {
				t := g.voxelAt(origin.X+lx, origin.Y+ly, origin.Z+lz)
				if t != voxel.Air {
					chunk.Voxels[lx][ly][lz] = t
					solid++
				}
			}
		}
	}

	if solid == 0 {
		return nil
	}
	chunk.MTime = 1
	chunk.IsDirty = true
	return chunk
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
