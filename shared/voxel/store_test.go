package voxel

import (
	"testing"

	"VoxelVision/shared/util"
)

func TestChunkSetBumpsMTime(t *testing.T) {
	c := NewChunk(util.GridCoord{})

	c.Set(1, 2, 3, 5)
	if c.MTime != 1 || !c.IsDirty {
		t.Fatalf("Set não atualizou MTime/IsDirty: MTime=%d dirty=%v", c.MTime, c.IsDirty)
	}

	// Escrever o mesmo valor não conta como modificação.
	c.Set(1, 2, 3, 5)
	if c.MTime != 1 {
		t.Fatalf("Set idempotente incrementou MTime: %d", c.MTime)
	}

	c.Set(1, 2, 3, Air)
	if c.MTime != 2 {
		t.Fatalf("MTime=%d, esperado 2", c.MTime)
	}
	if c.CountSolid() != 0 {
		t.Fatalf("CountSolid=%d após remover o único voxel", c.CountSolid())
	}
}

func TestStoreSetGetAcrossChunks(t *testing.T) {
	s := NewStore()

	cases := []struct {
		pos util.GridCoord
		typ int32
	}{
		{util.GridCoord{X: 0, Y: 0, Z: 0}, 1},
		{util.GridCoord{X: 15, Y: 15, Z: 15}, 2},
		{util.GridCoord{X: 16, Y: 0, Z: 0}, 3},
		{util.GridCoord{X: -1, Y: -1, Z: -1}, 4},
	}
	for _, c := range cases {
		s.SetVoxel(c.pos, c.typ)
	}
	for _, c := range cases {
		if got := s.GetVoxel(c.pos); got != c.typ {
			t.Errorf("GetVoxel(%v) = %d, esperado %d", c.pos, got, c.typ)
		}
	}

	// Posições nos cantos opostos caem em chunks diferentes.
	if len(s.LoadedOrigins()) != 3 {
		t.Errorf("chunks carregados: %d, esperado 3", len(s.LoadedOrigins()))
	}

	if got := s.GetVoxel(util.GridCoord{X: 100, Y: 100, Z: 100}); got != Air {
		t.Errorf("voxel em chunk não carregado: %d, esperado Air", got)
	}
}

func TestStoreMarkAsEmpty(t *testing.T) {
	s := NewStore()
	origin := util.GridCoord{X: 32, Y: 0, Z: 0}

	s.MarkAsEmpty(origin)
	chunk := s.GetChunk(origin)
	if chunk == nil || !chunk.IsEmpty {
		t.Fatal("MarkAsEmpty não registrou o chunk vazio")
	}
	if s.GetVoxel(origin) != Air {
		t.Fatal("chunk vazio deveria responder Air")
	}

	// Um chunk com conteúdo não pode ser sobrescrito pela marca de vazio.
	s.SetVoxel(origin, 2)
	s.MarkAsEmpty(origin)
	if s.GetVoxel(origin) != 2 {
		t.Fatal("MarkAsEmpty sobrescreveu um chunk com conteúdo")
	}
}

func TestStoreDirtyTracking(t *testing.T) {
	s := NewStore()
	s.SetVoxel(util.GridCoord{X: 0, Y: 0, Z: 0}, 1)
	s.SetVoxel(util.GridCoord{X: 20, Y: 0, Z: 0}, 1)

	if got := len(s.DirtyChunks()); got != 2 {
		t.Fatalf("DirtyChunks = %d, esperado 2", got)
	}

	for _, c := range s.DirtyChunks() {
		c.IsDirty = false
	}
	if got := len(s.DirtyChunks()); got != 0 {
		t.Fatalf("DirtyChunks = %d após limpar, esperado 0", got)
	}
}

func TestMaterialStoreFallback(t *testing.T) {
	m := NewMaterialStore()

	if !m.IsTransparent(6) {
		t.Error("vidro (tipo 6) deveria ser transparente")
	}
	if m.IsTransparent(3) {
		t.Error("pedra (tipo 3) não é transparente")
	}
	if m.IsTransparent(999) {
		t.Error("tipo desconhecido não pode ser transparente")
	}

	// Magenta para tipos desconhecidos.
	if got := m.Color(999); got != [4]uint8{255, 0, 255, 255} {
		t.Errorf("cor de fallback: %v", got)
	}

	m.Put(Material{Type: 50, Name: "obsidiana", Color: [4]uint8{20, 10, 40, 255}})
	if got, ok := m.Get(50); !ok || got.Name != "obsidiana" {
		t.Errorf("Put/Get falhou: %+v ok=%v", got, ok)
	}
}
