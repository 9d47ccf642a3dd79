package voxel

import (
	"testing"

	"VoxelVision/shared/util"
)

func TestPersistenceRoundTrip(t *testing.T) {
	t.Chdir(t.TempDir())

	s := NewStore()
	if err := s.OpenInitialize("teste"); err != nil {
		t.Fatalf("OpenInitialize: %v", err)
	}

	s.SetVoxel(util.GridCoord{X: 1, Y: 2, Z: 3}, 2)
	s.SetVoxel(util.GridCoord{X: -5, Y: 0, Z: 40}, 3)
	s.Materials.Put(Material{Type: 42, Name: "ouro", Color: [4]uint8{230, 200, 40, 255}})

	saved, err := s.SaveAll()
	if err != nil {
		t.Fatalf("SaveAll: %v", err)
	}
	if saved != 2 {
		t.Fatalf("SaveAll gravou %d chunks, esperado 2", saved)
	}
	if len(s.DirtyChunks()) != 0 {
		t.Fatal("chunks continuam sujos após SaveAll")
	}

	// Reabre do zero e confere o conteúdo.
	fresh := NewStore()
	if err := fresh.OpenInitialize("teste"); err != nil {
		t.Fatalf("OpenInitialize (reabertura): %v", err)
	}
	loaded, err := fresh.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if loaded != 2 {
		t.Fatalf("LoadAll carregou %d chunks, esperado 2", loaded)
	}

	if got := fresh.GetVoxel(util.GridCoord{X: 1, Y: 2, Z: 3}); got != 2 {
		t.Errorf("voxel (1,2,3) = %d, esperado 2", got)
	}
	if got := fresh.GetVoxel(util.GridCoord{X: -5, Y: 0, Z: 40}); got != 3 {
		t.Errorf("voxel (-5,0,40) = %d, esperado 3", got)
	}
	if m, ok := fresh.Materials.Get(42); !ok || m.Name != "ouro" {
		t.Errorf("material 42 não sobreviveu à persistência: %+v ok=%v", m, ok)
	}

	// O MTime gravado precisa acompanhar o chunk para o cache de meshing.
	origin := util.GridCoord{X: 1, Y: 2, Z: 3}.ChunkOrigin()
	if fresh.ChunkMTime(origin) != s.ChunkMTime(origin) {
		t.Errorf("MTime divergente após reload: %d vs %d",
			fresh.ChunkMTime(origin), s.ChunkMTime(origin))
	}
}

func TestLoadChunkMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	s := NewStore()
	if err := s.OpenInitialize("vazio"); err != nil {
		t.Fatalf("OpenInitialize: %v", err)
	}
	if _, err := s.LoadChunk(util.GridCoord{X: 160, Y: 0, Z: 0}); err == nil {
		t.Fatal("LoadChunk de origem inexistente deveria falhar")
	}
}

func TestSaveWithoutDB(t *testing.T) {
	s := NewStore()
	if err := s.SaveChunk(NewChunk(util.GridCoord{})); err == nil {
		t.Fatal("SaveChunk sem banco deveria falhar")
	}
	if _, err := s.SaveAll(); err == nil {
		t.Fatal("SaveAll sem banco deveria falhar")
	}
	if _, err := s.LoadAll(); err == nil {
		t.Fatal("LoadAll sem banco deveria falhar")
	}
}
