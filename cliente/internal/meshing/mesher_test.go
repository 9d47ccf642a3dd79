package meshing

import (
	"testing"
	"time"

	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"
)

func waitResult(t *testing.T, m *ChunkMesher) Result {
	t.Helper()
	select {
	case res := <-m.Results():
		return res
	case <-time.After(2 * time.Second):
		t.Fatal("timeout esperando resultado do mesher")
		return Result{}
	}
}

func TestChunkMesherSingleVoxel(t *testing.T) {
	store := voxel.NewStore()
	store.SetVoxel(util.GridCoord{X: 0, Y: 0, Z: 0}, 3)

	origin := util.GridCoord{X: 0, Y: 0, Z: 0}
	m := NewChunkMesher(1, nil, false)
	defer m.Stop()

	ok := m.Enqueue(Request{Origin: origin, Data: store, MTime: store.ChunkMTime(origin)})
	if !ok {
		t.Fatal("Enqueue recusou o primeiro pedido")
	}

	res := waitResult(t, m)
	if res.Origin != origin {
		t.Fatalf("origem do resultado: %v, esperado %v", res.Origin, origin)
	}
	// 6 faces x 2 triângulos x 3 vértices
	if got := res.Terrain.VertexCount(); got != 36 {
		t.Fatalf("voxel isolado: %d vértices, esperado 36", got)
	}
	if len(res.Terrain.Normals) != len(res.Terrain.Vertices) {
		t.Errorf("normais (%d) e vértices (%d) fora de sincronia",
			len(res.Terrain.Normals), len(res.Terrain.Vertices))
	}
	if len(res.Terrain.Colors) != res.Terrain.VertexCount()*4 {
		t.Errorf("cores: %d bytes, esperado 4 por vértice", len(res.Terrain.Colors))
	}
}

func TestChunkMesherEmptyChunk(t *testing.T) {
	store := voxel.NewStore()
	origin := util.GridCoord{X: 16, Y: 0, Z: 0}
	store.MarkAsEmpty(origin)

	m := NewChunkMesher(1, nil, false)
	defer m.Stop()

	m.Enqueue(Request{Origin: origin, Data: store, MTime: store.ChunkMTime(origin)})
	res := waitResult(t, m)
	if res.Terrain.VertexCount() != 0 {
		t.Fatalf("chunk vazio gerou %d vértices", res.Terrain.VertexCount())
	}
}

func TestChunkMesherDedupesPending(t *testing.T) {
	store := voxel.NewStore()
	store.SetVoxel(util.GridCoord{X: 0, Y: 0, Z: 0}, 1)
	origin := util.GridCoord{X: 0, Y: 0, Z: 0}

	// Nenhum worker: os pedidos ficam na fila e o segundo Enqueue da mesma
	// origem deve ser recusado.
	m := NewChunkMesher(0, nil, false)
	defer m.Stop()

	req := Request{Origin: origin, Data: store, MTime: 1}
	if !m.Enqueue(req) {
		t.Fatal("primeiro Enqueue recusado")
	}
	if m.Enqueue(req) {
		t.Fatal("Enqueue duplicado aceito para a mesma origem pendente")
	}
}

func TestChunkMesherUsesCache(t *testing.T) {
	store := voxel.NewStore()
	store.SetVoxel(util.GridCoord{X: 2, Y: 2, Z: 2}, 5)
	origin := util.GridCoord{X: 0, Y: 0, Z: 0}
	mtime := store.ChunkMTime(origin)

	cache := NewResultStore()
	m := NewChunkMesher(1, cache, false)
	defer m.Stop()

	m.Enqueue(Request{Origin: origin, Data: store, MTime: mtime})
	first := waitResult(t, m)

	if _, ok := cache.Get(origin, mtime); !ok {
		t.Fatal("resultado não foi salvo no cache")
	}

	// Segundo pedido com o mesmo MTime deve devolver o resultado em cache.
	m.Enqueue(Request{Origin: origin, Data: store, MTime: mtime})
	second := waitResult(t, m)
	if second.Terrain.VertexCount() != first.Terrain.VertexCount() {
		t.Fatalf("cache divergente: %d vs %d vértices",
			second.Terrain.VertexCount(), first.Terrain.VertexCount())
	}
}

func TestResultStoreMTimeMismatch(t *testing.T) {
	cache := NewResultStore()
	origin := util.GridCoord{X: 0, Y: 16, Z: 0}
	cache.Store(Result{
		Origin:  origin,
		MTime:   5,
		Terrain: GeometryData{Vertices: []float32{0, 0, 0}},
	})

	if _, ok := cache.Get(origin, 6); ok {
		t.Fatal("cache devolveu resultado com MTime desatualizado")
	}
	if _, ok := cache.Get(origin, 5); !ok {
		t.Fatal("cache não devolveu resultado com MTime correto")
	}

	cache.Clear()
	if _, ok := cache.Get(origin, 5); ok {
		t.Fatal("Clear não esvaziou o cache")
	}
}

func TestResultStoreReturnsClones(t *testing.T) {
	cache := NewResultStore()
	origin := util.GridCoord{}
	cache.Store(Result{
		Origin:  origin,
		MTime:   1,
		Terrain: GeometryData{Vertices: []float32{1, 2, 3}},
	})

	got, ok := cache.Get(origin, 1)
	if !ok {
		t.Fatal("resultado ausente")
	}
	got.Terrain.Vertices[0] = 99

	again, _ := cache.Get(origin, 1)
	if again.Terrain.Vertices[0] != 1 {
		t.Fatal("mutação externa vazou para dentro do cache")
	}
}
