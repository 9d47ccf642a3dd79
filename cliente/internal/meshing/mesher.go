package meshing

import (
	"log"
	"sync"

	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// Request representa um pedido de processamento de malha para um chunk.
type Request struct {
	Origin util.GridCoord
	Data   *voxel.Store
	MTime  int64 // Versão dos dados no momento da requisição
}

// Result contém a geometria gerada para um chunk.
type Result struct {
	Origin  util.GridCoord
	Terrain GeometryData
	MTime   int64 // Versão dos dados processados
}

// Mesher é a interface para geradores de malha.
type Mesher interface {
	Enqueue(req Request) bool
	Results() <-chan Result
	Stop()
}

// ChunkMesher transforma chunks de voxels em geometria usando o
// GreedyMesher, com um pool de workers e cache de resultados.
type ChunkMesher struct {
	requests chan Request
	results  chan Result
	stop     chan struct{}

	// ResultStore é o cache de resultados por origem+MTime (opcional).
	ResultStore *ResultStore

	// Parallel liga a execução das 6 varreduras em goroutines por chunk.
	Parallel bool

	pending   map[util.GridCoord]bool
	pendingMu sync.Mutex
}

// NewChunkMesher cria e inicia um novo mesher com o número dado de workers.
func NewChunkMesher(workers int, resultStore *ResultStore, parallel bool) *ChunkMesher {
	m := &ChunkMesher{
		requests:    make(chan Request, 2000),
		results:     make(chan Result, 2000),
		stop:        make(chan struct{}),
		ResultStore: resultStore,
		Parallel:    parallel,
		pending:     make(map[util.GridCoord]bool),
	}

	for i := 0; i < workers; i++ {
		go m.worker()
	}

	return m
}

// Enqueue agenda um chunk para meshing. Retorna false se o chunk já está
// pendente ou se a fila está cheia (tentar de novo depois).
func (m *ChunkMesher) Enqueue(req Request) bool {
	m.pendingMu.Lock()
	if m.pending[req.Origin] {
		m.pendingMu.Unlock()
		return false
	}
	m.pending[req.Origin] = true
	m.pendingMu.Unlock()

	select {
	case m.requests <- req:
		return true
	default:
		// Fila cheia: remove do pendente para tentar depois
		m.pendingMu.Lock()
		delete(m.pending, req.Origin)
		m.pendingMu.Unlock()
		return false
	}
}

// Results retorna o canal de resultados prontos.
func (m *ChunkMesher) Results() <-chan Result {
	return m.results
}

// Stop encerra os workers.
func (m *ChunkMesher) Stop() {
	close(m.stop)
}

func (m *ChunkMesher) worker() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro no Mesher Worker: %v", r)
		}
	}()
	for {
		select {
		case req := <-m.requests:
			// 1. Verificar cache antes de processar
			if m.ResultStore != nil {
				if cached, ok := m.ResultStore.Get(req.Origin, req.MTime); ok {
					m.finish(req.Origin)
					m.results <- cached
					continue
				}
			}

			// 2. Gerar geometria
			res := m.Generate(req)

			// 3. Salvar no cache para uso futuro
			if m.ResultStore != nil {
				m.ResultStore.Store(res)
			}

			m.finish(req.Origin)
			m.results <- res
		case <-m.stop:
			return
		}
	}
}

func (m *ChunkMesher) finish(origin util.GridCoord) {
	m.pendingMu.Lock()
	delete(m.pending, origin)
	m.pendingMu.Unlock()
}

// Generate transforma um chunk de voxels em geometria.
func (m *ChunkMesher) Generate(req Request) Result {
	res := Result{
		Origin: req.Origin,
		MTime:  req.MTime,
	}

	chunk := req.Data.GetChunk(req.Origin)
	if chunk == nil || chunk.IsEmpty {
		return res
	}
	mats := req.Data.Materials

	buffer := GetMeshBuffer()
	defer PutMeshBuffer(buffer)

	worldOrigin := util.GridToWorldPos(req.Origin)
	offset := mgl32.Vec3{worldOrigin.X, worldOrigin.Y, worldOrigin.Z}

	mesher := GreedyMesher{
		Dims: [3]int32{util.ChunkSize, util.ChunkSize, util.ChunkSize},
		Query: func(x, y, z int32, side Side) (VoxelFace, bool) {
			t := chunk.Get(x, y, z)
			if t == voxel.Air {
				return VoxelFace{}, false
			}
			return VoxelFace{
				Type:        t,
				Transparent: mats.IsTransparent(t),
				Side:        side,
			}, true
		},
		Emit: func(corners [4]mgl32.Vec3, w, h int32, face VoxelFace, backFace bool) {
			for i := range corners {
				corners[i] = corners[i].Mul(util.VoxelScale).Add(offset)
			}
			color := ShadeColor(mats.Color(face.Type), face.Side)
			buffer.AddQuad(corners, face, backFace, color)
		},
	}

	if m.Parallel {
		mesher.MeshParallel()
	} else {
		mesher.Mesh()
	}

	res.Terrain = buffer.Geometry.Clone()
	return res
}
