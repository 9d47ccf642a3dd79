package voxel

import (
	"sync"

	"VoxelVision/shared/util"

	"gorm.io/gorm"
)

// Store gerencia o armazenamento de voxels do mundo em chunks 16x16x16.
// Pode representar o mundo inteiro (servidor) ou a fatia carregada (cliente).
type Store struct {
	Mu sync.RWMutex

	// dbMu serializa escritas no banco SQLite (impede "database is locked")
	dbMu sync.Mutex

	// Chunks armazena os blocos do mundo indexados pela origem
	Chunks map[util.GridCoord]*Chunk

	// Materials é a paleta de materiais compartilhada
	Materials *MaterialStore

	// DB é a conexão com o banco SQLite (GORM)
	DB *gorm.DB
}

// NewStore cria um novo repositório de voxels.
func NewStore() *Store {
	return &Store{
		Chunks:    make(map[util.GridCoord]*Chunk),
		Materials: NewMaterialStore(),
	}
}

// GetChunk retorna o chunk com a origem dada, ou nil se não carregado.
func (s *Store) GetChunk(origin util.GridCoord) *Chunk {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	return s.Chunks[origin]
}

// PutChunk registra (ou substitui) um chunk inteiro.
func (s *Store) PutChunk(chunk *Chunk) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.Chunks[chunk.Origin] = chunk
}

// MarkAsEmpty marca um chunk como conhecido e vazio (ar).
// Evita requisitar o mesmo céu repetidamente ao servidor.
func (s *Store) MarkAsEmpty(origin util.GridCoord) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if _, exists := s.Chunks[origin]; !exists {
		s.Chunks[origin] = &Chunk{
			Origin:  origin,
			IsEmpty: true,
			MTime:   1,
			IsDirty: true,
		}
	}
}

// GetVoxel retorna o tipo do voxel em coordenadas globais.
// Retorna Air para chunks não carregados.
func (s *Store) GetVoxel(pos util.GridCoord) int32 {
	s.Mu.RLock()
	defer s.Mu.RUnlock()

	chunk, ok := s.Chunks[pos.ChunkOrigin()]
	if !ok || chunk.IsEmpty {
		return Air
	}
	local := pos.LocalCoord()
	return chunk.Voxels[local.X][local.Y][local.Z]
}

// SetVoxel altera o tipo do voxel em coordenadas globais, criando o chunk
// se necessário. Incrementa o MTime do chunk afetado.
func (s *Store) SetVoxel(pos util.GridCoord, t int32) {
	origin := pos.ChunkOrigin()

	s.Mu.Lock()
	chunk, ok := s.Chunks[origin]
	if !ok {
		chunk = NewChunk(origin)
		s.Chunks[origin] = chunk
	}
	local := pos.LocalCoord()
	chunk.Set(local.X, local.Y, local.Z, t)
	s.Mu.Unlock()
}

// ChunkMTime retorna a versão atual de um chunk (0 se não carregado).
func (s *Store) ChunkMTime(origin util.GridCoord) int64 {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	if chunk, ok := s.Chunks[origin]; ok {
		return chunk.MTime
	}
	return 0
}

// LoadedOrigins retorna as origens de todos os chunks carregados.
func (s *Store) LoadedOrigins() []util.GridCoord {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	out := make([]util.GridCoord, 0, len(s.Chunks))
	for origin := range s.Chunks {
		out = append(out, origin)
	}
	return out
}

// DirtyChunks retorna os chunks alterados desde o último save.
func (s *Store) DirtyChunks() []*Chunk {
	s.Mu.RLock()
	defer s.Mu.RUnlock()
	out := make([]*Chunk, 0)
	for _, chunk := range s.Chunks {
		if chunk.IsDirty {
			out = append(out, chunk)
		}
	}
	return out
}
