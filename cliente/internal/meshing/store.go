package meshing

import (
	"sync"

	"VoxelVision/shared/util"
)

// ResultStore armazena os resultados de meshing na RAM para evitar
// re-processamento de chunks que não mudaram.
type ResultStore struct {
	mu      sync.RWMutex
	results map[util.GridCoord]Result
}

// NewResultStore cria um novo repositório de resultados.
func NewResultStore() *ResultStore {
	return &ResultStore{
		results: make(map[util.GridCoord]Result),
	}
}

// Get retorna um resultado se ele existir e for compatível com o MTime informado.
func (s *ResultStore) Get(coord util.GridCoord, mtime int64) (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.results[coord]
	if ok && res.MTime == mtime {
		// Clone para evitar que modificações externas afetem o cache
		return res.Clone(), true
	}
	return Result{}, false
}

// Store salva um resultado no repositório.
func (s *ResultStore) Store(res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Guardamos um clone para garantir que o cache seja imutável
	s.results[res.Origin] = res.Clone()
}

// Clear limpa todo o cache de resultados.
func (s *ResultStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = make(map[util.GridCoord]Result)
}

// Clone realiza uma cópia profunda de um Result.
func (r Result) Clone() Result {
	return Result{
		Origin:  r.Origin,
		MTime:   r.MTime,
		Terrain: r.Terrain.Clone(),
	}
}
