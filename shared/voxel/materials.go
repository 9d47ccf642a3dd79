package voxel

import "sync"

// Material descreve as propriedades visuais de um tipo de voxel.
type Material struct {
	Type        int32
	Name        string
	Color       [4]uint8
	Transparent bool
}

// MaterialStore é o repositório thread-safe de materiais conhecidos.
type MaterialStore struct {
	mu        sync.RWMutex
	materials map[int32]Material
}

// NewMaterialStore cria um repositório com a paleta padrão carregada.
func NewMaterialStore() *MaterialStore {
	s := &MaterialStore{materials: make(map[int32]Material)}
	for _, m := range DefaultPalette() {
		s.materials[m.Type] = m
	}
	return s
}

// DefaultPalette retorna os materiais padrão do mundo de demonstração.
// Os tipos 1/2/3 espelham as três regiões da cena de exemplo; o vidro
// existe para exercitar o culling de faces transparentes.
func DefaultPalette() []Material {
	return []Material{
		{Type: 1, Name: "cristal", Color: [4]uint8{200, 40, 40, 255}},
		{Type: 2, Name: "grama", Color: [4]uint8{70, 160, 60, 255}},
		{Type: 3, Name: "pedra", Color: [4]uint8{120, 120, 130, 255}},
		{Type: 4, Name: "terra", Color: [4]uint8{130, 95, 60, 255}},
		{Type: 5, Name: "areia", Color: [4]uint8{210, 195, 140, 255}},
		{Type: 6, Name: "vidro", Color: [4]uint8{150, 200, 230, 120}, Transparent: true},
	}
}

// Get retorna o material de um tipo. O segundo retorno indica se é conhecido.
func (s *MaterialStore) Get(t int32) (Material, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.materials[t]
	return m, ok
}

// Color retorna a cor RGBA de um tipo, com fallback magenta para tipos
// desconhecidos (ajuda a enxergar dados corrompidos).
func (s *MaterialStore) Color(t int32) [4]uint8 {
	if m, ok := s.Get(t); ok {
		return m.Color
	}
	return [4]uint8{255, 0, 255, 255}
}

// IsTransparent informa se o tipo é transparente.
func (s *MaterialStore) IsTransparent(t int32) bool {
	m, ok := s.Get(t)
	return ok && m.Transparent
}

// Put registra ou substitui um material.
func (s *MaterialStore) Put(m Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.materials[m.Type] = m
}

// All retorna uma cópia de todos os materiais registrados.
func (s *MaterialStore) All() []Material {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Material, 0, len(s.materials))
	for _, m := range s.materials {
		out = append(out, m)
	}
	return out
}
