package voxel

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"VoxelVision/shared/util"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ChunkModel representa o esquema do banco de dados para um chunk
type ChunkModel struct {
	ID      string `gorm:"primaryKey"` // Coordenada formatada "X_Y_Z"
	X, Y, Z int32  `gorm:"index:idx_pos"`
	Data    []byte // Voxels do chunk serializados em GOB
	MTime   int64  // Versão/Timestamp
}

// WorldMetadata armazena informações globais do mundo no banco
type WorldMetadata struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

// MaterialModel armazena um material da paleta persistida
type MaterialModel struct {
	MatType     int32 `gorm:"primaryKey;autoIncrement:false"`
	Name        string
	R, G, B, A  uint8
	Transparent bool
}

const CurrentFormatVersion = 1

// OpenInitialize abre (ou cria) o banco de dados SQLite para o mundo e roda migrações.
func (s *Store) OpenInitialize(worldName string) error {
	if err := os.MkdirAll("saves", 0755); err != nil {
		return err
	}

	dbPath := filepath.Join("saves", fmt.Sprintf("%s.vv", worldName))

	// Logger silencioso em produção
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("falha ao conectar no SQLite: %w", err)
	}

	if err := db.AutoMigrate(&ChunkModel{}, &WorldMetadata{}, &MaterialModel{}); err != nil {
		return fmt.Errorf("falha na migração do banco: %w", err)
	}

	s.DB = db

	db.Save(&WorldMetadata{Key: "FormatVersion", Value: fmt.Sprint(CurrentFormatVersion)})
	db.Save(&WorldMetadata{Key: "WorldName", Value: worldName})

	log.Printf("[Persistence] Banco de dados SQLite aberto: %s", dbPath)
	return nil
}

// SaveChunk salva um único chunk no banco de dados SQLite.
func (s *Store) SaveChunk(chunk *Chunk) error {
	if s.DB == nil {
		return fmt.Errorf("banco de dados não inicializado")
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(chunk.Voxels); err != nil {
		log.Printf("[Persistence] ERRO crítico GOB: %v", err)
		return err
	}

	id := fmt.Sprintf("%d_%d_%d", chunk.Origin.X, chunk.Origin.Y, chunk.Origin.Z)
	model := ChunkModel{
		ID:    id,
		X:     chunk.Origin.X,
		Y:     chunk.Origin.Y,
		Z:     chunk.Origin.Z,
		Data:  buf.Bytes(),
		MTime: chunk.MTime,
	}

	// Upsert (cria ou atualiza)
	s.dbMu.Lock()
	err := s.DB.Save(&model).Error
	s.dbMu.Unlock()
	if err != nil {
		log.Printf("[Persistence] ERRO ao salvar chunk %s: %v", id, err)
	} else {
		chunk.IsDirty = false
	}
	return err
}

// LoadChunk tenta carregar um chunk específico do banco de dados.
func (s *Store) LoadChunk(origin util.GridCoord) (*Chunk, error) {
	if s.DB == nil {
		return nil, fmt.Errorf("banco de dados não inicializado")
	}

	id := fmt.Sprintf("%d_%d_%d", origin.X, origin.Y, origin.Z)
	var model ChunkModel
	if err := s.DB.First(&model, "id = ?", id).Error; err != nil {
		return nil, err
	}

	chunk := NewChunk(origin)
	dec := gob.NewDecoder(bytes.NewReader(model.Data))
	if err := dec.Decode(&chunk.Voxels); err != nil {
		return nil, fmt.Errorf("falha ao decodificar chunk %s: %w", id, err)
	}
	chunk.MTime = model.MTime
	return chunk, nil
}

// SaveAll salva todos os chunks sujos e a paleta de materiais.
// Retorna a quantidade de chunks gravados.
func (s *Store) SaveAll() (int, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("banco de dados não inicializado")
	}

	dirty := s.DirtyChunks()
	for _, chunk := range dirty {
		if err := s.SaveChunk(chunk); err != nil {
			return 0, err
		}
	}

	if err := s.SaveMaterials(); err != nil {
		return len(dirty), err
	}
	return len(dirty), nil
}

// SaveMaterials persiste a paleta de materiais.
func (s *Store) SaveMaterials() error {
	if s.DB == nil {
		return fmt.Errorf("banco de dados não inicializado")
	}
	s.dbMu.Lock()
	defer s.dbMu.Unlock()
	for _, m := range s.Materials.All() {
		model := MaterialModel{
			MatType:     m.Type,
			Name:        m.Name,
			R:           m.Color[0],
			G:           m.Color[1],
			B:           m.Color[2],
			A:           m.Color[3],
			Transparent: m.Transparent,
		}
		if err := s.DB.Save(&model).Error; err != nil {
			return err
		}
	}
	return nil
}

// LoadAll carrega todos os chunks e materiais persistidos para a memória.
// Retorna a quantidade de chunks carregados.
func (s *Store) LoadAll() (int, error) {
	if s.DB == nil {
		return 0, fmt.Errorf("banco de dados não inicializado")
	}

	var materials []MaterialModel
	if err := s.DB.Find(&materials).Error; err == nil {
		for _, m := range materials {
			s.Materials.Put(Material{
				Type:        m.MatType,
				Name:        m.Name,
				Color:       [4]uint8{m.R, m.G, m.B, m.A},
				Transparent: m.Transparent,
			})
		}
	}

	var models []ChunkModel
	if err := s.DB.Find(&models).Error; err != nil {
		return 0, err
	}

	loaded := 0
	for i := range models {
		model := &models[i]
		origin := util.NewGridCoord(model.X, model.Y, model.Z)
		chunk := NewChunk(origin)
		dec := gob.NewDecoder(bytes.NewReader(model.Data))
		if err := dec.Decode(&chunk.Voxels); err != nil {
			log.Printf("[Persistence] Chunk %s corrompido, ignorando: %v", model.ID, err)
			continue
		}
		chunk.MTime = model.MTime
		s.PutChunk(chunk)
		loaded++
	}

	log.Printf("[Persistence] %d chunks carregados do banco", loaded)
	return loaded, nil
}
