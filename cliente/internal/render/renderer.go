package render

/*
#include <stdlib.h>
*/
import "C"

import (
	"sync"
	"unsafe"

	"VoxelVision/cliente/internal/meshing"
	"VoxelVision/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer mantém os modelos de chunk na GPU e desenha a cena.
type Renderer struct {
	mu     sync.RWMutex
	Models map[util.GridCoord]*ChunkModel

	// Fila de modelos para purga gradual (evita stutter ao descarregar)
	purgeQueue []util.GridCoord

	Wireframe bool
}

// NewRenderer cria um novo renderizador.
func NewRenderer() *Renderer {
	return &Renderer{
		Models:     make(map[util.GridCoord]*ChunkModel),
		purgeQueue: make([]util.GridCoord, 0),
	}
}

// GetModelVersion retorna o MTime do modelo carregado para a origem, ou -1.
func (r *Renderer) GetModelVersion(origin util.GridCoord) int64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if cm, ok := r.Models[origin]; ok {
		return cm.MTime
	}
	return -1
}

// UploadResult converte um resultado de meshing em um modelo Raylib na GPU.
// Resultados vazios apenas descarregam o modelo anterior (chunk escavado).
func (r *Renderer) UploadResult(res meshing.Result) {
	if !rl.IsWindowReady() {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.Models[res.Origin]; ok {
		if old.Active {
			rl.UnloadModel(old.Model)
		}
		delete(r.Models, res.Origin)
	}

	if len(res.Terrain.Vertices) == 0 {
		return
	}

	mesh := geometryToMesh(res.Terrain)
	rl.UploadMesh(&mesh, false)
	freeMeshRAM(&mesh)

	r.Models[res.Origin] = &ChunkModel{
		Origin:      res.Origin,
		Model:       rl.LoadModelFromMesh(mesh),
		MTime:       res.MTime,
		Active:      true,
		VertexCount: res.Terrain.VertexCount(),
	}
}

// geometryToMesh monta uma rl.Mesh apontando para cópias em memória C dos
// buffers (o Raylib assume a posse e libera com UnloadModel).
func geometryToMesh(data meshing.GeometryData) rl.Mesh {
	var mesh rl.Mesh
	vCount := int32(len(data.Vertices) / 3)
	mesh.VertexCount = vCount
	mesh.TriangleCount = vCount / 3

	if len(data.Vertices) > 0 {
		mesh.Vertices = (*float32)(copyToC(unsafe.Pointer(&data.Vertices[0]), len(data.Vertices)*4))
	}
	if len(data.Normals) > 0 {
		mesh.Normals = (*float32)(copyToC(unsafe.Pointer(&data.Normals[0]), len(data.Normals)*4))
	}
	if len(data.Colors) > 0 {
		mesh.Colors = (*uint8)(copyToC(unsafe.Pointer(&data.Colors[0]), len(data.Colors)))
	}
	return mesh
}

func copyToC(data unsafe.Pointer, size int) unsafe.Pointer {
	if size <= 0 || data == nil {
		return nil
	}
	ptr := C.malloc(C.size_t(size))
	if ptr == nil {
		return nil
	}
	cSlice := unsafe.Slice((*byte)(ptr), size)
	goSlice := unsafe.Slice((*byte)(data), size)
	copy(cSlice, goSlice)
	return ptr
}

// freeMeshRAM libera a cópia em RAM depois que a malha subiu para a GPU.
func freeMeshRAM(mesh *rl.Mesh) {
	if mesh.Vertices != nil {
		C.free(unsafe.Pointer(mesh.Vertices))
		mesh.Vertices = nil
	}
	if mesh.Normals != nil {
		C.free(unsafe.Pointer(mesh.Normals))
		mesh.Normals = nil
	}
	if mesh.Colors != nil {
		C.free(unsafe.Pointer(mesh.Colors))
		mesh.Colors = nil
	}
}

// Draw renderiza os chunks dentro do raio de visão da câmera.
func (r *Renderer) Draw(camera3d rl.Camera3D, viewRadius float32) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	camPos := camera3d.Position
	// Meio chunk de folga para não cortar chunks parcialmente visíveis
	radiusSq := (viewRadius + util.ChunkSize/2) * (viewRadius + util.ChunkSize/2)

	for _, cm := range r.Models {
		if !cm.Active {
			continue
		}

		center := rl.Vector3{
			X: float32(cm.Origin.X) + util.ChunkSize/2,
			Y: float32(cm.Origin.Y) + util.ChunkSize/2,
			Z: float32(cm.Origin.Z) + util.ChunkSize/2,
		}
		if util.DistSq(camPos, center) > radiusSq {
			continue
		}

		if r.Wireframe {
			rl.DrawModelWires(cm.Model, rl.Vector3{}, 1.0, rl.White)
		} else {
			rl.DrawModel(cm.Model, rl.Vector3{}, 1.0, rl.White)
		}
	}
}

// DrawnStats retorna os totais de modelos e vértices residentes.
func (r *Renderer) DrawnStats() (models int, vertices int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, cm := range r.Models {
		if cm.Active {
			models++
			vertices += cm.VertexCount
		}
	}
	return
}

// Purge agenda para descarga os modelos fora do raio dado ao redor do centro.
func (r *Renderer) Purge(center util.GridCoord, radius float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	centerPos := util.GridToWorldPos(center)
	radiusSq := radius * radius
	for origin := range r.Models {
		pos := util.GridToWorldPos(origin)
		if util.DistSq(centerPos, pos) > radiusSq {
			r.purgeQueue = append(r.purgeQueue, origin)
		}
	}
}

// ProcessPurge descarrega até 2 modelos por frame para não travar o loop.
func (r *Renderer) ProcessPurge() {
	r.mu.Lock()
	defer r.mu.Unlock()

	limit := 2
	if len(r.purgeQueue) < limit {
		limit = len(r.purgeQueue)
	}
	for i := 0; i < limit; i++ {
		origin := r.purgeQueue[0]
		r.purgeQueue = r.purgeQueue[1:]
		if cm, ok := r.Models[origin]; ok {
			rl.UnloadModel(cm.Model)
			delete(r.Models, origin)
		}
	}
}

// Unload libera todos os modelos da GPU.
func (r *Renderer) Unload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cm := range r.Models {
		rl.UnloadModel(cm.Model)
	}
	r.Models = make(map[util.GridCoord]*ChunkModel)
}

// GetRayCollision encontra o voxel do terreno atingido pelo raio do mouse.
func (r *Renderer) GetRayCollision(ray rl.Ray) (util.GridCoord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var closestDist float32 = 1e9
	var hit bool
	var hitPos rl.Vector3

	for _, cm := range r.Models {
		if !cm.Active || cm.Model.MeshCount == 0 {
			continue
		}
		meshes := unsafe.Slice(cm.Model.Meshes, cm.Model.MeshCount)
		for i := int32(0); i < cm.Model.MeshCount; i++ {
			collision := rl.GetRayCollisionMesh(ray, meshes[i], cm.Model.Transform)
			if collision.Hit && collision.Distance < closestDist {
				closestDist = collision.Distance
				hitPos = collision.Point
				hit = true
			}
		}
	}

	if hit {
		// Empurra o ponto ligeiramente para dentro do voxel atingido
		dir := rl.Vector3Normalize(ray.Direction)
		hitPos.X += dir.X * 0.01
		hitPos.Y += dir.Y * 0.01
		hitPos.Z += dir.Z * 0.01
		return util.WorldToGridPos(hitPos), true
	}
	return util.GridCoord{}, false
}

// DrawSelection desenha o contorno de destaque no voxel selecionado.
func (r *Renderer) DrawSelection(coord util.GridCoord) {
	pos := util.GridToWorldPos(coord)
	center := rl.Vector3{
		X: pos.X + util.VoxelScale/2,
		Y: pos.Y + util.VoxelScale/2,
		Z: pos.Z + util.VoxelScale/2,
	}
	rl.DrawCubeWires(center, util.VoxelScale*1.01, util.VoxelScale*1.01, util.VoxelScale*1.01, rl.Yellow)
}
