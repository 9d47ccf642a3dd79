package app

import (
	"fmt"
	"log"

	"VoxelVision/cliente/internal/meshing"
	"VoxelVision/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// drainArrivals move as origens recebidas pela rede para a fila de remesh.
func (a *App) drainArrivals() {
	for {
		origin, err := a.arrivals.Dequeue()
		if err != nil {
			return
		}
		a.remeshQueue.Enqueue(origin, a.world.ChunkMTime(origin))
		a.chunksReceived++
	}
}

// scheduleRemesh despacha a fila de remesh para o pool de workers.
// O MTime é relido no despacho: se o chunk mudou de novo enquanto esperava,
// a versão mais recente é a que vale.
func (a *App) scheduleRemesh() {
	for a.remeshQueue.Len() > 0 {
		origin, _, ok := a.remeshQueue.Dequeue()
		if !ok {
			return
		}
		mtime := a.world.ChunkMTime(origin)

		// Pula se a GPU já tem esta versão
		if a.renderer.GetModelVersion(origin) == mtime {
			continue
		}

		accepted := a.mesher.Enqueue(meshing.Request{
			Origin: origin,
			Data:   a.world,
			MTime:  mtime,
		})
		if !accepted {
			// Fila do mesher cheia ou origem já pendente: devolve e tenta
			// no próximo frame.
			a.remeshQueue.Enqueue(origin, mtime)
			return
		}
	}
}

// requestRegion pede ao servidor os chunks ao redor do foco da câmera.
func (a *App) requestRegion(force bool) {
	if a.netClient == nil || !a.netClient.IsConnected() {
		return
	}

	// throttle: a cada 180 frames (3s) normal, 60 durante o loading
	checkInterval := 180
	if a.Loading {
		checkInterval = 60
	}
	if !force && a.frameCount%checkInterval != 0 {
		return
	}

	center := util.WorldToGridPos(a.Cam.CurrentLookAt)
	a.netClient.RequestRegion(center, a.Config.DrawRadius)

	// Descarrega da GPU o que ficou para trás (raio em unidades do mundo)
	a.renderer.Purge(center, float32(a.Config.DrawRadius*util.ChunkSize)*2.5)
}

// processMesherResults consome resultados prontos e sobe para a GPU.
// Time slicing: no máximo 4ms de upload por frame para não causar stutter
// (um frame a 60 FPS tem 16.6ms); durante o loading o orçamento é folgado.
func (a *App) processMesherResults() {
	timeBudget := 0.004
	if a.Loading {
		timeBudget = 0.500
	}

	startTime := rl.GetTime()

	for {
		if rl.GetTime()-startTime > timeBudget {
			return
		}

		select {
		case res := <-a.mesher.Results():
			a.renderer.UploadResult(res)

			if a.Loading {
				a.LoadingStatus = fmt.Sprintf("Construindo terreno: %d chunks recebidos", a.chunksReceived)
				a.LoadingProgress = float32(a.chunksReceived) / 128.0
				if a.LoadingProgress > 1.0 {
					a.LoadingProgress = 1.0
				}
			}
		default:
			if a.Loading {
				elapsed := rl.GetTime() - a.loadingStart
				// Sai do loading quando o terreno inicial chegou, ou após a
				// margem de segurança se o servidor estiver vazio/lento.
				if a.chunksReceived >= 64 || elapsed > 15.0 {
					a.Loading = false
					a.LoadingProgress = 1.0
					log.Printf("[App] Loading concluído (%d chunks em %.1fs)", a.chunksReceived, elapsed)
				}
			}
			return
		}
	}
}

// DigSelected remove o voxel selecionado e agenda o remesh local.
func (a *App) DigSelected() {
	if a.SelectedCoord == nil {
		return
	}
	coord := *a.SelectedCoord

	a.world.SetVoxel(coord, 0)
	a.invalidateAround(coord)
	log.Printf("[App] Voxel escavado em %v", coord)
}

// invalidateAround agenda remesh do chunk do voxel e dos vizinhos quando a
// alteração toca uma fronteira de chunk.
func (a *App) invalidateAround(coord util.GridCoord) {
	origin := coord.ChunkOrigin()
	a.remeshQueue.Enqueue(origin, a.world.ChunkMTime(origin))

	local := coord.LocalCoord()
	neighbors := []struct {
		local int32
		delta util.GridCoord
	}{
		{local.X, util.GridCoord{X: -util.ChunkSize}},
		{util.ChunkSize - 1 - local.X, util.GridCoord{X: util.ChunkSize}},
		{local.Y, util.GridCoord{Y: -util.ChunkSize}},
		{util.ChunkSize - 1 - local.Y, util.GridCoord{Y: util.ChunkSize}},
		{local.Z, util.GridCoord{Z: -util.ChunkSize}},
		{util.ChunkSize - 1 - local.Z, util.GridCoord{Z: util.ChunkSize}},
	}
	for _, n := range neighbors {
		if n.local == 0 {
			nb := origin.Add(n.delta)
			a.remeshQueue.Enqueue(nb, a.world.ChunkMTime(nb))
		}
	}
}
