package app

import (
	"log"

	"VoxelVision/cliente/internal/client"
	"VoxelVision/shared/proto/vvnet"
	"VoxelVision/shared/util"
)

// connectServer conecta ao servidor VoxelVision e instala os callbacks.
// Roda em goroutine própria; a entrega para o loop principal passa pelo
// buffer circular de chegadas.
func (a *App) connectServer() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro em connectServer: %v", r)
		}
	}()

	a.netClient = client.NewNetworkClient(a.Config.ServerURL, a.world)

	a.netClient.OnChunk = func(origin util.GridCoord) {
		if err := a.arrivals.Enqueue(origin); err != nil {
			// Buffer cheio: o chunk já está no store, o remesh acontece na
			// próxima varredura de região.
			log.Printf("[App] Fila de chegadas cheia, chunk %v adiado", origin)
		}
	}

	a.netClient.OnWorldStatus = func(status *vvnet.WorldStatus) {
		a.WorldName = status.WorldName
		a.WorldSeed = status.Seed
		a.ChunkCount = status.ChunkCount
		log.Printf("[App] Mundo: %s (seed %d, %d chunks no servidor)",
			status.WorldName, status.Seed, status.ChunkCount)
	}

	a.netClient.OnMaterials = func(list *vvnet.MaterialList) {
		log.Printf("[App] Paleta de %d materiais sincronizada.", len(list.Materials))
	}

	if err := a.netClient.Connect(); err != nil {
		log.Printf("[Server] Erro ao conectar: %v", err)
		a.LoadingStatus = "Erro ao conectar ao servidor. Verifique se ele está rodando."
		return
	}

	log.Println("[Network] Conectado ao servidor VoxelVision!")
	a.LoadingStatus = "Sincronizando com o mundo..."

	// Primeira requisição de região sem esperar o throttle do loop
	center := util.WorldToGridPos(a.Cam.CurrentLookAt)
	a.netClient.RequestRegion(center, a.Config.DrawRadius)
}
