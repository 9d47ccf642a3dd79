package app

import (
	"log"
	"runtime"

	"VoxelVision/cliente/internal/camera"
	"VoxelVision/cliente/internal/client"
	"VoxelVision/cliente/internal/meshing"
	"VoxelVision/cliente/internal/render"
	"VoxelVision/shared/config"
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// AppState representa os estados possíveis da aplicação.
type AppState int

const (
	StateLoading AppState = iota
	StateViewing
	StatePaused
)

// App é a aplicação principal do VoxelVision.
type App struct {
	Config *config.Config
	State  AppState

	Cam *camera.Controller

	frameCount int

	// Voxel selecionado pelo usuário (inspeção/edição)
	SelectedCoord *util.GridCoord

	// Dados do mundo e comunicação
	world       *voxel.Store
	netClient   *client.NetworkClient
	mesher      *meshing.ChunkMesher
	resultStore *meshing.ResultStore
	renderer    *render.Renderer

	// Origens de chunks recém-chegados da rede (produtor: goroutine de
	// leitura; consumidor: loop principal).
	arrivals *util.RingBuffer[util.GridCoord]

	// Chunks aguardando remesh, sem duplicatas. O valor é o MTime visto no
	// momento do agendamento.
	remeshQueue *util.UniqueQueue[util.GridCoord, int64]

	// Estado da tela de carregamento
	Loading         bool
	LoadingStatus   string
	LoadingProgress float32
	loadingStart    float64
	chunksReceived  int

	// Estado do mundo informado pelo servidor
	WorldName  string
	WorldSeed  int64
	ChunkCount int64
}

// New cria uma nova instância da aplicação.
func New(cfg *config.Config) *App {
	return &App{
		Config:        cfg,
		State:         StateLoading,
		Loading:       true,
		LoadingStatus: "Conectando ao servidor...",
		arrivals:      util.NewRingBuffer[util.GridCoord](4096),
		remeshQueue:   util.NewUniqueQueue[util.GridCoord, int64](),
	}
}

// Run inicia o loop principal da aplicação.
func (a *App) Run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning)

	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}

	rl.SetTargetFPS(a.Config.TargetFPS)
	rl.SetExitKey(0)

	a.Cam = camera.New(a.Config.FOV)
	a.Cam.SetTarget(rl.Vector3{X: 8, Y: 8, Z: 8})

	log.Println("[VoxelVision] Janela inicializada com sucesso")
	log.Printf("[VoxelVision] Resolução: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	a.world = voxel.NewStore()
	a.resultStore = meshing.NewResultStore()
	a.renderer = render.NewRenderer()

	workers := a.Config.MesherThreads
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	log.Printf("[App] Iniciando Mesher com %d workers (varreduras paralelas: %v)",
		workers, a.Config.ParallelSweeps)
	a.mesher = meshing.NewChunkMesher(workers, a.resultStore, a.Config.ParallelSweeps)

	a.loadingStart = rl.GetTime()
	a.State = StateViewing

	go a.connectServer()

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}

	a.shutdown()
	rl.CloseWindow()
}

// update atualiza a lógica a cada frame.
func (a *App) update() {
	a.frameCount++

	switch a.State {
	case StateViewing:
		a.renderer.ProcessPurge()
		a.updateCamera()
		a.updateInput()
		a.drainArrivals()
		a.scheduleRemesh()
		a.requestRegion(false)
		a.processMesherResults()
	case StatePaused:
		a.updateInput()
	}
}

// shutdown realiza a limpeza de recursos.
func (a *App) shutdown() {
	log.Println("[App] Finalizando aplicação...")

	if a.mesher != nil {
		a.mesher.Stop()
	}
	if a.renderer != nil {
		a.renderer.Unload()
	}

	if err := a.Config.Save(); err != nil {
		log.Printf("[VoxelVision] Erro ao salvar configurações: %v", err)
	}
}
