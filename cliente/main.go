package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"VoxelVision/cliente/internal/app"
	"VoxelVision/shared/config"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	serverURL := flag.String("server", "", "URL do servidor VoxelVision (padrão: ws://127.0.0.1:8090/ws)")
	fullscreen := flag.Bool("fullscreen", false, "Iniciar em tela cheia")
	debug := flag.Bool("debug", false, "Mostrar informações de debug")
	parallel := flag.Bool("parallel", false, "Rodar as varreduras do mesher em paralelo")
	width := flag.Int("width", 0, "Largura da janela")
	height := flag.Int("height", 0, "Altura da janela")
	flag.Parse()

	// Log em arquivo para inspeção post-mortem (a GUI não tem console)
	f, err := os.OpenFile("debug_vv.log", os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err == nil {
		log.SetOutput(f)
		log.Println("--- INICIANDO VOXELVISION ---")
	}

	log.SetFlags(log.Ltime | log.Lshortfile)
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║         VoxelVision v0.1.0           ║")
	log.Println("║   Visualizador 3D de mundos voxel    ║")
	log.Println("╚══════════════════════════════════════╝")

	cfg := config.Load()

	// Flags sobrescrevem o config salvo
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *fullscreen {
		cfg.Fullscreen = true
	}
	if *debug {
		cfg.ShowDebugInfo = true
	}
	if *parallel {
		cfg.ParallelSweeps = true
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}

	application := app.New(cfg)
	application.Run()
}
