package app

import (
	"log"

	"VoxelVision/cliente/internal/camera"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// updateCamera atualiza a câmera baseado no input.
func (a *App) updateCamera() {
	dt := rl.GetFrameTime()
	a.Cam.HandleInput(dt)
	a.Cam.Update(dt)

	// Alternar projeção com P
	if rl.IsKeyPressed(rl.KeyP) {
		if a.Cam.Mode == camera.ModePerspective {
			a.Cam.SetMode(camera.ModeOrthographic)
			log.Println("[Camera] Modo Ortográfico")
		} else {
			a.Cam.SetMode(camera.ModePerspective)
			log.Println("[Camera] Modo Perspectiva")
		}
	}
}

// updateInput processa entradas de teclado gerais.
func (a *App) updateInput() {
	// Toggle debug info
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}

	// Pular loading manualmente
	if a.Loading && rl.IsKeyPressed(rl.KeySpace) {
		log.Println("[App] Loading pulado manualmente pelo usuário.")
		a.Loading = false
	}

	// Toggle grid
	if rl.IsKeyPressed(rl.KeyG) {
		a.Config.ShowGrid = !a.Config.ShowGrid
	}

	// Toggle wireframe
	if rl.IsKeyPressed(rl.KeyF4) {
		a.Config.WireframeMode = !a.Config.WireframeMode
		a.renderer.Wireframe = a.Config.WireframeMode
	}

	// Fullscreen
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// Selecionar voxel com clique esquerdo
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) {
		mousePos := rl.GetMousePosition()
		ray := rl.GetMouseRay(mousePos, a.Cam.RLCamera)
		coord, hit := a.renderer.GetRayCollision(ray)
		if hit {
			a.SelectedCoord = &coord
		} else {
			a.SelectedCoord = nil
		}
	}

	// Escavar o voxel selecionado
	if rl.IsKeyPressed(rl.KeyX) {
		a.DigSelected()
	}

	// ESC: alternar pausa
	if rl.IsKeyPressed(rl.KeyEscape) {
		if a.State == StateViewing {
			a.State = StatePaused
			log.Println("[App] Pausado")
		} else if a.State == StatePaused {
			a.State = StateViewing
			log.Println("[App] Retomando")
		}
	}
}
