package app

import (
	"fmt"

	"VoxelVision/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw renderiza a cena.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(30, 30, 40, 255))

	if a.Loading {
		a.drawLoadingScreen()
	} else {
		a.drawScene()
		a.drawHUD()

		if a.State == StatePaused {
			a.drawPauseMenu()
		}
	}

	rl.EndDrawing()
}

// drawScene renderiza a cena 3D.
func (a *App) drawScene() {
	rl.BeginMode3D(a.Cam.RLCamera)

	if a.Config.ShowGrid {
		rl.DrawGrid(40, util.VoxelScale*util.ChunkSize)
	}

	a.renderer.Draw(a.Cam.RLCamera, float32(a.Config.DrawRadius*util.ChunkSize)*2)

	if a.SelectedCoord != nil {
		a.renderer.DrawSelection(*a.SelectedCoord)
	}

	rl.EndMode3D()
}

// drawHUD desenha o overlay de debug.
func (a *App) drawHUD() {
	if !a.Config.ShowDebugInfo {
		return
	}

	width := int32(320)
	height := int32(210)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 50 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)

	rl.DrawLine(x+10, y+35, x+width-10, y+35, rl.NewColor(100, 100, 100, 100))

	focus := util.WorldToGridPos(a.Cam.CurrentLookAt)
	rl.DrawText(fmt.Sprintf("Foco: %v", focus), x+10, y+45, 16, rl.White)

	syncStatus := "Offline"
	if a.netClient != nil && a.netClient.IsConnected() {
		syncStatus = "Conectado"
	}
	rl.DrawText(fmt.Sprintf("Servidor: %s", syncStatus), x+10, y+65, 14, rl.LightGray)

	if a.WorldName != "" {
		rl.DrawText(fmt.Sprintf("Mundo: %s (seed %d)", a.WorldName, a.WorldSeed), x+10, y+85, 14, rl.Gold)
	}

	models, vertices := a.renderer.DrawnStats()
	rl.DrawText(fmt.Sprintf("Chunks na GPU: %d (%d vértices)", models, vertices), x+10, y+105, 14, rl.LightGray)
	rl.DrawText(fmt.Sprintf("Fila de remesh: %d", a.remeshQueue.Len()), x+10, y+125, 14, rl.LightGray)

	rl.DrawLine(x+10, y+145, x+width-10, y+145, rl.NewColor(100, 100, 100, 100))

	rl.DrawText("WASD: Mover | Q/E: Subir/Descer | Scroll: Zoom", x+10, y+155, 13, rl.LightGray)
	rl.DrawText("Clique: Selecionar | X: Escavar | F4: Wireframe", x+10, y+172, 13, rl.SkyBlue)

	a.drawSelectedVoxelInfo()

	title := "VoxelVision v0.1.0"
	titleWidth := rl.MeasureText(title, 18)
	rl.DrawText(title,
		int32(rl.GetScreenWidth())-titleWidth-20, int32(rl.GetScreenHeight())-30,
		18, rl.NewColor(200, 200, 200, 150))
}

func (a *App) drawSelectedVoxelInfo() {
	if a.SelectedCoord == nil {
		return
	}

	t := a.world.GetVoxel(*a.SelectedCoord)
	if t == 0 {
		return
	}

	width := int32(260)
	height := int32(120)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(230)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 200))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(255, 215, 0, 255))

	rl.DrawText("INSPEÇÃO DE VOXEL", x+15, y+12, 16, rl.Gold)
	rl.DrawLine(x+15, y+34, x+width-15, y+34, rl.NewColor(100, 100, 100, 255))

	rl.DrawText(fmt.Sprintf("Coord: %v", a.SelectedCoord.String()), x+15, y+44, 15, rl.White)

	mat, known := a.world.Materials.Get(t)
	name := "desconhecido"
	if known {
		name = mat.Name
	}
	rl.DrawText(fmt.Sprintf("Material: %s (tipo %d)", name, t), x+15, y+64, 15, rl.White)
	if known && mat.Transparent {
		rl.DrawText("[TRANSPARENTE]", x+15, y+84, 13, rl.SkyBlue)
	}
}

// drawPauseMenu desenha o menu de escape centralizado.
func (a *App) drawPauseMenu() {
	screenWidth := int32(rl.GetScreenWidth())
	screenHeight := int32(rl.GetScreenHeight())

	rl.DrawRectangle(0, 0, screenWidth, screenHeight, rl.NewColor(0, 0, 0, 150))

	panelWidth := int32(400)
	panelHeight := int32(240)
	panelX := (screenWidth - panelWidth) / 2
	panelY := (screenHeight - panelHeight) / 2

	rl.DrawRectangle(panelX, panelY, panelWidth, panelHeight, rl.NewColor(30, 30, 35, 255))
	rl.DrawRectangleLines(panelX, panelY, panelWidth, panelHeight, rl.White)

	menuTitle := "MENU DE PAUSA"
	titleWidth := rl.MeasureText(menuTitle, 24)
	rl.DrawText(menuTitle, panelX+(panelWidth-titleWidth)/2, panelY+30, 24, rl.Gold)

	buttonX := panelX + 50
	buttonWidth := panelWidth - 100
	buttonHeight := int32(40)

	if a.drawButton(buttonX, panelY+90, buttonWidth, buttonHeight, "RETOMAR (ESC)", rl.Green) {
		a.State = StateViewing
	}

	if a.drawButton(buttonX, panelY+150, buttonWidth, buttonHeight, "SAIR", rl.Red) {
		a.shutdown()
		rl.CloseWindow()
	}
}

// drawButton desenha um botão com hover e retorna true se clicado.
func (a *App) drawButton(x, y, w, h int32, text string, color rl.Color) bool {
	mousePos := rl.GetMousePosition()
	isHover := mousePos.X >= float32(x) && mousePos.X <= float32(x+w) &&
		mousePos.Y >= float32(y) && mousePos.Y <= float32(y+h)

	drawColor := color
	if isHover {
		drawColor.R += 30
		drawColor.G += 30
		drawColor.B += 30
		rl.SetMouseCursor(rl.MouseCursorPointingHand)
	} else {
		rl.SetMouseCursor(rl.MouseCursorDefault)
	}

	rl.DrawRectangle(x, y, w, h, rl.NewColor(50, 50, 50, 255))
	rl.DrawRectangleLines(x, y, w, h, drawColor)

	textWidth := rl.MeasureText(text, 18)
	rl.DrawText(text, x+(w-textWidth)/2, y+(h-18)/2, 18, rl.White)

	return isHover && rl.IsMouseButtonPressed(rl.MouseLeftButton)
}

func (a *App) drawLoadingScreen() {
	screenWidth := int32(rl.GetScreenWidth())
	screenHeight := int32(rl.GetScreenHeight())

	rl.DrawRectangle(0, 0, screenWidth, screenHeight, rl.NewColor(20, 20, 25, 255))

	title := "VOXELVISION"
	titleWidth := rl.MeasureText(title, 40)
	rl.DrawText(title, (screenWidth-titleWidth)/2, screenHeight/2-60, 40, rl.Gold)

	barWidth := int32(400)
	barHeight := int32(30)
	barX := (screenWidth - barWidth) / 2
	barY := screenHeight/2 + 20

	rl.DrawRectangle(barX, barY, barWidth, barHeight, rl.DarkGray)
	rl.DrawRectangle(barX, barY, int32(float32(barWidth)*a.LoadingProgress), barHeight, rl.Orange)
	rl.DrawRectangleLines(barX, barY, barWidth, barHeight, rl.White)

	statusWidth := rl.MeasureText(a.LoadingStatus, 18)
	rl.DrawText(a.LoadingStatus, (screenWidth-statusWidth)/2, barY+45, 18, rl.LightGray)

	tip := "Pressione ESPAÇO para entrar imediatamente."
	tipWidth := rl.MeasureText(tip, 16)
	rl.DrawText(tip, (screenWidth-tipWidth)/2, screenHeight-50, 16, rl.Gray)
}
