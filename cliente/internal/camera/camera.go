package camera

import (
	"math"

	"VoxelVision/shared/util"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Mode define o tipo de projeção.
type Mode int

const (
	ModePerspective Mode = iota
	ModeOrthographic
)

// Controller gerencia uma câmera orbital com movimento suavizado.
// O zoom afeta a velocidade de deslocamento: quanto mais longe, mais rápido.
type Controller struct {
	RLCamera rl.Camera3D

	Mode         Mode
	MinZoom      float32
	MaxZoom      float32
	MoveSpeed    float32
	RotateSpeed  float32
	ZoomSpeed    float32
	SmoothFactor float32
	FOV          float32

	// Estado alvo (para onde a interpolação converge)
	TargetLookAt rl.Vector3
	TargetZoom   float32
	TargetAngleY float32 // azimute, radianos
	TargetAngleX float32 // elevação, radianos

	// Estado atual (interpolado)
	CurrentLookAt rl.Vector3
	CurrentZoom   float32
}

// New cria um controlador com os padrões de visualização isométrica.
func New(fov float32) *Controller {
	c := &Controller{
		Mode:         ModePerspective,
		MinZoom:      4.0,
		MaxZoom:      300.0,
		MoveSpeed:    50.0,
		RotateSpeed:  2.0,
		ZoomSpeed:    10.0,
		SmoothFactor: 0.1,
		FOV:          fov,

		TargetZoom:   60.0,
		TargetAngleY: 45.0 * rl.Deg2rad,
		TargetAngleX: -30.0 * rl.Deg2rad,
	}
	c.CurrentLookAt = c.TargetLookAt
	c.CurrentZoom = c.TargetZoom

	c.RLCamera = rl.Camera3D{
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       fov,
		Projection: rl.CameraPerspective,
	}

	c.recompute()
	return c
}

// SetTarget move o foco da câmera imediatamente, sem suavização.
func (c *Controller) SetTarget(pos rl.Vector3) {
	c.TargetLookAt = pos
	c.CurrentLookAt = pos
	c.recompute()
}

// Update interpola o estado atual rumo ao alvo. Chamar a cada frame.
func (c *Controller) Update(dt float32) {
	// Amortecimento normalizado para 60 FPS
	factor := c.SmoothFactor * 60.0 * dt
	if factor > 1.0 {
		factor = 1.0
	}

	cur := mgl32.Vec3{c.CurrentLookAt.X, c.CurrentLookAt.Y, c.CurrentLookAt.Z}
	tgt := mgl32.Vec3{c.TargetLookAt.X, c.TargetLookAt.Y, c.TargetLookAt.Z}
	lerped := cur.Add(tgt.Sub(cur).Mul(factor))

	c.CurrentLookAt = rl.Vector3{X: lerped.X(), Y: lerped.Y(), Z: lerped.Z()}
	c.CurrentZoom = util.Lerp(c.CurrentZoom, c.TargetZoom, factor)

	c.recompute()
}

// recompute converte ângulos esféricos + zoom em posição cartesiana.
func (c *Controller) recompute() {
	dist := c.CurrentZoom

	if c.Mode == ModeOrthographic {
		// No ortográfico o zoom vira escala (Fovy); a câmera fica longe
		// fixa para não cortar geometria no near plane.
		c.RLCamera.Fovy = c.CurrentZoom * 0.5
		c.RLCamera.Projection = rl.CameraOrthographic
		dist = 250.0
	} else {
		c.RLCamera.Fovy = c.FOV
		c.RLCamera.Projection = rl.CameraPerspective
	}

	cosX := float32(math.Cos(float64(c.TargetAngleX)))
	sinX := float32(math.Sin(float64(c.TargetAngleX)))
	cosY := float32(math.Cos(float64(c.TargetAngleY)))
	sinY := float32(math.Sin(float64(c.TargetAngleY)))

	c.RLCamera.Position = rl.Vector3{
		X: c.CurrentLookAt.X + dist*cosX*sinY,
		Y: c.CurrentLookAt.Y + dist*-sinX,
		Z: c.CurrentLookAt.Z + dist*cosX*cosY,
	}
	c.RLCamera.Target = c.CurrentLookAt
}

// SetMode alterna entre perspectiva e ortográfica.
func (c *Controller) SetMode(mode Mode) {
	c.Mode = mode
	c.recompute()
}

// HandleInput processa teclado e mouse. Retorna true se a câmera se moveu.
func (c *Controller) HandleInput(dt float32) bool {
	moved := false

	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		moved = true
		c.TargetZoom -= wheel * c.ZoomSpeed
		if c.TargetZoom < c.MinZoom {
			c.TargetZoom = c.MinZoom
		}
		if c.TargetZoom > c.MaxZoom {
			c.TargetZoom = c.MaxZoom
		}
	}

	// Órbita com o botão direito
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			moved = true
		}
		c.TargetAngleY -= delta.X * c.RotateSpeed * 0.005
		c.TargetAngleX -= delta.Y * c.RotateSpeed * 0.005

		// Elevação limitada para não virar de ponta cabeça
		maxElev := float32(-5.0 * rl.Deg2rad)
		minElev := float32(-89.0 * rl.Deg2rad)
		if c.TargetAngleX > maxElev {
			c.TargetAngleX = maxElev
		}
		if c.TargetAngleX < minElev {
			c.TargetAngleX = minElev
		}
	}

	// WASD relativo à câmera, projetado no plano do chão
	camPos := mgl32.Vec3{c.RLCamera.Position.X, c.RLCamera.Position.Y, c.RLCamera.Position.Z}
	lookAt := mgl32.Vec3{c.TargetLookAt.X, c.TargetLookAt.Y, c.TargetLookAt.Z}

	forward := lookAt.Sub(camPos)
	forward[1] = 0
	if forward.Len() > 0 {
		forward = forward.Normalize()
	}
	right := forward.Cross(mgl32.Vec3{0, 1, 0})
	if right.Len() > 0 {
		right = right.Normalize()
	}

	speed := c.MoveSpeed * (c.CurrentZoom / 50.0) * dt

	var move mgl32.Vec3
	if rl.IsKeyDown(rl.KeyW) {
		move = move.Add(forward)
	}
	if rl.IsKeyDown(rl.KeyS) {
		move = move.Sub(forward)
	}
	if rl.IsKeyDown(rl.KeyD) {
		move = move.Add(right)
	}
	if rl.IsKeyDown(rl.KeyA) {
		move = move.Sub(right)
	}
	if rl.IsKeyDown(rl.KeyE) {
		move = move.Add(mgl32.Vec3{0, 1, 0})
	}
	if rl.IsKeyDown(rl.KeyQ) {
		move = move.Sub(mgl32.Vec3{0, 1, 0})
	}

	if move.Len() > 0 {
		move = move.Normalize().Mul(speed)
		lookAt = lookAt.Add(move)
		c.TargetLookAt = rl.Vector3{X: lookAt.X(), Y: lookAt.Y(), Z: lookAt.Z()}
		moved = true
	}

	return moved
}
