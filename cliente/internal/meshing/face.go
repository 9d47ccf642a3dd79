package meshing

import "github.com/go-gl/mathgl/mgl32"

// Side identifica uma das 6 direções canônicas de uma face de voxel.
// East = +X, West = -X, Top = +Y, Bottom = -Y, North = +Z, South = -Z.
type Side int

const (
	SideEast Side = iota
	SideWest
	SideTop
	SideBottom
	SideNorth
	SideSouth
)

// Axis retorna o eixo perpendicular à face (0 = X, 1 = Y, 2 = Z).
func (s Side) Axis() int {
	switch s {
	case SideEast, SideWest:
		return 0
	case SideTop, SideBottom:
		return 1
	default:
		return 2
	}
}

// Positive informa se a face aponta no sentido positivo do eixo.
func (s Side) Positive() bool {
	return s == SideEast || s == SideTop || s == SideNorth
}

// Normal retorna o vetor normal unitário da face.
func (s Side) Normal() mgl32.Vec3 {
	switch s {
	case SideEast:
		return mgl32.Vec3{1, 0, 0}
	case SideWest:
		return mgl32.Vec3{-1, 0, 0}
	case SideTop:
		return mgl32.Vec3{0, 1, 0}
	case SideBottom:
		return mgl32.Vec3{0, -1, 0}
	case SideNorth:
		return mgl32.Vec3{0, 0, 1}
	default:
		return mgl32.Vec3{0, 0, -1}
	}
}

func (s Side) String() string {
	switch s {
	case SideEast:
		return "east"
	case SideWest:
		return "west"
	case SideTop:
		return "top"
	case SideBottom:
		return "bottom"
	case SideNorth:
		return "north"
	default:
		return "south"
	}
}

// VoxelFace encapsula os atributos de uma única face de voxel.
// Qualquer subconjunto dos campos pode formar a chave de comparação usada
// para decidir se duas faces adjacentes podem ser fundidas em um quad maior.
//
// Transparent marca faces que participam do cálculo da máscara (ocludem e
// fundem normalmente) mas nunca geram quads.
//
// Shade é um atributo de extensão (nível de luz por face); o mesher apenas
// o transporta, sem interpretá-lo.
type VoxelFace struct {
	Type        int32
	Transparent bool
	Side        Side
	Shade       uint8
}

// FaceQueryFunc consulta os atributos da face `side` do voxel em (x, y, z).
// O segundo retorno é false quando não há face ali ("absent"). A função deve
// ser pura durante uma execução do mesher e deve retornar absent para
// coordenadas fora da região populada, nunca falhar por causa delas.
type FaceQueryFunc func(x, y, z int32, side Side) (VoxelFace, bool)

// QuadFunc recebe cada quad fundido produzido pelo mesher.
//
// Os cantos vêm em coordenadas de grade na ordem (origem, origem+du,
// origem+du+dv, origem+dv), onde du corre o eixo da largura e dv o da
// altura. backFace indica a varredura no sentido negativo do eixo e
// seleciona qual das duas ordens de índices espelhadas o consumidor deve
// usar na triangulação. O mesher não retém o quad após a chamada.
type QuadFunc func(corners [4]mgl32.Vec3, width, height int32, face VoxelFace, backFace bool)

// EqualsFunc é a relação de equivalência entre faces fornecida pelo caller.
// Deve ser total, sem efeitos colaterais e ignorar o campo Side.
type EqualsFunc func(a, b VoxelFace) bool

// DefaultEquals compara Type, Transparent e Shade, ignorando Side.
func DefaultEquals(a, b VoxelFace) bool {
	return a.Type == b.Type && a.Transparent == b.Transparent && a.Shade == b.Shade
}
