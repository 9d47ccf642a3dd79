package util

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func TestChunkOrigin(t *testing.T) {
	cases := []struct {
		in   GridCoord
		want GridCoord
	}{
		{GridCoord{0, 0, 0}, GridCoord{0, 0, 0}},
		{GridCoord{15, 15, 15}, GridCoord{0, 0, 0}},
		{GridCoord{16, 0, 0}, GridCoord{16, 0, 0}},
		{GridCoord{-1, 0, 0}, GridCoord{-16, 0, 0}},
		{GridCoord{-16, -17, 31}, GridCoord{-16, -32, 16}},
	}
	for _, c := range cases {
		if got := c.in.ChunkOrigin(); !got.Equals(c.want) {
			t.Errorf("ChunkOrigin(%v) = %v, esperado %v", c.in, got, c.want)
		}
	}
}

func TestLocalCoord(t *testing.T) {
	cases := []struct {
		in   GridCoord
		want GridCoord
	}{
		{GridCoord{0, 0, 0}, GridCoord{0, 0, 0}},
		{GridCoord{17, 3, 15}, GridCoord{1, 3, 15}},
		{GridCoord{-1, -16, -17}, GridCoord{15, 0, 15}},
	}
	for _, c := range cases {
		got := c.in.LocalCoord()
		if !got.Equals(c.want) {
			t.Errorf("LocalCoord(%v) = %v, esperado %v", c.in, got, c.want)
		}
		if got.X < 0 || got.X >= ChunkSize || got.Y < 0 || got.Y >= ChunkSize || got.Z < 0 || got.Z >= ChunkSize {
			t.Errorf("LocalCoord(%v) = %v fora do intervalo [0, %d)", c.in, got, ChunkSize)
		}
	}
}

func TestGridWorldRoundTrip(t *testing.T) {
	coords := []GridCoord{
		{0, 0, 0},
		{5, -3, 100},
		{-17, 42, -1},
	}
	for _, c := range coords {
		if got := WorldToGridPos(GridToWorldPos(c)); !got.Equals(c) {
			t.Errorf("ida e volta de %v resultou em %v", c, got)
		}
	}
}

func TestWorldToGridPosFloors(t *testing.T) {
	got := WorldToGridPos(rl.Vector3{X: 1.9, Y: -0.1, Z: 0.5})
	want := GridCoord{1, -1, 0}
	if !got.Equals(want) {
		t.Errorf("WorldToGridPos = %v, esperado %v", got, want)
	}
}

func TestUniqueQueueDedup(t *testing.T) {
	q := NewUniqueQueue[GridCoord, int]()

	if !q.Enqueue(GridCoord{0, 0, 0}, 1) {
		t.Fatal("primeira inserção deveria retornar true")
	}
	if q.Enqueue(GridCoord{0, 0, 0}, 2) {
		t.Fatal("inserção duplicada deveria retornar false")
	}
	if q.Len() != 1 {
		t.Fatalf("Len = %d, esperado 1", q.Len())
	}

	// A chave duplicada atualiza o valor sem mudar a posição.
	_, v, ok := q.Dequeue()
	if !ok || v != 2 {
		t.Fatalf("Dequeue = (%v, %v), esperado valor atualizado 2", v, ok)
	}
	if q.Contains(GridCoord{0, 0, 0}) {
		t.Fatal("chave removida ainda aparece em Contains")
	}
	if _, _, ok := q.Dequeue(); ok {
		t.Fatal("Dequeue em fila vazia deveria retornar false")
	}
}

func TestUniqueQueueFIFO(t *testing.T) {
	q := NewUniqueQueue[int, string]()
	q.Enqueue(1, "a")
	q.Enqueue(2, "b")
	q.Enqueue(3, "c")

	for _, want := range []string{"a", "b", "c"} {
		_, v, ok := q.Dequeue()
		if !ok || v != want {
			t.Fatalf("Dequeue = (%v, %v), esperado %q", v, ok, want)
		}
	}
}

func TestRingBufferFillAndDrain(t *testing.T) {
	r := NewRingBuffer[int](4)

	for i := 0; i < 4; i++ {
		if err := r.Enqueue(i); err != nil {
			t.Fatalf("Enqueue(%d): %v", i, err)
		}
	}
	if err := r.Enqueue(99); err == nil {
		t.Fatal("Enqueue em buffer cheio deveria falhar")
	}
	if r.Len() != 4 {
		t.Fatalf("Len = %d, esperado 4", r.Len())
	}

	for i := 0; i < 4; i++ {
		v, err := r.Dequeue()
		if err != nil || v != i {
			t.Fatalf("Dequeue = (%d, %v), esperado %d", v, err, i)
		}
	}
	if _, err := r.Dequeue(); err == nil {
		t.Fatal("Dequeue em buffer vazio deveria falhar")
	}
}

func TestRingBufferWrapAround(t *testing.T) {
	r := NewRingBuffer[int](2)
	for round := 0; round < 10; round++ {
		if err := r.Enqueue(round); err != nil {
			t.Fatalf("rodada %d: %v", round, err)
		}
		v, err := r.Dequeue()
		if err != nil || v != round {
			t.Fatalf("rodada %d: Dequeue = (%d, %v)", round, v, err)
		}
	}
}

func TestIntHelpers(t *testing.T) {
	if Max(int32(3), 7) != 7 || Min(int32(3), 7) != 3 {
		t.Error("Max/Min incorretos")
	}
	if Abs(int32(-5)) != 5 || Abs(int32(5)) != 5 {
		t.Error("Abs incorreto")
	}
	if Lerp(0, 10, 0.5) != 5 {
		t.Error("Lerp incorreto")
	}
}
