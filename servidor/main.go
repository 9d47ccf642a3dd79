package main

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"VoxelVision/shared/config"
	"VoxelVision/shared/proto/vvnet"
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub gerencia as conexões WebSocket ativas.
type Hub struct {
	clients    map[*websocket.Conn]*sync.Mutex
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mu         sync.Mutex
}

func newHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*sync.Mutex),
		broadcast:  make(chan []byte, 4096),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
	}
}

func (h *Hub) run() {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hub] Recuperado de pânico fatal: %v", r)
		}
	}()

	for {
		select {
		case client, ok := <-h.register:
			if !ok {
				return
			}
			h.mu.Lock()
			h.clients[client] = &sync.Mutex{}
			h.mu.Unlock()
			log.Printf("Cliente registrado: %s", client.RemoteAddr())
		case client, ok := <-h.unregister:
			if !ok {
				return
			}
			h.mu.Lock()
			if lock, ok := h.clients[client]; ok {
				lock.Lock()
				delete(h.clients, client)
				client.Close()
				lock.Unlock()
				log.Printf("Cliente desregistrado: %s", client.RemoteAddr())
			}
			h.mu.Unlock()
		case message, ok := <-h.broadcast:
			if !ok {
				return
			}
			h.mu.Lock()
			type clientEntry struct {
				conn *websocket.Conn
				lock *sync.Mutex
			}
			var targets []clientEntry
			for c, l := range h.clients {
				targets = append(targets, clientEntry{c, l})
			}
			h.mu.Unlock()

			for _, target := range targets {
				target.lock.Lock()
				err := target.conn.WriteMessage(websocket.BinaryMessage, message)
				if err != nil {
					log.Printf("Erro ao enviar para cliente %s: %v", target.conn.RemoteAddr(), err)
					target.conn.Close()
					h.mu.Lock()
					delete(h.clients, target.conn)
					h.mu.Unlock()
				}
				target.lock.Unlock()
			}
		}
	}
}

// WriteSafe garante que apenas uma goroutine escreva no WebSocket por vez.
func (h *Hub) WriteSafe(conn *websocket.Conn, data []byte) error {
	h.mu.Lock()
	lock, ok := h.clients[conn]
	h.mu.Unlock()

	if !ok {
		return fmt.Errorf("cliente não encontrado no hub")
	}

	lock.Lock()
	defer lock.Unlock()
	return conn.WriteMessage(websocket.BinaryMessage, data)
}

// safeSend envia para o broadcast protegendo contra canal fechado.
func (h *Hub) safeSend(data []byte) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Hub] Aviso: Falha ao enviar broadcast: %v", r)
		}
	}()
	h.broadcast <- data
}

// sendMessage embrulha e envia uma mensagem para uma conexão específica.
func (h *Hub) sendMessage(conn *websocket.Conn, msgType vvnet.MessageType, payload []byte) {
	if err := h.WriteSafe(conn, vvnet.Pack(msgType, payload)); err != nil {
		log.Printf("Erro ao enviar mensagem %d: %v", msgType, err)
	}
}

// Server amarra o mundo, a persistência e o gerador.
type Server struct {
	hub   *Hub
	store *voxel.Store
	gen   *WorldGenerator
	cfg   *config.Config
}

func main() {
	// Working directory = diretório do executável, para que caminhos
	// relativos (saves/, tmp/) funcionem independente de onde foi chamado.
	if exePath, err := os.Executable(); err == nil {
		os.Chdir(filepath.Dir(exePath))
	}

	log.SetFlags(log.Ltime | log.Lshortfile)

	if err := os.MkdirAll("tmp", 0755); err == nil {
		logFile, err := os.OpenFile("tmp/server.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err == nil {
			log.SetOutput(io.MultiWriter(os.Stdout, logFile))
		}
	}
	log.Println("╔══════════════════════════════════════╗")
	log.Println("║     VoxelVision SERVER v0.1.0        ║")
	log.Println("╚══════════════════════════════════════╝")

	cfg := config.Load()

	hub := newHub()
	go hub.run()

	store := voxel.NewStore()
	log.Printf("Inicializando banco de dados para o mundo: %s", cfg.WorldName)
	if err := store.OpenInitialize(cfg.WorldName); err != nil {
		log.Printf("Erro ao abrir SQLite: %v (rodando sem persistência)", err)
	} else {
		loaded, err := store.LoadAll()
		if err != nil {
			log.Printf("Erro ao carregar mundo salvo: %v", err)
		} else if loaded > 0 {
			log.Printf("Mundo restaurado: %d chunks", loaded)
		}
	}

	srv := &Server{
		hub:   hub,
		store: store,
		gen:   NewWorldGenerator(cfg.WorldSeed),
		cfg:   cfg,
	}

	// Auto-save periódico dos chunks sujos
	go func() {
		for {
			time.Sleep(30 * time.Second)
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("[AutoSave] Recuperado de pânico: %v", r)
					}
				}()
				if store.DB == nil {
					return
				}
				if n, err := store.SaveAll(); err != nil {
					log.Printf("[AutoSave] Erro: %v", err)
				} else if n > 0 {
					log.Printf("[AutoSave] %d chunks gravados", n)
				}
			}()
		}
	}()

	http.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		srv.serveWs(w, r)
	})

	addr := cfg.ListenAddr
	if p := os.Getenv("PORT"); p != "" {
		addr = ":" + p
	}

	// Verificação de porta antes do ListenAndServe para dar erro legível
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Printf("ERRO CRÍTICO: Não foi possível abrir %s.", addr)
		log.Printf("Provavelmente há outra instância do servidor rodando.")
		log.Fatalf("Erro ao iniciar servidor: %v", err)
	}
	ln.Close()

	log.Printf("Servidor VoxelVision iniciado em %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("Erro fatal no servidor HTTP: %v", err)
	}
}

// serveWs maneja requisições websocket de um cliente.
func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Erro no upgrade do WebSocket: %v", err)
		return
	}
	s.hub.register <- conn

	// Handshake: status do mundo + paleta de materiais
	s.store.Mu.RLock()
	chunkCount := int64(len(s.store.Chunks))
	s.store.Mu.RUnlock()

	status := vvnet.WorldStatus{
		WorldName:  s.cfg.WorldName,
		Seed:       s.cfg.WorldSeed,
		ChunkCount: chunkCount,
	}
	s.hub.sendMessage(conn, vvnet.MsgWorldStatus, status.Marshal())
	s.hub.sendMessage(conn, vvnet.MsgMaterialList, s.materialList().Marshal())

	go func() {
		defer func() {
			s.hub.unregister <- conn
		}()

		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				log.Printf("Conexão encerrada: %v", err)
				break
			}

			var env vvnet.Envelope
			if err := env.Unmarshal(message); err != nil {
				log.Printf("Erro ao desempacotar envelope: %v", err)
				continue
			}

			s.handleClientMessage(conn, &env)
		}
	}()
}

func (s *Server) materialList() *vvnet.MaterialList {
	list := &vvnet.MaterialList{}
	for _, m := range s.store.Materials.All() {
		list.Materials = append(list.Materials, vvnet.MaterialDef{
			Type:        m.Type,
			Name:        m.Name,
			R:           uint32(m.Color[0]),
			G:           uint32(m.Color[1]),
			B:           uint32(m.Color[2]),
			A:           uint32(m.Color[3]),
			Transparent: m.Transparent,
		})
	}
	return list
}

func (s *Server) handleClientMessage(conn *websocket.Conn, env *vvnet.Envelope) {
	switch env.Type {
	case vvnet.MsgRequestRegion:
		var req vvnet.RequestRegion
		if err := req.Unmarshal(env.Payload); err != nil {
			log.Printf("Erro ao ler RequestRegion: %v", err)
			return
		}
		go s.streamRegion(conn, &req)
	}
}

// streamRegion envia os chunks de uma região cúbica ao cliente, gerando (ou
// carregando do banco) os que ainda não existem em memória.
func (s *Server) streamRegion(conn *websocket.Conn, req *vvnet.RequestRegion) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Stream] Recuperado de pânico: %v", r)
		}
	}()

	radius := req.Radius
	if radius < 1 {
		radius = 1
	}
	if radius > 16 {
		radius = 16
	}

	center := util.GridCoord{X: req.CenterX, Y: req.CenterY, Z: req.CenterZ}.ChunkOrigin()
	span := radius * util.ChunkSize
	// O mundo é raso: limitar a varredura vertical corta o custo cúbico
	ySpan := util.Min(span, 2*util.ChunkSize)

	chunksSent := 0
	chunksEmpty := 0
	for x := center.X - span; x <= center.X+span; x += util.ChunkSize {
		for y := center.Y - ySpan; y <= center.Y+ySpan; y += util.ChunkSize {
			for z := center.Z - span; z <= center.Z+span; z += util.ChunkSize {
				origin := util.GridCoord{X: x, Y: y, Z: z}
				chunk := s.resolveChunk(origin)

				if chunk == nil || chunk.IsEmpty {
					chunksEmpty++
					msg := vvnet.ChunkEmpty{X: origin.X, Y: origin.Y, Z: origin.Z}
					s.hub.sendMessage(conn, vvnet.MsgChunkEmpty, msg.Marshal())
					continue
				}

				var buf bytes.Buffer
				enc := gob.NewEncoder(&buf)
				if err := enc.Encode(chunk.Voxels); err != nil {
					log.Printf("[Stream] Erro ao codificar chunk %v: %v", origin, err)
					continue
				}

				msg := vvnet.ChunkData{
					X:     origin.X,
					Y:     origin.Y,
					Z:     origin.Z,
					MTime: chunk.MTime,
					Data:  buf.Bytes(),
				}
				s.hub.sendMessage(conn, vvnet.MsgChunkData, msg.Marshal())
				chunksSent++
			}
		}
	}
	if chunksSent > 0 {
		log.Printf("[Stream] → %d chunks enviados, %d vazios (centro %v, raio %d)",
			chunksSent, chunksEmpty, center, radius)
	}
}

// resolveChunk busca um chunk na memória, depois no banco, e por último
// gera a partir da seed. Chunks gerados vazios são memorizados como ar.
func (s *Server) resolveChunk(origin util.GridCoord) *voxel.Chunk {
	if chunk := s.store.GetChunk(origin); chunk != nil {
		return chunk
	}

	if s.store.DB != nil {
		if chunk, err := s.store.LoadChunk(origin); err == nil {
			s.store.PutChunk(chunk)
			return chunk
		}
	}

	chunk := s.gen.GenerateChunk(origin)
	if chunk == nil {
		s.store.MarkAsEmpty(origin)
		return s.store.GetChunk(origin)
	}
	s.store.PutChunk(chunk)
	return chunk
}
