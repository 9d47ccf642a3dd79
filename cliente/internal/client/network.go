package client

import (
	"bytes"
	"encoding/gob"
	"log"
	"sync"
	"time"

	"VoxelVision/shared/proto/vvnet"
	"VoxelVision/shared/util"
	"VoxelVision/shared/voxel"

	"github.com/gorilla/websocket"
)

// NetworkClient lida com a comunicação com o servidor VoxelVision.
type NetworkClient struct {
	conn      *websocket.Conn
	url       string
	store     *voxel.Store
	connected bool
	mu        sync.RWMutex

	// Callbacks para o App
	OnChunk       func(origin util.GridCoord)
	OnWorldStatus func(status *vvnet.WorldStatus)
	OnMaterials   func(list *vvnet.MaterialList)
}

func NewNetworkClient(url string, store *voxel.Store) *NetworkClient {
	return &NetworkClient{
		url:   url,
		store: store,
	}
}

// Connect tenta se conectar ao servidor com retry (o launcher sobe os dois
// processos juntos e o servidor pode demorar a escutar).
func (c *NetworkClient) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}

	var err error
	maxRetries := 10
	for i := 0; i < maxRetries; i++ {
		log.Printf("[Network] Tentativa de conexão %d/%d em %s...", i+1, maxRetries, c.url)
		c.conn, _, err = dialer.Dial(c.url, nil)
		if err == nil {
			break
		}
		log.Printf("[Network] Servidor ainda não está pronto: %v. Aguardando...", err)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Printf("[Network] ERRO CRÍTICO após %d tentativas: %v", maxRetries, err)
		return err
	}

	c.mu.Lock()
	c.connected = true
	c.mu.Unlock()

	go c.readLoop()
	return nil
}

func (c *NetworkClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

// RequestRegion pede ao servidor os chunks ao redor do centro dado.
func (c *NetworkClient) RequestRegion(center util.GridCoord, radius int32) {
	req := vvnet.RequestRegion{
		CenterX: center.X,
		CenterY: center.Y,
		CenterZ: center.Z,
		Radius:  radius,
	}
	c.Send(vvnet.MsgRequestRegion, req.Marshal())
}

// Send embrulha e envia uma mensagem binária ao servidor.
func (c *NetworkClient) Send(msgType vvnet.MessageType, payload []byte) {
	if !c.IsConnected() {
		return
	}

	data := vvnet.Pack(msgType, payload)

	c.mu.Lock()
	err := c.conn.WriteMessage(websocket.BinaryMessage, data)
	if err != nil {
		c.connected = false
	}
	c.mu.Unlock()

	if err != nil {
		log.Printf("[Network] Erro ao enviar mensagem: %v", err)
	}
}

func (c *NetworkClient) readLoop() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()
		if c.conn != nil {
			c.conn.Close()
		}
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			log.Printf("[Network] Conexão perdida: %v", err)
			break
		}

		var env vvnet.Envelope
		if err := env.Unmarshal(message); err != nil {
			log.Printf("[Network] Erro ao desempacotar envelope: %v", err)
			continue
		}

		c.handleMessage(&env)
	}
}

func (c *NetworkClient) handleMessage(env *vvnet.Envelope) {
	switch env.Type {
	case vvnet.MsgWorldStatus:
		var status vvnet.WorldStatus
		if err := status.Unmarshal(env.Payload); err == nil {
			if c.OnWorldStatus != nil {
				c.OnWorldStatus(&status)
			}
		}

	case vvnet.MsgMaterialList:
		var list vvnet.MaterialList
		if err := list.Unmarshal(env.Payload); err == nil {
			log.Printf("[Network] Recebidos %d materiais do servidor", len(list.Materials))
			for _, def := range list.Materials {
				c.store.Materials.Put(voxel.Material{
					Type:        def.Type,
					Name:        def.Name,
					Color:       [4]uint8{uint8(def.R), uint8(def.G), uint8(def.B), uint8(def.A)},
					Transparent: def.Transparent,
				})
			}
			if c.OnMaterials != nil {
				c.OnMaterials(&list)
			}
		}

	case vvnet.MsgChunkData:
		var msg vvnet.ChunkData
		if err := msg.Unmarshal(env.Payload); err == nil {
			c.processChunk(&msg)
		}

	case vvnet.MsgChunkEmpty:
		var msg vvnet.ChunkEmpty
		if err := msg.Unmarshal(env.Payload); err == nil {
			origin := util.GridCoord{X: msg.X, Y: msg.Y, Z: msg.Z}
			c.store.MarkAsEmpty(origin)
			if c.OnChunk != nil {
				c.OnChunk(origin)
			}
		}
	}
}

func (c *NetworkClient) processChunk(msg *vvnet.ChunkData) {
	origin := util.GridCoord{X: msg.X, Y: msg.Y, Z: msg.Z}

	chunk := voxel.NewChunk(origin)
	dec := gob.NewDecoder(bytes.NewReader(msg.Data))
	if err := dec.Decode(&chunk.Voxels); err != nil {
		log.Printf("[Network] Erro ao decodificar voxels do chunk %v: %v", origin, err)
		return
	}
	chunk.MTime = msg.MTime

	c.store.PutChunk(chunk)

	if c.OnChunk != nil {
		c.OnChunk(origin)
	}
}
