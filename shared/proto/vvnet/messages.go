package vvnet

// MessageType identifica o conteúdo de um Envelope.
type MessageType uint32

const (
	MsgUnknown       MessageType = 0
	MsgWorldStatus   MessageType = 1
	MsgMaterialList  MessageType = 2
	MsgChunkData     MessageType = 3
	MsgChunkEmpty    MessageType = 4
	MsgRequestRegion MessageType = 5
)

// Envelope embrulha qualquer mensagem do protocolo com seu tipo.
type Envelope struct {
	Type    MessageType
	Payload []byte
}

func (m *Envelope) Marshal() []byte {
	e := NewEncoder()
	e.Uint32(1, uint32(m.Type))
	e.RawBytes(2, m.Payload)
	return e.Bytes()
}

func (m *Envelope) Unmarshal(data []byte) error {
	d := NewDecoder(data)
	for !d.Done() {
		num, typ, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			v, err := d.Uint32()
			if err != nil {
				return err
			}
			m.Type = MessageType(v)
		case 2:
			v, err := d.Bytes()
			if err != nil {
				return err
			}
			m.Payload = v
		default:
			if err := skipUnknown(d, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// Pack serializa uma mensagem já embrulhada em um Envelope.
func Pack(t MessageType, payload []byte) []byte {
	env := Envelope{Type: t, Payload: payload}
	return env.Marshal()
}

// WorldStatus descreve o mundo servido (enviado no handshake).
type WorldStatus struct {
	WorldName  string
	Seed       int64
	ChunkCount int64
}

func (m *WorldStatus) Marshal() []byte {
	e := NewEncoder()
	e.String(1, m.WorldName)
	e.Int64(2, m.Seed)
	e.Int64(3, m.ChunkCount)
	return e.Bytes()
}

func (m *WorldStatus) Unmarshal(data []byte) error {
	d := NewDecoder(data)
	for !d.Done() {
		num, typ, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			v, err := d.String()
			if err != nil {
				return err
			}
			m.WorldName = v
		case 2:
			v, err := d.Int64()
			if err != nil {
				return err
			}
			m.Seed = v
		case 3:
			v, err := d.Int64()
			if err != nil {
				return err
			}
			m.ChunkCount = v
		default:
			if err := skipUnknown(d, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// MaterialDef descreve um material da paleta no protocolo.
type MaterialDef struct {
	Type        int32
	Name        string
	R, G, B, A  uint32
	Transparent bool
}

func (m *MaterialDef) marshal() []byte {
	e := NewEncoder()
	e.Int32(1, m.Type)
	e.String(2, m.Name)
	e.Uint32(3, m.R)
	e.Uint32(4, m.G)
	e.Uint32(5, m.B)
	e.Uint32(6, m.A)
	e.Bool(7, m.Transparent)
	return e.Bytes()
}

func (m *MaterialDef) unmarshal(data []byte) error {
	d := NewDecoder(data)
	for !d.Done() {
		num, typ, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			v, err := d.Int32()
			if err != nil {
				return err
			}
			m.Type = v
		case 2:
			v, err := d.String()
			if err != nil {
				return err
			}
			m.Name = v
		case 3:
			v, err := d.Uint32()
			if err != nil {
				return err
			}
			m.R = v
		case 4:
			v, err := d.Uint32()
			if err != nil {
				return err
			}
			m.G = v
		case 5:
			v, err := d.Uint32()
			if err != nil {
				return err
			}
			m.B = v
		case 6:
			v, err := d.Uint32()
			if err != nil {
				return err
			}
			m.A = v
		case 7:
			v, err := d.Bool()
			if err != nil {
				return err
			}
			m.Transparent = v
		default:
			if err := skipUnknown(d, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// MaterialList envia a paleta completa de materiais ao cliente.
type MaterialList struct {
	Materials []MaterialDef
}

func (m *MaterialList) Marshal() []byte {
	e := NewEncoder()
	for i := range m.Materials {
		e.RawBytes(1, m.Materials[i].marshal())
	}
	return e.Bytes()
}

func (m *MaterialList) Unmarshal(data []byte) error {
	d := NewDecoder(data)
	for !d.Done() {
		num, typ, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			sub, err := d.Bytes()
			if err != nil {
				return err
			}
			var def MaterialDef
			if err := def.unmarshal(sub); err != nil {
				return err
			}
			m.Materials = append(m.Materials, def)
		default:
			if err := skipUnknown(d, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// ChunkData transporta um chunk completo (voxels em GOB) com sua versão.
type ChunkData struct {
	X, Y, Z int32
	MTime   int64
	Data    []byte
}

func (m *ChunkData) Marshal() []byte {
	e := NewEncoder()
	e.Int32(1, m.X)
	e.Int32(2, m.Y)
	e.Int32(3, m.Z)
	e.Int64(4, m.MTime)
	e.RawBytes(5, m.Data)
	return e.Bytes()
}

func (m *ChunkData) Unmarshal(data []byte) error {
	d := NewDecoder(data)
	for !d.Done() {
		num, typ, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			v, err := d.Int32()
			if err != nil {
				return err
			}
			m.X = v
		case 2:
			v, err := d.Int32()
			if err != nil {
				return err
			}
			m.Y = v
		case 3:
			v, err := d.Int32()
			if err != nil {
				return err
			}
			m.Z = v
		case 4:
			v, err := d.Int64()
			if err != nil {
				return err
			}
			m.MTime = v
		case 5:
			v, err := d.Bytes()
			if err != nil {
				return err
			}
			m.Data = v
		default:
			if err := skipUnknown(d, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// ChunkEmpty marca um chunk como conhecido e vazio (só ar).
type ChunkEmpty struct {
	X, Y, Z int32
}

func (m *ChunkEmpty) Marshal() []byte {
	e := NewEncoder()
	e.Int32(1, m.X)
	e.Int32(2, m.Y)
	e.Int32(3, m.Z)
	return e.Bytes()
}

func (m *ChunkEmpty) Unmarshal(data []byte) error {
	d := NewDecoder(data)
	for !d.Done() {
		num, typ, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			v, err := d.Int32()
			if err != nil {
				return err
			}
			m.X = v
		case 2:
			v, err := d.Int32()
			if err != nil {
				return err
			}
			m.Y = v
		case 3:
			v, err := d.Int32()
			if err != nil {
				return err
			}
			m.Z = v
		default:
			if err := skipUnknown(d, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}

// RequestRegion pede ao servidor os chunks ao redor de um centro.
type RequestRegion struct {
	CenterX, CenterY, CenterZ int32
	Radius                    int32
}

func (m *RequestRegion) Marshal() []byte {
	e := NewEncoder()
	e.Int32(1, m.CenterX)
	e.Int32(2, m.CenterY)
	e.Int32(3, m.CenterZ)
	e.Int32(4, m.Radius)
	return e.Bytes()
}

func (m *RequestRegion) Unmarshal(data []byte) error {
	d := NewDecoder(data)
	for !d.Done() {
		num, typ, err := d.ReadTag()
		if err != nil {
			return err
		}
		switch num {
		case 1:
			v, err := d.Int32()
			if err != nil {
				return err
			}
			m.CenterX = v
		case 2:
			v, err := d.Int32()
			if err != nil {
				return err
			}
			m.CenterY = v
		case 3:
			v, err := d.Int32()
			if err != nil {
				return err
			}
			m.CenterZ = v
		case 4:
			v, err := d.Int32()
			if err != nil {
				return err
			}
			m.Radius = v
		default:
			if err := skipUnknown(d, num, typ); err != nil {
				return err
			}
		}
	}
	return nil
}
