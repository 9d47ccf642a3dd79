// Package vvnet define o protocolo de rede do VoxelVision.
// As mensagens são codificadas à mão no wire format do protobuf usando as
// primitivas de google.golang.org/protobuf/encoding/protowire, sem código
// gerado por protoc.
package vvnet

import (
	"errors"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Encoder acumula bytes no formato protobuf.
type Encoder struct {
	buf []byte
}

// NewEncoder cria um encoder vazio.
func NewEncoder() *Encoder {
	return &Encoder{buf: make([]byte, 0, 256)}
}

// Bytes retorna o buffer serializado.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Int32 codifica um campo int32 com zigzag (suporta coordenadas negativas).
// Zero é valor default e não é serializado, como no proto3.
func (e *Encoder) Int32(field protowire.Number, v int32) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, field, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, protowire.EncodeZigZag(int64(v)))
}

// Int64 codifica um campo int64 com zigzag.
func (e *Encoder) Int64(field protowire.Number, v int64) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, field, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, protowire.EncodeZigZag(v))
}

// Uint32 codifica um campo varint sem sinal (enums, cores).
func (e *Encoder) Uint32(field protowire.Number, v uint32) {
	if v == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, field, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, uint64(v))
}

// Bool codifica um campo booleano.
func (e *Encoder) Bool(field protowire.Number, v bool) {
	if !v {
		return
	}
	e.buf = protowire.AppendTag(e.buf, field, protowire.VarintType)
	e.buf = protowire.AppendVarint(e.buf, 1)
}

// String codifica um campo string.
func (e *Encoder) String(field protowire.Number, v string) {
	if v == "" {
		return
	}
	e.buf = protowire.AppendTag(e.buf, field, protowire.BytesType)
	e.buf = protowire.AppendString(e.buf, v)
}

// RawBytes codifica um campo de bytes brutos (payloads GOB, submensagens).
func (e *Encoder) RawBytes(field protowire.Number, v []byte) {
	if len(v) == 0 {
		return
	}
	e.buf = protowire.AppendTag(e.buf, field, protowire.BytesType)
	e.buf = protowire.AppendBytes(e.buf, v)
}

// Decoder percorre campos de uma mensagem no wire format.
type Decoder struct {
	buf []byte
}

// NewDecoder cria um decoder sobre os bytes dados.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{buf: data}
}

// Done informa se todos os bytes foram consumidos.
func (d *Decoder) Done() bool {
	return len(d.buf) == 0
}

// ReadTag lê o próximo tag (número do campo + wire type).
func (d *Decoder) ReadTag() (protowire.Number, protowire.Type, error) {
	num, typ, n := protowire.ConsumeTag(d.buf)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	d.buf = d.buf[n:]
	return num, typ, nil
}

// Skip descarta o valor do campo atual de acordo com o wire type.
func (d *Decoder) Skip(num protowire.Number, typ protowire.Type) error {
	n := protowire.ConsumeFieldValue(num, typ, d.buf)
	if n < 0 {
		return protowire.ParseError(n)
	}
	d.buf = d.buf[n:]
	return nil
}

// Int32 lê um varint zigzag como int32.
func (d *Decoder) Int32() (int32, error) {
	v, err := d.varint()
	if err != nil {
		return 0, err
	}
	return int32(protowire.DecodeZigZag(v)), nil
}

// Int64 lê um varint zigzag como int64.
func (d *Decoder) Int64() (int64, error) {
	v, err := d.varint()
	if err != nil {
		return 0, err
	}
	return protowire.DecodeZigZag(v), nil
}

// Uint32 lê um varint sem sinal.
func (d *Decoder) Uint32() (uint32, error) {
	v, err := d.varint()
	if err != nil {
		return 0, err
	}
	if v > 0xFFFFFFFF {
		return 0, errors.New("varint excede uint32")
	}
	return uint32(v), nil
}

// Bool lê um varint como booleano.
func (d *Decoder) Bool() (bool, error) {
	v, err := d.varint()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

// String lê um campo length-delimited como string.
func (d *Decoder) String() (string, error) {
	v, n := protowire.ConsumeString(d.buf)
	if n < 0 {
		return "", protowire.ParseError(n)
	}
	d.buf = d.buf[n:]
	return v, nil
}

// Bytes lê um campo length-delimited como cópia dos bytes.
func (d *Decoder) Bytes() ([]byte, error) {
	v, n := protowire.ConsumeBytes(d.buf)
	if n < 0 {
		return nil, protowire.ParseError(n)
	}
	d.buf = d.buf[n:]
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (d *Decoder) varint() (uint64, error) {
	v, n := protowire.ConsumeVarint(d.buf)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	d.buf = d.buf[n:]
	return v, nil
}

// skipUnknown é o tratamento padrão de campos desconhecidos nas mensagens.
func skipUnknown(d *Decoder, num protowire.Number, typ protowire.Type) error {
	if err := d.Skip(num, typ); err != nil {
		return fmt.Errorf("campo desconhecido %d: %w", num, err)
	}
	return nil
}
