package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/okian/gamemash/internal/errs"
)

// Codec names.
const (
	CodecJSON = "json"
	CodecCBOR = "cbor"
)

// Codec turns a store snapshot into bytes and back.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// JSONCodec encodes snapshots as JSON. Unknown fields are rejected on decode.
type JSONCodec struct{}

// Name implements Codec.
func (JSONCodec) Name() string { return CodecJSON }

// Marshal implements Codec.
func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal implements Codec.
func (JSONCodec) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after snapshot")
	}
	return nil
}

// CBORCodec encodes snapshots as deterministic CBOR.
type CBORCodec struct {
	em cbor.EncMode
	dm cbor.DecMode
}

// NewCBORCodec builds a CBOR codec with core deterministic encoding and a
// decoder that rejects duplicate map keys.
func NewCBORCodec() (*CBORCodec, error) {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}
	dm, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR decoder: %w", err)
	}
	return &CBORCodec{em: em, dm: dm}, nil
}

// Name implements Codec.
func (*CBORCodec) Name() string { return CodecCBOR }

// Marshal implements Codec.
func (c *CBORCodec) Marshal(v any) ([]byte, error) { return c.em.Marshal(v) }

// Unmarshal implements Codec.
func (c *CBORCodec) Unmarshal(data []byte, v any) error { return c.dm.Unmarshal(data, v) }

// NewCodec returns the codec registered under name ("" means JSON).
func NewCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CodecJSON:
		return JSONCodec{}, nil
	case CodecCBOR:
		return NewCBORCodec()
	}
	return nil, errs.Invalid("repository.new_codec", "unknown codec "+name)
}
