package store

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Codec serializes table snapshots for the backend.
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

// CodecByName returns the codec registered under name ("json" or "cbor").
func CodecByName(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "cbor":
		return NewCBORCodec()
	}
	return nil, fmt.Errorf("unknown codec %q: %w", name, ErrInvalid)
}

// JSONCodec is the human-readable format, compatible with snapshots written
// by the browser client.
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }
func (JSONCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }
func (JSONCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// CBORCodec encodes with Core Deterministic Encoding (sorted map keys,
// shortest integers) so equal snapshots produce equal bytes. Struct fields
// fall back to their json tags.
type CBORCodec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

func NewCBORCodec() (*CBORCodec, error) {
	encOptions := cbor.CoreDetEncOptions()
	encOptions.Time = cbor.TimeRFC3339Nano
	enc, err := encOptions.EncMode()
	if err != nil {
		return nil, fmt.Errorf("cbor encoder: %w", err)
	}
	dec, err := cbor.DecOptions{}.DecMode()
	if err != nil {
		return nil, fmt.Errorf("cbor decoder: %w", err)
	}
	return &CBORCodec{enc: enc, dec: dec}, nil
}

func (c *CBORCodec) Name() string { return "cbor" }
func (c *CBORCodec) Marshal(v any) ([]byte, error) { return c.enc.Marshal(v) }
func (c *CBORCodec) Unmarshal(data []byte, v any) error { return c.dec.Unmarshal(data, v) }

// rawRecord holds one encoded record so records can be decoded, validated
// and quarantined individually. It passes through both codecs untouched.
type rawRecord []byte

func (r rawRecord) MarshalJSON() ([]byte, error) {
	if len(r) == 0 {
		return []byte("null"), nil
	}
	return r, nil
}

func (r *rawRecord) UnmarshalJSON(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}

func (r rawRecord) MarshalCBOR() ([]byte, error) {
	if len(r) == 0 {
		return []byte{0xf6}, nil
	}
	return r, nil
}

func (r *rawRecord) UnmarshalCBOR(data []byte) error {
	*r = append((*r)[:0], data...)
	return nil
}
