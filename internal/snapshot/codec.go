package snapshot

import (
	"encoding/json"
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Codec encodes snapshots. Decode merges the document onto into, leaving
// fields the document does not carry untouched.
type Codec interface {
	Name() string
	Encode(s *Snapshot) ([]byte, error)
	Decode(data []byte, into *Snapshot) error
}

// NewCodec returns the codec registered under name
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "proto":
		return ProtoCodec{}, nil
	}
	return nil, fmt.Errorf("unknown snapshot codec %q", name)
}

// JSONCodec writes indented JSON
type JSONCodec struct{}

func (JSONCodec) Name() string { return "json" }

func (JSONCodec) Encode(s *Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func (JSONCodec) Decode(data []byte, into *Snapshot) error {
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return nil
}

// ProtoCodec writes the snapshot as a protobuf Struct in binary wire format
type ProtoCodec struct{}

func (ProtoCodec) Name() string { return "proto" }

func (ProtoCodec) Encode(s *Snapshot) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(st)
}

func (ProtoCodec) Decode(data []byte, into *Snapshot) error {
	st := &structpb.Struct{}
	if err := proto.Unmarshal(data, st); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	raw, err := json.Marshal(st.AsMap())
	if err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return JSONCodec{}.Decode(raw, into)
}
