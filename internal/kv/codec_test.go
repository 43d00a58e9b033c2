package kv

import (
	"testing"

	"github.com/rs/zerolog"
)

func newTestCodec() Codec {
	return NewCodec(zerolog.Nop())
}

func TestCodecRoundTrip(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	type record struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	encoded := c.Encode(record{Name: "alice", Count: 3})
	if encoded == "" {
		t.Fatal("expected non-empty encoding")
	}

	var out record
	if !c.Decode(encoded, &out) {
		t.Fatal("expected decode to succeed")
	}
	if out.Name != "alice" || out.Count != 3 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestCodecDecodeMalformed(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	var out map[string]any
	if c.Decode("{not json", &out) {
		t.Fatal("expected malformed input to decode as miss")
	}
}

func TestCodecDecodeEmpty(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	var out []string
	if c.Decode("", &out) {
		t.Fatal("expected empty input to decode as miss")
	}
}

func TestCodecDecodeWrongShape(t *testing.T) {
	t.Parallel()

	c := newTestCodec()
	var out []string
	if c.Decode(`{"users": 1}`, &out) {
		t.Fatal("expected shape mismatch to decode as miss")
	}
}
