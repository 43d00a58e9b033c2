package kv

import (
	"encoding/json"

	"github.com/rs/zerolog"
)

// Codec converts records to and from the JSON wire format used for every
// stored value.
type Codec struct {
	log zerolog.Logger
}

func NewCodec(log zerolog.Logger) Codec {
	return Codec{log: log}
}

// Encode serializes v. It never fails for well-formed in-memory values;
// a marshal error is logged and yields an empty string.
func (c Codec) Encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		c.log.Error().Err(err).Msg("encode failed")
		return ""
	}
	return string(b)
}

// Decode parses data into v. Malformed input is logged and reported as
// false; callers must treat false as a cache miss, not a hard failure.
func (c Codec) Decode(data string, v any) bool {
	if data == "" {
		return false
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		c.log.Warn().Err(err).Msg("discarding malformed stored value")
		return false
	}
	return true
}
