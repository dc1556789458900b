// Package report defines the result the difficulty pipeline produces and
// the wire format it travels in once it leaves internal/difficulty —
// decoupling the pure numeric core from the CLI, logging and broadcast
// layers that consume it.
package report

import "math"

// Result is one chart's computed star rating plus the inputs that
// produced it, broadcast to subscribers and appended to the result log.
type Result struct {
	Path      string
	K         int
	OD        float64
	NoteCount int
	SR        float64
	Tier      string
	Time      int64 // unix millis the calculation completed at
}

// AppendMsgPack appends the MsgPack representation of the Result to the
// provided buffer. Format: FixArray(7) [path, k, od, noteCount, sr, tier, time].
func (r *Result) AppendMsgPack(b []byte) []byte {
	b = append(b, 0x97) // FixArray(7)
	b = appendStr(b, r.Path)
	b = appendInt64(b, int64(r.K))
	b = appendFloat64(b, r.OD)
	b = appendInt64(b, int64(r.NoteCount))
	b = appendFloat64(b, r.SR)
	b = appendStr(b, r.Tier)
	b = appendInt64(b, r.Time)
	return b
}

func appendFloat64(b []byte, v float64) []byte {
	b = append(b, 0xcb)
	bits := math.Float64bits(v)
	return append(b, byte(bits>>56), byte(bits>>48), byte(bits>>40), byte(bits>>32),
		byte(bits>>24), byte(bits>>16), byte(bits>>8), byte(bits))
}

func appendInt64(b []byte, v int64) []byte {
	if v >= 0 && v <= 127 {
		return append(b, byte(v))
	}
	if v < 0 && v >= -32 {
		return append(b, byte(v))
	}
	b = append(b, 0xd3)
	return append(b, byte(v>>56), byte(v>>48), byte(v>>40), byte(v>>32),
		byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}

func appendStr(b []byte, s string) []byte {
	n := len(s)
	switch {
	case n <= 31:
		b = append(b, 0xa0|byte(n))
	case n <= 0xff:
		b = append(b, 0xd9, byte(n))
	default:
		b = append(b, 0xda, byte(n>>8), byte(n))
	}
	return append(b, s...)
}
