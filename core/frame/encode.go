package frame

import (
	"encoding/binary"
	"math"
)

// Encoder turns records into their wire form.
type Encoder struct {
	opts Options
}

// NewEncoder returns an Encoder configured by opts.
func NewEncoder(opts ...Option) *Encoder {
	return &Encoder{opts: newOptions(opts...)}
}

var defaultEncoder = NewEncoder()

// Encode encodes records with the default options.
func Encode(records []Record) []byte {
	return defaultEncoder.Encode(records)
}

// Encode returns the concatenated frames of records. Nil records are skipped.
func (e *Encoder) Encode(records []Record) []byte {
	size := 0
	for _, r := range records {
		if r == nil {
			continue
		}
		n, _ := r.Tag().PayloadSize()
		size += tagSize + n
	}
	buf := make([]byte, 0, size)
	for _, r := range records {
		buf = e.AppendRecord(buf, r)
	}
	return buf
}

// AppendRecord appends the frame of r to dst and returns the extended buffer.
func (e *Encoder) AppendRecord(dst []byte, r Record) []byte {
	switch rec := r.(type) {
	case IntegerPairRecord:
		dst = append(dst, byte(TagIntegerPair))
		dst = binary.BigEndian.AppendUint32(dst, uint32(rec.A))
		dst = binary.BigEndian.AppendUint32(dst, uint32(rec.B))
	case Vector3Record:
		order := e.opts.VectorByteOrder
		dst = append(dst, byte(TagVector3))
		dst = appendUint32(dst, order, math.Float32bits(rec.X))
		dst = appendUint32(dst, order, math.Float32bits(rec.Y))
		dst = appendUint32(dst, order, math.Float32bits(rec.Z))
	}
	return dst
}

func appendUint32(dst []byte, order binary.ByteOrder, v uint32) []byte {
	var b [4]byte
	order.PutUint32(b[:], v)
	return append(dst, b[:]...)
}
