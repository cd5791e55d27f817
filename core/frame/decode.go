package frame

import (
	"encoding/binary"
	"math"
)

// Decoder decodes a byte buffer into records.
// A Decoder holds no state between calls and may be shared by goroutines.
type Decoder struct {
	opts Options
}

// NewDecoder returns a Decoder configured by opts.
func NewDecoder(opts ...Option) *Decoder {
	return &Decoder{opts: newOptions(opts...)}
}

var defaultDecoder = NewDecoder()

// Decode decodes data with the default options. See (*Decoder).Decode.
func Decode(data []byte) ([]Record, int, error) {
	return defaultDecoder.Decode(data)
}

// DecodeRecord decodes the first frame of data with the default options.
// See (*Decoder).DecodeRecord.
func DecodeRecord(data []byte) (Record, int, error) {
	return defaultDecoder.DecodeRecord(data)
}

// Decode decodes every frame in data and returns the records in stream order
// together with the offset decoding stopped at, which is len(data) on success.
//
// Decoding halts at the first malformed frame. In that case no records are
// returned, the offset is that of the failing frame and the error is a
// *DecodeError. An empty buffer decodes to no records.
func (d *Decoder) Decode(data []byte) ([]Record, int, error) {
	var records []Record
	offset := 0
	for offset < len(data) {
		rec, n, err := d.decodeFrame(data, offset)
		if err != nil {
			return nil, offset, err
		}
		records = append(records, rec)
		offset += n
	}
	return records, offset, nil
}

// DecodeRecord decodes exactly one frame from the head of data and returns it
// with the number of bytes consumed. An empty buffer fails with
// ErrTruncatedTag.
func (d *Decoder) DecodeRecord(data []byte) (Record, int, error) {
	if len(data) == 0 {
		return nil, 0, errTruncatedTag(0)
	}
	return d.decodeFrame(data, 0)
}

// decodeFrame reads the tag at offset and dispatches on it:
// ReadingTag -> ReadingIntegerPayload | ReadingVectorPayload -> emitted,
// or Failed on an unknown tag or a short payload.
func (d *Decoder) decodeFrame(data []byte, offset int) (Record, int, error) {
	if offset >= len(data) {
		return nil, 0, errTruncatedTag(offset)
	}
	tag := Tag(data[offset])
	size, ok := tag.PayloadSize()
	if !ok {
		return nil, 0, errUnknownTag(tag, offset)
	}
	start := offset + tagSize
	if available := len(data) - start; available < size {
		return nil, 0, errTruncatedPayload(tag, offset, size, available)
	}
	return d.decodePayload(tag, data[start:start+size]), tagSize + size, nil
}

// decodePayload builds the record for a known tag from a payload of exactly
// tag.PayloadSize() bytes.
func (d *Decoder) decodePayload(tag Tag, p []byte) Record {
	switch tag {
	case TagIntegerPair:
		return IntegerPairRecord{
			A: int32(binary.BigEndian.Uint32(p[0:4])),
			B: int32(binary.BigEndian.Uint32(p[4:8])),
		}
	case TagVector3:
		order := d.opts.VectorByteOrder
		return Vector3Record{
			X: math.Float32frombits(order.Uint32(p[0:4])),
			Y: math.Float32frombits(order.Uint32(p[4:8])),
			Z: math.Float32frombits(order.Uint32(p[8:12])),
		}
	}
	// unreachable: callers only pass tags with a payload size
	panic("frame: decodePayload called with unknown tag " + tag.String())
}
