// Package frame defines the tagged telemetry records and their binary framing.
//
// A stream is a plain concatenation of frames, each one tag byte followed by a
// fixed-size payload. There is no header, length prefix or checksum, so the
// tag alone decides how many payload bytes follow.
//
//	tag 0x03  int32be a, int32be b       (IntegerPairRecord)
//	tag 0x01  float32 x, float32 y, float32 z (Vector3Record)
package frame

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Tag identifies the record kind carried by a frame.
type Tag uint8

// Kinds of records transferable in a telemetry stream.
const (
	// TagVector3 is the tag of Vector3Record.
	TagVector3 Tag = 0x01
	// TagIntegerPair is the tag of IntegerPairRecord.
	TagIntegerPair Tag = 0x03
)

const (
	tagSize              = 1
	integerPairPayloadSz = 8
	vector3PayloadSz     = 12
)

func (t Tag) String() string {
	switch t {
	case TagVector3:
		return "Vector3"
	case TagIntegerPair:
		return "IntegerPair"
	default:
		return fmt.Sprintf("Unknown(0x%02X)", uint8(t))
	}
}

// PayloadSize returns the number of bytes following a tag of this kind.
// The second result is false for unknown tags.
func (t Tag) PayloadSize() (int, bool) {
	switch t {
	case TagVector3:
		return vector3PayloadSz, true
	case TagIntegerPair:
		return integerPairPayloadSz, true
	default:
		return 0, false
	}
}

// Record is one decoded telemetry frame.
// It is implemented by IntegerPairRecord and Vector3Record only.
type Record interface {
	// Tag gets the tag of the Record.
	Tag() Tag

	isRecord()
}

// IntegerPairRecord carries two signed 32-bit integers.
type IntegerPairRecord struct {
	A int32
	B int32
}

// Tag returns TagIntegerPair.
func (IntegerPairRecord) Tag() Tag { return TagIntegerPair }

func (IntegerPairRecord) isRecord() {}

func (r IntegerPairRecord) String() string {
	return fmt.Sprintf("IntegerPair(a=%d, b=%d)", r.A, r.B)
}

// Vector3Record carries a three-axis IEEE-754 single precision vector.
type Vector3Record struct {
	X float32
	Y float32
	Z float32
}

// Tag returns TagVector3.
func (Vector3Record) Tag() Tag { return TagVector3 }

func (Vector3Record) isRecord() {}

func (r Vector3Record) String() string {
	return fmt.Sprintf("Vector3(x=%g, y=%g, z=%g)", r.X, r.Y, r.Z)
}

// Option configures a Decoder, Encoder, Reader or Writer.
type Option func(*Options)

// Options holds the byte-order choices of the codec.
type Options struct {
	// VectorByteOrder is the per-field byte order of Vector3 payloads.
	VectorByteOrder binary.ByteOrder
}

// WithVectorByteOrder sets the byte order of Vector3 payload fields.
// The default is little-endian.
func WithVectorByteOrder(order binary.ByteOrder) Option {
	return func(o *Options) {
		if order != nil {
			o.VectorByteOrder = order
		}
	}
}

func newOptions(opts ...Option) Options {
	o := Options{VectorByteOrder: binary.LittleEndian}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Reader reads records from an underlying stream.
type Reader interface {
	// ReadRecord reads the next record. It returns io.EOF once the stream ends
	// exactly on a frame boundary.
	ReadRecord() (Record, error)
}

// Writer writes records to an underlying stream.
type Writer interface {
	WriteRecord(r Record) error
}

// ReadWriter groups the ReadRecord and WriteRecord methods.
type ReadWriter interface {
	Reader
	Writer
}

// ReadAll reads records from r until io.EOF.
func ReadAll(r Reader) ([]Record, error) {
	var records []Record
	for {
		rec, err := r.ReadRecord()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
}
