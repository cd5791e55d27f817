package packet

import (
	"cmp"
	"encoding/binary"
	"math"
	"strconv"

	"github.com/yomorun/flightdata/pkg/config"
)

// Value is one recorded scalar together with its kind.
// The raw bits are kept as read so that no precision is lost.
type Value struct {
	kind config.Kind
	bits uint64
}

// Int8 returns a Value of kind int_8.
func Int8(v int8) Value { return Value{kind: config.KindInt8, bits: uint64(v)} }

// Int16 returns a Value of kind int_16.
func Int16(v int16) Value { return Value{kind: config.KindInt16, bits: uint64(v)} }

// Int32 returns a Value of kind int_32.
func Int32(v int32) Value { return Value{kind: config.KindInt32, bits: uint64(v)} }

// Int64 returns a Value of kind int_64.
func Int64(v int64) Value { return Value{kind: config.KindInt64, bits: uint64(v)} }

// Uint8 returns a Value of kind uint_8.
func Uint8(v uint8) Value { return Value{kind: config.KindUint8, bits: uint64(v)} }

// Uint16 returns a Value of kind uint_16.
func Uint16(v uint16) Value { return Value{kind: config.KindUint16, bits: uint64(v)} }

// Uint32 returns a Value of kind uint_32.
func Uint32(v uint32) Value { return Value{kind: config.KindUint32, bits: uint64(v)} }

// Uint64 returns a Value of kind uint_64.
func Uint64(v uint64) Value { return Value{kind: config.KindUint64, bits: v} }

// Float32 returns a Value of kind float_32.
func Float32(v float32) Value {
	return Value{kind: config.KindFloat32, bits: uint64(math.Float32bits(v))}
}

// Float64 returns a Value of kind float_64.
func Float64(v float64) Value { return Value{kind: config.KindFloat64, bits: math.Float64bits(v)} }

// ReadValue decodes a value of kind from the head of b, which must hold at
// least kind.Size() bytes.
func ReadValue(kind config.Kind, order binary.ByteOrder, b []byte) Value {
	switch kind.Size() {
	case 1:
		// single bytes have no byte order
		if kind == config.KindInt8 {
			return Int8(int8(b[0]))
		}
		return Uint8(b[0])
	case 2:
		u := order.Uint16(b)
		if kind == config.KindInt16 {
			return Int16(int16(u))
		}
		return Uint16(u)
	case 4:
		u := order.Uint32(b)
		switch kind {
		case config.KindInt32:
			return Int32(int32(u))
		case config.KindFloat32:
			return Float32(math.Float32frombits(u))
		}
		return Uint32(u)
	case 8:
		u := order.Uint64(b)
		switch kind {
		case config.KindInt64:
			return Int64(int64(u))
		case config.KindFloat64:
			return Float64(math.Float64frombits(u))
		}
		return Uint64(u)
	}
	return Value{kind: kind}
}

// Kind returns the kind of v.
func (v Value) Kind() config.Kind { return v.kind }

// Int returns v as a signed integer. Floats are truncated.
func (v Value) Int() int64 {
	switch v.kind {
	case config.KindInt8:
		return int64(int8(v.bits))
	case config.KindInt16:
		return int64(int16(v.bits))
	case config.KindInt32:
		return int64(int32(v.bits))
	case config.KindFloat32, config.KindFloat64:
		return int64(v.Float())
	}
	return int64(v.bits)
}

// Uint returns v as an unsigned integer.
func (v Value) Uint() uint64 {
	if v.kind.IsSigned() || v.kind.IsFloat() {
		return uint64(v.Int())
	}
	return v.bits
}

// Float returns v as a float64.
func (v Value) Float() float64 {
	switch v.kind {
	case config.KindFloat32:
		return float64(math.Float32frombits(uint32(v.bits)))
	case config.KindFloat64:
		return math.Float64frombits(v.bits)
	}
	if v.kind.IsSigned() {
		return float64(v.Int())
	}
	return float64(v.bits)
}

// Interface returns v as the Go type of its kind, e.g. int16 for int_16.
func (v Value) Interface() any {
	switch v.kind {
	case config.KindInt8:
		return int8(v.bits)
	case config.KindInt16:
		return int16(v.bits)
	case config.KindInt32:
		return int32(v.bits)
	case config.KindInt64:
		return int64(v.bits)
	case config.KindUint8:
		return uint8(v.bits)
	case config.KindUint16:
		return uint16(v.bits)
	case config.KindUint32:
		return uint32(v.bits)
	case config.KindUint64:
		return v.bits
	case config.KindFloat32:
		return math.Float32frombits(uint32(v.bits))
	case config.KindFloat64:
		return math.Float64frombits(v.bits)
	}
	return nil
}

// String formats integers in decimal and floats with 8 decimal places.
func (v Value) String() string {
	switch {
	case v.kind.IsFloat():
		return strconv.FormatFloat(v.Float(), 'f', 8, 64)
	case v.kind.IsSigned():
		return strconv.FormatInt(v.Int(), 10)
	}
	return strconv.FormatUint(v.bits, 10)
}

// Compare returns -1, 0 or +1 ordering v against o by numeric value.
// NaN orders before every other float.
func (v Value) Compare(o Value) int {
	switch {
	case v.kind.IsFloat() || o.kind.IsFloat():
		return cmp.Compare(v.Float(), o.Float())
	case v.kind.IsSigned() && o.kind.IsSigned():
		return cmp.Compare(v.Int(), o.Int())
	case !v.kind.IsSigned() && !o.kind.IsSigned():
		return cmp.Compare(v.bits, o.bits)
	case v.kind.IsSigned():
		if v.Int() < 0 {
			return -1
		}
		return cmp.Compare(uint64(v.Int()), o.bits)
	default:
		if o.Int() < 0 {
			return 1
		}
		return cmp.Compare(v.bits, uint64(o.Int()))
	}
}

// AppendBytes appends the encoded form of v in order to dst.
func (v Value) AppendBytes(dst []byte, order binary.ByteOrder) []byte {
	switch v.kind.Size() {
	case 1:
		return append(dst, byte(v.bits))
	case 2:
		var b [2]byte
		order.PutUint16(b[:], uint16(v.bits))
		return append(dst, b[:]...)
	case 4:
		var b [4]byte
		order.PutUint32(b[:], uint32(v.bits))
		return append(dst, b[:]...)
	case 8:
		var b [8]byte
		order.PutUint64(b[:], v.bits)
		return append(dst, b[:]...)
	}
	return dst
}
