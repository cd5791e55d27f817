// Package packet reads and writes layout-driven sensor packets.
//
// A packet is one id byte naming a sensor of the rocket layout, followed by the
// values of that sensor in layout order, each in the sensor's byte order.
// Packets carry no length, so the layout alone decides where the next one
// starts.
package packet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yomorun/flightdata/core/yerr"
	"github.com/yomorun/flightdata/pkg/config"
)

// Packet is a single reading of a sensor.
type Packet struct {
	// ID is the id of the sensor that is read.
	ID uint8
	// Values are the values read from that sensor, in layout order.
	Values []Value
}

func (p Packet) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Packet(id=%d", p.ID)
	for _, v := range p.Values {
		b.WriteString(", ")
		b.WriteString(v.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Source yields packets until it returns io.EOF.
type Source interface {
	Next() (Packet, error)
}

// SliceSource is a Source over packets held in memory.
type SliceSource struct {
	packets []Packet
	next    int
}

// NewSliceSource returns a Source yielding packets in order.
func NewSliceSource(packets ...Packet) *SliceSource {
	return &SliceSource{packets: packets}
}

// Next implements Source.
func (s *SliceSource) Next() (Packet, error) {
	if s.next >= len(s.packets) {
		return Packet{}, io.EOF
	}
	p := s.packets[s.next]
	s.next++
	return p, nil
}

// Sentinels matched by *ParseError through errors.Is.
var (
	ErrInvalidID         = errors.New("packet: invalid packet id")
	ErrInvalidValueCount = errors.New("packet: invalid value count")
	ErrTruncatedPayload  = errors.New("packet: truncated payload")
)

// ParseError reports a packet that does not match the rocket layout.
type ParseError struct {
	// Code is one of yerr.ErrorCodeInvalidID, yerr.ErrorCodeInvalidValueCount
	// or yerr.ErrorCodeTruncatedPayload.
	Code yerr.ErrorCode
	// ID is the id byte of the packet.
	ID uint8
	// Offset is the stream position of the id byte, -1 if unknown.
	Offset int
	// Expected and Actual are the value counts for InvalidValueCount, and the
	// payload byte counts for TruncatedPayload.
	Expected int
	Actual   int
	// Err is the underlying read error, if any.
	Err error
}

func (e *ParseError) Error() string {
	switch e.Code {
	case yerr.ErrorCodeInvalidID:
		if e.Offset < 0 {
			return fmt.Sprintf("packet: invalid packet id: %d", e.ID)
		}
		return fmt.Sprintf("packet: invalid packet id: %d at offset %d", e.ID, e.Offset)
	case yerr.ErrorCodeInvalidValueCount:
		return fmt.Sprintf("packet: invalid value count for id %d: expected %d, got %d", e.ID, e.Expected, e.Actual)
	case yerr.ErrorCodeTruncatedPayload:
		return fmt.Sprintf("packet: truncated payload of id %d at offset %d: required %d bytes, available %d",
			e.ID, e.Offset, e.Expected, e.Actual)
	}
	return fmt.Sprintf("packet: %s: %v", e.Code, e.Err)
}

// ErrorCode implements yerr.Error.
func (e *ParseError) ErrorCode() yerr.ErrorCode { return e.Code }

func (e *ParseError) Unwrap() error { return e.Err }

// Is lets errors.Is match the package sentinels.
func (e *ParseError) Is(target error) bool {
	switch target {
	case ErrInvalidID:
		return e.Code == yerr.ErrorCodeInvalidID
	case ErrInvalidValueCount:
		return e.Code == yerr.ErrorCodeInvalidValueCount
	case ErrTruncatedPayload:
		return e.Code == yerr.ErrorCodeTruncatedPayload
	}
	return false
}

// InvalidIDError returns the error of a packet whose id names no sensor.
func InvalidIDError(id uint8, offset int) *ParseError {
	return &ParseError{Code: yerr.ErrorCodeInvalidID, ID: id, Offset: offset}
}

// InvalidValueCountError returns the error of a packet that carries a
// different number of values than its sensor.
func InvalidValueCountError(id uint8, expected, actual int) *ParseError {
	return &ParseError{
		Code:     yerr.ErrorCodeInvalidValueCount,
		ID:       id,
		Offset:   -1,
		Expected: expected,
		Actual:   actual,
	}
}

// Check verifies p against its sensor in layout and returns the sensor.
func Check(layout *config.Rocket, p Packet) (*config.Sensor, error) {
	sensor, ok := layout.SensorByID(p.ID)
	if !ok {
		return nil, InvalidIDError(p.ID, -1)
	}
	if len(p.Values) != len(sensor.Values) {
		return nil, InvalidValueCountError(p.ID, len(sensor.Values), len(p.Values))
	}
	return sensor, nil
}
