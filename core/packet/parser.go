package packet

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/yomorun/flightdata/core/yerr"
	"github.com/yomorun/flightdata/core/ylog"
	"github.com/yomorun/flightdata/pkg/config"
)

// Parser reads packets from a byte stream using a rocket layout.
type Parser struct {
	r      *bufio.Reader
	layout *config.Rocket
	logger *slog.Logger
	offset int
	err    error
	buf    []byte
}

var _ Source = (*Parser)(nil)

// NewParser returns a Parser reading packets of layout from r.
func NewParser(r io.Reader, layout *config.Rocket) *Parser {
	size := 0
	for i := range layout.Sensors {
		if n := layout.Sensors[i].PayloadSize(); n > size {
			size = n
		}
	}
	return &Parser{
		r:      bufio.NewReader(r),
		layout: layout,
		logger: ylog.Logger().With("component", "packet"),
		buf:    make([]byte, size),
	}
}

// WithLogger sets the logger the Parser reports every read to.
func (p *Parser) WithLogger(logger *slog.Logger) *Parser {
	p.logger = logger
	return p
}

// Offset returns the stream offset of the next packet.
func (p *Parser) Offset() int { return p.offset }

// Next reads the next packet. It returns io.EOF when the stream ends on a
// packet boundary. A packet whose id names no sensor fails with
// ErrInvalidID, one cut short by the end of the stream with
// ErrTruncatedPayload. After such a failure the stream position is lost and
// every later call returns the same error.
func (p *Parser) Next() (Packet, error) {
	if p.err != nil {
		return Packet{}, p.err
	}
	pkt, err := p.next()
	if err != nil && err != io.EOF {
		p.err = err
	}
	return pkt, err
}

func (p *Parser) next() (Packet, error) {
	id, err := p.r.ReadByte()
	if err != nil {
		return Packet{}, err
	}

	sensor, ok := p.layout.SensorByID(id)
	if !ok {
		return Packet{}, InvalidIDError(id, p.offset)
	}
	p.logger.Debug("reading sensor", "sensor", sensor.Name, "id", id, "offset", p.offset)

	size := sensor.PayloadSize()
	payload := p.buf[:size]
	if n, err := io.ReadFull(p.r, payload); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return Packet{}, &ParseError{
				Code:     yerr.ErrorCodeTruncatedPayload,
				ID:       id,
				Offset:   p.offset,
				Expected: size,
				Actual:   n,
				Err:      io.ErrUnexpectedEOF,
			}
		}
		return Packet{}, fmt.Errorf("packet: read sensor %s: %w", sensor.Name, err)
	}

	order := p.layout.ByteOrder(sensor)
	values := make([]Value, 0, len(sensor.Values))
	for _, vc := range sensor.Values {
		v := ReadValue(vc.DataType, order, payload)
		payload = payload[vc.DataType.Size():]
		p.logger.Debug("read value", "name", vc.Name, "value", v.String())
		values = append(values, v)
	}

	p.offset += 1 + size
	return Packet{ID: id, Values: values}, nil
}

// ReadAll reads packets from src until io.EOF.
func ReadAll(src Source) ([]Packet, error) {
	var packets []Packet
	for {
		pkt, err := src.Next()
		if err == io.EOF {
			return packets, nil
		}
		if err != nil {
			return packets, err
		}
		packets = append(packets, pkt)
	}
}

// Encoder writes packets of a rocket layout to a byte stream.
type Encoder struct {
	w      io.Writer
	layout *config.Rocket
	buf    []byte
}

// NewEncoder returns an Encoder writing packets of layout to w.
func NewEncoder(w io.Writer, layout *config.Rocket) *Encoder {
	return &Encoder{w: w, layout: layout}
}

// Encode writes p. The packet must match its sensor in the layout.
func (e *Encoder) Encode(p Packet) error {
	var err error
	e.buf, err = AppendPacket(e.buf[:0], e.layout, p)
	if err != nil {
		return err
	}
	_, err = e.w.Write(e.buf)
	return err
}

// AppendPacket appends the encoded form of p to dst.
func AppendPacket(dst []byte, layout *config.Rocket, p Packet) ([]byte, error) {
	sensor, err := Check(layout, p)
	if err != nil {
		return dst, err
	}
	start := len(dst)
	order := layout.ByteOrder(sensor)
	dst = append(dst, p.ID)
	for i, v := range p.Values {
		if want := sensor.Values[i].DataType; v.Kind() != want {
			return dst[:start], fmt.Errorf("packet: value %s of sensor %s is %s, want %s",
				sensor.Values[i].Name, sensor.Name, v.Kind(), want)
		}
		dst = v.AppendBytes(dst, order)
	}
	return dst, nil
}
