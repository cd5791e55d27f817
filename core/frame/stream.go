package frame

import (
	"bufio"
	"errors"
	"io"
)

// StreamReader decodes records one at a time from an io.Reader, buffering
// until a whole frame is available.
type StreamReader struct {
	r      *bufio.Reader
	dec    *Decoder
	offset int
	err    error
	buf    [vector3PayloadSz]byte
}

var _ Reader = (*StreamReader)(nil)

// NewReader returns a StreamReader reading frames from r.
func NewReader(r io.Reader, opts ...Option) *StreamReader {
	return &StreamReader{
		r:   bufio.NewReader(r),
		dec: NewDecoder(opts...),
	}
}

// Offset returns the stream offset of the next frame.
func (s *StreamReader) Offset() int { return s.offset }

// ReadRecord reads the next record.
// It returns io.EOF when the stream ends on a frame boundary. A frame cut
// short by the end of the stream fails with a *DecodeError matching
// ErrTruncatedPayload. Once an error other than io.EOF is returned, every
// later call returns the same error.
func (s *StreamReader) ReadRecord() (Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	rec, err := s.readRecord()
	if err != nil && err != io.EOF {
		s.err = err
	}
	return rec, err
}

func (s *StreamReader) readRecord() (Record, error) {
	b, err := s.r.ReadByte()
	if err != nil {
		return nil, err
	}
	tag := Tag(b)
	size, ok := tag.PayloadSize()
	if !ok {
		return nil, errUnknownTag(tag, s.offset)
	}
	p := s.buf[:size]
	n, err := io.ReadFull(s.r, p)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, errTruncatedPayload(tag, s.offset, size, n)
		}
		return nil, err
	}
	s.offset += tagSize + size
	return s.dec.decodePayload(tag, p), nil
}

// StreamWriter encodes records to an io.Writer.
type StreamWriter struct {
	w   io.Writer
	enc *Encoder
	buf []byte
}

var _ Writer = (*StreamWriter)(nil)

// NewWriter returns a StreamWriter writing frames to w.
func NewWriter(w io.Writer, opts ...Option) *StreamWriter {
	return &StreamWriter{
		w:   w,
		enc: NewEncoder(opts...),
		buf: make([]byte, 0, tagSize+vector3PayloadSz),
	}
}

// WriteRecord writes the frame of r. Nil records write nothing.
func (s *StreamWriter) WriteRecord(r Record) error {
	s.buf = s.enc.AppendRecord(s.buf[:0], r)
	if len(s.buf) == 0 {
		return nil
	}
	_, err := s.w.Write(s.buf)
	return err
}
