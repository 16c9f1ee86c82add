package msgpack

import "encoding/binary"

// sliceSource and iterSource are the two Source implementations described in
// §4.2 of the format spec: a slice cursor that advances in place and returns
// borrowed sub-slices, and an iterator cursor that consumes from a byte
// producer and returns owned copies. This mirrors creachadair/binpack's
// bufReader split (io.Reader+io.ByteReader over *bytes.Buffer / *bytes.Reader
// / *bufio.Reader) but specialized to the two shapes this format needs.
type sliceSource struct {
	data []byte
	pos  int
}

// NewSliceSource constructs the fast-path Source over an in-memory buffer.
// Values it returns from ReadN alias data and must not outlive it.
func NewSliceSource(data []byte) Source { return &sliceSource{data: data} }

func (s *sliceSource) ReadByte() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, ErrBufferTooShort
	}
	b := s.data[s.pos]
	s.pos++
	return b, nil
}

func (s *sliceSource) ReadN(n int) ([]byte, error) {
	if n < 0 || s.pos+n > len(s.data) {
		return nil, ErrBufferTooShort
	}
	out := s.data[s.pos : s.pos+n]
	s.pos += n
	return out, nil
}

func (s *sliceSource) Borrowed() bool { return true }

func (s *sliceSource) PeekByte() (byte, error) {
	if s.pos >= len(s.data) {
		return 0, ErrBufferTooShort
	}
	return s.data[s.pos], nil
}

// iterSource adapts a byte-producing function into a Source. It never
// requires the whole input to be resident, at the cost of copying every
// multi-byte read. A single byte of lookahead is buffered to support
// PeekByte, since the underlying producer itself cannot be rewound.
type iterSource struct {
	next   func() (byte, bool)
	peeked *byte
}

// NewIterSource constructs the lazy-source Source over a byte producer.
func NewIterSource(next func() (byte, bool)) Source { return &iterSource{next: next} }

func (s *iterSource) ReadByte() (byte, error) {
	if s.peeked != nil {
		b := *s.peeked
		s.peeked = nil
		return b, nil
	}
	b, ok := s.next()
	if !ok {
		return 0, ErrBufferTooShort
	}
	return b, nil
}

func (s *iterSource) ReadN(n int) ([]byte, error) {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		b, err := s.ReadByte()
		if err != nil {
			return nil, ErrBufferTooShort
		}
		out[i] = b
	}
	return out, nil
}

func (s *iterSource) Borrowed() bool { return false }

func (s *iterSource) PeekByte() (byte, error) {
	if s.peeked != nil {
		return *s.peeked, nil
	}
	b, ok := s.next()
	if !ok {
		return 0, ErrBufferTooShort
	}
	s.peeked = &b
	return b, nil
}

// readUint reads n big-endian bytes from src and returns them widened to
// uint64. n must be 1, 2, 4, or 8.
func readUint(src Source, n int) (uint64, error) {
	b, err := src.ReadN(n)
	if err != nil {
		return 0, err
	}
	switch n {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.BigEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.BigEndian.Uint32(b)), nil
	case 8:
		return binary.BigEndian.Uint64(b), nil
	}
	panic("msgpack: readUint: invalid width")
}

func putUint(sink Sink, n int, v uint64) {
	var buf [8]byte
	switch n {
	case 1:
		buf[0] = byte(v)
	case 2:
		binary.BigEndian.PutUint16(buf[:2], uint16(v))
	case 4:
		binary.BigEndian.PutUint32(buf[:4], uint32(v))
	case 8:
		binary.BigEndian.PutUint64(buf[:8], v)
	default:
		panic("msgpack: putUint: invalid width")
	}
	_, _ = sink.Write(buf[:n])
}
