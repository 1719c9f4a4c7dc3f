package bitio

import "errors"

// ErrShortRead indicates a read past the end of the bit sequence
var ErrShortRead = errors.New("bitio: not enough bits")

// BytesToBits converts a byte slice to a boolean slice representing bits.
// Each byte is converted to 8 bits, MSB first.
func BytesToBits(data []byte) []bool {
	if len(data) == 0 {
		return nil
	}
	bits := make([]bool, len(data)*8)
	for i, b := range data {
		offset := i * 8
		for j := 0; j < 8; j++ {
			bits[offset+j] = (b>>(7-j))&1 == 1
		}
	}
	return bits
}

// BitsToBytes converts a boolean slice to a byte slice.
// Bits are packed MSB first, with any trailing bits padded with zeros.
func BitsToBytes(bits []bool) []byte {
	if len(bits) == 0 {
		return nil
	}
	out := make([]byte, (len(bits)+7)/8)
	for i, bit := range bits {
		if bit {
			out[i/8] |= 1 << (7 - i%8)
		}
	}
	return out
}

// Writer accumulates fixed-width fields MSB first.
type Writer struct {
	bits []bool
}

// NewWriter returns a Writer with room for sizeHint bits.
func NewWriter(sizeHint int) *Writer {
	return &Writer{bits: make([]bool, 0, sizeHint)}
}

// WriteBits appends the low n bits of v, most significant first.
func (w *Writer) WriteBits(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		w.bits = append(w.bits, (v>>uint(i))&1 == 1)
	}
}

// WriteBool appends a single bit.
func (w *Writer) WriteBool(b bool) {
	w.bits = append(w.bits, b)
}

// WriteBytes appends every byte of p, 8 bits each.
func (w *Writer) WriteBytes(p []byte) {
	for _, b := range p {
		w.WriteBits(uint64(b), 8)
	}
}

// Len returns the number of bits written.
func (w *Writer) Len() int { return len(w.bits) }

// Bits returns the accumulated bits. The slice is shared with the Writer.
func (w *Writer) Bits() []bool { return w.bits }

// Reader consumes fixed-width fields MSB first.
type Reader struct {
	bits []bool
	pos  int
}

func NewReader(bits []bool) *Reader {
	return &Reader{bits: bits}
}

// ReadBits reads n (at most 64) bits as an unsigned integer.
func (r *Reader) ReadBits(n int) (uint64, error) {
	if n > 64 || r.Remaining() < n {
		return 0, ErrShortRead
	}
	var v uint64
	for i := 0; i < n; i++ {
		v <<= 1
		if r.bits[r.pos] {
			v |= 1
		}
		r.pos++
	}
	return v, nil
}

// ReadBool reads a single bit.
func (r *Reader) ReadBool() (bool, error) {
	if r.Remaining() < 1 {
		return false, ErrShortRead
	}
	b := r.bits[r.pos]
	r.pos++
	return b, nil
}

// ReadBytes reads n whole bytes.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if r.Remaining() < n*8 {
		return nil, ErrShortRead
	}
	out := BitsToBytes(r.bits[r.pos : r.pos+n*8])
	r.pos += n * 8
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

// Remaining returns the number of unread bits.
func (r *Reader) Remaining() int { return len(r.bits) - r.pos }
