package bitio

import (
	"reflect"
	"testing"
)

func TestBytesToBits(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected []bool
	}{
		{
			name:     "empty",
			input:    []byte{},
			expected: nil,
		},
		{
			name:     "single byte 0x80",
			input:    []byte{0x80},
			expected: []bool{true, false, false, false, false, false, false, false},
		},
		{
			name:     "two bytes",
			input:    []byte{0x80, 0x01},
			expected: []bool{true, false, false, false, false, false, false, false, false, false, false, false, false, false, false, true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BytesToBits(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestBitsToBytes(t *testing.T) {
	tests := []struct {
		name     string
		input    []bool
		expected []byte
	}{
		{
			name:     "empty",
			input:    []bool{},
			expected: nil,
		},
		{
			name:     "8 bits MSB set",
			input:    []bool{true, false, false, false, false, false, false, false},
			expected: []byte{0x80},
		},
		{
			name:     "7 bits (padded)",
			input:    []bool{true, false, false, false, false, false, true},
			expected: []byte{0x82},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := BitsToBytes(tt.input)
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestWriterReader(t *testing.T) {
	w := NewWriter(64)
	w.WriteBits(0x5, 3)
	w.WriteBool(true)
	w.WriteBits(0xDEADBEEF, 32)
	w.WriteBytes([]byte("ok"))

	if w.Len() != 3+1+32+16 {
		t.Fatalf("expected %d bits, got %d", 3+1+32+16, w.Len())
	}

	r := NewReader(w.Bits())
	if v, err := r.ReadBits(3); err != nil || v != 0x5 {
		t.Errorf("ReadBits(3): got %x, %v", v, err)
	}
	if b, err := r.ReadBool(); err != nil || !b {
		t.Errorf("ReadBool: got %v, %v", b, err)
	}
	if v, err := r.ReadBits(32); err != nil || v != 0xDEADBEEF {
		t.Errorf("ReadBits(32): got %x, %v", v, err)
	}
	if p, err := r.ReadBytes(2); err != nil || string(p) != "ok" {
		t.Errorf("ReadBytes(2): got %q, %v", p, err)
	}
	if r.Remaining() != 0 {
		t.Errorf("expected no bits left, got %d", r.Remaining())
	}
}

func TestReaderShortRead(t *testing.T) {
	r := NewReader([]bool{true, false})

	if _, err := r.ReadBits(3); err != ErrShortRead {
		t.Errorf("expected ErrShortRead, got %v", err)
	}
	if _, err := r.ReadBytes(1); err != ErrShortRead {
		t.Errorf("expected ErrShortRead, got %v", err)
	}
	if p, err := r.ReadBytes(0); err != nil || len(p) != 0 {
		t.Errorf("ReadBytes(0): got %v, %v", p, err)
	}
}

func TestRoundTrip(t *testing.T) {
	original := []byte{0x12, 0x34, 0x56, 0x78, 0x9A, 0xBC, 0xDE, 0xF0}
	result := BitsToBytes(BytesToBits(original))

	if !reflect.DeepEqual(original, result) {
		t.Errorf("round trip failed: expected %v, got %v", original, result)
	}
}
