package header

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/faanross/simulacra_lsb/internal/bitio"
	"github.com/faanross/simulacra_lsb/internal/imgutil"
	"github.com/faanross/simulacra_lsb/internal/scrypto"
	"github.com/faanross/simulacra_lsb/internal/spec"
	"github.com/faanross/simulacra_lsb/internal/stegerr"
)

func TestHeaderSize(t *testing.T) {
	if spec.HEADER_BITS != 2168 {
		t.Fatalf("header layout changed: %d bits", spec.HEADER_BITS)
	}

	for _, name := range []string{"", "a.txt", strings.Repeat("n", spec.MAX_FILENAME_SIZE)} {
		bits, err := Encode(&Header{FileName: name, BitsPerChannel: 1})
		if err != nil {
			t.Fatalf("Encode failed: %v", err)
		}
		if len(bits) != spec.HEADER_BITS {
			t.Errorf("name %d bytes: expected %d bits, got %d", len(name), spec.HEADER_BITS, len(bits))
		}
	}
}

func TestEncodeDecode(t *testing.T) {
	tests := []struct {
		name string
		h    Header
	}{
		{
			name: "plain",
			h:    Header{PayloadLength: 2, FileName: "a.txt", BitsPerChannel: 1},
		},
		{
			name: "all flags",
			h: Header{
				PayloadLength:  300,
				FileName:       "résumé.pdf",
				BitsPerChannel: 8,
				Compressed:     true,
				Encrypted:      true,
				Algorithm:      scrypto.AES256,
			},
		},
		{
			name: "empty name",
			h:    Header{BitsPerChannel: 4, Encrypted: true, Algorithm: scrypto.DES},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bits, err := Encode(&tt.h)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			got, err := Decode(bits, 64*64*3)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if *got != tt.h {
				t.Errorf("expected %+v, got %+v", tt.h, *got)
			}
		})
	}
}

func TestEncodeRejects(t *testing.T) {
	bad := []Header{
		{BitsPerChannel: 0},
		{BitsPerChannel: 9},
		{BitsPerChannel: 1, FileName: strings.Repeat("x", spec.MAX_FILENAME_SIZE+1)},
		{BitsPerChannel: 1, Algorithm: scrypto.Algorithm(9)},
		{BitsPerChannel: 1, FileName: "caf\xe9.txt"},
	}

	for _, h := range bad {
		if _, err := Encode(&h); !errors.Is(err, stegerr.ErrInvalidConfig) {
			t.Errorf("%+v: expected ErrInvalidConfig, got %v", h, err)
		}
	}
}

func TestDecodeCorrupt(t *testing.T) {
	base := Header{PayloadLength: 10, FileName: "f", BitsPerChannel: 2}
	const slots = 64 * 64 * 3

	// offsets of fields inside the bit layout
	const (
		versionAt = spec.MAGIC_BITS
		lengthAt  = versionAt + spec.VERSION_BITS
		depthAt   = lengthAt + spec.LENGTH_BITS
		algAt     = depthAt + spec.DEPTH_BITS + 2
		nameAt    = algAt + spec.ALGORITHM_BITS + spec.NAME_LENGTH_BITS
	)

	tests := []struct {
		name   string
		mutate func(bits []bool)
	}{
		{name: "magic", mutate: func(b []bool) { b[0] = !b[0] }},
		{name: "version", mutate: func(b []bool) { b[versionAt] = true }},
		{name: "depth zero", mutate: func(b []bool) { clear(b[depthAt : depthAt+spec.DEPTH_BITS]) }},
		{name: "depth nine", mutate: func(b []bool) { b[depthAt+4] = true }},
		{name: "length huge", mutate: func(b []bool) { b[lengthAt] = true }},
		{name: "algorithm", mutate: func(b []bool) { b[algAt] = true }},
		{name: "padding", mutate: func(b []bool) { b[spec.HEADER_FIELD_BITS-1] = true }},
		{name: "utf8", mutate: func(b []bool) { b[nameAt] = true }}, // 'f' becomes 0xE6
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bits, err := Encode(&base)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			tt.mutate(bits)
			reseal(bits)
			if _, err := Decode(bits, slots); !errors.Is(err, stegerr.ErrCorruptHeader) {
				t.Errorf("expected ErrCorruptHeader, got %v", err)
			}
		})
	}
}

// reseal rewrites the checksum so a mutated field reaches its own check.
func reseal(bits []bool) {
	w := bitio.NewWriter(spec.CRC_BITS)
	w.WriteBits(uint64(checksum(bits)), spec.CRC_BITS)
	copy(bits[spec.HEADER_FIELD_BITS:], w.Bits())
}

func TestChecksumCatchesEveryBitFlip(t *testing.T) {
	h := Header{PayloadLength: 2, FileName: "a.txt", BitsPerChannel: 1}
	const slots = 64 * 64 * 3

	bits, err := Encode(&h)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := Decode(bits, slots); err != nil {
		t.Fatalf("untouched header should decode: %v", err)
	}

	for i := range bits {
		flipped := slices.Clone(bits)
		flipped[i] = !flipped[i]
		if _, err := Decode(flipped, slots); !errors.Is(err, stegerr.ErrCorruptHeader) {
			t.Fatalf("bit %d flipped: expected ErrCorruptHeader, got %v", i, err)
		}
	}
}

func TestDecodeCapacityBound(t *testing.T) {
	const slots = 1000 + spec.HEADER_BITS // 1000 payload bits at depth 1
	h := Header{PayloadLength: 125, BitsPerChannel: 1}

	bits, _ := Encode(&h)
	if _, err := Decode(bits, slots); err != nil {
		t.Errorf("payload filling the carrier exactly should decode: %v", err)
	}

	h.PayloadLength = 126
	bits, _ = Encode(&h)
	if _, err := Decode(bits, slots); !errors.Is(err, stegerr.ErrCorruptHeader) {
		t.Errorf("expected ErrCorruptHeader, got %v", err)
	}
}

func TestDecodeShort(t *testing.T) {
	if _, err := Decode(make([]bool, 10), 10); !errors.Is(err, stegerr.ErrCorruptHeader) {
		t.Errorf("expected ErrCorruptHeader, got %v", err)
	}
}

func TestEmbedExtract(t *testing.T) {
	g := imgutil.NewGrid(32, 32, 3)
	for i := range g.Pix {
		g.Pix[i] = 0xAA
	}
	h := &Header{PayloadLength: 7, FileName: "x.bin", BitsPerChannel: 3, Compressed: true}

	if err := Embed(g, h); err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	// only bit plane 0 of the header region may change
	for i, v := range g.Pix {
		if i >= spec.HEADER_BITS && v != 0xAA {
			t.Fatalf("value %d outside the header region changed", i)
		}
		if v&^1 != 0xAA {
			t.Fatalf("value %d changed above bit plane 0", i)
		}
	}

	got, err := Extract(g)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if *got != *h {
		t.Errorf("expected %+v, got %+v", *h, *got)
	}
}

func TestEmbedTooSmall(t *testing.T) {
	g := imgutil.NewGrid(10, 10, 3)
	err := Embed(g, &Header{BitsPerChannel: 1})
	if !errors.Is(err, stegerr.ErrInsufficientCapacity) {
		t.Errorf("expected ErrInsufficientCapacity, got %v", err)
	}

	if _, err := Extract(g); !errors.Is(err, stegerr.ErrCorruptHeader) {
		t.Errorf("expected ErrCorruptHeader, got %v", err)
	}
}
