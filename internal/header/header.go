// Package header encodes the fixed-size preamble that precedes every
// payload. The header always lives in bit plane 0 of the first
// spec.HEADER_BITS channel values, so a reader can find it without
// knowing the payload depth.
//
// Layout, version 2, MSB first:
//
//	bits  field
//	  32  magic "RLSB"
//	   8  version
//	  32  payload length in bytes (as stored: after compression/encryption)
//	   8  bits per channel used by the payload
//	   1  compressed flag
//	   1  encrypted flag
//	   6  crypto algorithm
//	   8  file name length
//	2040  file name, UTF-8, zero padded to 255 bytes
//	  32  CRC32 (IEEE) of the 267 bytes above
package header

import (
	"encoding/binary"
	"hash/crc32"
	"unicode/utf8"

	"github.com/faanross/simulacra_lsb/internal/bitio"
	"github.com/faanross/simulacra_lsb/internal/imgutil"
	"github.com/faanross/simulacra_lsb/internal/scrypto"
	"github.com/faanross/simulacra_lsb/internal/spec"
	"github.com/faanross/simulacra_lsb/internal/stegerr"
)

// Header describes the payload hidden in an image.
type Header struct {
	PayloadLength  uint32
	FileName       string
	BitsPerChannel int
	Compressed     bool
	Encrypted      bool
	Algorithm      scrypto.Algorithm
}

// Validate checks the fields that Encode cannot represent.
func (h *Header) Validate() error {
	if h.BitsPerChannel < spec.MIN_BITS_PER_CHANNEL || h.BitsPerChannel > spec.MAX_BITS_PER_CHANNEL {
		return stegerr.New(stegerr.CodeInvalidConfig, "bits per channel %d out of range", h.BitsPerChannel)
	}
	if len(h.FileName) > spec.MAX_FILENAME_SIZE {
		return stegerr.New(stegerr.CodeInvalidConfig,
			"file name is %d bytes, at most %d fit in the header", len(h.FileName), spec.MAX_FILENAME_SIZE)
	}
	if !utf8.ValidString(h.FileName) {
		return stegerr.New(stegerr.CodeInvalidConfig, "file name %q is not valid UTF-8", h.FileName)
	}
	if !h.Algorithm.Valid() {
		return stegerr.New(stegerr.CodeInvalidConfig, "unsupported crypto algorithm %d", uint8(h.Algorithm))
	}
	return nil
}

// Encode serializes h into exactly spec.HEADER_BITS bits.
func Encode(h *Header) ([]bool, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	w := bitio.NewWriter(spec.HEADER_BITS)
	w.WriteBytes([]byte(spec.HEADER_MAGIC))
	w.WriteBits(spec.HEADER_VERSION, spec.VERSION_BITS)
	w.WriteBits(uint64(h.PayloadLength), spec.LENGTH_BITS)
	w.WriteBits(uint64(h.BitsPerChannel), spec.DEPTH_BITS)
	w.WriteBool(h.Compressed)
	w.WriteBool(h.Encrypted)
	w.WriteBits(uint64(h.Algorithm), spec.ALGORITHM_BITS)
	w.WriteBits(uint64(len(h.FileName)), spec.NAME_LENGTH_BITS)

	name := make([]byte, spec.MAX_FILENAME_SIZE)
	copy(name, h.FileName)
	w.WriteBytes(name)

	bits := w.Bits()
	w.WriteBits(uint64(checksum(bits)), spec.CRC_BITS)
	return w.Bits(), nil
}

// checksum returns the CRC32 of the field bits of a header.
func checksum(bits []bool) uint32 {
	return crc32.ChecksumIEEE(bitio.BitsToBytes(bits[:spec.HEADER_FIELD_BITS]))
}

// Decode parses a header from bits and checks it against the carrier.
// totalSlots is the number of channel values in the carrier; the declared
// payload must fit in what the carrier offers at the declared depth.
func Decode(bits []bool, totalSlots int) (*Header, error) {
	if len(bits) < spec.HEADER_BITS {
		return nil, stegerr.New(stegerr.CodeCorruptHeader,
			"need %d header bits, carrier has %d", spec.HEADER_BITS, len(bits))
	}
	r := bitio.NewReader(bits[:spec.HEADER_BITS])

	// The reader holds exactly HEADER_BITS, so field reads cannot fail.
	magic, _ := r.ReadBytes(len(spec.HEADER_MAGIC))
	if string(magic) != spec.HEADER_MAGIC {
		return nil, stegerr.New(stegerr.CodeCorruptHeader, "bad magic %q", magic)
	}
	version, _ := r.ReadBits(spec.VERSION_BITS)
	if version != spec.HEADER_VERSION {
		return nil, stegerr.New(stegerr.CodeCorruptHeader, "unsupported header version %d", version)
	}

	stored := binary.BigEndian.Uint32(bitio.BitsToBytes(bits[spec.HEADER_FIELD_BITS:spec.HEADER_BITS]))
	if calculated := checksum(bits); stored != calculated {
		return nil, stegerr.New(stegerr.CodeCorruptHeader,
			"header checksum mismatch: stored %08x, calculated %08x", stored, calculated)
	}

	length, _ := r.ReadBits(spec.LENGTH_BITS)
	depth, _ := r.ReadBits(spec.DEPTH_BITS)
	compressed, _ := r.ReadBool()
	encrypted, _ := r.ReadBool()
	alg, _ := r.ReadBits(spec.ALGORITHM_BITS)
	nameLen, _ := r.ReadBits(spec.NAME_LENGTH_BITS)
	name, _ := r.ReadBytes(spec.MAX_FILENAME_SIZE)

	h := &Header{
		PayloadLength:  uint32(length),
		FileName:       string(name[:nameLen]),
		BitsPerChannel: int(depth),
		Compressed:     compressed,
		Encrypted:      encrypted,
		Algorithm:      scrypto.Algorithm(alg),
	}

	if h.BitsPerChannel < spec.MIN_BITS_PER_CHANNEL || h.BitsPerChannel > spec.MAX_BITS_PER_CHANNEL {
		return nil, stegerr.New(stegerr.CodeCorruptHeader, "bits per channel %d out of range", h.BitsPerChannel)
	}
	if !h.Algorithm.Valid() {
		return nil, stegerr.New(stegerr.CodeCorruptHeader, "unknown crypto algorithm %d", alg)
	}
	if !utf8.ValidString(h.FileName) {
		return nil, stegerr.New(stegerr.CodeCorruptHeader, "file name is not valid UTF-8")
	}
	for _, b := range name[nameLen:] {
		if b != 0 {
			return nil, stegerr.New(stegerr.CodeCorruptHeader, "file name padding is not zero")
		}
	}

	available := imgutil.CapacityBits(totalSlots, 1, 1, h.BitsPerChannel)
	if uint64(h.PayloadLength)*spec.BITS_PER_BYTE > uint64(max(available, 0)) {
		return nil, stegerr.New(stegerr.CodeCorruptHeader,
			"payload length %d exceeds carrier capacity of %d bits", h.PayloadLength, available)
	}

	return h, nil
}

// Embed writes h into bit plane 0 of the first spec.HEADER_BITS channel
// values of g.
func Embed(g *imgutil.Grid, h *Header) error {
	bits, err := Encode(h)
	if err != nil {
		return err
	}
	if g.Len() < len(bits) {
		return stegerr.New(stegerr.CodeInsufficientCapacity,
			"header needs %d channel values, image %s has %d", len(bits), g, g.Len())
	}
	for i, bit := range bits {
		g.SetBit(i, 0, bit)
	}
	return nil
}

// Extract reads and validates the header of g.
func Extract(g *imgutil.Grid) (*Header, error) {
	n := min(g.Len(), spec.HEADER_BITS)
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = g.Bit(i, 0)
	}
	return Decode(bits, g.Len())
}
