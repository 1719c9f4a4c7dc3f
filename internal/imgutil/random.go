package imgutil

import (
	"crypto/rand"
	"fmt"
	"io"
	"math"

	"github.com/faanross/simulacra_lsb/internal/spec"
	"github.com/faanross/simulacra_lsb/internal/stegerr"
)

// CapacityBits returns the payload bits a grid offers at the given depth
// once the header region is set aside. Negative means the header alone
// does not fit.
func CapacityBits(width, height, channels, bitsPerChannel int) int {
	return width*height*channels*bitsPerChannel - spec.HEADER_BITS
}

// GenerateRandom creates a square RGB image of random noise whose capacity
// at bitsPerChannel is at least minCapacityBits. A nil rnd uses crypto/rand.
func GenerateRandom(minCapacityBits, bitsPerChannel int, rnd io.Reader) (*Grid, error) {
	if bitsPerChannel < spec.MIN_BITS_PER_CHANNEL || bitsPerChannel > spec.MAX_BITS_PER_CHANNEL {
		return nil, stegerr.New(stegerr.CodeInvalidConfig, "bits per channel %d out of range", bitsPerChannel)
	}
	if minCapacityBits < 0 {
		minCapacityBits = 0
	}
	if rnd == nil {
		rnd = rand.Reader
	}

	// The header needs HEADER_BITS channel values of its own at depth 1
	slotsPerPixel := spec.CHANNELS * bitsPerChannel
	pixels := ceilDiv(minCapacityBits+spec.HEADER_BITS, slotsPerPixel)
	if headerPixels := ceilDiv(spec.HEADER_BITS, spec.CHANNELS); pixels < headerPixels {
		pixels = headerPixels
	}

	side := int(math.Ceil(math.Sqrt(float64(pixels))))
	for side*side < pixels {
		side++
	}

	g := NewGrid(side, side, spec.CHANNELS)
	if _, err := io.ReadFull(rnd, g.Pix); err != nil {
		return nil, stegerr.Wrap(stegerr.CodeInternal, err, fmt.Sprintf("random fill of %s", g))
	}
	return g, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
