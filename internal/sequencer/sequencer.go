// Package sequencer yields the pseudorandom order in which payload bits
// visit the carrier's bit slots.
//
// The order is a Fisher–Yates permutation of every slot outside the header
// region, driven by a PCG generator with a fixed seed. It depends only on
// the carrier geometry and depth, so embedder and extractor regenerate it
// independently. The shuffle is lazy: swapped entries live in a map, so
// drawing k positions costs O(k) memory whatever the image size.
package sequencer

import (
	"math/rand/v2"

	"github.com/faanross/simulacra_lsb/internal/spec"
	"github.com/faanross/simulacra_lsb/internal/stegerr"
)

// ErrExhausted is returned by Next once every slot has been handed out.
var ErrExhausted = stegerr.New(stegerr.CodeInsufficientCapacity, "bit position sequence exhausted")

// Position identifies one overwritable bit of the carrier.
type Position struct {
	Pixel   int
	Channel int
	Plane   int // 0 is the least significant bit
}

// Index returns the flat channel value index of p in a grid with the
// given channel count.
func (p Position) Index(channels int) int {
	return p.Pixel*channels + p.Channel
}

// Sequencer is single use and not safe for concurrent use.
type Sequencer struct {
	channels  int
	depth     int
	reserved  int // channel values whose plane 0 belongs to the header
	total     int // slots in the permutation
	drawn     int
	displaced map[int]int
	rng       *rand.Rand
}

// New prepares the sequence for a width x height carrier with channels
// values per pixel, using the low bitsPerChannel planes of each value.
// Plane 0 of the first reserved channel values is excluded.
func New(width, height, channels, bitsPerChannel, reserved int) (*Sequencer, error) {
	if width <= 0 || height <= 0 || channels <= 0 {
		return nil, stegerr.New(stegerr.CodeInvalidConfig, "bad geometry %dx%dx%d", width, height, channels)
	}
	if bitsPerChannel < spec.MIN_BITS_PER_CHANNEL || bitsPerChannel > spec.MAX_BITS_PER_CHANNEL {
		return nil, stegerr.New(stegerr.CodeInvalidConfig, "bits per channel %d out of range", bitsPerChannel)
	}

	values := width * height * channels
	if reserved < 0 || reserved > values {
		return nil, stegerr.New(stegerr.CodeInsufficientCapacity,
			"%d reserved values do not fit in %d", reserved, values)
	}

	return &Sequencer{
		channels:  channels,
		depth:     bitsPerChannel,
		reserved:  reserved,
		total:     values*bitsPerChannel - reserved,
		displaced: make(map[int]int),
		rng:       rand.New(rand.NewPCG(spec.PERMUTATION_SEED[0], spec.PERMUTATION_SEED[1])),
	}, nil
}

// Len returns the total number of positions in the sequence.
func (s *Sequencer) Len() int { return s.total }

// Remaining returns how many positions Next can still return.
func (s *Sequencer) Remaining() int { return s.total - s.drawn }

// Next returns the next position, or ErrExhausted.
func (s *Sequencer) Next() (Position, error) {
	if s.drawn >= s.total {
		return Position{}, ErrExhausted
	}

	i := s.drawn
	// modulo bias is at most n/2^64
	j := i + int(s.rng.Uint64()%uint64(s.total-i))

	picked := s.at(j)
	if j != i {
		s.displaced[j] = s.at(i)
	}
	delete(s.displaced, i)
	s.drawn++

	return s.position(picked), nil
}

func (s *Sequencer) at(k int) int {
	if v, ok := s.displaced[k]; ok {
		return v
	}
	return k
}

// position maps a permutation entry onto the carrier. Entries first cover
// planes 1..depth-1 of the reserved values, then every plane of the rest.
func (s *Sequencer) position(v int) Position {
	var value, plane int

	upper := s.depth - 1
	if head := s.reserved * upper; v < head {
		value = v / upper
		plane = 1 + v%upper
	} else {
		v -= head
		value = s.reserved + v/s.depth
		plane = v % s.depth
	}

	return Position{
		Pixel:   value / s.channels,
		Channel: value % s.channels,
		Plane:   plane,
	}
}
