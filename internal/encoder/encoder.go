package encoder

import (
	"bytes"
	"io"
	"log"
	"math"
	"unicode/utf8"

	"github.com/faanross/simulacra_lsb/internal/config"
	"github.com/faanross/simulacra_lsb/internal/header"
	"github.com/faanross/simulacra_lsb/internal/imgutil"
	"github.com/faanross/simulacra_lsb/internal/sequencer"
	"github.com/faanross/simulacra_lsb/internal/spec"
	"github.com/faanross/simulacra_lsb/internal/stegerr"
)

// Embedder hides a message in a carrier grid. Bytes passed to Write are
// buffered; nothing touches the grid until Close, which either embeds
// everything or leaves the grid as it was.
//
// An Embedder is single use and not safe for concurrent use. The grid
// must not be modified by anyone else until Close returns.
type Embedder struct {
	grid     *imgutil.Grid
	fileName string
	cfg      *config.Config
	buf      bytes.Buffer
	logger   *log.Logger
	closed   bool
}

// Option customizes an Embedder.
type Option func(*Embedder)

// WithLogger routes progress output to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Embedder) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEmbedder creates an embedder for grid. messageLength sizes the
// internal buffer; fileName is stored in the header and may be empty.
func NewEmbedder(grid *imgutil.Grid, messageLength int, fileName string, cfg *config.Config, opts ...Option) (*Embedder, error) {
	if grid == nil || grid.Len() == 0 {
		return nil, stegerr.New(stegerr.CodeInvalidConfig, "empty carrier image")
	}
	if cfg == nil {
		return nil, stegerr.New(stegerr.CodeInvalidConfig, "missing configuration")
	}
	if len(fileName) > spec.MAX_FILENAME_SIZE {
		return nil, stegerr.New(stegerr.CodeInvalidConfig,
			"file name is %d bytes, at most %d fit in the header", len(fileName), spec.MAX_FILENAME_SIZE)
	}
	if !utf8.ValidString(fileName) {
		return nil, stegerr.New(stegerr.CodeInvalidConfig, "file name %q is not valid UTF-8", fileName)
	}

	e := &Embedder{
		grid:     grid,
		fileName: fileName,
		cfg:      cfg,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	if messageLength > 0 {
		e.buf.Grow(messageLength)
	}
	return e, nil
}

// Write buffers message bytes.
func (e *Embedder) Write(p []byte) (int, error) {
	if e.closed {
		return 0, stegerr.New(stegerr.CodeInternal, "write to closed embedder")
	}
	return e.buf.Write(p)
}

// Close prepares the payload, writes the header and scatters the payload
// bits over the carrier. Calling Close twice is a no-op.
func (e *Embedder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	payload, err := PreparePayload(e.buf.Bytes(), e.cfg, e.logger)
	if err != nil {
		return err
	}

	g := e.grid
	depth := e.cfg.MaxBitsUsedPerChannel()
	available := imgutil.CapacityBits(g.Width, g.Height, g.Channels, depth)
	required := len(payload.Data) * spec.BITS_PER_BYTE

	e.logger.Printf("📊 Steganography Parameters:")
	e.logger.Printf("   Carrier: %s", g)
	e.logger.Printf("   Bits per channel: %d", depth)
	e.logger.Printf("   Bits needed: %d (+%d header)", required, spec.HEADER_BITS)
	e.logger.Printf("   Bits available: %d", max(available, 0))

	if g.Len() < spec.HEADER_BITS || required > available {
		return stegerr.New(stegerr.CodeInsufficientCapacity,
			"need %d payload bits, image %s offers %d at %d bits per channel",
			required, g, max(available, 0), depth)
	}
	if uint64(len(payload.Data)) > math.MaxUint32 {
		return stegerr.New(stegerr.CodeInsufficientCapacity, "payload of %d bytes exceeds the header limit", len(payload.Data))
	}

	h := &header.Header{
		PayloadLength:  uint32(len(payload.Data)),
		FileName:       e.fileName,
		BitsPerChannel: depth,
		Compressed:     payload.Compressed,
		Encrypted:      payload.Encrypted,
		Algorithm:      e.cfg.CryptoAlgorithm(),
	}

	// Work on a copy so a failure leaves the carrier untouched
	work := g.Clone()
	if err := header.Embed(work, h); err != nil {
		return err
	}
	if err := embedBits(work, payload.Data, depth); err != nil {
		return err
	}
	copy(g.Pix, work.Pix)

	if available > 0 {
		e.logger.Printf("   Utilization: %.1f%%", float64(required)*100/float64(available))
	}
	return nil
}

// embedBits writes data MSB first, one bit per sequenced position.
func embedBits(g *imgutil.Grid, data []byte, depth int) error {
	seq, err := sequencer.New(g.Width, g.Height, g.Channels, depth, spec.HEADER_BITS)
	if err != nil {
		return err
	}

	for _, b := range data {
		for j := 7; j >= 0; j-- {
			pos, err := seq.Next()
			if err != nil {
				return err
			}
			g.SetBit(pos.Index(g.Channels), uint(pos.Plane), (b>>uint(j))&1 == 1)
		}
	}
	return nil
}

// Image returns the carrier, holding the message once Close succeeded.
func (e *Embedder) Image() *imgutil.Grid {
	return e.grid
}
