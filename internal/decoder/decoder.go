package decoder

import (
	"errors"
	"io"
	"log"

	"github.com/faanross/simulacra_lsb/internal/config"
	"github.com/faanross/simulacra_lsb/internal/header"
	"github.com/faanross/simulacra_lsb/internal/imgutil"
	"github.com/faanross/simulacra_lsb/internal/sequencer"
	"github.com/faanross/simulacra_lsb/internal/spec"
	"github.com/faanross/simulacra_lsb/internal/stegerr"
)

// Extractor recovers a message from a stego grid. The header is parsed
// on construction; the payload is recovered on the first Read.
//
// An Extractor is single use and not safe for concurrent use.
type Extractor struct {
	grid   *imgutil.Grid
	cfg    *config.Config
	hdr    *header.Header
	logger *log.Logger

	message []byte
	offset  int
	loaded  bool
	err     error
	closed  bool
}

// Option customizes an Extractor.
type Option func(*Extractor)

// WithLogger routes progress output to l.
func WithLogger(l *log.Logger) Option {
	return func(x *Extractor) {
		if l != nil {
			x.logger = l
		}
	}
}

// NewExtractor reads the header of grid. cfg supplies the password and
// may be nil when the payload is not encrypted.
func NewExtractor(grid *imgutil.Grid, cfg *config.Config, opts ...Option) (*Extractor, error) {
	if grid == nil {
		return nil, stegerr.New(stegerr.CodeInvalidConfig, "missing stego image")
	}
	if cfg == nil {
		var err error
		if cfg, err = config.New(); err != nil {
			return nil, err
		}
	}

	x := &Extractor{
		grid:   grid,
		cfg:    cfg,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(x)
	}

	h, err := header.Extract(grid)
	if err != nil {
		return nil, err
	}
	x.hdr = h

	x.logger.Printf("🔍 Header found in %s:", grid)
	x.logger.Printf("   Payload length: %d bytes", h.PayloadLength)
	x.logger.Printf("   File name: %q", h.FileName)
	x.logger.Printf("   Bits per channel: %d", h.BitsPerChannel)
	x.logger.Printf("   Compressed: %v, Encrypted: %v", h.Compressed, h.Encrypted)

	return x, nil
}

// Header returns a copy of the parsed header.
func (x *Extractor) Header() header.Header {
	return *x.hdr
}

// Read copies message bytes into p. At the end of the message, and after
// Close, it returns 0, io.EOF.
func (x *Extractor) Read(p []byte) (int, error) {
	if x.closed {
		return 0, io.EOF
	}
	if !x.loaded {
		x.loaded = true
		x.message, x.err = x.load()
	}
	if x.err != nil {
		return 0, x.err
	}
	if x.offset >= len(x.message) {
		return 0, io.EOF
	}

	n := copy(p, x.message[x.offset:])
	x.offset += n
	return n, nil
}

// Close marks the extractor consumed.
func (x *Extractor) Close() error {
	x.closed = true
	x.message = nil
	return nil
}

func (x *Extractor) load() ([]byte, error) {
	stored, err := x.readStored()
	if err != nil {
		return nil, err
	}
	return RecoverMessage(stored, x.hdr, x.cfg.Password(), x.logger)
}

// readStored collects the payload exactly as stored, before decryption
// and decompression. The header's depth, not the config's, is used.
func (x *Extractor) readStored() ([]byte, error) {
	g := x.grid
	seq, err := sequencer.New(g.Width, g.Height, g.Channels, x.hdr.BitsPerChannel, spec.HEADER_BITS)
	if err != nil {
		return nil, stegerr.Wrap(stegerr.CodeCorruptHeader, err, "header does not match carrier")
	}

	stored := make([]byte, x.hdr.PayloadLength)
	for i := range stored {
		var b byte
		for j := 0; j < 8; j++ {
			pos, err := seq.Next()
			if errors.Is(err, sequencer.ErrExhausted) {
				return nil, stegerr.New(stegerr.CodeTruncatedData,
					"got %d of %d payload bytes", i, x.hdr.PayloadLength)
			}
			if err != nil {
				return nil, err
			}
			b <<= 1
			if g.Bit(pos.Index(g.Channels), uint(pos.Plane)) {
				b |= 1
			}
		}
		stored[i] = b
	}

	x.logger.Printf("   Extracted %d stored bytes", len(stored))
	return stored, nil
}
