// Package randlsb implements the Random LSB plugin: message bits go into
// the low bits of colour channels at positions drawn from a fixed-seed
// permutation, behind a header at the image origin.
package randlsb

import (
	"fmt"
	"io"
	"log"
	"path/filepath"

	"github.com/faanross/simulacra_lsb/internal/config"
	"github.com/faanross/simulacra_lsb/internal/decoder"
	"github.com/faanross/simulacra_lsb/internal/encoder"
	"github.com/faanross/simulacra_lsb/internal/imgutil"
	"github.com/faanross/simulacra_lsb/internal/labels"
	"github.com/faanross/simulacra_lsb/internal/plugin"
	"github.com/faanross/simulacra_lsb/internal/spec"
)

// Name is the registry key.
const Name = "RandomLSB"

// Plugin is the Random LSB implementation of plugin.Plugin.
type Plugin struct {
	cfg    *config.Config
	labels *labels.Table
	logger *log.Logger
	rnd    io.Reader
}

var _ plugin.Plugin = (*Plugin)(nil)

// Option customizes a Plugin.
type Option func(*Plugin)

// WithLogger routes progress output to l.
func WithLogger(l *log.Logger) Option {
	return func(p *Plugin) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithRandom sets the noise source for generated covers.
func WithRandom(r io.Reader) Option {
	return func(p *Plugin) { p.rnd = r }
}

// New creates the plugin. A nil cfg means defaults, nil lbl the built-in
// labels.
func New(cfg *config.Config, lbl *labels.Table, opts ...Option) (*Plugin, error) {
	if cfg == nil {
		var err error
		if cfg, err = config.New(); err != nil {
			return nil, err
		}
	}
	if lbl == nil {
		lbl = labels.Default()
	}

	p := &Plugin{
		cfg:    cfg,
		labels: lbl,
		logger: log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Register adds the plugin to r.
func Register(r *plugin.Registry) error {
	return r.Register(Name, func(cfg *config.Config, lbl *labels.Table, logger *log.Logger) (plugin.Plugin, error) {
		return New(cfg, lbl, WithLogger(logger))
	})
}

func (p *Plugin) Name() string { return Name }

func (p *Plugin) Description() string {
	return p.labels.Get(Name, "plugin.description")
}

func (p *Plugin) Usage() string {
	return p.labels.Get(Name, "plugin.usage", spec.DEFAULT_BITS_PER_CHANNEL)
}

// Embed hides msg in cover, or in random noise sized to fit when cover is
// nil. Only the base of msgFileName is stored.
func (p *Plugin) Embed(msg []byte, msgFileName string, cover []byte, coverFileName, stegoFileName string) ([]byte, error) {
	format, err := imgutil.FormatFromFileName(stegoFileName)
	if err != nil {
		return nil, err
	}

	g, err := p.carrier(msg, cover, coverFileName)
	if err != nil {
		return nil, err
	}

	if msgFileName != "" {
		msgFileName = filepath.Base(msgFileName)
	}
	e, err := encoder.NewEmbedder(g, len(msg), msgFileName, p.cfg, encoder.WithLogger(p.logger))
	if err != nil {
		return nil, err
	}
	if _, err := e.Write(msg); err != nil {
		return nil, err
	}
	if err := e.Close(); err != nil {
		return nil, err
	}

	out, err := imgutil.Encode(e.Image(), format)
	if err != nil {
		return nil, err
	}
	p.logger.Printf("✅ Stego image ready: %s, %d bytes", format, len(out))
	return out, nil
}

func (p *Plugin) carrier(msg, cover []byte, coverFileName string) (*imgutil.Grid, error) {
	if cover == nil {
		need := encoder.MaxStoredSize(len(msg), p.cfg) * spec.BITS_PER_BYTE
		g, err := imgutil.GenerateRandom(need, p.cfg.MaxBitsUsedPerChannel(), p.rnd)
		if err != nil {
			return nil, err
		}
		p.logger.Printf("🎲 Generated random cover: %s", g)
		return g, nil
	}

	g, format, err := imgutil.Decode(cover)
	if err != nil {
		return nil, fmt.Errorf("cover %s: %w", coverFileName, err)
	}
	p.logger.Printf("📸 Cover %s: %s, %s", coverFileName, format, g)
	return g, nil
}

// ExtractFileName reads only the header.
func (p *Plugin) ExtractFileName(stego []byte, stegoFileName string) (string, error) {
	x, err := p.extractor(stego, stegoFileName)
	if err != nil {
		return "", err
	}
	defer x.Close()
	return x.Header().FileName, nil
}

// ExtractData recovers the message.
func (p *Plugin) ExtractData(stego []byte, stegoFileName string) ([]byte, error) {
	x, err := p.extractor(stego, stegoFileName)
	if err != nil {
		return nil, err
	}
	defer x.Close()
	return io.ReadAll(x)
}

func (p *Plugin) extractor(stego []byte, stegoFileName string) (*decoder.Extractor, error) {
	g, _, err := imgutil.Decode(stego)
	if err != nil {
		return nil, fmt.Errorf("stego image %s: %w", stegoFileName, err)
	}
	return decoder.NewExtractor(g, p.cfg, decoder.WithLogger(p.logger))
}

// Capacity reports how many stored payload bytes cover holds under cfg.
// Encryption padding counts against it.
func Capacity(cover []byte, cfg *config.Config) (int, error) {
	if cfg == nil {
		var err error
		if cfg, err = config.New(); err != nil {
			return 0, err
		}
	}
	g, _, err := imgutil.Decode(cover)
	if err != nil {
		return 0, err
	}
	bits := imgutil.CapacityBits(g.Width, g.Height, g.Channels, cfg.MaxBitsUsedPerChannel())
	if bits <= 0 {
		return 0, nil
	}
	return bits / spec.BITS_PER_BYTE, nil
}
