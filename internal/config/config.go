// Package config holds the embedding parameters of one operation.
package config

import (
	"strconv"
	"strings"

	"github.com/faanross/simulacra_lsb/internal/scrypto"
	"github.com/faanross/simulacra_lsb/internal/spec"
	"github.com/faanross/simulacra_lsb/internal/stegerr"
)

// Recognized option keys for FromOptions
const (
	KeyBitsPerChannel  = "bitsPerChannel"
	KeyUseCompression  = "useCompression"
	KeyUseEncryption   = "useEncryption"
	KeyPassword        = "password"
	KeyCryptoAlgorithm = "cryptoAlgorithm"
)

// Config is immutable once built. The password is never written to output.
type Config struct {
	bitsPerChannel int
	useCompression bool
	useEncryption  bool
	password       string
	algorithm      scrypto.Algorithm
}

// Option customizes a Config under construction.
type Option func(*Config)

// WithBitsPerChannel sets how many low bits of each channel carry payload.
func WithBitsPerChannel(n int) Option {
	return func(c *Config) { c.bitsPerChannel = n }
}

// WithCompression toggles compression of the message before embedding.
func WithCompression(on bool) Option {
	return func(c *Config) { c.useCompression = on }
}

// WithEncryption turns encryption on with the given password.
// An empty password is allowed.
func WithEncryption(password string) Option {
	return func(c *Config) {
		c.useEncryption = true
		c.password = password
	}
}

// WithPassword sets the password without enabling encryption. Extraction
// uses it when the header says the payload is encrypted.
func WithPassword(password string) Option {
	return func(c *Config) { c.password = password }
}

// WithAlgorithm picks the cipher used when encryption is on.
func WithAlgorithm(a scrypto.Algorithm) Option {
	return func(c *Config) { c.algorithm = a }
}

// New builds a Config from the defaults and opts.
// A depth outside [1,8] or an unknown algorithm is rejected.
func New(opts ...Option) (*Config, error) {
	c := &Config{
		bitsPerChannel: spec.DEFAULT_BITS_PER_CHANNEL,
		useCompression: true,
		algorithm:      scrypto.DES,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.bitsPerChannel < spec.MIN_BITS_PER_CHANNEL || c.bitsPerChannel > spec.MAX_BITS_PER_CHANNEL {
		return nil, stegerr.New(stegerr.CodeInvalidConfig,
			"bits per channel must be between %d and %d, got %d",
			spec.MIN_BITS_PER_CHANNEL, spec.MAX_BITS_PER_CHANNEL, c.bitsPerChannel)
	}
	if !c.algorithm.Valid() {
		return nil, stegerr.New(stegerr.CodeInvalidConfig, "unsupported crypto algorithm %d", uint8(c.algorithm))
	}

	return c, nil
}

// FromOptions builds a Config from string key/value pairs, the form the
// CLI and other front ends hand over. Unknown keys are rejected.
func FromOptions(options map[string]string) (*Config, error) {
	var opts []Option

	for key, value := range options {
		switch key {
		case KeyBitsPerChannel:
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, stegerr.Wrap(stegerr.CodeInvalidConfig, err, key)
			}
			opts = append(opts, WithBitsPerChannel(n))
		case KeyUseCompression:
			on, err := strconv.ParseBool(value)
			if err != nil {
				return nil, stegerr.Wrap(stegerr.CodeInvalidConfig, err, key)
			}
			opts = append(opts, WithCompression(on))
		case KeyUseEncryption:
			on, err := strconv.ParseBool(value)
			if err != nil {
				return nil, stegerr.Wrap(stegerr.CodeInvalidConfig, err, key)
			}
			opts = append(opts, func(c *Config) { c.useEncryption = on })
		case KeyPassword:
			opts = append(opts, WithPassword(value))
		case KeyCryptoAlgorithm:
			a, err := scrypto.ParseAlgorithm(value)
			if err != nil {
				return nil, err
			}
			opts = append(opts, WithAlgorithm(a))
		default:
			return nil, stegerr.New(stegerr.CodeInvalidConfig, "unknown option %q", key)
		}
	}

	return New(opts...)
}

func (c *Config) MaxBitsUsedPerChannel() int { return c.bitsPerChannel }
func (c *Config) UsesCompression() bool { return c.useCompression }
func (c *Config) UsesEncryption() bool { return c.useEncryption }
func (c *Config) Password() string { return c.password }
func (c *Config) CryptoAlgorithm() scrypto.Algorithm { return c.algorithm }
