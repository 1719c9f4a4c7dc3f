package decoder

import (
	"bytes"
	"errors"
	"io"
	"log"
	"sync"

	"github.com/faanross/simulacra_lsb/internal/config"
	"github.com/faanross/simulacra_lsb/internal/header"
	"github.com/faanross/simulacra_lsb/internal/imgutil"
	"github.com/faanross/simulacra_lsb/internal/scrypto"
	"github.com/faanross/simulacra_lsb/internal/spec"
	"github.com/faanross/simulacra_lsb/internal/stegerr"
	"github.com/pierrec/lz4/v4"
)

// decompressorPool reuses LZ4 readers.
var decompressorPool = sync.Pool{
	New: func() interface{} {
		return lz4.NewReader(nil)
	},
}

// RecoverMessage undoes PreparePayload: decrypt, then decompress, as the
// header flags say.
func RecoverMessage(stored []byte, h *header.Header, password string, logger *log.Logger) ([]byte, error) {
	data := stored

	if h.Encrypted {
		c, err := scrypto.NewCipher(password, h.Algorithm)
		if err != nil {
			return nil, err
		}
		data, err = c.Decrypt(data)
		if err != nil {
			return nil, err
		}
		logger.Printf("🔓 Decrypted with %s: %d → %d bytes", h.Algorithm, len(stored), len(data))
	}

	if h.Compressed {
		decompressed, err := DecompressData(data, spec.MAX_MESSAGE_SIZE)
		var typed *stegerr.Error
		if errors.As(err, &typed) {
			return nil, err
		}
		if err != nil {
			// padding can pass by chance under a wrong key; the garbage
			// then fails here
			if h.Encrypted {
				return nil, stegerr.Wrap(stegerr.CodeInvalidPassword, err, "decrypted data is not a valid compressed stream")
			}
			return nil, stegerr.Wrap(stegerr.CodeInternal, err, "payload decompression failed")
		}
		logger.Printf("📦 Decompressed: %d → %d bytes", len(data), len(decompressed))
		data = decompressed
	}

	return data, nil
}

// DecompressData decompresses an LZ4 frame of at most limit bytes.
func DecompressData(data []byte, limit int64) ([]byte, error) {
	r := decompressorPool.Get().(*lz4.Reader)
	defer decompressorPool.Put(r)

	r.Reset(bytes.NewReader(data))

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if n > limit {
		return nil, stegerr.New(stegerr.CodeInternal, "decompressed message exceeds %d bytes", limit)
	}
	return buf.Bytes(), nil
}

// TryPasswords extracts grid with each password in turn and returns the
// first one that decrypts, with the message. A payload that is not
// encrypted is returned with an empty password.
func TryPasswords(grid *imgutil.Grid, passwords []string, logger *log.Logger) (string, []byte, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	for i, pass := range passwords {
		cfg, err := config.New(config.WithPassword(pass))
		if err != nil {
			return "", nil, err
		}
		x, err := NewExtractor(grid, cfg)
		if err != nil {
			return "", nil, err
		}
		if !x.hdr.Encrypted {
			msg, err := io.ReadAll(x)
			return "", msg, err
		}

		msg, err := io.ReadAll(x)
		if errors.Is(err, stegerr.ErrInvalidPassword) {
			logger.Printf("   Attempt %d/%d: ❌ wrong password", i+1, len(passwords))
			continue
		}
		if err != nil {
			return "", nil, err
		}

		logger.Printf("   Attempt %d/%d: ✅ success", i+1, len(passwords))
		return pass, msg, nil
	}

	return "", nil, stegerr.New(stegerr.CodeInvalidPassword, "none of %d passwords worked", len(passwords))
}
