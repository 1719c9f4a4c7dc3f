package encoder

import (
	"log"

	"github.com/faanross/simulacra_lsb/internal/config"
	"github.com/faanross/simulacra_lsb/internal/scrypto"
	"github.com/faanross/simulacra_lsb/internal/spec"
)

// Payload is the message as it will be stored in the image.
type Payload struct {
	Data       []byte
	Compressed bool
	Encrypted  bool
}

// PreparePayload compresses (when configured and smaller) and then
// encrypts (when configured) the message.
func PreparePayload(message []byte, cfg *config.Config, logger *log.Logger) (*Payload, error) {
	logger.Printf("📦 Payload Preparation:")
	logger.Printf("   Original size: %d bytes", len(message))

	p := &Payload{Data: message}

	// Step 1: Optionally compress
	if cfg.UsesCompression() && len(message) > spec.MAX_MESSAGE_SIZE {
		logger.Printf("   Compression: skipped, message exceeds %d bytes", spec.MAX_MESSAGE_SIZE)
	} else if cfg.UsesCompression() {
		compressed, err := CompressData(message)
		if err != nil {
			return nil, err
		}
		if len(compressed) < len(message) {
			logger.Printf("   Compression: %d → %d bytes (%.1f%%)",
				len(message), len(compressed), float64(len(compressed))/float64(len(message))*100)
			p.Data = compressed
			p.Compressed = true
		} else {
			logger.Printf("   Compression: not beneficial for this data")
		}
	}

	// Step 2: Optionally encrypt
	if cfg.UsesEncryption() {
		c, err := scrypto.NewCipher(cfg.Password(), cfg.CryptoAlgorithm())
		if err != nil {
			return nil, err
		}
		p.Data = c.Encrypt(p.Data)
		p.Encrypted = true
		logger.Printf("   Encryption: %s, %d bytes", c.Algorithm(), len(p.Data))
	}

	return p, nil
}

// MaxStoredSize bounds the stored payload size for a message of
// messageLength bytes. Compression is only kept when it shrinks the data,
// so only encryption padding can grow it.
func MaxStoredSize(messageLength int, cfg *config.Config) int {
	if cfg.UsesEncryption() {
		return messageLength + scrypto.MaxOverhead
	}
	return messageLength
}
