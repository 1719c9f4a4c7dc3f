package scrypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"crypto/md5"
	"crypto/sha256"
	"fmt"
	"os"
	"strings"

	"github.com/faanross/simulacra_lsb/internal/spec"
	"github.com/faanross/simulacra_lsb/internal/stegerr"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/term"
)

// Algorithm selects the password-based cipher. The numeric value is
// written into the data header, so existing values must never change.
type Algorithm uint8

const (
	// DES is PBEWithMD5AndDES: PBKDF1-MD5 key and IV, DES-CBC, PKCS#5 padding.
	DES Algorithm = iota
	// AES128 derives key and IV with PBKDF2-HMAC-SHA256; AES-CBC, PKCS#7 padding.
	AES128
	// AES256 is AES128 with a 32-byte key.
	AES256
)

var algorithmNames = map[Algorithm]string{
	DES:    "DES",
	AES128: "AES128",
	AES256: "AES256",
}

func (a Algorithm) String() string {
	if n, ok := algorithmNames[a]; ok {
		return n
	}
	return fmt.Sprintf("Algorithm(%d)", uint8(a))
}

// Valid reports whether a names a supported cipher.
func (a Algorithm) Valid() bool {
	_, ok := algorithmNames[a]
	return ok
}

// ParseAlgorithm maps a case-insensitive name to an Algorithm.
func ParseAlgorithm(name string) (Algorithm, error) {
	for a, n := range algorithmNames {
		if strings.EqualFold(n, name) {
			return a, nil
		}
	}
	return 0, stegerr.New(stegerr.CodeInvalidConfig, "unknown crypto algorithm %q", name)
}

// Cipher encrypts and decrypts payloads under a key derived from a
// password and the fixed salt. There is no random IV: the same password
// and plaintext always produce the same ciphertext.
//
// Decrypt detects a wrong password only through the padding check. About
// one wrong password in 256 still yields valid-looking padding and returns
// garbage instead of ErrInvalidPassword; the legacy format offers nothing
// stronger.
type Cipher struct {
	alg   Algorithm
	block cipher.Block
	iv    []byte
}

// NewCipher derives the key for password. An empty password is valid.
func NewCipher(password string, alg Algorithm) (*Cipher, error) {
	var (
		block cipher.Block
		iv    []byte
		err   error
	)

	switch alg {
	case DES:
		dk := pbkdf1MD5([]byte(password), spec.SALT[:], spec.LEGACY_ITER_COUNT)
		block, err = des.NewCipher(dk[:8])
		iv = dk[8:16]
	case AES128, AES256:
		keyLen := 16
		if alg == AES256 {
			keyLen = 32
		}
		dk := pbkdf2.Key([]byte(password), spec.SALT[:], spec.PBKDF2_ITERS, keyLen+aes.BlockSize, sha256.New)
		block, err = aes.NewCipher(dk[:keyLen])
		iv = dk[keyLen:]
	default:
		return nil, stegerr.New(stegerr.CodeInvalidConfig, "unsupported crypto algorithm %d", uint8(alg))
	}
	if err != nil {
		return nil, stegerr.Wrap(stegerr.CodeInternal, err, "cipher creation failed")
	}

	return &Cipher{alg: alg, block: block, iv: iv}, nil
}

// pbkdf1MD5 is PKCS #5 v1.5 key derivation: MD5 applied iter times to
// password||salt. The 16-byte result splits into an 8-byte key and IV.
func pbkdf1MD5(password, salt []byte, iter int) [md5.Size]byte {
	dk := md5.Sum(append(append([]byte{}, password...), salt...))
	for i := 1; i < iter; i++ {
		dk = md5.Sum(dk[:])
	}
	return dk
}

// Algorithm returns the cipher's algorithm.
func (c *Cipher) Algorithm() Algorithm { return c.alg }

// Encrypt pads plaintext to the block size and encrypts it in CBC mode.
// The result is always 1..BlockSize bytes longer than the input.
func (c *Cipher) Encrypt(plaintext []byte) []byte {
	bs := c.block.BlockSize()
	padLen := bs - len(plaintext)%bs

	buf := make([]byte, len(plaintext)+padLen)
	copy(buf, plaintext)
	copy(buf[len(plaintext):], bytes.Repeat([]byte{byte(padLen)}, padLen))

	cipher.NewCBCEncrypter(c.block, c.iv).CryptBlocks(buf, buf)
	return buf
}

// Decrypt reverses Encrypt. A padding failure returns ErrInvalidPassword;
// a ciphertext that is not a whole number of blocks is an internal error.
func (c *Cipher) Decrypt(ciphertext []byte) ([]byte, error) {
	bs := c.block.BlockSize()
	if len(ciphertext) == 0 || len(ciphertext)%bs != 0 {
		return nil, stegerr.New(stegerr.CodeInternal,
			"ciphertext length %d is not a multiple of the %d-byte block", len(ciphertext), bs)
	}

	buf := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(c.block, c.iv).CryptBlocks(buf, ciphertext)

	padLen := int(buf[len(buf)-1])
	if padLen == 0 || padLen > bs {
		return nil, stegerr.ErrInvalidPassword
	}
	for _, b := range buf[len(buf)-padLen:] {
		if int(b) != padLen {
			return nil, stegerr.ErrInvalidPassword
		}
	}

	return buf[:len(buf)-padLen], nil
}

// MaxOverhead is the largest padding any supported algorithm adds.
const MaxOverhead = aes.BlockSize

// ReadPassword prompts for a password on the terminal with hidden input
func ReadPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr) // New line after password

	if err != nil {
		return "", fmt.Errorf("password read failed: %w", err)
	}

	return string(password), nil
}
