package spec

// Steganography constants
const (
	BITS_PER_BYTE = 8 // Standard byte size
	CHANNELS      = 3 // RGB channels used as carriers

	DEFAULT_BITS_PER_CHANNEL = 3 // Payload depth when none is configured
	MIN_BITS_PER_CHANNEL     = 1
	MAX_BITS_PER_CHANNEL     = 8

	// HEADER_BITS_PER_CHANNEL is the fixed depth of the header region.
	// The reader needs the header before it knows the payload depth.
	HEADER_BITS_PER_CHANNEL = 1
)

// Header wire format, version 2
const (
	HEADER_MAGIC   = "RLSB"
	HEADER_VERSION = 2

	MAGIC_BITS        = 32
	VERSION_BITS      = 8
	LENGTH_BITS       = 32
	DEPTH_BITS        = 8
	FLAG_BITS         = 1 // compressed, encrypted
	ALGORITHM_BITS    = 6
	NAME_LENGTH_BITS  = 8
	MAX_FILENAME_SIZE = 255 // bytes, bounded by NAME_LENGTH_BITS
	CRC_BITS          = 32  // CRC32 (IEEE) of every field before it

	// HEADER_FIELD_BITS is the checksummed part of the header. It is a
	// whole number of bytes.
	HEADER_FIELD_BITS = MAGIC_BITS + VERSION_BITS + LENGTH_BITS + DEPTH_BITS +
		2*FLAG_BITS + ALGORITHM_BITS + NAME_LENGTH_BITS +
		MAX_FILENAME_SIZE*BITS_PER_BYTE

	// HEADER_BITS is the size of the header region in channel values.
	HEADER_BITS = HEADER_FIELD_BITS + CRC_BITS
)

// MAX_MESSAGE_SIZE bounds the output of decompression. Longer messages are
// stored uncompressed.
const MAX_MESSAGE_SIZE = 64 << 20

// PERMUTATION_SEED drives the PCG generator behind the position sequence.
// Changing it breaks every image written with the current HEADER_VERSION.
var PERMUTATION_SEED = [2]uint64{0x4F50454E53544547, 0x52414E444C534221}

// Security constants
const (
	SALT_SIZE = 8 // Fixed PBE salt length

	// LEGACY_ITER_COUNT is the PBKDF1-MD5 iteration count of PBEWithMD5AndDES
	LEGACY_ITER_COUNT = 7

	PBKDF2_ITERS = 65536 // PBKDF2-SHA256 iterations for the AES algorithms
)

// SALT is shared by every algorithm, so equal inputs give equal ciphertext.
var SALT = [SALT_SIZE]byte{0x28, 0x5F, 0x71, 0xC9, 0x1E, 0x35, 0x0A, 0x62}
