package encoder

import (
	"bytes"
	"sync"

	"github.com/faanross/simulacra_lsb/internal/stegerr"
	"github.com/pierrec/lz4/v4"
)

// compressorPool reuses LZ4 writers to reduce allocations.
var compressorPool = sync.Pool{
	New: func() interface{} {
		return lz4.NewWriter(nil)
	},
}

// CompressData compresses data into an LZ4 frame. The output depends only
// on the input, which keeps embedding deterministic.
func CompressData(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := compressorPool.Get().(*lz4.Writer)
	defer compressorPool.Put(w)

	w.Reset(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(lz4.Level9)); err != nil {
		return nil, stegerr.Wrap(stegerr.CodeInternal, err, "compression setup failed")
	}

	if _, err := w.Write(data); err != nil {
		return nil, stegerr.Wrap(stegerr.CodeInternal, err, "compression write failed")
	}
	if err := w.Close(); err != nil {
		return nil, stegerr.Wrap(stegerr.CodeInternal, err, "compression close failed")
	}

	return buf.Bytes(), nil
}
