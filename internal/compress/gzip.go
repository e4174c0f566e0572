package compress

import (
	"bytes"
	"compress/gzip"
	"io"
	"sync"
)

// GZip compresses cache entries. Writers are pooled since every public read that misses the
// cache ends in an Encode.
type GZip struct {
	level int
	pool  *sync.Pool
}

func NewGZip() GZip {
	return NewGZipLevel(gzip.BestSpeed)
}

// NewGZipLevel returns a GZip using one of the compress/gzip levels. Invalid levels fall back
// to gzip.DefaultCompression.
func NewGZipLevel(level int) GZip {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	return GZip{
		level: level,
		pool: &sync.Pool{New: func() any {
			w, _ := gzip.NewWriterLevel(io.Discard, level)
			return w
		}},
	}
}

func (g GZip) Encode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := g.pool.Get().(*gzip.Writer)
	defer g.pool.Put(w)
	w.Reset(&buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (g GZip) Decode(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()

	return io.ReadAll(r)
}
