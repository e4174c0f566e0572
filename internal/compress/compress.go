package compress

import "fmt"

// Compress encodes and decodes opaque payloads.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
}

// New returns the compressor registered under name. An empty name selects Nop.
func New(name string) (Compress, error) {
	switch name {
	case "", "nop", "none":
		return NewNop(), nil
	case "gzip":
		return NewGZip(), nil
	case "brotli":
		return NewBrotli(), nil
	case "lz4":
		return NewLZ4(), nil
	default:
		return nil, fmt.Errorf("unknown compression: %q", name)
	}
}

var _ Compress = Nop{}

// Nop stores payloads uncompressed.
type Nop struct{}

func NewNop() Nop { return Nop{} }

func (Nop) Encode(data []byte) ([]byte, error) { return data, nil }
func (Nop) Decode(data []byte) ([]byte, error) { return data, nil }
