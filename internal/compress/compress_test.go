package compress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressors(t *testing.T) {
	payload := []byte(strings.Repeat(`{"title":"hello world","body":"<p>lorem ipsum</p>"}`, 50))

	for _, name := range []string{"nop", "gzip", "brotli", "lz4"} {
		t.Run(name, func(t *testing.T) {
			c, err := New(name)
			require.NoError(t, err)

			encoded, err := c.Encode(payload)
			require.NoError(t, err)
			if name != "nop" {
				assert.Less(t, len(encoded), len(payload))
			}

			decoded, err := c.Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, payload, decoded)
		})
	}
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("zstd")
	assert.Error(t, err)
}

func TestGZip_ReusesWriters(t *testing.T) {
	g := NewGZipLevel(42)
	assert.Equal(t, -1, g.level)

	for _, s := range []string{"first", "second payload", ""} {
		encoded, err := g.Encode([]byte(s))
		require.NoError(t, err)
		decoded, err := g.Decode(encoded)
		require.NoError(t, err)
		assert.Equal(t, s, string(decoded))
	}
}
