package compression

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `<sizemaps><sizemap fragment="0" size="10"><size type="type" ref="a.B" size="10"/></sizemap></sizemaps>`

func TestNewReader_SniffsType(t *testing.T) {
	for _, typ := range []Type{TypeNone, TypeGzip, TypeZstd} {
		t.Run(typ.String(), func(t *testing.T) {
			data, err := Compress([]byte(sampleDoc), typ)
			require.NoError(t, err)
			assert.Equal(t, typ, Detect(data))

			r, detected, err := NewReader(bytes.NewReader(data))
			require.NoError(t, err)
			defer r.Close()

			assert.Equal(t, typ, detected)
			out, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, sampleDoc, string(out))
		})
	}
}

func TestNewReader_ShortAndEmptyInput(t *testing.T) {
	for _, in := range []string{"", "<"} {
		r, typ, err := NewReader(bytes.NewReader([]byte(in)))
		require.NoError(t, err)
		assert.Equal(t, TypeNone, typ)

		out, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, in, string(out))
	}
}

func TestNewReader_CorruptGzip(t *testing.T) {
	_, _, err := NewReader(bytes.NewReader([]byte{0x1f, 0x8b, 0x00}))
	assert.Error(t, err)
}

func TestNewWriter_Plain(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, TypeNone)
	require.NoError(t, err)

	_, err = io.WriteString(w, sampleDoc)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, sampleDoc, buf.String())
}

func TestTypeFromName(t *testing.T) {
	assert.Equal(t, TypeGzip, TypeFromName("stories0.xml.gz"))
	assert.Equal(t, TypeZstd, TypeFromName("summary.json.zst"))
	assert.Equal(t, TypeNone, TypeFromName("splitPoints0.xml"))
}
