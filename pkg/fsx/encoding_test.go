package fsx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abraxas-365/fileutil/pkg/errx"
	"github.com/Abraxas-365/fileutil/pkg/fsx"
)

func TestParseEncoding(t *testing.T) {
	for in, want := range map[string]fsx.Encoding{
		"":       fsx.EncodingUTF8,
		"UTF-8":  fsx.EncodingUTF8,
		"binary": fsx.EncodingLatin1,
		" hex ":  fsx.EncodingHex,
		"Base64": fsx.EncodingBase64,
		"ascii":  fsx.EncodingASCII,
		"latin1": fsx.EncodingLatin1,
	} {
		got, err := fsx.ParseEncoding(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := fsx.ParseEncoding("ebcdic")
	assert.True(t, errx.IsCode(err, fsx.ErrInvalidArgument))
}

func TestEncoding_RoundTrip(t *testing.T) {
	tests := []struct {
		enc  fsx.Encoding
		text string
		raw  []byte
	}{
		{fsx.EncodingUTF8, "héllo", []byte("héllo")},
		{fsx.EncodingLatin1, "héllo", []byte{'h', 0xE9, 'l', 'l', 'o'}},
		{fsx.EncodingBase64, "AAEC", []byte{0, 1, 2}},
		{fsx.EncodingHex, "00ff", []byte{0x00, 0xFF}},
		{fsx.EncodingASCII, "plain", []byte("plain")},
	}

	for _, tt := range tests {
		t.Run(string(tt.enc), func(t *testing.T) {
			raw, err := tt.enc.Decode([]byte(tt.text))
			require.NoError(t, err)
			assert.Equal(t, tt.raw, raw)

			text, err := tt.enc.Encode(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)
		})
	}
}

func TestEncoding_DecodeErrors(t *testing.T) {
	_, err := fsx.EncodingASCII.Decode([]byte("café"))
	assert.Error(t, err)

	_, err = fsx.EncodingLatin1.Decode([]byte("日本"))
	assert.Error(t, err)

	_, err = fsx.EncodingHex.Decode([]byte("zz"))
	assert.Error(t, err)

	raw, err := fsx.EncodingBase64.Decode([]byte("AAEC-_8"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x01, 0x02, 0xFB, 0xFF}, raw)
}
