package fsx

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Encoding describes how text handed to the helpers maps to stored bytes
type Encoding string

const (
	EncodingUTF8   Encoding = "utf8"
	EncodingASCII  Encoding = "ascii"
	EncodingLatin1 Encoding = "latin1"
	EncodingBase64 Encoding = "base64"
	EncodingHex    Encoding = "hex"
)

// ParseEncoding accepts the usual spellings ("utf-8", "UTF8", "binary", ...)
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf8", "utf-8":
		return EncodingUTF8, nil
	case "ascii":
		return EncodingASCII, nil
	case "latin1", "binary":
		return EncodingLatin1, nil
	case "base64":
		return EncodingBase64, nil
	case "hex":
		return EncodingHex, nil
	default:
		return "", InvalidArgumentError("encoding", fmt.Errorf("unknown encoding %q", s))
	}
}

// Decode turns caller data into the bytes to store
func (e Encoding) Decode(data []byte) ([]byte, error) {
	switch e {
	case "", EncodingUTF8:
		return data, nil
	case EncodingASCII:
		for i, b := range data {
			if b >= utf8.RuneSelf {
				return nil, fmt.Errorf("non-ascii byte 0x%02x at offset %d", b, i)
			}
		}
		return data, nil
	case EncodingLatin1:
		out := make([]byte, 0, len(data))
		for _, r := range string(data) {
			if r > 0xFF {
				return nil, fmt.Errorf("rune %q outside latin1", r)
			}
			out = append(out, byte(r))
		}
		return out, nil
	case EncodingBase64:
		return decodeBase64(strings.TrimSpace(string(data)))
	case EncodingHex:
		return hex.DecodeString(strings.TrimSpace(string(data)))
	default:
		return nil, fmt.Errorf("unknown encoding %q", string(e))
	}
}

// Encode turns stored bytes back into text
func (e Encoding) Encode(raw []byte) (string, error) {
	switch e {
	case "", EncodingUTF8:
		return string(raw), nil
	case EncodingASCII:
		out := make([]byte, len(raw))
		for i, b := range raw {
			out[i] = b & 0x7F
		}
		return string(out), nil
	case EncodingLatin1:
		var b strings.Builder
		for _, c := range raw {
			b.WriteRune(rune(c))
		}
		return b.String(), nil
	case EncodingBase64:
		return base64.StdEncoding.EncodeToString(raw), nil
	case EncodingHex:
		return hex.EncodeToString(raw), nil
	default:
		return "", fmt.Errorf("unknown encoding %q", string(e))
	}
}

func decodeBase64(s string) ([]byte, error) {
	var lastErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		out, err := enc.DecodeString(s)
		if err == nil {
			return out, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
