// Package textenc converts between the engine's legacy 8-bit token encoding
// and UTF-8.
package textenc

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Encoding names a token byte encoding.
type Encoding string

const (
	UTF8        Encoding = "utf-8"
	Windows1252 Encoding = "windows-1252"
)

// ParseEncoding accepts the common spellings of the supported encodings.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "windows-1252", "cp1252":
		return Windows1252, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q (expected utf-8 or windows-1252)", name)
	}
}

// Decode converts raw token bytes to a UTF-8 string.
func Decode(raw []byte, enc Encoding) (string, error) {
	switch enc {
	case UTF8, "":
		return string(raw), nil
	case Windows1252:
		out, err := charmap.Windows1252.NewDecoder().Bytes(raw)
		if err != nil {
			return "", fmt.Errorf("decode windows-1252: %w", err)
		}
		return string(out), nil
	default:
		return "", fmt.Errorf("unsupported encoding %q", enc)
	}
}

// Encode converts a UTF-8 token to raw bytes. Characters the target
// encoding cannot represent are an error.
func Encode(token string, enc Encoding) ([]byte, error) {
	switch enc {
	case UTF8, "":
		return []byte(token), nil
	case Windows1252:
		out, err := charmap.Windows1252.NewEncoder().String(token)
		if err != nil {
			return nil, fmt.Errorf("encode %q as windows-1252: %w", token, err)
		}
		return []byte(out), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %q", enc)
	}
}
