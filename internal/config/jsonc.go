package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// normalizeJSONC turns JSONC into plain JSON by blanking comments and
// trailing commas with spaces. Every remaining byte keeps its offset, so
// decoder errors map back to the original line and column.
func normalizeJSONC(content string) (string, error) {
	out := []byte(content)
	inString, escape := false, false
	pendingComma := -1

	for i := 0; i < len(out); i++ {
		ch := out[i]

		if inString {
			switch {
			case escape:
				escape = false
			case ch == '\\':
				escape = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch {
		case ch == '"':
			inString = true
			pendingComma = -1
		case ch == '/' && i+1 < len(out) && out[i+1] == '/':
			end := i
			for end < len(out) && out[end] != '\n' && out[end] != '\r' {
				end++
			}
			blank(out[i:end])
			i = end - 1
		case ch == '/' && i+1 < len(out) && out[i+1] == '*':
			closeAt := strings.Index(content[i+2:], "*/")
			if closeAt < 0 {
				line, col := offsetToLineCol(content, int64(i+1))
				return "", fmt.Errorf("line %d column %d: unterminated block comment in JSONC", line, col)
			}
			end := i + 2 + closeAt + 2
			blank(out[i:end])
			i = end - 1
		case ch == ',':
			pendingComma = i
		case ch == '}' || ch == ']':
			if pendingComma >= 0 {
				out[pendingComma] = ' '
			}
			pendingComma = -1
		case isJSONWhitespace(ch):
		default:
			pendingComma = -1
		}
	}

	return string(out), nil
}

// blank overwrites b with spaces, keeping line breaks and tabs.
func blank(b []byte) {
	for i, ch := range b {
		if ch != '\n' && ch != '\r' && ch != '\t' {
			b[i] = ' '
		}
	}
}

func isJSONWhitespace(ch byte) bool {
	switch ch {
	case ' ', '\n', '\r', '\t':
		return true
	default:
		return false
	}
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	tok, err := decoder.Token()
	switch {
	case errors.Is(err, io.EOF):
		return nil
	case err != nil:
		return err
	default:
		return fmt.Errorf("multiple JSON values are not allowed (found %v)", tok)
	}
}

func wrapJSONDecodeError(content string, err error) error {
	var offset int64
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return err
	}

	line, col := offsetToLineCol(content, offset)
	return fmt.Errorf("line %d column %d: %w", line, col, err)
}

// offsetToLineCol converts a 1-based decoder offset to a line and column.
func offsetToLineCol(content string, offset int64) (int, int) {
	limit := max(min(int(offset), len(content))-1, 0)
	prefix := content[:limit]
	line := strings.Count(prefix, "\n") + 1
	col := limit - strings.LastIndexByte(prefix, '\n')
	return line, col
}
