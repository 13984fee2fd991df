// Package wordinfo supplies per-token word info values (the engine's 32-bit
// formatting metadata) from a local table or a remote gRPC bridge.
package wordinfo

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Table is an immutable token -> word info map.
type Table struct {
	words map[string]uint32
}

// NewTable copies words into a table.
func NewTable(words map[string]uint32) *Table {
	copied := make(map[string]uint32, len(words))
	for token, info := range words {
		copied[token] = info
	}
	return &Table{words: copied}
}

type tableFile struct {
	Words map[string]infoValue `json:"words"`
}

// infoValue accepts a JSON number or a "0x..." hex string.
type infoValue uint32

func (v *infoValue) UnmarshalJSON(data []byte) error {
	var number uint32
	if err := json.Unmarshal(data, &number); err == nil {
		*v = infoValue(number)
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("expected uint32 or hex string")
	}
	parsed, err := strconv.ParseUint(strings.TrimSpace(text), 0, 32)
	if err != nil {
		return fmt.Errorf("invalid word info %q: %w", text, err)
	}
	*v = infoValue(parsed)
	return nil
}

// ParseTable decodes a table document of the form
// {"words": {"token": 16, "other\\spoken": "0x00000210"}}.
func ParseTable(data []byte) (*Table, error) {
	var file tableFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode word info table: %w", err)
	}
	if file.Words == nil {
		return nil, fmt.Errorf("word info table has no \"words\" object")
	}

	words := make(map[string]uint32, len(file.Words))
	for token, info := range file.Words {
		words[token] = uint32(info)
	}
	return &Table{words: words}, nil
}

// LoadTable reads and parses a table file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read word info table %q: %w", path, err)
	}
	table, err := ParseTable(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, nil
}

// Lookup returns the info for token. It never fails.
func (t *Table) Lookup(token string) (uint32, bool, error) {
	info, ok := t.words[token]
	return info, ok, nil
}

// Len returns the number of tokens in the table.
func (t *Table) Len() int {
	return len(t.words)
}
