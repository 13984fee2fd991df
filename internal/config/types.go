// Package config resolves, parses, validates, and defaults natfmt configuration.
package config

import (
	"time"

	"github.com/rbright/natfmt/internal/dictation"
	"github.com/rbright/natfmt/internal/textenc"
)

// Config is the fully materialized runtime configuration used by natfmt.
type Config struct {
	Format    FormatConfig
	Input     InputConfig
	WordInfo  WordInfoConfig
	Clipboard CommandConfig
}

// FormatConfig controls dictation formatting behavior.
type FormatConfig struct {
	TwoSpacesAfterPeriod bool
	InitialState         dictation.StateFlags
	TrailingNewline      bool
}

// InputConfig describes how raw tokens arrive.
type InputConfig struct {
	Encoding textenc.Encoding
}

// WordInfoSource selects where per-token formatting info comes from.
type WordInfoSource string

const (
	WordInfoNone  WordInfoSource = "none"
	WordInfoTable WordInfoSource = "table"
	WordInfoGRPC  WordInfoSource = "grpc"
)

// WordInfoConfig controls the word info lookup backend.
type WordInfoConfig struct {
	Source    WordInfoSource
	TablePath string
	GRPC      string
	TimeoutMS int
}

// Timeout returns the per-lookup timeout.
func (c WordInfoConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
