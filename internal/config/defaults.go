package config

import (
	"github.com/rbright/natfmt/internal/dictation"
	"github.com/rbright/natfmt/internal/textenc"
)

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	clipboard := "wl-copy --trim-newline"

	return Config{
		Format: FormatConfig{
			TwoSpacesAfterPeriod: false,
			InitialState:         dictation.InitialState(),
			TrailingNewline:      true,
		},
		Input: InputConfig{Encoding: textenc.UTF8},
		WordInfo: WordInfoConfig{
			Source:    WordInfoNone,
			TimeoutMS: 500,
		},
		Clipboard: CommandConfig{Raw: clipboard, Argv: mustParseArgv(clipboard)},
	}
}
