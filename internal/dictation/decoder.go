package dictation

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrLookup wraps failures reported by a LookupFunc.
var ErrLookup = errors.New("word info lookup failed")

// LookupFunc returns the 32-bit formatting info the engine holds for a
// full token. found is false when the token is outside the vocabulary.
type LookupFunc func(token string) (info uint32, found bool, err error)

type infoBit struct {
	bit      uint32
	flag     WordFlag
	reserved bool
}

// dns10Bits maps every bit of the DNS 10 word info value. Reserved bits
// are internal to the engine and never produce flags.
var dns10Bits = [32]infoBit{
	{bit: 0x00000001, reserved: true}, // added by user
	{bit: 0x00000002, reserved: true},
	{bit: 0x00000004, reserved: true},
	{bit: 0x00000008, reserved: true}, // undeletable
	{bit: 0x00000010, flag: WordCapNext},
	{bit: 0x00000020, flag: WordCapNextForce},
	{bit: 0x00000040, flag: WordUpperNext},
	{bit: 0x00000080, flag: WordLowerNext},
	{bit: 0x00000100, flag: WordNoSpaceAfter},
	{bit: 0x00000200, flag: WordTwoSpacesAfter},
	{bit: 0x00000400, flag: WordNoSpaceBetween},
	{bit: 0x00000800, flag: WordCapMode},
	{bit: 0x00001000, flag: WordUpperMode},
	{bit: 0x00002000, flag: WordLowerMode},
	{bit: 0x00004000, flag: WordNoSpaceMode},
	{bit: 0x00008000, flag: WordResetNoSpace},
	{bit: 0x00010000, reserved: true},
	{bit: 0x00020000, flag: WordNotAfterPeriod},
	{bit: 0x00040000, flag: WordNoFormat},
	{bit: 0x00080000, flag: WordNoSpaceReset},
	{bit: 0x00100000, flag: WordNoCapReset},
	{bit: 0x00200000, flag: WordNoSpaceBefore},
	{bit: 0x00400000, flag: WordResetCap},
	{bit: 0x00800000, flag: WordNewlineAfter},
	{bit: 0x01000000, flag: WordTwoNewlinesAfter},
	{bit: 0x02000000, flag: WordNoTitleCap},
	{bit: 0x04000000, reserved: true},
	{bit: 0x08000000, flag: WordSpacebar},
	{bit: 0x10000000, reserved: true},
	{bit: 0x20000000, reserved: true},
	{bit: 0x40000000, reserved: true}, // added by vocabulary builder
	{bit: 0x80000000, reserved: true},
}

// FlagsFromInfo decodes a DNS 10 word info value.
func FlagsFromInfo(info uint32) WordFlags {
	var flags WordFlags
	for _, entry := range dns10Bits {
		if entry.reserved || info&entry.bit == 0 {
			continue
		}
		flags = flags.With(entry.flag)
	}
	return flags
}

// Decoder parses `written` and `written\spoken` tokens, taking flags from
// the engine's word info for the full token.
type Decoder struct {
	Lookup LookupFunc
	Logger *slog.Logger
}

// Decode splits token on its first backslash and looks up its flags. A nil
// Lookup treats every token as outside the vocabulary.
func (d Decoder) Decode(token string) (Word, error) {
	written, spoken := token, token
	if idx := strings.IndexByte(token, '\\'); idx >= 0 {
		written = token[:idx]
		spoken = token[idx+1:]
	}

	var flags WordFlags
	if d.Lookup != nil {
		info, found, err := d.Lookup(token)
		if err != nil {
			return Word{}, fmt.Errorf("%w for %q: %w", ErrLookup, token, err)
		}
		if found {
			flags = FlagsFromInfo(info)
		}
	}

	word := NewWord(written, spoken, flags)
	if d.Logger != nil {
		d.Logger.Debug("parsed input", "input", token, "word", word.String())
	}
	return word, nil
}
