// Package dictation turns recognized dictation tokens and their formatting
// metadata into spaced, capitalized, and line-broken text.
package dictation

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidFlag reports a flag name outside a flag set's vocabulary.
var ErrInvalidFlag = errors.New("invalid flag name")

// Flag is implemented by the closed flag enumerations usable in a FlagSet.
type Flag interface {
	~uint8
	vocabulary() *vocabulary
}

type vocabulary struct {
	kind  string
	names []string
}

func (v *vocabulary) lookup(name string) (uint8, error) {
	for i, candidate := range v.names {
		if candidate == name {
			return uint8(i), nil
		}
	}
	return 0, fmt.Errorf("%w: received %q, expected one of %s", ErrInvalidFlag, name, strings.Join(v.names, ", "))
}

// WordFlag is one per-word formatting hint.
type WordFlag uint8

const (
	// Spacing.
	WordNoSpaceBefore  WordFlag = iota // like right-paren
	WordNoSpaceAfter                   // like left-paren
	WordTwoSpacesAfter                 // like full-stop
	WordNoSpaceMode                    // like No-Space-On
	WordResetNoSpace                   // like No-Space-Off
	WordNoSpaceReset                   // keep spacing state (like Cap)
	WordSpacebar                       // extra space after this word
	WordNoSpaceBetween                 // no space between adjacent words with this flag (like numbers)

	// Newlines.
	WordNewlineAfter
	WordTwoNewlinesAfter

	// Capitalization.
	WordCapNext
	WordCapNextForce
	WordLowerNext
	WordUpperNext
	WordCapMode
	WordLowerMode
	WordUpperMode
	WordResetCap
	WordNoCapReset // keep capitalization state (like left-paren)
	WordNoTitleCap // not capitalized in cap mode (like "and")

	// Miscellaneous.
	WordNoFormat
	WordNotAfterPeriod // leading period dropped after a word ending in period
)

var wordVocabulary = &vocabulary{kind: "word", names: []string{
	"no_space_before",
	"no_space_after",
	"two_spaces_after",
	"no_space_mode",
	"reset_no_space",
	"no_space_reset",
	"spacebar",
	"no_space_between",
	"newline_after",
	"two_newlines_after",
	"cap_next",
	"cap_next_force",
	"lower_next",
	"upper_next",
	"cap_mode",
	"lower_mode",
	"upper_mode",
	"reset_cap",
	"no_cap_reset",
	"no_title_cap",
	"no_format",
	"not_after_period",
}}

func (WordFlag) vocabulary() *vocabulary { return wordVocabulary }

func (f WordFlag) String() string { return flagName(f) }

// StateFlag is one piece of formatting state carried to the next word.
type StateFlag uint8

const (
	StateNoSpaceBefore StateFlag = iota
	StateTwoSpacesBefore
	StateNoSpaceMode
	StateNoSpaceBetween

	StateCapNext
	StateCapNextForce
	StateLowerNext
	StateUpperNext
	StateCapMode
	StateLowerMode
	StateUpperMode

	StatePrevEndedInPeriod
)

var stateVocabulary = &vocabulary{kind: "state", names: []string{
	"no_space_before",
	"two_spaces_before",
	"no_space_mode",
	"no_space_between",
	"cap_next",
	"cap_next_force",
	"lower_next",
	"upper_next",
	"cap_mode",
	"lower_mode",
	"upper_mode",
	"prev_ended_in_period",
}}

func (StateFlag) vocabulary() *vocabulary { return stateVocabulary }

func (f StateFlag) String() string { return flagName(f) }

func flagName[F Flag](f F) string {
	names := f.vocabulary().names
	if int(f) >= len(names) {
		return fmt.Sprintf("%s_flag(%d)", f.vocabulary().kind, uint8(f))
	}
	return names[f]
}

// FlagSet is a fixed-vocabulary set of boolean flags. The zero value has
// every flag cleared. FlagSet is a value type, so copies never alias.
type FlagSet[F Flag] struct {
	bits uint32
}

// WordFlags holds per-word formatting hints.
type WordFlags = FlagSet[WordFlag]

// StateFlags holds inter-word formatting state.
type StateFlags = FlagSet[StateFlag]

// NewFlagSet returns a set with the given flags set.
func NewFlagSet[F Flag](flags ...F) FlagSet[F] {
	var s FlagSet[F]
	for _, f := range flags {
		s = s.With(f)
	}
	return s
}

// ParseFlagSet returns a set with the named flags set. Any name outside the
// vocabulary fails with ErrInvalidFlag.
func ParseFlagSet[F Flag](names ...string) (FlagSet[F], error) {
	var s FlagSet[F]
	for _, name := range names {
		if err := s.Set(name, true); err != nil {
			return FlagSet[F]{}, err
		}
	}
	return s, nil
}

// Has reports whether flag is set.
func (s FlagSet[F]) Has(flag F) bool {
	if !valid(flag) {
		return false
	}
	return s.bits&(1<<flag) != 0
}

// With returns a copy of s with flag set.
func (s FlagSet[F]) With(flag F) FlagSet[F] {
	if valid(flag) {
		s.bits |= 1 << flag
	}
	return s
}

// Without returns a copy of s with flag cleared.
func (s FlagSet[F]) Without(flag F) FlagSet[F] {
	s.bits &^= 1 << flag
	return s
}

// Get reports whether the named flag is set.
func (s FlagSet[F]) Get(name string) (bool, error) {
	var zero F
	pos, err := zero.vocabulary().lookup(name)
	if err != nil {
		return false, err
	}
	return s.bits&(1<<pos) != 0, nil
}

// Set sets or clears the named flag.
func (s *FlagSet[F]) Set(name string, value bool) error {
	var zero F
	pos, err := zero.vocabulary().lookup(name)
	if err != nil {
		return err
	}
	if value {
		s.bits |= 1 << pos
	} else {
		s.bits &^= 1 << pos
	}
	return nil
}

// Clone returns an independent copy of s.
func (s FlagSet[F]) Clone() FlagSet[F] {
	return FlagSet[F]{bits: s.bits}
}

// Empty reports whether no flag is set.
func (s FlagSet[F]) Empty() bool {
	return s.bits == 0
}

// Names lists the set flags in vocabulary declaration order.
func (s FlagSet[F]) Names() []string {
	var zero F
	all := zero.vocabulary().names
	names := make([]string, 0, len(all))
	for i, name := range all {
		if s.bits&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	return names
}

// String joins the set flag names with ", ".
func (s FlagSet[F]) String() string {
	return strings.Join(s.Names(), ", ")
}

func valid[F Flag](flag F) bool {
	return int(flag) < len(flag.vocabulary().names)
}
