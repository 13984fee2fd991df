package dictation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	infoNoSpaceBetween = 0x00000400
	infoNotAfterPeriod = 0x00020000
	infoNoTitleCap     = 0x02000000
	infoFullStop       = 0x00200000 | 0x00000200 | 0x00000010 | infoNotAfterPeriod
)

func TestFormatInputEmpty(t *testing.T) {
	t.Parallel()

	f := NewFormatter(Options{})
	got, err := f.FormatInput(nil)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Equal(t, InitialState(), f.State())
}

func TestFormatInputSentenceThenNextWord(t *testing.T) {
	t.Parallel()

	f := NewFormatter(Options{})
	got, err := f.FormatInput([]string{"Hello", "world", `.\period\.`})
	require.NoError(t, err)
	require.Equal(t, "Hello world.", got)

	next, err := f.FormatInput([]string{"next"})
	require.NoError(t, err)
	require.Equal(t, "Hello world. Next", got+next)
}

func TestFormatInputTwoSpacesAfterPeriod(t *testing.T) {
	t.Parallel()

	f := NewFormatter(Options{TwoSpacesAfterPeriod: true})
	got, err := f.FormatInput([]string{"Hello", "world", `.\period\.`, "next"})
	require.NoError(t, err)
	require.Equal(t, "Hello world.  Next", got)
}

func TestFormatInputScenarios(t *testing.T) {
	t.Parallel()

	lookup := staticLookup(map[string]uint32{
		"5":              infoNoSpaceBetween,
		"of":             infoNoTitleCap,
		`.\full-stop`:    infoFullStop,
		`\all-caps-next`: 0x00040000 | 0x00080000 | 0x00000040,
	})

	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{
			name:   "no space mode",
			tokens: []string{"say", `\no-space-on\no space on`, "foo", "bar", "baz", `\no-space-off\no space off`, "done", "now"},
			want:   "sayfoobarbaz done now",
		},
		{
			name:   "new line",
			tokens: []string{"first", `\new-line\new line`, "second"},
			want:   "first\nsecond",
		},
		{
			name:   "new paragraph",
			tokens: []string{"first", `\new-paragraph\new paragraph`, "second"},
			want:   "first\n\nSecond",
		},
		{
			name:   "force cap beats lowercase mode",
			tokens: []string{"Intro", `\no-caps-on\no caps on`, "MIXED", `\spelling-cap\cap`, "word", "AFTER"},
			want:   "Intro mixed Word after",
		},
		{
			name:   "title mode skips no title cap words",
			tokens: []string{"read", `\caps-on\caps on`, "the", "lord", "of", "rings", `\caps-off\caps off`, "end"},
			want:   "read The Lord of Rings end",
		},
		{
			name:   "upper next via word info",
			tokens: []string{"go", `\all-caps-next`, "nasa", "rocks"},
			want:   "go NASA rocks",
		},
		{
			name:   "upper mode until reset",
			tokens: []string{"a", `\all-caps-on\all caps on`, "big", "deal", `\all-caps-off\all caps off`, "ok"},
			want:   "a BIG DEAL ok",
		},
		{
			name:   "numbers join",
			tokens: []string{"call", "5", "5", "5", "now"},
			want:   "call 555 now",
		},
		{
			name:   "leading period dropped after abbreviation",
			tokens: []string{"see", "etc.", `.\full-stop`, "next"},
			want:   "see etc. Next",
		},
		{
			name:   "period kept after plain word",
			tokens: []string{"see", "this", `.\full-stop`, "next"},
			want:   "see this. Next",
		},
		{
			name:   "space bar",
			tokens: []string{"a", `\space-bar\space bar`, "b"},
			want:   "a b",
		},
		{
			name:   "hyphen joins",
			tokens: []string{"well", `-\hyphen\hyphen`, "known"},
			want:   "well-known",
		},
		{
			name:   "brackets",
			tokens: []string{"say", `(\left-paren\left paren`, "hi", `)\right-paren\right paren`, "ok"},
			want:   "say (hi) ok",
		},
		{
			name:   "capitalization survives opening bracket",
			tokens: []string{"end", `.\period\period`, `(\left-paren\left paren`, "hello"},
			want:   "end. (Hello",
		},
		{
			name:   "comma and decimal point",
			tokens: []string{"pi", `,\comma\comma`, "3", `.\point\point`, "14"},
			want:   "pi, 3.14",
		},
		{
			name:   "unknown property passes through",
			tokens: []string{"x", `~\tilde-ish\tilde`, "y"},
			want:   "x ~ y",
		},
		{
			name:   "capitalize lowercases the rest",
			tokens: []string{"ok", `.\period\period`, "iPHONE"},
			want:   "ok. Iphone",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := NewFormatter(Options{Lookup: lookup})
			got, err := f.FormatInput(tc.tokens)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFormatInputLookupFailureKeepsState(t *testing.T) {
	t.Parallel()

	boom := errors.New("natlink gone")
	calls := 0
	f := NewFormatter(Options{Lookup: func(token string) (uint32, bool, error) {
		calls++
		if token == "bad" {
			return 0, false, boom
		}
		return 0, false, nil
	}})

	_, err := f.FormatInput([]string{"good", "bad", "never"})
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, ErrLookup)
	require.Equal(t, 2, calls)
	require.Equal(t, InitialState(), f.State())
}

func TestFormatterCustomInitialStateAndReset(t *testing.T) {
	t.Parallel()

	state := NewFlagSet(StateCapNext)
	f := NewFormatter(Options{State: &state})

	got, err := f.FormatInput([]string{"hello", "there"})
	require.NoError(t, err)
	require.Equal(t, " Hello there", got)

	f.Reset()
	require.Equal(t, state, f.State())

	state = state.With(StateUpperMode)
	require.Equal(t, "cap_next", f.State().String(), "options state is copied")
}

func TestProcessIsPure(t *testing.T) {
	t.Parallel()

	state := NewFlagSet(StateTwoSpacesBefore, StateCapNext)
	word := NewWord("word", "word", WordFlags{})

	text, next := Process(word, state, true)
	require.Equal(t, "  Word", text)
	require.True(t, next.Empty())
	require.Equal(t, "two_spaces_before, cap_next", state.String())

	again, _ := Process(word, state, true)
	require.Equal(t, text, again)
}

func TestApplyPrefixPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		word  WordFlags
		state StateFlags
		want  string
	}{
		{name: "no format wins over two spaces", word: NewFlagSet(WordNoFormat), state: NewFlagSet(StateTwoSpacesBefore), want: "x"},
		{name: "word no space before", word: NewFlagSet(WordNoSpaceBefore), state: NewFlagSet(StateTwoSpacesBefore), want: "x"},
		{name: "state no space before", state: NewFlagSet(StateNoSpaceBefore, StateTwoSpacesBefore), want: "x"},
		{name: "no space mode", state: NewFlagSet(StateNoSpaceMode), want: "x"},
		{name: "between needs both", state: NewFlagSet(StateNoSpaceBetween), want: " x"},
		{name: "between on both", word: NewFlagSet(WordNoSpaceBetween), state: NewFlagSet(StateNoSpaceBetween), want: "x"},
		{name: "two spaces", state: NewFlagSet(StateTwoSpacesBefore), want: "  x"},
		{name: "default", want: " x"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, Apply(NewWord("x", "x", tc.word), tc.state, true))
		})
	}
}

func TestApplyCasingPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		word  WordFlags
		state StateFlags
		want  string
	}{
		{name: "no format keeps text", word: NewFlagSet(WordNoFormat), state: NewFlagSet(StateCapNext, StateUpperMode), want: "mIxEd"},
		{name: "cap next over upper mode", state: NewFlagSet(StateCapNext, StateUpperMode), want: "Mixed"},
		{name: "upper mode over lower mode", state: NewFlagSet(StateUpperMode, StateLowerMode), want: "MIXED"},
		{name: "lower mode over upper next", state: NewFlagSet(StateLowerMode, StateUpperNext), want: "mixed"},
		{name: "upper next over lower next", state: NewFlagSet(StateUpperNext, StateLowerNext), want: "MIXED"},
		{name: "lower next over cap mode", state: NewFlagSet(StateLowerNext, StateCapMode), want: "mixed"},
		{name: "cap mode", state: NewFlagSet(StateCapMode), want: "Mixed"},
		{name: "cap mode skips no title cap", word: NewFlagSet(WordNoTitleCap), state: NewFlagSet(StateCapMode), want: "mIxEd"},
		{name: "unchanged", want: "mIxEd"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := tc.state.With(StateNoSpaceBefore)
			require.Equal(t, tc.want, Apply(NewWord("mIxEd", "mixed", tc.word), state, false))
		})
	}
}

func TestApplyUnicodeCasing(t *testing.T) {
	t.Parallel()

	state := NewFlagSet(StateNoSpaceBefore, StateUpperNext)
	require.Equal(t, "STRASSE", Apply(NewWord("straße", "straße", WordFlags{}), state, false))

	state = NewFlagSet(StateNoSpaceBefore, StateCapNext)
	require.Equal(t, "Élan", Apply(NewWord("éLAN", "élan", WordFlags{}), state, false))
	require.Empty(t, Apply(NewWord("", "", WordFlags{}), state, false))
}

func TestApplySuffixPrecedence(t *testing.T) {
	t.Parallel()

	state := NewFlagSet(StateNoSpaceBefore)
	word := func(flags ...WordFlag) Word { return NewWord("", "", NewFlagSet(flags...)) }

	require.Equal(t, "\n", Apply(word(WordNewlineAfter, WordTwoNewlinesAfter, WordSpacebar), state, false))
	require.Equal(t, "\n\n", Apply(word(WordTwoNewlinesAfter, WordSpacebar), state, false))
	require.Equal(t, " ", Apply(word(WordSpacebar), state, false))
	require.Empty(t, Apply(word(), state, false))
}

func TestNextStateModesPersistUntilReset(t *testing.T) {
	t.Parallel()

	plain := NewWord("plain", "plain", WordFlags{})
	state := NextState(NewWord("", "", NewFlagSet(WordUpperMode, WordNoSpaceMode)), StateFlags{})
	require.Equal(t, "no_space_mode, upper_mode", state.String())

	state = NextState(plain, state)
	require.Equal(t, "no_space_mode, upper_mode", state.String())

	state = NextState(NewWord("", "", NewFlagSet(WordResetCap)), state)
	require.Equal(t, "no_space_mode", state.String())

	state = NextState(NewWord("", "", NewFlagSet(WordResetNoSpace)), state)
	require.True(t, state.Empty())
}

func TestNextStateNextFlagsNeedNoCapReset(t *testing.T) {
	t.Parallel()

	pending := NewFlagSet(StateCapNext, StateCapNextForce, StateUpperNext, StateLowerNext)

	kept := NextState(NewWord("(", "(", NewFlagSet(WordNoCapReset)), pending)
	require.Equal(t, "cap_next, cap_next_force, lower_next, upper_next", kept.String())

	cleared := NextState(NewWord("x", "x", WordFlags{}), pending)
	require.True(t, cleared.Empty())
}

func TestNextStateSpacingCarryNeedsResetAndNoFormat(t *testing.T) {
	t.Parallel()

	pending := NewFlagSet(StateNoSpaceBefore, StateTwoSpacesBefore)

	kept := NextState(NewWord("", "", NewFlagSet(WordNoSpaceReset, WordNoFormat)), pending)
	require.Equal(t, "no_space_before, two_spaces_before", kept.String())

	dropped := NextState(NewWord("", "", NewFlagSet(WordNoSpaceReset)), pending)
	require.True(t, dropped.Empty())

	dropped = NextState(NewWord("", "", NewFlagSet(WordNoFormat)), pending)
	require.True(t, dropped.Empty())
}

func TestNextStateCapModeSetsCapNext(t *testing.T) {
	t.Parallel()

	state := NextState(NewWord("", "", NewFlagSet(WordCapMode)), StateFlags{})
	require.Equal(t, "cap_next, cap_mode", state.String())
}

func TestNextStatePeriodUsesWrittenForm(t *testing.T) {
	t.Parallel()

	require.True(t, NextState(NewWord("etc.", "et cetera", WordFlags{}), StateFlags{}).Has(StatePrevEndedInPeriod))
	require.False(t, NextState(NewWord("etc", "etc.", WordFlags{}), StateFlags{}).Has(StatePrevEndedInPeriod))
}
