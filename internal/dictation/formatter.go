package dictation

import (
	"log/slog"
	"strings"
)

// InitialState is the state a formatter starts from: no space before the
// first word.
func InitialState() StateFlags {
	return NewFlagSet(StateNoSpaceBefore)
}

// Options configures a Formatter.
type Options struct {
	// State overrides InitialState when non-nil.
	State                *StateFlags
	TwoSpacesAfterPeriod bool
	Lookup               LookupFunc
	Logger               *slog.Logger
}

// Formatter applies formatting to a word stream, carrying state from one
// word to the next. It is not safe for concurrent use.
type Formatter struct {
	state                StateFlags
	initial              StateFlags
	twoSpacesAfterPeriod bool
	parser               Parser
}

// NewFormatter builds a formatter from opts.
func NewFormatter(opts Options) *Formatter {
	initial := InitialState()
	if opts.State != nil {
		initial = opts.State.Clone()
	}
	return &Formatter{
		state:                initial,
		initial:              initial,
		twoSpacesAfterPeriod: opts.TwoSpacesAfterPeriod,
		parser: Parser{
			Decoder:  Decoder{Lookup: opts.Lookup, Logger: opts.Logger},
			Resolver: Resolver{Logger: opts.Logger},
		},
	}
}

// State returns the state the next word will be formatted against.
func (f *Formatter) State() StateFlags {
	return f.state
}

// Reset returns the formatter to the state it was built with.
func (f *Formatter) Reset() {
	f.state = f.initial
}

// FormatInput parses raw tokens and formats them in order. Parsing happens
// before any formatting, so a lookup failure leaves the state untouched.
func (f *Formatter) FormatInput(tokens []string) (string, error) {
	words, err := f.parser.ParseAll(tokens)
	if err != nil {
		return "", err
	}
	return f.FormatWords(words), nil
}

// FormatWords formats already parsed words in order.
func (f *Formatter) FormatWords(words []Word) string {
	var out strings.Builder
	for _, word := range words {
		text, next := Process(word, f.state, f.twoSpacesAfterPeriod)
		out.WriteString(text)
		f.state = next
	}
	return out.String()
}

// Process formats word against state and returns its text with the state
// for the following word.
func Process(word Word, state StateFlags, twoSpacesAfterPeriod bool) (string, StateFlags) {
	return Apply(word, state, twoSpacesAfterPeriod), NextState(word, state)
}

// Apply returns the text for word: its leading space, cased written form,
// and trailing space or newlines.
func Apply(word Word, state StateFlags, twoSpacesAfterPeriod bool) string {
	flags := word.Flags()
	return prefix(flags, state, twoSpacesAfterPeriod) + written(word, state) + suffix(flags)
}

func prefix(flags WordFlags, state StateFlags, twoSpacesAfterPeriod bool) string {
	switch {
	case flags.Has(WordNoFormat),
		flags.Has(WordNoSpaceBefore),
		state.Has(StateNoSpaceBefore),
		state.Has(StateNoSpaceMode),
		state.Has(StateNoSpaceBetween) && flags.Has(WordNoSpaceBetween):
		return ""
	case state.Has(StateTwoSpacesBefore):
		if twoSpacesAfterPeriod {
			return "  "
		}
		return " "
	default:
		return " "
	}
}

func written(word Word, state StateFlags) string {
	flags := word.Flags()
	text := word.Written()

	switch {
	case flags.Has(WordNoFormat):
	case state.Has(StateCapNext), state.Has(StateCapNextForce):
		text = capitalize(text)
	case state.Has(StateUpperMode):
		text = upperCase(text)
	case state.Has(StateLowerMode):
		text = lowerCase(text)
	case state.Has(StateUpperNext):
		text = upperCase(text)
	case state.Has(StateLowerNext):
		text = lowerCase(text)
	case state.Has(StateCapMode) && !flags.Has(WordNoTitleCap):
		text = capitalize(text)
	}

	if state.Has(StatePrevEndedInPeriod) && flags.Has(WordNotAfterPeriod) {
		text = strings.TrimPrefix(text, ".")
	}
	return text
}

func suffix(flags WordFlags) string {
	switch {
	case flags.Has(WordNewlineAfter):
		return "\n"
	case flags.Has(WordTwoNewlinesAfter):
		return "\n\n"
	case flags.Has(WordSpacebar):
		return " "
	default:
		return ""
	}
}

// NextState derives the state for the word following word. Nothing carries
// over from state unless a rule below keeps it.
func NextState(word Word, state StateFlags) StateFlags {
	w := word.Flags()
	var next StateFlags

	keepCap := w.Has(WordNoCapReset)
	resetCap := w.Has(WordResetCap)
	set := func(flag StateFlag, on bool) {
		if on {
			next = next.With(flag)
		}
	}

	set(StateCapNextForce, w.Has(WordCapNextForce) || (keepCap && state.Has(StateCapNextForce)))
	set(StateCapNext, w.Has(WordCapNext) || w.Has(WordCapMode) || (keepCap && state.Has(StateCapNext)))
	set(StateUpperNext, w.Has(WordUpperNext) || (keepCap && state.Has(StateUpperNext)))
	set(StateLowerNext, w.Has(WordLowerNext) || (keepCap && state.Has(StateLowerNext)))
	set(StateCapMode, w.Has(WordCapMode) || (state.Has(StateCapMode) && !resetCap))
	set(StateUpperMode, w.Has(WordUpperMode) || (state.Has(StateUpperMode) && !resetCap))
	set(StateLowerMode, w.Has(WordLowerMode) || (state.Has(StateLowerMode) && !resetCap))

	keepSpace := w.Has(WordNoSpaceReset) && w.Has(WordNoFormat)
	set(StateNoSpaceBefore, w.Has(WordNoSpaceAfter) || (state.Has(StateNoSpaceBefore) && keepSpace))
	set(StateTwoSpacesBefore, w.Has(WordTwoSpacesAfter) || (state.Has(StateTwoSpacesBefore) && keepSpace))
	set(StateNoSpaceBetween, w.Has(WordNoSpaceBetween))
	set(StateNoSpaceMode, w.Has(WordNoSpaceMode) || (state.Has(StateNoSpaceMode) && !w.Has(WordResetNoSpace)))

	set(StatePrevEndedInPeriod, strings.HasSuffix(word.Written(), "."))
	return next
}
