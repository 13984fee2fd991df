package dictation

import (
	"fmt"
	"strings"
)

// Word is one recognized token: its written form, spoken form, and
// formatting hints. Words are values and are never mutated after parsing.
type Word struct {
	written string
	spoken  string
	flags   WordFlags
}

// NewWord builds a word from its parts.
func NewWord(written, spoken string, flags WordFlags) Word {
	return Word{written: written, spoken: spoken, flags: flags}
}

func (w Word) Written() string  { return w.written }
func (w Word) Spoken() string   { return w.spoken }
func (w Word) Flags() WordFlags { return w.flags }

// String renders the word for logs, omitting the spoken form when it
// matches the written form.
func (w Word) String() string {
	info := []string{fmt.Sprintf("%q", w.written)}
	if w.spoken != "" && w.spoken != w.written {
		info = append(info, fmt.Sprintf("%q", w.spoken))
	}
	if flags := w.flags.String(); flags != "" {
		info = append(info, flags)
	}
	return "Word(" + strings.Join(info, ", ") + ")"
}
