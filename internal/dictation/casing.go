package dictation

import (
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Casers carry per-call state, so a fresh one is built for every word.

func upperCase(s string) string {
	return cases.Upper(language.Und).String(s)
}

func lowerCase(s string) string {
	return cases.Lower(language.Und).String(s)
}

// capitalize title-cases the first letter and lowercases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return cases.Title(language.Und).String(s[:size]) + lowerCase(s[size:])
}
