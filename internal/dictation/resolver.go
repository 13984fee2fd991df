package dictation

import (
	"log/slog"
	"strings"
)

const (
	leftPropertyPrefix  = "left-"
	rightPropertyPrefix = "right-"
)

var (
	sentenceEndFlags = NewFlagSet(WordTwoSpacesAfter, WordCapNext, WordNoSpaceBefore)
	attachLeftFlags  = NewFlagSet(WordNoSpaceBefore)
	decimalFlags     = NewFlagSet(WordNoSpaceAfter, WordNoSpaceBetween, WordNoSpaceBefore)
	joinFlags        = NewFlagSet(WordNoSpaceBefore, WordNoSpaceAfter)
	capForceFlags    = NewFlagSet(WordNoFormat, WordNoSpaceReset, WordCapNextForce)
	capResetFlags    = NewFlagSet(WordNoFormat, WordNoSpaceReset, WordResetCap)
	letterFlags      = NewFlagSet(WordNoSpaceAfter)

	leftBracketFlags  = NewFlagSet(WordNoCapReset, WordNoSpaceAfter)
	rightBracketFlags = NewFlagSet(WordNoCapReset, WordNoSpaceBefore, WordNoSpaceReset)

	// propertyTemplates maps the property part of `written\property\spoken`
	// tokens to their flags. It is never written after init.
	propertyTemplates = map[string]WordFlags{
		"space-bar": NewFlagSet(WordSpacebar, WordNoSpaceAfter, WordNoFormat, WordNoCapReset, WordNoSpaceBefore),

		"period":           sentenceEndFlags,
		"question-mark":    sentenceEndFlags,
		"exclamation-mark": sentenceEndFlags,

		"comma":          attachLeftFlags,
		"colon":          attachLeftFlags,
		"semicolon":      attachLeftFlags,
		"apostrophe-s":   attachLeftFlags,
		"apostrophe-ess": attachLeftFlags,

		"point": decimalFlags,
		"dot":   decimalFlags,

		"hyphen":  joinFlags,
		"at-sign": joinFlags,

		"new-line":      NewFlagSet(WordNoFormat, WordNoSpaceAfter, WordNoCapReset, WordNewlineAfter),
		"new-paragraph": NewFlagSet(WordNoFormat, WordNoSpaceAfter, WordCapNext, WordTwoNewlinesAfter),

		"letter":           letterFlags,
		"uppercase-letter": letterFlags,

		"spelling-cap": capForceFlags,
		"cap":          capForceFlags,
		"caps-on":      NewFlagSet(WordNoFormat, WordNoSpaceReset, WordCapMode),
		"caps-off":     capResetFlags,
		"all-caps":     NewFlagSet(WordNoFormat, WordNoSpaceReset, WordUpperNext),
		"all-caps-on":  NewFlagSet(WordNoFormat, WordNoSpaceReset, WordUpperMode),
		"all-caps-off": capResetFlags,
		"no-caps":      NewFlagSet(WordNoFormat, WordNoSpaceReset, WordLowerNext),
		"no-caps-on":   NewFlagSet(WordNoFormat, WordNoSpaceReset, WordLowerMode),
		"no-caps-off":  capResetFlags,

		"no-space":     NewFlagSet(WordNoFormat, WordNoCapReset, WordNoSpaceAfter),
		"no-space-on":  NewFlagSet(WordNoFormat, WordNoCapReset, WordNoSpaceMode),
		"no-space-off": NewFlagSet(WordNoFormat, WordNoCapReset, WordResetNoSpace),
	}
)

// PropertyTemplate returns a copy of the flags for a word property.
// Properties starting with "left-" or "right-" match the opening and
// closing punctuation templates.
func PropertyTemplate(property string) (WordFlags, bool) {
	if flags, ok := propertyTemplates[property]; ok {
		return flags.Clone(), true
	}
	switch {
	case strings.HasPrefix(property, leftPropertyPrefix):
		return leftBracketFlags.Clone(), true
	case strings.HasPrefix(property, rightPropertyPrefix):
		return rightBracketFlags.Clone(), true
	}
	return WordFlags{}, false
}

// Resolver parses `written\property\spoken` tokens using the static
// property templates.
type Resolver struct {
	Logger *slog.Logger
}

// Resolve parses token. ok is false when token is not in the three-part
// form; the word then carries the raw token as both forms and no flags.
// Unknown properties are logged and resolve to empty flags.
func (r Resolver) Resolve(token string) (word Word, ok bool) {
	parts := strings.Split(token, `\`)
	if len(parts) != 3 {
		return NewWord(token, token, WordFlags{}), false
	}

	written, property, spoken := parts[0], parts[1], parts[2]
	flags, known := PropertyTemplate(property)
	if !known && r.Logger != nil {
		r.Logger.Warn("unknown word property", "token", token, "property", property)
	}

	word = NewWord(written, spoken, flags)
	if r.Logger != nil {
		r.Logger.Debug("parsed input", "input", token, "word", word.String())
	}
	return word, true
}

// IsPropertyToken reports whether token has the `written\property\spoken` shape.
func IsPropertyToken(token string) bool {
	return strings.Count(token, `\`) == 2
}
