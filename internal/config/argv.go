package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// argvLexer splits a command string shell-style. Single quotes are fully
// literal; inside double quotes a backslash escapes only `"` and `\`.
type argvLexer struct {
	input   string
	argv    []string
	current strings.Builder
	started bool
}

func (l *argvLexer) emit() {
	if !l.started {
		return
	}
	l.argv = append(l.argv, l.current.String())
	l.current.Reset()
	l.started = false
}

func (l *argvLexer) write(r rune) {
	l.current.WriteRune(r)
	l.started = true
}

func (l *argvLexer) run() ([]string, error) {
	runes := []rune(l.input)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			l.emit()
		case r == '\\':
			i++
			if i >= len(runes) {
				return nil, fmt.Errorf("unterminated escape sequence in command: %q", l.input)
			}
			l.write(runes[i])
		case r == '\'':
			end := indexRune(runes, i+1, '\'')
			if end < 0 {
				return nil, fmt.Errorf("unterminated quote in command: %q", l.input)
			}
			l.started = true
			l.current.WriteString(string(runes[i+1 : end]))
			i = end
		case r == '"':
			l.started = true
			closed := false
			for i++; i < len(runes); i++ {
				c := runes[i]
				if c == '"' {
					closed = true
					break
				}
				if c == '\\' && i+1 < len(runes) && (runes[i+1] == '"' || runes[i+1] == '\\') {
					i++
					c = runes[i]
				}
				l.current.WriteRune(c)
			}
			if !closed {
				return nil, fmt.Errorf("unterminated quote in command: %q", l.input)
			}
		default:
			l.write(r)
		}
	}
	l.emit()
	return l.argv, nil
}

func indexRune(runes []rune, from int, target rune) int {
	for i := from; i < len(runes); i++ {
		if runes[i] == target {
			return i
		}
	}
	return -1
}

// parseArgv splits a command string into argv. A leading "~/" on the
// program path expands to the user's home directory.
func parseArgv(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.HasPrefix(input, "#") {
		return nil, nil
	}

	lexer := argvLexer{input: input}
	argv, err := lexer.run()
	if err != nil {
		return nil, err
	}

	if len(argv) > 0 && strings.HasPrefix(argv[0], "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			argv[0] = filepath.Join(home, argv[0][2:])
		}
	}
	return argv, nil
}

func mustParseArgv(input string) []string {
	argv, err := parseArgv(input)
	if err != nil {
		panic(err)
	}
	return argv
}
