// Package cli parses natfmt command-line arguments.
package cli

import (
	"errors"
	"fmt"
	"strings"
)

type Command string

const (
	CommandFormat        Command = "format"
	CommandServe         Command = "serve"
	CommandSend          Command = "send"
	CommandWordInfoServe Command = "wordinfo-serve"
	CommandDoctor        Command = "doctor"
	CommandVersion       Command = "version"
	CommandHelp          Command = "help"
)

// DefaultListenAddr is where wordinfo-serve listens without --listen.
const DefaultListenAddr = "127.0.0.1:50071"

var validCommands = map[Command]struct{}{
	CommandFormat:        {},
	CommandServe:         {},
	CommandSend:          {},
	CommandWordInfoServe: {},
	CommandDoctor:        {},
	CommandVersion:       {},
	CommandHelp:          {},
}

// sendCommands are the server requests reachable through `send`.
var sendCommands = map[string]struct{}{
	"status": {},
	"open":   {},
	"format": {},
	"reset":  {},
	"close":  {},
}

type Parsed struct {
	Command    Command
	ConfigPath string
	ShowHelp   bool

	TwoSpaces bool
	Copy      bool

	// Tokens holds the raw dictation tokens for format and send format.
	Tokens []string

	// TablePath and ListenAddr configure wordinfo-serve.
	TablePath  string
	ListenAddr string

	// Request and Session configure send.
	Request string
	Session string
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		case "--two-spaces":
			parsed.TwoSpaces = true
		case "--copy":
			parsed.Copy = true
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			if _, ok := validCommands[cmd]; !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
			if err := parseCommandArgs(&parsed, args[i+1:]); err != nil {
				return Parsed{}, err
			}
			return parsed, nil
		}
	}

	return parsed, nil
}

// parseCommandArgs consumes everything after the command word.
func parseCommandArgs(parsed *Parsed, rest []string) error {
	switch parsed.Command {
	case CommandFormat:
		parsed.Tokens = rest
		return nil
	case CommandWordInfoServe:
		return parseWordInfoServeArgs(parsed, rest)
	case CommandSend:
		return parseSendArgs(parsed, rest)
	default:
		if len(rest) > 0 {
			return fmt.Errorf("unexpected arguments after command %q", parsed.Command)
		}
		return nil
	}
}

func parseWordInfoServeArgs(parsed *Parsed, rest []string) error {
	parsed.ListenAddr = DefaultListenAddr
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case "--table":
			i++
			if i >= len(rest) {
				return errors.New("--table requires a path")
			}
			parsed.TablePath = rest[i]
		case "--listen":
			i++
			if i >= len(rest) {
				return errors.New("--listen requires an address")
			}
			parsed.ListenAddr = rest[i]
		default:
			return fmt.Errorf("unexpected argument for %s: %s", parsed.Command, rest[i])
		}
	}
	if parsed.TablePath == "" {
		return fmt.Errorf("%s requires --table PATH", parsed.Command)
	}
	return nil
}

func parseSendArgs(parsed *Parsed, rest []string) error {
	if len(rest) == 0 {
		return errors.New("send requires a request: status, open, format, reset, or close")
	}
	parsed.Request = rest[0]
	if _, ok := sendCommands[parsed.Request]; !ok {
		return fmt.Errorf("unknown send request: %s", parsed.Request)
	}

	rest = rest[1:]
	if len(rest) > 0 && rest[0] == "--session" {
		if len(rest) < 2 {
			return errors.New("--session requires an id")
		}
		parsed.Session = rest[1]
		rest = rest[2:]
	}

	switch parsed.Request {
	case "status", "open":
		if parsed.Session != "" || len(rest) > 0 {
			return fmt.Errorf("send %s takes no arguments", parsed.Request)
		}
	case "format":
		if parsed.Session == "" {
			return errors.New("send format requires --session ID")
		}
		parsed.Tokens = rest
	default:
		if parsed.Session == "" {
			return fmt.Errorf("send %s requires --session ID", parsed.Request)
		}
		if len(rest) > 0 {
			return fmt.Errorf("send %s takes no tokens", parsed.Request)
		}
	}
	return nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] [--two-spaces] [--copy] <command> [args...]

Commands:
  format [TOKEN...]             Format tokens (or one token per stdin line) and print the text
  serve                         Run the formatting server on $XDG_RUNTIME_DIR/natfmt.sock
  send REQUEST [--session ID] [TOKEN...]
                                Send status, open, format, reset, or close to the server
  wordinfo-serve --table PATH [--listen ADDR]
                                Serve a word info table over gRPC (default %[2]s)
  doctor                        Run configuration and environment checks
  version                       Print version information
  help                          Show this help

Tokens:
  word                          plain word, flags from the word info source
  written\spoken                word with a distinct spoken form
  written\property\spoken       word with a property such as period or new-line

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/natfmt/config.jsonc)
  --two-spaces    Put two spaces after sentence-ending punctuation
  --copy          Also copy formatted text with the clipboard command
  -h, --help      Show help
  --version       Show version
`, binaryName, DefaultListenAddr)
}
