// Package app wires parsed commands to formatting, the formatting server, and diagnostics.
package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/rbright/natfmt/internal/cli"
	"github.com/rbright/natfmt/internal/config"
	"github.com/rbright/natfmt/internal/dictation"
	"github.com/rbright/natfmt/internal/doctor"
	"github.com/rbright/natfmt/internal/ipc"
	"github.com/rbright/natfmt/internal/logging"
	"github.com/rbright/natfmt/internal/output"
	"github.com/rbright/natfmt/internal/session"
	"github.com/rbright/natfmt/internal/textenc"
	"github.com/rbright/natfmt/internal/version"
	"github.com/rbright/natfmt/internal/wordinfo"
)

const (
	binaryName   = "natfmt"
	sendTimeout  = 2 * time.Second
	maxTokenLine = 1 << 20
)

type Runner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	r := Runner{Stdin: stdin, Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText(binaryName))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText(binaryName))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	cfg := cfgLoaded.Config
	if parsed.TwoSpaces {
		cfg.Format.TwoSpacesAfterPeriod = true
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
		"wordinfo", cfg.WordInfo.Source,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(ctx, cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandFormat:
		return r.commandFormat(ctx, parsed, cfg, logger)
	case cli.CommandServe:
		return r.commandServe(ctx, parsed, cfg, logger)
	case cli.CommandSend:
		return r.commandSend(ctx, parsed, cfg)
	case cli.CommandWordInfoServe:
		return r.commandWordInfoServe(ctx, parsed, logger)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandFormat(ctx context.Context, parsed cli.Parsed, cfg config.Config, logger *slog.Logger) int {
	tokens := parsed.Tokens
	if len(tokens) == 0 {
		var err error
		tokens, err = readTokens(r.Stdin, cfg.Input.Encoding)
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
	}

	source, err := wordinfo.Open(ctx, cfg.WordInfo)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: open word info: %v\n", err)
		return 1
	}
	defer func() { _ = source.Close() }()

	formatter := dictation.NewFormatter(formatOptions(cfg, source, logger))
	text, err := formatter.FormatInput(tokens)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("format failed", "tokens", len(tokens), "error", err.Error())
		return 1
	}
	logger.Info("format complete", "tokens", len(tokens), "text_length", len(text))

	fmt.Fprint(r.Stdout, text)
	if cfg.Format.TrailingNewline {
		fmt.Fprintln(r.Stdout)
	}

	if parsed.Copy {
		if err := output.NewCommitter(cfg, logger).Commit(ctx, text); err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
	}
	return 0
}

func (r Runner) commandServe(ctx context.Context, parsed cli.Parsed, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8, nil)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	source, err := wordinfo.Open(ctx, cfg.WordInfo)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: open word info: %v\n", err)
		return 1
	}
	defer func() { _ = source.Close() }()

	var committer session.Committer
	if parsed.Copy {
		committer = output.NewCommitter(cfg, logger)
	}
	registry := session.NewRegistry(logger, formatOptions(cfg, source, logger), committer)

	logger.Info("server listening", "socket", socketPath, "wordinfo", source.Description)
	fmt.Fprintf(r.Stdout, "listening on %s\n", socketPath)

	if err := ipc.Serve(ctx, listener, registry); err != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", err)
		return 1
	}
	logger.Info("server stopped", "sessions_open", registry.Len())
	return 0
}

func (r Runner) commandSend(ctx context.Context, parsed cli.Parsed, cfg config.Config) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	req := ipc.Request{Command: parsed.Request, Session: parsed.Session, Tokens: parsed.Tokens}
	resp, handled, err := tryForward(ctx, socketPath, req)
	if !handled {
		fmt.Fprintf(r.Stderr, "error: no natfmt server running\n")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	switch req.Command {
	case ipc.CommandOpen:
		fmt.Fprintln(r.Stdout, resp.Session)
	case ipc.CommandFormat:
		fmt.Fprint(r.Stdout, resp.Text)
		if cfg.Format.TrailingNewline {
			fmt.Fprintln(r.Stdout)
		}
	case ipc.CommandReset:
		fmt.Fprintln(r.Stdout, strings.Join(resp.State, ", "))
	default:
		if resp.Message != "" {
			fmt.Fprintln(r.Stdout, resp.Message)
		}
	}
	return 0
}

func (r Runner) commandWordInfoServe(ctx context.Context, parsed cli.Parsed, logger *slog.Logger) int {
	table, err := wordinfo.LoadTable(parsed.TablePath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := net.Listen("tcp", parsed.ListenAddr)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: listen %s: %v\n", parsed.ListenAddr, err)
		return 1
	}

	logger.Info("word info server listening", "addr", listener.Addr().String(), "words", table.Len())
	fmt.Fprintf(r.Stdout, "serving %d words on %s\n", table.Len(), listener.Addr())

	server := wordinfo.NewServer(table, textenc.Windows1252, logger)
	if err := wordinfo.Serve(ctx, listener, server); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func formatOptions(cfg config.Config, source wordinfo.Source, logger *slog.Logger) dictation.Options {
	state := cfg.Format.InitialState
	return dictation.Options{
		State:                &state,
		TwoSpacesAfterPeriod: cfg.Format.TwoSpacesAfterPeriod,
		Lookup:               source.Lookup,
		Logger:               logger,
	}
}

// readTokens reads one raw token per line, decoding each line from enc.
// Blank lines are skipped.
func readTokens(in io.Reader, enc textenc.Encoding) ([]string, error) {
	if in == nil {
		return nil, nil
	}

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), maxTokenLine)

	var tokens []string
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		token, err := textenc.Decode([]byte(line), enc)
		if err != nil {
			return nil, fmt.Errorf("decode token on line %d: %w", lineNo, err)
		}
		tokens = append(tokens, token)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tokens: %w", err)
	}
	return tokens, nil
}

func tryForward(ctx context.Context, socketPath string, req ipc.Request) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, req, sendTimeout)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if isSocketMissing(err) {
		return ipc.Response{}, false, nil
	}
	if isConnectionRefused(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", req.Command, err)
}

func isSocketMissing(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist) ||
		strings.Contains(err.Error(), "no such file or directory")
}

func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}
