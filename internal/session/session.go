// Package session keeps one formatter per client session for the formatting server.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/rbright/natfmt/internal/dictation"
	"github.com/rbright/natfmt/internal/ipc"
)

// ErrUnknownSession reports a session id that was never opened or is closed.
var ErrUnknownSession = errors.New("unknown session")

// Result is the output of one format request.
type Result struct {
	Text  string
	State dictation.StateFlags
}

type entry struct {
	mu        sync.Mutex
	formatter *dictation.Formatter
	closed    bool
}

// Registry owns the open sessions. Requests for one session are applied in
// the order they acquire its lock; separate sessions never share state.
type Registry struct {
	logger  *slog.Logger
	options dictation.Options
	commit  Committer
	newID   func() string

	mu       sync.Mutex
	sessions map[string]*entry
}

// NewRegistry builds a registry whose sessions format with options.
// A nil committer discards formatted text.
func NewRegistry(logger *slog.Logger, options dictation.Options, committer Committer) *Registry {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if options.Logger == nil {
		options.Logger = logger
	}
	if committer == nil {
		committer = CommitFunc(func(context.Context, string) error { return nil })
	}
	return &Registry{
		logger:   logger,
		options:  options,
		commit:   committer,
		newID:    uuid.NewString,
		sessions: make(map[string]*entry),
	}
}

// Open starts a session in the configured initial state and returns its id.
func (r *Registry) Open() (string, dictation.StateFlags) {
	formatter := dictation.NewFormatter(r.options)

	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.newID()
	for r.sessions[id] != nil {
		id = r.newID()
	}
	r.sessions[id] = &entry{formatter: formatter}
	return id, formatter.State()
}

// Len returns the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Format formats tokens in the session's current state and commits the text.
// A lookup failure leaves the session state unchanged.
func (r *Registry) Format(ctx context.Context, id string, tokens []string) (Result, error) {
	var result Result
	err := r.with(id, func(e *entry) error {
		text, err := e.formatter.FormatInput(tokens)
		result = Result{Text: text, State: e.formatter.State()}
		return err
	})
	if err != nil {
		return result, err
	}

	if result.Text != "" {
		if err := r.commit.Commit(ctx, result.Text); err != nil {
			return result, fmt.Errorf("commit formatted text: %w", err)
		}
	}
	return result, nil
}

// Reset returns the session to the initial state.
func (r *Registry) Reset(id string) (dictation.StateFlags, error) {
	var state dictation.StateFlags
	err := r.with(id, func(e *entry) error {
		e.formatter.Reset()
		state = e.formatter.State()
		return nil
	})
	return state, err
}

// Close forgets the session. A format request already holding the session
// finishes first.
func (r *Registry) Close(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}

	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	return nil
}

func (r *Registry) with(id string, fn func(*entry) error) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return fmt.Errorf("%w: %q", ErrUnknownSession, id)
	}
	return fn(e)
}

// Handle serves IPC commands against the registry.
func (r *Registry) Handle(ctx context.Context, req ipc.Request) ipc.Response {
	resp := r.handle(ctx, req)
	r.logger.Info("ipc request",
		"command", req.Command,
		"session", req.Session,
		"tokens", len(req.Tokens),
		"ok", resp.OK,
		"error", resp.Error,
	)
	return resp
}

func (r *Registry) handle(ctx context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		return ipc.Response{OK: true, Message: fmt.Sprintf("%d sessions open", r.Len())}
	case ipc.CommandOpen:
		id, state := r.Open()
		return ipc.Response{OK: true, Session: id, State: state.Names()}
	case ipc.CommandFormat:
		result, err := r.Format(ctx, req.Session, req.Tokens)
		if err != nil {
			resp := ipc.Failure(req.Session, err)
			resp.Text = result.Text
			return resp
		}
		return ipc.Response{OK: true, Session: req.Session, Text: result.Text, State: result.State.Names()}
	case ipc.CommandReset:
		state, err := r.Reset(req.Session)
		if err != nil {
			return ipc.Failure(req.Session, err)
		}
		return ipc.Response{OK: true, Session: req.Session, State: state.Names()}
	case ipc.CommandClose:
		if err := r.Close(req.Session); err != nil {
			return ipc.Failure(req.Session, err)
		}
		return ipc.Response{OK: true, Session: req.Session, Message: "closed"}
	default:
		return ipc.Response{OK: false, Session: req.Session, Error: fmt.Sprintf("unknown command: %s", req.Command)}
	}
}
