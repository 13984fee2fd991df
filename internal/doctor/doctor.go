// Package doctor runs readiness diagnostics for config, word info, clipboard, and the server socket.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rbright/natfmt/internal/config"
	"github.com/rbright/natfmt/internal/ipc"
	"github.com/rbright/natfmt/internal/wordinfo"
)

const (
	wordInfoCheckTimeout = 3 * time.Second
	probeTimeout         = 200 * time.Millisecond
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output contract.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		b.WriteString(fmt.Sprintf("[%s] %s: %s\n", status, check.Name, check.Message))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, cfg config.Loaded) Report {
	checks := []Check{}

	message := fmt.Sprintf("loaded %q", cfg.Path)
	if !cfg.Exists {
		message = fmt.Sprintf("%q not found; using defaults", cfg.Path)
	}
	checks = append(checks, Check{Name: "config", Pass: true, Message: message})

	checks = append(checks, Check{
		Name:    "format",
		Pass:    true,
		Message: fmt.Sprintf("initial state [%s], input %s", cfg.Config.Format.InitialState, cfg.Config.Input.Encoding),
	})

	checks = append(checks, checkWordInfo(ctx, cfg.Config.WordInfo))
	checks = append(checks, checkCommand(cfg.Config.Clipboard.Argv, "clipboard_cmd"))

	checks = append(checks, checkEnv("XDG_RUNTIME_DIR", func(v string) bool {
		return strings.TrimSpace(v) != ""
	}, "runtime dir is set", "XDG_RUNTIME_DIR is empty; serve cannot create its socket"))
	if socketPath, err := ipc.RuntimeSocketPath(); err == nil {
		checks = append(checks, checkServer(ctx, socketPath))
	}

	return Report{Checks: checks}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	value := os.Getenv(name)
	if predicate(value) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkWordInfo opens the configured word info source: a table is loaded,
// a gRPC endpoint must become ready.
func checkWordInfo(ctx context.Context, cfg config.WordInfoConfig) Check {
	ctx, cancel := context.WithTimeout(ctx, wordInfoCheckTimeout)
	defer cancel()

	source, err := wordinfo.Open(ctx, cfg)
	if err != nil {
		return Check{Name: "wordinfo", Pass: false, Message: err.Error()}
	}
	defer source.Close()

	if source.Lookup == nil {
		return Check{Name: "wordinfo", Pass: true, Message: "source none; plain tokens carry no flags"}
	}
	return Check{Name: "wordinfo", Pass: true, Message: source.Description}
}

// checkServer reports whether a formatting server owns the socket.
func checkServer(ctx context.Context, socketPath string) Check {
	alive, err := ipc.Probe(ctx, socketPath, probeTimeout)
	switch {
	case err != nil:
		return Check{Name: "server", Pass: false, Message: err.Error()}
	case alive:
		return Check{Name: "server", Pass: true, Message: fmt.Sprintf("running at %s", socketPath)}
	default:
		return Check{Name: "server", Pass: true, Message: fmt.Sprintf("not running (%s)", socketPath)}
	}
}
