// Package ipc carries newline-delimited JSON formatting requests over a unix socket.
package ipc

// Commands understood by the formatting server.
const (
	CommandStatus = "status"
	CommandOpen   = "open"
	CommandFormat = "format"
	CommandReset  = "reset"
	CommandClose  = "close"
)

// Request is one client command. Session is required for every command
// except status and open; Tokens is only read by format.
type Request struct {
	Command string   `json:"command"`
	Session string   `json:"session,omitempty"`
	Tokens  []string `json:"tokens,omitempty"`
}

// Response answers one Request. State lists the session's formatting state
// flag names after the command ran.
type Response struct {
	OK      bool     `json:"ok"`
	Session string   `json:"session,omitempty"`
	Text    string   `json:"text,omitempty"`
	State   []string `json:"state,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Failure builds an error response.
func Failure(session string, err error) Response {
	return Response{OK: false, Session: session, Error: err.Error()}
}
