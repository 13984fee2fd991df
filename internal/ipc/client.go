package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"time"
)

// Conn is a client connection that can carry several requests in order,
// keeping one session's format calls on a single socket.
type Conn struct {
	conn    net.Conn
	reader  *bufio.Reader
	enc     *json.Encoder
	timeout time.Duration
}

// Dial connects to the server socket. timeout bounds the dial and each
// later request.
func Dial(ctx context.Context, path string, timeout time.Duration) (*Conn, error) {
	dialer := net.Dialer{Timeout: timeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, err
	}
	return &Conn{
		conn:    conn,
		reader:  bufio.NewReader(conn),
		enc:     json.NewEncoder(conn),
		timeout: timeout,
	}, nil
}

// Do sends req and waits for its response line.
func (c *Conn) Do(req Request) (Response, error) {
	if err := c.conn.SetDeadline(time.Now().Add(c.timeout)); err != nil {
		return Response{}, fmt.Errorf("set deadline: %w", err)
	}

	if err := c.enc.Encode(req); err != nil {
		return Response{}, fmt.Errorf("encode request: %w", err)
	}

	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return Response{}, fmt.Errorf("read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return Response{}, fmt.Errorf("decode response: %w", err)
	}
	return resp, nil
}

// Close closes the connection.
func (c *Conn) Close() error {
	return c.conn.Close()
}

// Send performs a single request/response roundtrip on a fresh connection.
func Send(ctx context.Context, path string, req Request, timeout time.Duration) (Response, error) {
	conn, err := Dial(ctx, path, timeout)
	if err != nil {
		return Response{}, err
	}
	defer conn.Close()
	return conn.Do(req)
}

// Probe checks whether a responsive owner is currently listening on path.
func Probe(ctx context.Context, path string, timeout time.Duration) (bool, error) {
	_, err := Send(ctx, path, Request{Command: CommandStatus}, timeout)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist), errors.Is(err, syscall.ECONNREFUSED):
		return false, nil
	default:
		return false, fmt.Errorf("probe socket: %w", err)
	}
}
