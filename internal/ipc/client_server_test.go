package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSendRoundTrip(t *testing.T) {
	runtimeDir := t.TempDir()
	socketPath := filepath.Join(runtimeDir, "natfmt.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- Serve(ctx, listener, HandlerFunc(func(_ context.Context, req Request) Response {
			require.Equal(t, CommandFormat, req.Command)
			require.Equal(t, "s1", req.Session)
			require.Equal(t, []string{"hello"}, req.Tokens)
			return Response{OK: true, Session: req.Session, Text: "Hello", Message: "ok"}
		}))
	}()

	resp, err := Send(context.Background(), socketPath, Request{Command: CommandFormat, Session: "s1", Tokens: []string{"hello"}}, 200*time.Millisecond)
	require.NoError(t, err)
	require.True(t, resp.OK)
	require.Equal(t, "s1", resp.Session)
	require.Equal(t, "Hello", resp.Text)
	require.Equal(t, "ok", resp.Message)

	cancel()
	require.NoError(t, <-serveDone)
}

func TestSendDecodeResponseError(t *testing.T) {
	runtimeDir := t.TempDir()
	socketPath := filepath.Join(runtimeDir, "natfmt.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		conn, acceptErr := listener.Accept()
		if acceptErr != nil {
			return
		}
		defer conn.Close()

		reader := bufio.NewReader(conn)
		_, _ = reader.ReadBytes('\n')
		_, _ = conn.Write([]byte("not-json\n"))
	}()

	_, err = Send(context.Background(), socketPath, Request{Command: CommandStatus}, 200*time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode response")
}

func TestSendReadResponseError(t *testing.T) {
	runtimeDir := t.TempDir()
	socketPath := filepath.Join(runtimeDir, "natfmt.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		conn, acceptErr := listener.Accept()
		if acceptErr != nil {
			return
		}
		_ = conn.Close()
	}()

	_, err = Send(context.Background(), socketPath, Request{Command: CommandStatus}, 200*time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "read response")
}

func TestServeDecodeRequestErrorResponse(t *testing.T) {
	runtimeDir := t.TempDir()
	socketPath := filepath.Join(runtimeDir, "natfmt.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- Serve(ctx, listener, HandlerFunc(func(_ context.Context, _ Request) Response {
			return Response{OK: true}
		}))
	}()

	conn, err := net.Dial("unix", socketPath)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte("not-json\n"))
	require.NoError(t, err)

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal(line, &resp))
	require.False(t, resp.OK)
	require.Contains(t, resp.Error, "decode request")

	cancel()
	require.NoError(t, <-serveDone)
}

func TestProbe(t *testing.T) {
	runtimeDir := t.TempDir()
	socketPath := filepath.Join(runtimeDir, "natfmt.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- Serve(ctx, listener, HandlerFunc(func(_ context.Context, req Request) Response {
			if req.Command == CommandStatus {
				return Response{OK: true, State: []string{"no_space_before"}}
			}
			return Response{OK: false, Error: "bad"}
		}))
	}()

	alive, probeErr := Probe(context.Background(), socketPath, 200*time.Millisecond)
	require.NoError(t, probeErr)
	require.True(t, alive)

	cancel()
	require.NoError(t, <-serveDone)

	alive, probeErr = Probe(context.Background(), socketPath, 100*time.Millisecond)
	require.NoError(t, probeErr)
	require.False(t, alive)
}

func TestServeAnswersEveryRequestOnOneConnection(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "natfmt.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveDone := make(chan error, 1)
	go func() {
		serveDone <- Serve(ctx, listener, HandlerFunc(func(_ context.Context, req Request) Response {
			return Response{OK: true, Text: strings.Join(req.Tokens, "+")}
		}))
	}()

	conn, err := net.Dial("unix", socketPath)
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(
		`{"command":"format","tokens":["a"]}` + "\n" +
			"\n" +
			"garbage\n" +
			`{"command":"format","tokens":["b","c"]}`,
	))
	require.NoError(t, err)
	require.NoError(t, conn.(*net.UnixConn).CloseWrite())

	reader := bufio.NewReader(conn)
	var responses []Response
	for {
		line, readErr := reader.ReadBytes('\n')
		if readErr != nil {
			break
		}
		var resp Response
		require.NoError(t, json.Unmarshal(line, &resp))
		responses = append(responses, resp)
	}

	require.Len(t, responses, 3)
	require.Equal(t, "a", responses[0].Text)
	require.False(t, responses[1].OK)
	require.Contains(t, responses[1].Error, "decode request")
	require.Equal(t, "b+c", responses[2].Text)

	cancel()
	require.NoError(t, <-serveDone)
}

func TestFailure(t *testing.T) {
	t.Parallel()

	resp := Failure("s1", errors.New("boom"))
	require.False(t, resp.OK)
	require.Equal(t, "s1", resp.Session)
	require.Equal(t, "boom", resp.Error)
}

func TestConnCarriesSeveralRequests(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "natfmt.sock")

	listener, err := net.Listen("unix", socketPath)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	serveDone := make(chan error, 1)
	go func() {
		count := 0
		serveDone <- Serve(ctx, listener, HandlerFunc(func(_ context.Context, req Request) Response {
			count++
			return Response{OK: true, Session: req.Session, Message: strings.Repeat("x", count)}
		}))
	}()

	conn, err := Dial(context.Background(), socketPath, 200*time.Millisecond)
	require.NoError(t, err)

	for i, want := range []string{"x", "xx", "xxx"} {
		resp, doErr := conn.Do(Request{Command: CommandFormat, Session: "s1", Tokens: []string{"word"}})
		require.NoError(t, doErr, i)
		require.Equal(t, want, resp.Message)
		require.Equal(t, "s1", resp.Session)
	}
	require.NoError(t, conn.Close())

	cancel()
	require.NoError(t, <-serveDone)
}
