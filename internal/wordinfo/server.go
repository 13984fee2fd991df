package wordinfo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/rbright/natfmt/internal/textenc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Server answers word info lookups from a Table.
type Server struct {
	table    *Table
	encoding textenc.Encoding
	logger   *slog.Logger
}

// NewServer serves table, decoding request tokens from enc.
func NewServer(table *Table, enc textenc.Encoding, logger *slog.Logger) *Server {
	return &Server{table: table, encoding: enc, logger: logger}
}

// LookupWord implements LookupServer.
func (s *Server) LookupWord(_ context.Context, req *wrapperspb.BytesValue) (*wrapperspb.UInt32Value, error) {
	token, err := textenc.Decode(req.GetValue(), s.encoding)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "decode token: %v", err)
	}

	info, ok, _ := s.table.Lookup(token)
	if s.logger != nil {
		s.logger.Debug("word info lookup", "token", token, "found", ok, "info", info)
	}
	if !ok {
		return nil, status.Errorf(codes.NotFound, "token %q is not in the vocabulary", token)
	}
	return wrapperspb.UInt32(info), nil
}

// Serve runs the word info service on listener until ctx is cancelled.
func Serve(ctx context.Context, listener net.Listener, srv LookupServer) error {
	server := grpc.NewServer()
	RegisterLookupServer(server, srv)

	serveErrCh := make(chan error, 1)
	go func() {
		serveErrCh <- server.Serve(listener)
	}()

	select {
	case <-ctx.Done():
		server.GracefulStop()
		<-serveErrCh
		return nil
	case err := <-serveErrCh:
		if err == nil || errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return fmt.Errorf("serve word info: %w", err)
	}
}
