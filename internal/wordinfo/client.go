package wordinfo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rbright/natfmt/internal/textenc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ClientOptions controls dialing and per-lookup behavior.
type ClientOptions struct {
	DialTimeout time.Duration
	CallTimeout time.Duration
	Encoding    textenc.Encoding
	DialOptions []grpc.DialOption
}

// Client looks up word info on a remote engine bridge.
type Client struct {
	conn        *grpc.ClientConn
	callTimeout time.Duration
	encoding    textenc.Encoding
}

// Dial connects to endpoint and waits until the connection is ready.
func Dial(ctx context.Context, endpoint string, opts ClientOptions) (*Client, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("word info endpoint is empty")
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 3 * time.Second
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 500 * time.Millisecond
	}
	if opts.Encoding == "" {
		opts.Encoding = textenc.Windows1252
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, opts.DialOptions...)
	conn, err := grpc.NewClient(endpoint, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("dial word info grpc %q: %w", endpoint, err)
	}

	readyCtx, cancel := context.WithTimeout(ctx, opts.DialTimeout)
	defer cancel()
	conn.Connect()
	if err := WaitForReady(readyCtx, conn); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("wait for word info grpc readiness: %w", err)
	}

	return &Client{conn: conn, callTimeout: opts.CallTimeout, encoding: opts.Encoding}, nil
}

// Lookup fetches the info for token. A NotFound reply is reported as
// found=false rather than an error.
func (c *Client) Lookup(token string) (uint32, bool, error) {
	raw, err := textenc.Encode(token, c.encoding)
	if err != nil {
		return 0, false, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.callTimeout)
	defer cancel()

	out := new(wrapperspb.UInt32Value)
	if err := c.conn.Invoke(ctx, lookupMethod, wrapperspb.Bytes(raw), out); err != nil {
		if status.Code(err) == codes.NotFound {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("lookup %q: %w", token, err)
	}
	return out.GetValue(), true, nil
}

// Close releases the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
