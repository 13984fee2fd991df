package wordinfo

import (
	"context"
	"fmt"
	"io"

	"github.com/rbright/natfmt/internal/config"
	"github.com/rbright/natfmt/internal/dictation"
	"github.com/rbright/natfmt/internal/textenc"
)

// Source is an opened word info backend.
type Source struct {
	// Lookup is nil for the "none" source.
	Lookup      dictation.LookupFunc
	Description string
	closer      io.Closer
}

// Close releases any connection held by the source.
func (s Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Open builds the lookup configured by cfg. Remote lookups send tokens in
// the engine's Windows-1252 encoding.
func Open(ctx context.Context, cfg config.WordInfoConfig) (Source, error) {
	switch cfg.Source {
	case config.WordInfoNone, "":
		return Source{Description: "none"}, nil
	case config.WordInfoTable:
		table, err := LoadTable(cfg.TablePath)
		if err != nil {
			return Source{}, err
		}
		return Source{
			Lookup:      table.Lookup,
			Description: fmt.Sprintf("table %s (%d words)", cfg.TablePath, table.Len()),
		}, nil
	case config.WordInfoGRPC:
		client, err := Dial(ctx, cfg.GRPC, ClientOptions{
			CallTimeout: cfg.Timeout(),
			Encoding:    textenc.Windows1252,
		})
		if err != nil {
			return Source{}, err
		}
		return Source{
			Lookup:      client.Lookup,
			Description: "grpc " + cfg.GRPC,
			closer:      client,
		}, nil
	default:
		return Source{}, fmt.Errorf("unsupported word info source %q", cfg.Source)
	}
}
