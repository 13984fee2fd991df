package config

import (
	"fmt"
	"strings"

	"github.com/rbright/natfmt/internal/dictation"
	"github.com/rbright/natfmt/internal/textenc"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if _, err := textenc.ParseEncoding(string(cfg.Input.Encoding)); err != nil {
		return nil, fmt.Errorf("input.encoding: %w", err)
	}

	switch cfg.WordInfo.Source {
	case WordInfoNone:
		if strings.TrimSpace(cfg.WordInfo.TablePath) != "" || strings.TrimSpace(cfg.WordInfo.GRPC) != "" {
			warnings = append(warnings, Warning{Message: "wordinfo.source is none; wordinfo.table and wordinfo.grpc are ignored"})
		}
	case WordInfoTable:
		if strings.TrimSpace(cfg.WordInfo.TablePath) == "" {
			return nil, fmt.Errorf("wordinfo.table must not be empty when wordinfo.source=table")
		}
	case WordInfoGRPC:
		if strings.TrimSpace(cfg.WordInfo.GRPC) == "" {
			return nil, fmt.Errorf("wordinfo.grpc must not be empty when wordinfo.source=grpc")
		}
	default:
		return nil, fmt.Errorf("wordinfo.source must be one of: none, table, grpc")
	}
	if cfg.WordInfo.TimeoutMS <= 0 {
		return nil, fmt.Errorf("wordinfo.timeout_ms must be > 0")
	}

	if len(cfg.Clipboard.Argv) == 0 {
		return nil, fmt.Errorf("clipboard_cmd must not be empty")
	}

	if !cfg.Format.InitialState.Has(dictation.StateNoSpaceBefore) {
		warnings = append(warnings, Warning{Message: "format.initial_state lacks no_space_before; output will start with a space"})
	}

	return warnings, nil
}
