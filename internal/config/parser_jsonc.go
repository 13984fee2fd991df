package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rbright/natfmt/internal/dictation"
	"github.com/rbright/natfmt/internal/textenc"
)

type jsoncConfig struct {
	Format   *jsoncFormat   `json:"format"`
	Input    *jsoncInput    `json:"input"`
	WordInfo *jsoncWordInfo `json:"wordinfo"`

	ClipboardCmd *string `json:"clipboard_cmd"`
}

type jsoncFormat struct {
	TwoSpacesAfterPeriod *bool            `json:"two_spaces_after_period"`
	InitialState         *jsoncStringList `json:"initial_state"`
	TrailingNewline      *bool            `json:"trailing_newline"`
}

type jsoncInput struct {
	Encoding *string `json:"encoding"`
}

type jsoncWordInfo struct {
	Source    *string `json:"source"`
	Table     *string `json:"table"`
	GRPC      *string `json:"grpc"`
	TimeoutMS *int    `json:"timeout_ms"`
}

// jsoncStringList accepts either ["a", "b"] or "a, b".
type jsoncStringList []string

func (l *jsoncStringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("expected string array or comma-delimited string")
	}
	out := jsoncStringList{}
	for _, part := range strings.Split(single, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*l = out
	return nil
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	warnings, err := payload.applyTo(&cfg)
	if err != nil {
		return Config{}, nil, err
	}

	validatedWarnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	warnings = append(warnings, validatedWarnings...)
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if payload.Format != nil {
		if payload.Format.TwoSpacesAfterPeriod != nil {
			cfg.Format.TwoSpacesAfterPeriod = *payload.Format.TwoSpacesAfterPeriod
		}
		if payload.Format.InitialState != nil {
			state, err := dictation.ParseFlagSet[dictation.StateFlag](*payload.Format.InitialState...)
			if err != nil {
				return nil, fmt.Errorf("invalid format.initial_state: %w", err)
			}
			cfg.Format.InitialState = state
		}
		if payload.Format.TrailingNewline != nil {
			cfg.Format.TrailingNewline = *payload.Format.TrailingNewline
		}
	}

	if payload.Input != nil && payload.Input.Encoding != nil {
		enc, err := textenc.ParseEncoding(*payload.Input.Encoding)
		if err != nil {
			return nil, fmt.Errorf("invalid input.encoding: %w", err)
		}
		cfg.Input.Encoding = enc
	}

	if payload.WordInfo != nil {
		if payload.WordInfo.Source != nil {
			cfg.WordInfo.Source = WordInfoSource(strings.ToLower(strings.TrimSpace(*payload.WordInfo.Source)))
		}
		if payload.WordInfo.Table != nil {
			cfg.WordInfo.TablePath = strings.TrimSpace(*payload.WordInfo.Table)
		}
		if payload.WordInfo.GRPC != nil {
			cfg.WordInfo.GRPC = strings.TrimSpace(*payload.WordInfo.GRPC)
		}
		if payload.WordInfo.TimeoutMS != nil {
			cfg.WordInfo.TimeoutMS = *payload.WordInfo.TimeoutMS
		}
	}

	if payload.ClipboardCmd != nil {
		raw := *payload.ClipboardCmd
		argv, err := parseArgv(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid clipboard_cmd: %w", err)
		}
		cfg.Clipboard = CommandConfig{Raw: raw, Argv: argv}
	}

	return warnings, nil
}
