package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestInit_JSON(t *testing.T) {
	t.Cleanup(InitDefault)

	var buf bytes.Buffer
	Init(Options{Level: "debug", Format: FormatJSON, Output: &buf})
	if zerolog.GlobalLevel() != zerolog.DebugLevel {
		t.Errorf("global level = %v, want debug", zerolog.GlobalLevel())
	}

	log.Info().Str("k", "v").Msg("hello")
	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if line["message"] != "hello" || line["k"] != "v" || line["level"] != "info" {
		t.Errorf("unexpected log line: %v", line)
	}
}

func TestInit_InvalidLevel(t *testing.T) {
	t.Cleanup(InitDefault)

	var buf bytes.Buffer
	Init(Options{Level: "chatty", Format: "xml", Output: &buf, NoColor: true})
	if zerolog.GlobalLevel() != zerolog.InfoLevel {
		t.Errorf("global level = %v, want info", zerolog.GlobalLevel())
	}
	log.Debug().Msg("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug message should be filtered, got %q", buf.String())
	}
}
