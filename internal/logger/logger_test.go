package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewWritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "api.log")
	log := New(Config{Level: "debug", File: path, Service: "vehicle-request-api"})

	log.Debug().Str("ticket", "GA-TR-01").Msg("hello")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, `"service":"vehicle-request-api"`) || !strings.Contains(line, `"ticket":"GA-TR-01"`) {
		t.Fatalf("unexpected log line %q", line)
	}
}

func TestNewFallsBackToInfo(t *testing.T) {
	if got := New(Config{Level: "verbose"}).GetLevel(); got != zerolog.InfoLevel {
		t.Fatalf("level = %v, want info", got)
	}
	if got := New(Config{Level: "WARN"}).GetLevel(); got != zerolog.WarnLevel {
		t.Fatalf("level = %v, want warn", got)
	}
}

func TestGormWriterUsesConfiguredLevel(t *testing.T) {
	var buf bytes.Buffer
	w := &printfWriter{log: zerolog.New(&buf), level: zerolog.WarnLevel}
	w.Printf("slow sql %dms", 700)
	if !strings.Contains(buf.String(), `"level":"warn"`) || !strings.Contains(buf.String(), "slow sql 700ms") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
