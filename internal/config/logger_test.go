package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/simp-lee/logger"
)

func boolPtr(b bool) *bool { return &b }

func TestSetupLogger_LevelMapping(t *testing.T) {
	tests := []struct {
		level     string
		wantLevel slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("level_"+tt.level, func(t *testing.T) {
			log, err := SetupLogger(&LogConfig{Level: tt.level, Format: "text"})
			if err != nil {
				t.Fatalf("SetupLogger error: %v", err)
			}
			defer log.Close()

			if !log.Enabled(context.TODO(), tt.wantLevel) {
				t.Errorf("level %v should be enabled", tt.wantLevel)
			}
			if tt.wantLevel > slog.LevelDebug && log.Enabled(context.TODO(), tt.wantLevel-1) {
				t.Errorf("level %v should be disabled", tt.wantLevel-1)
			}
		})
	}
}

func TestSetupLogger_SetsDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	log, err := SetupLogger(&LogConfig{Level: "warn", Format: "text"})
	if err != nil {
		t.Fatalf("SetupLogger error: %v", err)
	}
	defer log.Close()

	if slog.Default().Handler() != log.Handler() {
		t.Error("SetupLogger did not set slog.Default()")
	}
}

func TestSetupLogger_FileOnly(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "advocates.log")
	log, err := SetupLogger(&LogConfig{
		Level:    "info",
		Format:   "json",
		FilePath: path,
		Console:  boolPtr(false),
	})
	if err != nil {
		t.Fatalf("SetupLogger error: %v", err)
	}

	log.Info("browse started", slog.String("base_url", "http://localhost:8080"))
	if err := log.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "browse started") {
		t.Errorf("log file missing entry:\n%s", data)
	}
}

func TestSetupLogger_Errors(t *testing.T) {
	if _, err := SetupLogger(nil); err == nil {
		t.Error("expected error for nil config")
	}
	_, err := SetupLogger(&LogConfig{Level: "info", Format: "text", Console: boolPtr(false)})
	if err == nil || !strings.Contains(err.Error(), "file_path") {
		t.Errorf("expected file_path error, got %v", err)
	}
}

func TestBuildLoggerOpts_Count(t *testing.T) {
	// Level, Middleware, Console, ConsoleFormat, ConsoleColor.
	const base = 5
	const withFile = base + 2

	tests := []struct {
		name string
		cfg  *LogConfig
		want int
	}{
		{"console_only", &LogConfig{Level: "info", Format: "text"}, base},
		{"console_disabled", &LogConfig{Level: "info", Format: "text", Console: boolPtr(false)}, base},
		{"color_false", &LogConfig{Level: "info", Format: "text", Color: boolPtr(false)}, base},
		{"file", &LogConfig{Level: "info", Format: "json", FilePath: "/tmp/a.log"}, withFile},
		{"file_max_size", &LogConfig{FilePath: "/tmp/a.log", MaxSizeMB: 10}, withFile + 1},
		{"file_retention", &LogConfig{FilePath: "/tmp/a.log", RetentionDays: 7}, withFile + 1},
		{"file_backups", &LogConfig{FilePath: "/tmp/a.log", MaxBackups: 3}, withFile + 1},
		{"file_compress_false", &LogConfig{FilePath: "/tmp/a.log", CompressRotated: boolPtr(false)}, withFile + 1},
		{"file_all", &LogConfig{
			FilePath: "/tmp/a.log", MaxSizeMB: 50, RetentionDays: 30, MaxBackups: 5, CompressRotated: boolPtr(true),
		}, withFile + 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(buildLoggerOpts(tt.cfg)); got != tt.want {
				t.Errorf("option count = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestBuildLoggerOpts_ProducesValidLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "opts.log")

	for _, cfg := range []*LogConfig{
		{Level: "debug", Format: "text"},
		{Level: "warn", Format: "json"},
		{Level: "info", Format: "custom"},
		{Level: "info", Format: "json", FilePath: path, MaxSizeMB: 10, RetentionDays: 7, MaxBackups: 3, CompressRotated: boolPtr(true)},
	} {
		log, err := logger.New(buildLoggerOpts(cfg)...)
		if err != nil {
			t.Fatalf("logger.New(%+v) failed: %v", cfg, err)
		}
		log.Close()
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]logger.OutputFormat{
		"text":  logger.FormatText,
		"JSON":  logger.FormatJSON,
		"other": logger.FormatCustom,
		"":      logger.FormatCustom,
	}
	for in, want := range tests {
		if got := parseFormat(in); got != want {
			t.Errorf("parseFormat(%q) = %v; want %v", in, got, want)
		}
	}
}
