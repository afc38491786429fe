package main

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/a3tai/mcp-inventory-sync/internal/config"
)

const testVersion = "1.2.3"

func capturePrintVersion(t *testing.T) string {
	t.Helper()

	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = originalStdout }()

	done := make(chan struct{})
	go func() {
		defer close(done)
		printVersion()
		w.Close()
	}()

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	<-done
	return buf.String()
}

func TestPrintVersion(t *testing.T) {
	oldVersion, oldBuildTime, oldGitCommit := version, buildTime, gitCommit
	defer func() {
		version, buildTime, gitCommit = oldVersion, oldBuildTime, oldGitCommit
	}()

	version = testVersion
	buildTime = "2025-11-14_10:35:00"
	gitCommit = "abc123"

	output := capturePrintVersion(t)

	expectedStrings := []string{
		"MCP Inventory Sync",
		"Version: " + testVersion,
		"Build Time: 2025-11-14_10:35:00",
		"Git Commit: abc123",
		"Built with:",
	}
	for _, expected := range expectedStrings {
		if !strings.Contains(output, expected) {
			t.Errorf("printVersion() output missing expected string: %s\nActual output:\n%s", expected, output)
		}
	}
}

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name      string
		mode      string
		logLevel  string
		wantLevel zapcore.Level
		wantErr   bool
	}{
		{"stdio info is raised to warn", config.ModeStdio, "info", zapcore.WarnLevel, false},
		{"stdio debug", config.ModeStdio, "debug", zapcore.DebugLevel, false},
		{"stdio error", config.ModeStdio, "error", zapcore.ErrorLevel, false},
		{"server info", config.ModeServer, "info", zapcore.InfoLevel, false},
		{"server debug", config.ModeServer, "debug", zapcore.DebugLevel, false},
		{"invalid level", config.ModeServer, "loud", zapcore.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.Mode = tt.mode
			cfg.LogLevel = tt.logLevel

			logger, err := newLogger(cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("newLogger() expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("newLogger() error = %v", err)
			}
			if got := zapcore.LevelOf(logger.Core()); got != tt.wantLevel {
				t.Errorf("newLogger() level = %v, want %v", got, tt.wantLevel)
			}
		})
	}
}

func TestNewService(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.WorkDirectory = t.TempDir()

	svc, err := newService(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("newService() error = %v", err)
	}
	if svc.GetMaxFileSize() != cfg.MaxFileSize {
		t.Errorf("GetMaxFileSize() = %d, want %d", svc.GetMaxFileSize(), cfg.MaxFileSize)
	}

	cfg.LocationMode = "sideways"
	if _, err := newService(cfg, zap.NewNop()); err == nil {
		t.Error("newService() expected error for invalid location mode")
	}
}
