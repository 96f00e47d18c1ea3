package logging

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewZap_WritesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZap(zap.New(core))

	l.Debug("debug msg", "k", 1)
	l.Info("info msg", "removed", 3)
	l.Warn("warn msg")
	l.Error("error msg", "error", "boom")

	if logs.Len() != 4 {
		t.Fatalf("expected 4 entries, got %d", logs.Len())
	}

	entries := logs.FilterMessage("info msg").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 info entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["removed"]; got != int64(3) {
		t.Errorf("removed field = %v, want 3", got)
	}
	if entries[0].Level != zapcore.InfoLevel {
		t.Errorf("level = %v, want info", entries[0].Level)
	}
}

func TestNewZap_NilLogger(t *testing.T) {
	l := NewZap(nil)
	// Must not panic.
	l.Info("ignored", "k", "v")
}

func TestOrNoop(t *testing.T) {
	if OrNoop(nil) == nil {
		t.Fatal("OrNoop(nil) returned nil")
	}

	core, _ := observer.New(zapcore.InfoLevel)
	z := NewZap(zap.New(core))
	if OrNoop(z) != z {
		t.Error("OrNoop should return the given logger unchanged")
	}
}
