package logger

import (
	"context"
	"errors"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}

	// re-initialising must not break the global
	if err := Init(); err != nil {
		t.Fatalf("failed to reinitialize logger: %v", err)
	}
	if Get() == nil {
		t.Fatal("logger is nil after reinitialization")
	}
}

func TestLoggerBasic(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	ctx := WithSession(context.Background(), "sess-1")
	log := Get()
	log.Info(ctx, "test message", String("k", "v"), Int("n", 1), Bool("b", true))
	log.Warn(ctx, "warn message", Float64("f", 1.5), Any("any", []string{"x"}))
	log.Error(context.Background(), "error message", Error(errors.New("boom")))
	log.Debug(context.Background(), "hidden at info")
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	named := Named("test")
	if named == nil {
		t.Fatal("named logger is nil")
	}
	named.Info(context.Background(), "test message")
}

func TestSetLevelString(t *testing.T) {
	defer func() { _ = SetLevelString("info") }()

	for in, want := range map[string]string{
		"debug":   "debug",
		"WARN":    "warn",
		"warning": "warn",
		"error":   "error",
		"":        "info",
		" info ":  "info",
	} {
		if err := SetLevelString(in); err != nil {
			t.Fatalf("SetLevelString(%q): %v", in, err)
		}
		if got := Level(); got != want {
			t.Errorf("SetLevelString(%q) level = %q, want %q", in, got, want)
		}
	}

	if err := SetLevelString("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Info(context.Background(), "dropped")
	l.Named("x").Warn(context.Background(), "dropped")
}
