package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	for _, mode := range []string{"", "dev", "prod", "Production"} {
		l, err := New(mode)
		if err != nil {
			t.Errorf("New(%q) error: %v", mode, err)
			continue
		}
		l.Sync()
	}
	if _, err := New("verbose"); err == nil {
		t.Error("New(verbose) should fail")
	}
}

func TestWithCarriesFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With("op", "create")

	l.Error("transaction rolled back", "citation_id", "citations:1")

	entries := logs.FilterMessage("transaction rolled back").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["op"] != "create" || fields["citation_id"] != "citations:1" {
		t.Errorf("unexpected fields: %v", fields)
	}
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	l.Debug("ignored")
	l.Info("ignored")
	l.Warn("ignored")
}

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		mode      string
		wantDebug bool
	}{
		{"", false},
		{"dev", false},
		{"prod", false},
		{"debug", true},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			l, err := New(tt.mode)
			if err != nil {
				t.Fatalf("New(%q) error: %v", tt.mode, err)
			}
			got := l.SugaredLogger.Desugar().Core().Enabled(zapcore.DebugLevel)
			if got != tt.wantDebug {
				t.Errorf("New(%q) debug enabled = %v, want %v", tt.mode, got, tt.wantDebug)
			}
			if !l.SugaredLogger.Desugar().Core().Enabled(zapcore.InfoLevel) {
				t.Errorf("New(%q) info disabled", tt.mode)
			}
		})
	}
}
