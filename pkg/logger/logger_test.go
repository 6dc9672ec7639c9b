package logger

import (
	"testing"

	"go.uber.org/zap"
)

func TestNewParsesLevel(t *testing.T) {
	cases := []struct {
		level     string
		debugLogs bool
	}{
		{"debug", true},
		{"info", false},
		{"warn", false},
		{"not-a-level", false}, // unknown levels fall back to info
	}
	for i, tc := range cases {
		l, err := New(tc.level)
		if err != nil {
			t.Fatalf("case %d: New(%q): %v", i, tc.level, err)
		}
		if got := l.Core().Enabled(zap.DebugLevel); got != tc.debugLogs {
			t.Fatalf("case %d: debug enabled = %v, want %v", i, got, tc.debugLogs)
		}
	}
}

func TestNamed(t *testing.T) {
	if Named(nil, "svc") == nil {
		t.Fatal("nil base must yield a usable logger")
	}

	base := Must(New("info"))
	child := Named(base, "svc.books")
	if child == nil {
		t.Fatal("expected a child logger")
	}
}
