package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitLogger(t *testing.T) {
	defer Replace(zap.NewNop())()

	for _, format := range []string{"", FormatConsole, FormatJSON} {
		if err := InitLogger(zapcore.InfoLevel, format); err != nil {
			t.Errorf("InitLogger(%q): %v", format, err)
		}
	}
	if err := InitLogger(zapcore.InfoLevel, "xml"); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestReplace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	restore := Replace(zap.New(core))

	Debug("matched loop", zap.String("loop", "1"))
	With(zap.String("subject", "SUBJA")).Warn("subject failed")
	restore()
	Info("dropped")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Message != "matched loop" || entries[0].ContextMap()["loop"] != "1" {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].Level != zapcore.WarnLevel || entries[1].ContextMap()["subject"] != "SUBJA" {
		t.Errorf("second entry = %+v", entries[1])
	}
}
