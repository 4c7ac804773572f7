package log

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	tests := []struct {
		name  string
		input string
		want  zerolog.Level
	}{
		{name: "debug lower", input: "debug", want: zerolog.DebugLevel},
		{name: "info upper", input: "INFO", want: zerolog.InfoLevel},
		{name: "warn mixed", input: "WaRn", want: zerolog.WarnLevel},
		{name: "error", input: "error", want: zerolog.ErrorLevel},
		{name: "trim spaces", input: "  debug  ", want: zerolog.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SetLevel(tt.input)
			if got := zerolog.GlobalLevel(); got != tt.want {
				t.Fatalf("SetLevel(%q) left global level %v, want %v", tt.input, got, tt.want)
			}
		})
	}

	SetLevel("warn")
	SetLevel("not-a-level")
	if got := zerolog.GlobalLevel(); got != zerolog.WarnLevel {
		t.Fatalf("unknown level changed global level to %v", got)
	}
}
