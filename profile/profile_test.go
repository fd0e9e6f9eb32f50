package profile

import (
	"slices"
	"testing"
)

func TestProfiler_Start_EmptyModeIsNoop(t *testing.T) {
	s := Profiler{}.Start()
	if _, ok := s.(ignore); !ok {
		t.Fatalf("expected no-op stopper, got %T", s)
	}

	s.Stop()
}

func TestProfiler_Enabled_MatchesModes(t *testing.T) {
	modes := Modes()

	tests := []struct {
		mode string
		want bool
	}{
		{"", false},
		{"bogus", false},
		{"cpu", slices.Contains(modes, "cpu")},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			if got := (Profiler{Mode: tt.mode}).Enabled(); got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestModes_Sorted(t *testing.T) {
	if modes := Modes(); !slices.IsSorted(modes) {
		t.Errorf("expected sorted modes, got %v", modes)
	}
}
