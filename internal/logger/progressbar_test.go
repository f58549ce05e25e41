package logger

import (
	"strings"
	"testing"
)

func TestProgressBarRender(t *testing.T) {
	tests := []struct {
		name    string
		current int
		total   int
		want    string
	}{
		{"empty", 0, 4, "[          ] 0/4 (0%)"},
		{"half", 2, 4, "[=====     ] 2/4 (50%)"},
		{"full", 4, 4, "[==========] 4/4 (100%)"},
		{"overflow clamps", 6, 4, "[==========] 6/4 (100%)"},
		{"zero total", 0, 0, "[          ] 0/0 (0%)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pb := NewProgressBar(tt.total, 10, false)
			pb.Update(tt.current)
			if got := pb.Render(); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgressBarIncrementAndPrefix(t *testing.T) {
	pb := NewProgressBar(3, 0, false)
	pb.Increment()
	pb.Increment()
	pb.SetPrefix("batch ")

	if pb.Current() != 2 || pb.Total() != 3 {
		t.Errorf("got %d/%d, want 2/3", pb.Current(), pb.Total())
	}
	if pb.Percentage() != 66 {
		t.Errorf("Percentage() = %d, want 66", pb.Percentage())
	}
	if !strings.HasPrefix(pb.Render(), "batch [======    ]") {
		t.Errorf("unexpected render: %q", pb.Render())
	}
}
