package difficulty

import "testing"

func TestLevel_Clamp(t *testing.T) {
	tests := []struct {
		in   Level
		want Level
	}{
		{0, VeryEasy},
		{VeryEasy, VeryEasy},
		{Medium, Medium},
		{VeryHard, VeryHard},
		{6, VeryHard},
	}
	for _, tt := range tests {
		if got := tt.in.Clamp(); got != tt.want {
			t.Errorf("Clamp(%d) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevel_String(t *testing.T) {
	if Medium.String() != "medium" {
		t.Errorf("Medium.String() = %q", Medium.String())
	}
	if Level(9).String() != "unknown" {
		t.Errorf("Level(9).String() = %q", Level(9).String())
	}
}
