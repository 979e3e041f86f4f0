package rules

import "testing"

func TestApplyRule(t *testing.T) {
	tests := []struct {
		neighbors int
		alive     bool
		want      bool
	}{
		{0, false, false},
		{2, false, false},
		{3, false, true},
		{4, false, false},
		{9, false, false},
		{1, true, false},
		{2, true, false},
		{3, true, true},
		{4, true, true},
		{5, true, false},
		{9, true, false},
	}

	for _, tt := range tests {
		if got := ApplyRule(tt.neighbors, tt.alive); got != tt.want {
			t.Errorf("ApplyRule(%d, %v) = %v, want %v", tt.neighbors, tt.alive, got, tt.want)
		}
	}
}
