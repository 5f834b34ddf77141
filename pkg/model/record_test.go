package model

import "testing"

func TestReduce(t *testing.T) {
	tests := []struct {
		name   string
		states []CheckState
		want   CheckState
	}{
		{"empty", nil, Unchecked},
		{"all unchecked", []CheckState{Unchecked, Unchecked}, Unchecked},
		{"all checked", []CheckState{Checked, Checked, Checked}, Checked},
		{"single checked", []CheckState{Checked}, Checked},
		{"disagree", []CheckState{Checked, Unchecked}, Mixed},
		{"disagree late", []CheckState{Unchecked, Unchecked, Checked}, Mixed},
		{"mixed first", []CheckState{Mixed}, Mixed},
		{"mixed among checked", []CheckState{Checked, Mixed, Checked}, Mixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Reduce(tt.states...); got != tt.want {
				t.Errorf("Reduce(%v) = %s, want %s", tt.states, got, tt.want)
			}
		})
	}
}

func TestParseCheckState(t *testing.T) {
	tests := []struct {
		in      any
		want    CheckState
		wantErr bool
	}{
		{nil, Unchecked, false},
		{true, Checked, false},
		{false, Unchecked, false},
		{2, Mixed, false},
		{float64(1), Checked, false},
		{"checked", Checked, false},
		{"2", Mixed, false},
		{"", Unchecked, false},
		{"maybe", Unchecked, true},
		{7, Unchecked, true},
		{[]int{1}, Unchecked, true},
	}

	for _, tt := range tests {
		got, err := ParseCheckState(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCheckState(%v) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseCheckState(%v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestKeyString(t *testing.T) {
	if got := KeyString(nil); got != "" {
		t.Errorf("expected empty string for nil, got %q", got)
	}
	if got := KeyString(float64(42)); got != "42" {
		t.Errorf("expected integral float to print as 42, got %q", got)
	}
	if got := KeyString(1.5); got != "1.5" {
		t.Errorf("expected 1.5, got %q", got)
	}
	if got := KeyString("a"); got != "a" {
		t.Errorf("expected a, got %q", got)
	}
}
