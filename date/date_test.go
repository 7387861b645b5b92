package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Date
	}{
		{"iso", "2025-01-13", New(2025, time.January, 13)},
		{"iso lenient", "2025-7-1", New(2025, time.July, 1)},
		{"day first slash", "13/01/2025", New(2025, time.January, 13)},
		{"day first dot", "13.1.2025", New(2025, time.January, 13)},
		{"day first long", "13 January 2025", New(2025, time.January, 13)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "not a date", "2025-13-45", "13-01-2025"} {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q) expected an error, got none", input)
		}
	}
}

func TestDate_String(t *testing.T) {
	d := New(2025, time.January, 3)
	if got := d.String(); got != "2025-01-03" {
		t.Errorf("String() = %q, want %q", got, "2025-01-03")
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	d := New(2025, time.March, 7)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal error = %v", err)
	}
	if string(b) != `"2025-03-07"` {
		t.Errorf("Marshal = %s, want %q", b, `"2025-03-07"`)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestRange_Contains(t *testing.T) {
	from := New(2025, time.January, 10)
	to := New(2025, time.January, 20)
	r := Range{From: from, To: to}

	if !r.Contains(from) || !r.Contains(to) {
		t.Error("Contains should include both boundaries")
	}
	if !r.Contains(New(2025, time.January, 15)) {
		t.Error("Contains should include interior dates")
	}
	if r.Contains(from.Add(-1)) || r.Contains(to.Add(1)) {
		t.Error("Contains should exclude dates outside the range")
	}

	open := Range{}
	if !open.Contains(New(1990, time.June, 1)) {
		t.Error("zero Range should contain any date")
	}
}
