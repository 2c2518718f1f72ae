package cli

import (
	"testing"

	"trade-journal/internal/errors"
)

func TestParseWeek(t *testing.T) {
	tests := []struct {
		in         string
		year, week int
		wantErr    bool
	}{
		{"2026-W35", 2026, 35, false},
		{"2026-W01", 2026, 1, false},
		{"2020-W53", 2020, 53, false},
		{"2026-W54", 0, 0, true},
		{"2026-W00", 0, 0, true},
		{"2026-35", 0, 0, true},
		{"W35", 0, 0, true},
		{"garbage", 0, 0, true},
	}

	for _, tt := range tests {
		year, week, err := parseWeek(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseWeek(%q) succeeded, want error", tt.in)
			} else if !errors.Is(err, errors.ErrUnknownWeek) {
				t.Errorf("parseWeek(%q) error %v does not wrap ErrUnknownWeek", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseWeek(%q): %v", tt.in, err)
			continue
		}
		if year != tt.year || week != tt.week {
			t.Errorf("parseWeek(%q) = %d-W%d, want %d-W%d", tt.in, year, week, tt.year, tt.week)
		}
	}
}
