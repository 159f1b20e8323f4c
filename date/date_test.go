package date

import (
	"testing"
	"time"
)

// TestTime assert that the time() is canonical and gives comparable times.
func TestTime(t *testing.T) {
	d1 := New(2025, 7, 31)
	d2 := New(2025, 7, 31)

	if d1.time() != d2.time() {
		// Note that usually time.Time are not comparable (there is a pointer for the timezone) this
		// tests also checks that the property remain true
		t.Errorf("invalid time() function same day gives two different time")
	}
}

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		in        string
		want      Date
		expectErr bool
	}{
		{"ISO format", "2025-07-01", New(2025, 7, 1), false},
		{"Permissive format", "2025-7-1", New(2025, 7, 1), false},
		{"Garbage", "not-a-date", Date{}, true},
		{"Empty", "", Date{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.in)
			hasErr := err != nil
			if hasErr != tc.expectErr {
				t.Fatalf("Parse(%q) returned error: %v, want error: %v", tc.in, err, tc.expectErr)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAddNormalizes(t *testing.T) {
	d := New(2025, 1, 31).Add(1)
	if d != New(2025, 2, 1) {
		t.Errorf("Add(1) = %v want 2025-02-01", d)
	}
	if d.Add(-1) != New(2025, 1, 31) {
		t.Errorf("Add(-1) = %v want 2025-01-31", d.Add(-1))
	}
}

func TestIsWeekend(t *testing.T) {
	// 2025-08-22 is a Friday.
	friday := New(2025, 8, 22)
	if friday.Weekday() != time.Friday {
		t.Fatalf("fixture broken: %v is not a Friday", friday)
	}
	if friday.IsWeekend() {
		t.Errorf("IsWeekend(%v) = true want false", friday)
	}
	if !friday.Add(1).IsWeekend() {
		t.Errorf("IsWeekend(%v) = false want true", friday.Add(1))
	}
	if !friday.Add(2).IsWeekend() {
		t.Errorf("IsWeekend(%v) = false want true", friday.Add(2))
	}
	if friday.Add(3).IsWeekend() {
		t.Errorf("IsWeekend(%v) = true want false", friday.Add(3))
	}
}

func TestRangeDays(t *testing.T) {
	r := NewRange(New(2025, 8, 1), New(2025, 8, 5))
	var got []Date
	for d := range r.Days() {
		got = append(got, d)
	}
	if len(got) != 5 {
		t.Fatalf("Days() yielded %d days want 5", len(got))
	}
	if got[0] != r.From || got[4] != r.To {
		t.Errorf("Days() = [%v..%v] want [%v..%v]", got[0], got[4], r.From, r.To)
	}
	if r.Len() != 5 {
		t.Errorf("Len() = %d want 5", r.Len())
	}
}

func TestLastDays(t *testing.T) {
	r := LastDays(New(2025, 8, 10), 7)
	if r.From != New(2025, 8, 4) || r.To != New(2025, 8, 10) {
		t.Errorf("LastDays = %v want 2025-08-04..2025-08-10", r)
	}
	if !r.Contains(New(2025, 8, 4)) || r.Contains(New(2025, 8, 3)) {
		t.Errorf("Contains boundaries broken for %v", r)
	}
}
