package event

import (
	"errors"
	"testing"
)

func TestTimeToMinutes(t *testing.T) {
	cases := map[string]int{
		"00:00": 0,
		"10:00": 600,
		"11:30": 690,
		"23:59": 1439,
	}
	for raw, want := range cases {
		got, err := timeToMinutes(raw)
		if err != nil {
			t.Fatalf("timeToMinutes(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("timeToMinutes(%q) = %d, want %d", raw, got, want)
		}
	}
	for _, raw := range []string{"", "10", "25:00", "10:75", "ab:cd"} {
		if _, err := timeToMinutes(raw); err == nil {
			t.Fatalf("timeToMinutes(%q) accepted invalid input", raw)
		}
	}
}

func TestValidateTimes(t *testing.T) {
	if err := ValidateTimes("10:00", "11:00"); err != nil {
		t.Fatalf("valid window rejected: %v", err)
	}
	if err := ValidateTimes("11:00", "10:00"); !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("err = %v, want ErrEndBeforeStart", err)
	}
	if err := ValidateTimes("10:00", "10:00"); !errors.Is(err, ErrEndBeforeStart) {
		t.Fatalf("zero-length window accepted")
	}
}

func existingAt(id uint, start, end string) Event {
	return Event{ID: id, Title: "Existing", StartDate: "2024-01-01", StartTime: start, EndTime: end}
}

func TestFindConflictWithinBuffer(t *testing.T) {
	existing := []Event{existingAt(1, "10:00", "11:00")}

	// 11:30 starts inside the one-hour tail buffer [09:00, 12:00)
	hit, err := FindConflict("11:30", "12:30", existing, 0)
	if err != nil {
		t.Fatalf("FindConflict: %v", err)
	}
	if hit == nil || hit.ID != 1 {
		t.Fatalf("expected conflict with event 1, got %+v", hit)
	}
}

func TestFindConflictOutsideBuffer(t *testing.T) {
	existing := []Event{existingAt(1, "10:00", "11:00")}

	hit, err := FindConflict("12:01", "13:00", existing, 0)
	if err != nil {
		t.Fatalf("FindConflict: %v", err)
	}
	if hit != nil {
		t.Fatalf("12:01-13:00 should not conflict, got event %d", hit.ID)
	}
}

func TestFindConflictContainment(t *testing.T) {
	existing := []Event{existingAt(1, "10:00", "11:00")}

	// candidate swallows the whole buffered window
	hit, err := FindConflict("08:00", "13:00", existing, 0)
	if err != nil {
		t.Fatalf("FindConflict: %v", err)
	}
	if hit == nil {
		t.Fatalf("containing window should conflict")
	}
}

func TestFindConflictExcludesSelf(t *testing.T) {
	existing := []Event{existingAt(1, "10:00", "11:00")}

	hit, err := FindConflict("10:00", "11:00", existing, 1)
	if err != nil {
		t.Fatalf("FindConflict: %v", err)
	}
	if hit != nil {
		t.Fatalf("editing an event must not conflict with itself")
	}
}

func TestFindConflictPicksEarliestStart(t *testing.T) {
	existing := []Event{
		existingAt(5, "14:00", "15:00"),
		existingAt(2, "09:00", "10:00"),
	}

	// candidate overlaps both buffered windows
	hit, err := FindConflict("09:30", "15:30", existing, 0)
	if err != nil {
		t.Fatalf("FindConflict: %v", err)
	}
	if hit == nil || hit.ID != 2 {
		t.Fatalf("expected the 09:00 event to win, got %+v", hit)
	}
}

func TestFindConflictRejectsBadCandidate(t *testing.T) {
	if _, err := FindConflict("25:00", "26:00", nil, 0); err == nil {
		t.Fatalf("invalid candidate times accepted")
	}
}
