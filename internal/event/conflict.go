package event

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// bufferMinutes is the required gap on both sides of an existing event.
const bufferMinutes = 60

var ErrEndBeforeStart = errors.New("end time must be after start time")

// timeToMinutes parses "HH:MM" into minutes since midnight.
func timeToMinutes(raw string) (int, error) {
	parts := strings.SplitN(raw, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid time %q", raw)
	}
	return hours*60 + minutes, nil
}

// ValidateTimes checks the candidate window itself, independent of any
// existing events.
func ValidateTimes(startTime, endTime string) error {
	start, err := timeToMinutes(startTime)
	if err != nil {
		return err
	}
	end, err := timeToMinutes(endTime)
	if err != nil {
		return err
	}
	if end <= start {
		return ErrEndBeforeStart
	}
	return nil
}

// FindConflict returns the conflicting event with the earliest start time,
// or nil. A candidate conflicts with an existing event when it falls inside
// the event's window widened by one hour on each side. The excludeID lets an
// edit-in-place skip the event being edited.
func FindConflict(startTime, endTime string, existing []Event, excludeID uint) (*Event, error) {
	newStart, err := timeToMinutes(startTime)
	if err != nil {
		return nil, err
	}
	newEnd, err := timeToMinutes(endTime)
	if err != nil {
		return nil, err
	}

	// earliest start time wins, id breaks ties
	sorted := make([]Event, len(existing))
	copy(sorted, existing)
	sort.SliceStable(sorted, func(i, j int) bool {
		si, errI := timeToMinutes(sorted[i].StartTime)
		sj, errJ := timeToMinutes(sorted[j].StartTime)
		if errI != nil || errJ != nil {
			return sorted[i].ID < sorted[j].ID
		}
		if si != sj {
			return si < sj
		}
		return sorted[i].ID < sorted[j].ID
	})

	for i := range sorted {
		ev := &sorted[i]
		if excludeID != 0 && ev.ID == excludeID {
			continue
		}
		existingStart, err := timeToMinutes(ev.StartTime)
		if err != nil {
			continue // malformed legacy row, cannot conflict
		}
		existingEnd, err := timeToMinutes(ev.EndTime)
		if err != nil {
			continue
		}

		bufferStart := existingStart - bufferMinutes
		bufferEnd := existingEnd + bufferMinutes

		if (newStart >= bufferStart && newStart < bufferEnd) ||
			(newEnd > bufferStart && newEnd <= bufferEnd) ||
			(newStart <= bufferStart && newEnd >= bufferEnd) {
			return ev, nil
		}
	}
	return nil, nil
}
