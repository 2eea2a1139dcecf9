package schedule

import (
	"errors"
	"fmt"
)

const (
	ConflictOverlap      = "overlap"
	ConflictOutsideHours = "outside-hours"
)

// BookingCheck is the outcome of validating a candidate event. Business
// conflicts are ordinary results, not errors.
type BookingCheck struct {
	OK       bool   `json:"ok"`
	Reason   string `json:"reason,omitempty"`
	Conflict string `json:"conflictKind,omitempty"`
}

var errNoEmployeeID = errors.New("employee record has no id")

// ValidateBooking decides whether candidate may be created or updated for
// employee. existing is the employee's current event list; when updating, the
// event being edited is excluded by id. The whole check is skipped for
// allow-overlap employees and for all-day events. Overlap is checked before
// working-hours containment.
func ValidateBooking(candidate Event, existing []Event, employee Employee) (BookingCheck, error) {
	if employee.ID == "" {
		return BookingCheck{}, errNoEmployeeID
	}
	if employee.AllowOverlap || candidate.IsAllDay {
		return BookingCheck{OK: true}, nil
	}

	for _, ev := range existing {
		if ev.ID == candidate.ID && candidate.ID != "" {
			continue
		}
		if ev.EmployeeID != employee.ID || ev.IsAllDay || ev.Status == StatusCanceled {
			continue
		}
		if (Slot{Start: candidate.Start, End: candidate.End}).Overlaps(ev) {
			return BookingCheck{
				OK: false,
				Reason: fmt.Sprintf("%s is already booked from %s to %s",
					employee.Name, ev.Start.Format("15:04"), ev.End.Format("15:04")),
				Conflict: ConflictOverlap,
			}, nil
		}
	}

	return checkWorkingHours(candidate, employee), nil
}

func checkWorkingHours(candidate Event, employee Employee) BookingCheck {
	dayName := candidate.Start.Weekday().String()
	hours, ok := employee.WorkHours[dayName]
	if !ok {
		return BookingCheck{
			OK:       false,
			Reason:   fmt.Sprintf("%s does not work on %s", employee.Name, dayName),
			Conflict: ConflictOutsideHours,
		}
	}
	checkIn, inOK := parseWallClock(hours.CheckIn)
	checkOut, outOK := parseWallClock(hours.CheckOut)
	if !inOK || !outOK {
		return BookingCheck{
			OK:       false,
			Reason:   fmt.Sprintf("%s does not work on %s", employee.Name, dayName),
			Conflict: ConflictOutsideHours,
		}
	}

	dayStart := atTime(candidate.Start, checkIn)
	dayEnd := atTime(candidate.Start, checkOut)
	if candidate.Start.Before(dayStart) || candidate.End.After(dayEnd) {
		return BookingCheck{
			OK: false,
			Reason: fmt.Sprintf("%s works %s to %s on %s; the booking falls outside those hours",
				employee.Name, hours.CheckIn, hours.CheckOut, dayName),
			Conflict: ConflictOutsideHours,
		}
	}
	return BookingCheck{OK: true}
}
