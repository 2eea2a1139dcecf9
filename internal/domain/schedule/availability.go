package schedule

import "time"

// SlotStep is the candidate start-time granularity. It is deliberately fixed
// rather than derived from the requested duration, so a 30-minute service is
// offered both a 09:00 and a 09:15 start when neither conflicts.
const SlotStep = 15 * time.Minute

// ComputeAvailability returns, per active employee carrying jobTitle, the free
// slots of durationMinutes on targetDate. Results keep the input employee
// order and include employees with zero free slots. An empty jobTitle yields
// an empty result; callers default it to the first known job title.
//
// now is only consulted when targetDate is the current day: past slots are
// dropped by advancing the cursor to the next quarter-hour boundary after now.
func ComputeAvailability(now, targetDate time.Time, jobTitle string, durationMinutes int, employees []Employee, events []Event) []EmployeeAvailability {
	result := make([]EmployeeAvailability, 0, len(employees))
	if jobTitle == "" || durationMinutes <= 0 {
		return result
	}

	dayName := targetDate.Weekday().String()
	duration := time.Duration(durationMinutes) * time.Minute

	for _, emp := range employees {
		if emp.Status != "active" || !emp.HasJobTitle(jobTitle) {
			continue
		}
		slots := employeeDaySlots(now, targetDate, dayName, duration, emp, events)
		result = append(result, EmployeeAvailability{Employee: emp, Slots: slots})
	}
	return result
}

func employeeDaySlots(now, targetDate time.Time, dayName string, duration time.Duration, emp Employee, events []Event) []Slot {
	slots := make([]Slot, 0, 16)

	hours, ok := emp.WorkHours[dayName]
	if !ok {
		return slots
	}
	checkIn, inOK := parseWallClock(hours.CheckIn)
	checkOut, outOK := parseWallClock(hours.CheckOut)
	if !inOK || !outOK {
		// Malformed hours are treated as a day off, not an error.
		return slots
	}

	dayStart := atTime(targetDate, checkIn)
	dayEnd := atTime(targetDate, checkOut)

	var dayEvents []Event
	for _, ev := range events {
		if ev.EmployeeID != emp.ID || ev.IsAllDay || ev.Status == StatusCanceled {
			continue
		}
		if !sameDate(ev.Start, targetDate) {
			continue
		}
		dayEvents = append(dayEvents, ev)
	}

	// For today the first candidate is always nextQuarterHour(now), even
	// when now falls exactly on a quarter-hour boundary. The availability
	// cache keys today's entries on the same value, so the slots it serves
	// must start no earlier than that.
	cursor := dayStart
	if sameDate(now, targetDate) && !cursor.After(now) {
		cursor = nextQuarterHour(now)
	}

	for !cursor.Add(duration).After(dayEnd) {
		candidate := Slot{Start: cursor, End: cursor.Add(duration)}
		if !overlapsAny(candidate, dayEvents) {
			slots = append(slots, candidate)
		}
		cursor = cursor.Add(SlotStep)
	}
	return slots
}

// Overlaps reports whether the slot intersects the event under half-open
// interval semantics: touching endpoints do not overlap.
func (s Slot) Overlaps(ev Event) bool {
	return s.Start.Before(ev.End) && s.End.After(ev.Start)
}

func overlapsAny(s Slot, events []Event) bool {
	for _, ev := range events {
		if s.Overlaps(ev) {
			return true
		}
	}
	return false
}

type wallClock struct {
	hour, minute int
}

func parseWallClock(value string) (wallClock, bool) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return wallClock{}, false
	}
	return wallClock{hour: t.Hour(), minute: t.Minute()}, true
}

func atTime(date time.Time, wc wallClock) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), wc.hour, wc.minute, 0, 0, date.Location())
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// nextQuarterHour rounds t up to the next 15-minute boundary, dropping
// seconds. A time already on a boundary still advances a full step.
func nextQuarterHour(t time.Time) time.Time {
	minute := t.Truncate(time.Minute)
	return minute.Add(time.Duration(15-t.Minute()%15) * time.Minute)
}
