package schedule

import (
	"strings"
	"testing"
	"time"
)

func TestValidateBookingOverlapRejected(t *testing.T) {
	emp := testEmployee("e1")
	existing := []Event{{
		ID: "ev1", EmployeeID: "e1",
		Start: at(monday, 10, 0), End: at(monday, 11, 0), Status: StatusConfirmed,
	}}
	candidate := Event{
		EmployeeID: "e1",
		Start:      at(monday, 10, 30),
		End:        at(monday, 11, 30),
		Status:     StatusPending,
	}

	check, err := ValidateBooking(candidate, existing, emp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.OK {
		t.Fatal("expected overlap rejection")
	}
	if check.Conflict != ConflictOverlap {
		t.Fatalf("expected conflict kind %q, got %q", ConflictOverlap, check.Conflict)
	}
	if !strings.Contains(check.Reason, emp.Name) {
		t.Fatalf("expected reason to name the employee, got %q", check.Reason)
	}
}

func TestValidateBookingBackToBackAllowed(t *testing.T) {
	emp := testEmployee("e1")
	existing := []Event{{
		ID: "ev1", EmployeeID: "e1",
		Start: at(monday, 10, 0), End: at(monday, 11, 0), Status: StatusConfirmed,
	}}
	candidate := Event{
		EmployeeID: "e1",
		Start:      at(monday, 11, 0),
		End:        at(monday, 11, 30),
	}

	check, err := ValidateBooking(candidate, existing, emp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.OK {
		t.Fatalf("back-to-back booking should pass, got %q", check.Reason)
	}
}

func TestValidateBookingAllowOverlapSkipsChecks(t *testing.T) {
	emp := testEmployee("e1")
	emp.AllowOverlap = true
	existing := []Event{{
		ID: "ev1", EmployeeID: "e1",
		Start: at(monday, 10, 0), End: at(monday, 11, 0), Status: StatusConfirmed,
	}}
	candidate := Event{
		EmployeeID: "e1",
		Start:      at(monday, 10, 0),
		End:        at(monday, 11, 0),
	}

	check, err := ValidateBooking(candidate, existing, emp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.OK {
		t.Fatalf("allow-overlap employee must always pass, got %q", check.Reason)
	}
}

func TestValidateBookingAllDaySkipsChecks(t *testing.T) {
	emp := testEmployee("e1")
	candidate := Event{
		EmployeeID: "e1",
		Start:      at(monday, 0, 0),
		End:        at(monday, 23, 59),
		IsAllDay:   true,
	}

	check, err := ValidateBooking(candidate, nil, emp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.OK {
		t.Fatalf("all-day events skip validation, got %q", check.Reason)
	}
}

func TestValidateBookingOutsideHours(t *testing.T) {
	emp := testEmployee("e1")
	candidate := Event{
		EmployeeID: "e1",
		Start:      at(monday, 8, 0),
		End:        at(monday, 8, 30),
	}

	check, err := ValidateBooking(candidate, nil, emp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.OK {
		t.Fatal("expected outside-hours rejection")
	}
	if check.Conflict != ConflictOutsideHours {
		t.Fatalf("expected conflict kind %q, got %q", ConflictOutsideHours, check.Conflict)
	}
	if !strings.Contains(check.Reason, "09:00") || !strings.Contains(check.Reason, "17:00") {
		t.Fatalf("expected configured hours in reason, got %q", check.Reason)
	}
}

func TestValidateBookingDayOff(t *testing.T) {
	emp := testEmployee("e1")
	wednesday := at(monday.AddDate(0, 0, 2), 10, 0)
	candidate := Event{EmployeeID: "e1", Start: wednesday, End: wednesday.Add(30 * time.Minute)}

	check, err := ValidateBooking(candidate, nil, emp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.OK || check.Conflict != ConflictOutsideHours {
		t.Fatalf("expected outside-hours on a day off, got %+v", check)
	}
}

func TestValidateBookingExcludesEditedEvent(t *testing.T) {
	emp := testEmployee("e1")
	existing := []Event{{
		ID: "ev1", EmployeeID: "e1",
		Start: at(monday, 10, 0), End: at(monday, 11, 0), Status: StatusConfirmed,
	}}
	// Rescheduling ev1 within its own original window must not self-conflict.
	candidate := Event{
		ID:         "ev1",
		EmployeeID: "e1",
		Start:      at(monday, 10, 15),
		End:        at(monday, 10, 45),
	}

	check, err := ValidateBooking(candidate, existing, emp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !check.OK {
		t.Fatalf("edited event must be excluded from its own overlap check, got %q", check.Reason)
	}
}

func TestValidateBookingOverlapCheckedBeforeHours(t *testing.T) {
	emp := testEmployee("e1")
	existing := []Event{{
		ID: "ev1", EmployeeID: "e1",
		Start: at(monday, 7, 0), End: at(monday, 9, 30), Status: StatusConfirmed,
	}}
	// Candidate both overlaps ev1 and starts before check-in; the overlap wins.
	candidate := Event{
		EmployeeID: "e1",
		Start:      at(monday, 8, 0),
		End:        at(monday, 9, 15),
	}

	check, err := ValidateBooking(candidate, existing, emp)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if check.Conflict != ConflictOverlap {
		t.Fatalf("expected overlap reported first, got %q", check.Conflict)
	}
}

func TestValidateBookingMissingEmployeeID(t *testing.T) {
	candidate := Event{Start: at(monday, 10, 0), End: at(monday, 11, 0)}
	if _, err := ValidateBooking(candidate, nil, Employee{}); err == nil {
		t.Fatal("expected error for employee without id")
	}
}
