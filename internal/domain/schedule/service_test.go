package schedule

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeStore struct {
	employees []Employee
	events    []Event
	nextID    int

	listEmployeeCalls int
}

func (f *fakeStore) ListEmployees(_ context.Context, activeOnly bool) ([]Employee, error) {
	f.listEmployeeCalls++
	if !activeOnly {
		return f.employees, nil
	}
	var out []Employee
	for _, e := range f.employees {
		if e.Status == "active" {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) GetEmployee(_ context.Context, id string) (Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return Employee{}, errors.New("no rows")
}

func (f *fakeStore) CreateEmployee(_ context.Context, emp Employee) (string, error) {
	f.nextID++
	emp.ID = fmt.Sprintf("emp-%d", f.nextID)
	f.employees = append(f.employees, emp)
	return emp.ID, nil
}

func (f *fakeStore) UpdateEmployee(_ context.Context, emp Employee) error {
	for i, e := range f.employees {
		if e.ID == emp.ID {
			f.employees[i] = emp
			return nil
		}
	}
	return errors.New("no rows")
}

func (f *fakeStore) ListEvents(_ context.Context, from, to time.Time, employeeID string) ([]Event, error) {
	var out []Event
	for _, ev := range f.events {
		if employeeID != "" && ev.EmployeeID != employeeID {
			continue
		}
		if ev.Start.Before(to) && ev.End.After(from) {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (f *fakeStore) GetEvent(_ context.Context, id string) (Event, error) {
	for _, ev := range f.events {
		if ev.ID == id {
			return ev, nil
		}
	}
	return Event{}, errors.New("no rows")
}

func (f *fakeStore) CreateEvent(_ context.Context, ev Event) (string, error) {
	f.nextID++
	ev.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.events = append(f.events, ev)
	return ev.ID, nil
}

func (f *fakeStore) UpdateEvent(_ context.Context, ev Event) error {
	for i, existing := range f.events {
		if existing.ID == ev.ID {
			f.events[i] = ev
			return nil
		}
	}
	return errors.New("no rows")
}

func (f *fakeStore) UpdateEventStatus(_ context.Context, id, status string) error {
	for i, ev := range f.events {
		if ev.ID == id {
			f.events[i].Status = status
			return nil
		}
	}
	return errors.New("no rows")
}

func (f *fakeStore) DeleteCanceledBefore(_ context.Context, cutoff time.Time) (int64, error) {
	var kept []Event
	var deleted int64
	for _, ev := range f.events {
		if ev.Status == StatusCanceled && ev.End.Before(cutoff) {
			deleted++
			continue
		}
		kept = append(kept, ev)
	}
	f.events = kept
	return deleted, nil
}

func (f *fakeStore) ConfirmedEventsBetween(_ context.Context, from, to time.Time) ([]ReminderEntry, error) {
	var out []ReminderEntry
	for _, ev := range f.events {
		if ev.Status == StatusConfirmed && !ev.IsAllDay && !ev.Start.Before(from) && ev.Start.Before(to) {
			out = append(out, ReminderEntry{EventID: ev.ID, Start: ev.Start, End: ev.End})
		}
	}
	return out, nil
}

type countingPublisher struct {
	published int
}

func (p *countingPublisher) Publish() { p.published++ }

func newTestService(t *testing.T, store *fakeStore) (*Service, *countingPublisher) {
	t.Helper()
	pub := &countingPublisher{}
	svc, err := NewService(store, pub, 32)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, pub
}

func TestCreateEventRejectsOverlap(t *testing.T) {
	store := &fakeStore{employees: []Employee{testEmployee("e1")}}
	svc, pub := newTestService(t, store)
	ctx := context.Background()

	first := Event{
		EmployeeID: "e1",
		Start:      at(monday, 10, 0),
		End:        at(monday, 10, 30),
	}
	if _, err := svc.CreateEvent(ctx, first); err != nil {
		t.Fatalf("first booking should pass: %v", err)
	}
	if pub.published != 1 {
		t.Fatalf("expected 1 publish after create, got %d", pub.published)
	}

	second := Event{
		EmployeeID: "e1",
		Start:      at(monday, 10, 15),
		End:        at(monday, 10, 45),
	}
	_, err := svc.CreateEvent(ctx, second)
	var bookingErr *BookingError
	if !errors.As(err, &bookingErr) {
		t.Fatalf("expected BookingError, got %v", err)
	}
	if bookingErr.Check.Conflict != ConflictOverlap {
		t.Fatalf("expected overlap conflict, got %q", bookingErr.Check.Conflict)
	}
	if pub.published != 1 {
		t.Fatalf("rejected booking must not publish, got %d", pub.published)
	}
}

func TestUpdateEventReschedulesWithinOwnWindow(t *testing.T) {
	store := &fakeStore{
		employees: []Employee{testEmployee("e1")},
		events: []Event{{
			ID: "ev-1", EmployeeID: "e1",
			Start: at(monday, 10, 0), End: at(monday, 11, 0), Status: StatusConfirmed,
		}},
	}
	svc, _ := newTestService(t, store)

	updated := store.events[0]
	updated.Start = at(monday, 10, 30)
	updated.End = at(monday, 11, 30)
	if err := svc.UpdateEvent(context.Background(), updated); err != nil {
		t.Fatalf("rescheduling within own window failed: %v", err)
	}
}

func TestCancelEventThenSlotReopens(t *testing.T) {
	store := &fakeStore{
		employees: []Employee{testEmployee("e1")},
		events: []Event{{
			ID: "ev-1", EmployeeID: "e1",
			Start: at(tuesday, 10, 0), End: at(tuesday, 10, 30), Status: StatusConfirmed,
		}},
	}
	svc, _ := newTestService(t, store)
	ctx := context.Background()
	now := at(monday, 8, 0)

	before, err := svc.Availability(ctx, now, tuesday, "stylist", 30)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if containsSlotStart(before[0].Slots, at(tuesday, 10, 0)) {
		t.Fatal("10:00 should be blocked before cancellation")
	}

	if err := svc.CancelEvent(ctx, "ev-1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	after, err := svc.Availability(ctx, now, tuesday, "stylist", 30)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if !containsSlotStart(after[0].Slots, at(tuesday, 10, 0)) {
		t.Fatal("10:00 should reopen after cancellation")
	}
}

func TestAvailabilityUsesCache(t *testing.T) {
	store := &fakeStore{employees: []Employee{testEmployee("e1")}}
	svc, _ := newTestService(t, store)
	ctx := context.Background()
	now := at(monday, 8, 0)

	if _, err := svc.Availability(ctx, now, tuesday, "stylist", 30); err != nil {
		t.Fatalf("availability: %v", err)
	}
	calls := store.listEmployeeCalls
	if _, err := svc.Availability(ctx, now, tuesday, "stylist", 30); err != nil {
		t.Fatalf("availability: %v", err)
	}
	if store.listEmployeeCalls != calls {
		t.Fatalf("second identical request should hit the cache, store calls went %d -> %d", calls, store.listEmployeeCalls)
	}
}

func TestEmployeeUpdateInvalidatesCache(t *testing.T) {
	emp := testEmployee("e1")
	store := &fakeStore{employees: []Employee{emp}}
	svc, _ := newTestService(t, store)
	ctx := context.Background()
	now := at(monday, 8, 0)

	first, err := svc.Availability(ctx, now, tuesday, "stylist", 30)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(first[0].Slots) == 0 {
		t.Fatal("expected open slots before the hours change")
	}

	emp.WorkHours = WorkingHours{"Monday": {CheckIn: "09:00", CheckOut: "17:00"}}
	if err := svc.UpdateEmployee(ctx, emp); err != nil {
		t.Fatalf("update employee: %v", err)
	}

	second, err := svc.Availability(ctx, now, tuesday, "stylist", 30)
	if err != nil {
		t.Fatalf("availability: %v", err)
	}
	if len(second[0].Slots) != 0 {
		t.Fatal("dropping Tuesday hours should empty the slot list")
	}
}

func TestPurgeCanceled(t *testing.T) {
	store := &fakeStore{
		employees: []Employee{testEmployee("e1")},
		events: []Event{
			{ID: "old", EmployeeID: "e1", Start: at(monday, 9, 0), End: at(monday, 10, 0), Status: StatusCanceled},
			{ID: "live", EmployeeID: "e1", Start: at(monday, 11, 0), End: at(monday, 12, 0), Status: StatusConfirmed},
		},
	}
	svc, _ := newTestService(t, store)

	n, err := svc.PurgeCanceled(context.Background(), at(monday, 23, 0))
	if err != nil {
		t.Fatalf("purge: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 purged event, got %d", n)
	}
	if len(store.events) != 1 || store.events[0].ID != "live" {
		t.Fatalf("confirmed event must survive the purge: %+v", store.events)
	}
}

func containsSlotStart(slots []Slot, start time.Time) bool {
	for _, s := range slots {
		if s.Start.Equal(start) {
			return true
		}
	}
	return false
}
