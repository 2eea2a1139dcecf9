package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEventNotFound    = errors.New("event not found")
)

// BookingError carries a business rejection out of create/update so handlers
// can map overlap and outside-hours conflicts to distinct statuses.
type BookingError struct {
	Check BookingCheck
}

func (e *BookingError) Error() string {
	return e.Check.Reason
}

// Publisher receives a notification every time the schedule changes. The SSE
// broker satisfies it.
type Publisher interface {
	Publish()
}

type Service struct {
	Store   StoreAPI
	Stream  Publisher
	cache   *availabilityCache
	version atomic.Uint64
}

func NewService(store StoreAPI, stream Publisher, cacheSize int) (*Service, error) {
	cache, err := newAvailabilityCache(cacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{Store: store, Stream: stream, cache: cache}, nil
}

func (s *Service) ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	return s.Store.ListEmployees(ctx, activeOnly)
}

func (s *Service) GetEmployee(ctx context.Context, id string) (Employee, error) {
	return s.Store.GetEmployee(ctx, id)
}

func (s *Service) CreateEmployee(ctx context.Context, emp Employee) (string, error) {
	if err := validateEmployee(emp); err != nil {
		return "", err
	}
	if emp.Status == "" {
		emp.Status = "active"
	}
	id, err := s.Store.CreateEmployee(ctx, emp)
	if err != nil {
		return "", err
	}
	s.invalidate()
	return id, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, emp Employee) error {
	if emp.ID == "" {
		return ErrEmployeeNotFound
	}
	if err := validateEmployee(emp); err != nil {
		return err
	}
	if err := s.Store.UpdateEmployee(ctx, emp); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *Service) ListEvents(ctx context.Context, from, to time.Time, employeeID string) ([]Event, error) {
	return s.Store.ListEvents(ctx, from, to, employeeID)
}

// CreateEvent validates the booking against the employee's events on that day
// and persists it. A *BookingError is returned for business conflicts.
func (s *Service) CreateEvent(ctx context.Context, ev Event) (string, error) {
	if err := s.checkBooking(ctx, ev); err != nil {
		return "", err
	}
	if ev.Status == "" {
		ev.Status = StatusPending
	}
	id, err := s.Store.CreateEvent(ctx, ev)
	if err != nil {
		return "", err
	}
	s.invalidate()
	return id, nil
}

func (s *Service) UpdateEvent(ctx context.Context, ev Event) error {
	if ev.ID == "" {
		return ErrEventNotFound
	}
	if _, err := s.Store.GetEvent(ctx, ev.ID); err != nil {
		return ErrEventNotFound
	}
	if err := s.checkBooking(ctx, ev); err != nil {
		return err
	}
	if err := s.Store.UpdateEvent(ctx, ev); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// CancelEvent marks the event canceled. Cancellation is a status change, not
// a delete: canceled events stay listable until the cleanup job purges them.
func (s *Service) CancelEvent(ctx context.Context, id string) error {
	if _, err := s.Store.GetEvent(ctx, id); err != nil {
		return ErrEventNotFound
	}
	if err := s.Store.UpdateEventStatus(ctx, id, StatusCanceled); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// Availability runs the engine for one date over the active roster and that
// day's event snapshot.
func (s *Service) Availability(ctx context.Context, now, date time.Time, jobTitle string, durationMinutes int) ([]EmployeeAvailability, error) {
	key := cacheKey(now, date, jobTitle, durationMinutes, s.version.Load())
	if cached, ok := s.cache.get(key); ok {
		return cached, nil
	}

	employees, err := s.Store.ListEmployees(ctx, true)
	if err != nil {
		return nil, err
	}
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	events, err := s.Store.ListEvents(ctx, dayStart, dayStart.AddDate(0, 0, 1), "")
	if err != nil {
		return nil, err
	}

	result := ComputeAvailability(now, date, jobTitle, durationMinutes, employees, events)
	s.cache.put(key, result)
	return result, nil
}

// PurgeCanceled deletes canceled events that ended before the cutoff.
func (s *Service) PurgeCanceled(ctx context.Context, cutoff time.Time) (int64, error) {
	n, err := s.Store.DeleteCanceledBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.invalidate()
	}
	return n, nil
}

func (s *Service) UpcomingReminders(ctx context.Context, from, to time.Time) ([]ReminderEntry, error) {
	return s.Store.ConfirmedEventsBetween(ctx, from, to)
}

func (s *Service) checkBooking(ctx context.Context, ev Event) error {
	if ev.EmployeeID == "" {
		return ErrEmployeeNotFound
	}
	if !ev.End.After(ev.Start) {
		return fmt.Errorf("event end must be after start")
	}
	employee, err := s.Store.GetEmployee(ctx, ev.EmployeeID)
	if err != nil {
		return ErrEmployeeNotFound
	}

	dayStart := time.Date(ev.Start.Year(), ev.Start.Month(), ev.Start.Day(), 0, 0, 0, 0, ev.Start.Location())
	existing, err := s.Store.ListEvents(ctx, dayStart, dayStart.AddDate(0, 0, 1), ev.EmployeeID)
	if err != nil {
		return err
	}

	check, err := ValidateBooking(ev, existing, employee)
	if err != nil {
		return err
	}
	if !check.OK {
		return &BookingError{Check: check}
	}
	return nil
}

// invalidate bumps the schedule version (aging out cached availability) and
// tells stream subscribers to re-fetch.
func (s *Service) invalidate() {
	s.version.Add(1)
	if s.Stream != nil {
		s.Stream.Publish()
	}
}

func validateEmployee(emp Employee) error {
	if strings.TrimSpace(emp.Name) == "" {
		return fmt.Errorf("employee name is required")
	}
	if len(emp.JobTitles) == 0 {
		return fmt.Errorf("at least one job title is required")
	}
	for day, hours := range emp.WorkHours {
		if _, ok := parseWallClock(hours.CheckIn); !ok {
			return fmt.Errorf("invalid check-in %q for %s", hours.CheckIn, day)
		}
		if _, ok := parseWallClock(hours.CheckOut); !ok {
			return fmt.Errorf("invalid check-out %q for %s", hours.CheckOut, day)
		}
	}
	return nil
}
