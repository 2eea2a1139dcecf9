package schedule

import (
	"context"
	"time"
)

type StoreAPI interface {
	ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error)
	GetEmployee(ctx context.Context, id string) (Employee, error)
	CreateEmployee(ctx context.Context, emp Employee) (string, error)
	UpdateEmployee(ctx context.Context, emp Employee) error

	ListEvents(ctx context.Context, from, to time.Time, employeeID string) ([]Event, error)
	GetEvent(ctx context.Context, id string) (Event, error)
	CreateEvent(ctx context.Context, ev Event) (string, error)
	UpdateEvent(ctx context.Context, ev Event) error
	UpdateEventStatus(ctx context.Context, id, status string) error
	DeleteCanceledBefore(ctx context.Context, cutoff time.Time) (int64, error)
	ConfirmedEventsBetween(ctx context.Context, from, to time.Time) ([]ReminderEntry, error)
}

// ReminderEntry is one upcoming appointment joined with the contact details
// the reminder job needs.
type ReminderEntry struct {
	EventID      string
	Start        time.Time
	End          time.Time
	EmployeeName string
	ServiceName  string
	ClientName   string
	ClientEmail  string
	ClientPhone  string
}
