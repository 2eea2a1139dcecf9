package schedule

import "time"

const (
	StatusPending     = "pending"
	StatusConfirmed   = "confirmed"
	StatusCanceled    = "canceled"
	StatusUnavailable = "unavailable"
)

// DayHours is one weekday's working window, wall-clock "15:04" strings.
type DayHours struct {
	CheckIn  string `json:"checkIn"`
	CheckOut string `json:"checkOut"`
}

// WorkingHours maps weekday names ("Sunday".."Saturday") to working windows.
// A missing day means the employee does not work that day.
type WorkingHours map[string]DayHours

type Employee struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Phone        string       `json:"phone"`
	Email        string       `json:"email"`
	JobTitles    []string     `json:"jobTitles"`
	Status       string       `json:"status"`
	AllowOverlap bool         `json:"allowOverlap"`
	WorkHours    WorkingHours `json:"workHours"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func (e Employee) HasJobTitle(title string) bool {
	for _, t := range e.JobTitles {
		if t == title {
			return true
		}
	}
	return false
}

type Event struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	ClientID   string    `json:"clientId,omitempty"`
	ServiceID  string    `json:"serviceId,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	Status     string    `json:"status"`
	IsAllDay   bool      `json:"isAllDay"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Slot is a bookable window of exactly the requested duration. Not persisted.
type Slot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// EmployeeAvailability pairs an employee with their free slots for one date.
// Slots is empty, never nil, when the employee has no availability.
type EmployeeAvailability struct {
	Employee Employee `json:"employee"`
	Slots    []Slot   `json:"slots"`
}
