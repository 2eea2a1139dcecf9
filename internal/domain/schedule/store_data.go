package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListEmployees(ctx context.Context, activeOnly bool) ([]Employee, error) {
	query := `
    SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''),
           job_titles, status, allow_overlap, work_hours, created_at, updated_at
    FROM employees
  `
	if activeOnly {
		query += " WHERE status = 'active'"
	}
	query += " ORDER BY created_at"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var emp Employee
		var hoursJSON []byte
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Phone, &emp.Email,
			&emp.JobTitles, &emp.Status, &emp.AllowOverlap, &hoursJSON,
			&emp.CreatedAt, &emp.UpdatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalHours(hoursJSON, &emp.WorkHours); err != nil {
			return nil, fmt.Errorf("employee %s work hours: %w", emp.ID, err)
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id string) (Employee, error) {
	var emp Employee
	var hoursJSON []byte
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''),
           job_titles, status, allow_overlap, work_hours, created_at, updated_at
    FROM employees
    WHERE id = $1
  `, id).Scan(&emp.ID, &emp.Name, &emp.Phone, &emp.Email,
		&emp.JobTitles, &emp.Status, &emp.AllowOverlap, &hoursJSON,
		&emp.CreatedAt, &emp.UpdatedAt)
	if err != nil {
		return Employee{}, err
	}
	if err := unmarshalHours(hoursJSON, &emp.WorkHours); err != nil {
		return Employee{}, fmt.Errorf("employee %s work hours: %w", emp.ID, err)
	}
	return emp, nil
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) (string, error) {
	hoursJSON, err := json.Marshal(emp.WorkHours)
	if err != nil {
		return "", err
	}
	var id string
	err = s.DB.QueryRow(ctx, `
    INSERT INTO employees (name, phone, email, job_titles, status, allow_overlap, work_hours)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, emp.Name, emp.Phone, emp.Email, emp.JobTitles, emp.Status, emp.AllowOverlap, hoursJSON).Scan(&id)
	return id, err
}

func (s *Store) UpdateEmployee(ctx context.Context, emp Employee) error {
	hoursJSON, err := json.Marshal(emp.WorkHours)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    UPDATE employees
    SET name = $1, phone = $2, email = $3, job_titles = $4,
        status = $5, allow_overlap = $6, work_hours = $7, updated_at = now()
    WHERE id = $8
  `, emp.Name, emp.Phone, emp.Email, emp.JobTitles, emp.Status, emp.AllowOverlap, hoursJSON, emp.ID)
	return err
}

func (s *Store) ListEvents(ctx context.Context, from, to time.Time, employeeID string) ([]Event, error) {
	query := `
    SELECT id, employee_id, COALESCE(client_id::text, ''), COALESCE(service_id::text, ''),
           start_at, end_at, status, is_all_day, COALESCE(notes, ''), created_at, updated_at
    FROM schedule_events
    WHERE start_at < $2 AND end_at > $1
  `
	args := []any{from, to}
	if employeeID != "" {
		query += " AND employee_id = $3"
		args = append(args, employeeID)
	}
	query += " ORDER BY start_at"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.ClientID, &ev.ServiceID,
			&ev.Start, &ev.End, &ev.Status, &ev.IsAllDay, &ev.Notes,
			&ev.CreatedAt, &ev.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *Store) GetEvent(ctx context.Context, id string) (Event, error) {
	var ev Event
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, COALESCE(client_id::text, ''), COALESCE(service_id::text, ''),
           start_at, end_at, status, is_all_day, COALESCE(notes, ''), created_at, updated_at
    FROM schedule_events
    WHERE id = $1
  `, id).Scan(&ev.ID, &ev.EmployeeID, &ev.ClientID, &ev.ServiceID,
		&ev.Start, &ev.End, &ev.Status, &ev.IsAllDay, &ev.Notes,
		&ev.CreatedAt, &ev.UpdatedAt)
	return ev, err
}

func (s *Store) CreateEvent(ctx context.Context, ev Event) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO schedule_events (employee_id, client_id, service_id, start_at, end_at, status, is_all_day, notes)
    VALUES ($1, NULLIF($2, '')::uuid, NULLIF($3, '')::uuid, $4, $5, $6, $7, $8)
    RETURNING id
  `, ev.EmployeeID, ev.ClientID, ev.ServiceID, ev.Start, ev.End, ev.Status, ev.IsAllDay, ev.Notes).Scan(&id)
	return id, err
}

func (s *Store) UpdateEvent(ctx context.Context, ev Event) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE schedule_events
    SET employee_id = $1, client_id = NULLIF($2, '')::uuid, service_id = NULLIF($3, '')::uuid,
        start_at = $4, end_at = $5, status = $6, is_all_day = $7, notes = $8, updated_at = now()
    WHERE id = $9
  `, ev.EmployeeID, ev.ClientID, ev.ServiceID, ev.Start, ev.End, ev.Status, ev.IsAllDay, ev.Notes, ev.ID)
	return err
}

func (s *Store) UpdateEventStatus(ctx context.Context, id, status string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE schedule_events SET status = $1, updated_at = now() WHERE id = $2
  `, status, id)
	return err
}

func (s *Store) DeleteCanceledBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM schedule_events WHERE status = 'canceled' AND end_at < $1
  `, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *Store) ConfirmedEventsBetween(ctx context.Context, from, to time.Time) ([]ReminderEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT ev.id, ev.start_at, ev.end_at, emp.name,
           COALESCE(sv.name, ''), COALESCE(c.name, ''),
           COALESCE(c.email, ''), COALESCE(c.phone, '')
    FROM schedule_events ev
    JOIN employees emp ON emp.id = ev.employee_id
    LEFT JOIN services sv ON sv.id = ev.service_id
    LEFT JOIN clients c ON c.id = ev.client_id
    WHERE ev.status = 'confirmed' AND ev.is_all_day = false
      AND ev.start_at >= $1 AND ev.start_at < $2
    ORDER BY ev.start_at
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ReminderEntry
	for rows.Next() {
		var entry ReminderEntry
		if err := rows.Scan(&entry.EventID, &entry.Start, &entry.End, &entry.EmployeeName,
			&entry.ServiceName, &entry.ClientName, &entry.ClientEmail, &entry.ClientPhone); err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func unmarshalHours(data []byte, hours *WorkingHours) error {
	if len(data) == 0 {
		*hours = WorkingHours{}
		return nil
	}
	return json.Unmarshal(data, hours)
}
