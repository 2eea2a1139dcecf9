package reports

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) MonthlyRevenue(ctx context.Context, from, to time.Time) (map[string]float64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT to_char(sold_at, 'YYYY-MM'), COALESCE(SUM(total), 0)
    FROM sales
    WHERE sold_at >= $1 AND sold_at < $2
    GROUP BY 1
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMonthTotals(rows)
}

func (s *Store) MonthlyExpenses(ctx context.Context, from, to time.Time) (map[string]float64, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT to_char(incurred_on, 'YYYY-MM'), COALESCE(SUM(amount), 0)
    FROM expenses
    WHERE incurred_on >= $1 AND incurred_on < $2
    GROUP BY 1
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMonthTotals(rows)
}

func (s *Store) RevenueByJobTitle(ctx context.Context, from, to time.Time) ([]JobTitleRevenue, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT COALESCE(sv.job_title, 'other'), COALESCE(SUM(si.quantity * si.unit_price), 0)
    FROM sale_items si
    JOIN sales sa ON sa.id = si.sale_id
    LEFT JOIN services sv ON sv.id = si.reference_id AND si.kind = 'service'
    WHERE sa.sold_at >= $1 AND sa.sold_at < $2
    GROUP BY 1
    ORDER BY 2 DESC
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JobTitleRevenue
	for rows.Next() {
		var r JobTitleRevenue
		if err := rows.Scan(&r.JobTitle, &r.Revenue); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) TopServices(ctx context.Context, from, to time.Time, limit int) ([]ServiceCount, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT si.description, COUNT(1)
    FROM sale_items si
    JOIN sales sa ON sa.id = si.sale_id
    WHERE si.kind = 'service' AND sa.sold_at >= $1 AND sa.sold_at < $2
    GROUP BY si.description
    ORDER BY 2 DESC
    LIMIT $3
  `, from, to, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ServiceCount
	for rows.Next() {
		var sc ServiceCount
		if err := rows.Scan(&sc.ServiceName, &sc.Count); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) AppointmentCount(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM schedule_events
    WHERE status != 'canceled' AND is_all_day = false
      AND start_at >= $1 AND start_at < $2
  `, from, to).Scan(&count)
	return count, err
}

func (s *Store) ClientCounts(ctx context.Context, since time.Time) (returning, total int, err error) {
	if err = s.DB.QueryRow(ctx, "SELECT COUNT(1) FROM clients").Scan(&total); err != nil {
		return 0, 0, err
	}
	err = s.DB.QueryRow(ctx, `
    SELECT COUNT(DISTINCT client_id) FROM schedule_events
    WHERE client_id IS NOT NULL AND status != 'canceled' AND start_at >= $1
  `, since).Scan(&returning)
	return returning, total, err
}

type monthRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanMonthTotals(rows monthRows) (map[string]float64, error) {
	out := make(map[string]float64)
	for rows.Next() {
		var month string
		var total float64
		if err := rows.Scan(&month, &total); err != nil {
			return nil, err
		}
		out[month] = total
	}
	return out, rows.Err()
}
