package expenses

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

func (s *Store) List(ctx context.Context, from, to time.Time) ([]Expense, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, description, category, amount, incurred_on, created_at, updated_at
    FROM expenses
    WHERE incurred_on >= $1 AND incurred_on < $2
    ORDER BY incurred_on DESC
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		var e Expense
		if err := rows.Scan(&e.ID, &e.Description, &e.Category, &e.Amount, &e.IncurredOn, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, e Expense) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO expenses (description, category, amount, incurred_on)
    VALUES ($1,$2,$3,$4)
    RETURNING id
  `, e.Description, e.Category, e.Amount, e.IncurredOn).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, e Expense) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE expenses
    SET description = $1, category = $2, amount = $3, incurred_on = $4, updated_at = now()
    WHERE id = $5
  `, e.Description, e.Category, e.Amount, e.IncurredOn, e.ID)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM expenses WHERE id = $1", id)
	return err
}
