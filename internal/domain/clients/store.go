package clients

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context, search string, limit, offset int) (ListResult, error) {
	result := ListResult{Clients: []Client{}}

	filter := "%" + search + "%"
	if err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1) FROM clients
    WHERE $1 = '%%' OR name ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1
  `, filter).Scan(&result.Total); err != nil {
		return result, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), birth_date, COALESCE(notes, ''), created_at, updated_at
    FROM clients
    WHERE $1 = '%%' OR name ILIKE $1 OR phone ILIKE $1 OR email ILIKE $1
    ORDER BY name
    LIMIT $2 OFFSET $3
  `, filter, limit, offset)
	if err != nil {
		return result, err
	}
	defer rows.Close()

	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.BirthDate, &c.Notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return result, err
		}
		result.Clients = append(result.Clients, c)
	}
	return result, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (Client, error) {
	var c Client
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, COALESCE(phone, ''), COALESCE(email, ''), birth_date, COALESCE(notes, ''), created_at, updated_at
    FROM clients
    WHERE id = $1
  `, id).Scan(&c.ID, &c.Name, &c.Phone, &c.Email, &c.BirthDate, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (s *Store) Create(ctx context.Context, c Client) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO clients (name, phone, email, birth_date, notes)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, c.Name, c.Phone, c.Email, c.BirthDate, c.Notes).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, c Client) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE clients
    SET name = $1, phone = $2, email = $3, birth_date = $4, notes = $5, updated_at = now()
    WHERE id = $6
  `, c.Name, c.Phone, c.Email, c.BirthDate, c.Notes, c.ID)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM clients WHERE id = $1", id)
	return err
}
