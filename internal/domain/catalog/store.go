package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInsufficientStock = errors.New("insufficient stock")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListServices(ctx context.Context, activeOnly bool) ([]Service, error) {
	query := `
    SELECT id, name, job_title, duration_minutes, price, active, created_at, updated_at
    FROM services
  `
	if activeOnly {
		query += " WHERE active = true"
	}
	query += " ORDER BY job_title, name"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Service
	for rows.Next() {
		var sv Service
		if err := rows.Scan(&sv.ID, &sv.Name, &sv.JobTitle, &sv.DurationMinutes, &sv.Price, &sv.Active, &sv.CreatedAt, &sv.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, sv)
	}
	return out, rows.Err()
}

func (s *Store) GetService(ctx context.Context, id string) (Service, error) {
	var sv Service
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, job_title, duration_minutes, price, active, created_at, updated_at
    FROM services
    WHERE id = $1
  `, id).Scan(&sv.ID, &sv.Name, &sv.JobTitle, &sv.DurationMinutes, &sv.Price, &sv.Active, &sv.CreatedAt, &sv.UpdatedAt)
	return sv, err
}

func (s *Store) CreateService(ctx context.Context, sv Service) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO services (name, job_title, duration_minutes, price, active)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, sv.Name, sv.JobTitle, sv.DurationMinutes, sv.Price, sv.Active).Scan(&id)
	return id, err
}

func (s *Store) UpdateService(ctx context.Context, sv Service) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE services
    SET name = $1, job_title = $2, duration_minutes = $3, price = $4, active = $5, updated_at = now()
    WHERE id = $6
  `, sv.Name, sv.JobTitle, sv.DurationMinutes, sv.Price, sv.Active, sv.ID)
	return err
}

func (s *Store) ListProducts(ctx context.Context, activeOnly bool) ([]Product, error) {
	query := `
    SELECT id, name, stock, cost, price, active, created_at, updated_at
    FROM products
  `
	if activeOnly {
		query += " WHERE active = true"
	}
	query += " ORDER BY name"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Stock, &p.Cost, &p.Price, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetProduct(ctx context.Context, id string) (Product, error) {
	var p Product
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, stock, cost, price, active, created_at, updated_at
    FROM products
    WHERE id = $1
  `, id).Scan(&p.ID, &p.Name, &p.Stock, &p.Cost, &p.Price, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) CreateProduct(ctx context.Context, p Product) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO products (name, stock, cost, price, active)
    VALUES ($1,$2,$3,$4,$5)
    RETURNING id
  `, p.Name, p.Stock, p.Cost, p.Price, p.Active).Scan(&id)
	return id, err
}

func (s *Store) UpdateProduct(ctx context.Context, p Product) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE products
    SET name = $1, stock = $2, cost = $3, price = $4, active = $5, updated_at = now()
    WHERE id = $6
  `, p.Name, p.Stock, p.Cost, p.Price, p.Active, p.ID)
	return err
}

// DecrementStock fails the sale rather than letting stock go negative.
func (s *Store) DecrementStock(ctx context.Context, productID string, quantity int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE products SET stock = stock - $1, updated_at = now()
    WHERE id = $2 AND stock >= $1
  `, quantity, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInsufficientStock
	}
	return nil
}

func (s *Store) IncrementStock(ctx context.Context, productID string, quantity int) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE products SET stock = stock + $1, updated_at = now()
    WHERE id = $2
  `, quantity, productID)
	return err
}
