package sales

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, sale Sale) (string, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `
    INSERT INTO sales (client_id, employee_id, total, payment_method, payment_url, sold_at)
    VALUES (NULLIF($1, '')::uuid, NULLIF($2, '')::uuid, $3, $4, $5, $6)
    RETURNING id
  `, sale.ClientID, sale.EmployeeID, sale.Total, sale.PaymentMethod, sale.PaymentURL, sale.SoldAt).Scan(&id)
	if err != nil {
		return "", err
	}

	for _, item := range sale.Items {
		if _, err := tx.Exec(ctx, `
      INSERT INTO sale_items (sale_id, kind, reference_id, description, quantity, unit_price)
      VALUES ($1, $2, NULLIF($3, '')::uuid, $4, $5, $6)
    `, id, item.Kind, item.ReferenceID, item.Description, item.Quantity, item.UnitPrice); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, id string) (Sale, error) {
	var sale Sale
	err := s.DB.QueryRow(ctx, `
    SELECT sa.id, COALESCE(sa.client_id::text, ''), COALESCE(c.name, ''),
           COALESCE(sa.employee_id::text, ''), COALESCE(e.name, ''),
           sa.total, sa.payment_method, COALESCE(sa.payment_url, ''), sa.sold_at, sa.created_at
    FROM sales sa
    LEFT JOIN clients c ON c.id = sa.client_id
    LEFT JOIN employees e ON e.id = sa.employee_id
    WHERE sa.id = $1
  `, id).Scan(&sale.ID, &sale.ClientID, &sale.ClientName, &sale.EmployeeID, &sale.EmployeeName,
		&sale.Total, &sale.PaymentMethod, &sale.PaymentURL, &sale.SoldAt, &sale.CreatedAt)
	if err != nil {
		return Sale{}, err
	}

	rows, err := s.DB.Query(ctx, `
    SELECT id, kind, COALESCE(reference_id::text, ''), description, quantity, unit_price
    FROM sale_items
    WHERE sale_id = $1
    ORDER BY created_at
  `, id)
	if err != nil {
		return Sale{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var item SaleItem
		if err := rows.Scan(&item.ID, &item.Kind, &item.ReferenceID, &item.Description, &item.Quantity, &item.UnitPrice); err != nil {
			return Sale{}, err
		}
		sale.Items = append(sale.Items, item)
	}
	return sale, rows.Err()
}

func (s *Store) List(ctx context.Context, from, to time.Time, limit, offset int) ([]Sale, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT sa.id, COALESCE(sa.client_id::text, ''), COALESCE(c.name, ''),
           COALESCE(sa.employee_id::text, ''), COALESCE(e.name, ''),
           sa.total, sa.payment_method, COALESCE(sa.payment_url, ''), sa.sold_at, sa.created_at
    FROM sales sa
    LEFT JOIN clients c ON c.id = sa.client_id
    LEFT JOIN employees e ON e.id = sa.employee_id
    WHERE sa.sold_at >= $1 AND sa.sold_at < $2
    ORDER BY sa.sold_at DESC
    LIMIT $3 OFFSET $4
  `, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sale
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.ID, &sale.ClientID, &sale.ClientName, &sale.EmployeeID, &sale.EmployeeName,
			&sale.Total, &sale.PaymentMethod, &sale.PaymentURL, &sale.SoldAt, &sale.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	return out, rows.Err()
}
