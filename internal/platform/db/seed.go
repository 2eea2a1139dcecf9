package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"salon/internal/domain/auth"
	"salon/internal/platform/config"
)

// Seed ensures the admin account and a starter catalog exist. Every step is
// idempotent so startup can run it unconditionally.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}
	return ensureStarterCatalog(ctx, pool)
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	if email == "" {
		email = "admin@example.com"
	}
	if password == "" {
		password = "admin1234"
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, name, role, active, password_hash)
    VALUES ($1, 'Administrator', $2, true, $3)
  `, email, auth.RoleAdmin, hash)
	return err
}

func ensureStarterCatalog(ctx context.Context, pool *pgxpool.Pool) error {
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM services").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	starters := []struct {
		name     string
		jobTitle string
		duration int
		price    float64
	}{
		{"Haircut", "stylist", 45, 35},
		{"Blow Dry", "stylist", 30, 25},
		{"Full Color", "colorist", 90, 80},
		{"Manicure", "nail technician", 45, 30},
	}
	for _, sv := range starters {
		_, err := pool.Exec(ctx, `
      INSERT INTO services (name, job_title, duration_minutes, price, active)
      VALUES ($1, $2, $3, $4, true)
    `, sv.name, sv.jobTitle, sv.duration, sv.price)
		if err != nil {
			return err
		}
	}
	return nil
}
