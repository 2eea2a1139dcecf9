package catalog

import "time"

// Service is a bookable treatment tied to a job title; its duration seeds the
// availability duration filter in the calendar UI.
type Service struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	JobTitle        string    `json:"jobTitle"`
	DurationMinutes int       `json:"durationMinutes"`
	Price           float64   `json:"price"`
	Active          bool      `json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Stock     int       `json:"stock"`
	Cost      float64   `json:"cost"`
	Price     float64   `json:"price"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
