package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"salon/internal/app/server"
	"salon/internal/platform/config"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   any             `json:"error"`
}

func TestBookingJourney(t *testing.T) {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		DatabaseURL:        dbURL,
		JWTSecret:          "test-secret",
		FrontendDir:        "frontend/dist",
		MigrationsDir:      "../../../../migrations",
		Environment:        "test",
		SeedSalonName:      "Test Salon",
		SeedAdminEmail:     "admin@test.local",
		SeedAdminPassword:  "ChangeMe123!",
		RunMigrations:      true,
		RunSeed:            true,
		MaxBodyBytes:       1048576,
		RateLimitPerMinute: 1000,
		AvailabilityCache:  64,
	}

	app, err := server.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("failed to start app: %v", err)
	}
	defer app.Close()

	ts := httptest.NewServer(app.Router)
	defer ts.Close()

	client := ts.Client()
	token := login(t, client, ts.URL, cfg.SeedAdminEmail, cfg.SeedAdminPassword)

	employeeID := createEmployee(t, client, ts.URL, token)

	day := nextMonday()
	slots := availability(t, client, ts.URL, token, day)
	if len(slots) == 0 {
		t.Fatal("expected open slots for a fresh employee")
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), 10, 0, 0, 0, time.Local)
	eventID := createEvent(t, client, ts.URL, token, employeeID, start, start.Add(45*time.Minute), http.StatusCreated)

	// Same window again must conflict.
	resp := postEvent(t, client, ts.URL, token, employeeID, start.Add(15*time.Minute), start.Add(time.Hour))
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409 for overlapping booking, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = postEvent(t, client, ts.URL, token, employeeID,
		time.Date(day.Year(), day.Month(), day.Day(), 18, 0, 0, 0, time.Local),
		time.Date(day.Year(), day.Month(), day.Day(), 19, 0, 0, 0, time.Local))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for booking outside working hours, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	cancelEvent(t, client, ts.URL, token, eventID)

	reopened := availability(t, client, ts.URL, token, day)
	if len(reopened) < len(slots) {
		t.Fatalf("expected canceled slot to reopen: %d slots before, %d after", len(slots), len(reopened))
	}
}

func login(t *testing.T, client *http.Client, baseURL, email, password string) string {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	resp, err := client.Post(baseURL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("login failed with %d: %s", resp.StatusCode, raw)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	var data struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode login data: %v", err)
	}
	if data.Token == "" {
		t.Fatal("expected a token from login")
	}
	return data.Token
}

func createEmployee(t *testing.T, client *http.Client, baseURL, token string) string {
	t.Helper()

	hours := map[string]map[string]string{}
	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"} {
		hours[day] = map[string]string{"checkIn": "09:00", "checkOut": "17:00"}
	}
	payload := map[string]any{
		"name":      fmt.Sprintf("Journey Stylist %d", time.Now().UnixNano()),
		"jobTitles": []string{"stylist"},
		"workHours": hours,
	}

	env := doJSON(t, client, http.MethodPost, baseURL+"/api/v1/employees/", token, payload, http.StatusCreated)
	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode employee id: %v", err)
	}
	return data.ID
}

func availability(t *testing.T, client *http.Client, baseURL, token string, day time.Time) []json.RawMessage {
	t.Helper()

	url := fmt.Sprintf("%s/api/v1/schedule/availability?date=%s&jobTitle=stylist&duration=45",
		baseURL, day.Format("2006-01-02"))
	env := doJSON(t, client, http.MethodGet, url, token, nil, http.StatusOK)

	var data []struct {
		Slots []json.RawMessage `json:"slots"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode availability: %v", err)
	}
	var slots []json.RawMessage
	for _, entry := range data {
		slots = append(slots, entry.Slots...)
	}
	return slots
}

func createEvent(t *testing.T, client *http.Client, baseURL, token, employeeID string, start, end time.Time, wantStatus int) string {
	t.Helper()

	resp := postEvent(t, client, baseURL, token, employeeID, start, end)
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("create event: expected %d, got %d: %s", wantStatus, resp.StatusCode, raw)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode event response: %v", err)
	}
	var data struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode event id: %v", err)
	}
	return data.ID
}

func postEvent(t *testing.T, client *http.Client, baseURL, token, employeeID string, start, end time.Time) *http.Response {
	t.Helper()

	body, _ := json.Marshal(map[string]any{
		"employeeId": employeeID,
		"start":      start.Format(time.RFC3339),
		"end":        end.Format(time.RFC3339),
	})
	req, err := http.NewRequest(http.MethodPost, baseURL+"/api/v1/schedule/events", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("build event request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("event request failed: %v", err)
	}
	return resp
}

func cancelEvent(t *testing.T, client *http.Client, baseURL, token, eventID string) {
	t.Helper()
	doJSON(t, client, http.MethodPost, baseURL+"/api/v1/schedule/events/"+eventID+"/cancel", token, nil, http.StatusOK)
}

func doJSON(t *testing.T, client *http.Client, method, url, token string, payload any, wantStatus int) envelope {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("%s %s: expected %d, got %d: %s", method, url, wantStatus, resp.StatusCode, raw)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func nextMonday() time.Time {
	day := time.Now().AddDate(0, 0, 1)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}
