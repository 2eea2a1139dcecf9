package shared

import "time"

// ParseDate accepts RFC3339 or YYYY-MM-DD. Bare dates resolve in local time
// so wall-clock working hours line up with them.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.ParseInLocation("2006-01-02", value, time.Local)
}
