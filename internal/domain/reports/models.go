package reports

// Typed report records. The dashboards consume these directly; no ad hoc
// JSON shaping happens client-side.

type MonthlyTotals struct {
	Month    string  `json:"month"` // "2026-01"
	Revenue  float64 `json:"revenue"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

type JobTitleRevenue struct {
	JobTitle string  `json:"jobTitle"`
	Revenue  float64 `json:"revenue"`
}

type ServiceCount struct {
	ServiceName string `json:"serviceName"`
	Count       int    `json:"count"`
}

type Dashboard struct {
	AppointmentsToday int     `json:"appointmentsToday"`
	RevenueThisMonth  float64 `json:"revenueThisMonth"`
	ExpensesThisMonth float64 `json:"expensesThisMonth"`
	ActiveClients     int     `json:"activeClients"`
	RetentionRate     float64 `json:"retentionRate"`
}
