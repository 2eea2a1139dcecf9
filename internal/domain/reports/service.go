package reports

import (
	"context"
	"time"
)

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

// Monthly returns the revenue/expense series for the trailing 12 months.
func (s *Service) Monthly(ctx context.Context, now time.Time) ([]MonthlyTotals, error) {
	to := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, 1, 0)
	from := to.AddDate(-1, 0, 0)

	revenue, err := s.Store.MonthlyRevenue(ctx, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := s.Store.MonthlyExpenses(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return MergeMonthly(revenue, expenses), nil
}

func (s *Service) RevenueByJobTitle(ctx context.Context, from, to time.Time) ([]JobTitleRevenue, error) {
	return s.Store.RevenueByJobTitle(ctx, from, to)
}

func (s *Service) TopServices(ctx context.Context, from, to time.Time) ([]ServiceCount, error) {
	return s.Store.TopServices(ctx, from, to, 10)
}

func (s *Service) Dashboard(ctx context.Context, now time.Time) (Dashboard, error) {
	var dash Dashboard

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	appointments, err := s.Store.AppointmentCount(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return dash, err
	}
	dash.AppointmentsToday = appointments

	revenue, err := s.Store.MonthlyRevenue(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return dash, err
	}
	dash.RevenueThisMonth = revenue[MonthKey(now)]

	expenses, err := s.Store.MonthlyExpenses(ctx, monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return dash, err
	}
	dash.ExpensesThisMonth = expenses[MonthKey(now)]

	returning, total, err := s.Store.ClientCounts(ctx, now.AddDate(0, -3, 0))
	if err != nil {
		return dash, err
	}
	dash.ActiveClients = returning
	dash.RetentionRate = RetentionRate(returning, total)

	return dash, nil
}
