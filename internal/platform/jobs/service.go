package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"salon/internal/domain/schedule"
	"salon/internal/platform/config"
	"salon/internal/platform/notify"
)

// Service runs the scheduled background work: next-day appointment reminders
// and purging of stale canceled events.
type Service struct {
	Schedule *schedule.Service
	Notify   *notify.Service
	Cfg      config.Config
	cron     *cron.Cron
}

func New(scheduleSvc *schedule.Service, notifySvc *notify.Service, cfg config.Config) *Service {
	return &Service{
		Schedule: scheduleSvc,
		Notify:   notifySvc,
		Cfg:      cfg,
		cron:     cron.New(),
	}
}

func (s *Service) Start(ctx context.Context) error {
	if s.Cfg.RemindersEnabled {
		if _, err := s.cron.AddFunc(s.Cfg.ReminderCronSpec, func() {
			if err := s.SendReminders(ctx, time.Now()); err != nil {
				slog.Warn("reminder job failed", "err", err)
			}
		}); err != nil {
			return fmt.Errorf("schedule reminder job: %w", err)
		}
	}

	if _, err := s.cron.AddFunc(s.Cfg.CleanupCronSpec, func() {
		cutoff := time.Now().Add(-s.Cfg.CanceledRetention)
		n, err := s.Schedule.PurgeCanceled(ctx, cutoff)
		if err != nil {
			slog.Warn("cleanup job failed", "err", err)
			return
		}
		if n > 0 {
			slog.Info("purged canceled events", "count", n)
		}
	}); err != nil {
		return fmt.Errorf("schedule cleanup job: %w", err)
	}

	s.cron.Start()
	go func() {
		<-ctx.Done()
		s.cron.Stop()
	}()
	return nil
}

// SendReminders notifies every client with a confirmed appointment tomorrow.
// A single failed send is logged and skipped so one bad phone number does not
// starve the rest of the batch.
func (s *Service) SendReminders(ctx context.Context, now time.Time) error {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	entries, err := s.Schedule.UpcomingReminders(ctx, dayStart, dayStart.AddDate(0, 0, 1))
	if err != nil {
		return err
	}

	for _, entry := range entries {
		body := reminderBody(entry)
		if entry.ClientEmail != "" {
			if err := s.Notify.SendEmail(entry.ClientEmail, entry.ClientName, "Appointment reminder", body); err != nil {
				slog.Warn("reminder email failed", "eventId", entry.EventID, "err", err)
			}
		}
		if entry.ClientPhone != "" {
			if err := s.Notify.SendSMS(entry.ClientPhone, body); err != nil {
				slog.Warn("reminder sms failed", "eventId", entry.EventID, "err", err)
			}
		}
	}
	slog.Info("reminders sent", "count", len(entries))
	return nil
}

func reminderBody(entry schedule.ReminderEntry) string {
	when := entry.Start.Format("Monday Jan 2 at 15:04")
	if entry.ServiceName != "" {
		return fmt.Sprintf("Reminder: %s with %s on %s. Reply or call to reschedule.", entry.ServiceName, entry.EmployeeName, when)
	}
	return fmt.Sprintf("Reminder: appointment with %s on %s. Reply or call to reschedule.", entry.EmployeeName, when)
}
