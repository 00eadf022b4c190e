// Package reminder sends WhatsApp payment reminders to clients whose loans
// have a collection day. A daily sweep runs at a fixed local hour and walks
// every outstanding loan, skipping recipients without a phone number and
// continuing past individual send failures.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prestapp/prestamos/internal/domain"
	"github.com/prestapp/prestamos/internal/infrastructure/metrics"
)

// LoanLister provides the outstanding loans eligible for collection on a day.
type LoanLister interface {
	ListOutstanding(ctx context.Context, asOf domain.Date) ([]*domain.LoanWithClient, error)
}

// Sweeper runs the daily reminder sweep.
type Sweeper struct {
	loans     LoanLister
	messenger Messenger
	logger    *slog.Logger
	metrics   *metrics.Metrics
	location  *time.Location
	hour      int
}

// Config for Sweeper.
type Config struct {
	Loans     LoanLister
	Messenger Messenger
	Logger    *slog.Logger
	Metrics   *metrics.Metrics
	Location  *time.Location
	Hour      int // Local hour of day to run the sweep
}

// NewSweeper creates a new Sweeper.
func NewSweeper(cfg Config) *Sweeper {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	return &Sweeper{
		loans:     cfg.Loans,
		messenger: cfg.Messenger,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		location:  cfg.Location,
		hour:      cfg.Hour,
	}
}

// Start runs the sweep once per day at the configured local hour.
// It runs continuously until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.logger.Info("reminder sweeper started",
		slog.Int("hour", s.hour),
		slog.String("timezone", s.location.String()))

	for {
		wait := s.untilNextRun(time.Now().In(s.location))
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("reminder sweeper shutting down")
			return ctx.Err()
		case <-timer.C:
			if err := s.Run(ctx, domain.Today(s.location)); err != nil {
				s.logger.Error("reminder sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}

// Run executes one sweep for the given day. Send failures are logged per
// recipient and do not stop the sweep.
func (s *Sweeper) Run(ctx context.Context, on domain.Date) error {
	start := time.Now()
	if s.metrics != nil {
		s.metrics.ReminderSweeps.Inc()
		defer func() {
			s.metrics.ReminderSweepTime.Observe(time.Since(start).Seconds())
		}()
	}

	loans, err := s.loans.ListOutstanding(ctx, on)
	if err != nil {
		return err
	}

	s.logger.Info("running reminder sweep",
		slog.String("date", on.String()),
		slog.Int("loans", len(loans)))

	for _, loan := range loans {
		if loan.ClientPhone == "" {
			continue
		}

		body := reminderBody(loan)
		if err := s.messenger.SendWhatsApp(ctx, loan.ClientPhone, body); err != nil {
			s.logger.Error("failed to send reminder",
				slog.String("loan_id", loan.ID),
				slog.String("client", loan.ClientName),
				slog.String("error", err.Error()))
			if s.metrics != nil {
				s.metrics.ReminderFailures.Inc()
			}
			// Continue with the remaining recipients even if one fails
			continue
		}

		s.logger.Info("reminder sent",
			slog.String("loan_id", loan.ID),
			slog.String("client", loan.ClientName))
		if s.metrics != nil {
			s.metrics.RemindersSent.Inc()
		}
	}

	return nil
}

// untilNextRun returns the wait until the next sweep time. A run scheduled
// for today that has already passed rolls over to tomorrow.
func (s *Sweeper) untilNextRun(now time.Time) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, s.location)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

func reminderBody(loan *domain.LoanWithClient) string {
	kind := "diario"
	if loan.TermUnit == domain.TermWeekly {
		kind = "semanal"
	}

	return fmt.Sprintf(
		"Hola %s, te recordamos que tu pago %s de $%s vence hoy. ¡Por favor, realiza tu pago a tiempo!",
		loan.ClientName, kind, loan.RemainingBalance.StringFixed(0))
}
