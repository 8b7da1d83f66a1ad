package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// QuoteExpiryJobName is the name of the quote expiry job
const QuoteExpiryJobName = "quote_expiry"

// QuoteExpirer defines the interface for expiring overdue quotes.
// This interface allows the job to call the service without importing
// the service package directly.
type QuoteExpirer interface {
	// ExpireOverdue marks draft and pending quotes past their validity
	// date as expired. Returns the number of quotes expired.
	ExpireOverdue(ctx context.Context) (int, error)
}

// QuoteExpiryJob marks overdue quotes as expired on a schedule.
type QuoteExpiryJob struct {
	quotes  QuoteExpirer
	logger  *zap.Logger
	timeout time.Duration
}

// NewQuoteExpiryJob creates a new quote expiry job.
// The timeout controls how long a single run is allowed to take.
func NewQuoteExpiryJob(quotes QuoteExpirer, logger *zap.Logger, timeout time.Duration) *QuoteExpiryJob {
	return &QuoteExpiryJob{
		quotes:  quotes,
		logger:  logger,
		timeout: timeout,
	}
}

// Run executes the quote expiry job.
// This is called by the scheduler according to the cron expression.
func (j *QuoteExpiryJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()

	expired, err := j.quotes.ExpireOverdue(ctx)
	if err != nil {
		j.logger.Error("quote expiry job failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
		return
	}

	if expired > 0 {
		j.logger.Info("quote expiry job completed",
			zap.Int("quotes_expired", expired),
			zap.Duration("duration", time.Since(start)))
	}
}

// RegisterQuoteExpiryJob registers the quote expiry job with the scheduler.
func RegisterQuoteExpiryJob(scheduler *Scheduler, quotes QuoteExpirer, logger *zap.Logger, cronExpr string, timeout time.Duration) error {
	job := NewQuoteExpiryJob(quotes, logger, timeout)
	return scheduler.AddJob(QuoteExpiryJobName, cronExpr, job.Run)
}
