package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
)

// batchReconciler is the slice of the payroll service the audit job needs.
type batchReconciler interface {
	ReconcileBatch(ctx context.Context, req payroll.ReconcileBatchRequest) (payroll.BatchReconciliationResponse, error)
}

// ReconciliationJobs periodically re-checks stored payroll results for drift
// against a fresh calculation.
type ReconciliationJobs struct {
	reconciler batchReconciler
	interval   time.Duration
	now        func() time.Time
}

func NewReconciliationJobs(reconciler batchReconciler, interval time.Duration) *ReconciliationJobs {
	return &ReconciliationJobs{
		reconciler: reconciler,
		interval:   interval,
		now:        time.Now,
	}
}

func (j *ReconciliationJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("audit_previous_period", j.interval, j.AuditPreviousPeriod)
}

// previousPeriod resolves the calendar month before the one containing now.
// Going through the first of the current month avoids AddDate's day
// normalization, which on month-end days would roll forward into the
// current month instead.
func previousPeriod(now time.Time) (month, year int) {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, 0, -1)
	return int(prev.Month()), prev.Year()
}

// AuditPreviousPeriod reconciles every stored result of the previous calendar
// month. Per-employee mismatches are logged, not returned: a drift finding is
// an operator signal, not a job failure.
func (j *ReconciliationJobs) AuditPreviousPeriod(ctx context.Context) error {
	month, year := previousPeriod(j.now().UTC())

	slog.Info("Cron: starting reconciliation audit", "period_month", month, "period_year", year)

	resp, err := j.reconciler.ReconcileBatch(ctx, payroll.ReconcileBatchRequest{
		PeriodMonth: month,
		PeriodYear:  year,
	})
	if err != nil {
		return fmt.Errorf("reconciliation audit for %d-%02d: %w", year, month, err)
	}

	for _, f := range resp.Failures {
		slog.Warn("Cron: payroll result drift detected",
			"employee_id", f.EmployeeID,
			"expected_net", f.ExpectedNet.String(),
			"computed_net", f.ComputedNet.String(),
			"discrepancy", f.Discrepancy.String(),
		)
	}
	for _, e := range resp.Errors {
		slog.Warn("Cron: employee skipped during reconciliation audit",
			"employee_id", e.EmployeeID, "reason", e.Message)
	}

	slog.Info("Cron: reconciliation audit completed",
		"pass_count", resp.PassCount,
		"fail_count", resp.FailCount,
		"error_count", len(resp.Errors),
	)
	return nil
}
