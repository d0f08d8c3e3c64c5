package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/meridianhr/payroll-backend-go/internal/pkg/database"
)

type resultRepository struct {
	db *database.DB
}

func NewResultRepository(db *database.DB) payroll.ResultRepository {
	return &resultRepository{db: db}
}

const resultColumns = `
	r.id, r.employee_id, r.period_month, r.period_year,
	r.base_salary, r.total_additions, r.total_deductions, r.gross_salary,
	r.taxable_amount, r.social_chargeable_amount,
	r.employee_social_charges, r.employer_social_charges,
	r.income_tax, r.net_salary, r.employer_total_cost,
	r.breakdown, r.status, r.created_at, r.updated_at,
	e.full_name, e.employee_code
`

func scanResult(row pgx.Row) (payroll.PayrollResult, error) {
	var res payroll.PayrollResult
	var breakdownJSON []byte
	err := row.Scan(
		&res.ID, &res.EmployeeID, &res.PeriodMonth, &res.PeriodYear,
		&res.BaseSalary, &res.TotalAdditions, &res.TotalDeductions, &res.GrossSalary,
		&res.TaxableAmount, &res.SocialChargeableAmount,
		&res.EmployeeSocialCharges, &res.EmployerSocialCharges,
		&res.IncomeTax, &res.NetSalary, &res.EmployerTotalCost,
		&breakdownJSON, &res.Status, &res.CreatedAt, &res.UpdatedAt,
		&res.EmployeeName, &res.EmployeeCode,
	)
	if err != nil {
		return payroll.PayrollResult{}, err
	}
	if err := json.Unmarshal(breakdownJSON, &res.Breakdown); err != nil {
		return payroll.PayrollResult{}, fmt.Errorf("failed to decode result breakdown: %w", err)
	}
	return res, nil
}

// Upsert replaces the stored result for the employee and period. A result in
// the paid state is never overwritten.
func (r *resultRepository) Upsert(ctx context.Context, result payroll.PayrollResult) (payroll.PayrollResult, error) {
	breakdownJSON, err := json.Marshal(result.Breakdown)
	if err != nil {
		return payroll.PayrollResult{}, fmt.Errorf("failed to encode result breakdown: %w", err)
	}

	// Status pre-check and write run in one transaction so the paid guard
	// cannot race a concurrent payment.
	var stored payroll.PayrollResult
	err = WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		var status payroll.ResultStatus
		err := q.QueryRow(txCtx,
			`SELECT status FROM payroll_results WHERE employee_id = $1 AND period_month = $2 AND period_year = $3 FOR UPDATE`,
			result.EmployeeID, result.PeriodMonth, result.PeriodYear,
		).Scan(&status)
		switch {
		case err == nil:
			if status == payroll.ResultStatusPaid {
				return payroll.ErrResultAlreadyPaid
			}
		case errors.Is(err, pgx.ErrNoRows):
		default:
			return fmt.Errorf("failed to check stored result: %w", err)
		}

		query := `
		WITH upserted AS (
			INSERT INTO payroll_results (
				employee_id, period_month, period_year,
				base_salary, total_additions, total_deductions, gross_salary,
				taxable_amount, social_chargeable_amount,
				employee_social_charges, employer_social_charges,
				income_tax, net_salary, employer_total_cost,
				breakdown, status
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
			ON CONFLICT (employee_id, period_month, period_year) DO UPDATE SET
				base_salary = EXCLUDED.base_salary,
				total_additions = EXCLUDED.total_additions,
				total_deductions = EXCLUDED.total_deductions,
				gross_salary = EXCLUDED.gross_salary,
				taxable_amount = EXCLUDED.taxable_amount,
				social_chargeable_amount = EXCLUDED.social_chargeable_amount,
				employee_social_charges = EXCLUDED.employee_social_charges,
				employer_social_charges = EXCLUDED.employer_social_charges,
				income_tax = EXCLUDED.income_tax,
				net_salary = EXCLUDED.net_salary,
				employer_total_cost = EXCLUDED.employer_total_cost,
				breakdown = EXCLUDED.breakdown,
				status = EXCLUDED.status,
				updated_at = NOW()
			WHERE payroll_results.status <> 'paid'
			RETURNING *
		)
		SELECT ` + resultColumns + `
		FROM upserted r
		JOIN employees e ON e.id = r.employee_id
	`

		stored, err = scanResult(q.QueryRow(txCtx, query,
			result.EmployeeID, result.PeriodMonth, result.PeriodYear,
			result.BaseSalary, result.TotalAdditions, result.TotalDeductions, result.GrossSalary,
			result.TaxableAmount, result.SocialChargeableAmount,
			result.EmployeeSocialCharges, result.EmployerSocialCharges,
			result.IncomeTax, result.NetSalary, result.EmployerTotalCost,
			breakdownJSON, result.Status,
		))
		if err != nil {
			return fmt.Errorf("failed to upsert payroll result: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.PayrollResult{}, err
	}

	return stored, nil
}

func (r *resultRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) (payroll.PayrollResult, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + resultColumns + `
		FROM payroll_results r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.employee_id = $1 AND r.period_month = $2 AND r.period_year = $3
	`

	res, err := scanResult(q.QueryRow(ctx, query, employeeID, month, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollResult{}, payroll.ErrResultNotFound
		}
		return payroll.PayrollResult{}, fmt.Errorf("failed to get payroll result: %w", err)
	}

	return res, nil
}

func (r *resultRepository) ListByPeriod(ctx context.Context, month, year int) ([]payroll.PayrollResult, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + resultColumns + `
		FROM payroll_results r
		JOIN employees e ON e.id = r.employee_id
		WHERE r.period_month = $1 AND r.period_year = $2
		ORDER BY e.employee_code
	`

	rows, err := q.Query(ctx, query, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll results: %w", err)
	}
	defer rows.Close()

	var results []payroll.PayrollResult
	for rows.Next() {
		res, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll result: %w", err)
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll results: %w", err)
	}

	return results, nil
}

func (r *resultRepository) UpdateStatus(ctx context.Context, id string, status payroll.ResultStatus) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_results
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status <> 'paid'
	`

	tag, err := q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("failed to update result status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var current payroll.ResultStatus
		err := q.QueryRow(ctx, `SELECT status FROM payroll_results WHERE id = $1`, id).Scan(&current)
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.ErrResultNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check result status: %w", err)
		}
		return payroll.ErrResultAlreadyPaid
	}
	return nil
}
