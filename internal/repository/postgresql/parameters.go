package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/meridianhr/payroll-backend-go/internal/pkg/database"
)

type parameterRepository struct {
	db *database.DB
}

func NewParameterRepository(db *database.DB) payroll.ParameterRepository {
	return &parameterRepository{db: db}
}

// Bracket and tier tables are stored as JSONB; everything else is a plain
// column so validity-window queries stay indexable.
type parameterRow struct {
	params       *payroll.PayrollParameters
	bracketsJSON []byte
	tiersJSON    []byte
}

func (pr parameterRow) unmarshal() (payroll.PayrollParameters, error) {
	p := *pr.params
	if err := json.Unmarshal(pr.bracketsJSON, &p.TaxBrackets); err != nil {
		return payroll.PayrollParameters{}, fmt.Errorf("%w: malformed tax bracket table: %v", payroll.ErrInvalidParameters, err)
	}
	if err := json.Unmarshal(pr.tiersJSON, &p.SeniorityTiers); err != nil {
		return payroll.PayrollParameters{}, fmt.Errorf("%w: malformed seniority tier table: %v", payroll.ErrInvalidParameters, err)
	}
	return p, nil
}

const parameterColumns = `
	id, effective_from, effective_to,
	employee_rate, employee_cap, employer_rate, employer_cap,
	tax_brackets, seniority_tiers,
	spouse_abatement, child_abatement, other_abatement,
	overtime_premium, nominal_monthly_hours, currency_exponent,
	created_at, updated_at
`

func scanParameters(row pgx.Row) (payroll.PayrollParameters, error) {
	var p payroll.PayrollParameters
	pr := parameterRow{params: &p}
	err := row.Scan(
		&p.ID, &p.EffectiveFrom, &p.EffectiveTo,
		&p.EmployeeContribution.Rate, &p.EmployeeContribution.Cap,
		&p.EmployerContribution.Rate, &p.EmployerContribution.Cap,
		&pr.bracketsJSON, &pr.tiersJSON,
		&p.SpouseAbatement, &p.ChildAbatement, &p.OtherAbatement,
		&p.OvertimePremium, &p.NominalMonthlyHours, &p.CurrencyExponent,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return payroll.PayrollParameters{}, err
	}
	return pr.unmarshal()
}

// GetEffective returns the parameter set whose validity window contains date.
// Sets are validated on load: a stored-but-broken set must abort calculations
// rather than feed them garbage.
func (r *parameterRepository) GetEffective(ctx context.Context, date time.Time) (payroll.PayrollParameters, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + parameterColumns + `
		FROM payroll_parameters
		WHERE effective_from <= $1
		  AND (effective_to IS NULL OR effective_to > $1)
		ORDER BY effective_from DESC
		LIMIT 1
	`

	p, err := scanParameters(q.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollParameters{}, payroll.ErrNoEffectiveParameters
		}
		if errors.Is(err, payroll.ErrInvalidParameters) {
			return payroll.PayrollParameters{}, err
		}
		return payroll.PayrollParameters{}, fmt.Errorf("failed to get payroll parameters: %w", err)
	}

	if err := p.Validate(); err != nil {
		return payroll.PayrollParameters{}, err
	}
	return p, nil
}

func (r *parameterRepository) Create(ctx context.Context, params payroll.PayrollParameters) (payroll.PayrollParameters, error) {
	if err := params.Validate(); err != nil {
		return payroll.PayrollParameters{}, err
	}

	bracketsJSON, err := json.Marshal(params.TaxBrackets)
	if err != nil {
		return payroll.PayrollParameters{}, fmt.Errorf("failed to encode tax brackets: %w", err)
	}
	tiersJSON, err := json.Marshal(params.SeniorityTiers)
	if err != nil {
		return payroll.PayrollParameters{}, fmt.Errorf("failed to encode seniority tiers: %w", err)
	}

	// Overlap check and insert must see the same table state, so both run
	// in one transaction.
	var created payroll.PayrollParameters
	err = WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		// Two open-ended windows always overlap; otherwise the windows
		// must be disjoint.
		overlapQuery := `
			SELECT EXISTS (
				SELECT 1 FROM payroll_parameters
				WHERE ($2::date IS NULL OR effective_from < $2)
				  AND (effective_to IS NULL OR effective_to > $1)
			)
		`
		var overlaps bool
		if err := q.QueryRow(txCtx, overlapQuery, params.EffectiveFrom, params.EffectiveTo).Scan(&overlaps); err != nil {
			return fmt.Errorf("failed to check parameter overlap: %w", err)
		}
		if overlaps {
			return payroll.ErrParameterSetOverlaps
		}

		query := `
			INSERT INTO payroll_parameters (
				effective_from, effective_to,
				employee_rate, employee_cap, employer_rate, employer_cap,
				tax_brackets, seniority_tiers,
				spouse_abatement, child_abatement, other_abatement,
				overtime_premium, nominal_monthly_hours, currency_exponent
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			RETURNING ` + parameterColumns

		var err error
		created, err = scanParameters(q.QueryRow(txCtx, query,
			params.EffectiveFrom, params.EffectiveTo,
			params.EmployeeContribution.Rate, params.EmployeeContribution.Cap,
			params.EmployerContribution.Rate, params.EmployerContribution.Cap,
			bracketsJSON, tiersJSON,
			params.SpouseAbatement, params.ChildAbatement, params.OtherAbatement,
			params.OvertimePremium, params.NominalMonthlyHours, params.CurrencyExponent,
		))
		if err != nil {
			return fmt.Errorf("failed to create payroll parameters: %w", err)
		}
		return nil
	})
	if err != nil {
		return payroll.PayrollParameters{}, err
	}

	return created, nil
}

func (r *parameterRepository) List(ctx context.Context) ([]payroll.PayrollParameters, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + parameterColumns + `
		FROM payroll_parameters
		ORDER BY effective_from DESC
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll parameters: %w", err)
	}
	defer rows.Close()

	var sets []payroll.PayrollParameters
	for rows.Next() {
		p, err := scanParameters(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll parameters: %w", err)
		}
		sets = append(sets, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll parameters: %w", err)
	}

	return sets, nil
}
