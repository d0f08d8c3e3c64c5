package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/meridianhr/payroll-backend-go/internal/pkg/database"
)

type payItemRepository struct {
	db *database.DB
}

func NewPayItemRepository(db *database.DB) payroll.PayItemRepository {
	return &payItemRepository{db: db}
}

func (r *payItemRepository) Create(ctx context.Context, item payroll.PayItem) (payroll.PayItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO pay_items (
			id, employee_id, period_month, period_year, kind, label,
			amount, taxable, social_chargeable, hours, hourly_rate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, employee_id, period_month, period_year, kind, label,
			amount, taxable, social_chargeable, hours, hourly_rate,
			created_at, updated_at
	`

	var it payroll.PayItem
	err := q.QueryRow(ctx, query,
		item.ID, item.EmployeeID, item.PeriodMonth, item.PeriodYear, item.Kind, item.Label,
		item.Amount, item.Taxable, item.SocialChargeable, item.Hours, item.HourlyRate,
	).Scan(
		&it.ID, &it.EmployeeID, &it.PeriodMonth, &it.PeriodYear, &it.Kind, &it.Label,
		&it.Amount, &it.Taxable, &it.SocialChargeable, &it.Hours, &it.HourlyRate,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return payroll.PayItem{}, fmt.Errorf("failed to create pay item: %w", err)
	}

	return it, nil
}

func (r *payItemRepository) GetByID(ctx context.Context, id string) (payroll.PayItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, period_month, period_year, kind, label,
			amount, taxable, social_chargeable, hours, hourly_rate,
			created_at, updated_at
		FROM pay_items
		WHERE id = $1
	`

	var it payroll.PayItem
	err := q.QueryRow(ctx, query, id).Scan(
		&it.ID, &it.EmployeeID, &it.PeriodMonth, &it.PeriodYear, &it.Kind, &it.Label,
		&it.Amount, &it.Taxable, &it.SocialChargeable, &it.Hours, &it.HourlyRate,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayItem{}, payroll.ErrPayItemNotFound
		}
		return payroll.PayItem{}, fmt.Errorf("failed to get pay item: %w", err)
	}

	return it, nil
}

func (r *payItemRepository) GetByEmployeePeriod(ctx context.Context, employeeID string, month, year int) ([]payroll.PayItem, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, period_month, period_year, kind, label,
			amount, taxable, social_chargeable, hours, hourly_rate,
			created_at, updated_at
		FROM pay_items
		WHERE employee_id = $1 AND period_month = $2 AND period_year = $3
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, employeeID, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list pay items: %w", err)
	}
	defer rows.Close()

	var items []payroll.PayItem
	for rows.Next() {
		var it payroll.PayItem
		err := rows.Scan(
			&it.ID, &it.EmployeeID, &it.PeriodMonth, &it.PeriodYear, &it.Kind, &it.Label,
			&it.Amount, &it.Taxable, &it.SocialChargeable, &it.Hours, &it.HourlyRate,
			&it.CreatedAt, &it.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pay item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pay items: %w", err)
	}

	return items, nil
}

func (r *payItemRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM pay_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pay item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayItemNotFound
	}
	return nil
}
