package payroll

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meridianhr/payroll-backend-go/internal/domain/employee"
	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/meridianhr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type PayrollServiceImpl struct {
	calc         *Calculator
	employeeRepo employee.EmployeeRepository
	payItemRepo  payroll.PayItemRepository
	paramRepo    payroll.ParameterRepository
	resultRepo   payroll.ResultRepository
	batchWorkers int
}

func NewPayrollService(
	calc *Calculator,
	employeeRepo employee.EmployeeRepository,
	payItemRepo payroll.PayItemRepository,
	paramRepo payroll.ParameterRepository,
	resultRepo payroll.ResultRepository,
	batchWorkers int,
) payroll.PayrollService {
	if batchWorkers <= 0 {
		batchWorkers = 8
	}
	return &PayrollServiceImpl{
		calc:         calc,
		employeeRepo: employeeRepo,
		payItemRepo:  payItemRepo,
		paramRepo:    paramRepo,
		resultRepo:   resultRepo,
		batchWorkers: batchWorkers,
	}
}

// referenceDate resolves the date a calculation is anchored to: an explicit
// override, or the last day of the period.
func referenceDate(month, year int, override *string) time.Time {
	if override != nil {
		if t, ok := validator.IsValidDate(*override); ok {
			return t
		}
	}
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC)
}

// ========== CALCULATION ==========

func (s *PayrollServiceImpl) Calculate(ctx context.Context, req payroll.CalculateRequest) (payroll.PayrollResultResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollResultResponse{}, err
	}

	refDate := referenceDate(req.PeriodMonth, req.PeriodYear, req.ReferenceDate)
	params, err := s.paramRepo.GetEffective(ctx, refDate)
	if err != nil {
		return payroll.PayrollResultResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.PayrollResultResponse{}, err
	}

	items, err := s.payItemRepo.GetByEmployeePeriod(ctx, emp.ID, req.PeriodMonth, req.PeriodYear)
	if err != nil {
		return payroll.PayrollResultResponse{}, fmt.Errorf("failed to load pay items: %w", err)
	}

	result, err := s.calc.Calculate(emp, items, params, refDate)
	if err != nil {
		return payroll.PayrollResultResponse{}, err
	}
	result.PeriodMonth = req.PeriodMonth
	result.PeriodYear = req.PeriodYear

	stored, err := s.resultRepo.Upsert(ctx, result)
	if err != nil {
		return payroll.PayrollResultResponse{}, fmt.Errorf("failed to store payroll result: %w", err)
	}

	return mapToResultResponse(stored), nil
}

func (s *PayrollServiceImpl) CalculateBatch(ctx context.Context, req payroll.CalculateBatchRequest) (payroll.BatchCalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchCalculationResponse{}, err
	}

	refDate := referenceDate(req.PeriodMonth, req.PeriodYear, req.ReferenceDate)

	// A missing or malformed parameter set aborts the whole batch: every
	// calculation would fail identically.
	params, err := s.paramRepo.GetEffective(ctx, refDate)
	if err != nil {
		return payroll.BatchCalculationResponse{}, err
	}

	employees, err := s.selectEmployees(ctx, req.EmployeeIDs)
	if err != nil {
		return payroll.BatchCalculationResponse{}, err
	}

	resp := payroll.BatchCalculationResponse{
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		Results:     []payroll.PayrollResultResponse{},
		Errors:      []payroll.BatchEmployeeErrorResponse{},
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchWorkers)

	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			result, perr := s.calculateOne(gctx, emp, params, req.PeriodMonth, req.PeriodYear, refDate)

			mu.Lock()
			defer mu.Unlock()
			if perr != nil {
				resp.Errors = append(resp.Errors, payroll.BatchEmployeeErrorResponse{
					EmployeeID: emp.ID,
					Message:    perr.Error(),
				})
				return nil
			}
			resp.Results = append(resp.Results, mapToResultResponse(result))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.BatchCalculationResponse{}, err
	}

	sort.Slice(resp.Results, func(i, j int) bool { return resp.Results[i].EmployeeID < resp.Results[j].EmployeeID })
	sort.Slice(resp.Errors, func(i, j int) bool { return resp.Errors[i].EmployeeID < resp.Errors[j].EmployeeID })
	return resp, nil
}

// calculateOne is the per-employee unit of a batch run. Its error is scoped
// to that employee and never aborts the rest of the batch.
func (s *PayrollServiceImpl) calculateOne(
	ctx context.Context,
	emp employee.Employee,
	params payroll.PayrollParameters,
	month, year int,
	refDate time.Time,
) (payroll.PayrollResult, error) {
	items, err := s.payItemRepo.GetByEmployeePeriod(ctx, emp.ID, month, year)
	if err != nil {
		return payroll.PayrollResult{}, fmt.Errorf("failed to load pay items: %w", err)
	}

	result, err := s.calc.Calculate(emp, items, params, refDate)
	if err != nil {
		return payroll.PayrollResult{}, err
	}
	result.PeriodMonth = month
	result.PeriodYear = year

	stored, err := s.resultRepo.Upsert(ctx, result)
	if err != nil {
		return payroll.PayrollResult{}, fmt.Errorf("failed to store payroll result: %w", err)
	}
	return stored, nil
}

func (s *PayrollServiceImpl) selectEmployees(ctx context.Context, ids []string) ([]employee.Employee, error) {
	all, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	if len(ids) == 0 {
		return all, nil
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var selected []employee.Employee
	for _, emp := range all {
		if wanted[emp.ID] {
			selected = append(selected, emp)
		}
	}
	return selected, nil
}

func (s *PayrollServiceImpl) GetResult(ctx context.Context, employeeID string, month, year int) (payroll.PayrollResultResponse, error) {
	if month < 1 || month > 12 {
		return payroll.PayrollResultResponse{}, payroll.ErrInvalidPeriod
	}

	result, err := s.resultRepo.GetByEmployeePeriod(ctx, employeeID, month, year)
	if err != nil {
		return payroll.PayrollResultResponse{}, err
	}
	return mapToResultResponse(result), nil
}

func (s *PayrollServiceImpl) UpdateResultStatus(ctx context.Context, id string, status payroll.ResultStatus) error {
	switch status {
	case payroll.ResultStatusDraft, payroll.ResultStatusCalculated,
		payroll.ResultStatusValidated, payroll.ResultStatusPaid:
	default:
		return payroll.ErrInvalidStatusChange
	}
	return s.resultRepo.UpdateStatus(ctx, id, status)
}

// ========== RECONCILIATION ==========

func (s *PayrollServiceImpl) Reconcile(ctx context.Context, req payroll.ReconcileRequest) (payroll.ReconciliationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ReconciliationResponse{}, err
	}

	refDate := referenceDate(req.PeriodMonth, req.PeriodYear, nil)
	params, err := s.paramRepo.GetEffective(ctx, refDate)
	if err != nil {
		return payroll.ReconciliationResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.ReconciliationResponse{}, err
	}

	var expected decimal.Decimal
	if req.ExpectedNet != nil {
		expected = *req.ExpectedNet
	} else {
		stored, err := s.resultRepo.GetByEmployeePeriod(ctx, emp.ID, req.PeriodMonth, req.PeriodYear)
		if err != nil {
			return payroll.ReconciliationResponse{}, err
		}
		expected = stored.NetSalary
	}

	items, err := s.payItemRepo.GetByEmployeePeriod(ctx, emp.ID, req.PeriodMonth, req.PeriodYear)
	if err != nil {
		return payroll.ReconciliationResponse{}, fmt.Errorf("failed to load pay items: %w", err)
	}

	rec, err := s.calc.Reconcile(emp, items, params, refDate, expected)
	if err != nil {
		return payroll.ReconciliationResponse{}, err
	}
	return mapToReconciliationResponse(rec), nil
}

func (s *PayrollServiceImpl) ReconcileBatch(ctx context.Context, req payroll.ReconcileBatchRequest) (payroll.BatchReconciliationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.BatchReconciliationResponse{}, err
	}

	refDate := referenceDate(req.PeriodMonth, req.PeriodYear, nil)
	params, err := s.paramRepo.GetEffective(ctx, refDate)
	if err != nil {
		return payroll.BatchReconciliationResponse{}, err
	}

	employees, err := s.employeeRepo.GetActive(ctx)
	if err != nil {
		return payroll.BatchReconciliationResponse{}, fmt.Errorf("failed to load employees: %w", err)
	}

	resp := payroll.BatchReconciliationResponse{
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		Failures:    []payroll.ReconciliationResponse{},
		Errors:      []payroll.BatchEmployeeErrorResponse{},
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchWorkers)

	for _, emp := range employees {
		emp := emp
		g.Go(func() error {
			rec, perr := s.reconcileOne(gctx, emp, params, req.PeriodMonth, req.PeriodYear, refDate)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case perr != nil:
				resp.Errors = append(resp.Errors, payroll.BatchEmployeeErrorResponse{
					EmployeeID: emp.ID,
					Message:    perr.Error(),
				})
			case rec.Matches:
				resp.PassCount++
			default:
				resp.FailCount++
				resp.Failures = append(resp.Failures, mapToReconciliationResponse(rec))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.BatchReconciliationResponse{}, err
	}

	sort.Slice(resp.Failures, func(i, j int) bool { return resp.Failures[i].EmployeeID < resp.Failures[j].EmployeeID })
	sort.Slice(resp.Errors, func(i, j int) bool { return resp.Errors[i].EmployeeID < resp.Errors[j].EmployeeID })
	return resp, nil
}

func (s *PayrollServiceImpl) reconcileOne(
	ctx context.Context,
	emp employee.Employee,
	params payroll.PayrollParameters,
	month, year int,
	refDate time.Time,
) (payroll.ReconciliationResult, error) {
	if err := emp.ValidatePayrollInput(); err != nil {
		return payroll.ReconciliationResult{}, err
	}

	stored, err := s.resultRepo.GetByEmployeePeriod(ctx, emp.ID, month, year)
	if err != nil {
		if errors.Is(err, payroll.ErrResultNotFound) {
			return payroll.ReconciliationResult{}, fmt.Errorf("no stored payroll result for period %d-%02d", year, month)
		}
		return payroll.ReconciliationResult{}, err
	}

	items, err := s.payItemRepo.GetByEmployeePeriod(ctx, emp.ID, month, year)
	if err != nil {
		return payroll.ReconciliationResult{}, fmt.Errorf("failed to load pay items: %w", err)
	}

	return s.calc.Reconcile(emp, items, params, refDate, stored.NetSalary)
}

// ========== PAY ITEMS ==========

func (s *PayrollServiceImpl) CreatePayItem(ctx context.Context, req payroll.CreatePayItemRequest) (payroll.PayItemResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayItemResponse{}, err
	}

	// Reject items for unknown employees up front.
	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.PayItemResponse{}, err
	}

	amount := decimal.Zero
	if req.Amount != nil {
		amount = *req.Amount
	}

	item := payroll.PayItem{
		ID:               uuid.NewString(),
		EmployeeID:       req.EmployeeID,
		PeriodMonth:      req.PeriodMonth,
		PeriodYear:       req.PeriodYear,
		Kind:             payroll.PayItemKind(req.Kind),
		Label:            req.Label,
		Amount:           amount,
		Taxable:          req.Taxable,
		SocialChargeable: req.SocialChargeable,
		Hours:            req.Hours,
		HourlyRate:       req.HourlyRate,
	}

	created, err := s.payItemRepo.Create(ctx, item)
	if err != nil {
		return payroll.PayItemResponse{}, fmt.Errorf("failed to create pay item: %w", err)
	}
	return mapToPayItemResponse(created), nil
}

func (s *PayrollServiceImpl) ListPayItems(ctx context.Context, employeeID string, month, year int) ([]payroll.PayItemResponse, error) {
	if month < 1 || month > 12 {
		return nil, payroll.ErrInvalidPeriod
	}

	items, err := s.payItemRepo.GetByEmployeePeriod(ctx, employeeID, month, year)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.PayItemResponse, 0, len(items))
	for _, it := range items {
		result = append(result, mapToPayItemResponse(it))
	}
	return result, nil
}

func (s *PayrollServiceImpl) DeletePayItem(ctx context.Context, id string) error {
	return s.payItemRepo.Delete(ctx, id)
}

// ========== PARAMETERS ==========

func (s *PayrollServiceImpl) GetEffectiveParameters(ctx context.Context, dateStr string) (payroll.ParametersResponse, error) {
	date := time.Now()
	if !validator.IsEmpty(dateStr) {
		parsed, ok := validator.IsValidDate(dateStr)
		if !ok {
			return payroll.ParametersResponse{}, validator.ValidationErrors{
				{Field: "date", Message: "must be YYYY-MM-DD"},
			}
		}
		date = parsed
	}

	params, err := s.paramRepo.GetEffective(ctx, date)
	if err != nil {
		return payroll.ParametersResponse{}, err
	}
	return mapToParametersResponse(params), nil
}

func (s *PayrollServiceImpl) CreateParameters(ctx context.Context, req payroll.CreateParametersRequest) (payroll.ParametersResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ParametersResponse{}, err
	}

	created, err := s.paramRepo.Create(ctx, req.ToParameters())
	if err != nil {
		return payroll.ParametersResponse{}, err
	}
	return mapToParametersResponse(created), nil
}

// ========== HELPERS ==========

func mapToResultResponse(r payroll.PayrollResult) payroll.PayrollResultResponse {
	employeeName := ""
	employeeCode := ""
	if r.EmployeeName != nil {
		employeeName = *r.EmployeeName
	}
	if r.EmployeeCode != nil {
		employeeCode = *r.EmployeeCode
	}

	return payroll.PayrollResultResponse{
		ID:                     r.ID,
		EmployeeID:             r.EmployeeID,
		EmployeeName:           employeeName,
		EmployeeCode:           employeeCode,
		PeriodMonth:            r.PeriodMonth,
		PeriodYear:             r.PeriodYear,
		BaseSalary:             r.BaseSalary,
		TotalAdditions:         r.TotalAdditions,
		TotalDeductions:        r.TotalDeductions,
		GrossSalary:            r.GrossSalary,
		TaxableAmount:          r.TaxableAmount,
		SocialChargeableAmount: r.SocialChargeableAmount,
		EmployeeSocialCharges:  r.EmployeeSocialCharges,
		EmployerSocialCharges:  r.EmployerSocialCharges,
		IncomeTax:              r.IncomeTax,
		NetSalary:              r.NetSalary,
		EmployerTotalCost:      r.EmployerTotalCost,
		Breakdown:              r.Breakdown,
		Status:                 string(r.Status),
	}
}

func mapToPayItemResponse(it payroll.PayItem) payroll.PayItemResponse {
	return payroll.PayItemResponse{
		ID:               it.ID,
		EmployeeID:       it.EmployeeID,
		PeriodMonth:      it.PeriodMonth,
		PeriodYear:       it.PeriodYear,
		Kind:             string(it.Kind),
		Label:            it.Label,
		Amount:           it.Amount,
		Taxable:          it.Taxable,
		SocialChargeable: it.SocialChargeable,
		Hours:            it.Hours,
		HourlyRate:       it.HourlyRate,
	}
}

func mapToReconciliationResponse(r payroll.ReconciliationResult) payroll.ReconciliationResponse {
	return payroll.ReconciliationResponse{
		EmployeeID:  r.EmployeeID,
		Matches:     r.Matches,
		Discrepancy: r.Discrepancy,
		ExpectedNet: r.ExpectedNet,
		ComputedNet: r.ComputedNet,
	}
}

func mapToParametersResponse(p payroll.PayrollParameters) payroll.ParametersResponse {
	var effectiveTo *string
	if p.EffectiveTo != nil {
		str := p.EffectiveTo.Format("2006-01-02")
		effectiveTo = &str
	}

	return payroll.ParametersResponse{
		ID:                  p.ID,
		EffectiveFrom:       p.EffectiveFrom.Format("2006-01-02"),
		EffectiveTo:         effectiveTo,
		EmployeeRate:        p.EmployeeContribution.Rate,
		EmployeeCap:         p.EmployeeContribution.Cap,
		EmployerRate:        p.EmployerContribution.Rate,
		EmployerCap:         p.EmployerContribution.Cap,
		TaxBrackets:         p.TaxBrackets,
		SeniorityTiers:      p.SeniorityTiers,
		SpouseAbatement:     p.SpouseAbatement,
		ChildAbatement:      p.ChildAbatement,
		OtherAbatement:      p.OtherAbatement,
		OvertimePremium:     p.OvertimePremium,
		NominalMonthlyHours: p.NominalMonthlyHours,
		CurrencyExponent:    p.CurrencyExponent,
	}
}
