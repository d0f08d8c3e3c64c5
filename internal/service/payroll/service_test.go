package payroll

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/meridianhr/payroll-backend-go/internal/domain/employee"
	"github.com/meridianhr/payroll-backend-go/internal/domain/payroll"
	"github.com/meridianhr/payroll-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== IN-MEMORY COLLABORATORS =====

type fakeEmployeeRepo struct {
	employees map[string]employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	emp, ok := f.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (f *fakeEmployeeRepo) GetActive(_ context.Context) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, emp := range f.employees {
		out = append(out, emp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakePayItemRepo struct {
	mu    sync.Mutex
	items map[string]payroll.PayItem
}

func newFakePayItemRepo() *fakePayItemRepo {
	return &fakePayItemRepo{items: make(map[string]payroll.PayItem)}
}

func (f *fakePayItemRepo) Create(_ context.Context, it payroll.PayItem) (payroll.PayItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[it.ID] = it
	return it, nil
}

func (f *fakePayItemRepo) GetByID(_ context.Context, id string) (payroll.PayItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return payroll.PayItem{}, payroll.ErrPayItemNotFound
	}
	return it, nil
}

func (f *fakePayItemRepo) GetByEmployeePeriod(_ context.Context, employeeID string, month, year int) ([]payroll.PayItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.PayItem
	for _, it := range f.items {
		if it.EmployeeID == employeeID && it.PeriodMonth == month && it.PeriodYear == year {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakePayItemRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return payroll.ErrPayItemNotFound
	}
	delete(f.items, id)
	return nil
}

type fakeParamRepo struct {
	params payroll.PayrollParameters
	err    error
}

func (f *fakeParamRepo) GetEffective(_ context.Context, _ time.Time) (payroll.PayrollParameters, error) {
	if f.err != nil {
		return payroll.PayrollParameters{}, f.err
	}
	return f.params, nil
}

func (f *fakeParamRepo) Create(_ context.Context, p payroll.PayrollParameters) (payroll.PayrollParameters, error) {
	p.ID = "params-1"
	f.params = p
	return p, nil
}

func (f *fakeParamRepo) List(_ context.Context) ([]payroll.PayrollParameters, error) {
	return []payroll.PayrollParameters{f.params}, nil
}

type fakeResultRepo struct {
	mu      sync.Mutex
	results map[string]payroll.PayrollResult
}

func newFakeResultRepo() *fakeResultRepo {
	return &fakeResultRepo{results: make(map[string]payroll.PayrollResult)}
}

func resultKey(employeeID string, month, year int) string {
	return fmt.Sprintf("%s/%d-%02d", employeeID, year, month)
}

func (f *fakeResultRepo) Upsert(_ context.Context, r payroll.PayrollResult) (payroll.PayrollResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if r.ID == "" {
		r.ID = "res-" + r.EmployeeID
	}
	f.results[resultKey(r.EmployeeID, r.PeriodMonth, r.PeriodYear)] = r
	return r, nil
}

func (f *fakeResultRepo) GetByEmployeePeriod(_ context.Context, employeeID string, month, year int) (payroll.PayrollResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.results[resultKey(employeeID, month, year)]
	if !ok {
		return payroll.PayrollResult{}, payroll.ErrResultNotFound
	}
	return r, nil
}

func (f *fakeResultRepo) ListByPeriod(_ context.Context, month, year int) ([]payroll.PayrollResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []payroll.PayrollResult
	for _, r := range f.results {
		if r.PeriodMonth == month && r.PeriodYear == year {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResultRepo) UpdateStatus(_ context.Context, id string, status payroll.ResultStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for k, r := range f.results {
		if r.ID == id {
			if r.Status == payroll.ResultStatusPaid {
				return payroll.ErrResultAlreadyPaid
			}
			r.Status = status
			f.results[k] = r
			return nil
		}
	}
	return payroll.ErrResultNotFound
}

// ===== FIXTURES =====

func batchEmployees(n int) map[string]employee.Employee {
	out := make(map[string]employee.Employee, n)
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("emp-%02d", i)
		emp := testEmployee("500000")
		emp.ID = id
		out[id] = emp
	}
	return out
}

func newTestService(emps map[string]employee.Employee, paramErr error) (payroll.PayrollService, *fakeResultRepo, *fakePayItemRepo) {
	resultRepo := newFakeResultRepo()
	payItemRepo := newFakePayItemRepo()
	svc := NewPayrollService(
		NewCalculator(),
		&fakeEmployeeRepo{employees: emps},
		payItemRepo,
		&fakeParamRepo{params: testParams(), err: paramErr},
		resultRepo,
		4,
	)
	return svc, resultRepo, payItemRepo
}

// ===== CALCULATION =====

func TestPayrollService_CalculateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(batchEmployees(1), nil)

	resp, err := svc.Calculate(ctx, payroll.CalculateRequest{
		EmployeeID:  "emp-01",
		PeriodMonth: 6,
		PeriodYear:  2025,
	})
	require.NoError(t, err)
	assert.Equal(t, "465000", resp.NetSalary.String())
	assert.Equal(t, 6, resp.PeriodMonth)

	got, err := svc.GetResult(ctx, "emp-01", 6, 2025)
	require.NoError(t, err)
	assert.Equal(t, resp.NetSalary.String(), got.NetSalary.String())
	assert.Equal(t, string(payroll.ResultStatusCalculated), got.Status)
}

func TestPayrollService_Calculate_UnknownEmployee(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(batchEmployees(1), nil)

	_, err := svc.Calculate(context.Background(), payroll.CalculateRequest{
		EmployeeID:  "nobody",
		PeriodMonth: 6,
		PeriodYear:  2025,
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestPayrollService_Calculate_RequestValidation(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(batchEmployees(1), nil)

	_, err := svc.Calculate(context.Background(), payroll.CalculateRequest{
		EmployeeID:  "emp-01",
		PeriodMonth: 13,
		PeriodYear:  2025,
	})

	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestPayrollService_CalculateBatch_IsolatesInvalidEmployee(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	emps := batchEmployees(10)
	bad := emps["emp-10"]
	bad.BaseSalary = decimal.Zero
	emps["emp-10"] = bad

	svc, _, _ := newTestService(emps, nil)

	resp, err := svc.CalculateBatch(ctx, payroll.CalculateBatchRequest{PeriodMonth: 6, PeriodYear: 2025})
	require.NoError(t, err)

	assert.Len(t, resp.Results, 9)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "emp-10", resp.Errors[0].EmployeeID)
	assert.Contains(t, resp.Errors[0].Message, "base salary")
}

func TestPayrollService_CalculateBatch_AbortsWithoutParameters(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(batchEmployees(3), payroll.ErrNoEffectiveParameters)

	_, err := svc.CalculateBatch(context.Background(), payroll.CalculateBatchRequest{PeriodMonth: 6, PeriodYear: 2025})
	assert.ErrorIs(t, err, payroll.ErrNoEffectiveParameters)
}

func TestPayrollService_CalculateBatch_SelectsRequestedEmployees(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(batchEmployees(5), nil)

	resp, err := svc.CalculateBatch(context.Background(), payroll.CalculateBatchRequest{
		PeriodMonth: 6,
		PeriodYear:  2025,
		EmployeeIDs: []string{"emp-02", "emp-04"},
	})
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, "emp-02", resp.Results[0].EmployeeID)
	assert.Equal(t, "emp-04", resp.Results[1].EmployeeID)
}

// ===== RECONCILIATION =====

func TestPayrollService_Reconcile_AgainstStoredResult(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(batchEmployees(1), nil)

	_, err := svc.Calculate(ctx, payroll.CalculateRequest{EmployeeID: "emp-01", PeriodMonth: 6, PeriodYear: 2025})
	require.NoError(t, err)

	rec, err := svc.Reconcile(ctx, payroll.ReconcileRequest{EmployeeID: "emp-01", PeriodMonth: 6, PeriodYear: 2025})
	require.NoError(t, err)
	assert.True(t, rec.Matches)
	assert.True(t, rec.Discrepancy.IsZero())
}

func TestPayrollService_Reconcile_ExpectedNetOverride(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(batchEmployees(1), nil)

	expected := decimal.RequireFromString("400000")
	rec, err := svc.Reconcile(ctx, payroll.ReconcileRequest{
		EmployeeID:  "emp-01",
		PeriodMonth: 6,
		PeriodYear:  2025,
		ExpectedNet: &expected,
	})
	require.NoError(t, err)

	assert.False(t, rec.Matches)
	// computed 465,000 minus expected 400,000
	assert.Equal(t, "65000", rec.Discrepancy.String())
}

func TestPayrollService_ReconcileBatch_IsolatesInvalidEmployee(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	emps := batchEmployees(10)
	bad := emps["emp-10"]
	bad.BaseSalary = decimal.Zero
	emps["emp-10"] = bad

	svc, _, _ := newTestService(emps, nil)

	// store results for the nine valid employees
	_, err := svc.CalculateBatch(ctx, payroll.CalculateBatchRequest{PeriodMonth: 6, PeriodYear: 2025})
	require.NoError(t, err)

	resp, err := svc.ReconcileBatch(ctx, payroll.ReconcileBatchRequest{PeriodMonth: 6, PeriodYear: 2025})
	require.NoError(t, err)

	assert.Equal(t, 9, resp.PassCount)
	assert.Equal(t, 0, resp.FailCount)
	assert.Empty(t, resp.Failures)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "emp-10", resp.Errors[0].EmployeeID)
}

func TestPayrollService_ReconcileBatch_DetectsDrift(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, resultRepo, _ := newTestService(batchEmployees(4), nil)

	_, err := svc.CalculateBatch(ctx, payroll.CalculateBatchRequest{PeriodMonth: 6, PeriodYear: 2025})
	require.NoError(t, err)

	// simulate drift: bump one stored net beyond tolerance
	stored, err := resultRepo.GetByEmployeePeriod(ctx, "emp-03", 6, 2025)
	require.NoError(t, err)
	stored.NetSalary = stored.NetSalary.Add(decimal.NewFromInt(10))
	_, err = resultRepo.Upsert(ctx, stored)
	require.NoError(t, err)

	resp, err := svc.ReconcileBatch(ctx, payroll.ReconcileBatchRequest{PeriodMonth: 6, PeriodYear: 2025})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.PassCount)
	assert.Equal(t, 1, resp.FailCount)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "emp-03", resp.Failures[0].EmployeeID)
	assert.Equal(t, "-10", resp.Failures[0].Discrepancy.String())
	assert.Empty(t, resp.Errors)
}

func TestPayrollService_ReconcileBatch_AbortsOnConfigurationError(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(batchEmployees(3), payroll.ErrNoEffectiveParameters)

	_, err := svc.ReconcileBatch(context.Background(), payroll.ReconcileBatchRequest{PeriodMonth: 6, PeriodYear: 2025})
	assert.ErrorIs(t, err, payroll.ErrNoEffectiveParameters)
}

// ===== PAY ITEMS =====

func TestPayrollService_CreatePayItem(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(batchEmployees(1), nil)

	amount := decimal.RequireFromString("45000")
	resp, err := svc.CreatePayItem(ctx, payroll.CreatePayItemRequest{
		EmployeeID:       "emp-01",
		PeriodMonth:      6,
		PeriodYear:       2025,
		Kind:             "allowance",
		Label:            "transport allowance",
		Amount:           &amount,
		Taxable:          true,
		SocialChargeable: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)

	items, err := svc.ListPayItems(ctx, "emp-01", 6, 2025)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "transport allowance", items[0].Label)
}

func TestPayrollService_CreatePayItem_MissingAmount(t *testing.T) {
	t.Parallel()
	svc, _, _ := newTestService(batchEmployees(1), nil)

	_, err := svc.CreatePayItem(context.Background(), payroll.CreatePayItemRequest{
		EmployeeID:  "emp-01",
		PeriodMonth: 6,
		PeriodYear:  2025,
		Kind:        "allowance",
		Label:       "transport allowance",
	})

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "amount")
}

func TestPayrollService_CreatePayItem_OvertimeHoursWithoutAmount(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, _, _ := newTestService(batchEmployees(1), nil)

	hours := decimal.NewFromInt(8)
	resp, err := svc.CreatePayItem(ctx, payroll.CreatePayItemRequest{
		EmployeeID:       "emp-01",
		PeriodMonth:      6,
		PeriodYear:       2025,
		Kind:             "overtime",
		Label:            "overtime",
		Hours:            &hours,
		Taxable:          true,
		SocialChargeable: true,
	})
	require.NoError(t, err)
	assert.True(t, resp.Amount.IsZero())
	require.NotNil(t, resp.Hours)
	assert.Equal(t, "8", resp.Hours.String())
}

// ===== STATUS =====

func TestPayrollService_UpdateResultStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, resultRepo, _ := newTestService(batchEmployees(1), nil)

	resp, err := svc.Calculate(ctx, payroll.CalculateRequest{EmployeeID: "emp-01", PeriodMonth: 6, PeriodYear: 2025})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateResultStatus(ctx, resp.ID, payroll.ResultStatusPaid))

	stored, err := resultRepo.GetByEmployeePeriod(ctx, "emp-01", 6, 2025)
	require.NoError(t, err)
	assert.Equal(t, payroll.ResultStatusPaid, stored.Status)

	// paid results are immutable
	err = svc.UpdateResultStatus(ctx, resp.ID, payroll.ResultStatusDraft)
	assert.ErrorIs(t, err, payroll.ErrResultAlreadyPaid)

	err = svc.UpdateResultStatus(ctx, resp.ID, "bogus")
	assert.ErrorIs(t, err, payroll.ErrInvalidStatusChange)
}
