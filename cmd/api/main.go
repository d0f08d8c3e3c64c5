package main

import (
	"fmt"
	"net/http"

	"github.com/meridianhr/payroll-backend-go/internal/config"
	appHTTP "github.com/meridianhr/payroll-backend-go/internal/handler/http"
	"github.com/meridianhr/payroll-backend-go/internal/pkg/cron"
	"github.com/meridianhr/payroll-backend-go/internal/pkg/database"
	"github.com/meridianhr/payroll-backend-go/internal/repository/postgresql"
	payrollService "github.com/meridianhr/payroll-backend-go/internal/service/payroll"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	payItemRepo := postgresql.NewPayItemRepository(db)
	parameterRepo := postgresql.NewParameterRepository(db)
	resultRepo := postgresql.NewResultRepository(db)

	calculator := payrollService.NewCalculatorWithTolerance(cfg.Payroll.ReconTolerance)
	service := payrollService.NewPayrollService(
		calculator,
		employeeRepo,
		payItemRepo,
		parameterRepo,
		resultRepo,
		cfg.Payroll.BatchWorkers,
	)

	scheduler := cron.NewScheduler()
	cron.NewReconciliationJobs(service, cfg.Payroll.AuditInterval).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	payrollHandler := appHTTP.NewPayrollHandler(service)
	router := appHTTP.NewRouter(cfg.App.Env, payrollHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Server starting on port", cfg.App.Port)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
