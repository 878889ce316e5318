package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/moritzdotcom/ourshift-backend-go/internal/config"
	appHTTP "github.com/moritzdotcom/ourshift-backend-go/internal/handler/http"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/cron"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/database"
	"github.com/moritzdotcom/ourshift-backend-go/internal/pkg/timeutil"
	"github.com/moritzdotcom/ourshift-backend-go/internal/repository/postgresql"
	kpiService "github.com/moritzdotcom/ourshift-backend-go/internal/service/kpi"
	payrollService "github.com/moritzdotcom/ourshift-backend-go/internal/service/payroll"
	timeaccountService "github.com/moritzdotcom/ourshift-backend-go/internal/service/timeaccount"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	loc, err := time.LoadLocation(cfg.App.BusinessTimezone)
	if err != nil {
		fmt.Println("Error loading business timezone:", err)
		return
	}
	cal := timeutil.NewCalendar(loc)

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	userRepo := postgresql.NewUserRepository(db)
	contractRepo := postgresql.NewContractRepository(db)
	payRuleRepo := postgresql.NewPayRuleRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	vacationRepo := postgresql.NewVacationRepository(db)
	kpiRepo := postgresql.NewKpiRepository(db)

	payrollSvc := payrollService.NewService(userRepo, contractRepo, payRuleRepo, shiftRepo, holidayRepo, cal)
	timeAccountSvc := timeaccountService.NewService(userRepo, contractRepo, shiftRepo, vacationRepo, cal)
	kpiSvc := kpiService.NewService(kpiRepo, payrollSvc, timeAccountSvc, shiftRepo, cal, cfg.Kpi.MaxAge)

	kpiHandler := appHTTP.NewKpiHandler(kpiSvc, cal)
	router := appHTTP.NewRouter(cfg.App.Env, kpiHandler)

	scheduler := cron.NewScheduler()
	cron.NewKpiJobs(kpiSvc, cal).RegisterJobs(scheduler)
	scheduler.Start()
	defer scheduler.Stop()

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
