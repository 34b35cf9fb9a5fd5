package main

import (
	"fmt"
	"net/http"

	"github.com/hrportal/leave-backend-go/internal/config"
	appHTTP "github.com/hrportal/leave-backend-go/internal/handler/http"
	"github.com/hrportal/leave-backend-go/internal/pkg/database"
	"github.com/hrportal/leave-backend-go/internal/pkg/jwt"
	"github.com/hrportal/leave-backend-go/internal/repository/postgresql"
	auditService "github.com/hrportal/leave-backend-go/internal/service/audit"
	"github.com/hrportal/leave-backend-go/internal/service/calendar"
	leaveService "github.com/hrportal/leave-backend-go/internal/service/leave"
	notificationService "github.com/hrportal/leave-backend-go/internal/service/notification"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	accountRepo := postgresql.NewAccountRepository(db)
	carryoverRepo := postgresql.NewCarryoverRepository(db)
	bonusRepo := postgresql.NewBonusRepository(db)
	requestRepo := postgresql.NewRequestRepository(db)
	holidayRepo := postgresql.NewHolidayRepository(db)
	auditRepo := postgresql.NewAuditRepository(db)
	notificationRepo := postgresql.NewNotificationRepository(db)
	directory := postgresql.NewEmployeeDirectory(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)

	auditor := auditService.NewEmitter(auditRepo, auditService.Config{QueueSize: cfg.Audit.QueueSize})
	defer auditor.Stop()
	notifier := notificationService.NewDispatcher(notificationRepo, notificationService.Config{})
	defer notifier.Stop()

	cal := calendar.New()
	ledger := leaveService.NewLedgerService(txManager, accountRepo, carryoverRepo, bonusRepo)
	workflow := leaveService.NewWorkflowService(txManager, cal, ledger, requestRepo, accountRepo, holidayRepo, directory, auditor, notifier)
	correction := leaveService.NewCorrectionService(txManager, cal, ledger, requestRepo, holidayRepo, auditor)
	grants := leaveService.NewGrantsService(accountRepo, carryoverRepo, bonusRepo, directory, auditor)

	leaveHandler := appHTTP.NewLeaveHandler(workflow, correction, grants, ledger, holidayRepo)

	router := appHTTP.NewRouter(cfg, jwtService, leaveHandler)

	addr := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Println("Starting server on", addr)
	if err := http.ListenAndServe(addr, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
