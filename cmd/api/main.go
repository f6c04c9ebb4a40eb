package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oficina-erp/payroll-engine/internal/config"
	"github.com/oficina-erp/payroll-engine/internal/fixtures"
	appHTTP "github.com/oficina-erp/payroll-engine/internal/handler/http"
	"github.com/oficina-erp/payroll-engine/internal/pkg/cron"
	"github.com/oficina-erp/payroll-engine/internal/pkg/database"
	"github.com/oficina-erp/payroll-engine/internal/pkg/jwt"
	"github.com/oficina-erp/payroll-engine/internal/repository/postgresql"
	bonusService "github.com/oficina-erp/payroll-engine/internal/service/bonus"
	"github.com/oficina-erp/payroll-engine/internal/service/master"
	payrollService "github.com/oficina-erp/payroll-engine/internal/service/payroll"
	taxService "github.com/oficina-erp/payroll-engine/internal/service/tax"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	employeeRepo := postgresql.NewEmployeeRepository(db)
	positionRepo := postgresql.NewPositionRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)
	advanceRepo := postgresql.NewAdvanceRepository(db)
	salesOrderRepo := postgresql.NewSalesOrderRepository(db)
	payrollRepo := postgresql.NewPayrollRepository(db)
	bonusRepo := postgresql.NewBonusRepository(db)
	taxTableRepo := postgresql.NewTaxTableRepository(db)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	resolver := taxService.NewResolver(taxTableRepo, fixtures.GetBracketTables())
	taxSvc := taxService.NewTaxService(resolver)
	positionSvc := master.NewPositionService(postgresql.NewTransactor(db), positionRepo)
	payrollSvc := payrollService.NewPayrollService(
		payrollRepo,
		employeeRepo,
		positionRepo,
		attendanceRepo,
		advanceRepo,
		salesOrderRepo,
		cfg.Policy(),
	)
	bonusSvc := bonusService.NewBonusService(
		bonusRepo,
		employeeRepo,
		positionRepo,
		attendanceRepo,
		payrollRepo,
		resolver,
		cfg.BonusSettings(),
	)

	router := appHTTP.NewRouter(JWTService, appHTTP.Handlers{
		Position: appHTTP.NewPositionHandler(positionSvc),
		Payroll:  appHTTP.NewPayrollHandler(payrollSvc, cfg.App.CompanyName),
		Bonus:    appHTTP.NewBonusHandler(bonusSvc, cfg.App.CompanyName),
		Tax:      appHTTP.NewTaxHandler(taxSvc),
	}, appHTTP.RouterOptions{
		Logger:         logger,
		AllowedOrigins: cfg.App.AllowedOrigins,
	})

	scheduler := cron.NewScheduler()
	scheduler.AddJob("bracket-table-check", 24*time.Hour, cron.NewTableCheck(resolver, nil).Run)
	scheduler.Start(ctx)
	defer func() {
		stop()
		scheduler.Wait()
	}()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
