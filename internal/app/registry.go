package app

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-payroll/internal/analytics"
	"go-payroll/internal/attendance"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/payroll"
	"go-payroll/internal/settings"
	"go-payroll/internal/tax"
)

// settingsCountry adapts the settings service to the tax handler's resolver.
type settingsCountry struct {
	settings settings.Service
}

func (s settingsCountry) Country(ctx context.Context, companyID uuid.UUID) (string, error) {
	cfg, err := s.settings.Get(ctx, companyID)
	if err != nil {
		return "", err
	}
	return cfg.Country, nil
}

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	logger := zap.L()

	// --- Repositories ---
	settingsRepo := settings.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	payrollRepo := payroll.NewRepository(gormDB)
	analyticsRepo := analytics.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Services ---
	settingsService := settings.NewService(settingsRepo, logger.Named("settings"))
	attendanceService := attendance.NewService(db, attendanceRepo, employeeRepo, settingsService, logger.Named("attendance"))
	payrollService := payroll.NewService(
		db,
		payrollRepo,
		employeeRepo,
		attendanceRepo,
		settingsService,
		outboxRepo,
		logger.Named("payroll"),
		payroll.Config{
			Concurrency: envInt("PAYROLL_RUN_CONCURRENCY", 4),
			RunTimeout:  envDuration("PAYROLL_RUN_TIMEOUT", 2*time.Minute),
		},
	)
	analyticsService := analytics.NewService(analyticsRepo, logger.Named("analytics"))

	// --- Handlers ---
	settingsHandler := settings.NewHandler(settingsService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	payrollHandler := payroll.NewHandler(payrollService, rdb)
	analyticsHandler := analytics.NewHandler(analyticsService)
	taxHandler := tax.NewHandler(settingsCountry{settings: settingsService})

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		settings.RegisterRoutes(api, settingsHandler)
		attendance.RegisterRoutes(api, attendanceHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
		analytics.RegisterRoutes(api, analyticsHandler)
		tax.RegisterRoutes(api, taxHandler)
	}

	return nil
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
