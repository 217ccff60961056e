package app

import (
	"context"
	"fmt"

	"hospital-admissions/internal/config"
	"hospital-admissions/internal/events"
	"hospital-admissions/internal/handler"
	"hospital-admissions/internal/metrics"
	"hospital-admissions/internal/repository"
	"hospital-admissions/internal/router"
	"hospital-admissions/internal/service"
	"hospital-admissions/internal/validation"
	"hospital-admissions/pkg/logger"
	"hospital-admissions/pkg/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// App holds the assembled HTTP engine and the background worker
type App struct {
	Router  *gin.Engine
	Worker  *service.WorkerService
	Metrics *metrics.Metrics
}

// New wires repositories, services and handlers over an open database
func New(cfg *config.Config, db *gorm.DB, publisher events.Publisher, log *logger.Logger) (*App, error) {
	utils.InitJWT(cfg.JWT.AccessSecret, cfg.JWT.RefreshSecret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	if err := validation.RegisterGinValidators(); err != nil {
		return nil, err
	}
	validator, err := validation.New()
	if err != nil {
		return nil, fmt.Errorf("failed to build validator: %w", err)
	}

	// Repositories
	tm := repository.NewTransactionManager(db)
	roomRepo := repository.NewRoomRepo(db)
	admissionRepo := repository.NewAdmissionRepo(db)
	patientRepo := repository.NewPatientRepo(db)
	staffRepo := repository.NewStaffRepo(db)
	userRepo := repository.NewUserRepo(db)
	auditRepo := repository.NewAuditRepo(db)

	// Services
	authService := service.NewAuthService(userRepo, auditRepo, log.With("component", "auth"))
	roomService := service.NewRoomService(tm, roomRepo, admissionRepo, auditRepo, validator, log.With("component", "rooms"))
	admissionService := service.NewAdmissionService(tm, roomRepo, admissionRepo, auditRepo, publisher, validator, log.With("component", "admissions"))
	patientService := service.NewPatientService(patientRepo, validator, log.With("component", "patients"))
	staffService := service.NewStaffService(staffRepo, auditRepo, validator, log.With("component", "staff"))
	statsService := service.NewStatsService(roomRepo, admissionRepo, patientRepo, staffRepo)

	if cfg.Auth.AdminUsername != "" {
		if err := authService.EnsureAdmin(context.Background(), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			return nil, fmt.Errorf("failed to create bootstrap admin: %w", err)
		}
	}

	m := metrics.New(statsService, log.With("component", "metrics"))
	worker := service.NewWorkerService(admissionService, m, cfg.Worker.OverstayCheckInterval, log.With("component", "overstay-monitor"))

	engine := router.New(cfg, log, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Room:      handler.NewRoomHandler(roomService),
		Admission: handler.NewAdmissionHandler(admissionService),
		Patient:   handler.NewPatientHandler(patientService),
		Staff:     handler.NewStaffHandler(staffService),
		Metrics:   m.Handler(),
	})

	return &App{
		Router:  engine,
		Worker:  worker,
		Metrics: m,
	}, nil
}
