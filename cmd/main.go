package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/Surikat/config"
	"github.com/lshigami/Surikat/database"
	_ "github.com/lshigami/Surikat/docs" // Swagger docs - auto-generated
	adminctrl "github.com/lshigami/Surikat/internal/controller/admin"
	studentctrl "github.com/lshigami/Surikat/internal/controller/student"
	supervisorctrl "github.com/lshigami/Surikat/internal/controller/supervisor"
	"github.com/lshigami/Surikat/internal/logger"
	"github.com/lshigami/Surikat/internal/model"
	"github.com/lshigami/Surikat/internal/repository"
	"github.com/lshigami/Surikat/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Surikat Exam Monitoring API
// @version 1.0
// @description Computer-based-testing attempt lifecycle and integrity monitoring: timed attempts, violation ledger, auto-block policy, live supervisor dashboard.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewTestRepository,
			repository.NewRosterRepository,
			repository.NewAttemptRepository,
			repository.NewViolationRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewAttemptService,
			service.NewSupervisorService,
			func(
				testRepo repository.TestRepository,
				rosterRepo repository.RosterRepository,
				attemptRepo repository.AttemptRepository,
				violationRepo repository.ViolationRepository,
				cfg *config.Config,
			) service.MonitorService {
				return service.NewMonitorService(testRepo, rosterRepo, attemptRepo, violationRepo, cfg.Monitor.SnapshotRecentEvents)
			},
			func(testRepo repository.TestRepository, rosterRepo repository.RosterRepository, db *gorm.DB) service.AdminTestService {
				return service.NewAdminTestService(testRepo, rosterRepo, db)
			},
			func(attemptRepo repository.AttemptRepository, attemptSvc service.AttemptService, cfg *config.Config) *service.ExpirySweeper {
				return service.NewExpirySweeper(attemptRepo, attemptSvc, cfg.Monitor.SweepInterval)
			},
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewAdminTestController,
			studentctrl.NewAttemptController,
			supervisorctrl.NewSupervisorController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
		fx.Invoke(StartExpirySweeper),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Actor-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI at /swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminTestCtrl *adminctrl.AdminTestController,
	attemptCtrl *studentctrl.AttemptController,
	supervisorCtrl *supervisorctrl.SupervisorController,
) {
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.POST("/tests", adminTestCtrl.CreateTest)
	}

	studentAPIGroup := router.Group("/api/v1")
	{
		studentAPIGroup.POST("/tests/:test_id/attempts/start", attemptCtrl.StartAttempt)
		studentAPIGroup.POST("/attempts/:attempt_id/answer", attemptCtrl.RecordAnswer)
		studentAPIGroup.POST("/attempts/:attempt_id/submit", attemptCtrl.SubmitAttempt)
		studentAPIGroup.POST("/attempts/:attempt_id/violations", attemptCtrl.ReportViolation)
	}

	supervisorAPIGroup := router.Group("/api/v1/supervisor")
	{
		supervisorAPIGroup.GET("/tests/:test_id/snapshot", supervisorCtrl.GetSnapshot)
		supervisorAPIGroup.PUT("/tests/:test_id/integrity-config", supervisorCtrl.UpdateIntegrityConfig)
		supervisorAPIGroup.POST("/attempts/:attempt_id/block", supervisorCtrl.BlockAttempt)
		supervisorAPIGroup.POST("/attempts/:attempt_id/unblock", supervisorCtrl.UnblockAttempt)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Exam monitoring API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

// StartExpirySweeper runs the sweep loop for the lifetime of the app.
func StartExpirySweeper(lc fx.Lifecycle, sweeper *service.ExpirySweeper) {
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go sweeper.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&model.Test{},
		&model.IntegrityConfig{},
		&model.Student{},
		&model.Enrollment{},
		&model.Attempt{},
		&model.ViolationEvent{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}
