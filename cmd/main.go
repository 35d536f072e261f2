package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/lshigami/ieltsprep/config"
	"github.com/lshigami/ieltsprep/database"
	_ "github.com/lshigami/ieltsprep/docs"
	"github.com/lshigami/ieltsprep/internal/auth"
	adminctrl "github.com/lshigami/ieltsprep/internal/controller/admin"
	userctrl "github.com/lshigami/ieltsprep/internal/controller/user"
	"github.com/lshigami/ieltsprep/internal/keylock"
	"github.com/lshigami/ieltsprep/internal/logger"
	"github.com/lshigami/ieltsprep/internal/media"
	"github.com/lshigami/ieltsprep/internal/middleware"
	"github.com/lshigami/ieltsprep/internal/monitoring"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/lshigami/ieltsprep/internal/store"
	"github.com/lshigami/ieltsprep/internal/tracing"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
)

// @title IELTS Practice API
// @version 1.0
// @description Test delivery backend for IELTS practice: content retrieval, attempt resolution, answer autosave, progress checkpoints and result finalization.
// @contact.name API Support
// @contact.email support@example.com
// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			NewItemStore,
			keylock.New,
			media.NewResolver,
			NewGinEngine,
		),

		// Repositories Layer
		fx.Provide(
			repository.NewAnswerRepository,
			repository.NewProgressRepository,
			repository.NewResultRepository,
			repository.NewTestRepository,
			repository.NewQuestionRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewAttemptService,
			service.NewAnswerService,
			service.NewProgressService,
			service.NewResultService,
			service.NewTestService,
			service.NewAdminTestService,
			service.NewWritingFeedbackService,
		),

		// API Controllers Layer
		fx.Provide(
			adminctrl.NewAdminTestController,
			userctrl.NewUserTestController,
			userctrl.NewProgressController,
			userctrl.NewWritingController,
		),

		fx.Invoke(logger.Configure),
		fx.Invoke(StartTracing),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// NewItemStore opens the store driver selected by STORE_DRIVER.
func NewItemStore(lc fx.Lifecycle, cfg *config.Config) (store.ItemStore, error) {
	switch cfg.Store.Driver {
	case "postgres":
		db, err := database.NewDatabase(cfg)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		})
		return store.NewGormStore(db, database.Models()...), nil
	case "remote":
		if cfg.Store.BaseURL == "" {
			return nil, fmt.Errorf("STORE_BASE_URL is required for the remote store driver")
		}
		log.Info().Str("baseURL", cfg.Store.BaseURL).Msg("Using remote item store")
		return store.NewRemoteStore(cfg.Store.BaseURL, cfg.Store.Timeout, auth.NewResolver(cfg)), nil
	case "memory":
		log.Warn().Msg("Using in-memory item store, data is lost on restart")
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func NewGinEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery())
	r.Use(monitoring.MetricsMiddleware(), tracing.GinMiddleware())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.ErrorBoundary(cfg.Server.LoginPath))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", monitoring.PrometheusHandler())
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	return r
}

func StartTracing(lc fx.Lifecycle, cfg *config.Config) error {
	if !cfg.Tracing.Enabled {
		return nil
	}
	tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	log.Info().Str("collector", cfg.Tracing.CollectorEndpoint).Msg("Tracing enabled")
	lc.Append(fx.Hook{OnStop: tp.Shutdown})
	return nil
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminTestCtrl *adminctrl.AdminTestController,
	userTestCtrl *userctrl.UserTestController,
	progressCtrl *userctrl.ProgressController,
	writingCtrl *userctrl.WritingController,
) {
	limiterCtx, stopLimiter := context.WithCancel(context.Background())

	api := router.Group("/api/v1", auth.Bearer(cfg.Auth.JWTSecret))
	{
		api.POST("/progress",
			middleware.RateLimiter(limiterCtx, cfg.RateLimit.ProgressPerMinute, time.Minute, userctrl.ProgressRateKey),
			progressCtrl.SaveProgress)

		api.GET("/tests/:id", userTestCtrl.GetTest)
		api.GET("/test-groups/:id", userTestCtrl.GetTestGroup)

		api.GET("/tests/:id/attempts/current", userTestCtrl.GetCurrentAttempt)
		api.PUT("/tests/:id/answers", userTestCtrl.UpsertAnswer)
		api.POST("/tests/:id/results", userTestCtrl.FinalizeResult)

		api.POST("/writing/feedback", writingCtrl.EvaluateWriting)
	}

	admin := api.Group("/admin")
	{
		admin.POST("/tests", adminTestCtrl.CreateTest)
	}

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("IELTS practice API starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			stopLimiter()
			return server.Shutdown(ctx)
		},
	})
}
