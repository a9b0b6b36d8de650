package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"thinkdrills_backend/internal/ai"
	"thinkdrills_backend/internal/config"
	"thinkdrills_backend/internal/controller"
	"thinkdrills_backend/internal/repository"
	"thinkdrills_backend/internal/service"
	"thinkdrills_backend/pkg/database"
	"thinkdrills_backend/pkg/logger"
	"thinkdrills_backend/pkg/monitoring"
	"thinkdrills_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	tracerProvider interface {
		Shutdown(ctx context.Context) error
	}
}

type repositories struct {
	parent    *repository.ParentRepository
	student   *repository.StudentRepository
	worksheet *repository.WorksheetRepository
}

type services struct {
	auth      *service.AuthService
	student   *service.StudentService
	worksheet *service.WorksheetService
	report    *service.ReportService
}

type controllers struct {
	auth      *controller.AuthController
	parent    *controller.ParentController
	student   *controller.StudentController
	worksheet *controller.WorksheetController
	report    *controller.ReportController
	health    *controller.HealthController
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode != "release" || cfg.ForceMigrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("thinkdrills", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
		router.Use(tracing.GinMiddleware())
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		parent:    repository.NewParentRepository(db),
		student:   repository.NewStudentRepository(db),
		worksheet: repository.NewWorksheetRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	limiter, err := ai.NewRateLimiter(ai.RateLimiterConfig{
		RequestsPerMinute: cfg.AI.RequestsPerMinute,
		RequestsPerHour:   cfg.AI.RequestsPerHour,
		MinGap:            time.Duration(cfg.AI.MinGapMs) * time.Millisecond,
	})
	if err != nil {
		logger.Log.Fatal("Failed to build AI rate limiter", zap.Error(err))
	}

	client, err := ai.NewCompletionClient(cfg.AI)
	if err != nil {
		// The server still starts; worksheet generation reports the
		// configuration problem per request instead.
		logger.Log.Warn("AI client not configured, worksheet generation disabled", zap.Error(err))
	}

	var batchClient ai.BatchClient
	if client != nil {
		batchClient = client
	} else {
		batchClient = unconfiguredClient{}
	}
	generator := ai.NewGenerator(batchClient, limiter, cfg.AI)

	var email service.EmailSender
	if cfg.Email.SendgridKey != "" {
		email = service.NewSendgridEmailService(cfg.Email)
	} else {
		logger.Log.Warn("No sendgrid key configured, using console email sender")
		email = service.ConsoleEmailService{}
	}

	return &services{
		auth:      service.NewAuthService(repos.parent, repos.student, rdb, email, cfg),
		student:   service.NewStudentService(repos.student),
		worksheet: service.NewWorksheetService(repos.worksheet, repos.student, generator, cfg),
		report:    service.NewReportService(repos.student),
	}
}

// unconfiguredClient stands in when no AI key is present so that every
// generation attempt fails with the typed configuration error.
type unconfiguredClient struct{}

func (unconfiguredClient) GenerateBatch(ctx context.Context, req ai.BatchRequest) ([]ai.GeneratedQuestion, error) {
	return nil, &ai.ConfigurationError{Reason: "AI API key is not configured"}
}

func (a *App) initControllers(svcs *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(svcs.auth),
		parent:    controller.NewParentController(repos.parent),
		student:   controller.NewStudentController(svcs.student),
		worksheet: controller.NewWorksheetController(svcs.worksheet),
		report:    controller.NewReportController(svcs.report),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
