package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lms_progress_backend/internal/config"
	"lms_progress_backend/internal/controller"
	"lms_progress_backend/internal/repository"
	"lms_progress_backend/internal/service"
	"lms_progress_backend/pkg/database"
	"lms_progress_backend/pkg/logger"
	"lms_progress_backend/pkg/monitoring"
	"lms_progress_backend/pkg/security"
	"lms_progress_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user       *repository.UserRepository
	curriculum *repository.CurriculumRepository
	completion *repository.CompletionRepository
	attempt    *repository.AttemptRepository
	cohort     *repository.CohortRepository
}

type services struct {
	auth        *service.AuthService
	progress    *service.ProgressService
	attempt     *service.AttemptService
	cohort      *service.CohortService
	cache       *service.ProgressCache
	invalidator *service.CacheInvalidationCoordinator
	otp         *service.OTPStore
}

type controllers struct {
	auth     *controller.AuthController
	progress *controller.ProgressController
	attempt  *controller.AttemptController
	cohort   *controller.CohortController
	admin    *controller.AdminController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ReloadConfig 配置文件热更新入口，只广播给注册的回调，不重建连接
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
	logger.Log.Info("Config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		curriculum: repository.NewCurriculumRepository(db),
		completion: repository.NewCompletionRepository(db),
		attempt:    repository.NewAttemptRepository(db),
		cohort:     repository.NewCohortRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.cache = service.NewProgressCache(rdb)
	s.invalidator = service.NewCacheInvalidationCoordinator(s.cache)
	s.otp = service.NewOTPStore(rdb)

	s.auth = service.NewAuthService(repos.user, s.otp, cfg)
	s.progress = service.NewProgressService(repos.curriculum, repos.completion, repos.cohort, s.cache)
	s.cohort = service.NewCohortService(repos.cohort, repos.curriculum, repos.completion, repos.user, s.cache)
	s.attempt = service.NewAttemptService(
		db,
		repos.curriculum,
		repos.completion,
		repos.attempt,
		repos.cohort,
		s.invalidator,
		s.cache,
	)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		progress: controller.NewProgressController(s.progress),
		attempt:  controller.NewAttemptController(s.attempt),
		cohort:   controller.NewCohortController(s.cohort),
		admin:    controller.NewAdminController(repos.curriculum, s.invalidator),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, repos, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("progress-engine", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
