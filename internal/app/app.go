package app

import (
	"classquiz_backend/internal/config"
	"classquiz_backend/internal/controller"
	"classquiz_backend/internal/repository"
	"classquiz_backend/internal/service"
	"classquiz_backend/internal/util"
	"classquiz_backend/pkg/database"
	"classquiz_backend/pkg/logger"
	"classquiz_backend/pkg/messaging"
	"classquiz_backend/pkg/monitoring"
	"classquiz_backend/pkg/security"
	"classquiz_backend/pkg/tracing"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	Rabbit *messaging.RabbitMQClient
	Clock  clock.Clock

	services        *services
	tracer          *sdktrace.TracerProvider
	ctx             context.Context
	cancel          context.CancelFunc
	mu              sync.Mutex
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user    *repository.UserRepository
	course  *repository.CourseRepository
	quiz    *repository.QuizRepository
	attempt *repository.AttemptRepository
}

type services struct {
	auth    *service.AuthService
	storage *service.StorageService
	course  *service.CourseService
	quiz    *service.QuizService
	attempt *service.AttemptService
	grade   *service.GradeService
}

type controllers struct {
	auth    *controller.AuthController
	course  *controller.CourseController
	quiz    *controller.QuizController
	attempt *controller.AttemptController
	grade   *controller.GradeController
	health  *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置文件热更新后由 configwatcher 调用
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		course:  repository.NewCourseRepository(db),
		quiz:    repository.NewQuizRepository(db),
		attempt: repository.NewAttemptRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.course = service.NewCourseService(repos.course)
	s.quiz = service.NewQuizService(repos.quiz, repos.course, a.Clock)

	var locker service.StartLocker = service.NoopLocker{}
	if a.Redis != nil {
		locker = service.NewRedisLocker(a.Redis)
	}
	var events service.EventPublisher = service.NoopPublisher{}
	if a.Rabbit != nil {
		events = service.NewRabbitMQPublisher(a.Rabbit, cfg.RabbitMQ.Queue)
	}

	s.attempt = service.NewAttemptService(repos.quiz, repos.course, repos.quiz, repos.attempt, locker, events, a.Clock)
	if ttl := cfg.Attempt.StartLockTTL(); ttl > 0 {
		s.attempt.LockTTL = ttl
	}
	s.grade = service.NewGradeService(repos.attempt, s.quiz, s.storage, a.Clock)

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		course:  controller.NewCourseController(s.course),
		quiz:    controller.NewQuizController(s.quiz),
		attempt: controller.NewAttemptController(s.attempt, s.grade),
		grade:   controller.NewGradeController(s.grade),
		health:  controller.NewHealthController(a.DB, a.Redis),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	if cfg.RateLimit.MaxRequests > 0 {
		window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
		if window <= 0 {
			window = time.Minute
		}
		router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, window))
	}

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 定时将超过截止时间的进行中作答置为 expired
func (a *App) startBackgroundTasks(s *services) {
	interval := a.Config.Attempt.SweepInterval()
	if interval <= 0 {
		logger.Log.Info("Attempt sweep disabled")
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-a.ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.attempt.SweepExpired(a.ctx); err != nil && !errors.Is(err, context.Canceled) {
					logger.Log.Error("attempt sweep error", zap.Error(err))
				}
			}
		}
	}()
}

// build 组装仓储、服务、控制器与路由，DB / Redis / Rabbit / Clock 需预先设置
func (a *App) build() {
	if a.Clock == nil {
		a.Clock = clock.New()
	}
	if a.ctx == nil {
		a.ctx, a.cancel = context.WithCancel(context.Background())
	}

	repos := a.initRepositories(a.DB)
	a.services = a.initServices(repos, a.Config)
	ctrls := a.initControllers(a.services)

	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	if a.Config.Server.Mode != gin.TestMode {
		router.Use(gin.Logger())
	}
	a.Router = router

	a.setupMiddlewares(router, a.Config)
	a.registerRoutes(router, ctrls, repos, a.Config)

	if a.Config.Storage.Type == "" || a.Config.Storage.Type == util.StorageLocal {
		router.Static("/uploads", a.Config.Storage.LocalPath)
	}

	a.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetLevel(newCfg.Server.Mode)
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}
	app.Redis = rdb

	if cfg.RabbitMQ.Enabled {
		rabbit, err := messaging.NewRabbitMQClient(&cfg.RabbitMQ)
		if err != nil {
			// 事件投递失败不影响作答主流程
			logger.Log.Warn("RabbitMQ unavailable, attempt events disabled", zap.Error(err))
		} else {
			app.Rabbit = rabbit
		}
	}

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.build()
	app.startBackgroundTasks(app.services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	a.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(ctx)
	logger.Log.Info("Server exiting")
}

// Close 释放外部连接
func (a *App) Close(ctx context.Context) {
	if a.Rabbit != nil {
		if err := a.Rabbit.Close(); err != nil {
			logger.Log.Warn("Failed to close RabbitMQ", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
