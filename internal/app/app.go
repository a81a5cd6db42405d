package app

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hierfortune/server/internal/module/auth"
	"github.com/hierfortune/server/internal/module/fortune"
	"github.com/hierfortune/server/internal/module/fortune/generator"
	"github.com/hierfortune/server/internal/module/image"
	"github.com/hierfortune/server/internal/module/membership"
	"github.com/hierfortune/server/internal/module/stats"
	"github.com/hierfortune/server/internal/module/user"
	"github.com/hierfortune/server/internal/shared/cache"
	"github.com/hierfortune/server/internal/shared/config"
	"github.com/hierfortune/server/internal/shared/database"
	"github.com/hierfortune/server/internal/shared/httpclient"
	"github.com/hierfortune/server/internal/shared/logger"
	"github.com/hierfortune/server/internal/shared/metrics"
	"github.com/hierfortune/server/internal/shared/middleware"
)

// App wires configuration, stores, and modules into one runnable server.
type App struct {
	config *config.Config
	db     *gorm.DB
	redis  *redis.Client
	router *gin.Engine
	logger *zap.Logger

	userHandler       *user.Handler
	membershipHandler *membership.Handler
	fortuneHandler    *fortune.Handler
	statsHandler      *stats.Handler
	imageHandler      *image.Handler
}

// New creates the application.
func New(cfg *config.Config) (*App, error) {
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := database.Migrate(db,
		&user.User{},
		&membership.Quota{},
		&fortune.DailyFortune{},
		&fortune.LifelongFortune{},
		&fortune.FaceReading{},
		&fortune.DreamAnalysis{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("init redis: %w", err)
	}

	m := metrics.New("fortune")

	// Repositories
	userRepo := user.NewRepository(db)
	quotaRepo := membership.NewRepository(db)
	fortuneRepo := fortune.NewRepository(db)

	// Membership
	membershipService := membership.NewService(quotaRepo, log)
	gate := membership.NewGate(userRepo, quotaRepo, log)

	// Users
	userService := user.NewService(userRepo, membershipService, log)

	// Generator and strategies
	httpCfg := httpclient.DefaultConfig()
	if cfg.AI.RequestTimeout > 0 {
		httpCfg.ResponseTimeout = cfg.AI.RequestTimeout
	}
	gen := generator.NewOpenAIGenerator(&cfg.AI, httpclient.New(httpCfg), log)
	registry := fortune.NewRegistry(
		fortune.NewDailyStrategy(gen, fortuneRepo),
		fortune.NewLifelongStrategy(gen, fortuneRepo),
		fortune.NewFaceStrategy(gen, fortuneRepo),
		fortune.NewDreamStrategy(gen, fortuneRepo),
	)

	// Telemetry and orchestration
	counter := stats.NewRedisCounter(redisClient)
	fortuneService := fortune.NewService(gate, fortuneRepo, registry, counter, m, log)
	statsService := stats.NewService(counter, userRepo, fortuneRepo, log)

	// Images
	var imageHandler *image.Handler
	if cfg.Storage.Endpoint != "" {
		storage, serr := image.NewS3Storage(&cfg.Storage)
		if serr != nil {
			return nil, fmt.Errorf("init storage: %w", serr)
		}
		imageHandler = image.NewHandler(image.NewService(storage, log))
	} else {
		log.Warn("object storage not configured, image endpoints disabled")
	}

	app := &App{
		config:            cfg,
		db:                db,
		redis:             redisClient,
		logger:            log,
		userHandler:       user.NewHandler(userService),
		membershipHandler: membership.NewHandler(membershipService, userRepo),
		fortuneHandler:    fortune.NewHandler(fortuneService),
		statsHandler:      stats.NewHandler(statsService),
		imageHandler:      imageHandler,
	}

	jwtManager := auth.NewJWTManager(&auth.JWTConfig{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.Issuer,
	})
	app.router = app.buildRouter(jwtManager, m)
	return app, nil
}

func (a *App) buildRouter(validator middleware.TokenValidator, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(middleware.Metrics(m))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	a.userHandler.RegisterRoutes(api)
	a.statsHandler.RegisterRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.RequireAuth(validator))
	a.userHandler.RegisterProtectedRoutes(protected)
	a.membershipHandler.RegisterProtectedRoutes(protected)
	a.fortuneHandler.RegisterProtectedRoutes(protected)
	if a.imageHandler != nil {
		a.imageHandler.RegisterProtectedRoutes(protected)
	}

	return r
}

// Router returns the HTTP handler.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases database and redis connections.
func (a *App) Stop() {
	if err := cache.Close(a.redis); err != nil {
		a.logger.Warn("close redis", zap.Error(err))
	}
	if err := database.Close(a.db); err != nil {
		a.logger.Warn("close database", zap.Error(err))
	}
	_ = a.logger.Sync()
}
