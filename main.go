package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ibquestionbank/questionbank/handlers"
	"github.com/ibquestionbank/questionbank/internal/config"
	"github.com/ibquestionbank/questionbank/internal/content/handler"
	"github.com/ibquestionbank/questionbank/internal/content/repository"
	"github.com/ibquestionbank/questionbank/internal/content/service"
	"github.com/ibquestionbank/questionbank/pkg/logger"
	"github.com/ibquestionbank/questionbank/pkg/metrics"
	"github.com/ibquestionbank/questionbank/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var startTime = time.Now()

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)
	logger.Infof("config loaded: backend=%s redis=%v rate_limit=%v", cfg.Store.Backend, cfg.Redis.Host != "", cfg.RateLimit.Enabled)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Admin.Password == "" {
		logger.Warnf("ADMIN_PASSWORD is not set; every write request will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.Open(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to open %s store: %v", cfg.Store.Backend, err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warnf("failed to close store: %v", err)
		}
	}()
	svc := service.New(repo)

	r := gin.New()
	r.Use(cors())
	r.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	guard := []gin.HandlerFunc{middleware.AdminPassword(cfg.Admin.Password)}
	var rdb *redis.Client
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis {
			rdb = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
			defer rdb.Close()
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			} else {
				logger.Infof("connected to Redis for rate limiting: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
			}
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			guard = append([]gin.HandlerFunc{middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win)}, guard...)
		} else {
			guard = append([]gin.HandlerFunc{middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst)}, guard...)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})

	// readiness endpoint: 200 only when the store (and Redis, when the limiter uses it) answers
	r.GET("/ready", func(c *gin.Context) {
		pctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		ready := true
		deps := map[string]bool{}

		deps["store"] = svc.Ping(pctx) == nil
		ready = ready && deps["store"]
		if rdb != nil {
			deps["redis"] = rdb.Ping(pctx).Err() == nil
			ready = ready && deps["redis"]
		}

		status, code := "ready", http.StatusOK
		if !ready {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "backend": cfg.Store.Backend, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	handler.RegisterContentRoutes(r, svc, guard...)
	handlers.RegisterPages(r, svc)
	handlers.RegisterSwagger(r)
	if csvRepo, ok := repo.(*repository.CSVRepo); ok {
		handlers.RegisterCSVFiles(r, csvRepo.Source())
	}

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting question bank on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// cors sets permissive headers for browser clients and answers preflight requests.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", fmt.Sprintf("Origin, Content-Type, Accept, %s", middleware.AdminPasswordHeader))
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
