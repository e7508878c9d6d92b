package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/authbridge/gateway/handlers"
	"github.com/authbridge/gateway/internal/audit"
	"github.com/authbridge/gateway/internal/auth"
	"github.com/authbridge/gateway/internal/config"
	"github.com/authbridge/gateway/internal/database"
	"github.com/authbridge/gateway/internal/profiles"
	"github.com/authbridge/gateway/internal/remote"
	"github.com/authbridge/gateway/internal/sessions"
	"github.com/authbridge/gateway/pkg/logger"
	"github.com/authbridge/gateway/pkg/metrics"
	"github.com/authbridge/gateway/pkg/middleware"
)

func main() {
	// initialize logging (can be controlled with LOG_LEVEL env: debug|info|warn|error|fatal)
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: remote=%v redis=%v mongo=%v", cfg.Remote.URL != "", cfg.Redis.Host != "", cfg.MongoDB.URI != "")

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// Lightweight CORS middleware for dev/test: set common headers and respond to OPTIONS.
	// (Keep this intentionally simple; production should use a stricter policy.)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Content-Length")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(200)
			return
		}
		c.Next()
	})

	// Connect to Redis early so sessions and the rate-limiter can use it
	var redisClient *redis.Client
	if cfg.Redis.Host != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s): %v", cfg.Redis.Host, cfg.Redis.Port, err)
			redisClient = nil
		} else {
			logger.Infof("Connected to Redis for session storage: %s:%s", cfg.Redis.Host, cfg.Redis.Port)
		}
	}

	// Gateway session persistence: Redis when available, process memory otherwise
	var sessRepo sessions.Repository
	if redisClient != nil {
		sessRepo = sessions.NewRedisRepository(redisClient, "")
	} else {
		logger.Warnf("using in-memory session storage; sessions will not survive a restart")
		sessRepo = sessions.NewMemoryRepository()
	}
	gwSessions := sessions.NewService(sessRepo)

	r.Use(middleware.SessionMiddleware(cfg.Session.CookieName, gwSessions))

	// Optional rate limiter (per-user when a session resolved, otherwise per-IP)
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && redisClient != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(redisClient, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}

	// Remote service client and the auth change stream
	remoteClient := remote.New(cfg.Remote.URL, cfg.Remote.APIKey, cfg.Remote.Timeout)
	stream := sessions.NewStream()

	profileRepo := profiles.NewRemoteRepository(remoteClient)
	profileSvc := profiles.NewService(profileRepo)

	authSvc := auth.NewService(remoteClient, profileRepo, stream, func() string {
		return cfg.SiteURL("")
	})

	// Optional Mongo-backed audit trail of auth events
	var recorder audit.Recorder = audit.NopRecorder{}
	if cfg.MongoDB.URI != "" {
		client, errConn := database.ConnectMongo(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if errConn != nil {
			logger.Warnf("could not connect to MongoDB; auth events will not be recorded: %v", errConn)
		} else {
			defer func() { _ = client.Disconnect(context.Background()) }()
			col := client.Database(cfg.MongoDB.Database).Collection("auth_events")
			recorder = audit.NewMongoRecorder(col)
			_ = audit.Attach(stream, recorder)
			logger.Infof("auth event audit trail enabled")
		}
	}

	// Profile reconciliation rides the signed-in events; every pass lands in
	// metrics and the audit trail
	reconciler := profiles.NewReconciler(profileRepo)
	recordOutcome := audit.OutcomeHook(recorder)
	_ = reconciler.Attach(stream, func(ident sessions.Identity, out profiles.Outcome) {
		metrics.ProfileReconciliations.WithLabelValues(string(out)).Inc()
		logger.Debugf("profile reconciliation for %s: %s", ident.ID, out)
		recordOutcome(ident, out)
	})

	// Liveness and readiness
	checks := []handlers.ReadyCheck{
		{Name: "remote", OK: remoteClient.Configured},
	}
	if cfg.Redis.Host != "" {
		checks = append(checks, handlers.ReadyCheck{Name: "redis", OK: func() bool { return redisClient != nil }})
	}
	handlers.NewStatusHandler(checks...).Register(r)

	// API + guarded page surface
	h := handlers.NewAuthHandler(cfg, authSvc, gwSessions, profileSvc)
	h.Register(r.Group("/"))
	handlers.NewPageHandler().Register(r)
	handlers.RegisterSwagger(r)

	// Expose Prometheus metrics
	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Starting auth gateway on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}
