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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ygyuri/foodbank-management-system/config"
	"github.com/ygyuri/foodbank-management-system/internal/api/handler"
	"github.com/ygyuri/foodbank-management-system/internal/api/router"
	"github.com/ygyuri/foodbank-management-system/internal/job"
	"github.com/ygyuri/foodbank-management-system/internal/notify"
	"github.com/ygyuri/foodbank-management-system/internal/permission"
	"github.com/ygyuri/foodbank-management-system/internal/repository"
	"github.com/ygyuri/foodbank-management-system/internal/service"
	"github.com/ygyuri/foodbank-management-system/internal/workflow"
	"github.com/ygyuri/foodbank-management-system/pkg/database"
	"github.com/ygyuri/foodbank-management-system/pkg/jwt"
	applogger "github.com/ygyuri/foodbank-management-system/pkg/logger"
	"github.com/ygyuri/foodbank-management-system/pkg/mailer"
	"github.com/ygyuri/foodbank-management-system/pkg/realtime"
	"github.com/ygyuri/foodbank-management-system/pkg/redis"
)

func main() {
	// 1. config; a local .env is optional
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("FOODBANK_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. database + migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// 4. redis is optional: without it logout cannot revoke tokens and login is not rate limited
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, running without token blacklist", zap.Error(err))
		rdb = nil
	}
	var tokens service.TokenStore
	if rdb != nil {
		tokens = rdb
	}

	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 5. notification channels
	hub := realtime.NewHub(cfg.Server.CORS.AllowOrigins, logger)
	var mail notify.Mailer = mailer.Noop{}
	var mailQueue *mailer.Queue
	if cfg.Notify.EmailEnabled {
		mailQueue = mailer.NewQueue(mailer.NewSMTPMailer(&cfg.Mail, logger),
			cfg.Mail.Workers, cfg.Mail.QueueSize, cfg.Mail.Timeout, logger)
		mail = mailQueue
	}

	// 6. Repository → Service → Handler
	repo := repository.NewRepository(db)
	dispatcher := notify.NewDispatcher(repo.Notification, repo.User, mail, hub, notify.Options{
		InAppEnabled: cfg.Notify.InAppEnabled,
		EmailEnabled: cfg.Notify.EmailEnabled,
	}, logger)
	svc := service.NewService(service.Deps{
		Config:   cfg,
		Repo:     repo,
		JWT:      jwtMgr,
		Tokens:   tokens,
		Authz:    workflow.NewAuthorizer(permission.NewPolicy()),
		Notifier: dispatcher,
		Logger:   logger,
	})
	h := handler.NewHandler(svc, &cfg.Auth, hub)

	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 7. background jobs
	scheduler := job.NewScheduler(logger)
	if err := scheduler.AddSubscriptionExpiry(cfg.Jobs.SubscriptionExpiryCron, svc.Subscription); err != nil {
		logger.Fatal("schedule jobs", zap.Error(err))
	}
	scheduler.Start()

	// 8. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	scheduler.Stop()
	hub.Close()
	if mailQueue != nil {
		if err := mailQueue.Close(ctx); err != nil {
			logger.Warn("mail queue not drained", zap.Error(err))
		}
	}

	if err := sqlDB.Close(); err != nil {
		logger.Warn("close database", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
