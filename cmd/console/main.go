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

	"go.uber.org/zap"

	"complaint-console/internal/assistant"
	"complaint-console/internal/audit"
	"complaint-console/internal/common/config"
	"complaint-console/internal/common/database"
	"complaint-console/internal/common/logger"
	"complaint-console/internal/gateway"
	"complaint-console/internal/server"
	"complaint-console/internal/session"
	"complaint-console/internal/workflow"
)

// retryWithBackoff attempts an operation with exponential backoff.
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootstrap := logger.New("info", "console")
		bootstrap.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("starting complaint console",
		zap.String("environment", cfg.App.Environment),
		zap.String("gateway", cfg.Gateway.BaseURL),
	)

	// --- Session store (Redis) ---
	redisClient, err := database.NewRedis(cfg.Redis)
	if err != nil {
		zapLog.Fatal("redis client init failed", zap.Error(err))
	}
	defer redisClient.Close()

	ctx := context.Background()
	err = retryWithBackoff(func() error {
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	zapLog.Info("redis connected")

	store := session.NewRedisStore(redisClient, cfg.Redis.TTL(), log)

	// --- Review backend gateway ---
	gw := gateway.NewClient(cfg.Gateway, log)

	// --- Optional decision event stream ---
	var publisher workflow.Publisher
	if cfg.Audit.Enabled {
		p := audit.NewPublisher(cfg.Audit.Brokers, cfg.Audit.Topic, log)
		defer p.Close()
		publisher = p
		zapLog.Info("audit stream enabled", zap.Strings("brokers", cfg.Audit.Brokers), zap.String("topic", cfg.Audit.Topic))
	}

	// --- Workflow controller ---
	reviews := workflow.NewService(gw, store, publisher, workflow.Config{
		SimilarLimit:   cfg.Gateway.SimilarLimit,
		SimilarTimeout: cfg.Gateway.SimilarFetchTimeout(),
	}, log)

	// --- Optional chat assistant ---
	var assist *assistant.Client
	if cfg.Assistant.Enabled {
		assist = assistant.New(cfg.Assistant, log)
		zapLog.Info("chat assistant enabled", zap.String("baseUrl", cfg.Assistant.BaseURL))
	}

	// --- Console API ---
	srv := server.New(cfg.Server, reviews, assist, log)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		zapLog.Fatal("server failed", zap.Error(err))
	case sig := <-stop:
		zapLog.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("graceful shutdown failed", zap.Error(err))
	}
	zapLog.Info("stopped")
}
