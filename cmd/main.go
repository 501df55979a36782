package main

import (
	"console-bank/internal/api"
	"console-bank/internal/batch"
	"console-bank/internal/config"
	"console-bank/internal/console"
	"console-bank/internal/domain/ledger"
	"console-bank/internal/event"
	"console-bank/internal/infrastructure/logging"
	"console-bank/internal/infrastructure/memory"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	rabbitMQConnectAttempts = 5
	rabbitMQRetryBackoff    = 2 * time.Second
)

func main() {
	cfg, logger := initializeApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rabbitMQConn := initializeRabbitMQ(cfg, logger)
	ledgerService := initializeServices(rabbitMQConn, cfg, logger)

	reconcileJob := batch.NewReconciliationJob(ledgerService, logger)
	cronScheduler := startBatchJobs(cfg, logger, reconcileJob)

	var srv *http.Server
	var serverErrors <-chan error
	if cfg.Server.Enabled {
		router := api.SetupRouter(ctx, ledgerService, cfg, logger)
		srv, serverErrors = startServer(cfg, router, logger)
	} else {
		logger.Info("Inspection API disabled")
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	consoleDone := startConsole(ctx, cfg, ledgerService, logger)
	handleShutdown(srv, cronScheduler, rabbitMQConn, shutdownChan, serverErrors, consoleDone, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed())

	return cfg, logger
}

// initializeRabbitMQ returns nil when events are disabled or the broker is
// unreachable. The ledger works without a publisher.
func initializeRabbitMQ(cfg *config.Config, logger *slog.Logger) *amqp.Connection {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("RabbitMQ event publishing disabled")
		return nil
	}
	conn, err := setupRabbitMQ(cfg, logger)
	if err != nil {
		logger.Warn("Continuing without event publishing", slog.Any("error", err))
		return nil
	}
	return conn
}

func initializeServices(rabbitConn *amqp.Connection, cfg *config.Config, logger *slog.Logger) ledger.LedgerService {
	logger.Info("Initializing application components...")
	customerStore := memory.NewCustomerStore(logger)
	accountStore := memory.NewAccountStore(logger)
	transactionStore := memory.NewTransactionStore(logger)

	var publisher event.EventPublisher
	if rabbitConn != nil {
		pub, err := event.NewRabbitMQEventPublisher(rabbitConn, cfg.RabbitMQ.ExchangeName, logger)
		if err != nil {
			logger.Warn("Failed to initialize event publisher, events disabled", slog.Any("error", err))
		} else {
			publisher = pub
		}
	}

	return ledger.NewLedgerService(customerStore, accountStore, transactionStore, publisher, logger)
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Inspection API listening on port %d", cfg.Server.Port))
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
		} else {
			logger.Info("Server closed gracefully.")
			serverErrors <- nil
		}
	}()
	return srv, serverErrors
}

// startConsole runs the menu loop on stdin/stdout. The returned channel is
// nil when the console is disabled.
func startConsole(ctx context.Context, cfg *config.Config, ledgerService ledger.LedgerService, logger *slog.Logger) <-chan error {
	if !cfg.Console.Enabled {
		logger.Info("Console disabled, running headless until signalled")
		return nil
	}

	done := make(chan error, 1)
	c := console.New(ledgerService, os.Stdin, os.Stdout, cfg.Console, logger)
	go func() {
		done <- c.Run(ctx)
	}()
	return done
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, rabbitConn *amqp.Connection,
	shutdownChan <-chan os.Signal, serverErrors <-chan error, consoleDone <-chan error, logger *slog.Logger) {
	logger.Info("Shutdown handler started. Waiting for exit, signal or server error...")

	triggerReason := waitForShutdownTrigger(shutdownChan, serverErrors, consoleDone, logger)

	logger.Info("Starting graceful shutdown...", "trigger", triggerReason)

	stopCronScheduler(cronScheduler, logger)
	closeRabbitMQConnection(rabbitConn, logger)
	shutdownHTTPServer(srv, serverErrors, logger)

	logger.Info("Application shutdown process complete.")
}

func waitForShutdownTrigger(shutdownChan <-chan os.Signal, serverErrors <-chan error, consoleDone <-chan error, logger *slog.Logger) string {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
		return "signal: " + sig.String()
	case err := <-consoleDone:
		if err != nil {
			logger.Error("Console exited with error", slog.Any("error", err))
			return "console error"
		}
		return "console exit"
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server exited unexpectedly", "error", err)
			return "server error"
		}
		logger.Info("Server goroutine finished before signal.")
		return "server exited"
	}
}

func stopCronScheduler(cronScheduler *cron.Cron, logger *slog.Logger) {
	logger.Info("Stopping cron scheduler...")
	cronCtx := cronScheduler.Stop()
	select {
	case <-cronCtx.Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func closeRabbitMQConnection(rabbitConn *amqp.Connection, logger *slog.Logger) {
	if rabbitConn == nil {
		logger.Info("RabbitMQ connection was not established, skipping close.")
		return
	}
	if rabbitConn.IsClosed() {
		logger.Info("RabbitMQ connection already closed, skipping close.")
		return
	}
	logger.Info("Closing RabbitMQ connection...")
	if err := rabbitConn.Close(); err != nil {
		logger.Error("Failed to close RabbitMQ connection gracefully", slog.Any("error", err))
	} else {
		logger.Info("RabbitMQ connection closed.")
	}
}

func shutdownHTTPServer(srv *http.Server, serverErrors <-chan error, logger *slog.Logger) {
	if srv == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}

	select {
	case <-serverErrors:
		logger.Info("Server goroutine confirmed exit.")
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}
}

func reconcileTimeout(cfg *config.Config) time.Duration {
	if cfg.Batch.ReconcileTimeout <= 0 {
		return time.Minute
	}
	return cfg.Batch.ReconcileTimeout
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, reconcileJob *batch.ReconciliationJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	scheduleSpec := cfg.Batch.ReconcileSchedule
	if scheduleSpec == "" {
		scheduleSpec = "@every 1h"
		logger.Warn("Reconciliation schedule not configured, using default", "schedule", scheduleSpec)
	}
	jobTimeout := reconcileTimeout(cfg)

	jobID, err := c.AddJob(scheduleSpec, cron.FuncJob(func() {
		jobLogger := logger.With("job_name", "Reconciliation")
		jobLogger.Info("Cron triggered: Running ledger reconciliation job.")

		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		if runErr := reconcileJob.Run(ctx); runErr != nil {
			jobLogger.Error("Reconciliation job finished with error", slog.Any("error", runErr))
		} else {
			jobLogger.Info("Reconciliation job finished successfully.")
		}
	}))

	if err != nil {
		logger.Error("Failed to schedule reconciliation job", "schedule", scheduleSpec, slog.Any("error", err))
	} else {
		logger.Info("Scheduled reconciliation job", "schedule", scheduleSpec, "job_id", jobID)
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}

func rabbitMQURI(cfg config.RabbitMQConfig) (string, error) {
	if cfg.Host == "" {
		return "", fmt.Errorf("RabbitMQ host is not configured")
	}
	if (cfg.Username == "") != (cfg.Password == "") {
		return "", fmt.Errorf("RabbitMQ username and password must be provided together")
	}

	port := cfg.Port
	if port == 0 {
		port = 5672
	}
	uri := amqp.URI{
		Scheme:   "amqp",
		Host:     cfg.Host,
		Port:     port,
		Username: "guest",
		Password: "guest",
		Vhost:    "/",
	}
	if cfg.Username != "" {
		uri.Username, uri.Password = cfg.Username, cfg.Password
	}
	return uri.String(), nil
}

func connectRabbitMQ(uri string, attempts int, backoff time.Duration, logger *slog.Logger) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for i := 1; i <= attempts; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ")

			go func() {
				blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
				closeChan := conn.NotifyClose(make(chan *amqp.Error, 1))

				select {
				case b := <-blockChan:
					logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
				case e := <-closeChan:
					if e != nil {
						logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
					}
				}
			}()

			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", attempts),
			slog.Any("error", err),
		)
		if i < attempts {
			time.Sleep(time.Duration(i) * backoff)
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", attempts, err)
}

func setupRabbitMQ(cfg *config.Config, logger *slog.Logger) (*amqp.Connection, error) {
	uri, err := rabbitMQURI(cfg.RabbitMQ)
	if err != nil {
		return nil, err
	}

	conn, err := connectRabbitMQ(uri, rabbitMQConnectAttempts, rabbitMQRetryBackoff, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ", "error", err)
		return nil, err
	}
	return conn, nil
}
