package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedback-pipeline/internal/analysis"
	"feedback-pipeline/internal/config"
	httpapi "feedback-pipeline/internal/http"
	"feedback-pipeline/internal/ingest"
	"feedback-pipeline/internal/logger"
	"feedback-pipeline/internal/mailer"
	"feedback-pipeline/internal/mqttbridge"
	"feedback-pipeline/internal/notification"
	"feedback-pipeline/internal/report"
	"feedback-pipeline/internal/repository"
	"feedback-pipeline/internal/storage"
	"feedback-pipeline/internal/transport"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	reportNow := flag.Bool("report-now", false, "run one report cycle and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format, "feedback-pipeline")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting feedback-pipeline service",
		zap.String("queue_stream", cfg.Streams.FeedbackQueue),
		zap.String("alert_stream", cfg.Streams.CriticalAlerts),
		zap.String("report_stream", cfg.Streams.ReportReady),
	)

	db, err := repository.NewPostgresDB(cfg.Database.DSN(), cfg.Database.MaxConns, cfg.Database.MaxIdle)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	feedbackRepo := repository.NewFeedbackRepository(db, zapLogger)
	publisher := transport.NewStreamPublisher(redisClient, zapLogger)

	objectStore, err := storage.NewClient(ctx, cfg.Storage.Bucket, cfg.Storage.Region, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create object storage client", zap.Error(err))
	}

	var announcer report.Announcer
	if cfg.MQTT.Broker != "" {
		bridge, err := mqttbridge.New(cfg.MQTT.Broker, cfg.MQTT.ClientID, cfg.MQTT.Topic, cfg.MQTT.QoS, zapLogger)
		if err != nil {
			zapLogger.Fatal("Failed to connect MQTT bridge", zap.Error(err))
		}
		defer bridge.Close()
		announcer = bridge
	}

	reportEngine := report.NewEngine(feedbackRepo, zapLogger)
	reportPublisher := report.NewPublisher(objectStore, publisher, cfg.Streams.ReportReady, announcer, zapLogger)
	reportService := report.NewService(reportEngine, reportPublisher, zapLogger)

	if *reportNow {
		runCtx, runCancel := context.WithTimeout(ctx, 5*time.Minute)
		defer runCancel()
		if err := reportService.Run(runCtx); err != nil {
			zapLogger.Fatal("Report cycle failed", zap.Error(err))
		}
		zapLogger.Info("Report cycle completed, exiting")
		return
	}

	ingestService := ingest.NewService(feedbackRepo, publisher, cfg.Streams.FeedbackQueue, zapLogger)

	analysisStage := analysis.NewStage(publisher, cfg.Streams.CriticalAlerts, zapLogger)
	analysisConsumer := transport.NewConsumer(
		redisClient,
		cfg.Streams.FeedbackQueue,
		cfg.Consumer.Group,
		cfg.Consumer.Name,
		cfg.Consumer.BatchSize,
		analysisStage.HandleMessage,
		zapLogger,
	)

	mailClient := mailer.NewClient(cfg.Email.BaseURL, cfg.Email.APIKey, cfg.Email.From, zapLogger)
	metrics := notification.NewCounterSink()
	notificationStage := notification.NewStage(mailClient, metrics, cfg.Email.Recipient, cfg.Email.Enabled, zapLogger)
	notificationConsumer := transport.NewConsumer(
		redisClient,
		cfg.Streams.CriticalAlerts,
		cfg.Consumer.Group,
		cfg.Consumer.Name,
		cfg.Consumer.BatchSize,
		notificationStage.HandleMessage,
		zapLogger,
	)

	go func() {
		if err := analysisConsumer.Start(ctx); err != nil {
			zapLogger.Fatal("Analysis consumer failed", zap.Error(err))
		}
	}()
	go func() {
		if err := notificationConsumer.Start(ctx); err != nil {
			zapLogger.Fatal("Notification consumer failed", zap.Error(err))
		}
	}()

	scheduler, err := report.NewScheduler(cfg.Report.Cron, reportService, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to create report scheduler", zap.Error(err))
	}
	scheduler.Start()
	defer scheduler.Stop()

	handler := httpapi.NewHandler(ingestService, reportService, zapLogger)
	server := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: handler.Router(),
	}
	go func() {
		zapLogger.Info("HTTP server listening", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigChan
	zapLogger.Info("Received signal, shutting down", zap.String("signal", sig.String()))

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Error during HTTP shutdown", zap.Error(err))
	}

	zapLogger.Info("Service stopped")
}
