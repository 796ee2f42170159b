package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/pushsport/pos/kafka"
	"github.com/pushsport/pos/pkg/logger"
	"github.com/pushsport/pos/pkg/tracing"
)

// Retained audit entries per branch; the dashboard only shows recent
// activity, the retail backend keeps the full history.
const auditRetention = 500

func main() {
	_ = godotenv.Load()

	serviceName := getEnv("OTEL_SERVICE_NAME", "pos-audit")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().Msg("Starting audit consumer")

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to initialize tracer")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Error().Err(err).Msg("Failed to shutdown tracer")
			}
		}()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	brokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",")
	consumer, err := kafka.NewConsumer(brokers, "pos-audit", []string{kafka.TopicSaleCompleted})
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to create Kafka consumer")
	}
	defer consumer.Close()

	consumer.RegisterHandler(kafka.EventTypeSaleCompleted, func(ctx context.Context, event kafka.SaleCompletedEvent) error {
		return recordSale(ctx, redisClient, event)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start consumer")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down audit consumer...")
}

// recordSale appends the sale to the branch's capped audit list.
func recordSale(ctx context.Context, client *redis.Client, event kafka.SaleCompletedEvent) error {
	entry, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	key := fmt.Sprintf("audit:sales:%d", event.BranchID)

	pipe := client.Pipeline()
	pipe.LPush(ctx, key, entry)
	pipe.LTrim(ctx, key, 0, auditRetention-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	logger.Info(ctx).
		Str("sale_id", event.SaleID).
		Uint("branch_id", event.BranchID).
		Uint("operator_id", event.OperatorID).
		Float64("total", event.Total).
		Str("payment_method", event.PaymentMethod).
		Msg("Sale recorded in audit trail")

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
