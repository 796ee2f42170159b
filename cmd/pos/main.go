package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/pushsport/pos/internal/pos"
	"github.com/pushsport/pos/internal/pos/client"
	httpDelivery "github.com/pushsport/pos/internal/pos/delivery/http"
	"github.com/pushsport/pos/internal/pos/domain"
	"github.com/pushsport/pos/internal/pos/repository"
	"github.com/pushsport/pos/internal/pos/usecase/command"
	"github.com/pushsport/pos/kafka"
	"github.com/pushsport/pos/pkg/logger"
	"github.com/pushsport/pos/pkg/tracing"
)

func main() {
	// .env is optional; real deployments inject the environment.
	_ = godotenv.Load()

	serviceName := getEnv("OTEL_SERVICE_NAME", "pos-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting POS service")

	// Initialize tracer
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

	// Session store: redis when reachable, in-memory otherwise.
	sessions := buildSessionRepository()

	// Retail backend gateways
	backendURL := getEnv("RETAIL_API_URL", "http://localhost:9000")
	backendKey := getEnv("RETAIL_API_KEY", "")
	gatewayCfg := client.Config{BaseURL: backendURL, APIKey: backendKey}

	inventoryGateway := client.NewInventoryClient(gatewayCfg)
	salesGateway := client.NewSalesClient(gatewayCfg)

	// Kafka publisher for the audit stream (optional)
	var publisher command.SaleEventPublisher
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		p, err := kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable, sale events disabled")
		} else {
			defer p.Close()
			publisher = p
		}
	}

	handler, err := pos.InitializePOSHandler(sessions, inventoryGateway, salesGateway, publisher)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	httpPort := getEnv("HTTP_PORT", "8084")
	go startHTTPServer(handler, httpPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down POS service...")
}

func buildSessionRepository() domain.SessionRepository {
	redisAddr := getEnv("REDIS_ADDR", "")
	if redisAddr == "" {
		logger.Logger.Info().Msg("Using in-memory session store")
		return repository.NewTracedSessionRepository(repository.NewMemorySessionRepository())
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Logger.Warn().
			Err(err).
			Str("redis_addr", redisAddr).
			Msg("Redis unreachable, falling back to in-memory session store")
		return repository.NewTracedSessionRepository(repository.NewMemorySessionRepository())
	}

	logger.Logger.Info().
		Str("redis_addr", redisAddr).
		Msg("Using redis session store")
	return repository.NewTracedSessionRepository(repository.NewRedisSessionRepository(redisClient))
}

func startHTTPServer(handler *httpDelivery.POSHandler, port string) {
	router := mux.NewRouter()

	httpDelivery.RegisterMiddlewares(router, httpDelivery.DefaultMiddlewareConfig())
	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router)

	// Prometheus metrics endpoint
	router.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	if err := http.ListenAndServe(":"+port, c.Handler(router)); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
