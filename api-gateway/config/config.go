package config

import (
	"os"
	"strings"
	"time"
)

// ServiceConfig holds configuration for an upstream service.
type ServiceConfig struct {
	Name        string
	Instances   []string
	Timeout     time.Duration
	HealthCheck string
}

// GatewayConfig holds the main gateway configuration.
type GatewayConfig struct {
	Port     string
	Services map[string]ServiceConfig
}

// LoadConfig loads the gateway configuration from the environment.
// Instance lists are comma separated so a service can run more than
// one replica behind the gateway.
func LoadConfig() *GatewayConfig {
	return &GatewayConfig{
		Port: getEnv("GATEWAY_PORT", "8000"),
		Services: map[string]ServiceConfig{
			"pos": {
				Name:        "pos-service",
				Instances:   splitInstances(getEnv("POS_SERVICE_URL", "http://localhost:8084")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
			"retail": {
				Name:        "retail-api",
				Instances:   splitInstances(getEnv("RETAIL_API_URL", "http://localhost:9000")),
				Timeout:     30 * time.Second,
				HealthCheck: "/health",
			},
		},
	}
}

func splitInstances(value string) []string {
	var instances []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			instances = append(instances, trimmed)
		}
	}
	return instances
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
