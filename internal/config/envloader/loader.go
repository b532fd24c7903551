// Package envloader loads the service configuration from environment
// variables via viper, with sensible defaults for local development.
package envloader

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/bsheehan3117/serverless-security-scanner/internal/config"
)

// EnvLoader loads configuration from SCANNER_-prefixed environment variables.
// Nested keys use underscores: SCANNER_KAFKA_BROKERS, SCANNER_S3_REGION.
type EnvLoader struct{}

// NewEnvLoader creates a new environment-backed loader.
func NewEnvLoader() *EnvLoader { return &EnvLoader{} }

// Load builds the configuration from the environment. Missing values fall
// back to the registered defaults.
func (l *EnvLoader) Load(ctx context.Context) (*config.Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SCANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("log_level", "info")
	v.SetDefault("kafka.brokers", "localhost:9092")
	v.SetDefault("kafka.notifications_topic", "object-upload-notifications")
	v.SetDefault("kafka.alerts_topic", "security-alerts")
	v.SetDefault("kafka.group_id", "config-scanner")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("telemetry.sampling_ratio", 1.0)
	v.SetDefault("telemetry.insecure_exporter", true)

	// Viper needs the keys bound explicitly when unmarshalling from
	// environment variables only.
	for _, key := range []string{
		"log_level",
		"kafka.brokers", "kafka.notifications_topic", "kafka.alerts_topic", "kafka.group_id",
		"s3.region", "s3.endpoint", "s3.use_path_style",
		"telemetry.endpoint", "telemetry.sampling_ratio", "telemetry.insecure_exporter",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env key %s: %w", key, err)
		}
	}

	cfg := &config.Config{
		LogLevel: v.GetString("log_level"),
		Kafka: config.KafkaConfig{
			Brokers:            splitBrokers(v.GetString("kafka.brokers")),
			NotificationsTopic: v.GetString("kafka.notifications_topic"),
			AlertsTopic:        v.GetString("kafka.alerts_topic"),
			GroupID:            v.GetString("kafka.group_id"),
		},
		S3: config.S3Config{
			Region:       v.GetString("s3.region"),
			Endpoint:     v.GetString("s3.endpoint"),
			UsePathStyle: v.GetBool("s3.use_path_style"),
		},
		Telemetry: config.TelemetryConfig{
			Endpoint:         v.GetString("telemetry.endpoint"),
			SamplingRatio:    v.GetFloat64("telemetry.sampling_ratio"),
			InsecureExporter: v.GetBool("telemetry.insecure_exporter"),
		},
	}

	return cfg, nil
}

func splitBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			brokers = append(brokers, trimmed)
		}
	}
	return brokers
}
