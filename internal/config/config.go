// Package config defines the scanner service configuration and the loader
// abstraction used to populate it from different sources.
package config

// KafkaConfig holds the broker and topic settings for the event bus.
type KafkaConfig struct {
	Brokers            []string `yaml:"brokers" mapstructure:"brokers"`
	NotificationsTopic string   `yaml:"notifications_topic" mapstructure:"notifications_topic"`
	AlertsTopic        string   `yaml:"alerts_topic" mapstructure:"alerts_topic"`
	GroupID            string   `yaml:"group_id" mapstructure:"group_id"`
}

// S3Config holds the object store settings. Endpoint and path-style
// addressing are used for localstack/minio development setups.
type S3Config struct {
	Region       string `yaml:"region" mapstructure:"region"`
	Endpoint     string `yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style,omitempty" mapstructure:"use_path_style"`
}

// TelemetryConfig holds tracing/metrics exporter settings.
type TelemetryConfig struct {
	Endpoint         string  `yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	SamplingRatio    float64 `yaml:"sampling_ratio" mapstructure:"sampling_ratio"`
	InsecureExporter bool    `yaml:"insecure_exporter" mapstructure:"insecure_exporter"`
}

// Config represents the top-level scanner service configuration.
type Config struct {
	LogLevel  string          `yaml:"log_level" mapstructure:"log_level"`
	Kafka     KafkaConfig     `yaml:"kafka" mapstructure:"kafka"`
	S3        S3Config        `yaml:"s3" mapstructure:"s3"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}
