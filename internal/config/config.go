package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	PipelineEnabled  bool
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration

	// Aviation weather API configuration.
	AWCBaseURL         string
	AWCTimeout         time.Duration
	MetarLookbackHours int
	PirepRadiusNM      int
	WeatherCacheTTL    time.Duration
	HazardCacheTTL     time.Duration

	// RiskWeightsFile optionally overrides the built-in weight tables.
	RiskWeightsFile string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	awcTimeout, err := parsePositiveDuration("AWC_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	weatherTTL, err := parsePositiveDuration("WEATHER_CACHE_TTL", "5m")
	if err != nil {
		return nil, err
	}
	hazardTTL, err := parsePositiveDuration("HAZARD_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}

	lookback, err := parsePositiveInt("METAR_LOOKBACK_HOURS", 3)
	if err != nil {
		return nil, err
	}
	radius, err := parsePositiveInt("PIREP_RADIUS_NM", 100)
	if err != nil {
		return nil, err
	}

	pipelineEnabled := true
	if v := os.Getenv("PIPELINE_ENABLED"); v != "" {
		pipelineEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "flight-schedule-events"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "flight-weather-risk"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "flight-weather-risk"),
		PipelineEnabled:    pipelineEnabled,
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		AWCBaseURL:         sharedcfg.EnvOrDefault("AWC_BASE_URL", "https://aviationweather.gov/api/data"),
		AWCTimeout:         awcTimeout,
		MetarLookbackHours: lookback,
		PirepRadiusNM:      radius,
		WeatherCacheTTL:    weatherTTL,
		HazardCacheTTL:     hazardTTL,

		RiskWeightsFile: os.Getenv("RISK_WEIGHTS_FILE"),
	}

	if cfg.PipelineEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}
	if cfg.AWCBaseURL == "" {
		return nil, errors.New("AWC_BASE_URL is required")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
