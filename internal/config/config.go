package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Serving artifacts written by cmd/genparams.
	ModelPath  string
	ParamsPath string

	DBDriver string
	DBDSN    string

	SimulatorEnabled  bool
	SimulatorInterval time.Duration

	APIDefaultLimit int

	// Prediction event feed configuration.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool
}

// Driver names accepted for DB_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	simInterval, err := parseDuration("SIMULATOR_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}

	apiLimit, err := parseInt("API_DEFAULT_LIMIT", 20)
	if err != nil {
		return nil, err
	}

	brokers := splitCSV(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOr("HTTP_ADDR", ":8080"),
		LogLevel:        envOr("LOG_LEVEL", "info"),
		LogFormat:       envOr("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		ModelPath:  envOr("MODEL_PATH", "artifacts/modelo_entrenado.json"),
		ParamsPath: envOr("PARAMS_PATH", "artifacts/parametros_normalizados.json"),

		DBDriver: envOr("DB_DRIVER", DriverSQLite),
		DBDSN:    envOr("DB_DSN", "file:ecoscore.db?_pragma=busy_timeout(5000)"),

		SimulatorEnabled:  envBool("SIMULATOR_ENABLED", true),
		SimulatorInterval: simInterval,

		APIDefaultLimit: apiLimit,

		KafkaBrokers: brokers,
		KafkaTopic:   envOr("KAFKA_TOPIC", "ecoscore-predictions"),
		KafkaEnabled: kafkaEnabled,
	}

	if cfg.DBDriver != DriverSQLite && cfg.DBDriver != DriverPostgres {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBDriver == DriverPostgres && os.Getenv("DB_DSN") == "" {
		return nil, errors.New("DB_DSN is required when DB_DRIVER is postgres")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}

	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		return v == "true"
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOr(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseInt(key string, def int) (int, error) {
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

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
