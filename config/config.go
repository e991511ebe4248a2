package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Toolchain ToolchainConfig
	Scratch   ScratchConfig
	App       AppConfig
}

type ServerConfig struct {
	Port             string
	CORSOrigins      []string
	DeployRatePerMin int
	DeployBurst      int
}

type DatabaseConfig struct {
	DSN      string
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	URL string
}

type ToolchainConfig struct {
	Binary         string
	TemplatesDir   string
	CompileTimeout time.Duration
	PublishTimeout time.Duration
}

// MaxRun is the longest a deployment can hold its scratch directory.
func (t ToolchainConfig) MaxRun() time.Duration {
	return t.CompileTimeout + t.PublishTimeout
}

type ScratchConfig struct {
	Root          string
	SweepSchedule string
	SweepMaxAge   time.Duration
}

type AppConfig struct {
	Environment string
	LogLevel    string
	LogFile     string
	Version     string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:             getEnv("PORT", "3001"),
			CORSOrigins:      getEnvAsList("CORS_ORIGINS", []string{"*"}),
			DeployRatePerMin: getEnvAsInt("DEPLOY_RATE_PER_MIN", 30),
			DeployBurst:      getEnvAsInt("DEPLOY_BURST", 5),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			Driver:   getEnv("DB_DRIVER", "pgx"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "dappforge"),
		},
		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},
		Toolchain: ToolchainConfig{
			Binary:         getEnv("APTOS_BIN", "aptos"),
			TemplatesDir:   getEnv("TEMPLATES_DIR", ""),
			CompileTimeout: getEnvAsDuration("COMPILE_TIMEOUT", 5*time.Minute),
			PublishTimeout: getEnvAsDuration("PUBLISH_TIMEOUT", 5*time.Minute),
		},
		Scratch: ScratchConfig{
			Root:          getEnv("SCRATCH_DIR", defaultScratchRoot()),
			SweepSchedule: getEnv("SWEEP_SCHEDULE", "0 */15 * * * *"),
			SweepMaxAge:   getEnvAsDuration("SWEEP_MAX_AGE", time.Hour),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFile:     getEnv("LOG_FILE", ""),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Database.DSN == "" && c.Database.Host == "" {
		return fmt.Errorf("DB_DSN or DB_HOST is required")
	}

	switch c.Database.Driver {
	case "pgx", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be pgx or postgres, got %q", c.Database.Driver)
	}

	if c.Toolchain.Binary == "" {
		return fmt.Errorf("APTOS_BIN is required")
	}

	if c.Toolchain.CompileTimeout <= 0 || c.Toolchain.PublishTimeout <= 0 {
		return fmt.Errorf("COMPILE_TIMEOUT and PUBLISH_TIMEOUT must be positive")
	}

	if c.Scratch.Root == "" {
		return fmt.Errorf("SCRATCH_DIR is required")
	}

	if c.Scratch.SweepMaxAge <= c.Toolchain.MaxRun() {
		return fmt.Errorf("SWEEP_MAX_AGE (%s) must exceed COMPILE_TIMEOUT+PUBLISH_TIMEOUT (%s)",
			c.Scratch.SweepMaxAge, c.Toolchain.MaxRun())
	}

	return nil
}

func defaultScratchRoot() string {
	return filepath.Join(os.TempDir(), "dappforge")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
