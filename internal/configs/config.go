package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type UploadConfig struct {
	APIURL   string
	APIKey   string
	RetryMax int
	Timeout  time.Duration
}

type GeocoderConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type PostgresConfig struct {
	URL     string
	Enabled bool
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Enabled  bool
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
	Enabled  bool
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

type StdoutLogConfig struct {
	Level string
}

type RESTConfig struct {
	Port string
}

// AppConfig is the full process configuration, read once at startup. The
// per-source profile lives in its own YAML file (see SourceProfile).
type AppConfig struct {
	AppName           string
	SourceProfilePath string

	Upload       UploadConfig
	Geocoder     GeocoderConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	RabbitMQ     RabbitMQConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
	Rest         RESTConfig

	// PaceInterval is the flat delay between successive listing uploads.
	PaceInterval time.Duration
	// StopPollInterval is how often the persisted stop flag is checked.
	StopPollInterval time.Duration
}

// LoadConfig reads configuration from environment variables, optionally
// seeded from a .env file. A missing .env file is fine; the orchestration
// layer normally injects the environment directly.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: no .env file loaded (path: %v): %v\n", envPath, err)
	}

	cfg := &AppConfig{}

	cfg.AppName = getEnvAsString("APP_NAME", "listing-ingest-service")

	cfg.SourceProfilePath = os.Getenv("SOURCE_PROFILE")
	if cfg.SourceProfilePath == "" {
		return nil, fmt.Errorf("SOURCE_PROFILE environment variable is required")
	}

	cfg.Upload.APIURL = getEnvAsString("UPLOAD_API_URL", "")
	cfg.Upload.APIKey = getEnvAsString("UPLOAD_API_KEY", "")
	cfg.Upload.RetryMax = getEnvAsInt("UPLOAD_RETRY_MAX", 3)
	cfg.Upload.Timeout = getEnvAsDuration("UPLOAD_TIMEOUT", 30*time.Second)

	cfg.Geocoder.BaseURL = getEnvAsString("GEOCODER_URL", "https://nominatim.openstreetmap.org")
	cfg.Geocoder.Timeout = getEnvAsDuration("GEOCODER_TIMEOUT", 15*time.Second)
	cfg.Geocoder.CacheTTL = getEnvAsDuration("GEOCODER_CACHE_TTL", 30*24*time.Hour)

	cfg.Postgres.URL = os.Getenv("POSTGRES_URL")
	cfg.Postgres.Enabled = cfg.Postgres.URL != ""

	cfg.Redis.Addr = os.Getenv("REDIS_ADDR")
	cfg.Redis.Password = getEnvAsString("REDIS_PASSWORD", "")
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", 0)
	cfg.Redis.Enabled = cfg.Redis.Addr != ""

	cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
	cfg.RabbitMQ.Exchange = getEnvAsString("RABBITMQ_PROGRESS_EXCHANGE", "scraper_progress")
	cfg.RabbitMQ.Enabled = cfg.RabbitMQ.URL != ""

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	cfg.Rest.Port = getEnvAsString("PORT", "8090")

	cfg.PaceInterval = getEnvAsDuration("PACE_INTERVAL", time.Second)
	cfg.StopPollInterval = getEnvAsDuration("STOP_POLL_INTERVAL", 5*time.Second)

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as int or returns the default,
// logging when the value is present but unparsable.
func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}

	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valDur, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valDur
}
