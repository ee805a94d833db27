package configs

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/graphicode-dev/classroom/internal/infrastructure/env"
	"github.com/graphicode-dev/classroom/internal/infrastructure/logging"
	"github.com/graphicode-dev/classroom/internal/infrastructure/tracing"
	"github.com/graphicode-dev/classroom/internal/infrastructure/validate"
)

type Config struct {
	Client        ClientConfig         `koanf:"client"`
	Serialization SerializationConfig  `koanf:"serialization"`
	Logger        logging.LoggerConfig `koanf:"logger"`
	Tracing       tracing.Config       `koanf:"tracing"`
	HTTP          HTTPConfig           `koanf:"http"`
	RateLimiter   RateLimiterConfig    `koanf:"rateLimiter"`
	Store         StoreConfig          `koanf:"store"`
}

type ClientConfig struct {
	BaseURL    string        `koanf:"base_url" validate:"omitempty,url"`
	Timeout    time.Duration `koanf:"timeout" validate:"gte=0"`
	MaxRetries int           `koanf:"max_retries" validate:"gte=0,lte=10"`
	RetryWait  time.Duration `koanf:"retry_wait" validate:"gte=0"`
	AuthMode   string        `koanf:"auth_mode" validate:"omitempty,oneof=required optional none"`
	Token      string        `koanf:"token"`
}

type SerializationConfig struct {
	ArrayFormat   string `koanf:"array_format" validate:"omitempty,oneof=brackets indices repeat flat"`
	BooleanFormat string `koanf:"boolean_format" validate:"omitempty,oneof=numeric string"`
	DateFormat    string `koanf:"date_format" validate:"omitempty,oneof=iso timestamp date-only date"`
}

type HTTPConfig struct {
	Host           string        `koanf:"host"`
	Port           uint16        `koanf:"port" validate:"gt=0"`
	AllowedOrigins []string      `koanf:"allowed_origins"`
	ReadTimeout    time.Duration `koanf:"read_timeout"`
	WriteTimeout   time.Duration `koanf:"write_timeout"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
}

type RateLimiterConfig struct {
	RequestsPerTimeFrame int           `koanf:"requestsPerTimeFrame" validate:"gte=0"`
	TimeFrame            time.Duration `koanf:"timeFrame"`
	SourceHeaderKey      string        `koanf:"sourceHeaderKey"`
}

type StoreConfig struct {
	Capacity   uint          `koanf:"capacity"`
	SessionTTL time.Duration `koanf:"session_ttl"`
}

var ErrInvalidConfig = errors.New("invalid config")

// Load reads the YAML file at path, fills defaults and applies environment
// overrides. An empty path loads defaults only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load config file %s", path)
		}
	}

	applyDefaults(k)
	applyEnvOverrides(k)

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}

	if errs := validate.Struct(cfg); errs != nil {
		return nil, errors.Wrapf(ErrInvalidConfig, "%v", errs)
	}
	return &cfg, nil
}

func applyDefaults(k *koanf.Koanf) {
	// Client defaults
	setDefault(k, "client.timeout", 30*time.Second)
	setDefault(k, "client.max_retries", 2)
	setDefault(k, "client.retry_wait", 500*time.Millisecond)
	setDefault(k, "client.auth_mode", "required")

	setDefault(k, "serialization.array_format", "brackets")
	setDefault(k, "serialization.boolean_format", "numeric")
	setDefault(k, "serialization.date_format", "iso")

	setDefault(k, "logger.encoding", "json")
	setDefault(k, "logger.level", "info")
	setDefault(k, "logger.logger", "zap")

	setDefault(k, "tracing.service_name", "classroom")
	setDefault(k, "tracing.environment", "development")
	setDefault(k, "tracing.endpoint", "http://localhost:4318/v1/traces")
	setDefault(k, "tracing.sample_ratio", 1.0)

	// HTTP defaults
	setDefault(k, "http.host", "0.0.0.0")
	setDefault(k, "http.port", 8080)
	setDefault(k, "http.read_timeout", 10*time.Second)
	setDefault(k, "http.write_timeout", 30*time.Second)
	setDefault(k, "http.request_timeout", 60*time.Second)
	setDefault(k, "http.allowed_origins", []string{"*"})

	// Rate limiter defaults
	setDefault(k, "rateLimiter.requestsPerTimeFrame", 120)
	setDefault(k, "rateLimiter.timeFrame", time.Minute)
	setDefault(k, "rateLimiter.sourceHeaderKey", "X-Forwarded-For")

	setDefault(k, "store.capacity", 500)
	setDefault(k, "store.session_ttl", 24*time.Hour)
}

func applyEnvOverrides(k *koanf.Koanf) {
	if baseURL := env.GetString("CLASSROOM_BASE_URL", ""); baseURL != "" {
		k.Set("client.base_url", baseURL)
	}
	if token := env.GetString("CLASSROOM_TOKEN", ""); token != "" {
		k.Set("client.token", token)
	}
	if timeout := env.GetDuration("CLASSROOM_TIMEOUT", 0); timeout > 0 {
		k.Set("client.timeout", timeout)
	}
	if retries := env.GetInt("CLASSROOM_MAX_RETRIES", -1); retries >= 0 {
		k.Set("client.max_retries", retries)
	}

	if level := env.GetString("LOGGER_LEVEL", ""); level != "" {
		k.Set("logger.level", level)
	}
	if backend := env.GetString("LOGGER_LOGGER", ""); backend != "" {
		k.Set("logger.logger", backend)
	}
	if enabled := env.GetBool("TRACING_ENABLED", false); enabled {
		k.Set("tracing.enabled", true)
	}
	if endpoint := env.GetString("OTLP_ENDPOINT", ""); endpoint != "" {
		k.Set("tracing.endpoint", endpoint)
	}

	// HTTP config from env
	if host := env.GetString("HTTP_HOST", ""); host != "" {
		k.Set("http.host", host)
	}
	if port := env.GetInt("HTTP_PORT", 0); port > 0 {
		k.Set("http.port", port)
	}

	if limit := env.GetInt("RATE_LIMIT_REQUESTS", -1); limit >= 0 {
		k.Set("rateLimiter.requestsPerTimeFrame", limit)
	}
	if capacity := env.GetInt("STORE_CAPACITY", 0); capacity > 0 {
		k.Set("store.capacity", uint(capacity))
	}
}

// setDefault only sets the value if the key doesn't already exist
func setDefault(k *koanf.Koanf, key string, value any) {
	if !k.Exists(key) {
		k.Set(key, value)
	}
}
