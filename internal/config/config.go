package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration structure.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the level implied by Environment when set.
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"30s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
		// AllowedOrigins lists the CORS origins, "*" allows any.
		AllowedOrigins []string `env:"HTTP_ALLOWED_ORIGINS" env-default:"*" yaml:"allowedOrigins"`
		// RateLimit is the number of API requests a client may make per RateWindow. Zero disables it.
		RateLimit int `env:"HTTP_RATE_LIMIT" env-default:"120" yaml:"rateLimit"`
		// RateWindow is the window of RateLimit.
		RateWindow time.Duration `env:"HTTP_RATE_WINDOW" env-default:"1m" yaml:"rateWindow"`
	} `yaml:"http"`

	// Database contains all database connection related configurations
	Database struct {
		// Username for database authentication
		Username string `env:"DATABASE_USERNAME" env-default:"myuser" yaml:"username"`
		// Password for database authentication
		Password string `env:"DATABASE_PASSWORD" env-default:"mypassword" yaml:"password"`
		// Host is the database server hostname or IP address
		Host string `env:"DATABASE_HOST" env-default:"localhost" yaml:"host"`
		// Port is the database server port number
		Port int `env:"DATABASE_PORT" env-default:"5432" yaml:"port"`
		// SslMode defines the SSL mode for the database connection
		SslMode string `env:"DATABASE_SSL_MODE" env-default:"disable" yaml:"sslMode"`
		// DatabaseName is the name of the database to connect to
		DatabaseName string `env:"DATABASE_NAME" env-default:"sectoolkit" yaml:"name"`
		// MaxOpenConnections limits the number of open connections to the database
		MaxOpenConnections int `env:"DATABASE_MAX_OPEN_CONNECTIONS" env-default:"10" yaml:"maxOpenConnections"`
		// MaxIdleConnections limits the number of connections in the idle connection pool
		MaxIdleConnections int `env:"DATABASE_MAX_IDLE_CONNECTIONS" env-default:"8" yaml:"maxIdleConnections"`
		// ConnMaxLifetime is the maximum amount of time a connection may be reused
		ConnMaxLifetime time.Duration `env:"DATABASE_CONNECTION_MAX_LIFETIME" env-default:"3m" yaml:"connMaxLifetime"`
		// ConnMaxIdleTime is the maximum amount of time a connection may be idle
		ConnMaxIdleTime time.Duration `env:"DATABASE_CONNECTION_MAX_IDLE_TIME" env-default:"3m" yaml:"connMaxIdleTime"`
		// ConnectTimeout bounds dialing a single connection
		ConnectTimeout time.Duration `env:"DATABASE_CONNECT_TIMEOUT" env-default:"5s" yaml:"connectTimeout"`
	} `yaml:"database"`

	// Redis backs the API rate limiter.
	Redis struct {
		Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379" yaml:"addr"`
		Password string `env:"REDIS_PASSWORD" yaml:"password"`
		DB       int    `env:"REDIS_DB" env-default:"0" yaml:"db"`
	} `yaml:"redis"`

	// JWT configures bearer token issuing and verification (RS256).
	JWT struct {
		// PublicKeyPath is the PEM encoded RSA public key used to verify tokens.
		PublicKeyPath string `env:"JWT_PUBLIC_KEY_PATH" env-default:"keys/jwt.pub" yaml:"publicKeyPath"`
		// PrivateKeyPath is the PEM encoded RSA private key used by the token command.
		PrivateKeyPath string `env:"JWT_PRIVATE_KEY_PATH" env-default:"keys/jwt.key" yaml:"privateKeyPath"`
		// Issuer is written to and required in the iss claim.
		Issuer string `env:"JWT_ISSUER" env-default:"sectoolkit" yaml:"issuer"`
		// TTL is the lifetime of issued tokens.
		TTL time.Duration `env:"JWT_TTL" env-default:"24h" yaml:"ttl"`
	} `yaml:"jwt"`

	// Scanner configures the TCP port scanner.
	Scanner struct {
		Timeout       time.Duration `env:"SCANNER_TIMEOUT" env-default:"2s" yaml:"timeout"`
		Concurrency   int           `env:"SCANNER_CONCURRENCY" env-default:"100" yaml:"concurrency"`
		RateLimit     float64       `env:"SCANNER_RATE_LIMIT" env-default:"0" yaml:"rateLimit"`
		GrabBanner    bool          `env:"SCANNER_GRAB_BANNER" env-default:"false" yaml:"grabBanner"`
		BannerTimeout time.Duration `env:"SCANNER_BANNER_TIMEOUT" env-default:"2s" yaml:"bannerTimeout"`
		Retries       int           `env:"SCANNER_RETRIES" env-default:"0" yaml:"retries"`
		// Ports is the port specification used when none is given.
		Ports string `env:"SCANNER_PORTS" env-default:"common" yaml:"ports"`
	} `yaml:"scanner"`

	// TLS configures the certificate validator.
	TLS struct {
		Timeout       time.Duration `env:"TLS_TIMEOUT" env-default:"10s" yaml:"timeout"`
		ExpiryWarning time.Duration `env:"TLS_EXPIRY_WARNING" env-default:"720h" yaml:"expiryWarning"`
		// RootCAPath optionally replaces the system roots with a PEM bundle.
		RootCAPath string `env:"TLS_ROOT_CA_PATH" yaml:"rootCAPath"`
	} `yaml:"tls"`

	// Password configures the password analyzer.
	Password struct {
		MinLength int `env:"PASSWORD_MIN_LENGTH" env-default:"8" yaml:"minLength"`
		// WordlistPath optionally adds passwords, one per line, to the common list.
		WordlistPath string `env:"PASSWORD_WORDLIST_PATH" yaml:"wordlistPath"`
	} `yaml:"password"`

	// Logs configures the log parser.
	Logs struct {
		Format              string `env:"LOGS_FORMAT" env-default:"auto" yaml:"format"`
		BruteForceThreshold int    `env:"LOGS_BRUTE_FORCE_THRESHOLD" env-default:"5" yaml:"bruteForceThreshold"`
		ScanThreshold       int    `env:"LOGS_SCAN_THRESHOLD" env-default:"20" yaml:"scanThreshold"`
		TopN                int    `env:"LOGS_TOP_N" env-default:"10" yaml:"topN"`
		// RulesPath optionally adds signatures from a YAML rule file.
		RulesPath string `env:"LOGS_RULES_PATH" yaml:"rulesPath"`
	} `yaml:"logs"`

	// Reports configures asynchronous report processing.
	Reports struct {
		// MaxAttempts is the number of times a report job is tried before it fails.
		MaxAttempts int `env:"REPORTS_MAX_ATTEMPTS" env-default:"3" yaml:"maxAttempts"`
		// ResultCacheTTL is how long a completed result is reused for identical requests.
		ResultCacheTTL time.Duration `env:"REPORTS_RESULT_CACHE_TTL" env-default:"1h" yaml:"resultCacheTTL"`
		// MaxPageSize bounds the page size of report listings.
		MaxPageSize uint `env:"REPORTS_MAX_PAGE_SIZE" env-default:"100" yaml:"maxPageSize"`
	} `yaml:"reports"`

	// Worker configures the background job workers.
	Worker struct {
		// MaxWorkers is the number of jobs river runs concurrently.
		MaxWorkers int `env:"WORKER_MAX_WORKERS" env-default:"10" yaml:"maxWorkers"`
		// MaxInFlightProbes bounds the probes of all running port scans together.
		MaxInFlightProbes int `env:"WORKER_MAX_IN_FLIGHT_PROBES" env-default:"500" yaml:"maxInFlightProbes"`
		// SnoozeDuration is how long a job waits when the probe budget is exhausted.
		SnoozeDuration time.Duration `env:"WORKER_SNOOZE_DURATION" env-default:"5s" yaml:"snoozeDuration"`
		// JobTimeout bounds the runtime of a single job.
		JobTimeout time.Duration `env:"WORKER_JOB_TIMEOUT" env-default:"5m" yaml:"jobTimeout"`
	} `yaml:"worker"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for yaml config file and returns a filled Config
// struct. When the file does not exist the configuration is read from the
// environment alone.
func Load(configPath string) (*Config, error) {
	var cfg Config
	_, err := os.Stat(configPath)
	if errors.Is(err, fs.ErrNotExist) {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from env: %w", err)
		}

		return &cfg, nil
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
