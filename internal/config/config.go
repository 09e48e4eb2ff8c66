package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                        string
	ServiceName                   string
	ServiceVersion                string
	HTTPAddr                      string
	ReadTimeout                   time.Duration
	WriteTimeout                  time.Duration
	DBURL                         string
	CacheEnabled                  bool
	CacheTTL                      time.Duration
	CORSAllowedOrigins            []string
	DraftPollInterval             time.Duration
	AdminToken                    string
	DevUserTokens                 map[string]string
	CricfeedEnabled               bool
	CricfeedBaseURL               string
	CricfeedToken                 string
	CricfeedTimeout               time.Duration
	CricfeedMaxRetries            int
	CricfeedPrefetchSize          int
	CricfeedCircuitEnabled        bool
	CricfeedCircuitFailureCount   int
	CricfeedCircuitOpenTimeout    time.Duration
	CricfeedCircuitHalfOpenMaxReq int
	UptraceEnabled                bool
	UptraceDSN                    string
	PyroscopeEnabled              bool
	PyroscopeServerAddress        string
	PyroscopeAppName              string
	PyroscopeAuthToken            string
	PyroscopeBasicAuthUser        string
	PyroscopeBasicAuthPassword    string
	PyroscopeUploadRate           time.Duration
	PprofEnabled                  bool
	PprofAddr                     string
	LogLevel                      slog.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	if readTimeout <= 0 {
		return Config{}, fmt.Errorf("HTTP_READ_TIMEOUT must be > 0")
	}

	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}
	if writeTimeout <= 0 {
		return Config{}, fmt.Errorf("HTTP_WRITE_TIMEOUT must be > 0")
	}

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}

	draftPollInterval, err := time.ParseDuration(getEnv("DRAFT_POLL_INTERVAL", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DRAFT_POLL_INTERVAL: %w", err)
	}
	if draftPollInterval <= 0 {
		return Config{}, fmt.Errorf("DRAFT_POLL_INTERVAL must be > 0")
	}

	adminToken := strings.TrimSpace(getEnv("ADMIN_TOKEN", ""))
	if adminToken == "" {
		if appEnv != EnvDev {
			return Config{}, fmt.Errorf("ADMIN_TOKEN is required when APP_ENV=%s", appEnv)
		}
		adminToken = "local-admin"
	}

	devUserTokens, err := parseTokenMap(getEnv("DEV_USER_TOKENS", ""))
	if err != nil {
		return Config{}, fmt.Errorf("parse DEV_USER_TOKENS: %w", err)
	}

	cricfeedEnabled, err := strconv.ParseBool(getEnv("CRICFEED_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_ENABLED: %w", err)
	}
	cricfeedToken := strings.TrimSpace(getEnv("CRICFEED_TOKEN", ""))
	if cricfeedEnabled && cricfeedToken == "" {
		return Config{}, fmt.Errorf("CRICFEED_TOKEN is required when CRICFEED_ENABLED=true")
	}
	cricfeedTimeout, err := time.ParseDuration(getEnv("CRICFEED_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_TIMEOUT: %w", err)
	}
	if cricfeedTimeout <= 0 {
		return Config{}, fmt.Errorf("CRICFEED_TIMEOUT must be > 0")
	}
	cricfeedMaxRetries, err := getEnvAsInt("CRICFEED_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_MAX_RETRIES: %w", err)
	}
	if cricfeedMaxRetries < 0 {
		return Config{}, fmt.Errorf("CRICFEED_MAX_RETRIES must be >= 0")
	}
	cricfeedPrefetchSize, err := getEnvAsInt("CRICFEED_PREFETCH_SIZE", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_PREFETCH_SIZE: %w", err)
	}
	if cricfeedPrefetchSize < 1 {
		return Config{}, fmt.Errorf("CRICFEED_PREFETCH_SIZE must be >= 1")
	}
	cricfeedCircuitEnabled, err := strconv.ParseBool(getEnv("CRICFEED_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_CIRCUIT_ENABLED: %w", err)
	}
	cricfeedCircuitFailureCount, err := getEnvAsInt("CRICFEED_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cricfeedCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("CRICFEED_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	cricfeedCircuitOpenTimeout, err := time.ParseDuration(getEnv("CRICFEED_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cricfeedCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("CRICFEED_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	cricfeedCircuitHalfOpenMaxReq, err := getEnvAsInt("CRICFEED_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse CRICFEED_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cricfeedCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("CRICFEED_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}
	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	serviceName := strings.TrimSpace(getEnv("SERVICE_NAME", "fantasy-cricket"))

	return Config{
		AppEnv:                        appEnv,
		ServiceName:                   serviceName,
		ServiceVersion:                strings.TrimSpace(getEnv("SERVICE_VERSION", "dev")),
		HTTPAddr:                      getEnv("HTTP_ADDR", ":8080"),
		ReadTimeout:                   readTimeout,
		WriteTimeout:                  writeTimeout,
		DBURL:                         strings.TrimSpace(getEnv("DB_URL", "")),
		CacheEnabled:                  cacheEnabled,
		CacheTTL:                      cacheTTL,
		CORSAllowedOrigins:            splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		DraftPollInterval:             draftPollInterval,
		AdminToken:                    adminToken,
		DevUserTokens:                 devUserTokens,
		CricfeedEnabled:               cricfeedEnabled,
		CricfeedBaseURL:               strings.TrimSpace(getEnv("CRICFEED_BASE_URL", "https://feed.cricstats.example.com/v2")),
		CricfeedToken:                 cricfeedToken,
		CricfeedTimeout:               cricfeedTimeout,
		CricfeedMaxRetries:            cricfeedMaxRetries,
		CricfeedPrefetchSize:          cricfeedPrefetchSize,
		CricfeedCircuitEnabled:        cricfeedCircuitEnabled,
		CricfeedCircuitFailureCount:   cricfeedCircuitFailureCount,
		CricfeedCircuitOpenTimeout:    cricfeedCircuitOpenTimeout,
		CricfeedCircuitHalfOpenMaxReq: cricfeedCircuitHalfOpenMaxReq,
		UptraceEnabled:                uptraceEnabled,
		UptraceDSN:                    uptraceDSN,
		PyroscopeEnabled:              pyroscopeEnabled,
		PyroscopeServerAddress:        pyroscopeServerAddress,
		PyroscopeAppName:              strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", serviceName)),
		PyroscopeAuthToken:            strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:    strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:           pyroscopeUploadRate,
		PprofEnabled:                  pprofEnabled,
		PprofAddr:                     pprofAddr,
		LogLevel:                      parseLogLevel(getEnv("LOG_LEVEL", "info")),
	}, nil
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	v = strings.ToLower(strings.TrimSpace(v))
	switch v {
	case EnvDev, EnvStage, EnvProd:
		return v, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}

func parseLogLevel(v string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

// parseTokenMap reads "token:user_id" pairs separated by commas. These back
// the static dev verifier; production deployments leave DEV_USER_TOKENS empty
// and plug in a real identity provider instead.
func parseTokenMap(raw string) (map[string]string, error) {
	out := make(map[string]string)
	for _, part := range strings.Split(raw, ",") {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}

		segments := strings.SplitN(item, ":", 2)
		if len(segments) != 2 {
			return nil, fmt.Errorf("invalid map item %q, expected token:user_id", item)
		}

		token := strings.TrimSpace(segments[0])
		userID := strings.TrimSpace(segments[1])
		if token == "" || userID == "" {
			return nil, fmt.Errorf("empty token or user id in item %q", item)
		}
		out[token] = userID
	}

	return out, nil
}
