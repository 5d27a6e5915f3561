package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

type (
	APP struct {
		Name      string
		Host      string
		Port      string
		Env       string
		JWTSecret string
	}
	DB struct {
		User     string
		Password string
		Name     string
		Host     string
		Port     string
		SSLMode  string
	}
	MQ struct {
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}
	Archivematica struct {
		DashboardURL       string
		StorageURL         string
		Username           string
		APIKey             string
		SourceLocationUUID string
		Timeout            time.Duration
	}
	Storage struct {
		// SharedDir is the root the pipeline resolves relative paths against.
		SharedDir  string
		WatchedDir string
	}
	Transfer struct {
		SIPPollInterval    time.Duration
		SIPMaxAttempts     int
		MonitorInterval    time.Duration
		StatusCacheTTL     time.Duration
		StatusCacheEntries int
	}

	Config struct {
		App           APP
		DB            DB
		MQ            MQ
		Archivematica Archivematica
		Storage       Storage
		Transfer      Transfer
	}
)

const (
	DefaultSharedDir       = "/var/archivematica/sharedDirectory"
	DefaultWatchedDir      = DefaultSharedDir + "/watchedDirectories/standard"
	DefaultSIPPollInterval = 5 * time.Second
	DefaultSIPMaxAttempts  = 20
	DefaultMonitorInterval = time.Second
)

var (
	ErrDashboardURLRequired = errors.New("archivematica dashboard url is required")
	ErrStorageURLRequired   = errors.New("archivematica storage url is required")
	ErrInvalidRemoteURL     = errors.New("archivematica url must be absolute http(s)")
	ErrInvalidPolling       = errors.New("transfer polling settings must be positive")
	ErrJWTSecretRequired    = errors.New("jwt secret is required")
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func getInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func Load() Config {
	app := APP{
		Name:      getEnv("SERVICE_NAME", "preservation-api"),
		Host:      getEnv("SERVICE_HOST", ""),
		Port:      getEnv("SERVICE_PORT", "8080"),
		Env:       getEnv("SERVICE_ENV", ""),
		JWTSecret: getEnv("SERVICE_JWT_SECRET", ""),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", ""),
		SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
	}
	mq := MQ{
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", ""),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "documents"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "documents.audit"),
	}
	am := Archivematica{
		DashboardURL:       getEnv("ARCHIVEMATICA_DASHBOARD_URL", ""),
		StorageURL:         getEnv("ARCHIVEMATICA_STORAGE_URL", ""),
		Username:           getEnv("ARCHIVEMATICA_USERNAME", ""),
		APIKey:             getEnv("ARCHIVEMATICA_API_KEY", ""),
		SourceLocationUUID: getEnv("SOURCE_LOCATION_UUID", ""),
		Timeout:            getDuration("ARCHIVEMATICA_TIMEOUT", 30*time.Second),
	}
	st := Storage{
		SharedDir:  getEnv("ARCHIVEMATICA_SHARED_DIR", DefaultSharedDir),
		WatchedDir: getEnv("ARCHIVEMATICA_WATCHED_DIR", DefaultWatchedDir),
	}
	tr := Transfer{
		SIPPollInterval:    getDuration("TRANSFER_SIP_POLL_INTERVAL", DefaultSIPPollInterval),
		SIPMaxAttempts:     getInt("TRANSFER_SIP_MAX_ATTEMPTS", DefaultSIPMaxAttempts),
		MonitorInterval:    getDuration("TRANSFER_MONITOR_INTERVAL", DefaultMonitorInterval),
		StatusCacheTTL:     getDuration("TRANSFER_STATUS_CACHE_TTL", 30*time.Second),
		StatusCacheEntries: getInt("TRANSFER_STATUS_CACHE_ENTRIES", 512),
	}

	return Config{
		App:           app,
		DB:            db,
		MQ:            mq,
		Archivematica: am,
		Storage:       st,
		Transfer:      tr,
	}
}

// Validate is called once at startup; remote base urls are not read lazily.
func (c Config) Validate() error {
	if strings.TrimSpace(c.App.JWTSecret) == "" {
		return ErrJWTSecretRequired
	}
	if c.Archivematica.DashboardURL == "" {
		return ErrDashboardURLRequired
	}
	if c.Archivematica.StorageURL == "" {
		return ErrStorageURLRequired
	}
	for _, raw := range []string{c.Archivematica.DashboardURL, c.Archivematica.StorageURL} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %q", ErrInvalidRemoteURL, raw)
		}
	}
	if c.Transfer.SIPPollInterval <= 0 || c.Transfer.SIPMaxAttempts <= 0 || c.Transfer.MonitorInterval <= 0 {
		return ErrInvalidPolling
	}

	return nil
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(c.DB.User),
		url.QueryEscape(c.DB.Password),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
		c.DB.SSLMode,
	), nil
}

// MigrateDSN is the golang-migrate flavour of DBDSN.
func (c Config) MigrateDSN() (string, error) {
	dsn, err := c.DBDSN()
	if err != nil {
		return "", err
	}
	return "pgx5" + dsn[len("postgres"):], nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
