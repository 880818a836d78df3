package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Session store kinds.
const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config groups the console configuration (read through Viper from env and optional files).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	Backend BackendConfig
	Session SessionConfig
	DB      DBConfig
	List    ListConfig
}

// AppConfig holds general application settings.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configures the console HTTP server.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr returns the listen address (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BackendConfig points at the REST backend the console consumes.
type BackendConfig struct {
	BaseURL     string
	Timeout     time.Duration
	ReadRetries int
}

// SessionConfig covers the browser session cookie and token persistence.
type SessionConfig struct {
	Secret   string
	TTL      time.Duration
	Cookie   string
	Secure   bool
	SameSite string // lax | strict | none
	Store    string // memory | postgres
}

// ListConfig tunes list views.
type ListConfig struct {
	Debounce time.Duration
}

// DBConfig holds PostgreSQL settings, only used by the postgres session store.
// When DatabaseURL is set it is used as the full connection string.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
}

// ConnectionString returns DatabaseURL when set, otherwise the DSN built from the parts.
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN builds a postgres URL, escaping special characters in the password.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// Load reads configuration from environment variables and, optionally, from .env / config.env.
// Env vars take precedence. Expected names: APP_ENV, BACKEND_BASE_URL, SESSION_SECRET, etc.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // missing file is fine

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "kiran-console"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 3000),
		},
		Backend: BackendConfig{
			BaseURL:     strings.TrimRight(getString(v, "BACKEND_BASE_URL", ""), "/"),
			Timeout:     time.Duration(getInt(v, "BACKEND_TIMEOUT_SECONDS", 15)) * time.Second,
			ReadRetries: getInt(v, "BACKEND_READ_RETRIES", 2),
		},
		Session: SessionConfig{
			Secret:   getString(v, "SESSION_SECRET", ""),
			TTL:      time.Duration(getInt(v, "SESSION_TTL_MINUTES", 720)) * time.Minute,
			Cookie:   getString(v, "COOKIE_NAME", "kiran_session"),
			Secure:   getBool(v, "COOKIE_SECURE", false),
			SameSite: strings.ToLower(getString(v, "COOKIE_SAMESITE", "lax")),
			Store:    strings.ToLower(getString(v, "SESSION_STORE", StoreMemory)),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "kiran_console"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
		},
		List: ListConfig{
			Debounce: time.Duration(getInt(v, "SEARCH_DEBOUNCE_MS", 500)) * time.Millisecond,
		},
	}
}

// Validate rejects configurations the console cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.Backend.BaseURL == "" {
		errs = append(errs, errors.New("BACKEND_BASE_URL is required"))
	} else if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("BACKEND_BASE_URL %q is not an absolute URL", c.Backend.BaseURL))
	}
	if c.Session.Secret == "" {
		errs = append(errs, errors.New("SESSION_SECRET is required"))
	}
	switch c.Session.Store {
	case StoreMemory, StorePostgres:
	default:
		errs = append(errs, fmt.Errorf("SESSION_STORE %q is not one of memory, postgres", c.Session.Store))
	}
	if c.Backend.ReadRetries < 0 {
		errs = append(errs, errors.New("BACKEND_READ_RETRIES must not be negative"))
	}
	return errors.Join(errs...)
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		return v.GetBool(key)
	}
	return def
}
