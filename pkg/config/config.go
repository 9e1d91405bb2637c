package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"

	"github.com/catalogkit/sku-roundtrip/pkg/env"
)

// EnvPrefix namespaces all envconfig variables.
const EnvPrefix = "SKUREPRO"

// EnvUsePostgres is the historical backend-selection flag. When it is set
// to a truthy value the network Postgres backend is used instead of the
// embedded in-memory SQLite database.
const EnvUsePostgres = "USE_POSTGRES"

const (
	EnvLogLevel   = "SKUREPRO_LOG_LEVEL"
	EnvDBDSN      = "SKUREPRO_DB_DSN"
	EnvDBHost     = "SKUREPRO_DB_HOST"
	EnvDBUser     = "SKUREPRO_DB_USER"
	EnvDBPassword = "SKUREPRO_DB_PASSWORD"
	EnvDBName     = "SKUREPRO_DB_NAME"
	EnvSQLiteDSN  = "SKUREPRO_SQLITE_DSN"
)

type Config struct {
	App AppConfig
	DB  DBConfig
}

// Load reads configuration from the environment. Backend selection is
// resolved here once; everything downstream receives it as a parameter.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if env.Bool(EnvUsePostgres) {
		cfg.DB.UsePostgres = true
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	LogLevel     string `envconfig:"SKUREPRO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SKUREPRO_LOG_WARN_STACK" default:"false"`
}

type DBConfig struct {
	UsePostgres bool   `envconfig:"SKUREPRO_USE_POSTGRES" default:"false"`
	DSN         string `envconfig:"SKUREPRO_DB_DSN"`

	Host     string `envconfig:"SKUREPRO_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"SKUREPRO_DB_PORT" default:"5432"`
	User     string `envconfig:"SKUREPRO_DB_USER" default:"postgres"`
	Password string `envconfig:"SKUREPRO_DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"SKUREPRO_DB_NAME" default:"skurepro"`
	SSLMode  string `envconfig:"SKUREPRO_DB_SSLMODE" default:"disable"`

	SQLiteDSN string `envconfig:"SKUREPRO_SQLITE_DSN" default:"file::memory:?cache=shared"`

	MaxOpenConns    int           `envconfig:"SKUREPRO_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"SKUREPRO_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"SKUREPRO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SKUREPRO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// Backend names the selected backend for logging.
func (db DBConfig) Backend() string {
	if db.UsePostgres {
		return "postgres"
	}
	return "sqlite"
}

func (db *DBConfig) ensureDSN() error {
	if !db.UsePostgres || db.DSN != "" {
		return nil
	}

	if db.Host == "" || db.User == "" || db.Name == "" {
		return fmt.Errorf("either %s or %s, %s, %s are required for the postgres backend",
			EnvDBDSN, EnvDBHost, EnvDBUser, EnvDBName)
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
