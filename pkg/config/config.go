package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
	"unicode/utf8"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App   AppConfig
	Data  DataConfig
	DB    DBConfig
	Redis RedisConfig
	CORS  CORSConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if err := c.Data.validate(); err != nil {
		return err
	}
	if c.Data.Source == DataSourceDB {
		if err := c.DB.validate(); err != nil {
			return err
		}
	}
	return nil
}

type AppConfig struct {
	Env          string `envconfig:"OLIST_APP_ENV" required:"true"`
	Port         string `envconfig:"OLIST_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"OLIST_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"OLIST_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

// DataConfig locates the four raw datasets and controls how they are read.
type DataConfig struct {
	Source          string        `envconfig:"OLIST_DATA_SOURCE" default:"file"`
	Dir             string        `envconfig:"OLIST_DATA_DIR" default:"data"`
	OrdersFile      string        `envconfig:"OLIST_DATA_ORDERS_FILE" default:"olist_orders_dataset.csv"`
	ItemsFile       string        `envconfig:"OLIST_DATA_ITEMS_FILE" default:"olist_order_items_dataset.csv"`
	ProductsFile    string        `envconfig:"OLIST_DATA_PRODUCTS_FILE" default:"olist_products_dataset.csv"`
	CustomersFile   string        `envconfig:"OLIST_DATA_CUSTOMERS_FILE" default:"olist_customers_dataset.csv"`
	Delimiter       string        `envconfig:"OLIST_DATA_DELIMITER" default:","`
	Timezone        string        `envconfig:"OLIST_DATA_TIMEZONE" default:"UTC"`
	RefreshInterval time.Duration `envconfig:"OLIST_DATA_REFRESH_INTERVAL" default:"0s"`
}

// Comma returns the configured delimiter as a rune. An empty value means ','.
func (d DataConfig) Comma() rune {
	if d.Delimiter == "" {
		return ','
	}
	if d.Delimiter == `\t` {
		return '\t'
	}
	r, _ := utf8.DecodeRuneInString(d.Delimiter)
	return r
}

// Location resolves the reporting timezone used to derive order dates.
func (d DataConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(d.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("loading %s %q: %w", EnvDataTimezone, name, err)
	}
	return loc, nil
}

func (d DataConfig) validate() error {
	switch strings.ToLower(d.Source) {
	case DataSourceFile, DataSourceDB:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvDataSource, DataSourceFile, DataSourceDB, d.Source)
	}
	if d.Delimiter != `\t` && utf8.RuneCountInString(d.Delimiter) > 1 {
		return fmt.Errorf("%s must be a single character, got %q", EnvDataDelimiter, d.Delimiter)
	}
	if d.RefreshInterval < 0 {
		return fmt.Errorf("%s must not be negative", EnvDataRefreshInterval)
	}
	if _, err := d.Location(); err != nil {
		return err
	}
	return nil
}

type DBConfig struct {
	Driver         string `envconfig:"OLIST_DB_DRIVER" default:"postgres"`
	DSN            string `envconfig:"OLIST_DB_DSN"`
	OrdersTable    string `envconfig:"OLIST_DB_ORDERS_TABLE" default:"olist_orders"`
	ItemsTable     string `envconfig:"OLIST_DB_ITEMS_TABLE" default:"olist_order_items"`
	ProductsTable  string `envconfig:"OLIST_DB_PRODUCTS_TABLE" default:"olist_products"`
	CustomersTable string `envconfig:"OLIST_DB_CUSTOMERS_TABLE" default:"olist_customers"`
	AutoMigrate    bool   `envconfig:"OLIST_DB_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"OLIST_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"OLIST_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"OLIST_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"OLIST_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	if strings.TrimSpace(db.DSN) == "" {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvDataSource, DataSourceDB)
	}
	switch strings.ToLower(db.Driver) {
	case DBDriverPostgres, DBDriverSQLite:
		return nil
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", EnvDBDriver, DBDriverPostgres, DBDriverSQLite, db.Driver)
	}
}

type RedisConfig struct {
	URL          string        `envconfig:"OLIST_REDIS_URL"`
	Address      string        `envconfig:"OLIST_REDIS_ADDR"`
	Password     string        `envconfig:"OLIST_REDIS_PASSWORD"`
	DB           int           `envconfig:"OLIST_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"OLIST_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"OLIST_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"OLIST_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"OLIST_REDIS_READ_TIMEOUT" default:"2s"`
	WriteTimeout time.Duration `envconfig:"OLIST_REDIS_WRITE_TIMEOUT" default:"2s"`
	CacheTTL     time.Duration `envconfig:"OLIST_REDIS_CACHE_TTL" default:"10m"`
}

// Enabled reports whether a Redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"OLIST_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000"`
}
