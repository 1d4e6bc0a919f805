package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/ilyakaznacheev/cleanenv"
)

const devSessionSecret = "dev-secret-change-in-production"

var ErrSessionSecretRequired = errors.New("SESSION_SECRET must be set in production environment")

type Config struct {
	Port string `env:"PORT" env-default:"5000"`
	Env  string `env:"ENV" env-default:"development"`

	DB       Database
	Redis    Redis
	Session  Session
	Google   Google
	HTTP     HTTP
	Frontend Frontend
}

// Database holds either a full DSN in URL or the discrete connection fields.
type Database struct {
	Driver     string `env:"DB_DRIVER" env-default:"postgres"`
	URL        string `env:"DATABASE_URL"`
	Host       string `env:"DB_HOST" env-default:"localhost"`
	Port       string `env:"DB_PORT" env-default:"5432"`
	User       string `env:"DB_USER" env-default:"postgres"`
	Password   string `env:"DB_PASSWORD"`
	Name       string `env:"DB_NAME" env-default:"samecrone"`
	SSLMode    string `env:"DB_SSLMODE" env-default:"disable"`
	InitSchema bool   `env:"DB_INIT_SCHEMA" env-default:"false"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type Session struct {
	Secret string        `env:"SESSION_SECRET" env-default:"dev-secret-change-in-production"`
	TTL    time.Duration `env:"SESSION_TTL" env-default:"24h"`
}

type Google struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	RedirectURI  string `env:"GOOGLE_REDIRECT_URI"`
}

type HTTP struct {
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Frontend struct {
	AllowedOrigin string `env:"ALLOWED_ORIGIN" env-default:"https://thesamecrone.github.io"`
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("reading environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.IsProduction() && (c.Session.Secret == "" || c.Session.Secret == devSessionSecret) {
		return ErrSessionSecretRequired
	}
	switch c.DB.Driver {
	case "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	return nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// DatabaseDSN returns DATABASE_URL when set, otherwise a DSN assembled from
// the discrete fields in the format the selected driver expects. MySQL DSNs
// always carry parseTime=true.
func (c Config) DatabaseDSN() string {
	if c.DB.Driver == "mysql" {
		return c.mysqlDSN()
	}

	if c.DB.URL != "" {
		return c.DB.URL
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DB.User, c.DB.Password),
		Host:     net.JoinHostPort(c.DB.Host, c.DB.Port),
		Path:     "/" + c.DB.Name,
		RawQuery: url.Values{"sslmode": {c.DB.SSLMode}}.Encode(),
	}
	return u.String()
}

func (c Config) mysqlDSN() string {
	if c.DB.URL != "" {
		dsn, err := mysql.ParseDSN(c.DB.URL)
		if err != nil {
			// Left as is so the driver reports the malformed DSN on open.
			return c.DB.URL
		}
		dsn.ParseTime = true
		return dsn.FormatDSN()
	}

	dsn := mysql.NewConfig()
	dsn.User = c.DB.User
	dsn.Passwd = c.DB.Password
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(c.DB.Host, c.DB.Port)
	dsn.DBName = c.DB.Name
	dsn.ParseTime = true
	return dsn.FormatDSN()
}
