package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DBConfig struct {
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Host       string `yaml:"host"`
	Port       string `yaml:"port"`
	Name       string `yaml:"name"`
	AutoSchema bool   `yaml:"auto_schema"`
}

// DSN builds the go-sql-driver/mysql data source name.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&multiStatements=true&clientFoundRows=true",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	Expiration time.Duration `yaml:"expiration"`
}

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type Config struct {
	Env             string        `yaml:"env"`
	HTTPAddr        string        `yaml:"http_addr"`
	Store           string        `yaml:"store"`
	VerificationTTL time.Duration `yaml:"verification_ttl"`
	DB              DBConfig      `yaml:"db"`
	JWT             JWTConfig     `yaml:"jwt"`
	SMTP            SMTPConfig    `yaml:"smtp"`
}

func defaults() Config {
	return Config{
		Env:             "development",
		HTTPAddr:        ":8080",
		Store:           "mysql",
		VerificationTTL: 24 * time.Hour,
		DB: DBConfig{
			Host: "127.0.0.1",
			Port: "3306",
			Name: "taskflow",
		},
		JWT: JWTConfig{
			Expiration: 24 * time.Hour,
		},
		SMTP: SMTPConfig{
			Port: 587,
		},
	}
}

// Load builds the configuration from, in increasing precedence: built-in
// defaults, the YAML file named by CONFIG_FILE, a .env file in the working
// directory, and the process environment.
func Load() (*Config, error) {
	// A missing .env is fine; deployments set the environment directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Env, "APP_ENV")
	setString(&cfg.HTTPAddr, "HTTP_ADDR")
	setString(&cfg.Store, "STORE")
	setString(&cfg.DB.User, "DB_USER")
	setString(&cfg.DB.Password, "DB_PASSWORD")
	setString(&cfg.DB.Host, "DB_HOST")
	setString(&cfg.DB.Port, "DB_PORT")
	setString(&cfg.DB.Name, "DB_NAME")
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.SMTP.Host, "SMTP_HOST")
	setString(&cfg.SMTP.User, "SMTP_USER")
	setString(&cfg.SMTP.Password, "SMTP_PASSWORD")
	setString(&cfg.SMTP.From, "SMTP_FROM")

	if err := setBool(&cfg.DB.AutoSchema, "DB_AUTO_SCHEMA"); err != nil {
		return err
	}
	if err := setInt(&cfg.SMTP.Port, "SMTP_PORT"); err != nil {
		return err
	}
	if err := setDuration(&cfg.JWT.Expiration, "JWT_EXPIRATION"); err != nil {
		return err
	}
	return setDuration(&cfg.VerificationTTL, "VERIFICATION_TTL")
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWT.Expiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	switch c.Store {
	case "mysql":
		if c.DB.User == "" || c.DB.Name == "" {
			return errors.New("DB_USER and DB_NAME are required for the mysql store")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}
	return nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}
