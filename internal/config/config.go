package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// EnvProduction hides internal error detail and enables JSON logs.
	EnvProduction = "production"
	// EnvDevelopment enables console logs and echoes reset tokens in responses.
	EnvDevelopment = "development"
)

// Config holds application level configuration loaded from environment variables
// and an optional .env file.
type Config struct {
	Env      string
	Port     string
	LogLevel string

	MySQLDSN       string
	DBMaxOpenConns int
	DBMaxIdleConns int
	DBConnLifetime time.Duration
	AutoMigrate    bool
	ResetDB        bool

	RedisAddr string
	RedisDB   int
	RedisPass string

	JWTSecret        string
	JWTExpiresIn     time.Duration
	AllowAdminSignup bool
	ResetPasswordURL string

	FrontendURL     string
	BodyLimit       string
	RateLimitMax    int
	RateLimitWindow time.Duration

	SMTP SMTPConfig

	SeedAdminEmail    string
	SeedAdminPassword string
}

// SMTPConfig configures outgoing mail. An empty Host disables delivery.
type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether enough settings are present to send mail.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.From != ""
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// Load builds Config from the environment with sensible defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	cfg := &Config{
		Env:      v.GetString("APP_ENV"),
		Port:     v.GetString("PORT"),
		LogLevel: v.GetString("LOG_LEVEL"),

		MySQLDSN:       v.GetString("MYSQL_DSN"),
		DBMaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		DBMaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		DBConnLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		AutoMigrate:    v.GetBool("AUTO_MIGRATE"),
		ResetDB:        v.GetBool("RESET_DB"),

		RedisAddr: v.GetString("REDIS_ADDR"),
		RedisDB:   v.GetInt("REDIS_DB"),
		RedisPass: v.GetString("REDIS_PASSWORD"),

		JWTSecret:        v.GetString("JWT_SECRET"),
		JWTExpiresIn:     v.GetDuration("JWT_EXPIRES_IN"),
		AllowAdminSignup: v.GetBool("AUTH_ALLOW_ADMIN_SIGNUP"),
		ResetPasswordURL: v.GetString("RESET_PASSWORD_URL"),

		FrontendURL:     v.GetString("FRONTEND_URL"),
		BodyLimit:       v.GetString("BODY_LIMIT"),
		RateLimitMax:    v.GetInt("RATE_LIMIT_MAX"),
		RateLimitWindow: v.GetDuration("RATE_LIMIT_WINDOW"),

		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("SMTP_FROM"),
		},

		SeedAdminEmail:    v.GetString("SEED_ADMIN_EMAIL"),
		SeedAdminPassword: v.GetString("SEED_ADMIN_PASSWORD"),
	}

	if cfg.MySQLDSN == "" {
		cfg.MySQLDSN = mysqlDSN(
			v.GetString("DB_USER"),
			v.GetString("DB_PASSWORD"),
			v.GetString("DB_HOST"),
			v.GetInt("DB_PORT"),
			v.GetString("DB_NAME"),
		)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTExpiresIn <= 0 {
		return fmt.Errorf("JWT_EXPIRES_IN must be positive, got %s", c.JWTExpiresIn)
	}
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == defaultJWTSecret) {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.RateLimitMax < 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must not be negative")
	}
	return nil
}

const defaultJWTSecret = "change-me"

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", EnvDevelopment)
	v.SetDefault("PORT", "3000")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 3306)
	v.SetDefault("DB_USER", "root")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "sigeu_db")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "30m")
	v.SetDefault("AUTO_MIGRATE", true)
	v.SetDefault("RESET_DB", false)

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRES_IN", "24h")
	v.SetDefault("AUTH_ALLOW_ADMIN_SIGNUP", false)
	v.SetDefault("RESET_PASSWORD_URL", "http://localhost:3000/reset-password")

	v.SetDefault("FRONTEND_URL", "http://localhost:3000")
	v.SetDefault("BODY_LIMIT", "10M")
	v.SetDefault("RATE_LIMIT_MAX", 100)
	v.SetDefault("RATE_LIMIT_WINDOW", "15m")

	v.SetDefault("SMTP_PORT", 587)
}

func mysqlDSN(user, password, host string, port int, name string) string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, password, host, port, name)
}
