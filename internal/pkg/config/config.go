package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection,
//   upstream service URLs, secrets)
// - default: Values common across all environments (timezone, timeouts)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Cookie  CookieConfig
	CAS     CASConfig
	MealReg MealRegConfig
	Sweep   SweepConfig
	App     AppConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"Asia/Kolkata"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type JWTConfig struct {
	Secret               string `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenDuration  string `envconfig:"JWT_ACCESS_TOKEN_DURATION" default:"15m"`
	RefreshTokenDuration string `envconfig:"JWT_REFRESH_TOKEN_DURATION" default:"168h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"lax"`
}

// CASConfig points at the campus SSO server. ServiceURL is the callback this
// app registered with CAS; ticket validation fails if they disagree.
type CASConfig struct {
	BaseURL    string        `envconfig:"CAS_BASE_URL" required:"true"`
	ServiceURL string        `envconfig:"CAS_SERVICE_URL" required:"true"`
	Timeout    time.Duration `envconfig:"CAS_TIMEOUT" default:"10s"`
}

// MealRegConfig points at the external meal-registration service that knows
// which mess each student is registered at and issues redemption tokens.
type MealRegConfig struct {
	BaseURL string        `envconfig:"MEALREG_BASE_URL" required:"true"`
	Timeout time.Duration `envconfig:"MEALREG_TIMEOUT" default:"10s"`
}

// SweepConfig guards the externally-triggered expiry sweep. SecretHash is a
// bcrypt hash of the shared secret the cron caller presents.
type SweepConfig struct {
	SecretHash string `envconfig:"SWEEP_SECRET_HASH" required:"true"`
}

// AppConfig.TimeZone is the canonical timezone for every expiry decision.
// Sweep runs and request-time checks both resolve "today" through it, so the
// two can never disagree near a cutoff hour.
type AppConfig struct {
	TimeZone string `envconfig:"TIME_ZONE" default:"Asia/Kolkata"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889",
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "Asia/Kolkata",
		},
		Log: LogConfig{
			Level: "error",
		},
		JWT: JWTConfig{
			Secret:               "test-secret",
			AccessTokenDuration:  "15m",
			RefreshTokenDuration: "168h",
		},
		CAS: CASConfig{
			BaseURL:    "http://localhost:9443/cas",
			ServiceURL: "http://localhost:8889/api/auth/login",
			Timeout:    5 * time.Second,
		},
		MealReg: MealRegConfig{
			BaseURL: "http://localhost:9444",
			Timeout: 5 * time.Second,
		},
		Sweep: SweepConfig{
			// bcrypt("password"), cost 10
			SecretHash: "$2a$10$LQhd9xVkTrgkMPEUVkoPs.zyfP13b9pMe.IA1tCpc4qAZ0V/MQTca",
		},
		App: AppConfig{
			TimeZone: "Asia/Kolkata",
		},
	}
}
