package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the typed process configuration
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Store    StoreConfig
	JWT      JWTConfig
	Redis    RedisConfig
	NSQ      NSQConfig
	Twilio   TwilioConfig
	Rates    RatesConfig
	Jobs     JobsConfig
	Log      LogConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Port        string
}

// IsProduction reports whether debug details must be hidden from clients
func (a AppConfig) IsProduction() bool {
	return strings.EqualFold(a.Environment, "production")
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	// InstanceConnectionName switches to the Cloud SQL unix socket
	InstanceConnectionName string
	MaxOpenConns           int
	MaxIdleConns           int
}

type StoreConfig struct {
	UseMemory bool
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Enabled reports whether a redis address was configured
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type NSQConfig struct {
	Addr  string
	Topic string
}

func (n NSQConfig) Enabled() bool { return n.Addr != "" }

type TwilioConfig struct {
	AccountSID   string
	AuthToken    string
	WhatsAppFrom string

	// StatusCallbackURL is the public URL of the delivery status webhook.
	// Empty disables callbacks.
	StatusCallbackURL string
}

func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != "" && t.WhatsAppFrom != ""
}

type RatesConfig struct {
	StaleAfter time.Duration
}

type JobsConfig struct {
	Enabled             bool
	ExpirySweepInterval time.Duration
	AlarmInterval       time.Duration
	RateRefreshInterval time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "loadboard-backend")
	v.SetDefault("APP_VERSION", "1.0.0")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("PORT", "8080")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "loadboard")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("USE_MEMORY_STORE", false)

	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "loadboard")

	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("NSQ_TOPIC", "loadboard.events")

	v.SetDefault("RATES_STALE_AFTER", "24h")

	v.SetDefault("JOBS_ENABLED", true)
	v.SetDefault("JOBS_EXPIRY_SWEEP_INTERVAL", "10m")
	v.SetDefault("JOBS_ALARM_INTERVAL", "15m")
	v.SetDefault("JOBS_RATE_REFRESH_INTERVAL", "24h")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

// Load reads .env files for local development and then the environment.
func Load(envFiles ...string) *Config {
	if len(envFiles) == 0 {
		envFiles = []string{".env", "environments/.env.development"}
	}
	loaded := false
	for _, f := range envFiles {
		if err := godotenv.Load(f); err == nil {
			loaded = true
			break
		}
	}
	if !loaded {
		log.Println("No .env file found - using environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return fromViper(v)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Version:     v.GetString("APP_VERSION"),
			Environment: v.GetString("ENVIRONMENT"),
			Port:        v.GetString("PORT"),
		},
		Database: DatabaseConfig{
			Host:                   v.GetString("DB_HOST"),
			Port:                   v.GetInt("DB_PORT"),
			User:                   v.GetString("DB_USER"),
			Password:               v.GetString("DB_PASS"),
			Name:                   v.GetString("DB_NAME"),
			SSLMode:                v.GetString("DB_SSL_MODE"),
			InstanceConnectionName: v.GetString("INSTANCE_CONNECTION_NAME"),
			MaxOpenConns:           v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:           v.GetInt("DB_MAX_IDLE_CONNS"),
		},
		Store: StoreConfig{
			UseMemory: v.GetBool("USE_MEMORY_STORE"),
		},
		JWT: JWTConfig{
			Secret:     v.GetString("JWT_SECRET"),
			Expiration: v.GetDuration("JWT_EXPIRATION"),
			Issuer:     v.GetString("JWT_ISSUER"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		NSQ: NSQConfig{
			Addr:  v.GetString("NSQ_ADDR"),
			Topic: v.GetString("NSQ_TOPIC"),
		},
		Twilio: TwilioConfig{
			AccountSID:        v.GetString("TWILIO_ACCOUNT_SID"),
			AuthToken:         v.GetString("TWILIO_AUTH_TOKEN"),
			WhatsAppFrom:      v.GetString("TWILIO_WHATSAPP_FROM"),
			StatusCallbackURL: v.GetString("TWILIO_STATUS_CALLBACK_URL"),
		},
		Rates: RatesConfig{
			StaleAfter: v.GetDuration("RATES_STALE_AFTER"),
		},
		Jobs: JobsConfig{
			Enabled:             v.GetBool("JOBS_ENABLED"),
			ExpirySweepInterval: v.GetDuration("JOBS_EXPIRY_SWEEP_INTERVAL"),
			AlarmInterval:       v.GetDuration("JOBS_ALARM_INTERVAL"),
			RateRefreshInterval: v.GetDuration("JOBS_RATE_REFRESH_INTERVAL"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}
}
