package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Scheduling backend.
	BackendBaseURL        string  `mapstructure:"BACKEND_BASE_URL"`
	BackendTimeoutSeconds int     `mapstructure:"BACKEND_TIMEOUT_SECONDS"`
	BackendRPS            float64 `mapstructure:"BACKEND_RPS"`

	// Payments.
	StripeSecretKey         string `mapstructure:"STRIPE_SECRET_KEY"`
	PaymentStrategy         string `mapstructure:"PAYMENT_STRATEGY"`    // manual | hosted
	PaymentVerifyMode       string `mapstructure:"PAYMENT_VERIFY_MODE"` // backend | stripe
	VerificationAmountCents int64  `mapstructure:"VERIFICATION_AMOUNT_CENTS"`
	Currency                string `mapstructure:"CURRENCY"`

	// Booking sessions.
	SessionStore      string `mapstructure:"SESSION_STORE"` // memory | redis
	SessionTTLMinutes int    `mapstructure:"SESSION_TTL_MINUTES"`

	// Redis configuration.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisSessionDB       int    `mapstructure:"REDIS_SESSION_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// Reminders.
	RemindersEnabled  bool `mapstructure:"REMINDERS_ENABLED"`
	ReminderLeadHours int  `mapstructure:"REMINDER_LEAD_HOURS"`

	// Shop hours.
	BusinessOpenHour  int    `mapstructure:"BUSINESS_OPEN_HOUR"`
	BusinessCloseHour int    `mapstructure:"BUSINESS_CLOSE_HOUR"`
	SlotMinutes       int    `mapstructure:"SLOT_MINUTES"`
	Timezone          string `mapstructure:"TIMEZONE"`
}

var AppConfig Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("BACKEND_BASE_URL", "http://localhost:5000/api")
	v.SetDefault("BACKEND_TIMEOUT_SECONDS", 15)
	v.SetDefault("BACKEND_RPS", 20)
	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("PAYMENT_STRATEGY", "manual")
	v.SetDefault("PAYMENT_VERIFY_MODE", "backend")
	v.SetDefault("VERIFICATION_AMOUNT_CENTS", 100)
	v.SetDefault("CURRENCY", "usd")
	v.SetDefault("SESSION_STORE", "memory")
	v.SetDefault("SESSION_TTL_MINUTES", 30)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_SESSION_DB", 0)
	v.SetDefault("REDIS_REMINDER_QUEUE_DB", 3)
	v.SetDefault("REMINDERS_ENABLED", false)
	v.SetDefault("REMINDER_LEAD_HOURS", 24)
	v.SetDefault("BUSINESS_OPEN_HOUR", 10)
	v.SetDefault("BUSINESS_CLOSE_HOUR", 19)
	v.SetDefault("SLOT_MINUTES", 30)
	v.SetDefault("TIMEZONE", "Local")
}

// Load reads configuration from v without touching the global.
func Load(v *viper.Viper) (Config, error) {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	// Automatically use environment variables where available.
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := Load(viper.GetViper())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	AppConfig = cfg
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves TIMEZONE, falling back to the host zone.
func (c Config) Location() *time.Location {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, using local time", c.Timezone)
		return time.Local
	}
	return loc
}

func (c Config) BackendTimeout() time.Duration {
	return time.Duration(c.BackendTimeoutSeconds) * time.Second
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c Config) ReminderLead() time.Duration {
	return time.Duration(c.ReminderLeadHours) * time.Hour
}
