package config // package config loads application configuration from environment variables

import (
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.
type Config struct {
	Env            string // application environment (e.g. "dev", "prod")
	Port           string // HTTP port to listen on
	DBUser         string // database username
	DBPass         string // database password (optional)
	DBHost         string // database host address
	DBPort         string // database port number
	DBName         string // database name
	DBMigrate      bool   // create missing tables at startup
	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time‑to‑live in minutes
	RefreshTTLDays int    // refresh token time‑to‑live in days
	BcryptCost     int    // bcrypt cost for password hashing

	Booking BookingConfig
	Queue   QueueConfig
}

// BookingConfig tunes the booking engine.
type BookingConfig struct {
	EditWindow    time.Duration // how long after creation a booking may be cancelled or edited
	SweepInterval time.Duration // period of the availability sweep
	SweepEnabled  bool          // run the sweeper in this process
}

// QueueConfig locates the RabbitMQ broker.  An empty URL disables event
// publishing and the booking log consumer.
type QueueConfig struct {
	URL     string
	Queue   string
	LogPath string
}

// Load reads a .env file when present and then the environment.  Required
// variables are enforced by must() and missing values stop the program.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("config: reading .env: %v", err)
	}
	return Config{
		Env:            must("APP_ENV"),
		Port:           must("APP_PORT"),
		DBUser:         must("DB_USER"),
		DBPass:         os.Getenv("DB_PASS"), // empty allowed
		DBHost:         must("DB_HOST"),
		DBPort:         must("DB_PORT"),
		DBName:         must("DB_NAME"),
		DBMigrate:      envBool("DB_MIGRATE", true),
		JWTSecret:      must("JWT_SECRET"),
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"),
		BcryptCost:     mustInt("BCRYPT_COST"),
		Booking:        LoadBookingConfig(),
		Queue:          LoadQueueConfig(),
	}
}

// LoadBookingConfig reads the booking engine settings with their defaults.
func LoadBookingConfig() BookingConfig {
	c := BookingConfig{
		EditWindow:    envDur("BOOKING_EDIT_WINDOW", 24*time.Hour),
		SweepInterval: envDur("SWEEP_INTERVAL", 24*time.Hour),
		SweepEnabled:  envBool("SWEEP_ENABLED", true),
	}
	if c.EditWindow <= 0 {
		c.EditWindow = 24 * time.Hour
	}
	if c.SweepInterval < time.Minute {
		c.SweepInterval = time.Minute
	}
	return c
}

// LoadQueueConfig accepts RABBITMQ_URL or the older AMQP_URL.
func LoadQueueConfig() QueueConfig {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		url = os.Getenv("AMQP_URL")
	}
	return QueueConfig{
		URL:     url,
		Queue:   envStr("BOOKING_EVENTS_QUEUE", "booking.events"),
		LogPath: envStr("BOOKING_LOG_PATH", "logs/booking.log"),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}
