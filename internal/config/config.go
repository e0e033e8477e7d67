package config

import (
	"os"      // For environment variables
	"strconv" // For string to int conversion
	"time"    // For cache TTL

	"github.com/joho/godotenv" // For loading .env files
)

const (
	defaultAppPort         = "8080"                                       // Port used when APP_PORT is unset
	defaultDBDriver        = "mysql"                                      // Driver used when DB_DRIVER is unset
	defaultNotificationURL = "http://localhost:8081/api/v1/notifications" // Notification service base URL
	defaultCreditSweepCron = "0 0 0 1 * *"                                // Midnight on the first day of every month
	defaultUsersCacheTTL   = 60 * time.Second                             // User list cache lifetime
)

// Config holds the application configuration
type Config struct {
	AppPort         string        // Application port
	DBDriver        string        // mysql, postgres or memory
	DBUser          string        // Database user
	DBPassword      string        // Database password
	DBHost          string        // Database host
	DBPort          string        // Database port
	DBName          string        // Database name
	JWTSecret       string        // JWT secret key
	RedisAddr       string        // Redis server address, empty disables the cache
	RedisPass       string        // Redis password
	RedisDB         int           // Redis database number
	IsProd          bool          // Is production environment
	NotificationURL string        // Notification service base URL, empty disables the client
	CreditSweepCron string        // Cron spec (with seconds) of the monthly credit sweep
	UsersCacheTTL   time.Duration // User list cache lifetime
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	ttl := defaultUsersCacheTTL
	if secs, err := strconv.Atoi(os.Getenv("USERS_CACHE_TTL")); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}
	notificationURL, ok := os.LookupEnv("NOTIFICATION_URL")
	if !ok {
		notificationURL = defaultNotificationURL // Set but empty means disabled
	}
	return &Config{
		AppPort:         getenv("APP_PORT", defaultAppPort),                   // Application port
		DBDriver:        getenv("DB_DRIVER", defaultDBDriver),                 // Database driver
		DBUser:          os.Getenv("DB_USER"),                                 // Database user
		DBPassword:      os.Getenv("DB_PASSWORD"),                             // Database password
		DBHost:          os.Getenv("DB_HOST"),                                 // Database host
		DBPort:          os.Getenv("DB_PORT"),                                 // Database port
		DBName:          os.Getenv("DB_NAME"),                                 // Database name
		JWTSecret:       os.Getenv("JWT_SECRET"),                              // JWT secret key
		RedisAddr:       os.Getenv("REDIS_ADDR"),                              // Redis server address
		RedisPass:       os.Getenv("REDIS_PASS"),                              // Redis password
		RedisDB:         redisDB,                                              // Redis database number
		IsProd:          os.Getenv("IS_PROD") == "true",                       // Is production environment
		NotificationURL: notificationURL,                                      // Notification service
		CreditSweepCron: getenv("CREDIT_SWEEP_CRON", defaultCreditSweepCron), // Sweep schedule
		UsersCacheTTL:   ttl,                                                  // User list cache lifetime
	}
}

// MySQLDSN builds the Data Source Name for the MySQL driver
func (c *Config) MySQLDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true"
}

// PostgresDSN builds the Data Source Name for the Postgres driver
func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost + " user=" + c.DBUser + " password=" + c.DBPassword +
		" dbname=" + c.DBName + " port=" + c.DBPort + " sslmode=disable"
}

// getenv returns the value of key or fallback when it is unset or empty
func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
