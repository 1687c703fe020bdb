package config

import (
	"strings" // String manipulation
	"time"    // Durations for session TTL

	"github.com/joho/godotenv" // For loading .env files
	"github.com/spf13/viper"   // Environment binding with defaults
)

// Config holds the application configuration
type Config struct {
	AppPort       string        // Application port
	IsProd        bool          // Is production environment
	LogLevel      string        // Logrus level name
	DBDriver      string        // Database driver: sqlite or mysql
	DBPath        string        // SQLite database file
	DBUser        string        // Database user
	DBPassword    string        // Database password
	DBHost        string        // Database host
	DBPort        string        // Database port
	DBName        string        // Database name
	SessionSecret string        // Secret used to sign session cookies
	SessionTTL    time.Duration // Session lifetime
	RedisAddr     string        // Redis server address, empty selects the in-memory session store
	RedisPass     string        // Redis password
	RedisDB       int           // Redis database number
	UploadDir     string        // Directory holding uploaded logo files
	WebDir        string        // Directory holding the HTML pages
	CORSOrigins   []string      // Allowed CORS origins
	LoginRate     float64       // Login attempts per second per client
	LoginBurst    int           // Login burst size per client
}

// defaults apply to every key missing from the environment
var defaults = map[string]any{
	"APP_PORT":       "5000",
	"IS_PROD":        false,
	"LOG_LEVEL":      "info",
	"DB_DRIVER":      "sqlite",
	"DB_PATH":        "products.db",
	"DB_HOST":        "127.0.0.1",
	"DB_PORT":        "3306",
	"DB_NAME":        "catalog",
	"SESSION_SECRET": "change-me-in-production",
	"SESSION_TTL":    "24h",
	"REDIS_DB":       0,
	"UPLOAD_DIR":     "static/uploads",
	"WEB_DIR":        "templates",
	"CORS_ORIGINS":   "*",
	"LOGIN_RATE":     1.0,
	"LOGIN_BURST":    5,
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// FromViper builds a Config from an already populated viper instance
func FromViper(v *viper.Viper) *Config {
	ttl := v.GetDuration("SESSION_TTL")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	var origins []string
	for _, o := range strings.Split(v.GetString("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return &Config{
		AppPort:       v.GetString("APP_PORT"),                   // Application port
		IsProd:        v.GetBool("IS_PROD"),                      // Is production environment
		LogLevel:      v.GetString("LOG_LEVEL"),                  // Log level
		DBDriver:      strings.ToLower(v.GetString("DB_DRIVER")), // Database driver
		DBPath:        v.GetString("DB_PATH"),                    // SQLite file
		DBUser:        v.GetString("DB_USER"),                    // Database user
		DBPassword:    v.GetString("DB_PASSWORD"),                // Database password
		DBHost:        v.GetString("DB_HOST"),                    // Database host
		DBPort:        v.GetString("DB_PORT"),                    // Database port
		DBName:        v.GetString("DB_NAME"),                    // Database name
		SessionSecret: v.GetString("SESSION_SECRET"),             // Session signing secret
		SessionTTL:    ttl,                                       // Session lifetime
		RedisAddr:     v.GetString("REDIS_ADDR"),                 // Redis server address
		RedisPass:     v.GetString("REDIS_PASS"),                 // Redis password
		RedisDB:       v.GetInt("REDIS_DB"),                      // Redis database number
		UploadDir:     v.GetString("UPLOAD_DIR"),                 // Logo upload directory
		WebDir:        v.GetString("WEB_DIR"),                    // HTML pages directory
		CORSOrigins:   origins,                                   // Allowed origins
		LoginRate:     v.GetFloat64("LOGIN_RATE"),                // Login rate
		LoginBurst:    v.GetInt("LOGIN_BURST"),                   // Login burst
	}
}

// MySQLDSN builds the Data Source Name for the MySQL driver
func (c *Config) MySQLDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=true"
}
