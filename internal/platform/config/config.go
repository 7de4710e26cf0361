package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Driver names accepted for DOCSTORE_DRIVER.
const (
	DocstorePgsql     = "pgsql"
	DocstoreFirestore = "firestore"
)

// Provider names accepted for IDENTITY_PROVIDER.
const (
	IdentityLocal    = "local"
	IdentityFirebase = "firebase"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Document store
	DatabaseURL        string // PGSQL_URL, used by the pgsql docstore and the local identity provider
	DocstoreDriver     string // pgsql | firestore
	FirestoreProjectID string `mapstructure:"FIRESTORE_PROJECT_ID"`

	// Identity provider
	IdentityProvider string // local | firebase
	FirebaseAPIKey   string `mapstructure:"FIREBASE_API_KEY"`

	// Session tokens
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Date-range filter day truncation happens in this location.
	FilterTimezone string `mapstructure:"FILTER_TIMEZONE"`

	// Ledger event publishing (empty AMQP_URL disables it)
	AMQPURL      string `mapstructure:"AMQP_URL"`
	AMQPExchange string `mapstructure:"AMQP_EXCHANGE"`
	AMQPQueue    string `mapstructure:"AMQP_QUEUE"`

	// Periodic mirror resync (empty disables the scheduler)
	ResyncCron string `mapstructure:"RESYNC_CRON"`

	CORSAllowedOrigins []string
}

// FilterLocation resolves FILTER_TIMEZONE to a *time.Location, falling
// back to the process-local zone when unset or invalid.
func (c *Config) FilterLocation() *time.Location {
	if c.FilterTimezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.FilterTimezone)
	if err != nil {
		log.Printf("Warning: Invalid FILTER_TIMEZONE %q, falling back to local time.\n", c.FilterTimezone)
		return time.Local
	}
	return loc
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("DOCSTORE_DRIVER", DocstorePgsql)
	viper.SetDefault("FIRESTORE_PROJECT_ID", "")
	viper.SetDefault("IDENTITY_PROVIDER", IdentityLocal)
	viper.SetDefault("FIREBASE_API_KEY", "")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "budget-manager")
	viper.SetDefault("FILTER_TIMEZONE", "")
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "budget_manager")
	viper.SetDefault("AMQP_QUEUE", "ledger_events")
	viper.SetDefault("RESYNC_CRON", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.DocstoreDriver = viper.GetString("DOCSTORE_DRIVER")
	cfg.FirestoreProjectID = viper.GetString("FIRESTORE_PROJECT_ID")
	cfg.IdentityProvider = viper.GetString("IDENTITY_PROVIDER")
	cfg.FirebaseAPIKey = viper.GetString("FIREBASE_API_KEY")

	switch cfg.DocstoreDriver {
	case DocstorePgsql:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL not set; the pgsql document store will fail to connect.")
		}
	case DocstoreFirestore:
		if cfg.FirestoreProjectID == "" {
			log.Println("Warning: FIRESTORE_PROJECT_ID not set; the firestore document store will not function.")
		}
	default:
		log.Printf("Warning: Unknown DOCSTORE_DRIVER %q, defaulting to %s.\n", cfg.DocstoreDriver, DocstorePgsql)
		cfg.DocstoreDriver = DocstorePgsql
	}

	switch cfg.IdentityProvider {
	case IdentityLocal:
		if cfg.DatabaseURL == "" {
			log.Println("Warning: PGSQL_URL not set; the local identity provider needs it for account storage.")
		}
	case IdentityFirebase:
		if cfg.FirebaseAPIKey == "" {
			log.Println("Warning: FIREBASE_API_KEY not set. Firebase sign-in will not function.")
		}
	default:
		log.Printf("Warning: Unknown IDENTITY_PROVIDER %q, defaulting to %s.\n", cfg.IdentityProvider, IdentityLocal)
		cfg.IdentityProvider = IdentityLocal
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiryDuration, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiryDuration = time.Hour * 1
		if jwtExpiryStr != "" {
			log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiryDuration.String())
		}
	}
	cfg.JWTExpiryDuration = jwtExpiryDuration

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "budget-manager"
	}

	cfg.FilterTimezone = viper.GetString("FILTER_TIMEZONE")
	cfg.AMQPURL = viper.GetString("AMQP_URL")
	cfg.AMQPExchange = viper.GetString("AMQP_EXCHANGE")
	cfg.AMQPQueue = viper.GetString("AMQP_QUEUE")
	cfg.ResyncCron = viper.GetString("RESYNC_CRON")

	origins := viper.GetString("CORS_ALLOWED_ORIGINS")
	for _, origin := range strings.Split(origins, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, trimmed)
		}
	}

	return cfg, nil
}
