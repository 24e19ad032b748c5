package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

// Store drivers accepted by STORE_DRIVER and --store.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	Port                    string
	Env                     string
	FirebaseCredentialsPath string
	PostgresURL             string
	MongoURI                string
	MongoDatabase           string

	StoreDriver   string
	DataDir       string
	Codec         string
	BatchWrites   bool
	FlushInterval time.Duration
	SeedDemo      bool

	JWTSecret string
	TokenTTL  time.Duration
}

// Load reads configuration from the environment, after loading a .env file
// when one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		PostgresURL:             getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "socialmedia"),
		StoreDriver:             getEnv("STORE_DRIVER", DriverFile),
		DataDir:                 getEnv("DATA_DIR", "./data"),
		Codec:                   getEnv("STORE_CODEC", "json"),
		BatchWrites:             getEnvBool("STORE_BATCH_WRITES", false),
		FlushInterval:           getEnvDuration("STORE_FLUSH_INTERVAL", 2*time.Second),
		SeedDemo:                getEnvBool("SEED_DEMO", false),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		TokenTTL:                getEnvDuration("JWT_TTL", 72*time.Hour),
	}
}

// AddFlags registers command-line overrides for the settings most often
// changed per run. Current values become the flag defaults.
func (c *Config) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&c.Port, "port", c.Port, "HTTP listen port")
	flagSet.StringVar(&c.StoreDriver, "store", c.StoreDriver, "record store backend: memory, file, postgres or mongo")
	flagSet.StringVar(&c.DataDir, "data-dir", c.DataDir, "directory for the file backend")
	flagSet.StringVar(&c.Codec, "codec", c.Codec, "snapshot encoding: json or cbor")
	flagSet.BoolVar(&c.BatchWrites, "batch-writes", c.BatchWrites, "flush changes periodically instead of on every write")
	flagSet.DurationVar(&c.FlushInterval, "flush-interval", c.FlushInterval, "flush period with --batch-writes")
	flagSet.BoolVar(&c.SeedDemo, "seed", c.SeedDemo, "install demo users and posts into an empty store")
}

// Validate checks settings that depend on each other.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMemory, DriverFile:
	case DriverPostgres:
		if c.PostgresURL == "" {
			return fmt.Errorf("POSTGRES_CONN_STR environment variable not set")
		}
	case DriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI environment variable not set")
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}
	if c.BatchWrites && c.FlushInterval <= 0 {
		return fmt.Errorf("flush interval must be positive, got %s", c.FlushInterval)
	}
	if c.Env == "production" && c.JWTSecret == "supersecretjwtkey" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return defaultValue
}
