package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	RefreshTokenExpiryDuration time.Duration

	// Ledger knobs
	BalanceCeiling          decimal.Decimal
	SettlementDelay         time.Duration
	RecordSweepTransactions bool

	// External OAuth providers
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and a .env file
// if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "corebank")
	viper.SetDefault("REFRESH_TOKEN_EXPIRY_DURATION", "168h")
	viper.SetDefault("BALANCE_CEILING", "50000")
	viper.SetDefault("SETTLEMENT_DELAY", "10s")
	viper.SetDefault("RECORD_SWEEP_TRANSACTIONS", true)
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiry, err := time.ParseDuration(viper.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		jwtExpiry = time.Hour
		log.Printf("Warning: invalid JWT_EXPIRY_DURATION, defaulting to %s\n", jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	refreshExpiry, err := time.ParseDuration(viper.GetString("REFRESH_TOKEN_EXPIRY_DURATION"))
	if err != nil {
		refreshExpiry = 7 * 24 * time.Hour
		log.Printf("Warning: invalid REFRESH_TOKEN_EXPIRY_DURATION, defaulting to %s\n", refreshExpiry)
	}
	cfg.RefreshTokenExpiryDuration = refreshExpiry

	ceiling, err := decimal.NewFromString(viper.GetString("BALANCE_CEILING"))
	if err != nil || !ceiling.IsPositive() {
		ceiling = decimal.NewFromInt(50000)
		log.Printf("Warning: invalid BALANCE_CEILING, defaulting to %s\n", ceiling)
	}
	cfg.BalanceCeiling = ceiling

	settlementDelay, err := time.ParseDuration(viper.GetString("SETTLEMENT_DELAY"))
	if err != nil || settlementDelay < 0 {
		settlementDelay = 10 * time.Second
		log.Printf("Warning: invalid SETTLEMENT_DELAY, defaulting to %s\n", settlementDelay)
	}
	cfg.SettlementDelay = settlementDelay

	cfg.RecordSweepTransactions = viper.GetBool("RECORD_SWEEP_TRANSACTIONS")

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google OAuth will not function.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	return cfg, nil
}
