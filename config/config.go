package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
)

// DevJWTSecret is only ever used outside production when no secret is configured.
const DevJWTSecret = "dev-only-insecure-jwt-secret-do-not-deploy"

// MinJWTSecretLength is the minimum HS256 key length accepted in production.
const MinJWTSecretLength = 32

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	DevJWTSecret,
	"your-secret-key",
	"change-me",
	"secret",
}

type Config struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Port int    `env:"PORT" envDefault:"8080"`

	DatabaseURL       string        `env:"DATABASE_URL,required"`
	DBMaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	DBConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME" envDefault:"5m"`
	DBQueryTimeout    time.Duration `env:"DB_QUERY_TIMEOUT" envDefault:"5s"`
	AutoMigrate       bool          `env:"AUTO_MIGRATE" envDefault:"true"`

	JWTSecret             string        `env:"JWT_SECRET"`
	JWTSecretSSMParameter string        `env:"JWT_SECRET_SSM_PARAMETER"`
	JWTTTL                time.Duration `env:"JWT_TTL" envDefault:"24h"`
	AWSRegion             string        `env:"AWS_REGION" envDefault:"us-east-1"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"local"`
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	PublicBaseURL  string `env:"PUBLIC_BASE_URL"`

	S3Bucket          string `env:"S3_BUCKET"`
	S3Endpoint        string `env:"S3_ENDPOINT"`
	S3AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3PublicURL       string `env:"S3_PUBLIC_URL"`
	S3UsePathStyle    bool   `env:"S3_USE_PATH_STYLE" envDefault:"false"`

	SupabaseURL        string `env:"SUPABASE_URL"`
	SupabaseServiceKey string `env:"SUPABASE_SERVICE_KEY"`
	SupabaseBucket     string `env:"SUPABASE_BUCKET" envDefault:"uploads"`

	AcceptedOrigins []string `env:"ACCEPTED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE"`

	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	SeedAdminEmail    string `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword string `env:"SEED_ADMIN_PASSWORD"`

	ResendAPIKey    string `env:"RESEND_API_KEY"`
	ResendFromEmail string `env:"RESEND_FROM_EMAIL"`
	ResendBaseURL   string `env:"RESEND_BASE_URL" envDefault:"https://api.resend.com"`
	NotifyEmail     string `env:"NOTIFY_EMAIL"`

	TwilioAccountSID string `env:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken  string `env:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber string `env:"TWILIO_FROM_NUMBER"`
	NotifySMSTo      string `env:"NOTIFY_SMS_TO"`
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func (c Config) Address() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

func (c Config) EmailEnabled() bool {
	return c.ResendAPIKey != "" && c.ResendFromEmail != "" && c.NotifyEmail != ""
}

func (c Config) SMSEnabled() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioFromNumber != "" && c.NotifySMSTo != ""
}

// New returns the process environment as a map.
func New() map[string]string {
	environ := os.Environ()
	envAsMap := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry != "" {
			key, value := split(entry)
			envAsMap[key] = value
		}
	}
	return envAsMap
}

// assumes entry is not the empty string
func split(entry string) (key, value string) {
	parts := strings.SplitN(entry, "=", 2)
	if len(parts) < 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

// Load parses the process environment, resolving the JWT secret from SSM
// when a parameter name is configured.
func Load(ctx context.Context) (*Config, error) {
	return LoadFrom(ctx, New(), nil)
}

// LoadFrom parses the given environment. params may be nil, in which case an
// SSM client is built from the default AWS configuration on demand.
func LoadFrom(ctx context.Context, environ map[string]string, params ParameterGetter) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.JWTSecretSSMParameter != "" {
		if params == nil {
			client, err := NewSSMClient(ctx, cfg.AWSRegion)
			if err != nil {
				return nil, err
			}
			params = client
		}
		secret, err := ResolveParameter(ctx, params, cfg.JWTSecretSSMParameter)
		if err != nil {
			return nil, err
		}
		cfg.JWTSecret = secret
	}

	if err := cfg.validateJWTSecret(); err != nil {
		return nil, err
	}

	switch cfg.StorageBackend {
	case "local", "s3", "supabase":
	default:
		return nil, fmt.Errorf("STORAGE_BACKEND must be one of local, s3, supabase; got %q", cfg.StorageBackend)
	}

	return cfg, nil
}

func (c *Config) validateJWTSecret() error {
	if !c.IsProduction() {
		if c.JWTSecret == "" {
			log.Warn().Msg("JWT_SECRET is not set; using the development fallback secret")
			c.JWTSecret = DevJWTSecret
		}
		return nil
	}

	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	for _, weak := range knownWeakSecrets {
		if c.JWTSecret == weak {
			return fmt.Errorf("JWT_SECRET is a known default value and must not be used in production")
		}
	}
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d bytes long in production, got %d bytes; "+
			"generate one with: openssl rand -base64 48", MinJWTSecretLength, len(c.JWTSecret))
	}
	if !hasMinimumEntropy(c.JWTSecret) {
		log.Warn().Msg("JWT_SECRET has low character diversity; consider generating a random secret")
	}
	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes.
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
