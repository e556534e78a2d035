package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	api "github.com/rpupo63/portfolio-cms-backend/api"
	"github.com/rpupo63/portfolio-cms-backend/auth"
	"github.com/rpupo63/portfolio-cms-backend/config"
	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/logging"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rpupo63/portfolio-cms-backend/storage"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	logFile := logging.Setup(logging.Options{
		Level:      cfg.LogLevel,
		Production: cfg.IsProduction(),
		File:       cfg.LogFile,
	})
	defer logFile.Close()

	log.Info().Str("env", cfg.Env).Str("storage", cfg.StorageBackend).Msg("Initializing app...")

	db, err := database.Open(ctx, cfg.DatabaseURL, database.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		ConnMaxIdleTime: cfg.DBConnMaxIdleTime,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error().Err(err).Msg("Error closing database")
		}
	}()

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Error running migrations")
		}
	} else {
		reportSchemaDrift(db)
	}

	currentDB := database.New(db, cfg.DBQueryTimeout)

	if err := seedAdmin(ctx, cfg, currentDB); err != nil {
		log.Fatal().Err(err).Msg("Error seeding admin user")
	}

	tokens, err := auth.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing token service")
	}

	store, staticDir, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing storage")
	}

	server, err := api.NewServer(cfg, currentDB,
		api.WithTokens(tokens),
		api.WithUploader(storage.NewUploader(store)),
		api.WithStaticDir(staticDir),
		api.WithNotifier(newNotifiers(cfg)),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	// Both senders may fire; the buffer keeps the loser from blocking.
	errChannel := make(chan error, 2)

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(cfg.ShutdownTimeout)
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}

// reportSchemaDrift warns about model columns the live database lacks.
func reportSchemaDrift(db *gorm.DB) {
	report, err := models.CheckSchema(db)
	if err != nil {
		log.Warn().Err(err).Msg("Schema check failed")
		return
	}
	for _, mismatch := range report {
		if len(mismatch.Missing) > 0 {
			log.Warn().
				Str("table", mismatch.Table).
				Str("missing", strings.Join(mismatch.Missing, ",")).
				Msg("Database is missing model columns; run migrations")
		}
	}
}

func seedAdmin(ctx context.Context, cfg *config.Config, db database.Database) error {
	if cfg.SeedAdminEmail == "" || cfg.SeedAdminPassword == "" {
		return nil
	}
	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}
	created, err := db.AdminUserRepo().EnsureAdmin(ctx, cfg.SeedAdminEmail, hash)
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("email", cfg.SeedAdminEmail).Msg("Seeded admin user")
	}
	return nil
}

// newStore returns the configured backend and, for the local backend, the
// directory to serve under /uploads.
func newStore(ctx context.Context, cfg *config.Config) (storage.Store, string, error) {
	switch cfg.StorageBackend {
	case "s3":
		store, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.AWSRegion,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicURL:       cfg.S3PublicURL,
			UsePathStyle:    cfg.S3UsePathStyle,
		})
		return store, "", err
	case "supabase":
		store, err := storage.NewSupabase(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket)
		return store, "", err
	default:
		baseURL := cfg.PublicBaseURL
		if baseURL == "" {
			baseURL = fmt.Sprintf("http://localhost:%d", cfg.Port)
		}
		store, err := storage.NewLocal(cfg.UploadDir, baseURL)
		if err != nil {
			return nil, "", err
		}
		return store, store.Root(), nil
	}
}

func newNotifiers(cfg *config.Config) services.Notifiers {
	var notifiers services.Notifiers
	if cfg.EmailEnabled() {
		sender := services.NewEmailSender(cfg.ResendAPIKey, cfg.ResendFromEmail, cfg.ResendBaseURL)
		notifiers = append(notifiers, services.NewEmailNotifier(sender, cfg.NotifyEmail))
	}
	if cfg.SMSEnabled() {
		notifiers = append(notifiers, services.NewSMSNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber, cfg.NotifySMSTo))
	}
	if len(notifiers) == 0 {
		log.Info().Msg("No booking notifiers configured")
	}
	return notifiers
}
