package main

import (
	"context"
	"log"
	"time"

	"clientportal/adapters/postgres"
	"clientportal/adapters/sheets"
	"clientportal/adapters/webhook"
	"clientportal/app"
	"clientportal/internal/config"
	"clientportal/internal/errors"
	"clientportal/internal/migration"
	"clientportal/ports"
	"clientportal/ui"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	if appConfig.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}

	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := initDatabase(appConfig)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer db.Close()

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	orgRepo := postgres.NewOrgRepository(db)
	membershipRepo := postgres.NewMembershipRepository(db)
	grantRepo := postgres.NewModuleGrantRepository(db)
	integrationRepo := postgres.NewIntegrationRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	tokenRepo := postgres.NewTokenRepository(db)
	auditRepo := postgres.NewAuditRepository(db)

	clock := ports.SystemClock{}

	// Sheet source: HTTP fetcher behind an explicit TTL cache
	fetcher := sheets.NewFetcher(appConfig.Sheets.HTTPTimeout)
	source := sheets.NewCache(fetcher, clock, appConfig.Sheets.CacheTTL)

	var mailer ports.Mailer
	if m := webhook.NewMailer(appConfig.Webhook.EmailURL, 10*time.Second); m != nil {
		mailer = m
		log.Println("OTP webhook mailer configured")
	} else {
		log.Println("WEBHOOK_EMAIL_URL not set, OTP codes will not be delivered")
	}

	// Services
	auditService := app.NewAuditService(auditRepo)
	authService := app.NewAuthService(userRepo, tokenRepo, sessionRepo, auditService, mailer, clock, appConfig.Auth.OTPTTL, appConfig.Auth.SessionTTL)
	accessService := app.NewAccessService(sessionRepo, userRepo, membershipRepo, clock)
	portalService := app.NewPortalService(orgRepo, membershipRepo, grantRepo, integrationRepo, auditService)
	resultsService := app.NewResultsService(grantRepo, integrationRepo, source, clock)

	server := ui.NewServer(authService, accessService, portalService, resultsService, ui.Deps{
		Users:       userRepo,
		Orgs:        orgRepo,
		Memberships: membershipRepo,
		Grants:      grantRepo,
		Sessions:    sessionRepo,
	}, appConfig.Server.SecureCookie)

	// Periodic cleanup of expired sessions
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := sessionRepo.DeleteExpired(context.Background(), clock.Now()); err != nil {
				log.Printf("Session cleanup failed: %v", err)
			} else if n > 0 {
				log.Printf("Removed %d expired sessions", n)
			}
		}
	}()

	log.Fatal(server.Start(":" + appConfig.Server.Port))
}
