package main

import (
	"context"
	"database/sql"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/lunarhq/authgate"
	"github.com/lunarhq/authgate/middleware/jwtware"
	"github.com/lunarhq/authgate/social"
	"github.com/lunarhq/authgate/social/providers/google"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	_ = godotenv.Load()

	cfg, err := authgate.LoadConfigFromEnv()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := openDatabase(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	repos := authgate.NewRepositoryManager(db)
	repos.MustValidate()

	logger := authgate.DefaultLogger

	tokenService := authgate.NewTokenService(
		[]byte(cfg.SigningKey),
		cfg.SessionTTL,
		cfg.Issuer,
		logger,
	)

	notifier := buildNotifier(cfg, logger)

	users := repos.Users()

	auther := authgate.NewAuthenticator(users, tokenService).WithLogger(logger)

	registerHandler := authgate.NewRegisterUserHandler(users, notifier, cfg.VerifyBaseURL)
	verifyHandler := authgate.NewAccountVerificationHandler(users, tokenService)
	resetInitHandler := authgate.NewInitializePasswordResetHandler(users, notifier, cfg.ResetBaseURL)
	resetVerifyHandler := authgate.NewVerifyPasswordResetHandler(users)
	resetFinalizeHandler := authgate.NewFinalizePasswordResetHandler(users)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.ClientOrigin,
		AllowCredentials: true,
	}))

	protected := jwtware.New(jwtware.Config{
		TokenLookup: "cookie:" + cfg.SessionCookieName,
		TokenValidator: jwtware.ValidatorFunc(func(raw string) (jwtware.AuthClaims, error) {
			claims, err := tokenService.Validate(raw)
			if err != nil {
				return nil, err
			}
			return claims, nil
		}),
		ContextEnricher: func(ctx context.Context, claims jwtware.AuthClaims) context.Context {
			if ac, ok := claims.(authgate.AuthClaims); ok {
				return authgate.WithClaimsContext(ctx, ac)
			}
			return ctx
		},
	})

	authgate.RegisterAuthRoutes(app, protected,
		authgate.WithAuthenticator(auther),
		authgate.WithFlowHandlers(
			registerHandler,
			verifyHandler,
			resetInitHandler,
			resetVerifyHandler,
			resetFinalizeHandler,
		),
		authgate.WithControllerLogger(logger),
		authgate.WithSessionCookie(cfg.SessionCookieName, cfg.SessionTTL),
		authgate.WithControllerDebug(cfg.Debug),
	)

	if cfg.GoogleConfigured() {
		socialAuth := social.NewSocialAuthenticator(users, tokenService,
			social.WithProvider(google.New(google.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				CallbackURL:  cfg.GoogleCallbackURL,
			})),
			social.WithLogger(logger),
		)

		socialController := social.NewHTTPController(socialAuth, social.HTTPConfig{
			CookieName: cfg.SessionCookieName,
			CookieTTL:  cfg.SessionTTL,
			Logger:     logger,
		})
		socialController.RegisterRoutes(app)
	}

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func openDatabase(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())

	if err := db.Ping(); err != nil {
		return nil, err
	}

	if _, err := db.NewCreateTable().
		Model((*authgate.User)(nil)).
		IfNotExists().
		Exec(context.Background()); err != nil {
		return nil, err
	}

	return db, nil
}

func buildNotifier(cfg *authgate.Config, logger authgate.Logger) authgate.Notifier {
	if !cfg.SMTPConfigured() {
		logger.Warn("no SMTP host configured, email delivery is log-only")
		return authgate.NewLogNotifier(logger)
	}

	return authgate.NewSMTPNotifier(authgate.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	}).WithLogger(logger)
}
