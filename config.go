package authgate

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the process configuration, loaded from the environment.
type Config struct {
	Port         string `env:"AUTHGATE_PORT" envDefault:"8080"`
	ClientOrigin string `env:"AUTHGATE_CLIENT_ORIGIN" envDefault:"http://localhost:3000"`
	Debug        bool   `env:"AUTHGATE_DEBUG" envDefault:"false"`

	DatabaseDSN string `env:"AUTHGATE_DATABASE_DSN" envDefault:"file:authgate.db?cache=shared&mode=rwc"`

	SigningKey        string        `env:"AUTHGATE_SIGNING_KEY,required"`
	Issuer            string        `env:"AUTHGATE_ISSUER" envDefault:"authgate"`
	SessionCookieName string        `env:"AUTHGATE_SESSION_COOKIE" envDefault:"authgate_session"`
	SessionTTL        time.Duration `env:"AUTHGATE_SESSION_TTL" envDefault:"168h"`

	VerifyBaseURL string `env:"AUTHGATE_VERIFY_URL" envDefault:"http://localhost:3000/account-verify"`
	ResetBaseURL  string `env:"AUTHGATE_RESET_URL" envDefault:"http://localhost:3000/reset-password"`

	SMTPHost     string `env:"AUTHGATE_SMTP_HOST"`
	SMTPPort     int    `env:"AUTHGATE_SMTP_PORT" envDefault:"587"`
	SMTPUsername string `env:"AUTHGATE_SMTP_USERNAME"`
	SMTPPassword string `env:"AUTHGATE_SMTP_PASSWORD"`
	MailFrom     string `env:"AUTHGATE_MAIL_FROM" envDefault:"no-reply@localhost"`
	MailFromName string `env:"AUTHGATE_MAIL_FROM_NAME" envDefault:"Authgate"`

	GoogleClientID     string `env:"AUTHGATE_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"AUTHGATE_GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string `env:"AUTHGATE_GOOGLE_CALLBACK_URL"`
}

// LoadConfigFromEnv parses configuration from environment variables.
func LoadConfigFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SMTPConfigured reports whether a mail host was provided.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != ""
}

// GoogleConfigured reports whether Google OAuth credentials were provided.
func (c *Config) GoogleConfigured() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != "" && c.GoogleCallbackURL != ""
}
