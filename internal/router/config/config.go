package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application settings.
type Config struct {
	ServerAddress    string        `mapstructure:"SERVER_ADDRESS"`
	RequestTimeout   time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	AIRequestTimeout time.Duration `mapstructure:"AI_REQUEST_TIMEOUT"`
	LogLevel         string        `mapstructure:"LOG_LEVEL"`

	PostgresConn string `mapstructure:"POSTGRES_CONN"`
	PostgresUser string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPass string `mapstructure:"POSTGRES_PASSWORD"`
	PostgresHost string `mapstructure:"POSTGRES_HOST"`
	PostgresPort string `mapstructure:"POSTGRES_PORT"`
	PostgresDB   string `mapstructure:"POSTGRES_DATABASE"`
	MigrationURL string `mapstructure:"MIGRATION_URL"`

	AIAPIKey      string `mapstructure:"AI_API_KEY"`
	AIBaseURL     string `mapstructure:"AI_BASE_URL"`
	AIModel       string `mapstructure:"AI_MODEL"`
	AIDailyBudget int    `mapstructure:"AI_DAILY_BUDGET"`

	IMAPUser      string        `mapstructure:"IMAP_USER"`
	IMAPPassword  string        `mapstructure:"IMAP_PASSWORD"`
	IMAPHost      string        `mapstructure:"IMAP_HOST"`
	IMAPPort      int           `mapstructure:"IMAP_PORT"`
	IMAPTLS       bool          `mapstructure:"IMAP_TLS"`
	IMAPMailbox   string        `mapstructure:"IMAP_MAILBOX"`
	IMAPTimeout   time.Duration `mapstructure:"IMAP_TIMEOUT"`
	CheckInterval int           `mapstructure:"EMAIL_CHECK_INTERVAL"` // milliseconds

	SMTPHost      string `mapstructure:"SMTP_HOST"`
	SMTPPort      int    `mapstructure:"SMTP_PORT"`
	EmailUser     string `mapstructure:"EMAIL_USER"`
	EmailPassword string `mapstructure:"EMAIL_PASSWORD"`
	EmailFrom     string `mapstructure:"EMAIL_FROM"`

	NATSURL     string `mapstructure:"NATS_URL"`
	NATSSubject string `mapstructure:"NATS_SUBJECT"`
}

var defaults = map[string]any{
	"SERVER_ADDRESS":       ":8080",
	"REQUEST_TIMEOUT":      "5s",
	"AI_REQUEST_TIMEOUT":   "60s",
	"LOG_LEVEL":            "info",
	"POSTGRES_CONN":        "",
	"POSTGRES_USERNAME":    "",
	"POSTGRES_PASSWORD":    "",
	"POSTGRES_HOST":        "",
	"POSTGRES_PORT":        "5432",
	"POSTGRES_DATABASE":    "",
	"MIGRATION_URL":        "file://db/migration",
	"AI_API_KEY":           "",
	"AI_BASE_URL":          "",
	"AI_MODEL":             "gpt-4o-mini",
	"AI_DAILY_BUDGET":      20,
	"IMAP_USER":            "",
	"IMAP_PASSWORD":        "",
	"IMAP_HOST":            "imap.gmail.com",
	"IMAP_PORT":            993,
	"IMAP_TLS":             true,
	"IMAP_MAILBOX":         "INBOX",
	"IMAP_TIMEOUT":         "60s",
	"EMAIL_CHECK_INTERVAL": 300000,
	"SMTP_HOST":            "",
	"SMTP_PORT":            587,
	"EMAIL_USER":           "",
	"EMAIL_PASSWORD":       "",
	"EMAIL_FROM":           "",
	"NATS_URL":             "",
	"NATS_SUBJECT":         "procurement.proposal.status",
}

// LoadConfig reads app.env from path and overlays the process environment.
// A missing app.env is not an error.
func LoadConfig(path string) (cfg Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AutomaticEnv()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
	}
	err = v.Unmarshal(&cfg)
	return
}

// PollInterval returns the mailbox polling interval.
func (c Config) PollInterval() time.Duration {
	if c.CheckInterval <= 0 {
		return 300 * time.Second
	}
	return time.Duration(c.CheckInterval) * time.Millisecond
}
