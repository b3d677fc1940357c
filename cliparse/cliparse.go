package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Store backend names
const (
	StoreJSON     = "json"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Port          int
	StoreType     string
	DataFile      string
	EmailFile     string
	DatabaseURL   string
	AdminKey      string
	QuestionsFile string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	MailFrom     string
	NotifyTo     string
	NotifyAsync  bool
}

// MailConfigured reports whether enough settings exist to send email
func (c Config) MailConfigured() bool {
	return c.SMTPHost != "" && c.MailFrom != ""
}

// ParseFlags validates flags and fills the rest from the environment
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile string

	fs := flag.NewFlagSet("quickly-survey", flag.ContinueOnError)

	fs.StringVar(&envFile, "env-file", ".env", "Optional dotenv file to load")

	// Network and storage (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.StoreType, "t", "", "Store type (json, sqlite or postgres)")
	fs.StringVar(&cfg.DataFile, "data", "", "Responses JSON file (json store)")
	fs.StringVar(&cfg.EmailFile, "emails", "", "Email records JSON file (json store)")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL (sqlite or postgres store)")
	fs.StringVar(&cfg.QuestionsFile, "questions", "", "Questionnaire YAML used for server-side scoring")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminKey, "admin-key", "", "Admin key for reporting endpoints (prefer env)")
	fs.StringVar(&cfg.SMTPPassword, "smtp-password", "", "SMTP password (prefer env)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3000 // default
		}
	}

	if cfg.StoreType == "" {
		cfg.StoreType = os.Getenv("STORE_TYPE")
		if cfg.StoreType == "" {
			cfg.StoreType = StoreJSON
		}
	}
	switch cfg.StoreType {
	case StoreJSON, StoreSQLite, StorePostgres:
	default:
		return Config{}, fmt.Errorf("unknown store type %q (use json, sqlite or postgres)", cfg.StoreType)
	}

	cfg.DataFile = firstNonEmpty(cfg.DataFile, os.Getenv("DATA_FILE"), "survey_responses.json")
	cfg.EmailFile = firstNonEmpty(cfg.EmailFile, os.Getenv("EMAIL_FILE"), "email_records.json")
	cfg.QuestionsFile = firstNonEmpty(cfg.QuestionsFile, os.Getenv("QUESTIONS_FILE"))

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		switch cfg.StoreType {
		case StoreSQLite:
			cfg.DatabaseURL = "file:survey.db"
		case StorePostgres:
			return Config{}, errors.New("database URL required for postgres store (use -d or DATABASE_URL env)")
		}
	}

	cfg.AdminKey = firstNonEmpty(cfg.AdminKey, os.Getenv("ADMIN_KEY"))

	// Mail is optional; missing settings only disable notifications
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPUsername = os.Getenv("SMTP_USERNAME")
	cfg.SMTPPassword = firstNonEmpty(cfg.SMTPPassword, os.Getenv("SMTP_PASSWORD"))
	cfg.MailFrom = os.Getenv("MAIL_FROM")
	cfg.NotifyTo = os.Getenv("NOTIFY_TO")

	cfg.SMTPPort = 587
	if portStr := os.Getenv("SMTP_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, errors.New("invalid SMTP_PORT env variable")
		}
		cfg.SMTPPort = port
	}

	if v := os.Getenv("NOTIFY_ASYNC"); v != "" {
		async, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, errors.New("invalid NOTIFY_ASYNC env variable")
		}
		cfg.NotifyAsync = async
	}

	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
