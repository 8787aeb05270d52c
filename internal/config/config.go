package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	DBPath    string
	OutputDir string

	SourceKind         string
	SourcePath         string
	SourceSheet        string
	SourceURL          string
	SourceTimeoutMs    int
	SourceRateLimitRPS int

	SheetsSpreadsheetID string
	SheetsRange         string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURI  string
	GoogleRefreshToken string

	DeliveryProvider string
	MailFrom         string
	AdminEmail       string
	CCEmails         []string
	BCCEmails        []string
	MailSubject      string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string

	IMAPHost        string
	IMAPPort        int
	IMAPSecure      bool
	IMAPUser        string
	IMAPPassword    string
	IMAPSentMailbox string

	ReportFormat   string
	AttachWorkbook bool
	FundsTotal     string

	LogLevel  string
	LogFormat string
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBPath:    getEnv("DB_PATH", filepath.Join(cwd, "data", "ketf.db")),
		OutputDir: getEnv("OUTPUT_DIR", filepath.Join(cwd, "out")),

		SourceKind:         strings.ToLower(getEnv("SOURCE_KIND", "xlsx")),
		SourcePath:         getEnv("SOURCE_PATH", filepath.Join(cwd, "data", "applications.xlsx")),
		SourceSheet:        getEnv("SOURCE_SHEET", ""),
		SourceURL:          getEnv("SOURCE_URL", ""),
		SourceTimeoutMs:    getEnvInt("SOURCE_TIMEOUT_MS", 30000),
		SourceRateLimitRPS: getEnvInt("SOURCE_RATE_LIMIT_RPS", 2),

		SheetsSpreadsheetID: getEnv("SHEETS_SPREADSHEET_ID", ""),
		SheetsRange:         getEnv("SHEETS_RANGE", "Form Responses 1"),

		GoogleClientID:     getEnv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURI:  getEnv("GOOGLE_REDIRECT_URI", "https://developers.google.com/oauthplayground"),
		GoogleRefreshToken: getEnv("GOOGLE_REFRESH_TOKEN", ""),

		DeliveryProvider: strings.ToLower(getEnv("DELIVERY_PROVIDER", "outbox")),
		MailFrom:         getEnv("MAIL_FROM", ""),
		AdminEmail:       getEnv("ADMIN_EMAIL", ""),
		CCEmails:         getEnvList("CC_EMAILS"),
		BCCEmails:        getEnvList("BCC_EMAILS"),
		MailSubject:      getEnv("MAIL_SUBJECT", "KETF Funding Allocation Report"),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),

		IMAPHost:        getEnv("IMAP_HOST", ""),
		IMAPPort:        getEnvInt("IMAP_PORT", 993),
		IMAPSecure:      getEnvBool("IMAP_SECURE", true),
		IMAPUser:        getEnv("IMAP_USER", ""),
		IMAPPassword:    getEnv("IMAP_PASSWORD", ""),
		IMAPSentMailbox: getEnv("IMAP_SENT_MAILBOX", "Sent"),

		ReportFormat:   strings.ToLower(getEnv("REPORT_FORMAT", "pdf")),
		AttachWorkbook: getEnvBool("ATTACH_WORKBOOK", false),
		FundsTotal:     getEnv("FUNDS_TOTAL", ""),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping blanks.
func getEnvList(key string) []string {
	value := getEnv(key, "")
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
