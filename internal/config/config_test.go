package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SOURCE_KIND", "CSV")
	t.Setenv("CC_EMAILS", "a@ketf.org, ,b@ketf.org")
	t.Setenv("SMTP_PORT", "not-a-number")
	t.Setenv("ATTACH_WORKBOOK", "yes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "csv", cfg.SourceKind)
	assert.Equal(t, []string{"a@ketf.org", "b@ketf.org"}, cfg.CCEmails)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.True(t, cfg.AttachWorkbook)
	assert.Equal(t, "pdf", cfg.ReportFormat)
}

func TestRequire(t *testing.T) {
	var cfg Config
	assert.Error(t, cfg.Require("ADMIN_EMAIL", "  "))
	assert.NoError(t, cfg.Require("ADMIN_EMAIL", "admin@ketf.org"))
}
