package imap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ketf/internal/config"
)

func TestNewArchiverRequiresHost(t *testing.T) {
	_, err := NewArchiver(config.Config{IMAPUser: "u", IMAPPassword: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "IMAP_HOST")
}

func TestNewArchiverDefaultsMailbox(t *testing.T) {
	a, err := NewArchiver(config.Config{IMAPHost: "imap.example.test", IMAPPort: 993, IMAPUser: "u", IMAPPassword: "p"})
	require.NoError(t, err)
	assert.Equal(t, "Sent", a.Mailbox())
}
