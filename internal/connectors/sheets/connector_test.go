package sheets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ketf/internal/config"
)

func TestToGrid(t *testing.T) {
	grid := toGrid([][]any{
		{"Full Name", "KETF Membership Number"},
		{"Amina", 1023.0},
		{"Brian", nil},
		{},
	})

	assert.Equal(t, [][]string{
		{"Full Name", "KETF Membership Number"},
		{"Amina", "1023"},
		{"Brian", ""},
		{},
	}, grid)
}

func TestNewConnectorRequiresSpreadsheet(t *testing.T) {
	_, err := NewConnector(context.Background(), config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHEETS_SPREADSHEET_ID")
}
