package file

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func mkXLSX(t *testing.T, sheet string, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	name := f.GetSheetName(0)
	if sheet != "" {
		require.NoError(t, f.SetSheetName(name, sheet))
		name = sheet
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, f.SetCellValue(name, cell, v))
		}
	}
	buf := bytes.NewBuffer(nil)
	_, err := f.WriteTo(buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestParseXLSX(t *testing.T) {
	blob := mkXLSX(t, "Form Responses 1", [][]any{
		{"Full Name", "KETF Membership Number", "Education Level"},
		{"Amina", 123, "Tertiary"},
		{"Brian", "", "Junior Secondary"},
	})

	rows, err := ParseXLSX(blob, "")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Amina", "123", "Tertiary"}, rows[1])
	assert.Equal(t, "Junior Secondary", rows[2][2])

	_, err = ParseXLSX(blob, "Missing")
	assert.Error(t, err)
}

func TestXLSXSourceReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "applications.xlsx")
	require.NoError(t, os.WriteFile(path, mkXLSX(t, "", [][]any{{"Full Name"}, {"Amina"}}), 0o644))

	rows, err := NewXLSXSource(path, "").FetchRows(context.Background())
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Full Name"}, {"Amina"}}, rows)
}

func TestParseCSV(t *testing.T) {
	rows, err := ParseCSV([]byte("\xef\xbb\xbfFull Name,Education Level\n\"Otieno, Jnr\",Tertiary\nShort\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Full Name", "Education Level"},
		{"Otieno, Jnr", "Tertiary"},
		{"Short"},
	}, rows)
}

func TestCSVSourceMissingFile(t *testing.T) {
	_, err := NewCSVSource(filepath.Join(t.TempDir(), "none.csv")).FetchRows(context.Background())
	assert.Error(t, err)
}

func TestParseHTMLTable(t *testing.T) {
	html := `<html><body>
<table>
  <tr><th>Full Name</th><th>Education Level</th></tr>
  <tr><td> Amina </td><td>Tertiary</td></tr>
  <tr></tr>
</table>
<table><tr><td>ignored</td></tr></table>
</body></html>`

	rows, err := ParseHTMLTable(html)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Full Name", "Education Level"}, {"Amina", "Tertiary"}}, rows)
}
