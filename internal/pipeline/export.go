package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"ketf/internal"
)

const (
	flatTextDelimiter = ","
	flatTextNewline   = "\n"
	FlatTextFileName  = "applications.csv"
)

// ToFlatText joins cells with commas and rows with newlines, header row
// included. Cell values are written verbatim: embedded commas, quotes and
// newlines are not escaped.
func ToFlatText(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, flatTextDelimiter))
	}
	return strings.Join(lines, flatTextNewline)
}

func FlatTextAttachment(rows [][]string) internal.Attachment {
	return internal.Attachment{
		FileName:    FlatTextFileName,
		ContentType: "text/csv",
		Content:     []byte(ToFlatText(rows)),
	}
}

func WriteFlatText(rows [][]string, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(ToFlatText(rows)), 0o644)
}
