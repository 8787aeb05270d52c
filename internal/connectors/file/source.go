package file

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"
)

// XLSXSource reads one worksheet of a workbook export of the form responses.
type XLSXSource struct {
	path  string
	sheet string
}

func NewXLSXSource(path, sheet string) *XLSXSource {
	return &XLSXSource{path: path, sheet: sheet}
}

func (s *XLSXSource) FetchRows(_ context.Context) ([][]string, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return ParseXLSX(blob, s.sheet)
}

// ParseXLSX returns the cell text of sheet, or of the first sheet when sheet
// is empty.
func ParseXLSX(content []byte, sheet string) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if strings.TrimSpace(sheet) == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) FetchRows(_ context.Context) ([][]string, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return ParseCSV(blob)
}

// ParseCSV accepts ragged rows; short rows are interpreted field by field.
func ParseCSV(content []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rows, nil
}

// HTMLTableSource reads the first table of a saved responses page.
type HTMLTableSource struct {
	path string
}

func NewHTMLTableSource(path string) *HTMLTableSource {
	return &HTMLTableSource{path: path}
}

func (s *HTMLTableSource) FetchRows(_ context.Context) ([][]string, error) {
	blob, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return ParseHTMLTable(string(blob))
}

func ParseHTMLTable(html string) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var rows [][]string
	doc.Find("table").First().Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := []string{}
		row.Find("th,td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		if len(cells) == 0 {
			return
		}
		rows = append(rows, cells)
	})
	return rows, nil
}
