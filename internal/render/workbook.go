package render

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"ketf/internal"
	"ketf/internal/pipeline"
)

const (
	WorkbookFileName  = "report.xlsx"
	DecisionsFileName = "decisions.xlsx"
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Workbook renders reports and decision tables as spreadsheets.
type Workbook struct{}

func NewWorkbook() *Workbook {
	return &Workbook{}
}

// Render writes the report blocks one per row on a single sheet.
func (w *Workbook) Render(ctx context.Context, doc internal.ReportDocument) (internal.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return internal.Attachment{}, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Report"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return internal.Attachment{}, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return internal.Attachment{}, err
	}

	for i, b := range doc.Blocks {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		_ = f.SetCellValue(sheet, cell, b.Text)
		if b.Kind != internal.BlockParagraph {
			_ = f.SetCellStyle(sheet, cell, cell, bold)
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 90)

	return attachment(f, WorkbookFileName)
}

// RenderOutcome writes a Summary sheet and one row per decision on the
// Accepted and Rejected sheets.
func (w *Workbook) RenderOutcome(ctx context.Context, out pipeline.Outcome) (internal.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return internal.Attachment{}, err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), "Summary"); err != nil {
		return internal.Attachment{}, err
	}
	for _, name := range []string{"Accepted", "Rejected"} {
		if _, err := f.NewSheet(name); err != nil {
			return internal.Attachment{}, err
		}
	}

	alloc := out.Allocation
	summary := [][]any{
		{"total_funds", alloc.TotalFunds.String()},
		{"applications", out.Rows},
		{"accepted", len(out.Eligible)},
		{"rejected", len(out.Rejected)},
		{"total_requested", alloc.TotalRequested},
		{"total_allocated", alloc.TotalAllocated},
		{"scale", alloc.Scale.String()},
		{"diagnostics", len(out.Diagnostics)},
	}
	for i, row := range summary {
		setRow(f, "Summary", i+1, row...)
	}

	setRow(f, "Accepted", 1, "row", "name", "parent", "tier_cap", "final_amount")
	for i, d := range out.Eligible {
		setRow(f, "Accepted", i+2, d.Row, d.Name, d.Parent, d.TierCap, derefAmount(d.FinalAmount))
	}

	setRow(f, "Rejected", 1, "row", "name", "parent", "reasons")
	for i, d := range out.Rejected {
		setRow(f, "Rejected", i+2, d.Row, d.Name, d.Parent, d.JoinedReasons())
	}

	return attachment(f, DecisionsFileName)
}

func setRow(f *excelize.File, sheet string, r int, values ...any) {
	for c, v := range values {
		cell, _ := excelize.CoordinatesToCellName(c+1, r)
		_ = f.SetCellValue(sheet, cell, v)
	}
}

func derefAmount(v *int64) any {
	if v == nil {
		return ""
	}
	return *v
}

func attachment(f *excelize.File, name string) (internal.Attachment, error) {
	buf, err := f.WriteToBuffer()
	if err != nil {
		return internal.Attachment{}, fmt.Errorf("write workbook: %w", err)
	}
	return internal.Attachment{FileName: name, ContentType: xlsxContentType, Content: buf.Bytes()}, nil
}
