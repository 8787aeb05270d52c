package pipeline

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"ketf/internal"
)

const (
	ReportTitle      = "KETF Funding Allocation Report"
	SectionAccepted  = "Accepted"
	SectionRejected  = "Rejected"
	totalFundsFormat = "Total Funds Available: Ksh %s"
)

// Assemble lays out the report blocks. Decisions are listed in the order
// given.
func Assemble(eligible, rejected []internal.Decision, totalFunds decimal.Decimal) internal.ReportDocument {
	blocks := make([]internal.Block, 0, len(eligible)+len(rejected)+4)
	blocks = append(blocks,
		internal.Block{Kind: internal.BlockTitle, Text: ReportTitle},
		internal.Block{Kind: internal.BlockParagraph, Text: fmt.Sprintf(totalFundsFormat, totalFunds.String())},
		internal.Block{Kind: internal.BlockSection, Text: SectionAccepted},
	)
	for _, d := range eligible {
		blocks = append(blocks, internal.Block{Kind: internal.BlockParagraph, Text: AcceptedLine(d)})
	}
	blocks = append(blocks, internal.Block{Kind: internal.BlockSection, Text: SectionRejected})
	for _, d := range rejected {
		blocks = append(blocks, internal.Block{Kind: internal.BlockParagraph, Text: RejectedLine(d)})
	}

	return internal.ReportDocument{Title: ReportTitle, GeneratedAt: time.Now().UTC(), Blocks: blocks}
}

func AcceptedLine(d internal.Decision) string {
	return fmt.Sprintf("%s (Parent: %s) - Ksh %d", d.Name, d.Parent, d.Amount())
}

func RejectedLine(d internal.Decision) string {
	return fmt.Sprintf("%s (Parent: %s) - %s", d.Name, d.Parent, d.JoinedReasons())
}

// SectionLines returns the paragraph texts under the named section.
func SectionLines(doc internal.ReportDocument, section string) []string {
	var out []string
	inside := false
	for _, b := range doc.Blocks {
		switch b.Kind {
		case internal.BlockSection, internal.BlockTitle:
			inside = b.Kind == internal.BlockSection && b.Text == section
		case internal.BlockParagraph:
			if inside {
				out = append(out, b.Text)
			}
		}
	}
	return out
}

// PlainText renders the document for terminals and mail bodies.
func PlainText(doc internal.ReportDocument) string {
	var out []byte
	for _, b := range doc.Blocks {
		switch b.Kind {
		case internal.BlockTitle:
			out = fmt.Appendf(out, "%s\n\n", b.Text)
		case internal.BlockSection:
			out = fmt.Appendf(out, "\n%s\n", b.Text)
		default:
			out = fmt.Appendf(out, "%s\n", b.Text)
		}
	}
	return string(out)
}
