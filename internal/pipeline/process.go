package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ketf/internal"
	"ketf/internal/util"
)

// DataSource supplies the application grid; row 0 holds the headers.
type DataSource interface {
	FetchRows(ctx context.Context) ([][]string, error)
}

// FundsPrompt supplies the raw funds total or internal.ErrCancelled.
type FundsPrompt interface {
	AskTotalFunds(ctx context.Context) (string, error)
}

type DocumentSink interface {
	Render(ctx context.Context, doc internal.ReportDocument) (internal.Attachment, error)
}

// OutcomeSink lays out the structured decisions of a run, for attachments
// that need more than the report text.
type OutcomeSink interface {
	RenderOutcome(ctx context.Context, out Outcome) (internal.Attachment, error)
}

type DeliveryChannel interface {
	Deliver(ctx context.Context, env internal.Envelope) error
}

type RunStore interface {
	InsertRun(run internal.RunRecord) error
}

type Recipients struct {
	From    internal.Address
	To      []internal.Address
	CC      []internal.Address
	BCC     []internal.Address
	Subject string
}

type Dependencies struct {
	SourceName string
	Source     DataSource
	Prompt     FundsPrompt
	Renderers  []DocumentSink
	// Workbook is optional.
	Workbook   OutcomeSink
	// Delivery may be nil for dry runs.
	Delivery   DeliveryChannel
	Store      RunStore
	Recipients Recipients
	Fields     []FieldSpec
	Logger     *zap.Logger
}

type ProcessingService struct {
	deps Dependencies
	log  *zap.Logger
}

func NewProcessingService(deps Dependencies) *ProcessingService {
	if deps.Fields == nil {
		deps.Fields = DefaultFields()
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &ProcessingService{deps: deps, log: log}
}

// Outcome is the in-memory result of deciding one grid.
type Outcome struct {
	Rows          int
	MissingFields []internal.Field
	Eligible      []internal.Decision
	Rejected      []internal.Decision
	Allocation    Allocation
	Report        internal.ReportDocument
	Diagnostics   []internal.Diagnostic
}

type Result struct {
	RunID       string
	Status      internal.RunStatus
	TotalFunds  decimal.Decimal
	Outcome     Outcome
	Export      internal.Attachment
	Attachments []internal.Attachment
	Delivered   bool
}

// Decide runs normalize, evaluate, allocate and assemble over rows. It is
// deterministic for a given grid and total.
func (s *ProcessingService) Decide(rows [][]string, totalFunds decimal.Decimal) Outcome {
	var headers []string
	var data [][]string
	if len(rows) > 0 {
		headers, data = rows[0], rows[1:]
	}

	mapping := BuildMapping(headers, s.deps.Fields)
	out := Outcome{Rows: len(data), MissingFields: mapping.Missing()}
	for _, f := range out.MissingFields {
		s.log.Warn("column not found, defaults apply to every row", zap.String("field", string(f)))
	}

	normalizer := NewNormalizer(mapping)
	decisions := make([]internal.Decision, 0, len(data))
	for i, row := range data {
		// Sheet row numbers: header is row 1.
		applicant, diags := normalizer.Normalize(i+2, row)
		out.Diagnostics = append(out.Diagnostics, diags...)
		for _, d := range diags {
			s.log.Debug("fallback applied",
				zap.Int("row", d.Row), zap.String("field", string(d.Field)),
				zap.String("fallback", d.Fallback), zap.String("raw", d.Raw))
		}

		decision := Evaluate(applicant)
		if decision.Eligible() && applicant.EducationLevel != nil && !KnownEducationLevel(*applicant.EducationLevel) {
			s.log.Warn("unrecognized education level, eligible with zero cap",
				zap.Int("row", applicant.Row), zap.String("education_level", *applicant.EducationLevel))
		}
		decisions = append(decisions, decision)
	}

	out.Eligible, out.Rejected = Partition(decisions)
	out.Allocation = Allocate(out.Eligible, totalFunds)
	out.Report = Assemble(out.Eligible, out.Rejected, totalFunds)
	return out
}

// Run executes one complete batch. A cancelled prompt is not an error: the
// result carries RunCancelled and nothing is produced or delivered.
func (s *ProcessingService) Run(ctx context.Context) (Result, error) {
	start := time.Now().UTC()
	res := Result{RunID: uuid.NewString()}
	log := s.log.With(zap.String("run_id", res.RunID))

	raw, err := s.deps.Prompt.AskTotalFunds(ctx)
	if errors.Is(err, internal.ErrCancelled) {
		log.Info("funds input cancelled, nothing processed")
		res.Status = internal.RunCancelled
		s.record(log, internal.RunRecord{RunID: res.RunID, Status: res.Status, Source: s.deps.SourceName, StartedAt: start, FinishedAt: time.Now().UTC()})
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("read funds total: %w", err)
	}

	funds, fundsDiag := ParseFunds(raw)
	res.TotalFunds = funds
	if fundsDiag != nil {
		log.Warn("funds total is not numeric, using zero", zap.String("raw", raw))
	}

	rows, err := s.deps.Source.FetchRows(ctx)
	if err != nil {
		return res, fmt.Errorf("fetch applications: %w", err)
	}

	res.Outcome = s.Decide(rows, funds)
	if fundsDiag != nil {
		res.Outcome.Diagnostics = append([]internal.Diagnostic{*fundsDiag}, res.Outcome.Diagnostics...)
	}

	res.Export = FlatTextAttachment(rows)
	for _, r := range s.deps.Renderers {
		att, err := r.Render(ctx, res.Outcome.Report)
		if err != nil {
			return res, fmt.Errorf("render report: %w", err)
		}
		res.Attachments = append(res.Attachments, att)
	}
	if s.deps.Workbook != nil {
		att, err := s.deps.Workbook.RenderOutcome(ctx, res.Outcome)
		if err != nil {
			return res, fmt.Errorf("render workbook: %w", err)
		}
		res.Attachments = append(res.Attachments, att)
	}
	res.Attachments = append(res.Attachments, res.Export)

	if s.deps.Delivery != nil {
		if err := s.deps.Delivery.Deliver(ctx, s.envelope(res)); err != nil {
			return res, fmt.Errorf("deliver report: %w", err)
		}
		res.Delivered = true
	}

	res.Status = internal.RunCompleted
	s.record(log, internal.RunRecord{
		RunID:          res.RunID,
		Status:         res.Status,
		Source:         s.deps.SourceName,
		TotalFunds:     funds.String(),
		Applicants:     res.Outcome.Rows,
		Eligible:       len(res.Outcome.Eligible),
		Rejected:       len(res.Outcome.Rejected),
		TotalRequested: res.Outcome.Allocation.TotalRequested,
		TotalAllocated: res.Outcome.Allocation.TotalAllocated,
		Scale:          res.Outcome.Allocation.Scale.String(),
		Diagnostics:    len(res.Outcome.Diagnostics),
		StartedAt:      start,
		FinishedAt:     time.Now().UTC(),
	})

	log.Info("run complete",
		zap.Int("applicants", res.Outcome.Rows),
		zap.Int("eligible", len(res.Outcome.Eligible)),
		zap.Int("rejected", len(res.Outcome.Rejected)),
		zap.Int64("allocated", res.Outcome.Allocation.TotalAllocated),
		zap.Bool("delivered", res.Delivered))
	return res, nil
}

// ParseFunds coerces the prompt answer; non-numeric input becomes zero and is
// reported as a diagnostic.
func ParseFunds(raw string) (decimal.Decimal, *internal.Diagnostic) {
	funds, err := util.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, &internal.Diagnostic{Field: internal.FieldTotalFunds, Fallback: "0", Raw: raw}
	}
	return funds, nil
}

func (s *ProcessingService) envelope(res Result) internal.Envelope {
	r := s.deps.Recipients
	subject := r.Subject
	if strings.TrimSpace(subject) == "" {
		subject = ReportTitle
	}
	return internal.Envelope{
		From:        r.From,
		To:          r.To,
		CC:          r.CC,
		BCC:         r.BCC,
		Subject:     subject,
		Body:        summaryBody(res),
		Attachments: res.Attachments,
	}
}

func summaryBody(res Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "KETF funding run %s\n\n", res.RunID)
	fmt.Fprintf(&b, "Total funds available: Ksh %s\n", res.TotalFunds.String())
	fmt.Fprintf(&b, "Applications: %d\n", res.Outcome.Rows)
	fmt.Fprintf(&b, "Accepted: %d\n", len(res.Outcome.Eligible))
	fmt.Fprintf(&b, "Rejected: %d\n", len(res.Outcome.Rejected))
	fmt.Fprintf(&b, "Allocated: Ksh %d\n\n", res.Outcome.Allocation.TotalAllocated)
	b.WriteString("The full report and the applications export are attached.\n")
	return b.String()
}

func (s *ProcessingService) record(log *zap.Logger, run internal.RunRecord) {
	if s.deps.Store == nil {
		return
	}
	if err := s.deps.Store.InsertRun(run); err != nil {
		log.Warn("failed to record run", zap.Error(err))
	}
}
