package internal

import (
	"errors"
	"strings"
	"time"
)

// ErrCancelled is returned by a funds prompt when the admin declines to
// supply a total.
var ErrCancelled = errors.New("funds input cancelled")

// Source kinds accepted in SOURCE_KIND and --source.
const (
	SourceXLSX   = "xlsx"
	SourceCSV    = "csv"
	SourceHTML   = "html"
	SourceSheets = "sheets"
	SourceWeb    = "web"
)

type Field string

const (
	FieldName             Field = "name"
	FieldEducationLevel   Field = "education_level"
	FieldMembershipPeriod Field = "membership_duration"
	FieldInitiatives      Field = "initiatives"
	FieldMembershipNumber Field = "membership_number"
	FieldGuardian         Field = "guardian"
	FieldTotalFunds       Field = "total_funds"
)

type NormalizedApplicant struct {
	Row                      int
	DisplayName              string
	ParentGuardian           string
	EducationLevel           *string
	MembershipDurationMonths int
	HasMembershipNumber      bool
	ActiveInInitiatives      bool
}

// Diagnostic records a tolerant default applied while reading input.
type Diagnostic struct {
	Row      int    `json:"row"`
	Field    Field  `json:"field"`
	Fallback string `json:"fallback"`
	Raw      string `json:"raw,omitempty"`
}

type DecisionStatus string

const (
	DecisionEligible DecisionStatus = "ELIGIBLE"
	DecisionRejected DecisionStatus = "REJECTED"
)

// Decision is the terminal classification of one applicant. TierCap and
// FinalAmount are meaningful for eligible decisions, Reasons for rejected.
type Decision struct {
	Row         int
	Name        string
	Parent      string
	Status      DecisionStatus
	TierCap     int64
	FinalAmount *int64
	Reasons     []string
}

func (d Decision) Eligible() bool {
	return d.Status == DecisionEligible
}

// Amount returns the allocated amount, zero while unallocated.
func (d Decision) Amount() int64 {
	if d.FinalAmount == nil {
		return 0
	}
	return *d.FinalAmount
}

func (d Decision) JoinedReasons() string {
	return strings.Join(d.Reasons, " ")
}

type BlockKind string

const (
	BlockTitle     BlockKind = "TITLE"
	BlockSection   BlockKind = "SECTION"
	BlockParagraph BlockKind = "PARAGRAPH"
)

type Block struct {
	Kind BlockKind
	Text string
}

type ReportDocument struct {
	Title       string
	GeneratedAt time.Time
	Blocks      []Block
}

type Attachment struct {
	FileName    string
	ContentType string
	Content     []byte
}

type Address struct {
	Name  string
	Email string
}

type Envelope struct {
	From        Address
	To          []Address
	CC          []Address
	BCC         []Address
	Subject     string
	Body        string
	Attachments []Attachment
}

// Recipients lists every address the message must reach, bcc included.
func (e Envelope) Recipients() []string {
	out := make([]string, 0, len(e.To)+len(e.CC)+len(e.BCC))
	for _, group := range [][]Address{e.To, e.CC, e.BCC} {
		for _, a := range group {
			if strings.TrimSpace(a.Email) != "" {
				out = append(out, a.Email)
			}
		}
	}
	return out
}

type RunStatus string

const (
	RunCompleted RunStatus = "completed"
	RunCancelled RunStatus = "cancelled"
)

type RunRecord struct {
	RunID          string
	Status         RunStatus
	Source         string
	TotalFunds     string
	Applicants     int
	Eligible       int
	Rejected       int
	TotalRequested int64
	TotalAllocated int64
	Scale          string
	Diagnostics    int
	StartedAt      time.Time
	FinishedAt     time.Time
}
