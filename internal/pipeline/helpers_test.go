package pipeline

import (
	"context"

	"ketf/internal"
)

var formHeaders = []string{
	"Timestamp",
	"Full Name",
	"Name of Parent/Guardian",
	"KETF Membership Number",
	"How long have you been a member of KETF?",
	"Have you participated in KETF initiatives?",
	"Current Education Level",
}

func formRow(name, parent, number, duration, initiatives, education string) []string {
	return []string{"2026-01-10 09:00", name, parent, number, duration, initiatives, education}
}

func applicant(education string) internal.NormalizedApplicant {
	return internal.NormalizedApplicant{
		Row:                      2,
		DisplayName:              "Amina Wanjiru",
		ParentGuardian:           "Grace Wanjiru",
		EducationLevel:           &education,
		MembershipDurationMonths: 6,
		HasMembershipNumber:      true,
		ActiveInInitiatives:      true,
	}
}

func eligibleWithCap(name string, tierCap int64) internal.Decision {
	return internal.Decision{Name: name, Parent: "P", Status: internal.DecisionEligible, TierCap: tierCap}
}

type staticSource struct {
	rows  [][]string
	err   error
	calls int
}

func (s *staticSource) FetchRows(context.Context) ([][]string, error) {
	s.calls++
	return s.rows, s.err
}

type answerPrompt struct {
	answer string
	err    error
}

func (p answerPrompt) AskTotalFunds(context.Context) (string, error) {
	return p.answer, p.err
}

type textSink struct{}

func (textSink) Render(_ context.Context, doc internal.ReportDocument) (internal.Attachment, error) {
	return internal.Attachment{FileName: "report.txt", ContentType: "text/plain", Content: []byte(PlainText(doc))}, nil
}

type recordingChannel struct {
	sent []internal.Envelope
	err  error
}

func (c *recordingChannel) Deliver(_ context.Context, env internal.Envelope) error {
	c.sent = append(c.sent, env)
	return c.err
}

type memoryStore struct {
	runs []internal.RunRecord
}

func (m *memoryStore) InsertRun(run internal.RunRecord) error {
	m.runs = append(m.runs, run)
	return nil
}
