package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ketf/internal"
)

func TestEvaluateScenarioAEligibleSeniorSecondary(t *testing.T) {
	n := NewNormalizer(BuildMapping(formHeaders, DefaultFields()))
	a, _ := n.Normalize(2, formRow("Amina", "Grace", "123", "6-12 months", "Yes", "Senior Secondary"))

	d := Evaluate(a)

	assert.Equal(t, internal.DecisionEligible, d.Status)
	assert.Equal(t, int64(10000), d.TierCap)
	assert.Nil(t, d.FinalAmount)
}

func TestEvaluateScenarioBBlankMembershipNumber(t *testing.T) {
	n := NewNormalizer(BuildMapping(formHeaders, DefaultFields()))
	a, _ := n.Normalize(2, formRow("Amina", "Grace", "  ", "Over 1 year", "Yes", "Tertiary"))

	d := Evaluate(a)

	assert.Equal(t, internal.DecisionRejected, d.Status)
	assert.Equal(t, []string{ReasonNoMembershipNumber}, d.Reasons)
}

func TestEvaluateScenarioCPrimarySchool(t *testing.T) {
	d := Evaluate(applicant("Primary School"))

	assert.Equal(t, internal.DecisionRejected, d.Status)
	assert.Equal(t, []string{ReasonPrimarySchool}, d.Reasons)
}

func TestEvaluateMembershipFailureSkipsEducation(t *testing.T) {
	a := applicant("Primary School")
	a.ActiveInInitiatives = false

	d := Evaluate(a)

	assert.Equal(t, []string{ReasonNotActive}, d.Reasons)
}

func TestEvaluateAccumulatesAllMembershipReasons(t *testing.T) {
	a := applicant("Tertiary")
	a.HasMembershipNumber = false
	a.MembershipDurationMonths = 0
	a.ActiveInInitiatives = false

	d := Evaluate(a)

	assert.Equal(t, []string{ReasonNoMembershipNumber, ReasonShortMembership, ReasonNotActive}, d.Reasons)
	assert.Equal(t, "No valid membership number. Membership duration is less than 6 months. Not actively involved in KETF initiatives.", d.JoinedReasons())
}

func TestEvaluateEducationMissing(t *testing.T) {
	a := applicant("")
	a.EducationLevel = nil
	assert.Equal(t, []string{ReasonEducationMissing}, Evaluate(a).Reasons)

	assert.Equal(t, []string{ReasonEducationMissing}, Evaluate(applicant("   ")).Reasons)
}

func TestEvaluateTiers(t *testing.T) {
	cases := []struct {
		level string
		cap   int64
	}{
		{level: "junior secondary", cap: 1000},
		{level: "Junior Secondary", cap: 1000},
		{level: "SENIOR SECONDARY", cap: 10000},
		{level: "Tertiary", cap: 15000},
		{level: "University", cap: 0},
		{level: " Tertiary ", cap: 0},
		{level: "Teritary", cap: 0},
	}
	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			d := Evaluate(applicant(tc.level))
			assert.Equal(t, internal.DecisionEligible, d.Status)
			assert.Equal(t, tc.cap, d.TierCap)
			assert.Empty(t, d.Reasons)
		})
	}
}

func TestKnownEducationLevel(t *testing.T) {
	assert.True(t, KnownEducationLevel("Primary School"))
	assert.True(t, KnownEducationLevel("tertiary"))
	assert.False(t, KnownEducationLevel("college"))
}

func TestPartitionPreservesOrder(t *testing.T) {
	decisions := []internal.Decision{
		{Name: "a", Status: internal.DecisionEligible},
		{Name: "b", Status: internal.DecisionRejected},
		{Name: "c", Status: internal.DecisionEligible},
	}
	eligible, rejected := Partition(decisions)

	assert.Equal(t, "a", eligible[0].Name)
	assert.Equal(t, "c", eligible[1].Name)
	assert.Equal(t, "b", rejected[0].Name)
}
