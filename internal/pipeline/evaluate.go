package pipeline

import (
	"strings"

	"ketf/internal"
)

const (
	ReasonNoMembershipNumber = "No valid membership number."
	ReasonShortMembership    = "Membership duration is less than 6 months."
	ReasonNotActive          = "Not actively involved in KETF initiatives."
	ReasonEducationMissing   = "Education level missing."
	ReasonPrimarySchool      = "Primary school students are not eligible for funding."

	minMembershipMonths = 6
)

// tierCaps maps a lower-cased education level to its funding cap in Ksh.
var tierCaps = map[string]int64{
	"junior secondary": 1000,
	"senior secondary": 10000,
	"tertiary":         15000,
}

// Evaluate applies the membership rules, then the education tier table.
// Every failing membership rule contributes a reason; education is only
// classified once membership passes.
func Evaluate(a internal.NormalizedApplicant) internal.Decision {
	d := internal.Decision{Row: a.Row, Name: a.DisplayName, Parent: a.ParentGuardian}

	var reasons []string
	if !a.HasMembershipNumber {
		reasons = append(reasons, ReasonNoMembershipNumber)
	}
	if a.MembershipDurationMonths < minMembershipMonths {
		reasons = append(reasons, ReasonShortMembership)
	}
	if !a.ActiveInInitiatives {
		reasons = append(reasons, ReasonNotActive)
	}
	if len(reasons) > 0 {
		return reject(d, reasons...)
	}

	if a.EducationLevel == nil || strings.TrimSpace(*a.EducationLevel) == "" {
		return reject(d, ReasonEducationMissing)
	}

	level := strings.ToLower(*a.EducationLevel)
	if level == "primary school" {
		return reject(d, ReasonPrimarySchool)
	}

	// Levels outside the table stay eligible with a zero cap.
	d.Status = internal.DecisionEligible
	d.TierCap = tierCaps[level]
	return d
}

// KnownEducationLevel reports whether level hits the tier table exactly.
func KnownEducationLevel(level string) bool {
	l := strings.ToLower(level)
	_, ok := tierCaps[l]
	return ok || l == "primary school"
}

func reject(d internal.Decision, reasons ...string) internal.Decision {
	d.Status = internal.DecisionRejected
	d.Reasons = reasons
	return d
}

// Partition splits decisions by status, preserving input order.
func Partition(decisions []internal.Decision) (eligible, rejected []internal.Decision) {
	for _, d := range decisions {
		if d.Eligible() {
			eligible = append(eligible, d)
			continue
		}
		rejected = append(rejected, d)
	}
	return eligible, rejected
}
