package pipeline

import (
	"strconv"
	"strings"

	"ketf/internal"
	"ketf/internal/util"
)

const unknownName = "Unknown"

type Normalizer struct {
	mapping Mapping
}

func NewNormalizer(mapping Mapping) *Normalizer {
	return &Normalizer{mapping: mapping}
}

// Normalize maps one data row into a typed applicant. It never fails; every
// default it applies is reported as a Diagnostic.
func (n *Normalizer) Normalize(rowNo int, row []string) (internal.NormalizedApplicant, []internal.Diagnostic) {
	var diags []internal.Diagnostic
	fallback := func(field internal.Field, value, raw string) {
		diags = append(diags, internal.Diagnostic{Row: rowNo, Field: field, Fallback: value, Raw: raw})
	}

	out := internal.NormalizedApplicant{Row: rowNo}

	name, _ := n.mapping.Cell(row, internal.FieldName)
	out.DisplayName = strings.TrimSpace(name)
	if out.DisplayName == "" {
		out.DisplayName = unknownName
		fallback(internal.FieldName, unknownName, name)
	}

	parent, _ := n.mapping.Cell(row, internal.FieldGuardian)
	out.ParentGuardian = strings.TrimSpace(parent)
	if out.ParentGuardian == "" {
		out.ParentGuardian = unknownName
		fallback(internal.FieldGuardian, unknownName, parent)
	}

	if level, ok := n.mapping.Cell(row, internal.FieldEducationLevel); ok && strings.TrimSpace(level) != "" {
		out.EducationLevel = util.StringPtr(level)
	} else {
		fallback(internal.FieldEducationLevel, "absent", level)
	}

	duration, ok := n.mapping.Cell(row, internal.FieldMembershipPeriod)
	months, recognized := membershipMonths(duration)
	out.MembershipDurationMonths = months
	if !ok || !recognized {
		fallback(internal.FieldMembershipPeriod, strconv.Itoa(months), duration)
	}

	number, ok := n.mapping.Cell(row, internal.FieldMembershipNumber)
	out.HasMembershipNumber = ok && strings.TrimSpace(number) != ""
	if !out.HasMembershipNumber {
		fallback(internal.FieldMembershipNumber, "false", number)
	}

	initiative, ok := n.mapping.Cell(row, internal.FieldInitiatives)
	out.ActiveInInitiatives = ok && strings.ToLower(strings.TrimSpace(initiative)) == "yes"
	if !ok {
		fallback(internal.FieldInitiatives, "false", "")
	}

	return out, diags
}

// membershipMonths buckets the free-text duration answer.
func membershipMonths(answer string) (int, bool) {
	folded := util.Fold(answer)
	switch {
	case strings.Contains(folded, "less than 6 months"):
		return 0, true
	case strings.Contains(folded, "6-12 months"):
		return 6, true
	case strings.Contains(folded, "over 1 year"):
		return 12, true
	default:
		return 0, false
	}
}
