package pipeline

import (
	"ketf/internal"
	"ketf/internal/util"
)

// FieldSpec binds a logical applicant field to the first header its
// predicate accepts. Headers are passed to Match already folded.
type FieldSpec struct {
	Field internal.Field
	Match func(header string) bool
}

func containsSpec(field internal.Field, probes ...string) FieldSpec {
	return FieldSpec{Field: field, Match: func(h string) bool { return util.ContainsAny(h, probes...) }}
}

// DefaultFields is the fixed header binding of the KETF application form.
func DefaultFields() []FieldSpec {
	return []FieldSpec{
		{Field: internal.FieldName, Match: func(h string) bool {
			return util.ContainsAny(h, "name") && !util.ContainsAny(h, "guardian", "parent", "membership")
		}},
		containsSpec(internal.FieldEducationLevel, "education level"),
		containsSpec(internal.FieldMembershipPeriod, "how long have you been a member"),
		containsSpec(internal.FieldInitiatives, "participated in ketf initiatives", "actively involved", "ketf initiatives"),
		containsSpec(internal.FieldMembershipNumber, "membership number"),
		containsSpec(internal.FieldGuardian, "guardian"),
	}
}

type Mapping struct {
	index map[internal.Field]int
	order []internal.Field
}

// BuildMapping resolves every spec against the header row once per run.
// Unmatched fields map to -1.
func BuildMapping(headers []string, specs []FieldSpec) Mapping {
	folded := make([]string, len(headers))
	for i, h := range headers {
		folded[i] = util.Fold(h)
	}

	m := Mapping{index: make(map[internal.Field]int, len(specs))}
	for _, spec := range specs {
		m.order = append(m.order, spec.Field)
		m.index[spec.Field] = findHeaderIndex(folded, spec.Match)
	}
	return m
}

func findHeaderIndex(headers []string, match func(string) bool) int {
	for i, h := range headers {
		if match(h) {
			return i
		}
	}
	return -1
}

func (m Mapping) Index(field internal.Field) int {
	idx, ok := m.index[field]
	if !ok {
		return -1
	}
	return idx
}

// Missing lists the bound fields no header matched, in field order.
func (m Mapping) Missing() []internal.Field {
	var out []internal.Field
	for _, f := range m.order {
		if m.index[f] < 0 {
			out = append(out, f)
		}
	}
	return out
}

// Cell returns the raw cell for field and whether it exists in row.
func (m Mapping) Cell(row []string, field internal.Field) (string, bool) {
	idx := m.Index(field)
	if idx < 0 || idx >= len(row) {
		return "", false
	}
	return row[idx], true
}
