package pipeline

import (
	"github.com/shopspring/decimal"

	"ketf/internal"
	"ketf/internal/util"
)

type Allocation struct {
	TotalFunds     decimal.Decimal
	TotalRequested int64
	TotalAllocated int64
	Scale          decimal.Decimal
	// Skipped is set when nothing was requested and no amounts were assigned.
	Skipped bool
}

// Allocate scales every tier cap by min(1, totalFunds/totalRequested) and
// floors the result. Decisions are updated in place. totalFunds is not
// validated; a negative total yields non-positive amounts.
func Allocate(eligible []internal.Decision, totalFunds decimal.Decimal) Allocation {
	out := Allocation{TotalFunds: totalFunds, Scale: decimal.Zero}

	for _, d := range eligible {
		if d.Eligible() {
			out.TotalRequested += d.TierCap
		}
	}
	if out.TotalRequested == 0 {
		out.Skipped = true
		return out
	}

	requested := decimal.NewFromInt(out.TotalRequested)
	scaled := totalFunds.LessThan(requested)
	out.Scale = decimal.NewFromInt(1)
	if scaled {
		out.Scale = totalFunds.Div(requested)
	}

	for i := range eligible {
		if !eligible[i].Eligible() {
			continue
		}
		amount := eligible[i].TierCap
		if scaled {
			// cap*total/requested keeps exact quotients exact before flooring.
			amount = decimal.NewFromInt(eligible[i].TierCap).Mul(totalFunds).Div(requested).Floor().IntPart()
		}
		eligible[i].FinalAmount = util.Int64Ptr(amount)
		out.TotalAllocated += amount
	}

	return out
}
