package pipeline

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ketf/internal"
)

func TestAllocateScenarioDHalfScale(t *testing.T) {
	eligible := []internal.Decision{eligibleWithCap("a", 1000), eligibleWithCap("b", 10000)}

	alloc := Allocate(eligible, decimal.NewFromInt(5500))

	assert.Equal(t, int64(11000), alloc.TotalRequested)
	assert.Equal(t, "0.5", alloc.Scale.String())
	require.NotNil(t, eligible[0].FinalAmount)
	assert.Equal(t, int64(500), *eligible[0].FinalAmount)
	assert.Equal(t, int64(5000), *eligible[1].FinalAmount)
	assert.Equal(t, int64(5500), alloc.TotalAllocated)
}

func TestAllocateScenarioENothingRequested(t *testing.T) {
	alloc := Allocate(nil, decimal.NewFromInt(5000))
	assert.True(t, alloc.Skipped)
	assert.Zero(t, alloc.TotalAllocated)

	zeroCaps := []internal.Decision{eligibleWithCap("a", 0)}
	alloc = Allocate(zeroCaps, decimal.NewFromInt(5000))
	assert.True(t, alloc.Skipped)
	assert.Nil(t, zeroCaps[0].FinalAmount)
}

func TestAllocateFullFundingGivesTierCap(t *testing.T) {
	eligible := []internal.Decision{eligibleWithCap("a", 1000), eligibleWithCap("b", 15000), eligibleWithCap("c", 0)}

	alloc := Allocate(eligible, decimal.NewFromInt(1_000_000))

	assert.Equal(t, "1", alloc.Scale.String())
	for _, d := range eligible {
		assert.Equal(t, d.TierCap, d.Amount(), d.Name)
	}
	assert.Equal(t, int64(16000), alloc.TotalAllocated)
}

func TestAllocateFloorsFractions(t *testing.T) {
	eligible := []internal.Decision{eligibleWithCap("a", 10000), eligibleWithCap("b", 10000), eligibleWithCap("c", 10000)}

	alloc := Allocate(eligible, decimal.NewFromInt(10000))

	for _, d := range eligible {
		assert.Equal(t, int64(3333), d.Amount())
	}
	assert.Equal(t, int64(9999), alloc.TotalAllocated)
}

func TestAllocateExactQuotientIsNotTruncated(t *testing.T) {
	eligible := []internal.Decision{eligibleWithCap("a", 1000), eligibleWithCap("b", 1000), eligibleWithCap("c", 1000)}

	Allocate(eligible, decimal.NewFromInt(1000))

	assert.Equal(t, int64(333), eligible[0].Amount())

	exact := []internal.Decision{eligibleWithCap("a", 15000), eligibleWithCap("b", 15000), eligibleWithCap("c", 15000)}
	Allocate(exact, decimal.NewFromInt(15000))
	assert.Equal(t, int64(5000), exact[0].Amount())
}

func TestAllocateZeroFunds(t *testing.T) {
	eligible := []internal.Decision{eligibleWithCap("a", 1000)}

	alloc := Allocate(eligible, decimal.Zero)

	require.NotNil(t, eligible[0].FinalAmount)
	assert.Zero(t, *eligible[0].FinalAmount)
	assert.Zero(t, alloc.TotalAllocated)
}

func TestAllocateNegativeFundsIsDegenerate(t *testing.T) {
	eligible := []internal.Decision{eligibleWithCap("a", 1000), eligibleWithCap("b", 10000)}

	alloc := Allocate(eligible, decimal.NewFromInt(-1100))

	assert.Equal(t, "-0.1", alloc.Scale.String())
	assert.Equal(t, int64(-100), eligible[0].Amount())
	assert.Equal(t, int64(-1000), eligible[1].Amount())
}

func TestAllocateIgnoresRejected(t *testing.T) {
	mixed := []internal.Decision{eligibleWithCap("a", 1000), {Name: "r", Status: internal.DecisionRejected, TierCap: 5000}}

	alloc := Allocate(mixed, decimal.NewFromInt(500))

	assert.Equal(t, int64(1000), alloc.TotalRequested)
	assert.Nil(t, mixed[1].FinalAmount)
}

func TestAllocateProperties(t *testing.T) {
	caps := []int64{1000, 10000, 15000, 0}
	funds := []int64{0, 1, 999, 5500, 12345, 26000, 1_000_000}

	for n := 1; n <= 12; n++ {
		for _, total := range funds {
			t.Run(fmt.Sprintf("n=%d/funds=%d", n, total), func(t *testing.T) {
				eligible := make([]internal.Decision, n)
				var requested int64
				for i := range eligible {
					eligible[i] = eligibleWithCap(fmt.Sprintf("a%d", i), caps[(i*7+n)%len(caps)])
					requested += eligible[i].TierCap
				}

				alloc := Allocate(eligible, decimal.NewFromInt(total))

				var sum int64
				for _, d := range eligible {
					assert.GreaterOrEqual(t, d.Amount(), int64(0))
					assert.LessOrEqual(t, d.Amount(), d.TierCap)
					if total >= requested {
						assert.Equal(t, d.TierCap, d.Amount())
					}
					sum += d.Amount()
				}
				assert.LessOrEqual(t, sum, total)
				assert.Equal(t, sum, alloc.TotalAllocated)
			})
		}
	}
}
