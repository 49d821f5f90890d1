package distribution

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quiniela-finance/services/plan"
)

func newTestService(t *testing.T, fees FeeConfig) *Service {
	t.Helper()

	svc, err := NewService(fees, plan.NewService(plan.Tier3), zap.NewNop())
	require.NoError(t, err)
	return svc
}

func activeSum(shares [MaxWinners]PrizeShare) int {
	sum := 0
	for _, s := range shares {
		if s.Active {
			sum += s.Percentage
		}
	}
	return sum
}

func TestComputeDistributionInvariant(t *testing.T) {
	for winners := 1; winners <= MaxWinners; winners++ {
		for fee := 0; fee <= MaxAdminFeePercent; fee += AdminFeeStep {
			shares, err := ComputeDistribution(winners, fee)
			require.NoError(t, err)
			require.Equal(t, 100, activeSum(shares)+fee,
				"winners=%d adminFee=%d", winners, fee)

			for i, s := range shares {
				require.Equal(t, i+1, s.Position)
				require.Equal(t, i < winners, s.Active)
				if !s.Active {
					require.Zero(t, s.Percentage)
				}
			}
		}
	}
}

func TestComputeDistributionDeterministic(t *testing.T) {
	first, err := ComputeDistribution(7, 15)
	require.NoError(t, err)
	second, err := ComputeDistribution(7, 15)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestComputeDistributionThreeWinnersTenPercentFee(t *testing.T) {
	shares, err := ComputeDistribution(3, 10)
	require.NoError(t, err)

	require.Equal(t, 45, shares[0].Percentage)
	require.Equal(t, 25, shares[1].Percentage)
	require.Equal(t, 20, shares[2].Percentage)
	require.False(t, shares[3].Active)
}

func TestComputeDistributionSingleWinner(t *testing.T) {
	shares, err := ComputeDistribution(1, 20)
	require.NoError(t, err)

	require.Equal(t, 80, shares[0].Percentage)
	require.True(t, shares[0].Active)
	require.Equal(t, 80, activeSum(shares))
}

func TestComputeDistributionMaxAdminFee(t *testing.T) {
	shares, err := ComputeDistribution(10, MaxAdminFeePercent)
	require.NoError(t, err)
	require.Equal(t, 60, activeSum(shares))

	for i := 0; i < 10; i++ {
		require.True(t, shares[i].Active)
		require.Positive(t, shares[i].Percentage)
	}
}

func TestComputeDistributionValidation(t *testing.T) {
	cases := []struct {
		name    string
		winners int
		fee     int
	}{
		{"zero winners", 0, 10},
		{"too many winners", 11, 10},
		{"negative fee", 3, -5},
		{"fee above cap", 3, 45},
		{"fee not multiple of step", 3, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ComputeDistribution(tc.winners, tc.fee)
			var ve ValidationError
			require.ErrorAs(t, err, &ve)
		})
	}
}

func TestSetAdminFeeRecomputesAllCategories(t *testing.T) {
	svc := newTestService(t, DefaultFeeConfig())

	require.NoError(t, svc.SetAdminFeePercent(20))

	for _, cat := range Categories() {
		shares, err := svc.Shares(cat)
		require.NoError(t, err)
		require.Equal(t, 80, activeSum(shares), "category %s", cat)
	}
	require.Equal(t, 20, svc.Fees().AdminFeePercent)
}

func TestSetWinnersCountRecomputesOnlyThatCategory(t *testing.T) {
	svc := newTestService(t, DefaultFeeConfig())
	before := svc.Distribution()

	require.NoError(t, svc.SetWinnersCount(CategoryMatch, 5))

	after := svc.Distribution()
	require.NotEqual(t, before[CategoryMatch], after[CategoryMatch])
	require.True(t, after[CategoryMatch][4].Active)
	require.False(t, after[CategoryMatch][5].Active)
	for _, cat := range []Category{CategoryGeneral, CategoryRound, CategoryPhase} {
		require.Equal(t, before[cat], after[cat], "category %s", cat)
	}
}

func TestDistributionIsMutuallyConsistent(t *testing.T) {
	svc := newTestService(t, DefaultFeeConfig())
	require.NoError(t, svc.SetAdminFeePercent(30))

	dist := svc.Distribution()
	for cat, shares := range dist {
		require.Equal(t, 70, activeSum(shares), "category %s", cat)
	}
}

func TestNewConfigValidation(t *testing.T) {
	t.Run("participants below minimum", func(t *testing.T) {
		fees := DefaultFeeConfig()
		fees.ParticipantsCount = 1
		_, err := NewConfig(fees)
		var ve ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, "participantsCount", ve.Field)
	})

	t.Run("enabled base fee without amount", func(t *testing.T) {
		fees := DefaultFeeConfig()
		fees.BaseFeeAmount = 0
		_, err := NewConfig(fees)
		var ve ValidationError
		require.ErrorAs(t, err, &ve)
		require.Equal(t, "baseFeeAmount", ve.Field)
	})

	t.Run("active stage fee without amount", func(t *testing.T) {
		fees := DefaultFeeConfig()
		fees.StageFees[CategoryMatch] = StageFee{Active: true, Amount: 0}
		_, err := NewConfig(fees)
		var ve ValidationError
		require.ErrorAs(t, err, &ve)
	})
}

func TestSetParticipantsCountPlanGate(t *testing.T) {
	svc, err := NewService(DefaultFeeConfig(), plan.NewService(plan.TierFree), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, svc.SetParticipantsCount(10))

	err = svc.SetParticipantsCount(11)
	var limitErr plan.PlanLimitExceededError
	require.True(t, errors.As(err, &limitErr))
	require.Equal(t, 10, limitErr.Limit)

	// The rejected write must not leak into the aggregate.
	require.Equal(t, 10, svc.Fees().ParticipantsCount)
}

func TestUpdateReplacesWholeConfig(t *testing.T) {
	svc := newTestService(t, DefaultFeeConfig())

	fees := DefaultFeeConfig()
	fees.AdminFeePercent = 25
	fees.WinnersCount[CategoryGeneral] = 1
	require.NoError(t, svc.Update(fees))

	shares, err := svc.Shares(CategoryGeneral)
	require.NoError(t, err)
	require.Equal(t, 75, shares[0].Percentage)
	require.False(t, shares[1].Active)
}
