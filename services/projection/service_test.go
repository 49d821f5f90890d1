package projection

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quiniela-finance/services/concept"
	"quiniela-finance/services/distribution"
	"quiniela-finance/services/plan"
)

func newTestProjection(t *testing.T, fees distribution.FeeConfig) (*Service, *distribution.Service) {
	t.Helper()

	dist, err := distribution.NewService(fees, plan.NewService(plan.Tier3), zap.NewNop())
	require.NoError(t, err)
	catalog := concept.NewCatalog(dist, concept.Schedule{General: 1, Matches: 104, Rounds: 15, Phases: 1})
	return NewService(dist, catalog), dist
}

func TestGrossAndNetGeneral(t *testing.T) {
	// 50000 entry fee, 10 participants, 10% admin fee.
	svc, _ := newTestProjection(t, distribution.DefaultFeeConfig())

	require.Equal(t, int64(500000), svc.Gross(distribution.CategoryGeneral))
	require.Equal(t, int64(450000), svc.Net(distribution.CategoryGeneral))
}

func TestGrossOfDisabledCategoryIsZero(t *testing.T) {
	svc, _ := newTestProjection(t, distribution.DefaultFeeConfig())

	require.Zero(t, svc.Gross(distribution.CategoryMatch))
	require.Zero(t, svc.Net(distribution.CategoryRound))
}

func TestStageFeeNeedsGlobalSwitch(t *testing.T) {
	fees := distribution.DefaultFeeConfig()
	fees.StageFees[distribution.CategoryMatch] = distribution.StageFee{Active: true, Amount: 1000}

	svc, dist := newTestProjection(t, fees)
	require.Zero(t, svc.Gross(distribution.CategoryMatch))

	fees.StageFeesEnabled = true
	require.NoError(t, dist.Update(fees))

	// 1000 * 104 matches * 10 participants
	require.Equal(t, int64(1040000), svc.Gross(distribution.CategoryMatch))
}

func TestTotalsAcrossActiveCategories(t *testing.T) {
	fees := distribution.DefaultFeeConfig()
	fees.StageFeesEnabled = true
	fees.StageFees[distribution.CategoryMatch] = distribution.StageFee{Active: true, Amount: 1000}

	svc, _ := newTestProjection(t, fees)

	totals := svc.Totals()
	require.Equal(t, int64(1540000), totals.Gross)
	require.Equal(t, int64(1386000), totals.Net)
	require.Equal(t, totals.Gross-totals.Net, totals.AdminFee)
}

func TestPerWinnerPrize(t *testing.T) {
	svc, dist := newTestProjection(t, distribution.DefaultFeeConfig())

	shares, err := dist.Shares(distribution.CategoryGeneral)
	require.NoError(t, err)
	// Shares [45,25,20] over a 450000 net pool at 90% net.
	require.Equal(t, int64(225000), svc.PerWinnerPrize(distribution.CategoryGeneral, shares[0]))
	require.Equal(t, int64(125000), svc.PerWinnerPrize(distribution.CategoryGeneral, shares[1]))
	require.Equal(t, int64(100000), svc.PerWinnerPrize(distribution.CategoryGeneral, shares[2]))

	require.Zero(t, svc.PerWinnerPrize(distribution.CategoryGeneral, shares[5]))
}
