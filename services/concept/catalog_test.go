package concept

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"quiniela-finance/services/distribution"
	"quiniela-finance/services/plan"
)

func newTestCatalog(t *testing.T, fees distribution.FeeConfig) (*Catalog, *distribution.Service) {
	t.Helper()

	svc, err := distribution.NewService(fees, plan.NewService(plan.Tier3), zap.NewNop())
	require.NoError(t, err)
	return NewCatalog(svc, Schedule{General: 1, Matches: 104, Rounds: 15, Phases: 1}), svc
}

func TestCatalogDefaultConfig(t *testing.T) {
	catalog, _ := newTestCatalog(t, distribution.DefaultFeeConfig())

	concepts := catalog.Concepts()
	require.Len(t, concepts, 4)

	active := catalog.Active()
	require.Len(t, active, 1)
	require.Equal(t, ConceptGeneral, active[0].ID)
	require.Equal(t, int64(50000), active[0].UnitAmount)
	require.Equal(t, 1, active[0].OccurrenceMultiplier)
}

func TestCatalogStageGating(t *testing.T) {
	fees := distribution.DefaultFeeConfig()
	fees.StageFees[distribution.CategoryMatch] = distribution.StageFee{Active: true, Amount: 2000}

	catalog, svc := newTestCatalog(t, fees)

	// Stage flag on the concept alone is not enough while the global
	// stage-fees switch is off.
	match, ok := catalog.Get(ConceptMatch)
	require.True(t, ok)
	require.False(t, match.Active)

	fees.StageFeesEnabled = true
	require.NoError(t, svc.Update(fees))

	match, ok = catalog.Get(ConceptMatch)
	require.True(t, ok)
	require.True(t, match.Active)
	require.Equal(t, 104, match.OccurrenceMultiplier)
	require.Len(t, catalog.Active(), 2)
}

func TestCatalogReflectsConfigChanges(t *testing.T) {
	catalog, svc := newTestCatalog(t, distribution.DefaultFeeConfig())

	fees := svc.Fees()
	fees.BaseFeeEnabled = false
	require.NoError(t, svc.Update(fees))

	require.Empty(t, catalog.Active())
}

func TestCatalogGetUnknown(t *testing.T) {
	catalog, _ := newTestCatalog(t, distribution.DefaultFeeConfig())

	_, ok := catalog.Get("premio")
	require.False(t, ok)
}
