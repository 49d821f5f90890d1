package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequiredPlan(t *testing.T) {
	cases := []struct {
		count int
		want  Tier
	}{
		{2, TierFree},
		{10, TierFree},
		{11, Tier2},
		{50, Tier2},
		{51, Tier3},
		{500, Tier3},
	}
	for _, tc := range cases {
		got, err := RequiredPlan(tc.count)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "count=%d", tc.count)
	}
}

func TestRequiredPlanBeyondTopTier(t *testing.T) {
	_, err := RequiredPlan(501)

	var limitErr PlanLimitExceededError
	require.True(t, errors.As(err, &limitErr))
	require.Equal(t, Tier3, limitErr.Tier)
	require.Equal(t, 500, limitErr.Limit)
}

func TestAuthorize(t *testing.T) {
	svc := NewService(Tier2)

	require.NoError(t, svc.Authorize(50))
	require.False(t, svc.IsLimitExceeded(50))

	err := svc.Authorize(51)
	var limitErr PlanLimitExceededError
	require.True(t, errors.As(err, &limitErr))
	require.Equal(t, 51, limitErr.Count)
	require.True(t, svc.IsLimitExceeded(51))
}

func TestParseTier(t *testing.T) {
	for _, name := range []string{"free", "tier2", "tier3"} {
		tier, err := ParseTier(name)
		require.NoError(t, err)
		require.Equal(t, Tier(name), tier)
	}

	_, err := ParseTier("enterprise")
	require.Error(t, err)
}
