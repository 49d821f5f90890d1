package plan

import "fmt"

// Tier is a subscription level. Each tier caps how many participants a league
// administrator may configure. The cap gates configuration writes only; it
// never changes ledger behaviour.
type Tier string

const (
	TierFree Tier = "free"
	Tier2    Tier = "tier2"
	Tier3    Tier = "tier3"
)

var tierOrder = []Tier{TierFree, Tier2, Tier3}

var participantLimits = map[Tier]int{
	TierFree: 10,
	Tier2:    50,
	Tier3:    500,
}

// PlanLimitExceededError reports a participant count beyond the tier's cap.
type PlanLimitExceededError struct {
	Count int
	Tier  Tier
	Limit int
}

func (e PlanLimitExceededError) Error() string {
	return fmt.Sprintf("plan %s allows up to %d participants, got %d", e.Tier, e.Limit, e.Count)
}

// ParseTier validates a configured tier name.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierFree, Tier2, Tier3:
		return Tier(s), nil
	default:
		return "", fmt.Errorf("unknown plan tier %q", s)
	}
}

// Limit returns the participant cap for a tier.
func Limit(t Tier) int {
	return participantLimits[t]
}

// RequiredPlan returns the smallest tier that accommodates the participant count.
func RequiredPlan(count int) (Tier, error) {
	for _, t := range tierOrder {
		if count <= participantLimits[t] {
			return t, nil
		}
	}
	top := tierOrder[len(tierOrder)-1]
	return "", PlanLimitExceededError{Count: count, Tier: top, Limit: participantLimits[top]}
}

// Service holds the administrator's active tier.
type Service struct {
	tier Tier
}

func NewService(tier Tier) *Service {
	return &Service{tier: tier}
}

func (s *Service) Tier() Tier {
	return s.tier
}

func (s *Service) Limit() int {
	return participantLimits[s.tier]
}

func (s *Service) IsLimitExceeded(count int) bool {
	return count > s.Limit()
}

// Authorize rejects a participant count beyond the active tier's cap.
func (s *Service) Authorize(count int) error {
	if s.IsLimitExceeded(count) {
		return PlanLimitExceededError{Count: count, Tier: s.tier, Limit: s.Limit()}
	}
	return nil
}
