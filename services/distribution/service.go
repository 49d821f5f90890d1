package distribution

import (
	"sync"

	"go.uber.org/zap"

	"quiniela-finance/services/plan"
)

// Service is the single authoritative write path over the league finance
// aggregate. Reads and writes go through one configuration-wide lock so a
// reader never observes a half-updated category set.
type Service struct {
	mu    sync.RWMutex
	cfg   *Config
	plans *plan.Service
	log   *zap.Logger
}

func NewService(fees FeeConfig, plans *plan.Service, log *zap.Logger) (*Service, error) {
	if err := plans.Authorize(fees.ParticipantsCount); err != nil {
		return nil, err
	}
	cfg, err := NewConfig(fees)
	if err != nil {
		return nil, err
	}
	return &Service{cfg: cfg, plans: plans, log: log}, nil
}

// Fees returns a copy of the current fee parameters.
func (s *Service) Fees() FeeConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Fees()
}

// Shares returns the prize-share table of one category.
func (s *Service) Shares(cat Category) ([MaxWinners]PrizeShare, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Shares(cat)
}

// Distribution returns every category's share table under a single lock
// acquisition, so the four tables are mutually consistent.
func (s *Service) Distribution() map[Category][MaxWinners]PrizeShare {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[Category][MaxWinners]PrizeShare, len(Categories()))
	for _, cat := range Categories() {
		shares, _ := s.cfg.Shares(cat)
		out[cat] = shares
	}
	return out
}

// SetWinnersCount changes one category's winners count and recomputes only
// that category.
func (s *Service) SetWinnersCount(cat Category, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cfg.setWinnersCount(cat, count); err != nil {
		return err
	}
	s.log.Info("winners count updated",
		zap.String("category", string(cat)),
		zap.Int("winners_count", count),
	)
	return nil
}

// SetAdminFeePercent changes the global admin fee and recomputes all four
// categories atomically.
func (s *Service) SetAdminFeePercent(percent int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cfg.setAdminFeePercent(percent); err != nil {
		return err
	}
	s.log.Info("admin fee updated", zap.Int("admin_fee_percent", percent))
	return nil
}

// SetParticipantsCount is gated by the active plan tier.
func (s *Service) SetParticipantsCount(count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if count < MinParticipants {
		return ValidationError{Field: "participantsCount", Message: "must be at least 2"}
	}
	if err := s.plans.Authorize(count); err != nil {
		return err
	}
	s.cfg.fees.ParticipantsCount = count
	return nil
}

// Update replaces the whole fee parameter set in one transaction: validate,
// plan-gate, rebuild the aggregate, then swap.
func (s *Service) Update(fees FeeConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.plans.Authorize(fees.ParticipantsCount); err != nil {
		return err
	}
	cfg, err := NewConfig(fees)
	if err != nil {
		return err
	}
	s.cfg = cfg
	s.log.Info("fee config replaced",
		zap.Int("admin_fee_percent", fees.AdminFeePercent),
		zap.Int("participants_count", fees.ParticipantsCount),
	)
	return nil
}
