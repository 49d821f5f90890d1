package projection

import (
	"quiniela-finance/services/concept"
	"quiniela-finance/services/distribution"
)

// Service estimates tournament revenue from the fee configuration and the
// concept catalog. Pure reads, no state.
type Service struct {
	fees    *distribution.Service
	catalog *concept.Catalog
}

func NewService(fees *distribution.Service, catalog *concept.Catalog) *Service {
	return &Service{fees: fees, catalog: catalog}
}

// Totals aggregates revenue over the active categories.
type Totals struct {
	Gross    int64 `json:"gross"`
	Net      int64 `json:"net"`
	AdminFee int64 `json:"admin_fee"`
}

// CategoryProjection is the per-category revenue estimate.
type CategoryProjection struct {
	Category distribution.Category `json:"category"`
	Gross    int64                 `json:"gross"`
	Net      int64                 `json:"net"`
	AdminFee int64                 `json:"admin_fee"`
}

// Gross is unitAmount * occurrenceMultiplier * participantsCount, or 0 when
// the category is not currently chargeable.
func (s *Service) Gross(cat distribution.Category) int64 {
	c, ok := s.catalog.ByCategory(cat)
	if !ok || !c.Active {
		return 0
	}
	participants := int64(s.fees.Fees().ParticipantsCount)
	return c.UnitAmount * int64(c.OccurrenceMultiplier) * participants
}

// Net is the gross after the admin fee.
func (s *Service) Net(cat distribution.Category) int64 {
	gross := s.Gross(cat)
	netPercent := int64(100 - s.fees.Fees().AdminFeePercent)
	return gross * netPercent / 100
}

// Totals sums gross, net and admin fee over every active category.
func (s *Service) Totals() Totals {
	var t Totals
	for _, cat := range distribution.Categories() {
		gross := s.Gross(cat)
		net := s.Net(cat)
		t.Gross += gross
		t.Net += net
		t.AdminFee += gross - net
	}
	return t
}

// Projection lists the per-category estimates in catalog order.
func (s *Service) Projection() []CategoryProjection {
	out := make([]CategoryProjection, 0, len(distribution.Categories()))
	for _, cat := range distribution.Categories() {
		gross := s.Gross(cat)
		net := s.Net(cat)
		out = append(out, CategoryProjection{
			Category: cat,
			Gross:    gross,
			Net:      net,
			AdminFee: gross - net,
		})
	}
	return out
}

// PerWinnerPrize converts a prize share into money. Shares are percentages of
// the net pool, not of gross.
func (s *Service) PerWinnerPrize(cat distribution.Category, share distribution.PrizeShare) int64 {
	if !share.Active {
		return 0
	}
	netPool := int64(100 - s.fees.Fees().AdminFeePercent)
	if netPool <= 0 {
		return 0
	}
	net := s.Net(cat)
	return (net*int64(share.Percentage) + netPool/2) / netPool
}
