package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"gorm.io/gorm"

	"quiniela-finance/services/concept"
	"quiniela-finance/services/ledger"
)

// Service answers read-only queries over the ledger: per-participant debt,
// league-wide collection progress, and filtered listings. It never mutates
// payment state.
type Service struct {
	db      *gorm.DB
	catalog *concept.Catalog
}

func NewService(db *gorm.DB, catalog *concept.Catalog) *Service {
	return &Service{db: db, catalog: catalog}
}

// ParticipantSummary is one participant's payment standing.
type ParticipantSummary struct {
	ParticipantID string  `json:"participant_id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	TotalToPay    int64   `json:"total_to_pay"`
	TotalPaid     int64   `json:"total_paid"`
	PendingAmount int64   `json:"pending_amount"`
	IsFullyPaid   bool    `json:"is_fully_paid"`
	HasReview     bool    `json:"has_review"`
	Percentage    float64 `json:"percentage"`
}

// LeagueSummary is the league-wide collection progress.
type LeagueSummary struct {
	TotalExpected  int64 `json:"total_expected"`
	TotalCollected int64 `json:"total_collected"`
	Progress       int   `json:"progress"`
}

// Filter selects which participants a listing returns. Filters are pure
// predicates over the participant summary.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterDebtors  Filter = "debtors"
	FilterSolvents Filter = "solvents"
	FilterReview   Filter = "review"
)

// ParseFilter validates a filter name; empty means all.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "", FilterAll:
		return FilterAll, nil
	case FilterDebtors, FilterSolvents, FilterReview:
		return Filter(s), nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}

func (f Filter) matches(s ParticipantSummary) bool {
	switch f {
	case FilterDebtors:
		return !s.IsFullyPaid
	case FilterSolvents:
		return s.IsFullyPaid
	case FilterReview:
		return s.HasReview
	default:
		return true
	}
}

// PerParticipant computes one participant's standing against the currently
// active concepts.
func (s *Service) PerParticipant(ctx context.Context, participantID string) (ParticipantSummary, error) {
	var p ledger.Participant
	err := s.db.WithContext(ctx).
		Where("participant_id = ? AND archived = ?", participantID, false).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ParticipantSummary{}, ledger.ParticipantNotFoundError{ParticipantID: participantID}
		}
		return ParticipantSummary{}, err
	}

	var records []ledger.PaymentRecord
	if err := s.db.WithContext(ctx).
		Where("participant_id = ? AND archived = ?", participantID, false).
		Find(&records).Error; err != nil {
		return ParticipantSummary{}, err
	}

	return s.summarize(p, records), nil
}

func (s *Service) summarize(p ledger.Participant, records []ledger.PaymentRecord) ParticipantSummary {
	status := make(map[string]string, len(records))
	for _, rec := range records {
		status[rec.ConceptID] = rec.Status
	}

	sum := ParticipantSummary{
		ParticipantID: p.ParticipantID,
		Name:          p.Name,
		Email:         p.Email,
	}
	for _, c := range s.catalog.Active() {
		sum.TotalToPay += c.UnitAmount
		switch status[c.ID] {
		case ledger.StatusPaid:
			sum.TotalPaid += c.UnitAmount
		case ledger.StatusReview:
			sum.HasReview = true
		}
	}

	sum.PendingAmount = sum.TotalToPay - sum.TotalPaid
	sum.IsFullyPaid = sum.TotalToPay > 0 && sum.TotalPaid == sum.TotalToPay
	if sum.TotalToPay > 0 {
		sum.Percentage = float64(sum.TotalPaid) / float64(sum.TotalToPay) * 100
	}
	return sum
}

// List returns summaries of every non-archived participant matching the
// filter and the case-insensitive name/email search, in roster order.
func (s *Service) List(ctx context.Context, filter Filter, search string) ([]ParticipantSummary, error) {
	var participants []ledger.Participant
	if err := s.db.WithContext(ctx).
		Where("archived = ?", false).
		Order("created_at ASC, participant_id ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}

	var records []ledger.PaymentRecord
	if err := s.db.WithContext(ctx).
		Where("archived = ?", false).
		Find(&records).Error; err != nil {
		return nil, err
	}
	byParticipant := make(map[string][]ledger.PaymentRecord, len(participants))
	for _, rec := range records {
		byParticipant[rec.ParticipantID] = append(byParticipant[rec.ParticipantID], rec)
	}

	needle := strings.ToLower(strings.TrimSpace(search))

	out := []ParticipantSummary{}
	for _, p := range participants {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Email), needle) {
			continue
		}
		sum := s.summarize(p, byParticipant[p.ParticipantID])
		if !filter.matches(sum) {
			continue
		}
		out = append(out, sum)
	}
	return out, nil
}

// League aggregates expected versus collected money over the whole roster.
func (s *Service) League(ctx context.Context) (LeagueSummary, error) {
	summaries, err := s.List(ctx, FilterAll, "")
	if err != nil {
		return LeagueSummary{}, err
	}

	var out LeagueSummary
	for _, sum := range summaries {
		out.TotalExpected += sum.TotalToPay
		out.TotalCollected += sum.TotalPaid
	}
	if out.TotalExpected > 0 {
		out.Progress = int(math.Round(float64(out.TotalCollected) / float64(out.TotalExpected) * 100))
	}
	return out, nil
}
