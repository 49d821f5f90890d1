package ledger

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quiniela-finance/services/concept"
	"quiniela-finance/services/distribution"
)

// Service owns the per-participant, per-concept payment state and the
// append-only transaction log. Settlement and reset on the same participant
// are serialized through a per-participant mutex; distinct participants may
// proceed in parallel. Every operation runs inside one database transaction,
// so a failure leaves the ledger untouched.
type Service struct {
	db      *gorm.DB
	node    *snowflake.Node
	catalog *concept.Catalog
	log     *zap.Logger

	locks sync.Map // participant id -> *sync.Mutex
}

type ServiceParams struct {
	DB      *gorm.DB
	Node    *snowflake.Node
	Catalog *concept.Catalog
	Log     *zap.Logger
}

func NewService(p ServiceParams) *Service {
	return &Service{
		db:      p.DB,
		node:    p.Node,
		catalog: p.Catalog,
		log:     p.Log,
	}
}

func (s *Service) lockParticipant(id string) func() {
	v, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// SettlementInput is the payload of a direct payment registration.
type SettlementInput struct {
	ParticipantID string
	ConceptIDs    []string
	Amount        int64
	Method        string
	PaidAt        time.Time
	Reference     string
	Note          string
}

// BulkSettleReport is the per-item outcome of a bulk settlement.
type BulkSettleReport struct {
	SettledCount int      `json:"settled_count"`
	TotalAmount  int64    `json:"total_amount"`
	Skipped      []string `json:"skipped"`
}

// OnParticipantAdded registers a roster entry and opens a pending record for
// every currently active concept. Re-adding an archived participant restores
// it.
func (s *Service) OnParticipantAdded(ctx context.Context, id, name, email string) error {
	if id == "" {
		return distribution.ValidationError{Field: "participantId", Message: "must not be empty"}
	}

	unlock := s.lockParticipant(id)
	defer unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Participant
		err := tx.Where("participant_id = ?", id).First(&p).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			p = Participant{ParticipantID: id, Name: name, Email: email}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if err := tx.Model(&Participant{}).
				Where("participant_id = ?", id).
				Updates(map[string]any{"name": name, "email": email, "archived": false}).Error; err != nil {
				return err
			}
		}

		return s.ensureRecords(tx, id, s.catalog.Active())
	})
	if err != nil {
		return err
	}

	s.log.Info("participant added to ledger", zap.String("participant_id", id))
	return nil
}

// OnParticipantRemoved archives the participant and its payment records.
// Transactions referencing the participant are retained for audit.
func (s *Service) OnParticipantRemoved(ctx context.Context, id string) error {
	unlock := s.lockParticipant(id)
	defer unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Participant{}).
			Where("participant_id = ? AND archived = ?", id, false).
			Update("archived", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ParticipantNotFoundError{ParticipantID: id}
		}
		return tx.Model(&PaymentRecord{}).
			Where("participant_id = ?", id).
			Update("archived", true).Error
	})
	if err != nil {
		return err
	}

	s.log.Info("participant archived", zap.String("participant_id", id))
	return nil
}

// SyncConcepts opens pending records for concepts that became active after
// participants were added.
func (s *Service) SyncConcepts(ctx context.Context) error {
	active := s.catalog.Active()
	if len(active) == 0 {
		return nil
	}

	var participants []Participant
	if err := s.db.WithContext(ctx).Where("archived = ?", false).Find(&participants).Error; err != nil {
		return err
	}

	for _, p := range participants {
		unlock := s.lockParticipant(p.ParticipantID)
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.ensureRecords(tx, p.ParticipantID, active)
		})
		unlock()
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ensureRecords(tx *gorm.DB, participantID string, concepts []concept.Concept) error {
	for _, c := range concepts {
		var rec PaymentRecord
		err := tx.Where("participant_id = ? AND concept_id = ?", participantID, c.ID).First(&rec).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			rec = PaymentRecord{
				ID:            s.node.Generate(),
				ParticipantID: participantID,
				ConceptID:     c.ID,
				Status:        StatusPending,
			}
			if err := tx.Create(&rec).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		case rec.Archived:
			if err := tx.Model(&PaymentRecord{}).
				Where("id = ?", rec.ID).
				Update("archived", false).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// RegisterPayment marks the targeted concepts paid and appends one
// transaction capturing exactly the concepts that actually transitioned.
// Already-paid concepts are skipped, keeping the operation idempotent at the
// status level. Unknown or inactive concepts fail the whole call before any
// record is touched.
func (s *Service) RegisterPayment(ctx context.Context, in SettlementInput) (*Transaction, error) {
	unlock := s.lockParticipant(in.ParticipantID)
	defer unlock()

	return s.register(ctx, in)
}

// register assumes the participant lock is held.
func (s *Service) register(ctx context.Context, in SettlementInput) (*Transaction, error) {
	if in.Amount <= 0 {
		return nil, distribution.ValidationError{Field: "amount", Message: "must be greater than zero"}
	}
	if len(in.ConceptIDs) == 0 {
		return nil, distribution.ValidationError{Field: "conceptIds", Message: "must not be empty"}
	}

	targets := make([]concept.Concept, 0, len(in.ConceptIDs))
	seen := make(map[string]bool, len(in.ConceptIDs))
	for _, id := range in.ConceptIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		c, ok := s.catalog.Get(id)
		if !ok || !c.Active {
			return nil, InvalidConceptError{ConceptID: id}
		}
		targets = append(targets, c)
	}

	var txn *Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Participant
		if err := tx.Where("participant_id = ? AND archived = ?", in.ParticipantID, false).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ParticipantNotFoundError{ParticipantID: in.ParticipantID}
			}
			return err
		}

		if err := s.ensureRecords(tx, in.ParticipantID, targets); err != nil {
			return err
		}

		ids := make([]string, len(targets))
		for i, c := range targets {
			ids[i] = c.ID
		}

		var records []PaymentRecord
		if err := tx.Where("participant_id = ? AND concept_id IN ?", in.ParticipantID, ids).
			Find(&records).Error; err != nil {
			return err
		}

		var transitioned []string
		for _, rec := range records {
			if rec.Status == StatusPaid {
				continue
			}
			transitioned = append(transitioned, rec.ConceptID)
		}
		if len(transitioned) == 0 {
			return NothingToSettleError{ParticipantID: in.ParticipantID}
		}

		if err := tx.Model(&PaymentRecord{}).
			Where("participant_id = ? AND concept_id IN ? AND status <> ?", in.ParticipantID, transitioned, StatusPaid).
			Update("status", StatusPaid).Error; err != nil {
			return err
		}

		code, err := GenerateTransactionCode()
		if err != nil {
			return err
		}
		txn = &Transaction{
			ID:            s.node.Generate(),
			Code:          code,
			ParticipantID: in.ParticipantID,
			ConceptIDs:    conceptIDsJSON(transitioned),
			Amount:        in.Amount,
			Method:        in.Method,
			Reference:     in.Reference,
			Note:          in.Note,
			PaidAt:        in.PaidAt,
		}
		return tx.Create(txn).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("payment registered",
		zap.String("participant_id", in.ParticipantID),
		zap.String("transaction_code", txn.Code),
		zap.Int64("amount", in.Amount),
		zap.Strings("concept_ids", txn.Concepts()),
	)
	return txn, nil
}

// QuickSettle settles every non-paid active concept of the participant in one
// transaction, priced at the sum of their unit amounts.
func (s *Service) QuickSettle(ctx context.Context, participantID, method string, paidAt time.Time, reference string) (*Transaction, error) {
	unlock := s.lockParticipant(participantID)
	defer unlock()

	pending, amount, err := s.pendingConcepts(ctx, participantID)
	if err != nil {
		return nil, err
	}
	if len(pending) == 0 {
		return nil, NothingToSettleError{ParticipantID: participantID}
	}

	return s.register(ctx, SettlementInput{
		ParticipantID: participantID,
		ConceptIDs:    pending,
		Amount:        amount,
		Method:        method,
		PaidAt:        paidAt,
		Reference:     reference,
	})
}

func (s *Service) pendingConcepts(ctx context.Context, participantID string) ([]string, int64, error) {
	var records []PaymentRecord
	if err := s.db.WithContext(ctx).
		Where("participant_id = ? AND archived = ?", participantID, false).
		Find(&records).Error; err != nil {
		return nil, 0, err
	}
	paid := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.Status == StatusPaid {
			paid[rec.ConceptID] = true
		}
	}

	var ids []string
	var amount int64
	for _, c := range s.catalog.Active() {
		if paid[c.ID] {
			continue
		}
		ids = append(ids, c.ID)
		amount += c.UnitAmount
	}
	return ids, amount, nil
}

// BulkSettle quick-settles each participant independently, best effort:
// zero-debt participants are skipped, per-participant failures are reported
// and do not stop the batch.
func (s *Service) BulkSettle(ctx context.Context, participantIDs []string, method string, paidAt time.Time) (BulkSettleReport, error) {
	report := BulkSettleReport{Skipped: []string{}}

	for _, id := range participantIDs {
		txn, err := s.QuickSettle(ctx, id, method, paidAt, "")
		if err != nil {
			report.Skipped = append(report.Skipped, id)
			var nothing NothingToSettleError
			if !errors.As(err, &nothing) {
				s.log.Warn("bulk settle: participant skipped",
					zap.String("participant_id", id),
					zap.Error(err),
				)
			}
			continue
		}
		report.SettledCount++
		report.TotalAmount += txn.Amount
	}

	s.log.Info("bulk settle finished",
		zap.Int("settled_count", report.SettledCount),
		zap.Int64("total_amount", report.TotalAmount),
		zap.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

// ResetParticipant moves every paid active concept back to pending and
// appends a compensating negative-amount transaction, so the log still
// explains the rollback without any prior row being retracted.
func (s *Service) ResetParticipant(ctx context.Context, participantID string) error {
	unlock := s.lockParticipant(participantID)
	defer unlock()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Participant
		if err := tx.Where("participant_id = ? AND archived = ?", participantID, false).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ParticipantNotFoundError{ParticipantID: participantID}
			}
			return err
		}

		var records []PaymentRecord
		if err := tx.Where("participant_id = ? AND archived = ? AND status = ?", participantID, false, StatusPaid).
			Find(&records).Error; err != nil {
			return err
		}

		var reset []string
		var amount int64
		for _, rec := range records {
			c, ok := s.catalog.Get(rec.ConceptID)
			if !ok || !c.Active {
				continue
			}
			reset = append(reset, rec.ConceptID)
			amount += c.UnitAmount
		}
		if len(reset) == 0 {
			return nil
		}

		if err := tx.Model(&PaymentRecord{}).
			Where("participant_id = ? AND concept_id IN ?", participantID, reset).
			Update("status", StatusPending).Error; err != nil {
			return err
		}

		code, err := GenerateTransactionCode()
		if err != nil {
			return err
		}
		return tx.Create(&Transaction{
			ID:            s.node.Generate(),
			Code:          code,
			ParticipantID: participantID,
			ConceptIDs:    conceptIDsJSON(reset),
			Amount:        -amount,
			Method:        "ajuste",
			Note:          "reversión por reinicio de pagos",
			PaidAt:        time.Now(),
		}).Error
	})
	if err != nil {
		return err
	}

	s.log.Info("participant payments reset", zap.String("participant_id", participantID))
	return nil
}

// MarkUnderReview flags pending concepts as claimed but unverified. Only
// pending records may enter review; review is resolved only by
// RegisterPayment.
func (s *Service) MarkUnderReview(ctx context.Context, participantID string, conceptIDs []string) error {
	if len(conceptIDs) == 0 {
		return distribution.ValidationError{Field: "conceptIds", Message: "must not be empty"}
	}
	for _, id := range conceptIDs {
		c, ok := s.catalog.Get(id)
		if !ok || !c.Active {
			return InvalidConceptError{ConceptID: id}
		}
	}

	unlock := s.lockParticipant(participantID)
	defer unlock()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p Participant
		if err := tx.Where("participant_id = ? AND archived = ?", participantID, false).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ParticipantNotFoundError{ParticipantID: participantID}
			}
			return err
		}

		var records []PaymentRecord
		if err := tx.Where("participant_id = ? AND concept_id IN ?", participantID, conceptIDs).
			Find(&records).Error; err != nil {
			return err
		}
		byConcept := make(map[string]PaymentRecord, len(records))
		for _, rec := range records {
			byConcept[rec.ConceptID] = rec
		}

		for _, id := range conceptIDs {
			rec, ok := byConcept[id]
			if !ok {
				rec = PaymentRecord{Status: StatusPending}
			}
			if rec.Status != StatusPending {
				return InvalidTransitionError{
					ParticipantID: participantID,
					ConceptID:     id,
					From:          rec.Status,
					To:            StatusReview,
				}
			}
		}

		if err := s.ensureRecords(tx, participantID, conceptsByID(s.catalog, conceptIDs)); err != nil {
			return err
		}
		return tx.Model(&PaymentRecord{}).
			Where("participant_id = ? AND concept_id IN ?", participantID, conceptIDs).
			Update("status", StatusReview).Error
	})
}

func conceptsByID(catalog *concept.Catalog, ids []string) []concept.Concept {
	out := make([]concept.Concept, 0, len(ids))
	for _, id := range ids {
		if c, ok := catalog.Get(id); ok {
			out = append(out, c)
		}
	}
	return out
}

// Transactions lists the append-only log, optionally filtered by participant,
// oldest first.
func (s *Service) Transactions(ctx context.Context, participantID string) ([]Transaction, error) {
	q := s.db.WithContext(ctx).Model(&Transaction{})
	if participantID != "" {
		q = q.Where("participant_id = ?", participantID)
	}

	var txns []Transaction
	if err := q.Order("created_at ASC, id ASC").Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
