package ledger

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Payment record statuses. review is a claimed-but-unverified payment and is
// only ever produced by an explicit administrative action.
const (
	StatusPending = "pending"
	StatusReview  = "review"
	StatusPaid    = "paid"
)

// Participant is the ledger's copy of the roster entry: the id plus the
// display attributes needed for search and export. The roster collaborator
// owns the data and pushes changes in.
type Participant struct {
	ParticipantID string    `gorm:"column:participant_id;primaryKey"`
	Name          string    `gorm:"column:name"`
	Email         string    `gorm:"column:email"`
	Archived      bool      `gorm:"column:archived"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// PaymentRecord tracks whether one concept has been collected from one
// participant. Records are only ever mutated by ledger operations.
type PaymentRecord struct {
	ID            snowflake.ID `gorm:"column:id;primaryKey;autoIncrement:false"`
	ParticipantID string       `gorm:"column:participant_id;uniqueIndex:idx_payment_participant_concept;not null"`
	ConceptID     string       `gorm:"column:concept_id;uniqueIndex:idx_payment_participant_concept;not null"`
	Status        string       `gorm:"column:status;default:'pending'"`
	Archived      bool         `gorm:"column:archived"`
	CreatedAt     time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time    `gorm:"column:updated_at;autoUpdateTime"`
}

// Transaction is one settlement in the append-only log. Rows are immutable
// once created, never edited or deleted. A reset emits a compensating
// negative-amount row instead of touching history.
type Transaction struct {
	ID            snowflake.ID   `gorm:"column:id;primaryKey;autoIncrement:false"`
	Code          string         `gorm:"column:code;uniqueIndex"`
	ParticipantID string         `gorm:"column:participant_id;index;not null"`
	ConceptIDs    datatypes.JSON `gorm:"column:concept_ids"`
	Amount        int64          `gorm:"column:amount;not null"`
	Method        string         `gorm:"column:method"`
	Reference     string         `gorm:"column:reference"`
	Note          string         `gorm:"column:note"`
	PaidAt        time.Time      `gorm:"column:paid_at"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// Concepts decodes the concept ids captured by this transaction.
func (t *Transaction) Concepts() []string {
	var ids []string
	if len(t.ConceptIDs) > 0 {
		_ = json.Unmarshal(t.ConceptIDs, &ids)
	}
	return ids
}

func conceptIDsJSON(ids []string) datatypes.JSON {
	b, _ := json.Marshal(ids)
	return datatypes.JSON(b)
}

// GenerateTransactionCode builds a date-prefixed human-readable code for a
// transaction, e.g. 20260830-4F21A9.
func GenerateTransactionCode() (string, error) {
	datePart := time.Now().Format("20060102")

	r := make([]byte, 3)
	if _, err := rand.Read(r); err != nil {
		return "", err
	}
	randomPart := strings.ToUpper(fmt.Sprintf("%x", r))

	return fmt.Sprintf("%s-%s", datePart, randomPart), nil
}
