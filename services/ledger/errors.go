package ledger

import "fmt"

// InvalidConceptError reports a settlement call targeting an unknown or
// inactive concept.
type InvalidConceptError struct {
	ConceptID string
}

func (e InvalidConceptError) Error() string {
	return fmt.Sprintf("concept %q is unknown or inactive", e.ConceptID)
}

// NothingToSettleError reports a settlement over an empty pending set.
type NothingToSettleError struct {
	ParticipantID string
}

func (e NothingToSettleError) Error() string {
	return fmt.Sprintf("participant %q has nothing to settle", e.ParticipantID)
}

// InvalidTransitionError reports an illegal payment status change.
type InvalidTransitionError struct {
	ParticipantID string
	ConceptID     string
	From          string
	To            string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot move %s/%s from %s to %s", e.ParticipantID, e.ConceptID, e.From, e.To)
}

// ParticipantNotFoundError reports an operation on a participant the roster
// never announced, or one that has been removed.
type ParticipantNotFoundError struct {
	ParticipantID string
}

func (e ParticipantNotFoundError) Error() string {
	return fmt.Sprintf("participant %q not found", e.ParticipantID)
}
