package concept

import "quiniela-finance/services/distribution"

// Schedule carries the expected number of chargeable events per participant
// over the tournament. It is supplied by the schedule collaborator, never
// hard-coded here.
type Schedule struct {
	General int
	Matches int
	Rounds  int
	Phases  int
}

// Concept is a single chargeable line item.
type Concept struct {
	ID                   string                `json:"id"`
	Label                string                `json:"label"`
	Category             distribution.Category `json:"category"`
	UnitAmount           int64                 `json:"unit_amount"`
	OccurrenceMultiplier int                   `json:"occurrence_multiplier"`
	Active               bool                  `json:"active"`
}

const (
	ConceptGeneral = "general"
	ConceptMatch   = "match"
	ConceptRound   = "round"
	ConceptPhase   = "phase"
)

var labels = map[string]string{
	ConceptGeneral: "Inscripción",
	ConceptMatch:   "Por partido",
	ConceptRound:   "Por ronda",
	ConceptPhase:   "Por fase",
}
