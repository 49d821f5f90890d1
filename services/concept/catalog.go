package concept

import "quiniela-finance/services/distribution"

// Catalog derives the chargeable concepts from the current fee configuration.
// It holds no state of its own; every read reflects the latest config.
type Catalog struct {
	fees     *distribution.Service
	schedule Schedule
}

func NewCatalog(fees *distribution.Service, schedule Schedule) *Catalog {
	return &Catalog{fees: fees, schedule: schedule}
}

// Concepts lists every concept, active or not, in catalog order.
func (c *Catalog) Concepts() []Concept {
	fc := c.fees.Fees()

	out := []Concept{
		{
			ID:                   ConceptGeneral,
			Label:                labels[ConceptGeneral],
			Category:             distribution.CategoryGeneral,
			UnitAmount:           fc.BaseFeeAmount,
			OccurrenceMultiplier: c.schedule.General,
			Active:               fc.BaseFeeEnabled && fc.BaseFeeAmount > 0,
		},
	}

	stages := []struct {
		id         string
		category   distribution.Category
		multiplier int
	}{
		{ConceptMatch, distribution.CategoryMatch, c.schedule.Matches},
		{ConceptRound, distribution.CategoryRound, c.schedule.Rounds},
		{ConceptPhase, distribution.CategoryPhase, c.schedule.Phases},
	}
	for _, s := range stages {
		fee := fc.StageFees[s.category]
		out = append(out, Concept{
			ID:                   s.id,
			Label:                labels[s.id],
			Category:             s.category,
			UnitAmount:           fee.Amount,
			OccurrenceMultiplier: s.multiplier,
			Active:               fc.StageFeesEnabled && fee.Active && fee.Amount > 0,
		})
	}

	return out
}

// Active lists only the currently chargeable concepts.
func (c *Catalog) Active() []Concept {
	var out []Concept
	for _, concept := range c.Concepts() {
		if concept.Active {
			out = append(out, concept)
		}
	}
	return out
}

// Get looks a concept up by id.
func (c *Catalog) Get(id string) (Concept, bool) {
	for _, concept := range c.Concepts() {
		if concept.ID == id {
			return concept, true
		}
	}
	return Concept{}, false
}

// ByCategory looks a concept up by its category.
func (c *Catalog) ByCategory(cat distribution.Category) (Concept, bool) {
	for _, concept := range c.Concepts() {
		if concept.Category == cat {
			return concept, true
		}
	}
	return Concept{}, false
}
