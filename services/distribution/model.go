package distribution

import "fmt"

// Category is one of the four independently priced pools of a league.
type Category string

const (
	CategoryGeneral Category = "general"
	CategoryMatch   Category = "match"
	CategoryRound   Category = "round"
	CategoryPhase   Category = "phase"
)

// Categories lists every category in a stable order.
func Categories() []Category {
	return []Category{CategoryGeneral, CategoryMatch, CategoryRound, CategoryPhase}
}

// StageCategories lists the categories gated by the global stage-fees switch.
func StageCategories() []Category {
	return []Category{CategoryMatch, CategoryRound, CategoryPhase}
}

const (
	MaxWinners         = 10
	MaxAdminFeePercent = 40
	AdminFeeStep       = 5
	MinParticipants    = 2
)

// PrizeShare is a winner position's allocation of the net pool.
type PrizeShare struct {
	Position   int  `json:"position"`
	Percentage int  `json:"percentage"`
	Active     bool `json:"active"`
}

// ValidationError reports an out-of-range configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Winner-take-most weight tables per winners count. Each row sums to 100 and
// weights the net pool before rounding.
var weightTemplates = map[int][]int{
	1:  {100},
	2:  {65, 35},
	3:  {50, 30, 20},
	4:  {40, 30, 20, 10},
	5:  {40, 25, 15, 10, 10},
	6:  {35, 20, 15, 10, 10, 10},
	7:  {30, 20, 15, 10, 10, 10, 5},
	8:  {25, 20, 15, 10, 10, 10, 5, 5},
	9:  {20, 15, 15, 10, 10, 10, 10, 5, 5},
	10: {15, 15, 10, 10, 10, 10, 10, 10, 5, 5},
}

func weightsFor(winnersCount int) []int {
	if w, ok := weightTemplates[winnersCount]; ok {
		return w
	}
	// Equal split fallback. The remainder lands on the last position through
	// the override below.
	w := make([]int, winnersCount)
	for i := range w {
		w[i] = 100 / winnersCount
	}
	return w
}

func validateAdminFee(percent int) error {
	if percent < 0 || percent > MaxAdminFeePercent {
		return ValidationError{Field: "adminFeePercent", Message: fmt.Sprintf("must be between 0 and %d", MaxAdminFeePercent)}
	}
	if percent%AdminFeeStep != 0 {
		return ValidationError{Field: "adminFeePercent", Message: fmt.Sprintf("must be a multiple of %d", AdminFeeStep)}
	}
	return nil
}

func validateWinnersCount(count int) error {
	if count < 1 || count > MaxWinners {
		return ValidationError{Field: "winnersCount", Message: fmt.Sprintf("must be between 1 and %d", MaxWinners)}
	}
	return nil
}

// ComputeDistribution builds the prize-share table for a category. Every
// active share except the last is the template weight applied to the net pool
// and rounded to the nearest multiple of 5; the last active share takes
// whatever remains so that active shares plus the admin fee total exactly 100.
// Rounding error is absorbed by the lowest prize tier on purpose.
func ComputeDistribution(winnersCount, adminFeePercent int) ([MaxWinners]PrizeShare, error) {
	var shares [MaxWinners]PrizeShare

	if err := validateWinnersCount(winnersCount); err != nil {
		return shares, err
	}
	if err := validateAdminFee(adminFeePercent); err != nil {
		return shares, err
	}

	netPool := 100 - adminFeePercent
	weights := weightsFor(winnersCount)

	assigned := 0
	for i := 0; i < winnersCount-1; i++ {
		// netPool*weight is in hundredths of a percent; 500 of those make
		// one step of 5.
		share := ((netPool*weights[i] + 250) / 500) * 5
		shares[i] = PrizeShare{Position: i + 1, Percentage: share, Active: true}
		assigned += share
	}
	shares[winnersCount-1] = PrizeShare{
		Position:   winnersCount,
		Percentage: netPool - assigned,
		Active:     true,
	}

	for i := winnersCount; i < MaxWinners; i++ {
		shares[i] = PrizeShare{Position: i + 1}
	}

	return shares, nil
}
