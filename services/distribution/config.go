package distribution

import "fmt"

// StageFee is the per-stage charge switch and amount.
type StageFee struct {
	Active bool  `json:"active"`
	Amount int64 `json:"amount"`
}

// FeeConfig is the editable monetization parameter set for a league. Amounts
// are minor currency units.
type FeeConfig struct {
	BaseFeeEnabled    bool                  `json:"base_fee_enabled"`
	BaseFeeAmount     int64                 `json:"base_fee_amount"`
	StageFeesEnabled  bool                  `json:"stage_fees_enabled"`
	StageFees         map[Category]StageFee `json:"stage_fees"`
	AdminFeePercent   int                   `json:"admin_fee_percent"`
	ParticipantsCount int                   `json:"participants_count"`
	WinnersCount      map[Category]int      `json:"winners_count"`
}

// DefaultFeeConfig is the setup-screen starting point: entry fee only, three
// winners per category, 10% admin fee.
func DefaultFeeConfig() FeeConfig {
	return FeeConfig{
		BaseFeeEnabled:   true,
		BaseFeeAmount:    50000,
		StageFeesEnabled: false,
		StageFees: map[Category]StageFee{
			CategoryMatch: {},
			CategoryRound: {},
			CategoryPhase: {},
		},
		AdminFeePercent:   10,
		ParticipantsCount: 10,
		WinnersCount: map[Category]int{
			CategoryGeneral: 3,
			CategoryMatch:   3,
			CategoryRound:   3,
			CategoryPhase:   3,
		},
	}
}

func (fc FeeConfig) clone() FeeConfig {
	out := fc
	out.StageFees = make(map[Category]StageFee, len(fc.StageFees))
	for _, cat := range StageCategories() {
		out.StageFees[cat] = fc.StageFees[cat]
	}
	out.WinnersCount = make(map[Category]int, len(fc.WinnersCount))
	for _, cat := range Categories() {
		out.WinnersCount[cat] = fc.WinnersCount[cat]
	}
	return out
}

func (fc FeeConfig) validate() error {
	if err := validateAdminFee(fc.AdminFeePercent); err != nil {
		return err
	}
	if fc.ParticipantsCount < MinParticipants {
		return ValidationError{Field: "participantsCount", Message: fmt.Sprintf("must be at least %d", MinParticipants)}
	}
	if fc.BaseFeeEnabled && fc.BaseFeeAmount <= 0 {
		return ValidationError{Field: "baseFeeAmount", Message: "must be greater than zero"}
	}
	for _, cat := range StageCategories() {
		fee, ok := fc.StageFees[cat]
		if !ok {
			return ValidationError{Field: "stageFees", Message: fmt.Sprintf("missing stage %s", cat)}
		}
		if fee.Active && fee.Amount <= 0 {
			return ValidationError{Field: fmt.Sprintf("stageFees.%s.amount", cat), Message: "must be greater than zero"}
		}
	}
	for _, cat := range Categories() {
		if err := validateWinnersCount(fc.WinnersCount[cat]); err != nil {
			return ValidationError{Field: fmt.Sprintf("winnersCount.%s", cat), Message: err.(ValidationError).Message}
		}
	}
	return nil
}

// Config is the league finance aggregate: the fee parameters plus the derived
// prize-share table of every category. It is the only holder of the admin fee;
// categories never keep their own copy. Not safe for concurrent use on its
// own, Service guards it.
type Config struct {
	fees   FeeConfig
	shares map[Category][MaxWinners]PrizeShare
}

// NewConfig validates the fee parameters and derives all four share tables.
func NewConfig(fees FeeConfig) (*Config, error) {
	if err := fees.validate(); err != nil {
		return nil, err
	}

	c := &Config{
		fees:   fees.clone(),
		shares: make(map[Category][MaxWinners]PrizeShare, len(Categories())),
	}
	if err := c.recomputeAll(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) recomputeAll() error {
	for _, cat := range Categories() {
		if err := c.recompute(cat); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) recompute(cat Category) error {
	shares, err := ComputeDistribution(c.fees.WinnersCount[cat], c.fees.AdminFeePercent)
	if err != nil {
		return err
	}
	c.shares[cat] = shares
	return nil
}

// Fees returns a defensive copy of the fee parameters.
func (c *Config) Fees() FeeConfig {
	return c.fees.clone()
}

// Shares returns the derived prize-share table for a category.
func (c *Config) Shares(cat Category) ([MaxWinners]PrizeShare, error) {
	shares, ok := c.shares[cat]
	if !ok {
		return shares, ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %s", cat)}
	}
	return shares, nil
}

func (c *Config) setWinnersCount(cat Category, count int) error {
	if _, ok := c.shares[cat]; !ok {
		return ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %s", cat)}
	}
	if err := validateWinnersCount(count); err != nil {
		return err
	}
	prev := c.fees.WinnersCount[cat]
	c.fees.WinnersCount[cat] = count
	if err := c.recompute(cat); err != nil {
		c.fees.WinnersCount[cat] = prev
		return err
	}
	return nil
}

// setAdminFeePercent recomputes every category: the admin fee is one global
// parameter shared by all four pools.
func (c *Config) setAdminFeePercent(percent int) error {
	if err := validateAdminFee(percent); err != nil {
		return err
	}
	prev := c.fees.AdminFeePercent
	c.fees.AdminFeePercent = percent
	if err := c.recomputeAll(); err != nil {
		c.fees.AdminFeePercent = prev
		return err
	}
	return nil
}
