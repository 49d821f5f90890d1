package plan

import (
	"go.uber.org/fx"

	"quiniela-finance/pkg/config"
)

var Module = fx.Module("plan.service",
	fx.Provide(provideService),
)

func provideService(cfg *config.Config) (*Service, error) {
	tier, err := ParseTier(cfg.League.Plan)
	if err != nil {
		return nil, err
	}
	return NewService(tier), nil
}
