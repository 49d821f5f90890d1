package concept

import (
	"go.uber.org/fx"

	"quiniela-finance/pkg/config"
	"quiniela-finance/services/distribution"
)

var Module = fx.Module("concept.catalog",
	fx.Provide(provideCatalog),
)

func provideCatalog(cfg *config.Config, fees *distribution.Service) *Catalog {
	return NewCatalog(fees, Schedule{
		General: 1,
		Matches: cfg.League.Schedule.Matches,
		Rounds:  cfg.League.Schedule.Rounds,
		Phases:  cfg.League.Schedule.Phases,
	})
}
