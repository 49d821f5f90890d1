package distribution

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"quiniela-finance/services/plan"
)

var Module = fx.Module("distribution.service",
	fx.Provide(provideService),
)

func provideService(plans *plan.Service, log *zap.Logger) (*Service, error) {
	return NewService(DefaultFeeConfig(), plans, log)
}
