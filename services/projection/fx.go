package projection

import (
	"go.uber.org/fx"
)

var Module = fx.Module("projection.service",
	fx.Provide(NewService),
)
