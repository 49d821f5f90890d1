package main

import (
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"quiniela-finance/internal/httpapi"
	"quiniela-finance/internal/jobs"
	"quiniela-finance/pkg/config"
	"quiniela-finance/pkg/db"
	"quiniela-finance/pkg/gen"
	"quiniela-finance/pkg/logger"
	"quiniela-finance/pkg/server"
	"quiniela-finance/services/concept"
	"quiniela-finance/services/distribution"
	"quiniela-finance/services/ledger"
	"quiniela-finance/services/plan"
	"quiniela-finance/services/projection"
	"quiniela-finance/services/report"
)

func main() {
	opts := []fx.Option{
		config.Module,
		logger.Module,
		db.Module,
		gen.Module,
		plan.Module,
		distribution.Module,
		concept.Module,
		projection.Module,
		ledger.Module,
		report.Module,
		httpapi.Module,
		jobs.Module,
		server.Module,
		fxLogger,
	}

	if err := fx.ValidateApp(opts...); err != nil {
		log.Fatalf("fx validation failed: %v", err)
	}

	app := fx.New(opts...)

	app.Run()
}

var fxLogger = fx.WithLogger(func(cfg *config.Config, logger *zap.Logger) fxevent.Logger {
	return fxevent.NopLogger
})
