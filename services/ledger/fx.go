package ledger

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"quiniela-finance/services/concept"
)

var Module = fx.Module("ledger.service",
	fx.Provide(provideService),
	fx.Invoke(autoMigrate),
)

func provideService(db *gorm.DB, node *snowflake.Node, catalog *concept.Catalog, log *zap.Logger) *Service {
	return NewService(ServiceParams{
		DB:      db,
		Node:    node,
		Catalog: catalog,
		Log:     log,
	})
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Participant{}, &PaymentRecord{}, &Transaction{})
}
