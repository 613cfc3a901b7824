package payment

import (
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Module exposes the payment lifecycle engine via Fx.
var Module = fx.Options(
	fx.Provide(func(db *gorm.DB) Store { return NewGormStore(db) }),
	fx.Provide(NewGateway),
	fx.Provide(NewService),
)
