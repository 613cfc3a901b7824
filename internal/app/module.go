package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/foodybuddy/payments/internal/app/api/server"
	"github.com/foodybuddy/payments/internal/app/service/payment"
	"github.com/foodybuddy/payments/internal/app/service/statistics"
	"github.com/foodybuddy/payments/internal/platform/db"
	"github.com/foodybuddy/payments/pkg/config"
	"github.com/foodybuddy/payments/pkg/logger"
	"github.com/foodybuddy/payments/pkg/metrics"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	db.Module,
	server.Module,
	payment.Module,
	statistics.Module,
)
