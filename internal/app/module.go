package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/tristarfitness/backend/internal/app/api/server"
	"github.com/tristarfitness/backend/internal/app/service/activity"
	"github.com/tristarfitness/backend/internal/app/service/auth"
	"github.com/tristarfitness/backend/internal/app/service/invoice"
	"github.com/tristarfitness/backend/internal/app/service/member"
	"github.com/tristarfitness/backend/internal/app/service/mirror"
	"github.com/tristarfitness/backend/internal/app/service/projection"
	"github.com/tristarfitness/backend/internal/app/service/statistics"
	"github.com/tristarfitness/backend/internal/platform/db"
	"github.com/tristarfitness/backend/pkg/config"
	"github.com/tristarfitness/backend/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 35 * time.Second
)

// Module order matters for OnStart hooks: the database migrates and the
// member mirror loads before the HTTP server starts listening.
var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	mirror.Module,
	activity.Module,
	projection.Module,
	auth.Module,
	member.Module,
	invoice.Module,
	statistics.Module,
	server.Module,
)
