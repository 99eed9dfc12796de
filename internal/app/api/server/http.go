package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tristarfitness/backend/docs"
	"github.com/tristarfitness/backend/internal/app/api/handlers"
	mw "github.com/tristarfitness/backend/internal/app/api/middleware"
	"github.com/tristarfitness/backend/internal/app/service/activity"
	"github.com/tristarfitness/backend/internal/app/service/auth"
	"github.com/tristarfitness/backend/internal/app/service/invoice"
	"github.com/tristarfitness/backend/internal/app/service/member"
	"github.com/tristarfitness/backend/internal/app/service/projection"
	"github.com/tristarfitness/backend/internal/app/service/statistics"
	cfgpkg "github.com/tristarfitness/backend/pkg/config"
	metrics "github.com/tristarfitness/backend/pkg/metrics"
	"github.com/tristarfitness/backend/pkg/types"
)

type routeDeps struct {
	fx.In

	Log        *zap.SugaredLogger
	Cfg        *cfgpkg.Config
	Auth       *auth.Service
	Members    *member.Service
	Invoices   *invoice.Service
	Activities *activity.Service
	Projection *projection.Writer
	Stats      *statistics.Service
}

func newEngine(cfg *cfgpkg.Config) *gin.Engine {
	if cfg.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	// request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func newPrometheus(cfg *cfgpkg.Config, log *zap.SugaredLogger) *metrics.Prometheus {
	return metrics.NewPrometheus(metrics.Options{
		Subsystem:     "tristar",
		ListenAddress: cfg.MetricsAddr,
		Logger:        log,
	})
}

func registerRoutes(r *gin.Engine, p *metrics.Prometheus, d routeDeps) {
	p.Use(r)

	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware(d.Log))
	handlers.RegisterHealthRoutes(pub)
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limiter := mw.NewRateLimiter(d.Cfg.RateLimit.RPS, d.Cfg.RateLimit.Burst)
	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware(d.Log), limiter.Middleware())

	protected := apiV1.Group("")
	protected.Use(mw.Authenticate(d.Auth, d.Log))
	writers := protected.Group("")
	writers.Use(mw.RequireRoles(types.MemberWriterRoles...))

	handlers.RegisterAuthRoutes(apiV1, protected, d.Auth, d.Log)
	handlers.RegisterMemberRoutes(protected, writers, d.Members, d.Log)
	handlers.RegisterActivityRoutes(protected, d.Activities, d.Log)
	handlers.RegisterInvoiceRoutes(protected, writers, d.Invoices, d.Log)
	handlers.RegisterStatisticsRoutes(writers, d.Stats, d.Log)
	handlers.RegisterSyncRoutes(writers, d.Projection, d.Log)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine, p *metrics.Prometheus) {
	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 5 * time.Second}
	metricsSrv := p.Server()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", srv.Addr)
			go serve(log, srv)
			if metricsSrv != nil {
				log.Infow("metrics started", "addr", metricsSrv.Addr)
				go serve(log, metricsSrv)
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			defer cancel()
			var errs []error
			if metricsSrv != nil {
				errs = append(errs, metricsSrv.Shutdown(shutdownCtx))
			}
			errs = append(errs, srv.Shutdown(shutdownCtx))
			return errors.Join(errs...)
		},
	})
}

func serve(log *zap.SugaredLogger, srv *http.Server) {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Errorw("server error", "addr", srv.Addr, "err", err)
		panic(err)
	}
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Provide(newPrometheus),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
