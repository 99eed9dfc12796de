package member

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module exposes the member service and loads the mirror on startup.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Invoke(registerStartup),
)

// registerStartup fills the mirror and writes every projection before the
// HTTP server starts accepting requests.
func registerStartup(lc fx.Lifecycle, s *Service, l *zap.SugaredLogger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			n, err := s.Reload(ctx)
			if err != nil {
				l.Errorw("initial member load failed", "err", err)
				return err
			}
			l.Infow("member mirror loaded", "members", n)
			return nil
		},
	})
}
