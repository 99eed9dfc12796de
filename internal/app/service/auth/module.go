package auth

import "go.uber.org/fx"

// Module provides the token service and seeds the default staff account on
// startup.
var Module = fx.Options(
	fx.Provide(NewService),
	fx.Invoke(func(lc fx.Lifecycle, s *Service) {
		lc.Append(fx.Hook{OnStart: s.SeedDefault})
	}),
)
