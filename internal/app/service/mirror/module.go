package mirror

import "go.uber.org/fx"

// Module provides the single mirror instance shared by the member services.
var Module = fx.Options(
	fx.Provide(New),
)
