package bootstrap

import (
	"grooming-waitlist/cmd/bootstrap/components"

	"go.uber.org/fx"
)

// CoreModule is everything the use cases need, without HTTP or background workers.
var CoreModule = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	MetricsModule,
	CacheModule,
	components.PersistenceModule,
	components.UseCaseModule,
)

var Module = fx.Options(
	CoreModule,
	MessagingModule,
	WorkerModule,
	components.HandlerModule,
)
