package components

import (
	"grooming-waitlist/internal/handler"
	"grooming-waitlist/internal/handler/api"
	"grooming-waitlist/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewAuthHandler,
		api.NewWaitlistHandler,
		api.NewOfferHandler,
		api.NewWebhookHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
