package components

import (
	"grooming-waitlist/internal/infra/pgq"
	"grooming-waitlist/internal/infra/readstore"
	"grooming-waitlist/internal/infra/uow"
	"grooming-waitlist/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

// Write-side repositories are built per transaction inside the unit of work; only the
// query-side stores need wiring here.
var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	fx.Provide(uow.NewPostgresUoW),
)

var baseOption = fx.Provide(
	NewSQLQueries,
	NewDBTX,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		// Waitlist
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.WaitlistReadQueries)),
		),
		fx.Annotate(
			readstore.NewWaitlistReadStore,
			fx.As(new(queries.WaitlistReadStore)),
			fx.As(new(queries.CandidateReadStore)),
			fx.As(new(queries.OfferRecipientReadStore)),
			fx.As(new(queries.ExportReadStore)),
		),
		// Offer
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.OfferReadQueries)),
		),
		fx.Annotate(
			readstore.NewOfferReadStore,
			fx.As(new(queries.OfferReadStore)),
		),
		// Staff
		fx.Annotate(
			NewSQLQueries,
			fx.As(new(readstore.StaffReadQueries)),
		),
		fx.Annotate(
			readstore.NewStaffReadStore,
			fx.As(new(queries.StaffReadStore)),
		),
	),
)

func NewSQLQueries(_ *pgxpool.Pool) *pgq.Queries {
	return pgq.New()
}

func NewDBTX(pool *pgxpool.Pool) pgq.DBTX {
	return pool
}
