package readstore

import (
	"time"

	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jinzhu/copier"
)

// pgtypeConverters teach copier how nullable columns land on view fields.
var pgtypeConverters = []copier.TypeConverter{
	{
		SrcType: pgtype.UUID{},
		DstType: (*uuid.UUID)(nil),
		Fn: func(src any) (any, error) {
			return pgconv.UUIDPtrFromPgtype(src.(pgtype.UUID)), nil
		},
	},
	{
		SrcType: pgtype.Timestamptz{},
		DstType: (*time.Time)(nil),
		Fn: func(src any) (any, error) {
			return pgconv.TimePtrFromPgtype(src.(pgtype.Timestamptz)), nil
		},
	},
	{
		SrcType: pgtype.Date{},
		DstType: time.Time{},
		Fn: func(src any) (any, error) {
			return pgconv.DateFromPgtype(src.(pgtype.Date)), nil
		},
	},
}

func copyView(dst, src any) error {
	if err := copier.CopyWithOption(dst, src, copier.Option{Converters: pgtypeConverters}); err != nil {
		return errs.Wrap(err, "failed to map row to view")
	}
	return nil
}
