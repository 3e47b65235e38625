package queries

import (
	"context"
	"time"

	"grooming-waitlist/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

var ErrInvalidExportRange = errs.New("export range must end on or after its start and span at most 366 days")

const (
	maxExportDays     = 366
	exportSheet       = "Waitlist"
	exportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type ExportReadStore interface {
	ListRequestedBetween(ctx context.Context, from, to time.Time) ([]*WaitlistEntryView, error)
}

type ExportFile struct {
	Name        string
	ContentType string
	Body        []byte
}

type ExportQueries interface {
	ExportEntries(ctx context.Context, from, to time.Time) (*ExportFile, error)
}

type exportQueriesImpl struct {
	store ExportReadStore
}

func NewExportQueries(store ExportReadStore) ExportQueries {
	return &exportQueriesImpl{store: store}
}

var exportHeader = []any{
	"Entry ID", "Customer", "Phone", "Pet", "Service", "Requested date", "Preference",
	"Status", "Last offer", "Notified at", "Created at", "Notes",
}

func (q *exportQueriesImpl) ExportEntries(ctx context.Context, from, to time.Time) (*ExportFile, error) {
	if to.Before(from) || to.Sub(from) > maxExportDays*24*time.Hour {
		return nil, ErrInvalidExportRange
	}

	entries, err := q.store.ListRequestedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, errs.Wrap(err, "failed to name export sheet")
	}
	if err := f.SetSheetRow(exportSheet, "A1", &exportHeader); err != nil {
		return nil, errs.Wrap(err, "failed to write export header")
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, errs.Wrap(err, "failed to address export row")
		}
		row := []any{
			e.ID.String(),
			e.CustomerName,
			e.CustomerPhone,
			e.PetName,
			e.ServiceName,
			e.RequestedDate.Format(time.DateOnly),
			e.TimePreference,
			e.Status,
			optionalUUID(e.LastOfferID),
			optionalTime(e.NotifiedAt),
			e.CreatedAt.UTC().Format(time.RFC3339),
			e.Notes,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, errs.Wrap(err, "failed to write export row")
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errs.Wrap(err, "failed to render export workbook")
	}

	return &ExportFile{
		Name:        "waitlist_" + from.Format("20060102") + "_" + to.Format("20060102") + ".xlsx",
		ContentType: exportContentType,
		Body:        buf.Bytes(),
	}, nil
}

func optionalUUID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func optionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
