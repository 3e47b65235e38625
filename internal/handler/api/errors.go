package api

import (
	"net/http"

	"grooming-waitlist/internal/handler/httperr"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/usecase/commands"
	"grooming-waitlist/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type errorMapping struct {
	target  error
	status  int
	message string
}

// first match wins, so the more specific sentinels go before the generic ones
var errorMappings = []errorMapping{
	{commands.ErrEntryNotFound, http.StatusNotFound, "Waitlist entry not found"},
	{queries.ErrEntryNotFound, http.StatusNotFound, "Waitlist entry not found"},
	{queries.ErrOfferNotFound, http.StatusNotFound, "Offer not found"},
	{commands.ErrAppointmentNotFound, http.StatusNotFound, "Appointment not found"},
	{commands.ErrServiceNotFound, http.StatusNotFound, "Service not found"},
	{queries.ErrStaffNotFound, http.StatusNotFound, "Staff member not found"},

	{commands.ErrNoEligibleEntries, http.StatusConflict, "None of the candidates can receive this offer"},
	{commands.ErrStaffEmailTaken, http.StatusConflict, "Email already registered"},
	{errs.ErrIdempotencyInProgress, http.StatusConflict, "A request with this idempotency key is still in progress"},
	{errs.ErrInvalidStateTransition, http.StatusConflict, "Invalid state transition"},

	{errs.ErrIdempotencyKeyRequired, http.StatusBadRequest, "Idempotency-Key header required"},
	{queries.ErrInvalidCursor, http.StatusBadRequest, "Invalid cursor"},
	{queries.ErrInvalidExportRange, http.StatusBadRequest, "Invalid export range"},

	{errs.ErrIdempotencyKeyReused, http.StatusUnprocessableEntity, "Idempotency key reused with a different request"},
	{commands.ErrUnknownReference, http.StatusUnprocessableEntity, "Unknown customer, pet or service"},
	{errs.ErrDomainValidation, http.StatusUnprocessableEntity, "Validation failed"},
}

func statusFor(err error) (int, string) {
	for _, m := range errorMappings {
		if errs.Is(err, m.target) {
			return m.status, m.message
		}
	}
	return http.StatusInternalServerError, "Internal server error"
}

// abortWithUsecaseError picks the status from the error chain.
func abortWithUsecaseError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	var detail any
	if status == http.StatusUnprocessableEntity || status == http.StatusConflict {
		detail = err.Error()
	}
	httperr.AbortWithError(c, status, err, msg, detail)
}
