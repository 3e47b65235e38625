package api

import (
	"errors"
	"net/http"

	reqdto "grooming-waitlist/internal/handler/dto/request"
	resdto "grooming-waitlist/internal/handler/dto/response"
	"grooming-waitlist/internal/handler/httperr"
	"grooming-waitlist/internal/handler/middleware"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/usecase/commands"
	"grooming-waitlist/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const IdempotencyKeyHeader = "Idempotency-Key"

type OfferHandler struct {
	cmds     commands.OfferCommands
	resolver commands.ResponseResolver
	sweeper  commands.SweeperCommands
	q        queries.OfferQueries
}

func NewOfferHandler(
	cmds commands.OfferCommands,
	resolver commands.ResponseResolver,
	sweeper commands.SweeperCommands,
	q queries.OfferQueries,
) *OfferHandler {
	return &OfferHandler{cmds: cmds, resolver: resolver, sweeper: sweeper, q: q}
}

// @Summary Open a slot
// @Description Match the slot against the waitlist and broadcast one offer to the best candidates.
// @Description Retrying with the same Idempotency-Key returns the first response.
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "UUID"
// @Param request body reqdto.OpenSlotRequest true "Slot"
// @Success 200 {object} resdto.OpenSlotResponse
// @Success 201 {object} resdto.OpenSlotResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /admin/slots/open [post]
func (h *OfferHandler) OpenSlot(c *gin.Context) {
	staffID, ok := middleware.GetStaffID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoStaffInContext, "Internal server error", nil)
		return
	}

	rawKey := c.GetHeader(IdempotencyKeyHeader)
	if rawKey == "" {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.ErrIdempotencyKeyRequired, "Idempotency-Key header required", nil)
		return
	}
	key, err := uuid.Parse(rawKey)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Idempotency-Key must be a UUID", nil)
		return
	}

	var req reqdto.OpenSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	result, err := h.cmds.OpenSlot(c.Request.Context(), req.ToInput(), staffID, key)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	status := http.StatusOK
	if result.Outcome == commands.OpenSlotOffered && !result.IsReplayed {
		status = http.StatusCreated
	}
	c.JSON(status, resdto.FromOpenSlotResult(result))
}

// @Summary Create an offer for chosen entries
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateOfferRequest true "Offer"
// @Success 201 {object} commands.OfferResult
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /admin/offers [post]
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	var req reqdto.CreateOfferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date or time", nil)
		return
	}

	result, err := h.cmds.CreateOffer(c.Request.Context(), in)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// @Summary Get an offer
// @Description The offer with every entry it was sent to.
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Success 200 {object} queries.SlotOfferView
// @Failure 404 {object} httperr.Response
// @Router /admin/offers/{id} [get]
func (h *OfferHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetOffer(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary Book an offer for an entry
// @Description Accept on the customer's behalf. Races customer replies under the same rules.
// @Tags offers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Offer ID"
// @Param request body reqdto.AdminBookRequest true "Entry"
// @Success 200 {object} commands.Resolution
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/offers/{id}/book [post]
func (h *OfferHandler) Book(c *gin.Context) {
	offerID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.AdminBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	res, err := h.resolver.AdminBook(c.Request.Context(), offerID, req.EntryID)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	switch res.Action {
	case commands.ActionBooked:
		c.JSON(http.StatusOK, res)
	default:
		// lost the race or the offer lapsed
		httperr.AbortWithError(c, http.StatusConflict, errors.New(string(res.Action)), res.Message, res)
	}
}

// @Summary Cancel an appointment
// @Description Cancels the appointment and reoffers its slot to the waitlist.
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Appointment ID"
// @Success 200 {object} resdto.CancelAppointmentResponse
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /admin/appointments/{id}/cancel [post]
func (h *OfferHandler) CancelAppointment(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.cmds.CancelAppointment(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromCancelAppointmentResult(result))
}

// @Summary Run the expiration sweep
// @Tags offers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} commands.SweepResult
// @Router /admin/offers/sweep [post]
func (h *OfferHandler) Sweep(c *gin.Context) {
	result, err := h.sweeper.ProcessExpiredOffers(c.Request.Context())
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
