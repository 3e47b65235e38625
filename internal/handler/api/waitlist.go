package api

import (
	"net/http"
	"strconv"

	"grooming-waitlist/internal/domain/waitlist"
	reqdto "grooming-waitlist/internal/handler/dto/request"
	resdto "grooming-waitlist/internal/handler/dto/response"
	"grooming-waitlist/internal/handler/httperr"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/usecase/commands"
	"grooming-waitlist/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const defaultCandidateLimit = 10

type WaitlistHandler struct {
	cmds    commands.WaitlistCommands
	q       queries.WaitlistQueries
	matcher queries.MatcherQueries
	export  queries.ExportQueries
}

func NewWaitlistHandler(
	cmds commands.WaitlistCommands,
	q queries.WaitlistQueries,
	matcher queries.MatcherQueries,
	export queries.ExportQueries,
) *WaitlistHandler {
	return &WaitlistHandler{cmds: cmds, q: q, matcher: matcher, export: export}
}

// @Summary Add a waitlist entry
// @Tags waitlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateEntryRequest true "Entry"
// @Success 201 {object} queries.WaitlistEntryView
// @Failure 400 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Router /waitlist [post]
func (h *WaitlistHandler) Create(c *gin.Context) {
	var req reqdto.CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid requested_date", nil)
		return
	}

	id, err := h.cmds.CreateEntry(c.Request.Context(), in)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}

	view, err := h.q.GetEntry(c.Request.Context(), id)
	if err != nil {
		// the entry exists; fall back to the bare id
		c.JSON(http.StatusCreated, resdto.CreatedResponse{ID: id})
		return
	}
	c.JSON(http.StatusCreated, view)
}

// @Summary Get a waitlist entry
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 200 {object} queries.WaitlistEntryView
// @Failure 404 {object} httperr.Response
// @Router /waitlist/{id} [get]
func (h *WaitlistHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetEntry(c.Request.Context(), id)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// @Summary List waitlist entries
// @Description Oldest first, keyset paginated.
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param status query string false "Entry status"
// @Param service_id query string false "Service ID"
// @Param cursor query string false "Cursor from a previous page"
// @Param limit query int false "Max items (default 20, max 200)"
// @Success 200 {object} resdto.EntryListResponse
// @Failure 400 {object} httperr.Response
// @Router /waitlist [get]
func (h *WaitlistHandler) List(c *gin.Context) {
	var q reqdto.ListEntriesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}

	items, next, err := h.q.ListEntries(c.Request.Context(), q.Filter(), q.Cursor, q.Limit)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	if items == nil {
		items = []*queries.WaitlistEntryView{}
	}
	c.JSON(http.StatusOK, resdto.EntryListResponse{Items: items, NextCursor: next})
}

// @Summary Cancel a waitlist entry
// @Tags waitlist
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /waitlist/{id}/cancel [post]
func (h *WaitlistHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cmds.CancelEntry(c.Request.Context(), id); err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Close an entry that cannot be served
// @Tags waitlist
// @Security BearerAuth
// @Param id path string true "Entry ID"
// @Success 204 "No Content"
// @Failure 404 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /waitlist/{id}/unfillable [post]
func (h *WaitlistHandler) MarkUnfillable(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cmds.MarkUnfillable(c.Request.Context(), id); err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Preview candidates for a slot
// @Description Runs the matcher without creating an offer.
// @Tags waitlist
// @Produce json
// @Security BearerAuth
// @Param service_id query string true "Service ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param time query string true "Start time (HH:MM)"
// @Param limit query int false "Max candidates (default 10)"
// @Success 200 {object} resdto.CandidateListResponse
// @Failure 400 {object} httperr.Response
// @Router /waitlist/candidates [get]
func (h *WaitlistHandler) Candidates(c *gin.Context) {
	var q reqdto.CandidatesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	serviceID, err := uuid.Parse(q.ServiceID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid service_id", nil)
		return
	}
	date, err := waitlist.ParseDate(q.Date)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date", nil)
		return
	}
	tod, err := waitlist.ParseTimeOfDay(q.Time)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid time", nil)
		return
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultCandidateLimit
	}

	items, err := h.matcher.FindCandidates(c.Request.Context(), serviceID, date, tod, limit)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	if items == nil {
		items = []*queries.CandidateView{}
	}
	c.JSON(http.StatusOK, resdto.FromCandidates(items))
}

// @Summary Export waitlist entries
// @Description Entries whose requested date falls in [from, to], as an xlsx workbook.
// @Tags waitlist
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param from query string true "From (YYYY-MM-DD)"
// @Param to query string true "To (YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} httperr.Response
// @Router /admin/waitlist/export [get]
func (h *WaitlistHandler) Export(c *gin.Context) {
	var q reqdto.ExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query", nil)
		return
	}
	from, err := waitlist.ParseDate(q.From)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid from date", nil)
		return
	}
	to, err := waitlist.ParseDate(q.To)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid to date", nil)
		return
	}

	file, err := h.export.ExportEntries(c.Request.Context(), from, to)
	if err != nil {
		abortWithUsecaseError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+file.Name+`"`)
	c.Header("Content-Length", strconv.Itoa(len(file.Body)))
	c.Data(http.StatusOK, file.ContentType, file.Body)
}

func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, errs.Wrapf(err, "parse %s", name), "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
