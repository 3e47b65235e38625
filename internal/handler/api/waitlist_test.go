//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"grooming-waitlist/internal/domain/waitlist"
	"grooming-waitlist/internal/handler/api"
	resdto "grooming-waitlist/internal/handler/dto/response"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/usecase/commands"
	"grooming-waitlist/internal/usecase/queries"
	"grooming-waitlist/tests/common/builder"
	"grooming-waitlist/tests/common/httptest"
	"grooming-waitlist/tests/common/testutil"
	commandsmock "grooming-waitlist/tests/mock/commands"
	queriesmock "grooming-waitlist/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type WaitlistHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockCmds    *commandsmock.MockWaitlistCommands
	mockQueries *queriesmock.MockWaitlistQueries
	mockMatcher *queriesmock.MockMatcherQueries
	mockExport  *queriesmock.MockExportQueries
}

func (s *WaitlistHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCmds = commandsmock.NewMockWaitlistCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockWaitlistQueries(s.mockCtrl)
	s.mockMatcher = queriesmock.NewMockMatcherQueries(s.mockCtrl)
	s.mockExport = queriesmock.NewMockExportQueries(s.mockCtrl)
	h := api.NewWaitlistHandler(s.mockCmds, s.mockQueries, s.mockMatcher, s.mockExport)

	s.router.POST("/waitlist", h.Create)
	s.router.GET("/waitlist", h.List)
	s.router.GET("/waitlist/candidates", h.Candidates)
	s.router.GET("/waitlist/:id", h.Get)
	s.router.POST("/waitlist/:id/cancel", h.Cancel)
	s.router.POST("/waitlist/:id/unfillable", h.MarkUnfillable)
	s.router.GET("/export", h.Export)
}

func (s *WaitlistHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestWaitlistHandlerSuite(t *testing.T) {
	suite.Run(t, new(WaitlistHandlerTestSuite))
}

type testCaseWaitlist struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

func (s *WaitlistHandlerTestSuite) TestCreate() {
	entry := builder.NewEntryBuilder()
	reqBody := entry.BuildCreateRequestDTO()
	view := entry.BuildView()

	s.Run("success: returns 201 with the stored entry", func() {
		s.mockCmds.EXPECT().CreateEntry(gomock.Any(), entry.BuildCreateInput()).Return(view.ID, nil).Times(1)
		s.mockQueries.EXPECT().GetEntry(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/waitlist", reqBody, "")

		var response queries.WaitlistEntryView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.ID, response.ID)
		s.Equal("active", response.Status)
	})

	s.Run("success: falls back to the id when the read fails", func() {
		s.mockCmds.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(view.ID, nil).Times(1)
		s.mockQueries.EXPECT().GetEntry(gomock.Any(), view.ID).Return(nil, errors.New("replica lag")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/waitlist", reqBody, "")

		var response resdto.CreatedResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(view.ID, response.ID)
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		cases := []testCaseWaitlist{
			{name: "missing customer_id", mutate: testutil.Field("customer_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing pet_id", mutate: testutil.Field("pet_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing service_id", mutate: testutil.Field("service_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing requested_date", mutate: testutil.Field("requested_date", nil), expectCode: http.StatusBadRequest},
			{name: "malformed requested_date", mutate: testutil.Field("requested_date", "05/03/2026"), expectCode: http.StatusBadRequest},
			{name: "unknown preference", mutate: testutil.Field("time_preference", "evening"), expectCode: http.StatusBadRequest},
			{name: "notes over 1000", mutate: testutil.Field("notes", strings.Repeat("n", 1001)), expectCode: http.StatusBadRequest},
			{name: "malformed uuid", mutate: testutil.Field("pet_id", "not-a-uuid"), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/waitlist", requestMap, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "unknown reference",
				err:            errs.Mark(errors.New("pet missing"), commands.ErrUnknownReference),
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Unknown customer, pet or service",
			},
			{
				name:           "domain validation",
				err:            errs.Mark(waitlist.ErrRequestedDateInPast, errs.ErrDomainValidation),
				expectedStatus: http.StatusUnprocessableEntity,
				expectedMsg:    "Validation failed",
			},
			{
				name:           "internal server error",
				err:            errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}
		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCmds.EXPECT().CreateEntry(gomock.Any(), gomock.Any()).Return(uuid.Nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/waitlist", reqBody, "")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

func (s *WaitlistHandlerTestSuite) TestGet() {
	view := builder.NewEntryBuilder().BuildView()

	s.Run("success", func() {
		s.mockQueries.EXPECT().GetEntry(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/waitlist/"+view.ID.String(), nil, "")

		var response queries.WaitlistEntryView
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.CustomerName, response.CustomerName)
	})

	s.Run("error: 404 when missing", func() {
		s.mockQueries.EXPECT().GetEntry(gomock.Any(), view.ID).Return(nil, queries.ErrEntryNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/waitlist/"+view.ID.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Waitlist entry not found")
	})

	s.Run("error: 400 on a malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/waitlist/42", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid id")
	})
}

func (s *WaitlistHandlerTestSuite) TestList() {
	serviceID := uuid.New()
	items := []*queries.WaitlistEntryView{builder.NewEntryBuilder().BuildView(), builder.NewEntryBuilder().BuildView()}

	s.Run("success: passes filter and cursor through", func() {
		s.mockQueries.EXPECT().
			ListEntries(gomock.Any(), queries.EntryFilter{Status: "active", ServiceID: &serviceID}, "abc", 2).
			Return(items, "next-page", nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/waitlist?status=active&service_id="+serviceID.String()+"&cursor=abc&limit=2", nil, "")

		var response resdto.EntryListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Items, 2)
		s.Equal("next-page", response.NextCursor)
	})

	s.Run("success: empty page renders an empty array", func() {
		s.mockQueries.EXPECT().ListEntries(gomock.Any(), queries.EntryFilter{}, "", 0).
			Return(nil, "", nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/waitlist", nil, "")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"items":[]}`, rec.Body.String())
	})

	s.Run("error: unknown status", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/waitlist?status=waiting", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query")
	})

	s.Run("error: bad cursor", func() {
		s.mockQueries.EXPECT().ListEntries(gomock.Any(), gomock.Any(), "garbage", 0).
			Return(nil, "", queries.ErrInvalidCursor).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/waitlist?cursor=garbage", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid cursor")
	})
}

func (s *WaitlistHandlerTestSuite) TestCancelAndUnfillable() {
	id := uuid.New()

	s.Run("cancel: 204", func() {
		s.mockCmds.EXPECT().CancelEntry(gomock.Any(), id).Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/waitlist/"+id.String()+"/cancel", nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("cancel: 409 from a terminal state", func() {
		s.mockCmds.EXPECT().CancelEntry(gomock.Any(), id).
			Return(errs.Mark(waitlist.ErrTransitionNotAllowed, errs.ErrInvalidStateTransition)).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/waitlist/"+id.String()+"/cancel", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Invalid state transition")
	})

	s.Run("cancel: 404", func() {
		s.mockCmds.EXPECT().CancelEntry(gomock.Any(), id).Return(commands.ErrEntryNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/waitlist/"+id.String()+"/cancel", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Waitlist entry not found")
	})

	s.Run("unfillable: 204", func() {
		s.mockCmds.EXPECT().MarkUnfillable(gomock.Any(), id).Return(nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/waitlist/"+id.String()+"/unfillable", nil, "")
		s.Equal(http.StatusNoContent, rec.Code)
	})
}

func (s *WaitlistHandlerTestSuite) TestCandidates() {
	serviceID := uuid.New()
	candidate := builder.NewEntryBuilder().BuildCandidate()
	base := "/waitlist/candidates?service_id=" + serviceID.String()

	s.Run("success: default limit", func() {
		tod, _ := waitlist.NewTimeOfDay(14, 30)
		s.mockMatcher.EXPECT().
			FindCandidates(gomock.Any(), serviceID, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), tod, 10).
			Return([]*queries.CandidateView{candidate}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"&date=2026-03-05&time=14:30", nil, "")

		var response resdto.CandidateListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(1, response.Count)
		s.Equal(candidate.EntryID, response.Items[0].EntryID)
	})

	s.Run("success: no candidates", func() {
		s.mockMatcher.EXPECT().FindCandidates(gomock.Any(), serviceID, gomock.Any(), gomock.Any(), 3).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"&date=2026-03-05&time=09:00&limit=3", nil, "")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`{"items":[],"count":0}`, rec.Body.String())
	})

	s.Run("error: bad date or time", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"&date=tomorrow&time=14:30", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid date")

		rec = httptest.PerformRequest(s.T(), s.router, http.MethodGet, base+"&date=2026-03-05&time=25:00", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid time")
	})
}

func (s *WaitlistHandlerTestSuite) TestExport() {
	s.Run("success: streams the workbook", func() {
		file := &queries.ExportFile{
			Name:        "waitlist_2026-03-01_2026-03-31.xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Body:        []byte("PK\x03\x04"),
		}
		s.mockExport.EXPECT().
			ExportEntries(gomock.Any(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)).
			Return(file, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/export?from=2026-03-01&to=2026-03-31", nil, "")
		s.Equal(http.StatusOK, rec.Code)
		httptest.AssertHeaders(s.T(), rec, map[string]string{
			"Content-Type":        file.ContentType,
			"Content-Disposition": `attachment; filename="waitlist_2026-03-01_2026-03-31.xlsx"`,
			"Content-Length":      "4",
		})
		s.Equal(file.Body, rec.Body.Bytes())
	})

	s.Run("error: inverted range", func() {
		s.mockExport.EXPECT().ExportEntries(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, queries.ErrInvalidExportRange).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/export?from=2026-03-31&to=2026-03-01", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid export range")
	})

	s.Run("error: missing bound", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/export?from=2026-03-01", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid query")
	})
}
