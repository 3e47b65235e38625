package api

import (
	"errors"
	"net/http"

	reqdto "grooming-waitlist/internal/handler/dto/request"
	resdto "grooming-waitlist/internal/handler/dto/response"
	"grooming-waitlist/internal/handler/httperr"
	"grooming-waitlist/internal/handler/middleware"
	"grooming-waitlist/internal/pkg/config"
	"grooming-waitlist/internal/pkg/cookie"
	"grooming-waitlist/internal/pkg/errs"
	"grooming-waitlist/internal/pkg/jwt"
	"grooming-waitlist/internal/usecase/commands"
	"grooming-waitlist/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

var errNoStaffInContext = errors.New("staff id missing from request context")

type AuthHandler struct {
	cmds       commands.AuthCommands
	q          queries.StaffQueries
	jwtService *jwt.Service
	cfg        config.Config
}

func NewAuthHandler(cmds commands.AuthCommands, q queries.StaffQueries, jwtService *jwt.Service, cfg config.Config) *AuthHandler {
	return &AuthHandler{
		cmds:       cmds,
		q:          q,
		jwtService: jwtService,
		cfg:        cfg,
	}
}

// @Summary Staff login
// @Description Login with email and password. The token is returned in the body and set as an HttpOnly cookie.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body reqdto.LoginRequest true "Login request"
// @Success 200 {object} resdto.LoginResponse
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req reqdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	result, err := h.cmds.Login(c.Request.Context(), req.ToInput())
	if err != nil {
		switch {
		case errs.Is(err, commands.ErrInvalidCredentials), errs.Is(err, commands.ErrAuthenticationFailed):
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid email or password", nil)
		case errs.Is(err, commands.ErrStaffInactive):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Account is inactive", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	member, err := h.q.GetCurrentStaff(c.Request.Context(), result.StaffID)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	cookie.SetAccessToken(c, h.cfg.Cookie, result.AccessToken, h.jwtService.TokenDuration())
	c.JSON(http.StatusOK, resdto.LoginResponse{
		AccessToken: result.AccessToken,
		Staff:       member,
	})
}

// @Summary Staff logout
// @Description Clear the session cookie. Tokens are stateless; a bearer token stays valid until it expires.
// @Tags auth
// @Security BearerAuth
// @Success 204 "No Content"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	cookie.ClearAccessToken(c, h.cfg.Cookie)
	c.Status(http.StatusNoContent)
}

// @Summary Current staff member
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} queries.StaffView
// @Failure 401 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	staffID, ok := middleware.GetStaffID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusInternalServerError, errNoStaffInContext, "Internal server error", nil)
		return
	}

	member, err := h.q.GetCurrentStaff(c.Request.Context(), staffID)
	if err != nil {
		switch {
		case errs.Is(err, queries.ErrStaffNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Staff member not found", nil)
		case errs.Is(err, queries.ErrStaffInactive):
			httperr.AbortWithError(c, http.StatusForbidden, err, "Account is inactive", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, member)
}
