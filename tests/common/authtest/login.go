//go:build unit || e2e

package authtest

import (
	"net/http"
	"testing"

	"grooming-waitlist/internal/handler/dto/request"
	"grooming-waitlist/internal/pkg/cookie"
	"grooming-waitlist/tests/common/dbtest"
	"grooming-waitlist/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func LoginStaff(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	sessionCookie := httptest.ExtractCookie(w, cookie.AccessTokenCookieName)
	require.NotNil(t, sessionCookie, "session cookie not set")
	require.NotEmpty(t, sessionCookie.Value, "session cookie is empty")

	return sessionCookie.Value
}

func CreateAndLogin(t *testing.T, db dbtest.DBLike, router *gin.Engine, email, role string) string {
	t.Helper()
	dbtest.CreateTestStaff(t, db, email, role)
	return LoginStaff(t, router, email, dbtest.DefaultPassword)
}
