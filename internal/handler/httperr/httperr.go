package httperr

import (
	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request logger stores the request id under.
const RequestIDKey = "request_id"

type Body struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type Response struct {
	Status int  `json:"-"`
	Error  Body `json:"error"`
	Detail any  `json:"detail,omitempty"`
}

func New(c *gin.Context, status int, msg string, detail any) Response {
	return Response{
		Status: status,
		Error:  Body{Message: msg, RequestID: c.GetString(RequestIDKey)},
		Detail: detail,
	}
}

// AbortWithError writes msg to the client and keeps err on the context for the request log.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := New(c, status, msg, detail)
	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
