package api

import (
	"net/http"

	reqdto "grooming-waitlist/internal/handler/dto/request"
	"grooming-waitlist/internal/handler/httperr"
	"grooming-waitlist/internal/usecase/commands"

	"github.com/gin-gonic/gin"
)

type WebhookHandler struct {
	resolver commands.ResponseResolver
}

func NewWebhookHandler(resolver commands.ResponseResolver) *WebhookHandler {
	return &WebhookHandler{resolver: resolver}
}

// @Summary Inbound SMS reply
// @Description Resolves a customer's reply against their pending offer. The message field is the text to send back.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param request body reqdto.InboundSMSRequest true "Inbound message"
// @Success 200 {object} commands.Resolution
// @Failure 400 {object} httperr.Response
// @Failure 500 {object} commands.Resolution
// @Router /webhooks/sms [post]
func (h *WebhookHandler) InboundSMS(c *gin.Context) {
	var req reqdto.InboundSMSRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	res, err := h.resolver.ResolveResponse(c.Request.Context(), req.ToMessage())
	if err != nil {
		// keep the reply text so the provider can still answer the customer
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}
