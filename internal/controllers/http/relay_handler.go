package http

import (
	"net/http"
	"net/url"
	"strconv"

	"storefront-service/internal/domain"
	"storefront-service/internal/payment"

	"github.com/gin-gonic/gin"
)

// RelayHandler exposes the payment relay's two-endpoint wire surface.
type RelayHandler struct {
	relay      *payment.Relay
	failureURL string
}

func NewRelayHandler(relay *payment.Relay, failureURL string) *RelayHandler {
	return &RelayHandler{relay: relay, failureURL: failureURL}
}

func (h *RelayHandler) RegisterRoutes(r *gin.Engine) {
	r.POST("/initiate-payment", h.InitiatePayment)
	r.GET("/verify-payment", h.VerifyPayment)
}

func (h *RelayHandler) InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount := domain.CentsFromAmount(req.Amount)
	productRef := ""
	if req.ProductID != 0 {
		productRef = strconv.FormatUint(req.ProductID, 10)
	}

	result, err := h.relay.Initiate(c.Request.Context(), amount, productRef, req.SuccessURL, req.FailureURL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, InitiatePaymentResponse{PaymentURL: result.PaymentURL})
}

func (h *RelayHandler) VerifyPayment(c *gin.Context) {
	data := c.Query("data")
	if data == "" {
		c.Redirect(http.StatusSeeOther, h.failureURL+"?message="+url.QueryEscape("No payment data received."))
		return
	}

	redirect := h.relay.Verify(c.Request.Context(), data)
	c.Redirect(http.StatusSeeOther, redirect.URL)
}
