package payment

import (
	"errors"
	"net/http"
	"strconv"

	"flexirent/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterPublicRoutes mounts the gateway callback, which arrives from the
// payment provider without a bearer token.
func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.POST("/payments/paytm/callback", h.PaytmCallback)
}

func (h *Handler) RegisterProtectedRoutes(api *gin.RouterGroup) {
	payments := api.Group("/payments")
	{
		payments.POST("/process", h.Process)
		payments.POST("/stripe/create-payment-intent", h.StripeCreateIntent)
		payments.POST("/stripe/confirm-payment", h.StripeConfirm)
		payments.POST("/paytm/initiate", h.PaytmInitiate)
		payments.POST("/paytm/verify", h.PaytmVerify)
		payments.GET("/history", h.History)
		payments.GET("/:id", h.Get)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/payments/:id/refund", h.Refund)
}

func (h *Handler) Process(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.Process(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrRentalNotFound):
			response.Error(c, http.StatusNotFound, "RENTAL_NOT_FOUND", "Rental not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "This rental does not belong to you")
		case errors.Is(err, ErrPaymentFailed):
			response.ErrorWithDetails(c, http.StatusBadRequest, "PAYMENT_FAILED", "Payment failed", resp.Payment)
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to process payment")
		}
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Payment processed successfully", resp)
}

func (h *Handler) StripeCreateIntent(c *gin.Context) {
	var req StripeIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.StripeCreateIntent(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrRentalNotFound):
			response.Error(c, http.StatusNotFound, "RENTAL_NOT_FOUND", "Rental not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "This rental does not belong to you")
		case errors.Is(err, ErrGateway):
			response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Payment provider rejected the request")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create payment intent")
		}
		return
	}
	response.Success(c, http.StatusOK, resp)
}

func (h *Handler) StripeConfirm(c *gin.Context) {
	var req StripeConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	resp, err := h.service.StripeConfirm(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrRentalNotFound):
			response.Error(c, http.StatusNotFound, "RENTAL_NOT_FOUND", "Rental not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "This rental does not belong to you")
		case errors.Is(err, ErrGateway):
			response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Payment provider rejected the confirmation")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to confirm payment")
		}
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Stripe payment confirmed successfully", resp)
}

func (h *Handler) PaytmInitiate(c *gin.Context) {
	var req PaytmInitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	callbackURL := scheme + "://" + c.Request.Host + "/api/payments/paytm/callback"

	resp, err := h.service.PaytmInitiate(c.Request.Context(), c.GetInt64("user_id"), req, callbackURL)
	if err != nil {
		switch {
		case errors.Is(err, ErrRentalNotFound):
			response.Error(c, http.StatusNotFound, "RENTAL_NOT_FOUND", "Rental not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "This rental does not belong to you")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to initiate Paytm payment")
		}
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Paytm payment initiated successfully", resp)
}

// PaytmCallback receives the gateway's form POST and redirects the browser
// back to the frontend.
func (h *Handler) PaytmCallback(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Malformed callback body")
		return
	}
	params := make(map[string]string, len(c.Request.PostForm))
	for k := range c.Request.PostForm {
		params[k] = c.Request.PostForm.Get(k)
	}

	redirect, err := h.service.PaytmCallback(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, ErrChecksumMismatch):
			response.Error(c, http.StatusForbidden, "CHECKSUM_MISMATCH", "Invalid checksum")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to handle Paytm callback")
		}
		return
	}
	c.Redirect(http.StatusFound, redirect)
}

func (h *Handler) PaytmVerify(c *gin.Context) {
	var req PaytmVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Order ID is required")
		return
	}

	result, err := h.service.PaytmVerify(c.Request.Context(), req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, ErrPaymentFailed):
			response.ErrorWithDetails(c, http.StatusBadRequest, "PAYMENT_FAILED", "Payment verification failed", result)
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
		case errors.Is(err, ErrGateway):
			response.Error(c, http.StatusBadGateway, "GATEWAY_ERROR", "Payment provider is unavailable")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to verify payment")
		}
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Payment verified successfully", result)
}

func (h *Handler) History(c *gin.Context) {
	payments, err := h.service.History(c.Request.Context(), c.GetInt64("user_id"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load payment history")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payments": payments})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid payment ID")
		return
	}

	p, err := h.service.Get(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You cannot access this payment")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load payment")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"payment": p})
}

func (h *Handler) Refund(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid payment ID")
		return
	}

	p, err := h.service.Refund(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Payment not found")
		case errors.Is(err, ErrNotRefundable):
			response.Error(c, http.StatusBadRequest, "NOT_REFUNDABLE", "Only successful payments can be refunded")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to refund payment")
		}
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Payment refunded successfully", gin.H{"payment": p})
}
