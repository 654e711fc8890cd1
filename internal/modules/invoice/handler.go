package invoice

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

func (h *Handler) RegisterProtectedRoutes(api *gin.RouterGroup) {
	invoices := api.Group("/invoices")
	{
		invoices.POST("/generate", h.Generate)
		invoices.GET("/user/:userId", h.UserInvoices)
		invoices.GET("/:id", h.Get)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	invoices := admin.Group("/invoices")
	{
		invoices.GET("", h.List)
		invoices.PUT("/:id/status", h.UpdateStatus)
		invoices.PUT("/:id/mark-paid", h.MarkPaid)
		invoices.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Rental ID is required")
		return
	}

	inv, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrRentalNotFound):
			response.Error(c, http.StatusNotFound, "RENTAL_NOT_FOUND", "Rental not found")
		case errors.Is(err, ErrAlreadyExists):
			response.Error(c, http.StatusConflict, "ALREADY_EXISTS", "Invoice already exists for this rental")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to generate invoice")
		}
		return
	}
	response.SuccessWithMessage(c, http.StatusCreated, "Invoice generated successfully", gin.H{"invoice": inv})
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid invoice ID")
		return
	}

	inv, err := h.service.Get(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Invoice not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You cannot access this invoice")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load invoice")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"invoice": inv})
}

func (h *Handler) UserInvoices(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	invoices, total, err := h.service.UserInvoices(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), userID, q)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You can only access your own invoices")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list invoices")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"invoices":   invoices,
		"pagination": paginationFor(q, total),
	})
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	var customerID int64
	if raw := c.Query("customer_id"); raw != "" {
		customerID, _ = strconv.ParseInt(raw, 10, 64)
	}

	invoices, total, err := h.service.List(c.Request.Context(), q, customerID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list invoices")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"invoices":   invoices,
		"pagination": paginationFor(q, total),
	})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid invoice ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	inv, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Invoice not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update invoice status")
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Invoice status updated successfully", gin.H{"invoice": inv})
}

func (h *Handler) MarkPaid(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid invoice ID")
		return
	}

	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	inv, err := h.service.MarkPaid(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Invoice not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark invoice as paid")
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Invoice marked as paid successfully", gin.H{"invoice": inv})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid invoice ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Invoice not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete invoice")
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Invoice deleted successfully", nil)
}

func paginationFor(q ListQuery, total int64) Pagination {
	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: int((total + int64(limit) - 1) / int64(limit)),
	}
}
