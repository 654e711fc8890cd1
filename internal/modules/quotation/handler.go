package quotation

import (
	"errors"
	"net/http"
	"strconv"

	"flexirent/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Handler exposes the admin-only quotation surface.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	quotations := admin.Group("/quotations")
	{
		quotations.GET("", h.List)
		quotations.GET("/stats", h.Stats)
		quotations.GET("/:id", h.Get)
		quotations.POST("", h.Create)
		quotations.PATCH("/:id/status", h.UpdateStatus)
		quotations.POST("/:id/convert", h.Convert)
		quotations.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	q, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			response.Error(c, http.StatusNotFound, "USER_NOT_FOUND", "Customer does not exist")
		case errors.Is(err, ErrProductNotFound):
			response.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "One of the products does not exist")
		case errors.Is(err, ErrInvalidDurationType):
			response.Error(c, http.StatusBadRequest, "INVALID_DURATION_TYPE", "Duration type must be hour, day or week")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "At least one item is required")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create quotation")
		}
		return
	}
	response.Success(c, http.StatusCreated, q)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid quotation ID")
		return
	}

	q, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quotation not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load quotation")
		return
	}
	response.Success(c, http.StatusOK, q)
}

func (h *Handler) List(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	quotations, total, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list quotations")
		return
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 10
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	response.Success(c, http.StatusOK, gin.H{
		"quotations": quotations,
		"pagination": Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: int((total + int64(limit) - 1) / int64(limit)),
		},
	})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid quotation ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	q, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quotation not found")
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusBadRequest, "INVALID_TRANSITION", "Requested status is not reachable from the current one")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update quotation status")
		}
		return
	}
	response.Success(c, http.StatusOK, q)
}

func (h *Handler) Convert(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid quotation ID")
		return
	}

	var req ConvertRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
	}

	rental, q, err := h.service.ConvertToRental(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quotation not found")
		case errors.Is(err, ErrNotAccepted):
			response.Error(c, http.StatusBadRequest, "NOT_ACCEPTED", "Only accepted quotations can be converted to rentals")
		case errors.Is(err, ErrExpired):
			response.Error(c, http.StatusBadRequest, "EXPIRED", "Quotation has expired")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to convert quotation")
		}
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Quotation converted to rental", gin.H{
		"rental":    rental,
		"quotation": q,
	})
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid quotation ID")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quotation not found")
		case errors.Is(err, ErrInvalidState):
			response.Error(c, http.StatusBadRequest, "INVALID_STATE", "Accepted or rejected quotations cannot be deleted")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete quotation")
		}
		return
	}
	response.SuccessWithMessage(c, http.StatusOK, "Quotation deleted", nil)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load quotation stats")
		return
	}
	response.Success(c, http.StatusOK, stats)
}
