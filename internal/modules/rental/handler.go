package rental

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
	rentals := api.Group("/rentals")
	{
		rentals.POST("", h.Create)
		rentals.GET("/my-rentals", h.MyRentals)
		rentals.GET("/:id", h.Get)
		rentals.PATCH("/:id/cancel", h.Cancel)
	}
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	rentals := admin.Group("/rentals")
	{
		rentals.GET("", h.AdminList)
		rentals.GET("/stats", h.Stats)
		rentals.PATCH("/:id/status", h.UpdateStatus)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rental, err := h.service.Create(c.Request.Context(), c.GetInt64("user_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			response.Error(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", "One of the products does not exist")
		case errors.Is(err, ErrProductUnavailable):
			response.Error(c, http.StatusBadRequest, "PRODUCT_UNAVAILABLE", "One of the products is not available for booking")
		case errors.Is(err, ErrInvalidDurationType):
			response.Error(c, http.StatusBadRequest, "INVALID_DURATION_TYPE", "Duration type must be hour, day or week")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "At least one item is required")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create rental")
		}
		return
	}
	response.Success(c, http.StatusCreated, rental)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid rental ID")
		return
	}

	rental, err := h.service.Get(c.Request.Context(), c.GetInt64("user_id"), c.GetString("role"), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Rental not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You cannot access this rental")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load rental")
		}
		return
	}
	response.Success(c, http.StatusOK, rental)
}

func (h *Handler) MyRentals(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	rentals, total, err := h.service.MyRentals(c.Request.Context(), c.GetInt64("user_id"), q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list rentals")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"rentals":    rentals,
		"pagination": paginationFor(q, total),
	})
}

func (h *Handler) AdminList(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	rentals, total, err := h.service.AdminList(c.Request.Context(), q)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list rentals")
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"rentals":    rentals,
		"pagination": paginationFor(q, total),
	})
}

func (h *Handler) Cancel(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid rental ID")
		return
	}

	rental, err := h.service.Cancel(c.Request.Context(), c.GetInt64("user_id"), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Rental not found")
		case errors.Is(err, ErrForbidden):
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "You cannot cancel this rental")
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusBadRequest, "INVALID_TRANSITION", "Only upcoming rentals can be cancelled")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to cancel rental")
		}
		return
	}
	response.Success(c, http.StatusOK, rental)
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid rental ID")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	rental, err := h.service.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Rental not found")
		case errors.Is(err, ErrInvalidTransition):
			response.Error(c, http.StatusBadRequest, "INVALID_TRANSITION", "Requested status is not reachable from the current one")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update rental status")
		}
		return
	}
	response.Success(c, http.StatusOK, rental)
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load rental stats")
		return
	}
	response.Success(c, http.StatusOK, stats)
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
