package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/carrental/internal/service/booking"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the read-only aggregation counts shown on the
// customer and agency dashboards.
type DashboardHandler struct {
	service booking.BookingUseCase
}

type countResponse struct {
	ActiveBookings int64 `json:"active_bookings"`
}

func NewDashboardHandler(service booking.BookingUseCase) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) Register(router *gin.RouterGroup) {
	router.GET("/customers/:id/active-bookings", h.customerCount)
	router.GET("/agencies/:id/active-bookings", h.agencyCount)
}

func (h *DashboardHandler) customerCount(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer id"})
		return
	}

	count, err := h.service.CountActiveForCustomer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, countResponse{ActiveBookings: count})
}

func (h *DashboardHandler) agencyCount(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid agency id"})
		return
	}

	count, err := h.service.CountActiveForAgency(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, countResponse{ActiveBookings: count})
}
