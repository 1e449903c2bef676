package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	CustomerID         int64     `json:"customer_id"`
	CarID              int64     `json:"car_id"`
	PickupAt           time.Time `json:"pickup_at"`
	DropoffAt          time.Time `json:"dropoff_at"`
	ExtrasPrice        int64     `json:"extras_price"`
	InsurancePrice     int64     `json:"insurance_price"`
	PaymentMethod      string    `json:"payment_method"`
	ConfirmImmediately bool      `json:"confirm_immediately"`
}

type createBookingResponse struct {
	BookingID     int64  `json:"booking_id"`
	Reference     string `json:"reference"`
	Status        string `json:"status"`
	TotalPrice    int64  `json:"total_price"`
	DepositAmount int64  `json:"deposit_amount"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.POST("/:id/status", h.transition)
	router.POST("/:id/cancel", h.cancelOwn)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFrom(c)
	customerID := req.CustomerID
	if customerID == 0 {
		customerID = actor.UserID
	}

	created, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		CustomerID:         customerID,
		CarID:              req.CarID,
		PickupAt:           req.PickupAt,
		DropoffAt:          req.DropoffAt,
		ExtrasPrice:        req.ExtrasPrice,
		InsurancePrice:     req.InsurancePrice,
		PaymentMethod:      domain.PaymentMethod(req.PaymentMethod),
		ConfirmImmediately: req.ConfirmImmediately,
		Actor:              actor,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, createBookingResponse{
		BookingID:     created.ID,
		Reference:     created.Reference,
		Status:        string(created.Status),
		TotalPrice:    created.TotalPrice,
		DepositAmount: created.SecurityDeposit,
	})
}

func (h *BookingHandler) transition(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.TransitionBooking(c.Request.Context(), id, domain.BookingStatus(req.Status), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: string(updated.Status)})
}

func (h *BookingHandler) cancelOwn(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	updated, err := h.service.CancelOwnBooking(c.Request.Context(), id, actorFrom(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: string(updated.Status)})
}
