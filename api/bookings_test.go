package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (*domain.Booking, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) TransitionBooking(ctx context.Context, bookingID int64, requested domain.BookingStatus, actor domain.Actor) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, requested, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelOwnBooking(ctx context.Context, bookingID, customerID int64) (*domain.Booking, error) {
	args := m.Called(ctx, bookingID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CountActiveForCustomer(ctx context.Context, customerID int64) (int64, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingUseCase) CountActiveForAgency(ctx context.Context, agencyID int64) (int64, error) {
	args := m.Called(ctx, agencyID)
	return args.Get(0).(int64), args.Error(1)
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	pickup := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	req := createBookingRequest{
		CarID:         20,
		PickupAt:      pickup,
		DropoffAt:     pickup.Add(72 * time.Hour),
		PaymentMethod: "CARD",
	}
	body, _ := json.Marshal(req)
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-User-ID", "100")
	c.Request.Header.Set("X-User-Role", "CUSTOMER")

	created := &domain.Booking{
		ID:              7,
		Reference:       "CR-ABCDEF0123",
		CustomerID:      100,
		CarID:           20,
		Status:          domain.BookingStatusPending,
		TotalPrice:      648,
		SecurityDeposit: 162,
	}

	mockService.On("CreateBooking", c.Request.Context(), mock.MatchedBy(func(in booking.CreateBookingInput) bool {
		return in.CustomerID == 100 && in.CarID == 20 && in.PaymentMethod == domain.PaymentMethodCard
	})).Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response createBookingResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), response.BookingID)
	assert.Equal(t, "CR-ABCDEF0123", response.Reference)
	assert.Equal(t, int64(648), response.TotalPrice)
	assert.Equal(t, int64(162), response.DepositAmount)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_transition(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(transitionRequest{Status: "CONFIRMED"})
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("POST", "/bookings/7/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-User-ID", "200")
	c.Request.Header.Set("X-User-Role", "AGENCY_OWNER")
	c.Request.Header.Set("X-Agency-ID", "5")

	confirmed := &domain.Booking{ID: 7, Status: domain.BookingStatusConfirmed}
	expectedActor := domain.Actor{UserID: 200, Role: domain.RoleAgencyOwner, AgencyID: 5}

	mockService.On("TransitionBooking", c.Request.Context(), int64(7), domain.BookingStatusConfirmed, expectedActor).
		Return(confirmed, nil)

	handler.transition(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response statusResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "CONFIRMED", response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_transition_InvalidTransition(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(transitionRequest{Status: "CONFIRMED"})
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("POST", "/bookings/7/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-User-ID", "200")
	c.Request.Header.Set("X-User-Role", "AGENCY_OWNER")
	c.Request.Header.Set("X-Agency-ID", "5")

	mockService.On("TransitionBooking", c.Request.Context(), int64(7), domain.BookingStatusConfirmed, mock.Anything).
		Return(nil, &domain.InvalidTransitionError{
			Current:   "COMPLETED",
			Requested: "CONFIRMED",
			Role:      domain.RoleAgencyOwner,
		})

	handler.transition(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "COMPLETED", response["current"])
	assert.Equal(t, "CONFIRMED", response["requested"])
}

func TestBookingHandler_transition_Conflict(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(transitionRequest{Status: "CANCELLED"})
	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("POST", "/bookings/7/status", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Request.Header.Set("X-User-Role", "ADMIN")

	mockService.On("TransitionBooking", c.Request.Context(), int64(7), domain.BookingStatusCancelled, mock.Anything).
		Return(nil, domain.ErrConflict)

	handler.transition(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestBookingHandler_cancelOwn(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "7"}}
	c.Request = httptest.NewRequest("POST", "/bookings/7/cancel", nil)
	c.Request.Header.Set("X-User-ID", "100")
	c.Request.Header.Set("X-User-Role", "CUSTOMER")

	cancelled := &domain.Booking{ID: 7, Status: domain.BookingStatusCancelled}
	mockService.On("CancelOwnBooking", c.Request.Context(), int64(7), int64(100)).Return(cancelled, nil)

	handler.cancelOwn(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response statusResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "CANCELLED", response.Status)

	mockService.AssertExpectations(t)
}

func TestDashboardHandler_customerCount(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewDashboardHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	c.Params = gin.Params{{Key: "id", Value: "100"}}
	c.Request = httptest.NewRequest("GET", "/dashboard/customers/100/active-bookings", nil)

	mockService.On("CountActiveForCustomer", c.Request.Context(), int64(100)).Return(int64(3), nil)

	handler.customerCount(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response countResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), response.ActiveBookings)
}
