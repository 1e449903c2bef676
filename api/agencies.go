package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/carrental/internal/domain"
	"github.com/Domenick1991/carrental/internal/service/agency"
	"github.com/gin-gonic/gin"
)

type AgencyHandler struct {
	service agency.AgencyUseCase
}

type registerAgencyRequest struct {
	Name         string `json:"name"`
	OwnerID      int64  `json:"owner_id"`
	ContactEmail string `json:"contact_email"`
}

type agencyResponse struct {
	AgencyID int64  `json:"agency_id"`
	Slug     string `json:"slug"`
	Status   string `json:"status"`
}

type agencyTransitionRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

func NewAgencyHandler(service agency.AgencyUseCase) *AgencyHandler {
	return &AgencyHandler{service: service}
}

func (h *AgencyHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.register)
	router.POST("/:id/status", h.transition)
}

func (h *AgencyHandler) register(c *gin.Context) {
	var req registerAgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	actor := actorFrom(c)
	ownerID := req.OwnerID
	if ownerID == 0 {
		ownerID = actor.UserID
	}

	created, err := h.service.Register(c.Request.Context(), agency.RegisterInput{
		Name:         req.Name,
		OwnerID:      ownerID,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, agencyResponse{
		AgencyID: created.ID,
		Slug:     created.Slug,
		Status:   string(created.Status),
	})
}

func (h *AgencyHandler) transition(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid agency id"})
		return
	}

	var req agencyTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updated, err := h.service.TransitionAgency(c.Request.Context(), id, domain.AgencyStatus(req.Status), actorFrom(c), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, statusResponse{Status: string(updated.Status)})
}
