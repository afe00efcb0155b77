package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"eventhub/internal/models"
	"eventhub/internal/services"
)

type PartnershipHandler struct {
	service *services.PartnershipService
}

func NewPartnershipHandler(service *services.PartnershipService) *PartnershipHandler {
	return &PartnershipHandler{service: service}
}

type partnershipRequest struct {
	Name                      string                   `json:"name" binding:"required"`
	NameAr                    string                   `json:"nameAr"`
	Status                    models.PartnershipStatus `json:"status"`
	PartnershipType           string                   `json:"partnershipType"`
	StartDate                 *models.Date             `json:"startDate"`
	EndDate                   *models.Date             `json:"endDate"`
	LastActivityDate          *time.Time               `json:"lastActivityDate"`
	InactivityThresholdMonths int                      `json:"inactivityThresholdMonths"`
	NotifyOnInactivity        bool                     `json:"notifyOnInactivity"`
}

func (r partnershipRequest) apply(p *models.Partnership) {
	p.Name = r.Name
	p.NameAr = r.NameAr
	if r.Status != "" {
		p.Status = r.Status
	}
	p.PartnershipType = r.PartnershipType
	p.StartDate = r.StartDate
	p.EndDate = r.EndDate
	if r.LastActivityDate != nil {
		p.LastActivityDate = r.LastActivityDate
	}
	if r.InactivityThresholdMonths != 0 {
		p.InactivityThresholdMonths = r.InactivityThresholdMonths
	}
	p.NotifyOnInactivity = r.NotifyOnInactivity
}

// @Summary  Create partnership
// @Tags     Partnerships
// @Accept   json
// @Produce  json
// @Param    partnership  body      partnershipRequest  true  "Partnership"
// @Success  201          {object}  models.PartnershipWithStatus
// @Router   /api/partnerships [post]
func (h *PartnershipHandler) Create(c *gin.Context) {
	var req partnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var p models.Partnership
	req.apply(&p)
	if err := h.service.Create(c.Request.Context(), &p); err != nil {
		respondError(c, "partnership", "create", err)
		return
	}
	out, err := h.service.GetByID(c.Request.Context(), p.ID)
	if err != nil {
		respondError(c, "partnership", "create", err)
		return
	}
	log.Printf("[partnership][create][ok] rid=%s id=%d threshold=%d", requestID(c), p.ID, p.InactivityThresholdMonths)
	c.JSON(http.StatusCreated, out)
}

// @Summary  List partnerships with inactivity status
// @Tags     Partnerships
// @Produce  json
// @Param    limit   query  int  false  "Limit"
// @Param    offset  query  int  false  "Offset"
// @Success  200  {array}  models.PartnershipWithStatus
// @Router   /api/partnerships [get]
func (h *PartnershipHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	list, err := h.service.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, "partnership", "list", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary  Get partnership
// @Tags     Partnerships
// @Produce  json
// @Param    id   path      int  true  "Partnership ID"
// @Success  200  {object}  models.PartnershipWithStatus
// @Router   /api/partnerships/{id} [get]
func (h *PartnershipHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "partnership", "get", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary  Update partnership
// @Tags     Partnerships
// @Accept   json
// @Produce  json
// @Param    id           path      int                 true  "Partnership ID"
// @Param    partnership  body      partnershipRequest  true  "Partnership"
// @Success  200          {object}  models.PartnershipWithStatus
// @Router   /api/partnerships/{id} [put]
func (h *PartnershipHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req partnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "partnership", "update", err)
		return
	}
	p := current.Partnership
	req.apply(&p)
	if err := h.service.Update(c.Request.Context(), &p); err != nil {
		respondError(c, "partnership", "update", err)
		return
	}
	out, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "partnership", "update", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// @Summary  Delete partnership
// @Tags     Partnerships
// @Param    id  path  int  true  "Partnership ID"
// @Success  204
// @Router   /api/partnerships/{id} [delete]
func (h *PartnershipHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "partnership", "delete", err)
		return
	}
	log.Printf("[partnership][delete][ok] rid=%s id=%d", requestID(c), id)
	c.Status(http.StatusNoContent)
}

// Inactivity godoc
// @Summary      Inactivity status of a partnership
// @Description  Derived at request time from lastActivityDate and the configured threshold.
// @Tags         Partnerships
// @Produce      json
// @Param        id   path      int  true  "Partnership ID"
// @Success      200  {object}  models.InactivityStatus
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/partnerships/{id}/inactivity [get]
func (h *PartnershipHandler) Inactivity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	st, err := h.service.Inactivity(c.Request.Context(), id)
	if err != nil {
		respondError(c, "partnership", "inactivity", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary  Update inactivity threshold and notification opt-in
// @Tags     Partnerships
// @Accept   json
// @Produce  json
// @Param    id    path      int                   true  "Partnership ID"
// @Param    body  body      map[string]interface{}  true  "{\"thresholdMonths\": 6, \"notify\": true}"
// @Success  200   {object}  models.InactivityStatus
// @Router   /api/partnerships/{id}/inactivity-settings [put]
func (h *PartnershipHandler) UpdateInactivitySettings(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body struct {
		ThresholdMonths int  `json:"thresholdMonths"`
		Notify          bool `json:"notify"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.service.UpdateInactivitySettings(c.Request.Context(), id, body.ThresholdMonths, body.Notify)
	if err != nil {
		respondError(c, "partnership", "inactivity_settings", err)
		return
	}
	log.Printf("[partnership][inactivity_settings][ok] rid=%s id=%d months=%d notify=%v", requestID(c), id, body.ThresholdMonths, body.Notify)
	c.JSON(http.StatusOK, st)
}

// @Summary  Record an activity
// @Tags     Partnerships
// @Accept   json
// @Produce  json
// @Param    id        path      int                         true  "Partnership ID"
// @Param    activity  body      models.PartnershipActivity  true  "Activity"
// @Success  201       {object}  models.PartnershipActivity
// @Router   /api/partnerships/{id}/activities [post]
func (h *PartnershipHandler) AddActivity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var a models.PartnershipActivity
	if err := c.ShouldBindJSON(&a); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	a.ID = 0
	a.PartnershipID = id
	if userID, _ := getUserAndRole(c); userID > 0 {
		uid := int64(userID)
		a.CreatedBy = &uid
	}
	if err := h.service.AddActivity(c.Request.Context(), &a); err != nil {
		respondError(c, "partnership", "activity", err)
		return
	}
	log.Printf("[partnership][activity][ok] rid=%s id=%d type=%s at=%s", requestID(c), id, a.ActivityType, a.OccurredAt.Format(time.RFC3339))
	c.JSON(http.StatusCreated, a)
}

// @Summary  List activities
// @Tags     Partnerships
// @Produce  json
// @Param    id   path     int  true  "Partnership ID"
// @Success  200  {array}  models.PartnershipActivity
// @Router   /api/partnerships/{id}/activities [get]
func (h *PartnershipHandler) ListActivities(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if _, err := h.service.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, "partnership", "activities", err)
		return
	}
	list, err := h.service.ListActivities(c.Request.Context(), id)
	if err != nil {
		respondError(c, "partnership", "activities", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
