package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"eventhub/internal/models"
	"eventhub/internal/services"
)

type EventHandler struct {
	service *services.EventService
}

func NewEventHandler(service *services.EventService) *EventHandler {
	return &EventHandler{service: service}
}

type eventRequest struct {
	Name        string      `json:"name" binding:"required"`
	NameAr      string      `json:"nameAr"`
	StartDate   models.Date `json:"startDate"`
	EndDate     models.Date `json:"endDate"`
	Location    string      `json:"location"`
	LocationAr  string      `json:"locationAr"`
	Category    string      `json:"category"`
	Organizer   string      `json:"organizer"`
	URL         string      `json:"url"`
	Description string      `json:"description"`
}

func (r eventRequest) apply(e *models.Event) {
	e.Name = r.Name
	e.NameAr = r.NameAr
	e.StartDate = r.StartDate
	e.EndDate = r.EndDate
	e.Location = r.Location
	e.LocationAr = r.LocationAr
	e.Category = r.Category
	e.Organizer = r.Organizer
	e.URL = r.URL
	e.Description = r.Description
}

// Create godoc
// @Summary  Create event
// @Tags     Events
// @Accept   json
// @Produce  json
// @Param    event  body      eventRequest  true  "Event"
// @Success  201    {object}  models.Event
// @Router   /api/events [post]
func (h *EventHandler) Create(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var e models.Event
	req.apply(&e)
	if err := h.service.Create(c.Request.Context(), &e); err != nil {
		respondError(c, "event", "create", err)
		return
	}
	log.Printf("[event][create][ok] rid=%s id=%s start=%s end=%s", requestID(c), e.ID, e.StartDate, e.EndDate)
	c.JSON(http.StatusCreated, e)
}

// GetByID godoc
// @Summary  Get event
// @Tags     Events
// @Produce  json
// @Param    id   path      string  true  "Event UUID"
// @Success  200  {object}  models.Event
// @Router   /api/events/{id} [get]
func (h *EventHandler) GetByID(c *gin.Context) {
	e, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "event", "get", err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// List godoc
// @Summary  List events overlapping [from, to]
// @Tags     Events
// @Produce  json
// @Param    from      query  string  false  "YYYY-MM-DD"
// @Param    to        query  string  false  "YYYY-MM-DD"
// @Param    category  query  string  false  "Category"
// @Success  200  {array}  models.Event
// @Router   /api/events [get]
func (h *EventHandler) List(c *gin.Context) {
	filter := models.EventFilter{Category: strings.TrimSpace(c.Query("category"))}
	for _, p := range []struct {
		key string
		dst **models.Date
	}{{"from", &filter.From}, {"to", &filter.To}} {
		v := strings.TrimSpace(c.Query(p.key))
		if v == "" {
			continue
		}
		d, err := models.ParseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + p.key + ", expected YYYY-MM-DD"})
			return
		}
		*p.dst = &d
	}
	events, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "event", "list", err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// Update godoc
// @Summary  Update event
// @Tags     Events
// @Accept   json
// @Produce  json
// @Param    id     path      string        true  "Event UUID"
// @Param    event  body      eventRequest  true  "Event"
// @Success  200    {object}  models.Event
// @Router   /api/events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	e, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, "event", "update", err)
		return
	}
	req.apply(e)
	if err := h.service.Update(c.Request.Context(), e); err != nil {
		respondError(c, "event", "update", err)
		return
	}
	log.Printf("[event][update][ok] rid=%s id=%s", requestID(c), e.ID)
	c.JSON(http.StatusOK, e)
}

// Delete godoc
// @Summary  Delete event
// @Tags     Events
// @Param    id  path  string  true  "Event UUID"
// @Success  204
// @Router   /api/events/{id} [delete]
func (h *EventHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.service.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, "event", "delete", err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "event", "delete", err)
		return
	}
	log.Printf("[event][delete][ok] rid=%s id=%s", requestID(c), id)
	c.Status(http.StatusNoContent)
}

// LinkDepartment godoc
// @Summary  Link a department to an event
// @Tags     Events
// @Accept   json
// @Produce  json
// @Param    id    path      string            true  "Event UUID"
// @Param    body  body      map[string]int64  true  "{\"departmentId\": 3}"
// @Success  201   {object}  models.EventDepartment
// @Router   /api/events/{id}/departments [post]
func (h *EventHandler) LinkDepartment(c *gin.Context) {
	var body struct {
		DepartmentID int64 `json:"departmentId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	link, err := h.service.LinkDepartment(c.Request.Context(), c.Param("id"), body.DepartmentID)
	if err != nil {
		respondError(c, "event", "link", err)
		return
	}
	log.Printf("[event][link][ok] rid=%s event=%s department=%d link=%d", requestID(c), link.EventID, link.DepartmentID, link.ID)
	c.JSON(http.StatusCreated, link)
}

// ListDepartments godoc
// @Summary  Departments linked to an event
// @Tags     Events
// @Produce  json
// @Param    id   path     string  true  "Event UUID"
// @Success  200  {array}  models.EventDepartment
// @Router   /api/events/{id}/departments [get]
func (h *EventHandler) ListDepartments(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.service.GetByID(c.Request.Context(), id); err != nil {
		respondError(c, "event", "departments", err)
		return
	}
	links, err := h.service.ListDepartments(c.Request.Context(), id)
	if err != nil {
		respondError(c, "event", "departments", err)
		return
	}
	c.JSON(http.StatusOK, links)
}

// @Summary      Import events from a venue listing export
// @Description  Accepts a JSON array or a CSV file with title, url, start_date, end_date,
// @Description  location, organizer, sector and description. Upserts by url.
// @Tags         Events
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file     true   "JSON or CSV file"
// @Param        year  query     integer  false  "Year for dates that omit one"
// @Success      200   {object}  models.EventImportResult
// @Router       /api/events/import [post]
func (h *EventHandler) Import(c *gin.Context) {
	year := 0
	if v := strings.TrimSpace(c.Query("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1900 || y > 9999 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = y
	}
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	if fh.Size > maxImportSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, "event", "import", err)
		return
	}
	defer f.Close()

	res, err := h.service.ImportFeed(c.Request.Context(), f, year)
	if err != nil {
		respondError(c, "event", "import", err)
		return
	}
	log.Printf("[event][import][ok] rid=%s file=%q created=%d updated=%d errors=%d",
		requestID(c), fh.Filename, res.Created, res.Updated, len(res.Errors))
	c.JSON(http.StatusOK, res)
}
