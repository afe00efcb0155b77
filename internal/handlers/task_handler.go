package handlers

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"eventhub/internal/authz"
	"eventhub/internal/models"
	"eventhub/internal/pdf"
	"eventhub/internal/services"
)

type TaskHandler struct {
	service services.TaskService
	report  pdf.Generator
	loc     *time.Location
	locale  string
	now     func() time.Time
}

func NewTaskHandler(service services.TaskService, report pdf.Generator, loc *time.Location, locale string) *TaskHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TaskHandler{service: service, report: report, loc: loc, locale: locale, now: time.Now}
}

type taskRequest struct {
	Title         string              `json:"title" binding:"required"`
	TitleAr       string              `json:"titleAr"`
	Description   string              `json:"description"`
	DescriptionAr string              `json:"descriptionAr"`
	Status        models.TaskStatus   `json:"status"`
	Priority      models.TaskPriority `json:"priority"`
	DueDate       *models.Date        `json:"dueDate"`
	DepartmentID  int64               `json:"departmentId"`
	EventID       *string             `json:"eventId"`
}

func (r taskRequest) toModel() *models.Task {
	return &models.Task{
		Title:         r.Title,
		TitleAr:       r.TitleAr,
		Description:   r.Description,
		DescriptionAr: r.DescriptionAr,
		Status:        r.Status,
		Priority:      r.Priority,
		DueDate:       r.DueDate,
		DepartmentID:  r.DepartmentID,
		EventID:       r.EventID,
	}
}

// staffDepartment returns the department a staff user is confined to.
func staffDepartment(c *gin.Context) (int64, bool) {
	_, roleID := getUserAndRole(c)
	if roleID != authz.RoleStaff {
		return 0, false
	}
	dept, ok := getDepartment(c)
	if !ok {
		// staff without a department sees nothing
		return -1, true
	}
	return dept, true
}

func denyOtherDepartment(c *gin.Context, op string, departmentID int64) bool {
	if dept, scoped := staffDepartment(c); scoped && dept != departmentID {
		log.Printf("[task][%s][deny] rid=%s staff department=%d task department=%d", op, requestID(c), dept, departmentID)
		c.JSON(http.StatusForbidden, gin.H{"error": "task belongs to another department"})
		return true
	}
	return false
}

// Create godoc
// @Summary      Create task
// @Tags         Tasks
// @Accept       json
// @Produce      json
// @Param        task  body      taskRequest  true  "Task"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	userID, roleID := getUserAndRole(c)
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[task][create][bind][err] rid=%s %v", requestID(c), err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if dept, scoped := staffDepartment(c); scoped && req.DepartmentID == 0 {
		req.DepartmentID = dept
	}
	if denyOtherDepartment(c, "create", req.DepartmentID) {
		return
	}

	task, err := h.service.Create(c.Request.Context(), req.toModel())
	if err != nil {
		respondError(c, "task", "create", err)
		return
	}
	log.Printf("[task][create][ok] rid=%s id=%d department=%d by user=%d role=%d", requestID(c), task.ID, task.DepartmentID, userID, roleID)
	c.JSON(http.StatusCreated, task)
}

// GetByID godoc
// @Summary  Get task
// @Tags     Tasks
// @Produce  json
// @Param    id   path      int  true  "Task ID"
// @Success  200  {object}  models.Task
// @Failure  404  {object}  map[string]string
// @Router   /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	task, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "task", "get", err)
		return
	}
	if denyOtherDepartment(c, "get", task.DepartmentID) {
		return
	}
	c.JSON(http.StatusOK, task)
}

// GetAll godoc
// @Summary  List tasks
// @Tags     Tasks
// @Produce  json
// @Param    departmentId  query  int     false  "Department"
// @Param    eventId       query  string  false  "Event"
// @Param    status        query  string  false  "Status"
// @Param    open          query  bool    false  "Only pending statuses"
// @Success  200  {array}  models.Task
// @Router   /api/tasks [get]
func (h *TaskHandler) GetAll(c *gin.Context) {
	var filter models.TaskFilter
	if v := c.Query("departmentId"); v != "" {
		var id int64
		if _, err := fmt.Sscan(v, &id); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid departmentId"})
			return
		}
		filter.DepartmentID = &id
	}
	if dept, scoped := staffDepartment(c); scoped {
		filter.DepartmentID = &dept
	}
	if v := strings.TrimSpace(c.Query("eventId")); v != "" {
		filter.EventID = &v
	}
	if v := c.Query("status"); v != "" {
		st := models.TaskStatus(v)
		if !st.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		filter.Status = &st
	}
	filter.OpenOnly = c.Query("open") == "true"

	tasks, err := h.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "task", "list", err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// Update godoc
// @Summary  Update task
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    id    path      int          true  "Task ID"
// @Param    task  body      taskRequest  true  "Task"
// @Success  200   {object}  models.Task
// @Failure  409   {object}  map[string]string
// @Router   /api/tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	existing, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "task", "update", err)
		return
	}
	if denyOtherDepartment(c, "update", existing.DepartmentID) {
		return
	}
	if req.DepartmentID == 0 {
		req.DepartmentID = existing.DepartmentID
	}
	if req.Status == "" {
		req.Status = existing.Status
	}
	if req.Priority == "" {
		req.Priority = existing.Priority
	}
	if denyOtherDepartment(c, "update", req.DepartmentID) {
		return
	}

	task, err := h.service.Update(c.Request.Context(), id, req.toModel())
	if err != nil {
		respondError(c, "task", "update", err)
		return
	}
	log.Printf("[task][update][ok] rid=%s id=%d status=%s", requestID(c), id, task.Status)
	c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary  Delete task
// @Tags     Tasks
// @Param    id  path  int  true  "Task ID"
// @Success  204
// @Router   /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "task", "delete", err)
		return
	}
	log.Printf("[task][delete][ok] rid=%s id=%d", requestID(c), id)
	c.Status(http.StatusNoContent)
}

// ChangeStatus godoc
// @Summary  Change task status
// @Tags     Tasks
// @Accept   json
// @Produce  json
// @Param    id    path      int                true  "Task ID"
// @Param    body  body      map[string]string  true  "{\"to\": \"in_progress\"}"
// @Success  200   {object}  models.Task
// @Failure  409   {object}  map[string]string
// @Router   /api/tasks/{id}/status [post]
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body struct {
		To models.TaskStatus `json:"to" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	current, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "task", "status", err)
		return
	}
	if denyOtherDepartment(c, "status", current.DepartmentID) {
		return
	}
	task, err := h.service.UpdateStatus(c.Request.Context(), id, body.To)
	if err != nil {
		respondError(c, "task", "status", err)
		return
	}
	log.Printf("[task][status][ok] rid=%s id=%d %s -> %s", requestID(c), id, current.Status, task.Status)
	c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) pendingQuery(c *gin.Context) (models.Date, models.PendingRange, bool) {
	rng := models.PendingRange(strings.ToLower(c.DefaultQuery("range", string(models.RangeDay))))
	ref := services.Today(h.now(), h.loc)
	if v := strings.TrimSpace(c.Query("referenceDate")); v != "" {
		d, err := models.ParseDate(v)
		if err != nil {
			log.Printf("[task][pending][err] rid=%s bad referenceDate=%q", requestID(c), v)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid referenceDate, expected YYYY-MM-DD"})
			return ref, rng, false
		}
		ref = d
	}
	return ref, rng, true
}

// PendingRange godoc
// @Summary      Pending tasks by department and event
// @Description  Open tasks whose due date (or linked event) falls in the day or ISO week around referenceDate.
// @Tags         Tasks
// @Produce      json
// @Param        range          query     string  false  "day | week"  default(day)
// @Param        referenceDate  query     string  false  "YYYY-MM-DD, defaults to today"
// @Success      200            {object}  models.PendingTasksResult
// @Failure      400            {object}  map[string]string
// @Router       /api/tasks/pending-range [get]
func (h *TaskHandler) PendingRange(c *gin.Context) {
	ref, rng, ok := h.pendingQuery(c)
	if !ok {
		return
	}
	res, err := h.service.PendingRange(c.Request.Context(), ref, rng)
	if err != nil {
		respondError(c, "task", "pending", err)
		return
	}
	if dept, scoped := staffDepartment(c); scoped {
		res.Departments = onlyDepartment(res.Departments, dept)
	}
	c.JSON(http.StatusOK, res)
}

// PendingRangePDF godoc
// @Summary  Pending tasks report (PDF)
// @Tags     Tasks
// @Produce  application/pdf
// @Param    range          query  string  false  "day | week"
// @Param    referenceDate  query  string  false  "YYYY-MM-DD"
// @Param    locale         query  string  false  "en | ar"
// @Success  200
// @Router   /api/tasks/pending-range/pdf [get]
func (h *TaskHandler) PendingRangePDF(c *gin.Context) {
	ref, rng, ok := h.pendingQuery(c)
	if !ok {
		return
	}
	res, err := h.service.PendingRange(c.Request.Context(), ref, rng)
	if err != nil {
		respondError(c, "task", "pending_pdf", err)
		return
	}
	if dept, scoped := staffDepartment(c); scoped {
		res.Departments = onlyDepartment(res.Departments, dept)
	}
	locale := c.DefaultQuery("locale", h.locale)

	var buf bytes.Buffer
	if err := h.report.PendingTasksReport(&buf, res, locale); err != nil {
		respondError(c, "task", "pending_pdf", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="pending-%s-%s.pdf"`, rng, ref))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
	log.Printf("[task][pending_pdf][ok] rid=%s ref=%s range=%s departments=%d", requestID(c), ref, rng, len(res.Departments))
}

func onlyDepartment(groups []models.PendingDepartmentGroup, id int64) []models.PendingDepartmentGroup {
	out := []models.PendingDepartmentGroup{}
	for _, g := range groups {
		if g.Department.ID == id {
			out = append(out, g)
		}
	}
	return out
}
