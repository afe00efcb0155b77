package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/models"
	"eventhub/internal/services"
)

type DepartmentHandler struct {
	service *services.DepartmentService
}

func NewDepartmentHandler(service *services.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{service: service}
}

type departmentRequest struct {
	Name   string `json:"name" binding:"required"`
	NameAr string `json:"nameAr"`
	Email  string `json:"email"`
	Phone  string `json:"phone"`
}

// @Summary  Create department
// @Tags     Departments
// @Accept   json
// @Produce  json
// @Param    department  body      departmentRequest  true  "Department"
// @Success  201         {object}  models.Department
// @Router   /api/departments [post]
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d := &models.Department{Name: req.Name, NameAr: req.NameAr, Email: req.Email, Phone: req.Phone}
	if err := h.service.Create(c.Request.Context(), d); err != nil {
		respondError(c, "department", "create", err)
		return
	}
	log.Printf("[department][create][ok] rid=%s id=%d", requestID(c), d.ID)
	c.JSON(http.StatusCreated, d)
}

// @Summary  List departments
// @Tags     Departments
// @Produce  json
// @Success  200  {array}  models.Department
// @Router   /api/departments [get]
func (h *DepartmentHandler) List(c *gin.Context) {
	list, err := h.service.List(c.Request.Context())
	if err != nil {
		respondError(c, "department", "list", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary  Get department
// @Tags     Departments
// @Produce  json
// @Param    id   path      int  true  "Department ID"
// @Success  200  {object}  models.Department
// @Router   /api/departments/{id} [get]
func (h *DepartmentHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	d, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "department", "get", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary  Update department
// @Tags     Departments
// @Accept   json
// @Produce  json
// @Param    id          path      int                true  "Department ID"
// @Param    department  body      departmentRequest  true  "Department"
// @Success  200         {object}  models.Department
// @Router   /api/departments/{id} [put]
func (h *DepartmentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req departmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	d, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, "department", "update", err)
		return
	}
	d.Name, d.NameAr, d.Email, d.Phone = req.Name, req.NameAr, req.Email, req.Phone
	if err := h.service.Update(c.Request.Context(), d); err != nil {
		respondError(c, "department", "update", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// @Summary  Delete department
// @Tags     Departments
// @Param    id  path  int  true  "Department ID"
// @Success  204
// @Router   /api/departments/{id} [delete]
func (h *DepartmentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, "department", "delete", err)
		return
	}
	log.Printf("[department][delete][ok] rid=%s id=%d", requestID(c), id)
	c.Status(http.StatusNoContent)
}
