package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/models"
	"eventhub/internal/services"
)

type UserHandler struct {
	service services.UserService
}

func NewUserHandler(service services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Password     string `json:"password" binding:"required"`
	RoleID       int    `json:"roleId" binding:"required"`
	DepartmentID *int64 `json:"departmentId"`
}

// @Summary  Create user (admin)
// @Tags     Users
// @Accept   json
// @Produce  json
// @Param    user  body      createUserRequest  true  "User"
// @Success  201   {object}  models.User
// @Failure  409   {object}  map[string]string
// @Router   /api/users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := &models.User{Name: req.Name, Email: req.Email, RoleID: req.RoleID, DepartmentID: req.DepartmentID}
	if err := h.service.CreateUserWithPassword(c.Request.Context(), user, req.Password); err != nil {
		respondError(c, "user", "create", err)
		return
	}
	adminID, _ := getUserAndRole(c)
	log.Printf("[user][create][ok] rid=%s id=%d by admin=%d", requestID(c), user.ID, adminID)
	c.JSON(http.StatusCreated, user)
}

// @Summary  List users (admin)
// @Tags     Users
// @Produce  json
// @Success  200  {array}  models.User
// @Router   /api/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.service.ListUsers(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, "user", "list", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// @Summary  Delete user (admin)
// @Tags     Users
// @Param    id  path  int  true  "User ID"
// @Success  204
// @Router   /api/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if me, _ := getUserAndRole(c); int64(me) == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete yourself"})
		return
	}
	if err := h.service.DeleteUser(c.Request.Context(), int(id)); err != nil {
		respondError(c, "user", "delete", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary  Current user
// @Tags     Users
// @Produce  json
// @Success  200  {object}  models.User
// @Router   /api/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	user, err := h.service.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "user", "me", err)
		return
	}
	c.JSON(http.StatusOK, user)
}
