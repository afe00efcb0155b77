package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"eventhub/internal/middleware"
	"eventhub/internal/models"
	"eventhub/internal/services"
	"eventhub/internal/utils"
)

const refreshTTL = 30 * 24 * time.Hour

type AuthHandler struct {
	userService services.UserService
	authService services.AuthService
	secret      []byte
	accessTTL   time.Duration
}

func NewAuthHandler(userService services.UserService, authService services.AuthService, secret []byte, accessTTL time.Duration) *AuthHandler {
	return &AuthHandler{userService: userService, authService: authService, secret: secret, accessTTL: accessTTL}
}

func (h *AuthHandler) issueAccess(user *models.User) (string, time.Time, error) {
	return middleware.IssueToken(h.secret, middleware.Claims{
		UserID:       user.ID,
		RoleID:       user.RoleID,
		DepartmentID: user.DepartmentID,
	}, h.accessTTL)
}

// @Summary      Login
// @Description  Checks credentials and returns an access token and a refresh token
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        login  body      models.LoginRequest  true  "Credentials"
// @Success      200    {object}  map[string]interface{}
// @Failure      400    {object}  map[string]string
// @Failure      401    {object}  map[string]string
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	start := time.Now()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("[auth][login] bad request: bind json failed: err=%v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := strings.TrimSpace(req.Email)
	log.Printf("[auth][login] attempt rid=%s email=%q", requestID(c), email)

	user, err := h.userService.GetUserByEmail(c.Request.Context(), email)
	if err != nil || user == nil {
		log.Printf("[auth][login] user not found by email=%q: err=%v", email, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if !h.authService.CheckPassword(user.PasswordHash, strings.TrimSpace(req.Password)) {
		log.Printf("[auth][login] password mismatch for userID=%d", user.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	access, exp, err := h.issueAccess(user)
	if err != nil {
		log.Printf("[auth][login] sign access token failed for userID=%d: err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}

	// opaque refresh token, stored on the user row
	rt, err := utils.NewRefreshToken(32)
	if err != nil {
		log.Printf("[auth][login] new refresh token failed for userID=%d: err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate refresh token"})
		return
	}
	if err := h.userService.UpdateRefresh(c.Request.Context(), user.ID, rt, time.Now().Add(refreshTTL)); err != nil {
		log.Printf("[auth][login] store refresh token failed for userID=%d: err=%v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store refresh token"})
		return
	}

	log.Printf("[auth][login] success userID=%d role=%d took=%s", user.ID, user.RoleID, time.Since(start).Truncate(time.Millisecond))
	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"tokens": gin.H{
			"accessToken":  access,
			"expiresAt":    exp,
			"refreshToken": rt,
		},
	})
}

// @Summary  Rotate refresh token
// @Tags     Auth
// @Accept   json
// @Produce  json
// @Param    body  body      map[string]string  true  "{\"refreshToken\": \"...\"}"
// @Success  200   {object}  map[string]interface{}
// @Failure  401   {object}  map[string]string
// @Router   /refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	old := strings.TrimSpace(req.RefreshToken)
	user, err := h.userService.GetByRefreshToken(ctx, old)
	if err != nil || user == nil || user.RefreshToken == nil || user.RefreshExpiresAt == nil || user.RefreshRevoked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}
	if time.Now().After(*user.RefreshExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired"})
		return
	}

	newRT, err := utils.NewRefreshToken(32)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rotate refresh token"})
		return
	}
	rotated, err := h.userService.RotateRefresh(ctx, old, newRT, time.Now().Add(refreshTTL))
	if err != nil || rotated == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token"})
		return
	}

	access, exp, err := h.issueAccess(rotated)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate access token"})
		return
	}
	log.Printf("[auth][refresh][ok] rid=%s userID=%d", requestID(c), rotated.ID)
	c.JSON(http.StatusOK, gin.H{
		"accessToken":  access,
		"expiresAt":    exp,
		"refreshToken": newRT,
	})
}

// @Summary  Logout (revokes the refresh token)
// @Tags     Auth
// @Success  204
// @Router   /api/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := getUserAndRole(c)
	if err := h.userService.ClearRefresh(c.Request.Context(), userID); err != nil {
		respondError(c, "auth", "logout", err)
		return
	}
	c.Status(http.StatusNoContent)
}
