package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nft1025/task/internal/auth"
	"github.com/nft1025/task/internal/dto"
	"github.com/nft1025/task/internal/service"
)

// AuthHandler handles register, login, logout, and the session echo.
type AuthHandler struct {
	sessions *auth.Manager
	userSvc  *service.UserService
}

func NewAuthHandler(sessions *auth.Manager, userSvc *service.UserService) *AuthHandler {
	return &AuthHandler{sessions: sessions, userSvc: userSvc}
}

// Register godoc
// @Summary      Register
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Credentials"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}
	user, err := h.userSvc.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrUsernameTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}
	h.sessions.Issue(c, user)
	c.JSON(http.StatusCreated, dto.SessionResponse{ID: user.ID, Username: user.Username})
}

// Login godoc
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credentials"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password required"})
		return
	}
	user, err := h.userSvc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	h.sessions.Issue(c, user)
	c.JSON(http.StatusOK, dto.SessionResponse{ID: user.ID, Username: user.Username})
}

// Logout godoc
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	c.Status(http.StatusNoContent)
}

// Session godoc
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	sess := h.sessions.Get(c)
	if sess == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{ID: sess.UserID, Username: sess.Username})
}
