package users

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sharepool/sharepool/internal/sharing"
)

// Handlers provides HTTP handlers for the user directory
type Handlers struct {
	service UserService
	logger  *zap.Logger
}

// NewHandlers creates new user directory handlers
func NewHandlers(service UserService, logger *zap.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers all user directory routes. These endpoints do not
// require the identity header.
func (h *Handlers) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/users")
	{
		group.GET("", h.ListUsers)
		group.GET("/:userId", h.GetUser)
		group.POST("", h.AddUser)
		group.PATCH("/:userId", h.UpdateUser)
		group.DELETE("/:userId", h.DeleteUser)
	}
}

func (h *Handlers) ListUsers(c *gin.Context) {
	list, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list users", zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) GetUser(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handlers) AddUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.service.AddUser(c.Request.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to add user", zap.String("email", req.Email), zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handlers) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	user, err := h.service.UpdateUser(c.Request.Context(), id, &req)
	if err != nil {
		h.logger.Error("Failed to update user", zap.Int64("user_id", id), zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handlers) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		h.logger.Error("Failed to delete user", zap.Int64("user_id", id), zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}
