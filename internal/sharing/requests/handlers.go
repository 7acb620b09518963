package requests

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sharepool/sharepool/internal/sharing"
)

// Handlers provides HTTP handlers for the item request broker
type Handlers struct {
	service RequestService
	logger  *zap.Logger
}

// NewHandlers creates new item request handlers
func NewHandlers(service RequestService, logger *zap.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers all item request routes. Every endpoint requires
// the identity header.
func (h *Handlers) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/requests")
	{
		group.POST("", h.AddRequest)
		group.GET("", h.ListByRequestor)
		group.GET("/all", h.ListOthers)
		group.GET("/:requestId", h.GetByID)
	}
}

func (h *Handlers) AddRequest(c *gin.Context) {
	callerID, ok := sharing.CallerID(c)
	if !ok {
		sharing.MissingIdentity(c)
		return
	}

	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	request, err := h.service.AddRequest(c.Request.Context(), callerID, &req)
	if err != nil {
		h.logger.Error("Failed to add item request", zap.Int64("requestor_id", callerID), zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusCreated, request)
}

func (h *Handlers) ListByRequestor(c *gin.Context) {
	callerID, ok := sharing.CallerID(c)
	if !ok {
		sharing.MissingIdentity(c)
		return
	}

	list, err := h.service.ListByRequestor(c.Request.Context(), callerID)
	if err != nil {
		h.logger.Error("Failed to list item requests", zap.Int64("requestor_id", callerID), zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) ListOthers(c *gin.Context) {
	callerID, ok := sharing.CallerID(c)
	if !ok {
		sharing.MissingIdentity(c)
		return
	}

	page, err := sharing.PageFromQuery(c)
	if err != nil {
		sharing.JSONError(c, err)
		return
	}

	list, err := h.service.ListOthers(c.Request.Context(), callerID, page)
	if err != nil {
		h.logger.Error("Failed to list other item requests", zap.Int64("user_id", callerID), zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) GetByID(c *gin.Context) {
	callerID, ok := sharing.CallerID(c)
	if !ok {
		sharing.MissingIdentity(c)
		return
	}

	requestID, err := strconv.ParseInt(c.Param("requestId"), 10, 64)
	if err != nil || requestID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "requestId must be a positive integer"})
		return
	}

	request, err := h.service.GetByID(c.Request.Context(), callerID, requestID)
	if err != nil {
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}
