package items

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sharepool/sharepool/internal/sharing"
)

// Handlers provides HTTP handlers for the item catalog
type Handlers struct {
	service ItemService
	logger  *zap.Logger
}

// NewHandlers creates new item catalog handlers
func NewHandlers(service ItemService, logger *zap.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers all item catalog routes. Every endpoint requires
// the identity header.
func (h *Handlers) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/items")
	{
		group.GET("", h.ListItems)
		group.POST("", h.AddItem)
		group.PATCH("/:itemId", h.UpdateItem)
		group.GET("/:itemId", h.GetItem)
		group.GET("/search", h.SearchItems)
		group.POST("/:itemId/comment", h.AddComment)
	}
}

func (h *Handlers) ListItems(c *gin.Context) {
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

	list, err := h.service.ListItems(c.Request.Context(), callerID, page)
	if err != nil {
		h.logger.Error("Failed to list items", zap.Int64("owner_id", callerID), zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) AddItem(c *gin.Context) {
	callerID, ok := sharing.CallerID(c)
	if !ok {
		sharing.MissingIdentity(c)
		return
	}

	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	item, err := h.service.AddItem(c.Request.Context(), callerID, &req)
	if err != nil {
		h.logger.Error("Failed to add item", zap.Int64("owner_id", callerID), zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handlers) UpdateItem(c *gin.Context) {
	callerID, ok := sharing.CallerID(c)
	if !ok {
		sharing.MissingIdentity(c)
		return
	}
	itemID, ok := itemPathID(c)
	if !ok {
		return
	}

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	item, err := h.service.UpdateItem(c.Request.Context(), callerID, itemID, &req)
	if err != nil {
		h.logger.Error("Failed to update item",
			zap.Int64("item_id", itemID),
			zap.Int64("caller_id", callerID),
			zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handlers) GetItem(c *gin.Context) {
	callerID, ok := sharing.CallerID(c)
	if !ok {
		sharing.MissingIdentity(c)
		return
	}
	itemID, ok := itemPathID(c)
	if !ok {
		return
	}

	item, err := h.service.GetItem(c.Request.Context(), itemID, callerID)
	if err != nil {
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handlers) SearchItems(c *gin.Context) {
	if _, ok := sharing.CallerID(c); !ok {
		sharing.MissingIdentity(c)
		return
	}

	page, err := sharing.PageFromQuery(c)
	if err != nil {
		sharing.JSONError(c, err)
		return
	}

	list, err := h.service.SearchItems(c.Request.Context(), c.Query("text"), page)
	if err != nil {
		h.logger.Error("Failed to search items", zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) AddComment(c *gin.Context) {
	callerID, ok := sharing.CallerID(c)
	if !ok {
		sharing.MissingIdentity(c)
		return
	}
	itemID, ok := itemPathID(c)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), callerID, itemID, &req)
	if err != nil {
		h.logger.Error("Failed to add comment",
			zap.Int64("item_id", itemID),
			zap.Int64("author_id", callerID),
			zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func itemPathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "itemId must be a positive integer"})
		return 0, false
	}
	return id, true
}
