package bookings

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sharepool/sharepool/internal/sharing"
)

// Handlers provides HTTP handlers for the booking rules engine
type Handlers struct {
	service BookingService
	logger  *zap.Logger
}

// NewHandlers creates new booking handlers
func NewHandlers(service BookingService, logger *zap.Logger) *Handlers {
	return &Handlers{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes registers all booking routes. Every endpoint requires the
// identity header.
func (h *Handlers) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/bookings")
	{
		group.POST("", h.AddBooking)
		group.PATCH("/:bookingId", h.ApproveStatus)
		group.GET("/:bookingId", h.GetBooking)
		group.GET("", h.ListByBooker)
		group.GET("/owner", h.ListByOwnedItems)
	}
}

func (h *Handlers) AddBooking(c *gin.Context) {
	callerID, ok := sharing.CallerID(c)
	if !ok {
		sharing.MissingIdentity(c)
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	booking, err := h.service.AddBooking(c.Request.Context(), callerID, &req)
	if err != nil {
		h.logger.Error("Failed to add booking",
			zap.Int64("booker_id", callerID),
			zap.Int64("item_id", req.ItemID),
			zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

func (h *Handlers) ApproveStatus(c *gin.Context) {
	callerID, ok := sharing.CallerID(c)
	if !ok {
		sharing.MissingIdentity(c)
		return
	}
	bookingID, ok := bookingPathID(c)
	if !ok {
		return
	}

	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved must be true or false"})
		return
	}

	booking, err := h.service.ApproveStatus(c.Request.Context(), callerID, bookingID, approved)
	if err != nil {
		h.logger.Error("Failed to approve booking",
			zap.Int64("booking_id", bookingID),
			zap.Int64("caller_id", callerID),
			zap.Bool("approved", approved),
			zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *Handlers) GetBooking(c *gin.Context) {
	callerID, ok := sharing.CallerID(c)
	if !ok {
		sharing.MissingIdentity(c)
		return
	}
	bookingID, ok := bookingPathID(c)
	if !ok {
		return
	}

	booking, err := h.service.GetBooking(c.Request.Context(), callerID, bookingID)
	if err != nil {
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

func (h *Handlers) ListByBooker(c *gin.Context) {
	callerID, ok := sharing.CallerID(c)
	if !ok {
		sharing.MissingIdentity(c)
		return
	}

	state, err := ParseState(c.Query("state"))
	if err != nil {
		sharing.JSONError(c, err)
		return
	}

	page, err := sharing.PageFromQuery(c)
	if err != nil {
		sharing.JSONError(c, err)
		return
	}

	list, err := h.service.ListByBooker(c.Request.Context(), callerID, state, page)
	if err != nil {
		h.logger.Error("Failed to list bookings", zap.Int64("booker_id", callerID), zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) ListByOwnedItems(c *gin.Context) {
	callerID, ok := sharing.CallerID(c)
	if !ok {
		sharing.MissingIdentity(c)
		return
	}

	state, err := ParseState(c.Query("state"))
	if err != nil {
		sharing.JSONError(c, err)
		return
	}

	page, err := sharing.PageFromQuery(c)
	if err != nil {
		sharing.JSONError(c, err)
		return
	}

	list, err := h.service.ListByOwnedItems(c.Request.Context(), callerID, state, page)
	if err != nil {
		h.logger.Error("Failed to list owner bookings", zap.Int64("owner_id", callerID), zap.Error(err))
		sharing.JSONError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func bookingPathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bookingId must be a positive integer"})
		return 0, false
	}
	return id, true
}
