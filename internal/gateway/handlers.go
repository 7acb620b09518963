package gateway

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"

	"github.com/sharepool/sharepool/internal/sharing"
	"github.com/sharepool/sharepool/internal/sharing/bookings"
	"github.com/sharepool/sharepool/internal/sharing/items"
	"github.com/sharepool/sharepool/internal/sharing/users"
)

// Handlers validates request shape and forwards to the backend. Business
// rules stay server-side; the gateway only rejects what is malformed on its
// face.
type Handlers struct {
	client *Client
	logger *zap.Logger
}

// NewHandlers creates new gateway handlers
func NewHandlers(client *Client, logger *zap.Logger) *Handlers {
	return &Handlers{
		client: client,
		logger: logger,
	}
}

// RegisterRoutes mirrors the backend's route table.
func (h *Handlers) RegisterRoutes(router gin.IRouter) {
	userGroup := router.Group("/users")
	{
		userGroup.GET("", h.ListUsers)
		userGroup.POST("", h.AddUser)
		userGroup.GET("/:userId", h.GetUser)
		userGroup.PATCH("/:userId", h.UpdateUser)
		userGroup.DELETE("/:userId", h.DeleteUser)
	}

	itemGroup := router.Group("/items")
	{
		itemGroup.GET("", h.ListItems)
		itemGroup.POST("", h.AddItem)
		itemGroup.GET("/search", h.SearchItems)
		itemGroup.GET("/:itemId", h.GetItem)
		itemGroup.PATCH("/:itemId", h.UpdateItem)
		itemGroup.POST("/:itemId/comment", h.AddComment)
	}

	bookingGroup := router.Group("/bookings")
	{
		bookingGroup.POST("", h.AddBooking)
		bookingGroup.GET("", h.ListByBooker)
		bookingGroup.GET("/owner", h.ListByOwnedItems)
		bookingGroup.GET("/:bookingId", h.GetBooking)
		bookingGroup.PATCH("/:bookingId", h.ApproveStatus)
	}

	requestGroup := router.Group("/requests")
	{
		requestGroup.POST("", h.AddRequest)
		requestGroup.GET("", h.ListRequests)
		requestGroup.GET("/all", h.ListOtherRequests)
		requestGroup.GET("/:requestId", h.GetRequest)
	}
}

func (h *Handlers) ListUsers(c *gin.Context) {
	h.client.Forward(c, nil, nil)
}

func (h *Handlers) GetUser(c *gin.Context) {
	if !validPathID(c, "userId") {
		return
	}
	h.client.Forward(c, nil, nil)
}

func (h *Handlers) AddUser(c *gin.Context) {
	var req users.CreateUserRequest
	body, ok := h.bindBody(c, &req)
	if !ok {
		return
	}
	h.client.Forward(c, nil, body)
}

func (h *Handlers) UpdateUser(c *gin.Context) {
	if !validPathID(c, "userId") {
		return
	}
	var req users.UpdateUserRequest
	body, ok := h.bindBody(c, &req)
	if !ok {
		return
	}
	h.client.Forward(c, nil, body)
}

func (h *Handlers) DeleteUser(c *gin.Context) {
	if !validPathID(c, "userId") {
		return
	}
	h.client.Forward(c, nil, nil)
}

func (h *Handlers) ListItems(c *gin.Context) {
	if !requireIdentity(c) {
		return
	}
	query, ok := windowQuery(c)
	if !ok {
		return
	}
	h.client.Forward(c, query, nil)
}

func (h *Handlers) AddItem(c *gin.Context) {
	if !requireIdentity(c) {
		return
	}
	var req items.CreateItemRequest
	body, ok := h.bindBody(c, &req)
	if !ok {
		return
	}
	h.client.Forward(c, nil, body)
}

func (h *Handlers) UpdateItem(c *gin.Context) {
	if !requireIdentity(c) || !validPathID(c, "itemId") {
		return
	}
	var req items.UpdateItemRequest
	body, ok := h.bindBody(c, &req)
	if !ok {
		return
	}
	h.client.Forward(c, nil, body)
}

func (h *Handlers) GetItem(c *gin.Context) {
	if !requireIdentity(c) || !validPathID(c, "itemId") {
		return
	}
	h.client.Forward(c, nil, nil)
}

func (h *Handlers) SearchItems(c *gin.Context) {
	if !requireIdentity(c) {
		return
	}
	query, ok := windowQuery(c)
	if !ok {
		return
	}
	h.client.Forward(c, query, nil)
}

func (h *Handlers) AddComment(c *gin.Context) {
	if !requireIdentity(c) || !validPathID(c, "itemId") {
		return
	}
	var req items.CreateCommentRequest
	body, ok := h.bindBody(c, &req)
	if !ok {
		return
	}
	h.client.Forward(c, nil, body)
}

func (h *Handlers) AddBooking(c *gin.Context) {
	if !requireIdentity(c) {
		return
	}
	var req bookings.CreateBookingRequest
	body, ok := h.bindBody(c, &req)
	if !ok {
		return
	}
	now := time.Now()
	if req.Start.Before(now.Add(-time.Second)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start must not be in the past"})
		return
	}
	if !req.End.After(now) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must be in the future"})
		return
	}
	h.client.Forward(c, nil, body)
}

func (h *Handlers) ApproveStatus(c *gin.Context) {
	if !requireIdentity(c) || !validPathID(c, "bookingId") {
		return
	}
	if _, err := strconv.ParseBool(c.Query("approved")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved must be a boolean"})
		return
	}
	h.client.Forward(c, nil, nil)
}

func (h *Handlers) GetBooking(c *gin.Context) {
	if !requireIdentity(c) || !validPathID(c, "bookingId") {
		return
	}
	h.client.Forward(c, nil, nil)
}

func (h *Handlers) ListByBooker(c *gin.Context) {
	if !requireIdentity(c) {
		return
	}
	query, ok := stateWindowQuery(c)
	if !ok {
		return
	}
	h.client.Forward(c, query, nil)
}

func (h *Handlers) ListByOwnedItems(c *gin.Context) {
	if !requireIdentity(c) {
		return
	}
	query, ok := stateWindowQuery(c)
	if !ok {
		return
	}
	h.client.Forward(c, query, nil)
}

func (h *Handlers) AddRequest(c *gin.Context) {
	if !requireIdentity(c) {
		return
	}
	var req struct {
		Description string `json:"description" binding:"required"`
	}
	body, ok := h.bindBody(c, &req)
	if !ok {
		return
	}
	h.client.Forward(c, nil, body)
}

func (h *Handlers) ListRequests(c *gin.Context) {
	if !requireIdentity(c) {
		return
	}
	h.client.Forward(c, nil, nil)
}

func (h *Handlers) ListOtherRequests(c *gin.Context) {
	if !requireIdentity(c) {
		return
	}
	query, ok := windowQuery(c)
	if !ok {
		return
	}
	h.client.Forward(c, query, nil)
}

func (h *Handlers) GetRequest(c *gin.Context) {
	if !requireIdentity(c) || !validPathID(c, "requestId") {
		return
	}
	h.client.Forward(c, nil, nil)
}

// bindBody reads the raw body once, validates it against the target struct
// and hands the original bytes back for forwarding.
func (h *Handlers) bindBody(c *gin.Context, out interface{}) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, false
	}
	if err := json.Unmarshal(body, out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, false
	}
	if err := binding.Validator.ValidateStruct(out); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, false
	}
	return body, true
}

func requireIdentity(c *gin.Context) bool {
	if _, ok := sharing.CallerID(c); !ok {
		sharing.MissingIdentity(c)
		return false
	}
	return true
}

func validPathID(c *gin.Context, name string) bool {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return false
	}
	return true
}

// windowQuery applies the from=0/size=10 defaults and rejects a negative
// offset or non-positive size before anything reaches the backend.
func windowQuery(c *gin.Context) (url.Values, bool) {
	from, err := strconv.Atoi(c.DefaultQuery("from", "0"))
	if err != nil || from < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "from must be a non-negative integer"})
		return nil, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "10"))
	if err != nil || size <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "size must be a positive integer"})
		return nil, false
	}

	query := c.Request.URL.Query()
	query.Set("from", strconv.Itoa(from))
	query.Set("size", strconv.Itoa(size))
	return query, true
}

// stateWindowQuery additionally validates the booking state filter, naming
// the bad value the way clients expect.
func stateWindowQuery(c *gin.Context) (url.Values, bool) {
	state, err := bookings.ParseState(c.DefaultQuery("state", "ALL"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	query, ok := windowQuery(c)
	if !ok {
		return nil, false
	}
	query.Set("state", string(state))
	return query, true
}
