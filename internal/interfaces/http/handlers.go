package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/garyjia/shareit/internal/application/port"
	"github.com/garyjia/shareit/internal/application/service"
	"github.com/garyjia/shareit/internal/domain/entity"
	"github.com/garyjia/shareit/pkg/utils"
)

const (
	defaultPageSize = 20
	localTimeLayout = "2006-01-02T15:04:05"
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	bookingService service.BookingService
	catalogService service.CatalogService
	clock          port.Clock
	health         HealthFunc
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	bookingService service.BookingService,
	catalogService service.CatalogService,
	clock port.Clock,
	health HealthFunc,
	logger Logger,
) *Handlers {
	return &Handlers{
		bookingService: bookingService,
		catalogService: catalogService,
		clock:          clock,
		health:         health,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	Components interface{} `json:"components,omitempty"`
}

// Timestamp accepts RFC 3339 or a zone-less local date-time, read as UTC
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	if parsed, err := time.Parse(time.RFC3339, s); err == nil {
		t.Time = parsed.UTC()
		return nil
	}
	parsed, err := time.Parse(localTimeLayout, s)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q", s)
	}
	t.Time = parsed
	return nil
}

// CreateBookingRequest is the body of POST /bookings
type CreateBookingRequest struct {
	ItemID *int64     `json:"itemId"`
	Start  *Timestamp `json:"start"`
	End    *Timestamp `json:"end"`
}

// CreateUserRequest is the body of POST /users
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateItemRequest is the body of POST /items
type CreateItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	status := http.StatusOK
	if h.health != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		healthy, details := h.health(ctx)
		response.Components = details
		if !healthy {
			response.Status = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, Response{
		Success: status == http.StatusOK,
		Data:    response,
	})
}

// CreateBooking handles POST /bookings
func (h *Handlers) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.ItemID == nil {
		badRequest(c, "itemId is required")
		return
	}
	if req.Start == nil || req.End == nil {
		badRequest(c, "start and end are required")
		return
	}
	if err := utils.ValidateBookingWindow(req.Start.Time, req.End.Time, h.clock.Now()); err != nil {
		badRequest(c, err.Error())
		return
	}

	booking, err := h.bookingService.Create(c.Request.Context(), req.Start.Time, req.End.Time, *req.ItemID, callerID(c))
	if err != nil {
		h.respondError(c, err, "item_id", *req.ItemID)
		return
	}

	h.logger.Info("Booking created", "booking_id", booking.ID, "item_id", booking.ItemID, "booker_id", booking.BookerID)
	c.JSON(http.StatusOK, Response{Success: true, Data: booking})
}

// DecideBooking handles PATCH /bookings/:bookingId?approved=true|false
func (h *Handlers) DecideBooking(c *gin.Context) {
	id, ok := pathID(c, "bookingId")
	if !ok {
		return
	}

	raw, present := c.GetQuery("approved")
	if !present {
		badRequest(c, "approved is required")
		return
	}
	approved, err := strconv.ParseBool(raw)
	if err != nil {
		badRequest(c, "approved must be true or false")
		return
	}

	booking, err := h.bookingService.Approve(c.Request.Context(), approved, id, callerID(c))
	if err != nil {
		h.respondError(c, err, "booking_id", id)
		return
	}

	h.logger.Info("Booking decided", "booking_id", booking.ID, "status", booking.Status.String())
	c.JSON(http.StatusOK, Response{Success: true, Data: booking})
}

// GetBooking handles GET /bookings/:bookingId
func (h *Handlers) GetBooking(c *gin.Context) {
	id, ok := pathID(c, "bookingId")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetByID(c.Request.Context(), id, callerID(c))
	if err != nil {
		h.respondError(c, err, "booking_id", id)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: booking})
}

// ListBookerBookings handles GET /bookings?state=&from=&size=
func (h *Handlers) ListBookerBookings(c *gin.Context) {
	h.listBookings(c, h.bookingService.ListForBooker)
}

// ListOwnerBookings handles GET /bookings/owner?state=&from=&size=
func (h *Handlers) ListOwnerBookings(c *gin.Context) {
	h.listBookings(c, h.bookingService.ListForOwner)
}

type listFunc func(ctx context.Context, userID int64, filter entity.BookingFilter, offset int64, size int) ([]*entity.Booking, error)

func (h *Handlers) listBookings(c *gin.Context, list listFunc) {
	filter, err := entity.ParseBookingFilter(c.DefaultQuery("state", string(entity.FilterAll)))
	if err != nil {
		h.respondError(c, err)
		return
	}

	from, size, ok := pageParams(c)
	if !ok {
		return
	}

	bookings, err := list(c.Request.Context(), callerID(c), filter, from, size)
	if err != nil {
		h.respondError(c, err, "state", filter.String())
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: bookings})
}

// CreateUser handles POST /users
func (h *Handlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.catalogService.CreateUser(c.Request.Context(), req.Name, req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: user})
}

// GetUser handles GET /users/:userId
func (h *Handlers) GetUser(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	user, err := h.catalogService.GetUser(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err, "user_id", id)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: user})
}

// ListUsers handles GET /users
func (h *Handlers) ListUsers(c *gin.Context) {
	users, err := h.catalogService.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: users})
}

// UpdateUser handles PATCH /users/:userId
func (h *Handlers) UpdateUser(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var patch entity.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	user, err := h.catalogService.UpdateUser(c.Request.Context(), id, patch)
	if err != nil {
		h.respondError(c, err, "user_id", id)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: user})
}

// DeleteUser handles DELETE /users/:userId
func (h *Handlers) DeleteUser(c *gin.Context) {
	id, ok := pathID(c, "userId")
	if !ok {
		return
	}

	if err := h.catalogService.DeleteUser(c.Request.Context(), id); err != nil {
		h.respondError(c, err, "user_id", id)
		return
	}

	h.logger.Info("User deleted", "user_id", id)
	c.JSON(http.StatusOK, Response{Success: true})
}

// CreateItem handles POST /items
func (h *Handlers) CreateItem(c *gin.Context) {
	var req CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}
	if req.Available == nil {
		badRequest(c, "available is required")
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), callerID(c), &entity.Item{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Available:   *req.Available,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: item})
}

// GetItem handles GET /items/:itemId
func (h *Handlers) GetItem(c *gin.Context) {
	id, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	item, err := h.catalogService.GetItem(c.Request.Context(), id, callerID(c))
	if err != nil {
		h.respondError(c, err, "item_id", id)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: item})
}

// ListOwnerItems handles GET /items?from=&size=
func (h *Handlers) ListOwnerItems(c *gin.Context) {
	from, size, ok := pageParams(c)
	if !ok {
		return
	}

	items, err := h.catalogService.ListOwnerItems(c.Request.Context(), callerID(c), from, size)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: items})
}

// SearchItems handles GET /items/search?text=&from=&size=
func (h *Handlers) SearchItems(c *gin.Context) {
	from, size, ok := pageParams(c)
	if !ok {
		return
	}

	items, err := h.catalogService.SearchItems(c.Request.Context(), c.Query("text"), from, size)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: items})
}

// UpdateItem handles PATCH /items/:itemId
func (h *Handlers) UpdateItem(c *gin.Context) {
	id, ok := pathID(c, "itemId")
	if !ok {
		return
	}

	var patch entity.ItemPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	item, err := h.catalogService.UpdateItem(c.Request.Context(), callerID(c), id, patch)
	if err != nil {
		h.respondError(c, err, "item_id", id)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: item})
}

func pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid "+name+": "+raw)
		return 0, false
	}
	return id, true
}

// pageParams reads from/size, writing a 400 and returning false when invalid.
func pageParams(c *gin.Context) (int64, int, bool) {
	from, err := strconv.ParseInt(c.DefaultQuery("from", "0"), 10, 64)
	if err != nil {
		badRequest(c, "from must be an integer")
		return 0, 0, false
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", strconv.Itoa(defaultPageSize)))
	if err != nil {
		badRequest(c, "size must be an integer")
		return 0, 0, false
	}
	if err := utils.ValidatePage(from, size); err != nil {
		badRequest(c, err.Error())
		return 0, 0, false
	}
	return from, size, true
}
