package handlers

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"barberbook/middleware"
	"barberbook/models"
	"barberbook/services/admin"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the staff booking dashboard. Each admin user gets
// their own reconciler so optimistic edits of one never leak into another.
type AdminHandler struct {
	source   admin.BookingSource
	location *time.Location
	logger   *zap.Logger

	mu          sync.Mutex
	reconcilers map[string]admin.AdminService
}

func NewAdminHandler(source admin.BookingSource, loc *time.Location, logger *zap.Logger) *AdminHandler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{
		source:      source,
		location:    loc,
		logger:      logger,
		reconcilers: make(map[string]admin.AdminService),
	}
}

// reconciler returns the caller's reconciler, loading bookings on first use.
func (h *AdminHandler) reconciler(c *gin.Context) (admin.AdminService, error) {
	userID := c.GetString(middleware.CtxUserID)

	h.mu.Lock()
	r, ok := h.reconcilers[userID]
	if !ok {
		r = admin.NewReconciler(h.source, ctxConfirmer{}, ctxNotifier{}, h.logger.With(zap.String("admin", userID)))
		h.reconcilers[userID] = r
	}
	h.mu.Unlock()

	if !ok {
		if err := r.Refresh(c.Request.Context()); err != nil {
			h.mu.Lock()
			delete(h.reconcilers, userID)
			h.mu.Unlock()
			r.Close()
			return nil, err
		}
	}
	return r, nil
}

// Release closes the reconciler of an admin user, e.g. on sign-out.
func (h *AdminHandler) Release(userID string) {
	h.mu.Lock()
	r, ok := h.reconcilers[userID]
	delete(h.reconcilers, userID)
	h.mu.Unlock()
	if ok {
		r.Close()
	}
}

// ListBookings returns all bookings, optionally filtered by ?status=.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	requestContext(c, false)
	r, err := h.reconciler(c)
	if err != nil {
		fail(c, err)
		return
	}
	bookings, err := r.Bookings(c.DefaultQuery("status", "all"))
	if err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "", bookings)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	requestContext(c, false)
	r, err := h.reconciler(c)
	if err != nil {
		fail(c, err)
		return
	}
	today := time.Now().In(h.location).Format("2006-01-02")
	respond(c, http.StatusOK, "", r.Stats(today))
}

// Refresh refetches the booking list.
func (h *AdminHandler) Refresh(c *gin.Context) {
	ctx := requestContext(c, false)
	r, err := h.reconciler(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := r.Refresh(ctx); err != nil {
		fail(c, err)
		return
	}
	bookings, _ := r.Bookings("all")
	respond(c, http.StatusOK, "", bookings)
}

func bookingID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return 0, &models.ValidationError{Field: "id", Message: "Invalid booking id", Err: err}
	}
	return id, nil
}

type statusRequest struct {
	Status    string `json:"status"`
	Confirmed bool   `json:"confirmed"`
}

// UpdateStatus changes a booking's status. The browser must resend with
// confirmed=true after showing the returned prompt.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req statusRequest
	if err := bindBody(c, &req); err != nil {
		fail(c, err)
		return
	}
	status, err := models.ParseBookingStatus(req.Status)
	if err != nil {
		fail(c, err)
		return
	}

	ctx := requestContext(c, req.Confirmed)
	r, err := h.reconciler(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := r.ChangeStatus(ctx, id, status); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Booking status updated successfully", nil)
}

type cancelRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (h *AdminHandler) Cancel(c *gin.Context) {
	id, err := bookingID(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req cancelRequest
	if c.Request.ContentLength > 0 {
		if err := bindBody(c, &req); err != nil {
			fail(c, err)
			return
		}
	}
	if c.Query("confirmed") == "true" {
		req.Confirmed = true
	}

	ctx := requestContext(c, req.Confirmed)
	r, err := h.reconciler(c)
	if err != nil {
		fail(c, err)
		return
	}
	if err := r.Cancel(ctx, id); err != nil {
		fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Booking cancelled successfully", nil)
}
