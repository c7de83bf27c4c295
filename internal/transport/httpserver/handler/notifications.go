package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	notificationdomain "ration-shop-go/internal/domain/notification"

	"github.com/go-chi/chi/v5"
)

type publishNotificationRequest struct {
	Area    string `json:"area" validate:"required"`
	Message string `json:"message" validate:"required,max=255"`
}

type areaRequest struct {
	Area string `json:"area" validate:"required"`
}

type notificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Area      string    `json:"area"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// ListNotifications returns the area's visible notifications, newest first.
func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	area := strings.TrimSpace(r.URL.Query().Get("area"))
	if area == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "area is required")
		return
	}

	notifications, err := h.Notifications.ListFor(r.Context(), area)
	if err != nil {
		h.log.InternalError("notifications.list: list failed", err, "area", area)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	response := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		response = append(response, notificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			Area:      n.Area,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, response)
}

// PublishNotification is the admin broadcast endpoint.
func (h *Handlers) PublishNotification(w http.ResponseWriter, r *http.Request) {
	var req publishNotificationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "area and message are required")
		return
	}

	if err := h.Notifications.Publish(r.Context(), req.Area, req.Message); err != nil {
		h.log.InternalError("notifications.publish: publish failed", err, "area", req.Area)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "published"})
}

// DismissNotification hides one notification for the caller's area.
// Dismissing an already-dismissed notification succeeds.
func (h *Handlers) DismissNotification(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	var req areaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "area is required")
		return
	}

	if err := h.Notifications.Dismiss(r.Context(), id, req.Area); err != nil {
		if errors.Is(err, notificationdomain.ErrNotificationNotFound) {
			h.log.BusinessError("notifications.dismiss: not found", err, "notification_id", id)
			writeError(w, http.StatusNotFound, "notification_not_found", "notification not found")
			return
		}
		h.log.InternalError("notifications.dismiss: dismiss failed", err, "notification_id", id)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DismissAllNotifications hides everything visible in the caller's area.
func (h *Handlers) DismissAllNotifications(w http.ResponseWriter, r *http.Request) {
	var req areaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "area is required")
		return
	}

	count, err := h.Notifications.DismissAll(r.Context(), req.Area)
	if err != nil {
		if errors.Is(err, notificationdomain.ErrNothingToDismiss) {
			h.log.BusinessError("notifications.dismiss_all: nothing to dismiss", err, "area", req.Area)
			writeError(w, http.StatusNotFound, "nothing_to_dismiss", "no notifications to dismiss")
			return
		}
		h.log.InternalError("notifications.dismiss_all: dismiss failed", err, "area", req.Area)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"dismissed": count})
}

// MarkNotificationsRead flags the area's visible notifications as read.
func (h *Handlers) MarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	var req areaRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "area is required")
		return
	}

	count, err := h.Notifications.MarkRead(r.Context(), req.Area)
	if err != nil {
		h.log.InternalError("notifications.mark_read: update failed", err, "area", req.Area)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int64{"updated": count})
}
