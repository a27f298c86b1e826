package handler

import (
	"net/http"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/notify"
	"github.com/astropet/platform/internal/state"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// NotificationHandler exposes the capped notification buffer.
type NotificationHandler struct {
	notifier  *notify.Notifier
	container *state.Container
}

// NewNotificationHandler creates a notification handler.
func NewNotificationHandler(notifier *notify.Notifier, container *state.Container) *NotificationHandler {
	return &NotificationHandler{notifier: notifier, container: container}
}

// List returns notifications newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	snap := h.container.View()
	out := snap.Notifications
	if out == nil {
		out = []domain.Notification{}
	}
	RespondJSON(w, http.StatusOK, out)
}

// MarkRead flags one notification as read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "notificationID"))
	if err != nil {
		RespondError(w, domain.ErrValidation("invalid notification id"))
		return
	}
	h.notifier.MarkRead(id)
	RespondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}

// MarkAllRead flags the whole buffer as read.
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	h.notifier.MarkAllRead()
	RespondJSON(w, http.StatusOK, map[string]string{"status": "read"})
}
