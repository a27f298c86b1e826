package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationCapacity bounds the per-player notification ring buffer.
const NotificationCapacity = 50

// Notification is a transient user-facing message.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"` // success, info, warning, error
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// PushNotification prepends n to the buffer, newest first, dropping the
// oldest entry once the capacity is exceeded. No deduplication.
func PushNotification(buf []Notification, n Notification) []Notification {
	buf = append([]Notification{n}, buf...)
	if len(buf) > NotificationCapacity {
		buf = buf[:NotificationCapacity]
	}
	return buf
}
