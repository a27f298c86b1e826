package notify

import (
	"log/slog"
	"time"

	"github.com/astropet/platform/internal/domain"
	"github.com/astropet/platform/internal/state"
	"github.com/google/uuid"
)

// SoundPlayer is the audio feedback port. Playback is fire-and-forget;
// failures are swallowed.
type SoundPlayer interface {
	Play(name string) error
}

// NopSound is the default SoundPlayer; playback itself is out of scope.
type NopSound struct{}

func (NopSound) Play(string) error { return nil }

// Notifier emits user-facing notifications into the state ring buffer.
type Notifier struct {
	container *state.Container
	sound     SoundPlayer
	logger    *slog.Logger
}

// New creates a Notifier. A nil sound falls back to NopSound.
func New(container *state.Container, sound SoundPlayer, logger *slog.Logger) *Notifier {
	if sound == nil {
		sound = NopSound{}
	}
	return &Notifier{container: container, sound: sound, logger: logger}
}

// Emit appends a notification to the front of the capped buffer. ID and
// creation timestamp are assigned here. No deduplication.
func (n *Notifier) Emit(kind, message string) domain.Notification {
	notif := domain.Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now(),
	}
	n.container.Apply(func(s *state.Snapshot) {
		s.Notifications = domain.PushNotification(s.Notifications, notif)
	})
	if err := n.sound.Play("notification"); err != nil {
		n.logger.Debug("notification sound failed", "error", err)
	}
	return notif
}

// MarkRead flags a notification as read. Unknown IDs are ignored.
func (n *Notifier) MarkRead(id uuid.UUID) {
	n.container.Apply(func(s *state.Snapshot) {
		for i := range s.Notifications {
			if s.Notifications[i].ID == id {
				s.Notifications[i].Read = true
				return
			}
		}
	})
}

// MarkAllRead flags every notification as read.
func (n *Notifier) MarkAllRead() {
	n.container.Apply(func(s *state.Snapshot) {
		for i := range s.Notifications {
			s.Notifications[i].Read = true
		}
	})
}
