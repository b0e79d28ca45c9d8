package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ikkim/edubooks-storefront/internal/app/model"
	"github.com/ikkim/edubooks-storefront/pkg/logger"
)

const recentNotificationLimit = 50

// Publisher delivers events to subscribers; *websocket.Hub implements it.
type Publisher interface {
	Publish(event interface{}) error
}

type NotificationService interface {
	Success(title, message string) model.Notification
	Error(title, message string) model.Notification
	Warning(title, message string) model.Notification
	Info(title, message string) model.Notification
	Notify(n model.Notification) model.Notification
	ClearAll()
	Recent() []model.Notification
}

type notificationService struct {
	publisher Publisher
	now       func() time.Time

	mu     sync.Mutex
	recent []model.Notification
}

func NewNotificationService(publisher Publisher) NotificationService {
	return &notificationService{
		publisher: publisher,
		now:       time.Now,
	}
}

func (s *notificationService) Success(title, message string) model.Notification {
	return s.Notify(model.Notification{Kind: model.NotificationSuccess, Title: title, Message: message})
}

func (s *notificationService) Error(title, message string) model.Notification {
	return s.Notify(model.Notification{Kind: model.NotificationError, Title: title, Message: message})
}

func (s *notificationService) Warning(title, message string) model.Notification {
	return s.Notify(model.Notification{Kind: model.NotificationWarning, Title: title, Message: message})
}

func (s *notificationService) Info(title, message string) model.Notification {
	return s.Notify(model.Notification{Kind: model.NotificationInfo, Title: title, Message: message})
}

// Notify fills id, duration and timestamp when missing, records and publishes n.
func (s *notificationService) Notify(n model.Notification) model.Notification {
	if n.Kind == "" {
		n.Kind = model.NotificationInfo
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.DurationMs <= 0 {
		n.DurationMs = n.Kind.DefaultDuration().Milliseconds()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}

	s.mu.Lock()
	s.recent = append(s.recent, n)
	if len(s.recent) > recentNotificationLimit {
		s.recent = s.recent[len(s.recent)-recentNotificationLimit:]
	}
	s.mu.Unlock()

	logger.Debug("Notification emitted", map[string]interface{}{
		"id":   n.ID,
		"kind": n.Kind,
	})

	if s.publisher != nil {
		notification := n
		if err := s.publisher.Publish(model.NotificationEvent{Type: model.EventNotification, Notification: &notification}); err != nil {
			logger.Warn("Failed to publish notification", map[string]interface{}{
				"id":    n.ID,
				"error": err.Error(),
			})
		}
	}
	return n
}

func (s *notificationService) ClearAll() {
	s.mu.Lock()
	s.recent = nil
	s.mu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.Publish(model.NotificationEvent{Type: model.EventClear}); err != nil {
			logger.Warn("Failed to publish clear event", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

// Recent returns the last notifications, oldest first
func (s *notificationService) Recent() []model.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, len(s.recent))
	copy(out, s.recent)
	return out
}
