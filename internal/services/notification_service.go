package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"paneteria_admin/internal/models"
	"paneteria_admin/internal/redis"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationService keeps the ordered list of transient in-app alerts.
// It consumes the same realtime order/customer events as the store but has
// its own lifecycle and never participates in aggregate recomputation.
type NotificationService interface {
	Notify(title, message string, severity models.NotificationSeverity, action string)
	List() []models.Notification
	UnreadCount() int
	MarkRead(id string) bool
	MarkAllRead()
	Remove(id string) bool
	Clear()
	Listen(ctx context.Context)
}

type notificationService struct {
	feed     ChangeFeed
	whatsapp WhatsAppService

	mu     sync.Mutex
	alerts []models.Notification
}

func NewNotificationService(feed ChangeFeed, whatsapp WhatsAppService) NotificationService {
	return &notificationService{
		feed:     feed,
		whatsapp: whatsapp,
	}
}

func (s *notificationService) Notify(title, message string, severity models.NotificationSeverity, action string) {
	id, err := uuid.NewV4()
	if err != nil {
		log.Error().Err(err).Msg("notifications: failed to generate alert id")
		return
	}

	alert := models.Notification{
		ID:        id.String(),
		Title:     title,
		Message:   message,
		Severity:  severity,
		Action:    action,
		CreatedAt: time.Now(),
	}

	s.mu.Lock()
	// Newest first, matching the dashboard's alert dropdown.
	s.alerts = append([]models.Notification{alert}, s.alerts...)
	s.mu.Unlock()
}

func (s *notificationService) List() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Notification, len(s.alerts))
	copy(out, s.alerts)
	return out
}

func (s *notificationService) UnreadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, alert := range s.alerts {
		if !alert.Read {
			count++
		}
	}
	return count
}

func (s *notificationService) MarkRead(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts[i].Read = true
			return true
		}
	}
	return false
}

func (s *notificationService) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		s.alerts[i].Read = true
	}
}

func (s *notificationService) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.alerts {
		if s.alerts[i].ID == id {
			s.alerts = append(s.alerts[:i], s.alerts[i+1:]...)
			return true
		}
	}
	return false
}

func (s *notificationService) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = nil
}

// Listen raises alerts from the realtime order and customer change feed.
func (s *notificationService) Listen(ctx context.Context) {
	events, cancel := s.feed.SubscribeChanges(ctx, CollectionOrders, CollectionCustomers)
	defer cancel()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			s.handleEvent(event)
		case <-ctx.Done():
			return
		}
	}
}

func (s *notificationService) handleEvent(event redis.ChangeEvent) {
	switch {
	case event.Collection == CollectionOrders && event.EventType == redis.EventInsert:
		message := event.Summary
		if message == "" {
			message = fmt.Sprintf("order %d created", event.EntityID)
		}
		s.Notify("New order", message, models.SeveritySuccess, fmt.Sprintf("/orders/%d", event.EntityID))
		s.mirrorToWhatsApp("New order: " + message)
	case event.Collection == CollectionOrders && event.EventType == redis.EventUpdate:
		message := event.Summary
		if message == "" {
			message = fmt.Sprintf("order %d updated", event.EntityID)
		}
		s.Notify("Order updated", message, models.SeverityInfo, fmt.Sprintf("/orders/%d", event.EntityID))
	case event.Collection == CollectionCustomers && event.EventType == redis.EventInsert:
		s.Notify("New customer", event.Summary, models.SeverityInfo, fmt.Sprintf("/customers/%d", event.EntityID))
	}
}

// mirrorToWhatsApp forwards the alert to the operator's phone, the
// counterpart of a native notification surface. Best effort only.
func (s *notificationService) mirrorToWhatsApp(message string) {
	if s.whatsapp == nil {
		return
	}
	if err := s.whatsapp.SendOperatorMessage(message); err != nil {
		log.Warn().Err(err).Msg("notifications: whatsapp mirror failed")
	}
}
