package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/events"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/model"
	"github.com/DieuNgocCamlycoin/funfarm-sub003/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type NotificationService interface {
	CreateNotification(ctx context.Context, notification *model.Notification) error
	GetNotifications(userID uuid.UUID, limit, offset int) ([]model.Notification, error)
	MarkAsRead(id uuid.UUID) error
	MarkAllAsRead(userID uuid.UUID) error
	UnreadCount(userID uuid.UUID) (int64, error)
	StartWorker(ctx context.Context)
}

type notificationService struct {
	repo        repository.NotificationRepository
	redisClient *redis.Client
	bus         *events.Bus
}

func NewNotificationService(repo repository.NotificationRepository, redisClient *redis.Client, bus *events.Bus) NotificationService {
	return &notificationService{
		repo:        repo,
		redisClient: redisClient,
		bus:         bus,
	}
}

func (s *notificationService) CreateNotification(ctx context.Context, notification *model.Notification) error {
	// 1. Save to DB
	if err := s.repo.Create(notification); err != nil {
		return err
	}

	// 2. Publish to Redis if Redis is available
	if s.redisClient != nil {
		channel := fmt.Sprintf("user_notifications:%s", notification.UserID.String())

		payload, err := json.Marshal(notification)
		if err == nil {
			s.redisClient.Publish(ctx, channel, payload)
		}
	}

	return nil
}

// StartWorker consumes policy events from the bus and turns them into
// stored notifications plus realtime pushes. Delivery is fire-and-forget:
// a failure here never rolls back the decision that produced the event.
func (s *notificationService) StartWorker(ctx context.Context) {
	ch, cancel := s.bus.Subscribe(256)
	defer cancel()

	log.Println("🔔 Notification worker started...")
	for {
		select {
		case evt, ok := <-ch:
			if !ok {
				return
			}
			notif := notificationFromEvent(evt)
			if err := s.CreateNotification(ctx, notif); err != nil {
				log.Printf("Failed to deliver %s notification to user %s: %v", evt.Kind, evt.AccountID, err)
			}
		case <-ctx.Done():
			return
		}
	}
}

func notificationFromEvent(evt events.Event) *model.Notification {
	entityType := "account"
	switch evt.Kind {
	case events.KindRewardGranted:
		entityType = "reward"
	case events.KindViolationRecorded, events.KindSuspensionApplied, events.KindBanApplied:
		entityType = "violation"
	case events.KindBonusApproved, events.KindBonusRejected:
		entityType = "bonus_request"
	}

	return &model.Notification{
		UserID:     evt.AccountID,
		EntityID:   evt.EntityID,
		EntityType: entityType,
		Type:       string(evt.Kind),
		Message:    evt.Message,
		Amount:     evt.Amount,
	}
}

func (s *notificationService) GetNotifications(userID uuid.UUID, limit, offset int) ([]model.Notification, error) {
	return s.repo.GetByUserID(userID, limit, offset)
}

func (s *notificationService) MarkAsRead(id uuid.UUID) error {
	return s.repo.MarkAsRead(id)
}

func (s *notificationService) MarkAllAsRead(userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(userID)
}

func (s *notificationService) UnreadCount(userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(userID)
}
