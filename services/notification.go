package services

import (
	"context"
	"encoding/json"
	"errors"

	"lms/apperr"
	"lms/logger"
	"lms/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Dispatcher delivers a stored notification to an outside channel.
// Implementations must not block the caller.
type Dispatcher interface {
	Dispatch(n models.Notification)
}

type NotificationService struct {
	db         *gorm.DB
	dispatcher Dispatcher
	log        *logger.Logger
}

// NewNotificationService builds the service. dispatcher may be nil.
func NewNotificationService(db *gorm.DB, dispatcher Dispatcher) *NotificationService {
	return &NotificationService{
		db:         db,
		dispatcher: dispatcher,
		log:        logger.Log.With("service", "NotificationService"),
	}
}

// Notify stores a notification for userID and hands it to the dispatcher.
func (s *NotificationService) Notify(ctx context.Context, userID uint, title, message string, data map[string]any) (*models.Notification, error) {
	n := models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return nil, apperr.Internal("failed to encode notification data", err)
		}
		n.Data = datatypes.JSON(raw)
	}

	if err := s.db.WithContext(ctx).Create(&n).Error; err != nil {
		return nil, apperr.Internal("failed to create notification", err)
	}

	if s.dispatcher != nil {
		s.dispatcher.Dispatch(n)
	}
	return &n, nil
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID uint, unreadOnly bool) ([]models.Notification, error) {
	q := s.db.WithContext(ctx).Where("user_id = ? AND is_deleted = ?", userID, false)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var out []models.Notification
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, apperr.Internal("failed to load notifications", err)
	}
	return out, nil
}

// MarkRead flags one of the user's notifications as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id uint) (*models.Notification, error) {
	var n models.Notification
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ? AND is_deleted = ?", id, userID, false).First(&n).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("Notification not found.")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load notification", err)
	}
	if !n.IsRead {
		if err := s.db.WithContext(ctx).Model(&n).Update("is_read", true).Error; err != nil {
			return nil, apperr.Internal("failed to update notification", err)
		}
	}
	return &n, nil
}

// MarkAllRead flags every unread notification of the user and returns how many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ? AND is_deleted = ?", userID, false, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, apperr.Internal("failed to update notifications", res.Error)
	}
	return res.RowsAffected, nil
}

// Delete soft deletes a notification regardless of owner.
func (s *NotificationService) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Update("is_deleted", true)
	if res.Error != nil {
		return apperr.Internal("failed to delete notification", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Notification not found.")
	}
	return nil
}
