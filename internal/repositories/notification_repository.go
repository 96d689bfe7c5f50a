package repositories

import (
	"context"
	"time"

	"github.com/crewlink/backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NotificationRepository defines the interface for notification record
// operations.
type NotificationRepository interface {
	Append(ctx context.Context, intent *models.NotificationIntent) (*models.Notification, bool, error)
	GetByRecipientID(ctx context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error)
	GetUnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkAsRead(ctx context.Context, notificationID string) error
	MarkAllAsRead(ctx context.Context, recipientID string) error
}

type postgresNotificationRepository struct {
	db *gorm.DB
}

// NewPostgresNotificationRepository creates a new NotificationRepository
// backed by PostgreSQL.
func NewPostgresNotificationRepository(db *gorm.DB) NotificationRepository {
	return &postgresNotificationRepository{db: db}
}

// Append persists a record for the intent. A record with the same
// (type, reference_id) already present means the source event was
// redelivered; the insert is a no-op and created is false, so the
// caller can skip the push stage instead of duplicating it.
func (r *postgresNotificationRepository) Append(ctx context.Context, intent *models.NotificationIntent) (*models.Notification, bool, error) {
	record := &models.Notification{
		ID:          uuid.NewString(),
		RecipientID: intent.RecipientID,
		SenderID:    intent.SenderID,
		SenderName:  intent.SenderName,
		Type:        intent.Type,
		Message:     intent.Message,
		ReferenceID: intent.ReferenceID,
		ProjectID:   intent.ProjectID,
		CreatedAt:   time.Now().UTC(),
	}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "type"}, {Name: "reference_id"}},
		DoNothing: true,
	}).Create(record)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return record, res.RowsAffected > 0, nil
}

// GetByRecipientID returns the recipient's notifications, newest first.
func (r *postgresNotificationRepository) GetByRecipientID(ctx context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	var total int64

	r.db.WithContext(ctx).Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&total)

	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).Where("recipient_id = ?", recipientID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&notifications).Error

	return notifications, total, err
}

// GetUnreadCount returns the number of unread notifications
func (r *postgresNotificationRepository) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).Count(&count).Error
	return count, err
}

// MarkAsRead marks a notification as read
func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, notificationID string) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ?", notificationID).Update("is_read", true).Error
}

// MarkAllAsRead marks all of the recipient's notifications as read
func (r *postgresNotificationRepository) MarkAllAsRead(ctx context.Context, recipientID string) error {
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = false", recipientID).Update("is_read", true).Error
}
