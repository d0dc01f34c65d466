package handler

import "notice-board/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Message      *MessageHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Message:      NewMessageHandler(svc.Message),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
