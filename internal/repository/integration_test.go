//go:build integration

package repository_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"notice-board/backend/internal/model"
	"notice-board/backend/internal/repository"
)

// ═══════════════════════════════════════════════════════════
// Test Setup
// ═══════════════════════════════════════════════════════════

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = "host=localhost port=5433 user=notice_board password=notice_board_password dbname=notice_board_test sslmode=disable TimeZone=UTC"
	}

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "无法连接测试数据库: %v\n", err)
		os.Exit(1)
	}

	// gen_random_uuid() 依赖 pgcrypto
	if err := testDB.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		fmt.Fprintf(os.Stderr, "创建 pgcrypto 扩展失败: %v\n", err)
		os.Exit(1)
	}

	// 自动迁移测试表结构
	err = testDB.AutoMigrate(
		&model.User{},
		&model.Message{},
		&model.MessageLink{},
		&model.Notification{},
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "AutoMigrate 失败: %v\n", err)
		os.Exit(1)
	}

	code := m.Run()
	os.Exit(code)
}

// setupTestData 创建基础测试数据并返回清理函数
func setupTestData(t *testing.T) (users []model.User, cleanup func()) {
	t.Helper()
	ctx := context.Background()

	users = []model.User{
		{Name: "甲", Email: fmt.Sprintf("a%d@example.com", time.Now().UnixNano())},
		{Name: "乙", Email: fmt.Sprintf("b%d@example.com", time.Now().UnixNano())},
		{Name: "丙", Email: fmt.Sprintf("c%d@example.com", time.Now().UnixNano())},
	}
	if err := testDB.WithContext(ctx).Create(&users).Error; err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}

	cleanup = func() {
		for _, u := range users {
			testDB.Where("user_id = ?", u.UserID).Delete(&model.User{})
		}
	}
	return
}

func strPtr(s string) *string { return &s }

// ═══════════════════════════════════════════════════════════
// Test: CreateWithLinks Transaction
// ═══════════════════════════════════════════════════════════

func TestMessage_CreateWithLinks(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	msg := &model.Message{Title: "维护通知", Content: "今晚2点停机"}
	links := []model.MessageLink{
		{URL: strPtr("https://status.example.com"), Label: strPtr("状态页")},
		{URL: strPtr("https://docs.example.com"), Label: nil},
	}
	if err := repo.Message.CreateWithLinks(ctx, msg, links); err != nil {
		t.Fatalf("CreateWithLinks 失败: %v", err)
	}
	defer repo.Message.Delete(ctx, msg.MessageID)

	if msg.MessageID == "" {
		t.Fatal("MessageID 应由数据库生成")
	}

	found, err := repo.Message.GetByID(ctx, msg.MessageID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if found.Title != "维护通知" {
		t.Errorf("标题不符: %s", found.Title)
	}
	if len(found.Links) != 2 {
		t.Errorf("期望2条链接，实际=%d", len(found.Links))
	}
	for _, l := range found.Links {
		if l.MessageID != msg.MessageID {
			t.Errorf("链接的 message_id 应指向消息: %s", l.MessageID)
		}
	}
}

func TestMessage_CreateWithLinks_NoLinks(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	msg := &model.Message{Title: "无链接消息", Content: "正文"}
	if err := repo.Message.CreateWithLinks(ctx, msg, nil); err != nil {
		t.Fatalf("CreateWithLinks 失败: %v", err)
	}
	defer repo.Message.Delete(ctx, msg.MessageID)

	found, err := repo.Message.GetByID(ctx, msg.MessageID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if len(found.Links) != 0 {
		t.Errorf("期望0条链接，实际=%d", len(found.Links))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Update (整组替换链接)
// ═══════════════════════════════════════════════════════════

func TestMessage_Update_ReplaceLinks(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	msg := &model.Message{Title: "原标题", Content: "原内容"}
	oldLinks := []model.MessageLink{
		{URL: strPtr("https://old-1.example.com")},
		{URL: strPtr("https://old-2.example.com")},
	}
	if err := repo.Message.CreateWithLinks(ctx, msg, oldLinks); err != nil {
		t.Fatalf("CreateWithLinks 失败: %v", err)
	}
	defer repo.Message.Delete(ctx, msg.MessageID)

	// 替换为单条新链接
	msg.Title = "新标题"
	msg.Content = "新内容"
	newLinks := []model.MessageLink{
		{URL: strPtr("https://new.example.com"), Label: strPtr("新链接")},
	}
	if err := repo.Message.Update(ctx, msg, newLinks, true); err != nil {
		t.Fatalf("Update 失败: %v", err)
	}

	found, err := repo.Message.GetByID(ctx, msg.MessageID)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if found.Title != "新标题" || found.Content != "新内容" {
		t.Errorf("字段未更新: title=%s content=%s", found.Title, found.Content)
	}
	if len(found.Links) != 1 {
		t.Fatalf("旧链接应被整组替换，期望1条，实际=%d", len(found.Links))
	}
	if *found.Links[0].URL != "https://new.example.com" {
		t.Errorf("链接内容不符: %s", *found.Links[0].URL)
	}
}

func TestMessage_Update_KeepLinks(t *testing.T) {
	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	msg := &model.Message{Title: "标题", Content: "内容"}
	links := []model.MessageLink{{URL: strPtr("https://keep.example.com")}}
	if err := repo.Message.CreateWithLinks(ctx, msg, links); err != nil {
		t.Fatalf("CreateWithLinks 失败: %v", err)
	}
	defer repo.Message.Delete(ctx, msg.MessageID)

	// replaceLinks=false：只改字段，链接原样保留
	msg.Title = "只改标题"
	if err := repo.Message.Update(ctx, msg, nil, false); err != nil {
		t.Fatalf("Update 失败: %v", err)
	}

	found, _ := repo.Message.GetByID(ctx, msg.MessageID)
	if len(found.Links) != 1 {
		t.Errorf("未请求替换时链接应保留，实际=%d", len(found.Links))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Delete Cascade (通知 → 链接 → 消息)
// ═══════════════════════════════════════════════════════════

func TestMessage_Delete_Cascade(t *testing.T) {
	users, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	msg := &model.Message{Title: "将被删除", Content: "内容"}
	links := []model.MessageLink{{URL: strPtr("https://gone.example.com")}}
	if err := repo.Message.CreateWithLinks(ctx, msg, links); err != nil {
		t.Fatalf("CreateWithLinks 失败: %v", err)
	}

	notifications := make([]model.Notification, 0, len(users))
	for _, u := range users {
		notifications = append(notifications, model.Notification{
			UserID:    u.UserID,
			MessageID: msg.MessageID,
		})
	}
	if err := repo.Notification.BatchCreate(ctx, notifications); err != nil {
		t.Fatalf("BatchCreate 失败: %v", err)
	}

	if err := repo.Message.Delete(ctx, msg.MessageID); err != nil {
		t.Fatalf("Delete 失败: %v", err)
	}

	// 消息、链接、通知全部消失
	if _, err := repo.Message.GetByID(ctx, msg.MessageID); err == nil {
		t.Error("删除后消息仍可查到")
	}
	var linkCount int64
	testDB.Model(&model.MessageLink{}).Where("message_id = ?", msg.MessageID).Count(&linkCount)
	if linkCount != 0 {
		t.Errorf("链接应被级联删除，剩余=%d", linkCount)
	}
	remaining, err := repo.Notification.ListByMessage(ctx, msg.MessageID)
	if err != nil {
		t.Fatalf("ListByMessage 失败: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("通知应被级联删除，剩余=%d", len(remaining))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: Notification Fan-out & State
// ═══════════════════════════════════════════════════════════

func TestNotification_BatchCreate_Defaults(t *testing.T) {
	users, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	msg := &model.Message{Title: "扇出消息", Content: "内容"}
	if err := repo.Message.CreateWithLinks(ctx, msg, nil); err != nil {
		t.Fatalf("CreateWithLinks 失败: %v", err)
	}
	defer repo.Message.Delete(ctx, msg.MessageID)

	notifications := make([]model.Notification, 0, len(users))
	for _, u := range users {
		notifications = append(notifications, model.Notification{
			UserID:    u.UserID,
			MessageID: msg.MessageID,
		})
	}
	if err := repo.Notification.BatchCreate(ctx, notifications); err != nil {
		t.Fatalf("BatchCreate 失败: %v", err)
	}

	list, err := repo.Notification.ListByMessage(ctx, msg.MessageID)
	if err != nil {
		t.Fatalf("ListByMessage 失败: %v", err)
	}
	if len(list) != len(users) {
		t.Fatalf("期望%d条通知，实际=%d", len(users), len(list))
	}
	for _, n := range list {
		if n.IsRead || n.IsDismissed {
			t.Errorf("新通知应为未读未忽略: %+v", n)
		}
		if n.ReadAt != nil || n.DismissedAt != nil {
			t.Errorf("新通知时间戳应为空: %+v", n)
		}
	}
}

func TestNotification_MarkRead(t *testing.T) {
	users, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	msg := &model.Message{Title: "消息", Content: "内容"}
	if err := repo.Message.CreateWithLinks(ctx, msg, nil); err != nil {
		t.Fatalf("CreateWithLinks 失败: %v", err)
	}
	defer repo.Message.Delete(ctx, msg.MessageID)

	notifications := []model.Notification{{UserID: users[0].UserID, MessageID: msg.MessageID}}
	if err := repo.Notification.BatchCreate(ctx, notifications); err != nil {
		t.Fatalf("BatchCreate 失败: %v", err)
	}
	id := notifications[0].NotificationID

	first := time.Now().UTC().Truncate(time.Microsecond)
	if err := repo.Notification.MarkRead(ctx, id, first); err != nil {
		t.Fatalf("MarkRead 失败: %v", err)
	}

	found, err := repo.Notification.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("GetByID 失败: %v", err)
	}
	if !found.IsRead || found.ReadAt == nil {
		t.Fatalf("已读状态不符: is_read=%v read_at=%v", found.IsRead, found.ReadAt)
	}
	if found.IsDismissed {
		t.Error("标记已读不应影响忽略状态")
	}

	// 重复标记刷新时间戳
	second := first.Add(time.Hour)
	if err := repo.Notification.MarkRead(ctx, id, second); err != nil {
		t.Fatalf("重复 MarkRead 失败: %v", err)
	}
	found, _ = repo.Notification.GetByID(ctx, id)
	if !found.ReadAt.After(first) {
		t.Errorf("read_at 应被刷新: %v", found.ReadAt)
	}
}

func TestNotification_CountUnreadByUser(t *testing.T) {
	users, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	msg := &model.Message{Title: "消息", Content: "内容"}
	if err := repo.Message.CreateWithLinks(ctx, msg, nil); err != nil {
		t.Fatalf("CreateWithLinks 失败: %v", err)
	}
	defer repo.Message.Delete(ctx, msg.MessageID)

	notifications := make([]model.Notification, 0, len(users))
	for _, u := range users {
		notifications = append(notifications, model.Notification{
			UserID:    u.UserID,
			MessageID: msg.MessageID,
		})
	}
	if err := repo.Notification.BatchCreate(ctx, notifications); err != nil {
		t.Fatalf("BatchCreate 失败: %v", err)
	}

	count, err := repo.Notification.CountUnreadByUser(ctx, users[0].UserID)
	if err != nil {
		t.Fatalf("CountUnreadByUser 失败: %v", err)
	}
	if count != 1 {
		t.Errorf("期望未读数=1，实际=%d", count)
	}

	if err := repo.Notification.MarkRead(ctx, notifications[0].NotificationID, time.Now().UTC()); err != nil {
		t.Fatalf("MarkRead 失败: %v", err)
	}
	count, _ = repo.Notification.CountUnreadByUser(ctx, users[0].UserID)
	if count != 0 {
		t.Errorf("已读后期望未读数=0，实际=%d", count)
	}
}

// ═══════════════════════════════════════════════════════════
// Test: ListByUser Preload (实时联合视图)
// ═══════════════════════════════════════════════════════════

func TestNotification_ListByUser_PreloadsLiveMessage(t *testing.T) {
	users, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	msg := &model.Message{Title: "原标题", Content: "内容"}
	links := []model.MessageLink{{URL: strPtr("https://link.example.com")}}
	if err := repo.Message.CreateWithLinks(ctx, msg, links); err != nil {
		t.Fatalf("CreateWithLinks 失败: %v", err)
	}
	defer repo.Message.Delete(ctx, msg.MessageID)

	notifications := []model.Notification{{UserID: users[0].UserID, MessageID: msg.MessageID}}
	if err := repo.Notification.BatchCreate(ctx, notifications); err != nil {
		t.Fatalf("BatchCreate 失败: %v", err)
	}

	// 编辑消息后列表应反映最新内容
	msg.Title = "编辑后标题"
	msg.Content = "编辑后内容"
	if err := repo.Message.Update(ctx, msg, nil, false); err != nil {
		t.Fatalf("Update 失败: %v", err)
	}

	list, err := repo.Notification.ListByUser(ctx, users[0].UserID)
	if err != nil {
		t.Fatalf("ListByUser 失败: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("期望1条通知，实际=%d", len(list))
	}
	if list[0].Message == nil {
		t.Fatal("Message 关联应被预加载")
	}
	if list[0].Message.Title != "编辑后标题" {
		t.Errorf("视图应反映消息最新标题: %s", list[0].Message.Title)
	}
	if len(list[0].Message.Links) != 1 {
		t.Errorf("消息链接应被预加载，实际=%d", len(list[0].Message.Links))
	}
}

// ═══════════════════════════════════════════════════════════
// Test: User ListByIDs
// ═══════════════════════════════════════════════════════════

func TestUser_ListByIDs(t *testing.T) {
	users, cleanup := setupTestData(t)
	defer cleanup()

	repo := repository.NewRepository(testDB)
	ctx := context.Background()

	got, err := repo.User.ListByIDs(ctx, []string{users[0].UserID, users[2].UserID})
	if err != nil {
		t.Fatalf("ListByIDs 失败: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("期望2个用户，实际=%d", len(got))
	}

	// 空 ID 列表
	got, err = repo.User.ListByIDs(ctx, []string{})
	if err != nil {
		t.Fatalf("空 ID 列表不应报错: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("空 ID 列表期望0个用户，实际=%d", len(got))
	}
}
