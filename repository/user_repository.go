package repository

import (
	"gorm.io/gorm"

	"ActivityAdmin/model"
)

// UserFilter selects accounts. Empty fields are ignored; set fields are combined with AND.
type UserFilter struct {
	ID               string
	Username         string
	Email            string
	UsernameContains string
	ExcludeID        string
	ExcludeSuper     bool
}

// Apply implements Filter.
func (f UserFilter) Apply(tx *gorm.DB) *gorm.DB {
	if f.ID != "" {
		tx = tx.Where("id = ?", f.ID)
	}
	if f.Username != "" {
		tx = tx.Where("username = ?", f.Username)
	}
	if f.Email != "" {
		tx = tx.Where("email = ?", f.Email)
	}
	if f.UsernameContains != "" {
		tx = whereContains(tx, "username", f.UsernameContains)
	}
	if f.ExcludeID != "" {
		tx = tx.Where("id <> ?", f.ExcludeID)
	}
	if f.ExcludeSuper {
		tx = tx.Where("is_super = ?", false)
	}
	return tx
}

// Sort keys accepted by the user store.
const (
	UserSortCreatedAt = "createdAt"
	UserSortUsername  = "username"
	UserSortEmail     = "email"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	RecordStore[model.User, UserFilter]
}

// NewGormUserRepository 创建 GORM 用户仓库
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return newGormStore[model.User, UserFilter](db, "user", sortSpec{
		columns: map[string]string{
			UserSortCreatedAt: "created_at",
			UserSortUsername:  "username",
			UserSortEmail:     "email",
		},
		defaultKey: UserSortCreatedAt,
	})
}
