package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"ActivityAdmin/logger"
	"ActivityAdmin/model"
)

// ErrAccountExists is returned by SeedSuperAdmin when the username or email is taken.
var ErrAccountExists = errors.New("account already exists")

// SeedBlockTypes inserts the built-in block types that are missing. It is idempotent.
func SeedBlockTypes(ctx context.Context, gdb *gorm.DB) error {
	for _, name := range model.DefaultBlockTypes {
		bt := model.BlockType{ID: uuid.NewString(), Name: name}
		res := gdb.WithContext(ctx).Where(model.BlockType{Name: name}).FirstOrCreate(&bt)
		if res.Error != nil {
			return fmt.Errorf("failed to seed block type %s: %w", name, res.Error)
		}
		if res.RowsAffected > 0 {
			logger.Info("block type created", logger.String("name", name))
		}
	}
	return nil
}

// SeedSuperAdmin creates a super admin account with an already hashed password.
func SeedSuperAdmin(ctx context.Context, gdb *gorm.DB, username, email, passwordHash string) (*model.User, error) {
	var count int64
	err := gdb.WithContext(ctx).Model(&model.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing account %s: %w", username, err)
	}
	if count > 0 {
		return nil, ErrAccountExists
	}

	u := &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		IsSuper:      true,
		CreatedAt:    time.Now(),
	}
	if err := gdb.WithContext(ctx).Create(u).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("failed to insert super admin %s: %w", username, err)
	}
	logger.Info("super admin created", logger.String("username", username))
	return u, nil
}
