package repository

import (
	"gorm.io/gorm"

	"ActivityAdmin/model"
)

// OperationLogFilter selects operation log entries.
type OperationLogFilter struct {
	Category        model.LogCategory
	Operator        string
	MessageContains string
}

// Apply implements Filter.
func (f OperationLogFilter) Apply(tx *gorm.DB) *gorm.DB {
	if f.Category != "" {
		tx = tx.Where("category = ?", string(f.Category))
	}
	if f.Operator != "" {
		tx = tx.Where("operator = ?", f.Operator)
	}
	if f.MessageContains != "" {
		tx = whereContains(tx, "message", f.MessageContains)
	}
	return tx
}

const LogSortCreatedAt = "createdAt"

// OperationLogRepository 操作日志数据访问接口
type OperationLogRepository interface {
	RecordStore[model.OperationLog, OperationLogFilter]
}

// NewGormOperationLogRepository 创建 GORM 操作日志仓库
func NewGormOperationLogRepository(db *gorm.DB) OperationLogRepository {
	return newGormStore[model.OperationLog, OperationLogFilter](db, "operation log", sortSpec{
		columns:    map[string]string{LogSortCreatedAt: "created_at"},
		defaultKey: LogSortCreatedAt,
	})
}
