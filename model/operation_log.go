package model

import "time"

// LogCategory groups operation log entries by admin area.
type LogCategory string

const (
	LogCategoryAccount     LogCategory = "Account"
	LogCategoryBlockEntity LogCategory = "BlockEntity"
	LogCategorySystem      LogCategory = "System"
)

// OperationLog 操作日志
type OperationLog struct {
	ID        string      `json:"id" gorm:"primaryKey;size:36"`
	Message   string      `json:"message" gorm:"size:500;not null"`
	Category  LogCategory `json:"category" gorm:"size:32;not null;index"`
	Operator  string      `json:"operator" gorm:"size:64;not null;index"`
	CreatedAt time.Time   `json:"createdAt" gorm:"index"`
}

// TableName 指定表名
func (OperationLog) TableName() string {
	return "operation_logs"
}
