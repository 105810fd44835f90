package model

import "time"

// BlockType 黑名单类型，只读的参考表
type BlockType struct {
	ID   string `json:"id" gorm:"primaryKey;size:36"`
	Name string `json:"name" gorm:"size:50;not null;uniqueIndex"`
}

// TableName 指定表名
func (BlockType) TableName() string {
	return "block_types"
}

// BlockEntity 黑名单条目
type BlockEntity struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	BlockTypeID string    `json:"blockTypeId" gorm:"size:36;not null;index"`
	BlockValue  string    `json:"blockValue" gorm:"size:255;not null"`
	IsActive    bool      `json:"isActive" gorm:"not null;default:false"`
	CreatedAt   time.Time `json:"blockTime" gorm:"index"`
}

// TableName 指定表名
func (BlockEntity) TableName() string {
	return "block_entities"
}

// StatusLabel is the human readable state used in operation logs.
func (b *BlockEntity) StatusLabel() string {
	return StatusLabel(b.IsActive)
}

// StatusLabel maps an active flag onto "enabled"/"disabled".
func StatusLabel(active bool) string {
	if active {
		return "enabled"
	}
	return "disabled"
}

// Built-in block types seeded by the migrate command.
const (
	BlockTypeIP      = "IP"
	BlockTypePhone   = "Phone"
	BlockTypeName    = "Name"
	BlockTypeKeyword = "Keyword"
)

// DefaultBlockTypes lists the seeded block type names.
var DefaultBlockTypes = []string{BlockTypeIP, BlockTypePhone, BlockTypeName, BlockTypeKeyword}
