package repository

import (
	"gorm.io/gorm"

	"ActivityAdmin/model"
)

// BlockEntityFilter selects block list entries. An empty TypeID matches every type and an
// empty ValueContains matches every value.
type BlockEntityFilter struct {
	ID            string
	TypeID        string
	ValueContains string
	ActiveOnly    bool
}

// Apply implements Filter.
func (f BlockEntityFilter) Apply(tx *gorm.DB) *gorm.DB {
	if f.ID != "" {
		tx = tx.Where("id = ?", f.ID)
	}
	if f.TypeID != "" {
		tx = tx.Where("block_type_id = ?", f.TypeID)
	}
	if f.ValueContains != "" {
		tx = whereContains(tx, "block_value", f.ValueContains)
	}
	if f.ActiveOnly {
		tx = tx.Where("is_active = ?", true)
	}
	return tx
}

// BlockTypeFilter selects block types.
type BlockTypeFilter struct {
	ID   string
	Name string
}

// Apply implements Filter.
func (f BlockTypeFilter) Apply(tx *gorm.DB) *gorm.DB {
	if f.ID != "" {
		tx = tx.Where("id = ?", f.ID)
	}
	if f.Name != "" {
		tx = tx.Where("name = ?", f.Name)
	}
	return tx
}

// Sort keys accepted by the block stores.
const (
	BlockSortCreatedAt = "blockTime"
	BlockSortValue     = "blockValue"
	BlockSortType      = "blockTypeId"
	BlockTypeSortName  = "name"
)

// BlockEntityRepository 黑名单数据访问接口
type BlockEntityRepository interface {
	RecordStore[model.BlockEntity, BlockEntityFilter]
}

// BlockTypeRepository 黑名单类型数据访问接口
type BlockTypeRepository interface {
	RecordStore[model.BlockType, BlockTypeFilter]
}

// NewGormBlockEntityRepository 创建 GORM 黑名单仓库
func NewGormBlockEntityRepository(db *gorm.DB) BlockEntityRepository {
	return newGormStore[model.BlockEntity, BlockEntityFilter](db, "block entity", sortSpec{
		columns: map[string]string{
			BlockSortCreatedAt: "created_at",
			BlockSortValue:     "block_value",
			BlockSortType:      "block_type_id",
		},
		defaultKey: BlockSortCreatedAt,
	})
}

// NewGormBlockTypeRepository 创建 GORM 黑名单类型仓库
func NewGormBlockTypeRepository(db *gorm.DB) BlockTypeRepository {
	return newGormStore[model.BlockType, BlockTypeFilter](db, "block type", sortSpec{
		columns:    map[string]string{BlockTypeSortName: "name"},
		defaultKey: BlockTypeSortName,
	})
}
