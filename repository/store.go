package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ActivityAdmin/model"
)

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("duplicate key")

// Filter is an explicit filter value that knows how to express itself as gorm
// conditions. The zero value of a filter matches every record.
type Filter interface {
	Apply(tx *gorm.DB) *gorm.DB
}

// RecordStore is the table abstraction the services work against.
type RecordStore[T any, F Filter] interface {
	Insert(ctx context.Context, record *T) (int64, error)
	// UpdateFields writes only the named fields of record, located by its primary key.
	UpdateFields(ctx context.Context, record *T, fields ...string) (int64, error)
	Delete(ctx context.Context, record *T) (int64, error)
	// FindOne returns (nil, nil) when nothing matches.
	FindOne(ctx context.Context, filter F) (*T, error)
	FindAll(ctx context.Context, filter F, sortKey string, descending bool) ([]T, error)
	// Query returns one sorted page of the records matching filter plus the total match count.
	Query(ctx context.Context, filter F, page model.PageRequest) (*model.PageResult[T], error)
}

// sortSpec maps public sort keys onto columns. Sort keys never reach SQL directly.
type sortSpec struct {
	columns    map[string]string
	defaultKey string
}

func (s sortSpec) column(key string) (string, error) {
	if key == "" {
		key = s.defaultKey
	}
	col, ok := s.columns[key]
	if !ok {
		return "", fmt.Errorf("%w: %q", model.ErrInvalidSortKey, key)
	}
	return col, nil
}

// gormStore GORM 实现
type gormStore[T any, F Filter] struct {
	db     *gorm.DB
	entity string
	sort   sortSpec
}

func newGormStore[T any, F Filter](db *gorm.DB, entity string, sort sortSpec) *gormStore[T, F] {
	return &gormStore[T, F]{db: db, entity: entity, sort: sort}
}

func (s *gormStore[T, F]) scoped(ctx context.Context, filter F) *gorm.DB {
	return filter.Apply(s.db.WithContext(ctx).Model(new(T)))
}

func (s *gormStore[T, F]) wrap(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("failed to %s %s: %w", op, s.entity, ErrDuplicate)
	}
	return fmt.Errorf("failed to %s %s: %w", op, s.entity, err)
}

// Insert 插入一条记录
func (s *gormStore[T, F]) Insert(ctx context.Context, record *T) (int64, error) {
	res := s.db.WithContext(ctx).Create(record)
	if res.Error != nil {
		return 0, s.wrap("insert", res.Error)
	}
	return res.RowsAffected, nil
}

// UpdateFields 按字段列表更新
func (s *gormStore[T, F]) UpdateFields(ctx context.Context, record *T, fields ...string) (int64, error) {
	if len(fields) == 0 {
		return 0, fmt.Errorf("failed to update %s: no fields given", s.entity)
	}
	res := s.db.WithContext(ctx).Model(record).Select(fields).Updates(record)
	if res.Error != nil {
		return 0, s.wrap("update", res.Error)
	}
	return res.RowsAffected, nil
}

// Delete 按主键删除
func (s *gormStore[T, F]) Delete(ctx context.Context, record *T) (int64, error) {
	res := s.db.WithContext(ctx).Delete(record)
	if res.Error != nil {
		return 0, s.wrap("delete", res.Error)
	}
	return res.RowsAffected, nil
}

// FindOne 查询单条记录
func (s *gormStore[T, F]) FindOne(ctx context.Context, filter F) (*T, error) {
	var record T
	err := s.scoped(ctx, filter).Take(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, s.wrap("find", err)
	}
	return &record, nil
}

// FindAll 查询全部匹配记录，不分页
func (s *gormStore[T, F]) FindAll(ctx context.Context, filter F, sortKey string, descending bool) ([]T, error) {
	column, err := s.sort.column(sortKey)
	if err != nil {
		return nil, err
	}
	records := make([]T, 0)
	err = s.order(s.scoped(ctx, filter), column, descending).Find(&records).Error
	if err != nil {
		return nil, s.wrap("list", err)
	}
	return records, nil
}

// Query 分页查询
func (s *gormStore[T, F]) Query(ctx context.Context, filter F, page model.PageRequest) (*model.PageResult[T], error) {
	page, err := page.Normalize()
	if err != nil {
		return nil, err
	}
	column, err := s.sort.column(page.SortKey)
	if err != nil {
		return nil, err
	}

	var total int64
	if err := s.scoped(ctx, filter).Count(&total).Error; err != nil {
		return nil, s.wrap("count", err)
	}

	items := make([]T, 0, page.PageSize)
	if total == 0 || int64(page.Offset()) >= total {
		return model.NewPageResult(page, items, total), nil
	}

	err = s.order(s.scoped(ctx, filter), column, page.Descending).
		Offset(page.Offset()).
		Limit(page.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, s.wrap("query", err)
	}
	return model.NewPageResult(page, items, total), nil
}

// order sorts by column, then by primary key so that equal keys page deterministically.
func (s *gormStore[T, F]) order(tx *gorm.DB, column string, descending bool) *gorm.DB {
	tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: descending})
	if column != "id" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}
	return tx
}

// likeEscaper escapes LIKE wildcards with '!', which needs no quoting in MySQL or SQLite.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// whereContains adds a case-insensitive substring condition on column.
func whereContains(tx *gorm.DB, column, value string) *gorm.DB {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
	return tx.Where("LOWER("+column+") LIKE ? ESCAPE '!'", pattern)
}
