package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ActivityAdmin/cache"
	"ActivityAdmin/logger"
	"ActivityAdmin/metrics"
	"ActivityAdmin/model"
	"ActivityAdmin/repository"
)

// ActiveBlockListKey is the object key of the exported active block list.
const ActiveBlockListKey = "blocklist/active.json"

// Exporter stores a JSON document under a key.
type Exporter interface {
	PutJSON(ctx context.Context, key string, payload interface{}) (int64, error)
}

// BlockListSnapshot is the exported document.
type BlockListSnapshot struct {
	ExportedAt time.Time            `json:"exportedAt"`
	ExportedBy string               `json:"exportedBy"`
	Count      int                  `json:"count"`
	Entries    []BlockSnapshotEntry `json:"entries"`
}

// BlockSnapshotEntry is one active entry in a snapshot.
type BlockSnapshotEntry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	BlockTime time.Time `json:"blockTime"`
}

// ExportResult describes a finished export.
type ExportResult struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
	Bytes int64  `json:"bytes"`
}

// BlockListService 黑名单管理服务
type BlockListService struct {
	entries   repository.BlockEntityRepository
	types     repository.BlockTypeRepository
	typeCache cache.BlockTypeCache // optional
	exporter  Exporter             // optional
	audit     AuditLog
	now       func() time.Time
}

// NewBlockListService 创建黑名单服务. typeCache and exporter may be nil.
func NewBlockListService(entries repository.BlockEntityRepository, types repository.BlockTypeRepository, typeCache cache.BlockTypeCache, exporter Exporter, audit AuditLog) *BlockListService {
	return &BlockListService{
		entries:   entries,
		types:     types,
		typeCache: typeCache,
		exporter:  exporter,
		audit:     audit,
		now:       time.Now,
	}
}

// AddEntry creates an inactive entry of an existing block type.
func (s *BlockListService) AddEntry(ctx context.Context, actor model.Principal, typeID, value string) (e *model.BlockEntity, err error) {
	defer func() { metrics.ObserveOperation(string(model.LogCategoryBlockEntity), "add", err) }()

	value, err = validateBlockValue(value)
	if err != nil {
		return nil, err
	}
	if typeID == "" {
		return nil, fmt.Errorf("%w: block type is required", ErrValidation)
	}
	bt, err := s.types.FindOne(ctx, repository.BlockTypeFilter{ID: typeID})
	if err != nil {
		return nil, storeFailure("add block entry", err, logger.String("typeId", typeID))
	}
	if bt == nil {
		return nil, fmt.Errorf("%w: unknown block type %q", ErrValidation, typeID)
	}

	e = &model.BlockEntity{
		ID:          uuid.NewString(),
		BlockTypeID: bt.ID,
		BlockValue:  value,
		IsActive:    false,
		CreatedAt:   s.now(),
	}
	if _, err := s.entries.Insert(ctx, e); err != nil {
		return nil, storeFailure("add block entry", err, logger.String("value", value))
	}

	s.audit.Record(ctx, fmt.Sprintf("Added %s entry %s to block list", bt.Name, value), model.LogCategoryBlockEntity, actor.Username)
	return e, nil
}

// ListEntries pages through the entries matching filter, newest first by default.
func (s *BlockListService) ListEntries(ctx context.Context, filter repository.BlockEntityFilter, page model.PageRequest) (*model.PageResult[model.BlockEntity], error) {
	if page.SortKey == "" {
		page.SortKey = repository.BlockSortCreatedAt
		page.Descending = true
	}
	res, err := s.entries.Query(ctx, filter, page)
	if err != nil {
		return nil, queryFailure("list block entries", err)
	}
	return res, nil
}

func (s *BlockListService) findEntry(ctx context.Context, op, id string) (*model.BlockEntity, error) {
	if err := validateID(id, "block entry"); err != nil {
		return nil, err
	}
	e, err := s.entries.FindOne(ctx, repository.BlockEntityFilter{ID: id})
	if err != nil {
		return nil, storeFailure(op, err, logger.String("entryId", id))
	}
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

// SetEntryStatus writes only the active flag of an entry.
func (s *BlockListService) SetEntryStatus(ctx context.Context, actor model.Principal, id string, active bool) (err error) {
	defer func() { metrics.ObserveOperation(string(model.LogCategoryBlockEntity), "set_status", err) }()

	e, err := s.findEntry(ctx, "set block entry status", id)
	if err != nil {
		return err
	}
	// MySQL reports zero affected rows when the flag already has this value, so the
	// existence check above is what decides ErrNotFound.
	if _, err := s.entries.UpdateFields(ctx, &model.BlockEntity{ID: id, IsActive: active}, "IsActive"); err != nil {
		return storeFailure("set block entry status", err, logger.String("entryId", id))
	}

	s.audit.Record(ctx, fmt.Sprintf("Block entry %s %s", e.BlockValue, model.StatusLabel(active)), model.LogCategoryBlockEntity, actor.Username)
	return nil
}

// DeleteEntry removes an entry.
func (s *BlockListService) DeleteEntry(ctx context.Context, actor model.Principal, id string) (err error) {
	defer func() { metrics.ObserveOperation(string(model.LogCategoryBlockEntity), "delete", err) }()

	e, err := s.findEntry(ctx, "delete block entry", id)
	if err != nil {
		return err
	}
	n, err := s.entries.Delete(ctx, &model.BlockEntity{ID: id})
	if err != nil {
		return storeFailure("delete block entry", err, logger.String("entryId", id))
	}
	if n == 0 {
		return ErrNotFound
	}

	s.audit.Record(ctx, fmt.Sprintf("Deleted block entry %s", e.BlockValue), model.LogCategoryBlockEntity, actor.Username)
	return nil
}

// ListTypes returns every block type sorted by name.
func (s *BlockListService) ListTypes(ctx context.Context) ([]model.BlockType, error) {
	if s.typeCache != nil {
		cached, err := s.typeCache.Get(ctx)
		if err != nil {
			logger.Warn("block type cache read failed", logger.ErrorField(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	types, err := s.types.FindAll(ctx, repository.BlockTypeFilter{}, repository.BlockTypeSortName, false)
	if err != nil {
		return nil, storeFailure("list block types", err)
	}
	if s.typeCache != nil {
		if err := s.typeCache.Set(ctx, types); err != nil {
			logger.Warn("block type cache write failed", logger.ErrorField(err))
		}
	}
	return types, nil
}

// InvalidateTypes drops the cached block types so the next ListTypes reads the database.
func (s *BlockListService) InvalidateTypes(ctx context.Context) error {
	if s.typeCache == nil {
		return nil
	}
	if err := s.typeCache.Invalidate(ctx); err != nil {
		logger.Warn("block type cache invalidation failed", logger.ErrorField(err))
		return err
	}
	return nil
}

// ExportActive writes a snapshot of every active entry to the exporter.
func (s *BlockListService) ExportActive(ctx context.Context, actor model.Principal) (res *ExportResult, err error) {
	defer func() { metrics.ObserveOperation(string(model.LogCategoryBlockEntity), "export", err) }()

	if !actor.IsSuper {
		return nil, ErrForbidden
	}
	if s.exporter == nil {
		return nil, ErrExportUnavailable
	}

	types, err := s.ListTypes(ctx)
	if err != nil {
		return nil, err
	}
	typeNames := make(map[string]string, len(types))
	for _, t := range types {
		typeNames[t.ID] = t.Name
	}

	snapshot := BlockListSnapshot{
		ExportedAt: s.now(),
		ExportedBy: actor.Username,
		Entries:    make([]BlockSnapshotEntry, 0),
	}
	page := model.PageRequest{PageIndex: 1, PageSize: model.MaxPageSize, SortKey: repository.BlockSortCreatedAt}
	for {
		batch, err := s.entries.Query(ctx, repository.BlockEntityFilter{ActiveOnly: true}, page)
		if err != nil {
			return nil, storeFailure("export block list", err, logger.Int("page", page.PageIndex))
		}
		for _, e := range batch.Items {
			snapshot.Entries = append(snapshot.Entries, BlockSnapshotEntry{
				ID:        e.ID,
				Type:      typeNames[e.BlockTypeID],
				Value:     e.BlockValue,
				BlockTime: e.CreatedAt,
			})
		}
		if page.PageIndex >= batch.PageCount {
			break
		}
		page.PageIndex++
	}
	snapshot.Count = len(snapshot.Entries)

	n, err := s.exporter.PutJSON(ctx, ActiveBlockListKey, snapshot)
	if err != nil {
		logger.Error("block list export failed", logger.String("key", ActiveBlockListKey), logger.ErrorField(err))
		return nil, ErrStore
	}

	logger.Info("block list exported", logger.String("key", ActiveBlockListKey), logger.Int("count", snapshot.Count))
	s.audit.Record(ctx, fmt.Sprintf("Exported %d active block entries to %s", snapshot.Count, ActiveBlockListKey), model.LogCategoryBlockEntity, actor.Username)
	return &ExportResult{Key: ActiveBlockListKey, Count: snapshot.Count, Bytes: n}, nil
}
