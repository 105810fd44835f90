package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ActivityAdmin/model"
	"ActivityAdmin/repository"
)

func newBlockService(f *fixture, typeCache *countingTypeCache, exporter *memoryExporter) *BlockListService {
	svc := NewBlockListService(f.entries, f.types, nil, nil, f.audit)
	if typeCache != nil {
		svc.typeCache = typeCache
	}
	if exporter != nil {
		svc.exporter = exporter
	}
	return svc
}

func TestBlockEntryScenario(t *testing.T) {
	f := newFixture(t)
	svc := newBlockService(f, nil, nil)
	ctx := context.Background()
	ipType := f.typeID(t, model.BlockTypeIP)

	e, err := svc.AddEntry(ctx, plain, ipType, "192.0.2.1")
	require.NoError(t, err)
	assert.False(t, e.IsActive, "new entries are inactive")

	require.NoError(t, svc.SetEntryStatus(ctx, plain, e.ID, true))

	res, err := svc.ListEntries(ctx, repository.BlockEntityFilter{TypeID: ipType}, model.PageRequest{PageIndex: 1, PageSize: 10})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, res.Total, int64(1))
	require.Len(t, res.Items, 1)
	assert.Equal(t, e.ID, res.Items[0].ID)
	assert.True(t, res.Items[0].IsActive)

	entries := f.audit.all()
	require.Len(t, entries, 2)
	assert.Equal(t, model.LogCategoryBlockEntity, entries[0].Category)
	assert.Contains(t, entries[1].Message, "enabled")
	assert.Equal(t, "plain", entries[1].Actor)
}

func TestSetEntryStatusTwiceRestores(t *testing.T) {
	f := newFixture(t)
	svc := newBlockService(f, nil, nil)
	ctx := context.Background()
	e, err := svc.AddEntry(ctx, plain, f.typeID(t, model.BlockTypeKeyword), "spam")
	require.NoError(t, err)

	require.NoError(t, svc.SetEntryStatus(ctx, plain, e.ID, true))
	require.NoError(t, svc.SetEntryStatus(ctx, plain, e.ID, false))

	got, err := f.entries.FindOne(ctx, repository.BlockEntityFilter{ID: e.ID})
	require.NoError(t, err)
	assert.False(t, got.IsActive)
	assert.Equal(t, "spam", got.BlockValue)
	assert.Contains(t, f.audit.all()[2].Message, "disabled")

	// same value again is not an error
	require.NoError(t, svc.SetEntryStatus(ctx, plain, e.ID, false))
	assert.ErrorIs(t, svc.SetEntryStatus(ctx, plain, "missing", true), ErrNotFound)
}

func TestAddEntryValidation(t *testing.T) {
	f := newFixture(t)
	svc := newBlockService(f, nil, nil)
	ctx := context.Background()
	ipType := f.typeID(t, model.BlockTypeIP)

	_, err := svc.AddEntry(ctx, plain, ipType, "   ")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.AddEntry(ctx, plain, "", "x")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.AddEntry(ctx, plain, "no-such-type", "x")
	assert.ErrorIs(t, err, ErrValidation)

	res, err := svc.ListEntries(ctx, repository.BlockEntityFilter{}, model.PageRequest{PageIndex: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, f.audit.all())
}

func TestListEntriesFilters(t *testing.T) {
	f := newFixture(t)
	svc := newBlockService(f, nil, nil)
	ctx := context.Background()
	ipType := f.typeID(t, model.BlockTypeIP)
	kwType := f.typeID(t, model.BlockTypeKeyword)

	for i := 0; i < 15; i++ {
		_, err := svc.AddEntry(ctx, plain, ipType, fmt.Sprintf("10.0.0.%d", i))
		require.NoError(t, err)
	}
	for _, v := range []string{"Casino", "casino-bonus", "lottery"} {
		_, err := svc.AddEntry(ctx, plain, kwType, v)
		require.NoError(t, err)
	}

	res, err := svc.ListEntries(ctx, repository.BlockEntityFilter{TypeID: ipType}, model.PageRequest{PageIndex: 2, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(15), res.Total)
	assert.Len(t, res.Items, 5)

	res, err = svc.ListEntries(ctx, repository.BlockEntityFilter{ValueContains: "casino"}, model.PageRequest{PageIndex: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)

	res, err = svc.ListEntries(ctx, repository.BlockEntityFilter{TypeID: ipType, ValueContains: "casino"}, model.PageRequest{PageIndex: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, res.Total)

	// newest first by default
	res, err = svc.ListEntries(ctx, repository.BlockEntityFilter{}, model.PageRequest{PageIndex: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, "lottery", res.Items[0].BlockValue)

	res, err = svc.ListEntries(ctx, repository.BlockEntityFilter{}, model.PageRequest{PageIndex: 50, PageSize: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, int64(18), res.Total)

	_, err = svc.ListEntries(ctx, repository.BlockEntityFilter{}, model.PageRequest{PageIndex: 1, PageSize: -1})
	assert.ErrorIs(t, err, model.ErrInvalidPageSize)
}

func TestEmptyEntryIDIsRejected(t *testing.T) {
	f := newFixture(t)
	svc := newBlockService(f, nil, nil)
	ctx := context.Background()
	e, err := svc.AddEntry(ctx, plain, f.typeID(t, model.BlockTypeIP), "198.51.100.7")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.SetEntryStatus(ctx, plain, "", true), ErrValidation)
	assert.ErrorIs(t, svc.DeleteEntry(ctx, plain, ""), ErrValidation)

	got, err := f.entries.FindOne(ctx, repository.BlockEntityFilter{ID: e.ID})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.IsActive)
	assert.Len(t, f.audit.all(), 1)
}

func TestDeleteEntry(t *testing.T) {
	f := newFixture(t)
	svc := newBlockService(f, nil, nil)
	ctx := context.Background()
	e, err := svc.AddEntry(ctx, plain, f.typeID(t, model.BlockTypePhone), "13800000000")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEntry(ctx, plain, e.ID))
	assert.ErrorIs(t, svc.DeleteEntry(ctx, plain, e.ID), ErrNotFound)
	assert.ErrorIs(t, svc.SetEntryStatus(ctx, plain, e.ID, true), ErrNotFound)

	entries := f.audit.all()
	require.Len(t, entries, 2)
	assert.Contains(t, entries[1].Message, "13800000000")
}

func TestListTypesUsesCache(t *testing.T) {
	f := newFixture(t)
	tc := &countingTypeCache{}
	svc := newBlockService(f, tc, nil)
	ctx := context.Background()

	types, err := svc.ListTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, len(model.DefaultBlockTypes))
	assert.Equal(t, model.BlockTypeIP, types[0].Name)
	assert.Equal(t, 1, tc.sets)

	again, err := svc.ListTypes(ctx)
	require.NoError(t, err)
	assert.Equal(t, types, again)
	assert.Equal(t, 1, tc.sets, "second call is served from the cache")
	assert.Equal(t, 2, tc.gets)
}

func TestInvalidateTypesAfterSeeding(t *testing.T) {
	f := newFixture(t)
	tc := &countingTypeCache{}
	svc := newBlockService(f, tc, nil)
	ctx := context.Background()

	types, err := svc.ListTypes(ctx)
	require.NoError(t, err)
	_, err = f.types.Insert(ctx, &model.BlockType{ID: "bt-email", Name: "Email"})
	require.NoError(t, err)

	stale, err := svc.ListTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, stale, len(types))

	require.NoError(t, svc.InvalidateTypes(ctx))
	fresh, err := svc.ListTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, len(types)+1)
	assert.Equal(t, 2, tc.sets)

	assert.NoError(t, newBlockService(f, nil, nil).InvalidateTypes(ctx))
}

func TestExportActive(t *testing.T) {
	f := newFixture(t)
	exp := &memoryExporter{}
	svc := newBlockService(f, nil, exp)
	ctx := context.Background()
	ipType := f.typeID(t, model.BlockTypeIP)

	var active int
	for i := 0; i < 130; i++ {
		e, err := svc.AddEntry(ctx, plain, ipType, fmt.Sprintf("192.0.2.%d", i))
		require.NoError(t, err)
		if i%2 == 0 {
			require.NoError(t, svc.SetEntryStatus(ctx, plain, e.ID, true))
			active++
		}
	}

	_, err := svc.ExportActive(ctx, plain)
	assert.ErrorIs(t, err, ErrForbidden)

	res, err := svc.ExportActive(ctx, root)
	require.NoError(t, err)
	assert.Equal(t, ActiveBlockListKey, res.Key)
	assert.Equal(t, active, res.Count)
	assert.Equal(t, ActiveBlockListKey, exp.key)

	snap, ok := exp.payload.(BlockListSnapshot)
	require.True(t, ok)
	assert.Len(t, snap.Entries, active)
	assert.Equal(t, "root", snap.ExportedBy)
	seen := map[string]bool{}
	for _, e := range snap.Entries {
		assert.Equal(t, model.BlockTypeIP, e.Type)
		assert.False(t, seen[e.ID])
		seen[e.ID] = true
	}
}

func TestExportActiveUnavailable(t *testing.T) {
	f := newFixture(t)
	svc := newBlockService(f, nil, nil)
	_, err := svc.ExportActive(context.Background(), root)
	assert.ErrorIs(t, err, ErrExportUnavailable)

	svc = newBlockService(f, nil, &memoryExporter{err: errors.New("bucket gone")})
	_, err = svc.ExportActive(context.Background(), root)
	assert.ErrorIs(t, err, ErrStore)
}
