package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ActivityAdmin/model"
	"ActivityAdmin/repository"
)

func TestAuditRecordAndList(t *testing.T) {
	f := newFixture(t)
	audit := NewAuditService(f.logs)
	ctx := context.Background()

	clock := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	audit.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	audit.Record(ctx, "Created account alice", model.LogCategoryAccount, "root")
	audit.Record(ctx, "Added IP entry 192.0.2.1 to block list", model.LogCategoryBlockEntity, "alice")
	audit.Record(ctx, "Block entry 192.0.2.1 enabled", model.LogCategoryBlockEntity, "alice")

	_, err := audit.List(ctx, plain, repository.OperationLogFilter{}, model.PageRequest{PageIndex: 1, PageSize: 10})
	assert.ErrorIs(t, err, ErrForbidden)

	res, err := audit.List(ctx, root, repository.OperationLogFilter{}, model.PageRequest{PageIndex: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(3), res.Total)
	assert.Equal(t, "Block entry 192.0.2.1 enabled", res.Items[0].Message, "newest first")

	res, err = audit.List(ctx, root, repository.OperationLogFilter{Category: model.LogCategoryBlockEntity, Operator: "alice"}, model.PageRequest{PageIndex: 1, PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Total)
	assert.Equal(t, 2, res.PageCount)
}

func TestAuditRecordSwallowsStoreErrors(t *testing.T) {
	f := newFixture(t)
	audit := NewAuditService(brokenLogRepo{f.logs})
	assert.NotPanics(t, func() {
		audit.Record(context.Background(), "x", model.LogCategorySystem, "root")
	})
}

func TestServicesWriteThroughAuditService(t *testing.T) {
	f := newFixture(t)
	audit := NewAuditService(f.logs)
	blocks := NewBlockListService(f.entries, f.types, nil, nil, audit)
	ctx := context.Background()

	_, err := blocks.AddEntry(ctx, plain, f.typeID(t, model.BlockTypeName), "Mallory")
	require.NoError(t, err)

	res, err := audit.List(ctx, root, repository.OperationLogFilter{Operator: "plain"}, model.PageRequest{PageIndex: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Total)
	assert.Equal(t, model.LogCategoryBlockEntity, res.Items[0].Category)
	assert.Contains(t, res.Items[0].Message, "Mallory")
}
