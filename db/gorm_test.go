package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ActivityAdmin/config"
	"ActivityAdmin/db"
	"ActivityAdmin/db/dbtest"
	"ActivityAdmin/model"
)

func TestMySQLDSN(t *testing.T) {
	cfg := &config.Config{
		DBUser:     "admin",
		DBPassword: "p@ss:word",
		DBHost:     "db.internal",
		DBPort:     "3307",
		DBName:     "reservation",
	}

	dsn := db.MySQLDSN(cfg)
	assert.Contains(t, dsn, "admin:p@ss:word@tcp(db.internal:3307)/reservation")
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := db.Open(&config.Config{DBDriver: "oracle"})
	require.Error(t, err)
}

func TestSeedBlockTypesIsIdempotent(t *testing.T) {
	gdb := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, db.SeedBlockTypes(ctx, gdb))
	require.NoError(t, db.SeedBlockTypes(ctx, gdb))

	var types []model.BlockType
	require.NoError(t, gdb.Order("name").Find(&types).Error)
	require.Len(t, types, len(model.DefaultBlockTypes))
	assert.Equal(t, "IP", types[0].Name)
}

func TestSeedSuperAdmin(t *testing.T) {
	gdb := dbtest.New(t)
	ctx := context.Background()

	u, err := db.SeedSuperAdmin(ctx, gdb, "root", "root@example.com", "digest")
	require.NoError(t, err)
	assert.True(t, u.IsSuper)
	assert.NotEmpty(t, u.ID)

	_, err = db.SeedSuperAdmin(ctx, gdb, "root", "other@example.com", "digest")
	assert.ErrorIs(t, err, db.ErrAccountExists)

	_, err = db.SeedSuperAdmin(ctx, gdb, "other", "root@example.com", "digest")
	assert.ErrorIs(t, err, db.ErrAccountExists)
}

func TestPing(t *testing.T) {
	gdb := dbtest.New(t)
	assert.NoError(t, db.Ping(context.Background(), gdb))
}
