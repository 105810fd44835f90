package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"ActivityAdmin/cache"
	"ActivityAdmin/core/auth"
	"ActivityAdmin/db/dbtest"
	"ActivityAdmin/model"
	"ActivityAdmin/repository"
)

var (
	root  = model.Principal{UserID: "root-id", Username: "root", IsSuper: true}
	plain = model.Principal{UserID: "plain-id", Username: "plain"}
)

type auditEntry struct {
	Message  string
	Category model.LogCategory
	Actor    string
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *recordingAudit) Record(_ context.Context, message string, category model.LogCategory, actor string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, auditEntry{Message: message, Category: category, Actor: actor})
}

func (a *recordingAudit) all() []auditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]auditEntry(nil), a.entries...)
}

type fixture struct {
	db       *gorm.DB
	users    repository.UserRepository
	entries  repository.BlockEntityRepository
	types    repository.BlockTypeRepository
	logs     repository.OperationLogRepository
	hasher   *auth.BcryptHasher
	tokens   *auth.TokenManager
	sessions *cache.MemorySessionStore
	audit    *recordingAudit
	accounts *AccountService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.NewSeeded(t)
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	f := &fixture{
		db:       gdb,
		users:    repository.NewGormUserRepository(gdb),
		entries:  repository.NewGormBlockEntityRepository(gdb),
		types:    repository.NewGormBlockTypeRepository(gdb),
		logs:     repository.NewGormOperationLogRepository(gdb),
		hasher:   auth.NewBcryptHasher(bcrypt.MinCost),
		tokens:   tokens,
		sessions: cache.NewMemorySessionStore(),
		audit:    &recordingAudit{},
	}
	f.accounts = NewAccountService(f.users, f.hasher, f.tokens, f.sessions, f.audit)
	return f
}

// addUser inserts an account directly, bypassing the service.
func (f *fixture) addUser(t *testing.T, id, username, password, email string, super bool) *model.User {
	t.Helper()
	hash, err := f.hasher.Hash(password)
	require.NoError(t, err)
	u := &model.User{ID: id, Username: username, Email: email, PasswordHash: hash, IsSuper: super, CreatedAt: time.Now()}
	_, err = f.users.Insert(context.Background(), u)
	require.NoError(t, err)
	return u
}

func (f *fixture) countUsers(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&model.User{}).Count(&n).Error)
	return n
}

func (f *fixture) typeID(t *testing.T, name string) string {
	t.Helper()
	bt, err := f.types.FindOne(context.Background(), repository.BlockTypeFilter{Name: name})
	require.NoError(t, err)
	require.NotNil(t, bt)
	return bt.ID
}

var errBroken = errors.New("connection refused")

// brokenLogRepo fails every call.
type brokenLogRepo struct {
	repository.OperationLogRepository
}

func (brokenLogRepo) Insert(context.Context, *model.OperationLog) (int64, error) {
	return 0, errBroken
}

// brokenUserRepo fails every lookup.
type brokenUserRepo struct {
	repository.UserRepository
}

func (brokenUserRepo) FindOne(context.Context, repository.UserFilter) (*model.User, error) {
	return nil, errBroken
}

type memoryExporter struct {
	key     string
	payload interface{}
	err     error
}

func (e *memoryExporter) PutJSON(_ context.Context, key string, payload interface{}) (int64, error) {
	if e.err != nil {
		return 0, e.err
	}
	e.key = key
	e.payload = payload
	return 42, nil
}

type countingTypeCache struct {
	types []model.BlockType
	gets  int
	sets  int
}

func (c *countingTypeCache) Get(context.Context) ([]model.BlockType, error) {
	c.gets++
	return c.types, nil
}

func (c *countingTypeCache) Set(_ context.Context, types []model.BlockType) error {
	c.sets++
	c.types = types
	return nil
}

func (c *countingTypeCache) Invalidate(context.Context) error {
	c.types = nil
	return nil
}
