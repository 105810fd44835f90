package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ActivityAdmin/cache"
	"ActivityAdmin/core/auth"
	"ActivityAdmin/logger"
	"ActivityAdmin/metrics"
	"ActivityAdmin/model"
	"ActivityAdmin/repository"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Generate(u *model.User) (string, model.Principal, error)
	TTL() time.Duration
}

// LoginResult is returned by a successful Login.
type LoginResult struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}

// AccountService 账户管理服务
type AccountService struct {
	users    repository.UserRepository
	hasher   auth.Hasher
	tokens   TokenIssuer
	sessions cache.SessionStore
	audit    AuditLog
	now      func() time.Time

	// dummyHash is compared against when the username is unknown so both failure paths cost the same.
	dummyHash string
}

// NewAccountService 创建账户服务
func NewAccountService(users repository.UserRepository, hasher auth.Hasher, tokens TokenIssuer, sessions cache.SessionStore, audit AuditLog) *AccountService {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		logger.Warn("failed to prepare dummy password hash", logger.ErrorField(err))
	}
	return &AccountService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		sessions:  sessions,
		audit:     audit,
		now:       time.Now,
		dummyHash: dummy,
	}
}

func (s *AccountService) findUser(ctx context.Context, op string, filter repository.UserFilter) (*model.User, error) {
	u, err := s.users.FindOne(ctx, filter)
	if err != nil {
		return nil, storeFailure(op, err)
	}
	return u, nil
}

// Authenticate returns the user only when username exists and password matches its digest.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (s *AccountService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.findUser(ctx, "authenticate", repository.UserFilter{Username: username})
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.hasher.Compare(s.dummyHash, password)
		return nil, ErrInvalidCredentials
	}
	if !s.hasher.Compare(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// Login authenticates and issues an access token.
func (s *AccountService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.Authenticate(ctx, username, password)
	if err != nil {
		metrics.LoginAttempts.WithLabelValues("rejected").Inc()
		logger.Warn("[Login] 登录失败", logger.String("username", username))
		return nil, err
	}
	token, p, err := s.tokens.Generate(u)
	if err != nil {
		logger.Error("[Login] 生成Token失败", logger.String("username", username), logger.ErrorField(err))
		return nil, ErrStore
	}
	metrics.LoginAttempts.WithLabelValues("accepted").Inc()
	logger.Info("[Login] 登录成功", logger.String("username", u.Username))
	return &LoginResult{Token: token, ExpiresAt: p.ExpiresAt, User: u}, nil
}

// Logout revokes the token the principal came with.
func (s *AccountService) Logout(ctx context.Context, p model.Principal) error {
	if p.TokenID == "" {
		return nil
	}
	if err := s.sessions.RevokeToken(ctx, p.TokenID, p.ExpiresAt); err != nil {
		return storeFailure("logout", err, logger.String("userId", p.UserID))
	}
	logger.Info("[Logout] 用户登出", logger.String("username", p.Username))
	return nil
}

// GetAccount returns the caller's own account.
func (s *AccountService) GetAccount(ctx context.Context, p model.Principal) (*model.User, error) {
	u, err := s.findUser(ctx, "get account", repository.UserFilter{ID: p.UserID})
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// CreateAccount creates a regular admin account. Only super admins may call it.
func (s *AccountService) CreateAccount(ctx context.Context, actor model.Principal, username, password, email string) (u *model.User, err error) {
	defer func() { metrics.ObserveOperation(string(model.LogCategoryAccount), "create", err) }()

	if !actor.IsSuper {
		return nil, ErrForbidden
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	email, err = normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	existing, err := s.findUser(ctx, "create account", repository.UserFilter{Username: username})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateUsername
	}
	existing, err = s.findUser(ctx, "create account", repository.UserFilter{Email: email})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		logger.Error("failed to hash password", logger.ErrorField(err))
		return nil, ErrStore
	}
	u = &model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now(),
	}
	if _, err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, s.duplicateReason(ctx, username)
		}
		return nil, storeFailure("create account", err, logger.String("username", username))
	}

	s.audit.Record(ctx, fmt.Sprintf("Created account %s (%s)", username, email), model.LogCategoryAccount, actor.Username)
	return u, nil
}

// duplicateReason decides which unique index a lost insert race hit.
func (s *AccountService) duplicateReason(ctx context.Context, username string) error {
	existing, err := s.users.FindOne(ctx, repository.UserFilter{Username: username})
	if err == nil && existing != nil {
		return ErrDuplicateUsername
	}
	return ErrDuplicateEmail
}

// VerifyPassword reports whether password is the caller's current password.
func (s *AccountService) VerifyPassword(ctx context.Context, actor model.Principal, password string) (bool, error) {
	u, err := s.GetAccount(ctx, actor)
	if err != nil {
		return false, err
	}
	return s.hasher.Compare(u.PasswordHash, password), nil
}

// ChangePassword replaces the caller's password after re-checking the old one, then revokes
// every token issued to the caller so far.
func (s *AccountService) ChangePassword(ctx context.Context, actor model.Principal, oldPassword, newPassword string) (err error) {
	defer func() { metrics.ObserveOperation(string(model.LogCategoryAccount), "change_password", err) }()

	u, err := s.GetAccount(ctx, actor)
	if err != nil {
		return err
	}
	if !s.hasher.Compare(u.PasswordHash, oldPassword) {
		return ErrWrongPassword
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		logger.Error("failed to hash password", logger.ErrorField(err))
		return ErrStore
	}

	n, err := s.users.UpdateFields(ctx, &model.User{ID: u.ID, PasswordHash: hash}, "PasswordHash")
	if err != nil {
		return storeFailure("change password", err, logger.String("userId", u.ID))
	}
	if n == 0 {
		return ErrNotFound
	}

	s.revokeUser(ctx, u.ID)
	s.audit.Record(ctx, fmt.Sprintf("Changed password of %s", u.Username), model.LogCategoryAccount, actor.Username)
	return nil
}

// ChangeEmail sets the caller's email. An address held by another account is rejected.
func (s *AccountService) ChangeEmail(ctx context.Context, actor model.Principal, email string) (u *model.User, err error) {
	defer func() { metrics.ObserveOperation(string(model.LogCategoryAccount), "change_email", err) }()

	email, err = normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	u, err = s.GetAccount(ctx, actor)
	if err != nil {
		return nil, err
	}
	if u.Email == email {
		return u, nil
	}

	other, err := s.findUser(ctx, "change email", repository.UserFilter{Email: email, ExcludeID: u.ID})
	if err != nil {
		return nil, err
	}
	if other != nil {
		return nil, ErrDuplicateEmail
	}

	previous := u.Email
	u.Email = email
	n, err := s.users.UpdateFields(ctx, &model.User{ID: u.ID, Email: email}, "Email")
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateEmail
		}
		return nil, storeFailure("change email", err, logger.String("userId", u.ID))
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	s.audit.Record(ctx, fmt.Sprintf("Changed email of %s from %s to %s", u.Username, previous, email), model.LogCategoryAccount, actor.Username)
	return u, nil
}

// ResetPassword sets another account's password without the old one. Super admins only.
func (s *AccountService) ResetPassword(ctx context.Context, admin model.Principal, targetID, newPassword string) (err error) {
	defer func() { metrics.ObserveOperation(string(model.LogCategoryAccount), "reset_password", err) }()

	if !admin.IsSuper {
		return ErrForbidden
	}
	if err := validateID(targetID, "account"); err != nil {
		return err
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	target, err := s.findUser(ctx, "reset password", repository.UserFilter{ID: targetID})
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		logger.Error("failed to hash password", logger.ErrorField(err))
		return ErrStore
	}
	n, err := s.users.UpdateFields(ctx, &model.User{ID: targetID, PasswordHash: hash}, "PasswordHash")
	if err != nil {
		return storeFailure("reset password", err, logger.String("userId", targetID))
	}
	if n == 0 {
		return ErrNotFound
	}

	s.revokeUser(ctx, targetID)
	s.audit.Record(ctx, fmt.Sprintf("Reset password of %s", target.Username), model.LogCategoryAccount, admin.Username)
	return nil
}

// DeleteAccount removes a regular account. Super admins and the caller cannot be deleted.
func (s *AccountService) DeleteAccount(ctx context.Context, admin model.Principal, targetID string) (err error) {
	defer func() { metrics.ObserveOperation(string(model.LogCategoryAccount), "delete", err) }()

	if !admin.IsSuper || targetID == admin.UserID {
		return ErrForbidden
	}
	if err := validateID(targetID, "account"); err != nil {
		return err
	}
	target, err := s.findUser(ctx, "delete account", repository.UserFilter{ID: targetID})
	if err != nil {
		return err
	}
	if target == nil {
		return ErrNotFound
	}
	if target.IsSuper {
		return ErrForbidden
	}

	n, err := s.users.Delete(ctx, &model.User{ID: targetID})
	if err != nil {
		return storeFailure("delete account", err, logger.String("userId", targetID))
	}
	if n == 0 {
		return ErrNotFound
	}

	s.revokeUser(ctx, targetID)
	s.audit.Record(ctx, fmt.Sprintf("Deleted account %s", target.Username), model.LogCategoryAccount, admin.Username)
	return nil
}

// IsUsernameAvailable reports whether no account uses username.
func (s *AccountService) IsUsernameAvailable(ctx context.Context, username string) (bool, error) {
	if err := validateUsername(username); err != nil {
		return false, err
	}
	u, err := s.findUser(ctx, "check username", repository.UserFilter{Username: username})
	if err != nil {
		return false, err
	}
	return u == nil, nil
}

// IsEmailAvailable reports whether no account uses email.
func (s *AccountService) IsEmailAvailable(ctx context.Context, email string) (bool, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return false, err
	}
	u, err := s.findUser(ctx, "check email", repository.UserFilter{Email: email})
	if err != nil {
		return false, err
	}
	return u == nil, nil
}

// ListAccounts pages through the regular accounts. Super admins only.
func (s *AccountService) ListAccounts(ctx context.Context, admin model.Principal, usernameContains string, page model.PageRequest) (*model.PageResult[model.User], error) {
	if !admin.IsSuper {
		return nil, ErrForbidden
	}
	if page.SortKey == "" {
		page.SortKey = repository.UserSortCreatedAt
		page.Descending = true
	}
	res, err := s.users.Query(ctx, repository.UserFilter{UsernameContains: usernameContains, ExcludeSuper: true}, page)
	if err != nil {
		return nil, queryFailure("list accounts", err)
	}
	return res, nil
}

// revokeUser invalidates every token issued to userID so far. A failure leaves the old
// tokens valid until they expire, so it is logged loudly but does not undo the change.
func (s *AccountService) revokeUser(ctx context.Context, userID string) {
	if err := s.sessions.RevokeUser(ctx, userID, s.now(), s.tokens.TTL()); err != nil {
		logger.Error("failed to revoke user tokens", logger.String("userId", userID), logger.ErrorField(err))
	}
}
