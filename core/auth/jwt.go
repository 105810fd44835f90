package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"ActivityAdmin/model"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrEmptySecret  = errors.New("jwt secret is empty")
)

// Claims JWT 载荷
type Claims struct {
	UserID   string `json:"uid"`
	Username string `json:"username"`
	IsSuper  bool   `json:"super"`

	// IssuedAtMs 毫秒级签发时间，iat 只有秒级精度
	IssuedAtMs int64 `json:"iat_ms,omitempty"`

	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenManager 创建 token 管理器
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("invalid token ttl %s", ttl)
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// TTL returns the lifetime of issued tokens.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Generate signs a token for u. The returned principal carries the token id and expiry.
func (m *TokenManager) Generate(u *model.User) (string, model.Principal, error) {
	now := m.now()
	p := u.Principal()
	p.TokenID = uuid.NewString()
	p.ExpiresAt = now.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:     p.UserID,
		Username:   p.Username,
		IsSuper:    p.IsSuper,
		IssuedAtMs: now.UnixMilli(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        p.TokenID,
			Subject:   p.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(p.ExpiresAt),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", model.Principal{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, p, nil
}

// Parse verifies the signature and expiry of tokenString and returns its principal
// and issue time in milliseconds.
func (m *TokenManager) Parse(tokenString string) (model.Principal, time.Time, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Principal{}, time.Time{}, ErrTokenExpired
		}
		return model.Principal{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" || claims.ID == "" {
		return model.Principal{}, time.Time{}, ErrInvalidToken
	}

	var issued time.Time
	switch {
	case claims.IssuedAtMs > 0:
		issued = time.UnixMilli(claims.IssuedAtMs)
	case claims.IssuedAt != nil:
		issued = claims.IssuedAt.Time
	}
	return model.Principal{
		UserID:    claims.UserID,
		Username:  claims.Username,
		IsSuper:   claims.IsSuper,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, issued, nil
}
