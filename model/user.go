package model

import "time"

// User is an admin back-office account.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:36"`
	Username     string    `json:"username" gorm:"size:64;not null;uniqueIndex"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // never exposed in API responses
	Email        string    `json:"email" gorm:"size:255;not null;uniqueIndex"`
	IsSuper      bool      `json:"isSuper" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// Principal returns the identity carried by this account.
func (u *User) Principal() Principal {
	return Principal{
		UserID:   u.ID,
		Username: u.Username,
		IsSuper:  u.IsSuper,
	}
}
