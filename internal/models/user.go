package models

import (
	"time"
)

type User struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Username     string     `json:"username" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string     `json:"-" gorm:"column:password;type:varchar(255);not null"`
	Email        string     `json:"email" gorm:"type:varchar(255)"`
	Fullname     string     `json:"fullname" gorm:"type:varchar(255)"`
	Position     string     `json:"position" gorm:"type:varchar(255)"`
	Phone        string     `json:"phone" gorm:"type:varchar(50)"`
	Bio          string     `json:"bio" gorm:"type:text"`
	Role         string     `json:"role" gorm:"type:varchar(50);default:'user'"` // admin, user
	LastLogin    *time.Time `json:"last_login"`
	CreatedAt    time.Time  `json:"created_at"`
}

// LoginLog records a single login attempt. UserID is nil when the submitted
// username did not match any user. Rows are append-only.
type LoginLog struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    *uint     `json:"user_id" gorm:"index"`
	LoginTime time.Time `json:"login_time" gorm:"autoCreateTime;index"`
	IPAddress string    `json:"ip_address" gorm:"type:varchar(45)"`
	Success   bool      `json:"success" gorm:"default:false"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
