package models

import "time"

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

type Settings struct {
	Theme         string `json:"theme" gorm:"type:varchar(32);default:light"`
	Notifications bool   `json:"notifications" gorm:"default:true"`
}

type User struct {
	ID         int        `json:"id" gorm:"primaryKey;autoIncrement"`
	Email      string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password   string     `json:"-" gorm:"type:varchar(255);not null"`
	Role       string     `json:"role" gorm:"type:varchar(16);default:student"`
	Verified   bool       `json:"verified" gorm:"default:false"`
	LastActive *time.Time `json:"last_active,omitempty"`
	Settings   Settings   `json:"settings" gorm:"embedded;embeddedPrefix:settings_"`
	CreatedAt  time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt  time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

// Sanitized returns a copy safe to hand back to clients. The password
// column is already hidden from JSON; clearing it here keeps hashes out
// of any in-process reuse of the struct too.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}
