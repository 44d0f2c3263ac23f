package model

import (
	"time"

	"gorm.io/datatypes"
)

// User 账号（email 全小写存储，唯一）
type User struct {
	ID           string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Email        string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string `gorm:"type:varchar(255);not null" json:"-"`
	ProfileImage string `gorm:"type:varchar(512)" json:"profileImage"`
	// Preferences 分类 -> 订阅标签列表
	Preferences datatypes.JSON `json:"preferences"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (User) TableName() string { return "users" }
