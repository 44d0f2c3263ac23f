package model

import (
	"time"

	"gorm.io/datatypes"
)

// SearchHistory 搜索历史，只追加，无唯一约束
type SearchHistory struct {
	ID        string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string         `gorm:"type:varchar(36);not null;index:idx_search_user_ts" json:"userId"`
	Query     string         `gorm:"type:varchar(512);not null" json:"query"`
	Timestamp time.Time      `gorm:"not null;index:idx_search_user_ts,sort:desc" json:"timestamp"`
	Results   int            `json:"results"`
	Filters   datatypes.JSON `json:"filters,omitempty"`  // category / dateRange / source
	Metadata  datatypes.JSON `json:"metadata,omitempty"` // deviceInfo / location / searchType
	CreatedAt time.Time      `json:"createdAt"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (SearchHistory) TableName() string { return "search_history" }

// SearchFilters Filters 字段的约定结构
type SearchFilters struct {
	Category  string `json:"category,omitempty"`
	DateRange string `json:"dateRange,omitempty"`
	Source    string `json:"source,omitempty"`
}
