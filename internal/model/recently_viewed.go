package model

import "time"

// RecentlyViewed 最近浏览（重复浏览只刷新 viewed_at，不新增行）
// 复合唯一键 ux_recent_user_url = (user_id, article_url)
type RecentlyViewed struct {
	ID         string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID     string `gorm:"type:varchar(36);not null;uniqueIndex:ux_recent_user_url;index:idx_recent_user_viewed" json:"userId"`
	ArticleURL string `gorm:"type:varchar(512);not null;uniqueIndex:ux_recent_user_url" json:"articleUrl"`

	ArticleTitle       string     `gorm:"type:varchar(512);not null" json:"articleTitle"`
	ArticleDescription string     `gorm:"type:text" json:"articleDescription,omitempty"`
	ArticleImage       string     `gorm:"type:varchar(512)" json:"articleImage,omitempty"`
	ArticleSource      string     `gorm:"type:varchar(255)" json:"articleSource,omitempty"`
	ArticlePublishedAt *time.Time `json:"articlePublishedAt,omitempty"`

	ViewedAt  time.Time `gorm:"not null;index:idx_recent_user_viewed,sort:desc" json:"viewedAt"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (RecentlyViewed) TableName() string { return "recently_viewed" }
