package model

import "time"

// ArticleStats 文章聚合计数，按 URL 冗余维护，尽力而为
type ArticleStats struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ArticleURL string    `gorm:"type:varchar(512);uniqueIndex;not null" json:"articleUrl"`
	Views      int64     `gorm:"not null;default:0" json:"views"`
	Likes      int64     `gorm:"not null;default:0" json:"likes"`
	Bookmarks  int64     `gorm:"not null;default:0" json:"bookmarks"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (ArticleStats) TableName() string { return "article_stats" }

// StatsColumn 交互类型到计数列的映射；未知类型返回空串
func StatsColumn(interactionType string) string {
	switch interactionType {
	case InteractionView:
		return "views"
	case InteractionLike:
		return "likes"
	case InteractionBookmark:
		return "bookmarks"
	default:
		return ""
	}
}
