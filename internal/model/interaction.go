package model

import (
	"time"

	"gorm.io/datatypes"
)

// 交互类型
const (
	InteractionView     = "view"
	InteractionLike     = "like"
	InteractionBookmark = "bookmark"
)

// ValidInteractionType 校验交互类型取值
func ValidInteractionType(t string) bool {
	return t == InteractionView || t == InteractionLike || t == InteractionBookmark
}

// UserInteraction 用户对文章的一次交互（view/like/bookmark）
// 复合唯一键，同一用户同一文章同一类型至多一行
// ux_interaction_tuple = (user_id, article_url, interaction_type)
type UserInteraction struct {
	ID              string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          string `gorm:"type:varchar(36);not null;index:idx_interaction_user_ts;uniqueIndex:ux_interaction_tuple" json:"userId"`
	ArticleURL      string `gorm:"type:varchar(512);not null;uniqueIndex:ux_interaction_tuple;index:idx_interaction_url_type" json:"articleUrl"`
	InteractionType string `gorm:"type:varchar(16);not null;uniqueIndex:ux_interaction_tuple;index:idx_interaction_url_type" json:"interactionType"`

	// 文章字段为交互时刻的冗余快照，不与来源同步
	ArticleTitle       string     `gorm:"type:varchar(512);not null" json:"articleTitle"`
	ArticleDescription string     `gorm:"type:text" json:"articleDescription,omitempty"`
	ArticleImage       string     `gorm:"type:varchar(512)" json:"articleImage,omitempty"`
	ArticleSource      string     `gorm:"type:varchar(255)" json:"articleSource,omitempty"`
	ArticlePublishedAt *time.Time `json:"articlePublishedAt,omitempty"`

	Timestamp time.Time      `gorm:"not null;index:idx_interaction_user_ts,sort:desc" json:"timestamp"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"` // readTime / rating / notes

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (UserInteraction) TableName() string { return "user_interactions" }

// InteractionMetadata Metadata 字段的约定结构
type InteractionMetadata struct {
	ReadTime int    `json:"readTime,omitempty"`
	Rating   int    `json:"rating,omitempty"`
	Notes    string `json:"notes,omitempty"`
}
