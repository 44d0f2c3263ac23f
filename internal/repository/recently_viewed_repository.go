package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/newsportal/internal/model"
)

type RecentlyViewedRepository interface {
	// Upsert 以 (user_id, article_url) 为键：已存在只刷新 viewed_at，
	// 行身份与首次捕获的文章快照保持不变；不是 delete+insert
	Upsert(ctx context.Context, rv *model.RecentlyViewed) error
	// List 按 viewed_at 倒序取前 limit 条
	List(ctx context.Context, userID string, limit int) ([]*model.RecentlyViewed, error)
	Exists(ctx context.Context, userID, articleURL string) (bool, error)
	CountForUser(ctx context.Context, userID string) (int64, error)
}

type recentlyViewedRepository struct {
	db *gorm.DB
}

func NewRecentlyViewedRepository(db *gorm.DB) RecentlyViewedRepository {
	return &recentlyViewedRepository{db: db}
}

func (r *recentlyViewedRepository) Upsert(ctx context.Context, rv *model.RecentlyViewed) error {
	if rv.ID == "" {
		rv.ID = uuid.New().String()
	}
	if rv.ViewedAt.IsZero() {
		rv.ViewedAt = time.Now()
	}
	return translate(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "article_url"}},
			DoUpdates: clause.Assignments(map[string]any{"viewed_at": rv.ViewedAt}),
		}).
		Create(rv).Error)
}

func (r *recentlyViewedRepository) List(ctx context.Context, userID string, limit int) ([]*model.RecentlyViewed, error) {
	var res []*model.RecentlyViewed
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("viewed_at DESC").
		Limit(limit).
		Find(&res).Error
	return res, translate(err)
}

func (r *recentlyViewedRepository) Exists(ctx context.Context, userID, articleURL string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.RecentlyViewed{}).
		Where("user_id = ? AND article_url = ?", userID, articleURL).
		Count(&cnt).Error; err != nil {
		return false, translate(err)
	}
	return cnt > 0, nil
}

func (r *recentlyViewedRepository) CountForUser(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.RecentlyViewed{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt, translate(err)
}
