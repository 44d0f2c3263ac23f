package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/newsportal/internal/model"
)

type SearchHistoryRepository interface {
	// Create 只追加，无唯一约束
	Create(ctx context.Context, sh *model.SearchHistory) error
	List(ctx context.Context, userID string, offset, limit int) ([]*model.SearchHistory, error)
}

type searchHistoryRepository struct {
	db *gorm.DB
}

func NewSearchHistoryRepository(db *gorm.DB) SearchHistoryRepository {
	return &searchHistoryRepository{db: db}
}

func (r *searchHistoryRepository) Create(ctx context.Context, sh *model.SearchHistory) error {
	if sh.ID == "" {
		sh.ID = uuid.New().String()
	}
	if sh.Timestamp.IsZero() {
		sh.Timestamp = time.Now()
	}
	return translate(r.db.WithContext(ctx).Create(sh).Error)
}

func (r *searchHistoryRepository) List(ctx context.Context, userID string, offset, limit int) ([]*model.SearchHistory, error) {
	var res []*model.SearchHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("timestamp DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, translate(err)
}
