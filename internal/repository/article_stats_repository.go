package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/newsportal/internal/model"
)

type ArticleStatsRepository interface {
	// Seed 为一批 URL 建立计数行，已存在的忽略
	Seed(ctx context.Context, urls []string) error
	// Increment 对应计数列 +1；目标行不存在则无副作用
	Increment(ctx context.Context, articleURL, interactionType string) error
	// Decrement 对应计数列 -1，下限 0；目标行不存在则无副作用
	Decrement(ctx context.Context, articleURL, interactionType string) error
	Get(ctx context.Context, articleURL string) (*model.ArticleStats, error)
}

type articleStatsRepository struct {
	db *gorm.DB
}

func NewArticleStatsRepository(db *gorm.DB) ArticleStatsRepository {
	return &articleStatsRepository{db: db}
}

func (r *articleStatsRepository) Seed(ctx context.Context, urls []string) error {
	if len(urls) == 0 {
		return nil
	}
	rows := make([]model.ArticleStats, 0, len(urls))
	for _, u := range urls {
		if u == "" {
			continue
		}
		rows = append(rows, model.ArticleStats{ID: uuid.New().String(), ArticleURL: u})
	}
	if len(rows) == 0 {
		return nil
	}
	return translate(r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error)
}

func (r *articleStatsRepository) Increment(ctx context.Context, articleURL, interactionType string) error {
	col := model.StatsColumn(interactionType)
	if col == "" {
		return nil
	}
	return translate(r.db.WithContext(ctx).
		Model(&model.ArticleStats{}).
		Where("article_url = ?", articleURL).
		UpdateColumn(col, gorm.Expr(col+" + 1")).Error)
}

func (r *articleStatsRepository) Decrement(ctx context.Context, articleURL, interactionType string) error {
	col := model.StatsColumn(interactionType)
	if col == "" {
		return nil
	}
	return translate(r.db.WithContext(ctx).
		Model(&model.ArticleStats{}).
		Where("article_url = ? AND "+col+" > 0", articleURL).
		UpdateColumn(col, gorm.Expr(col+" - 1")).Error)
}

func (r *articleStatsRepository) Get(ctx context.Context, articleURL string) (*model.ArticleStats, error) {
	var st model.ArticleStats
	if err := r.db.WithContext(ctx).Where("article_url = ?", articleURL).First(&st).Error; err != nil {
		return nil, translate(err)
	}
	return &st, nil
}
