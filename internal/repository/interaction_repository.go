package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/newsportal/internal/model"
)

type InteractionRepository interface {
	// Create 严格插入；同 (user, url, type) 已存在时返回 ErrDuplicate，
	// 由存储层唯一约束保证并发下恰有一行存活
	Create(ctx context.Context, it *model.UserInteraction) error
	// Delete 精确删除一行；无匹配返回 ErrNotFound
	Delete(ctx context.Context, userID, articleURL, interactionType string) error
	// List 按时间倒序分页；interactionType 为空表示不过滤
	List(ctx context.Context, userID, interactionType string, offset, limit int) ([]*model.UserInteraction, error)
	Get(ctx context.Context, userID, articleURL, interactionType string) (*model.UserInteraction, error)
	CountForUser(ctx context.Context, userID string) (int64, error)
}

type interactionRepository struct {
	db *gorm.DB
}

func NewInteractionRepository(db *gorm.DB) InteractionRepository {
	return &interactionRepository{db: db}
}

func (r *interactionRepository) Create(ctx context.Context, it *model.UserInteraction) error {
	if it.ID == "" {
		it.ID = uuid.New().String()
	}
	if it.Timestamp.IsZero() {
		it.Timestamp = time.Now()
	}
	return translate(r.db.WithContext(ctx).Create(it).Error)
}

func (r *interactionRepository) Delete(ctx context.Context, userID, articleURL, interactionType string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND article_url = ? AND interaction_type = ?", userID, articleURL, interactionType).
		Delete(&model.UserInteraction{})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *interactionRepository) List(ctx context.Context, userID, interactionType string, offset, limit int) ([]*model.UserInteraction, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if interactionType != "" {
		q = q.Where("interaction_type = ?", interactionType)
	}
	var res []*model.UserInteraction
	err := q.Order("timestamp DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, translate(err)
}

func (r *interactionRepository) Get(ctx context.Context, userID, articleURL, interactionType string) (*model.UserInteraction, error) {
	var it model.UserInteraction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND article_url = ? AND interaction_type = ?", userID, articleURL, interactionType).
		First(&it).Error
	if err != nil {
		return nil, translate(err)
	}
	return &it, nil
}

func (r *interactionRepository) CountForUser(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.UserInteraction{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt, translate(err)
}
