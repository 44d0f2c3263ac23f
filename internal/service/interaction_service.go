package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"

	"github.com/d60-Lab/newsportal/internal/apperr"
	"github.com/d60-Lab/newsportal/internal/cache"
	"github.com/d60-Lab/newsportal/internal/model"
	"github.com/d60-Lab/newsportal/internal/repository"
)

// ArticleRef 交互时刻捕获的文章快照字段
type ArticleRef struct {
	URL         string     `json:"articleUrl"`
	Title       string     `json:"articleTitle"`
	Description string     `json:"articleDescription"`
	Image       string     `json:"articleImage"`
	Source      string     `json:"articleSource"`
	PublishedAt *time.Time `json:"articlePublishedAt"`
}

// InteractionService 交互读写；(user, url, type) 至多一行由存储唯一约束兜底
type InteractionService interface {
	Record(ctx context.Context, userID string, ref ArticleRef, interactionType string, metadata datatypes.JSON) (*model.UserInteraction, error)
	Remove(ctx context.Context, userID, articleURL, interactionType string) error
	List(ctx context.Context, userID, interactionType string, page, limit int) ([]*model.UserInteraction, error)
}

type interactionService struct {
	repo   repository.InteractionRepository
	stats  *StatsWorker
	mirror *cache.Mirror
	// decrementOnRemove 为 false 时保留观测到的只增不减行为
	decrementOnRemove bool
}

func NewInteractionService(repo repository.InteractionRepository, stats *StatsWorker, mirror *cache.Mirror, decrementOnRemove bool) InteractionService {
	return &interactionService{repo: repo, stats: stats, mirror: mirror, decrementOnRemove: decrementOnRemove}
}

var interactionConflictMsg = map[string]string{
	model.InteractionBookmark: "Article already bookmarked",
	model.InteractionLike:     "Article already liked",
	model.InteractionView:     "Article view already recorded",
}

func (s *interactionService) Record(ctx context.Context, userID string, ref ArticleRef, interactionType string, metadata datatypes.JSON) (*model.UserInteraction, error) {
	if !model.ValidInteractionType(interactionType) {
		return nil, apperr.New(apperr.KindValidation, "invalid interaction type")
	}
	if ref.URL == "" || ref.Title == "" {
		return nil, apperr.New(apperr.KindValidation, "articleUrl and articleTitle are required")
	}

	it := &model.UserInteraction{
		UserID:             userID,
		ArticleURL:         ref.URL,
		InteractionType:    interactionType,
		ArticleTitle:       ref.Title,
		ArticleDescription: ref.Description,
		ArticleImage:       ref.Image,
		ArticleSource:      ref.Source,
		ArticlePublishedAt: ref.PublishedAt,
		Metadata:           metadata,
	}
	if err := s.repo.Create(ctx, it); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.New(apperr.KindConflict, interactionConflictMsg[interactionType])
		}
		return nil, apperr.Wrap(apperr.KindInternal, "error saving interaction", err)
	}

	// 计数异步落地，尽力而为；失败或丢弃都不影响主写入
	if s.stats != nil {
		s.stats.EnqueueIncrement(ref.URL, interactionType)
	}
	if s.mirror != nil {
		s.mirror.Invalidate(ctx, userID)
	}
	return it, nil
}

func (s *interactionService) Remove(ctx context.Context, userID, articleURL, interactionType string) error {
	if !model.ValidInteractionType(interactionType) {
		return apperr.New(apperr.KindValidation, "invalid interaction type")
	}
	if err := s.repo.Delete(ctx, userID, articleURL, interactionType); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			switch interactionType {
			case model.InteractionBookmark:
				return apperr.New(apperr.KindNotFound, "Bookmark not found")
			case model.InteractionLike:
				return apperr.New(apperr.KindNotFound, "Like not found")
			default:
				return apperr.New(apperr.KindNotFound, "Interaction not found")
			}
		}
		return apperr.Wrap(apperr.KindInternal, "error removing interaction", err)
	}
	if s.decrementOnRemove && s.stats != nil {
		s.stats.EnqueueDecrement(articleURL, interactionType)
	}
	if s.mirror != nil {
		s.mirror.Invalidate(ctx, userID)
	}
	return nil
}

func (s *interactionService) List(ctx context.Context, userID, interactionType string, page, limit int) ([]*model.UserInteraction, error) {
	if interactionType != "" && !model.ValidInteractionType(interactionType) {
		return nil, apperr.New(apperr.KindValidation, "invalid interaction type")
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	useMirror := s.mirror != nil && interactionType == model.InteractionBookmark && page == 1
	if useMirror {
		var cached []*model.UserInteraction
		if s.mirror.GetBookmarks(ctx, userID, &cached) && len(cached) >= limit {
			return cached[:limit], nil
		}
	}

	rows, err := s.repo.List(ctx, userID, interactionType, offset, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "error fetching interactions", err)
	}
	if useMirror {
		s.mirror.SetBookmarks(ctx, userID, rows)
	}
	return rows, nil
}
