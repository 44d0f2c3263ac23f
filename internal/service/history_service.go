package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"

	"github.com/d60-Lab/newsportal/internal/apperr"
	"github.com/d60-Lab/newsportal/internal/cache"
	"github.com/d60-Lab/newsportal/internal/model"
	"github.com/d60-Lab/newsportal/internal/repository"
	"github.com/d60-Lab/newsportal/pkg/recent"
)

// DefaultRecentLimit 最近浏览默认条数，与前端一致
const DefaultRecentLimit = 5

// HistoryService 最近浏览与搜索历史。
// 登录用户走存储层 upsert；匿名会话在 redis 里维护同样的
// 去重置顶 + 截断到 5 条的列表（pkg/recent）。
type HistoryService interface {
	RecordView(ctx context.Context, userID string, ref ArticleRef) (*model.RecentlyViewed, bool, error)
	ListRecentlyViewed(ctx context.Context, userID string, limit int) ([]*model.RecentlyViewed, error)

	RecordSearch(ctx context.Context, userID, query string, results int, filters, metadata datatypes.JSON) (*model.SearchHistory, error)
	ListSearchHistory(ctx context.Context, userID string, page, limit int) ([]*model.SearchHistory, error)

	RecordAnonymousView(ctx context.Context, sessionID string, entry recent.Entry) error
	ListAnonymousViews(ctx context.Context, sessionID string) ([]recent.Entry, error)
}

type historyService struct {
	recentRepo repository.RecentlyViewedRepository
	searchRepo repository.SearchHistoryRepository
	mirror     *cache.Mirror
	rdb        *redis.Client
	sessionTTL time.Duration
}

func NewHistoryService(recentRepo repository.RecentlyViewedRepository, searchRepo repository.SearchHistoryRepository, mirror *cache.Mirror, rdb *redis.Client) HistoryService {
	return &historyService{
		recentRepo: recentRepo,
		searchRepo: searchRepo,
		mirror:     mirror,
		rdb:        rdb,
		sessionTTL: 24 * time.Hour,
	}
}

// RecordView upsert；返回 created=false 表示只刷新了 viewed_at
func (s *historyService) RecordView(ctx context.Context, userID string, ref ArticleRef) (*model.RecentlyViewed, bool, error) {
	if ref.URL == "" || ref.Title == "" {
		return nil, false, apperr.New(apperr.KindValidation, "articleUrl and articleTitle are required")
	}
	// 仅用于响应文案；不变式本身由 upsert 的唯一约束保证
	existed, err := s.recentRepo.Exists(ctx, userID, ref.URL)
	if err != nil {
		return nil, false, apperr.Wrap(apperr.KindInternal, "error adding to recently viewed", err)
	}

	rv := &model.RecentlyViewed{
		UserID:             userID,
		ArticleURL:         ref.URL,
		ArticleTitle:       ref.Title,
		ArticleDescription: ref.Description,
		ArticleImage:       ref.Image,
		ArticleSource:      ref.Source,
		ArticlePublishedAt: ref.PublishedAt,
		ViewedAt:           time.Now(),
	}
	if err := s.recentRepo.Upsert(ctx, rv); err != nil {
		return nil, false, apperr.Wrap(apperr.KindInternal, "error adding to recently viewed", err)
	}
	if s.mirror != nil {
		s.mirror.Invalidate(ctx, userID)
	}
	return rv, !existed, nil
}

func (s *historyService) ListRecentlyViewed(ctx context.Context, userID string, limit int) ([]*model.RecentlyViewed, error) {
	if limit < 1 {
		limit = DefaultRecentLimit
	}

	useMirror := s.mirror != nil && limit == DefaultRecentLimit
	if useMirror {
		var cached []*model.RecentlyViewed
		if s.mirror.GetRecent(ctx, userID, &cached) {
			return cached, nil
		}
	}

	rows, err := s.recentRepo.List(ctx, userID, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "error fetching recently viewed", err)
	}
	if useMirror {
		s.mirror.SetRecent(ctx, userID, rows)
	}
	return rows, nil
}

func (s *historyService) RecordSearch(ctx context.Context, userID, query string, results int, filters, metadata datatypes.JSON) (*model.SearchHistory, error) {
	if query == "" {
		return nil, apperr.New(apperr.KindValidation, "query is required")
	}
	sh := &model.SearchHistory{
		UserID:   userID,
		Query:    query,
		Results:  results,
		Filters:  filters,
		Metadata: metadata,
	}
	if err := s.searchRepo.Create(ctx, sh); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "error saving search history", err)
	}
	return sh, nil
}

func (s *historyService) ListSearchHistory(ctx context.Context, userID string, page, limit int) ([]*model.SearchHistory, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	rows, err := s.searchRepo.List(ctx, userID, (page-1)*limit, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "error fetching search history", err)
	}
	return rows, nil
}

func sessionKey(sessionID string) string { return fmt.Sprintf("session:recent:%s", sessionID) }

// RecordAnonymousView 未登录会话：redis 里的快照应用
// 去重置顶 + 截断的不变式后整体回写
func (s *historyService) RecordAnonymousView(ctx context.Context, sessionID string, entry recent.Entry) error {
	if s.rdb == nil {
		return apperr.New(apperr.KindInternal, "session store unavailable")
	}
	if entry.URL == "" || entry.Title == "" {
		return apperr.New(apperr.KindValidation, "url and title are required")
	}
	list, err := s.loadAnonymous(ctx, sessionID)
	if err != nil {
		return err
	}
	list.Push(entry)
	payload, err := json.Marshal(list.Entries())
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "error saving recently viewed", err)
	}
	if err := s.rdb.Set(ctx, sessionKey(sessionID), payload, s.sessionTTL).Err(); err != nil {
		return apperr.Wrap(apperr.KindInternal, "error saving recently viewed", err)
	}
	return nil
}

func (s *historyService) ListAnonymousViews(ctx context.Context, sessionID string) ([]recent.Entry, error) {
	list, err := s.loadAnonymous(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return list.Entries(), nil
}

func (s *historyService) loadAnonymous(ctx context.Context, sessionID string) (*recent.List, error) {
	if s.rdb == nil {
		return nil, apperr.New(apperr.KindInternal, "session store unavailable")
	}
	data, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return recent.NewList(recent.DefaultCap), nil
		}
		return nil, apperr.Wrap(apperr.KindInternal, "error fetching recently viewed", err)
	}
	var entries []recent.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		// 损坏的快照按空处理，缓存不是事实来源
		return recent.NewList(recent.DefaultCap), nil
	}
	return recent.FromEntries(recent.DefaultCap, entries), nil
}
