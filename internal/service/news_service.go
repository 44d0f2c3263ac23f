package service

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/newsportal/internal/apperr"
	"github.com/d60-Lab/newsportal/internal/newsapi"
	"github.com/d60-Lab/newsportal/internal/repository"
	"github.com/d60-Lab/newsportal/pkg/logger"
)

// NewsService 上游头条的代理与快照。
// 上游失败走降级（空列表 + Upstream 错误），不硬失败。
type NewsService interface {
	Headlines(ctx context.Context, category string) ([]newsapi.Article, error)
	// WriteCSVSnapshot 抓取最新头条并落地 CSV（title, description, fetched_at）
	WriteCSVSnapshot(ctx context.Context) error
	CSVPath() string
}

type newsService struct {
	client    *newsapi.Client
	statsRepo repository.ArticleStatsRepository
	csvPath   string
}

func NewNewsService(client *newsapi.Client, statsRepo repository.ArticleStatsRepository, csvPath string) NewsService {
	if csvPath == "" {
		csvPath = "latest_news.csv"
	}
	return &newsService{client: client, statsRepo: statsRepo, csvPath: csvPath}
}

func (s *newsService) Headlines(ctx context.Context, category string) ([]newsapi.Article, error) {
	articles, err := s.client.TopHeadlines(ctx, category)
	if err != nil {
		if errors.Is(err, newsapi.ErrUpstream) {
			return nil, apperr.Wrap(apperr.KindUpstream, "News feed temporarily unavailable", err)
		}
		return nil, apperr.Wrap(apperr.KindInternal, "error fetching news", err)
	}

	// 为本次出现的 URL 建立计数行；失败只记日志
	if s.statsRepo != nil {
		urls := make([]string, 0, len(articles))
		for _, a := range articles {
			urls = append(urls, a.URL)
		}
		if err := s.statsRepo.Seed(ctx, urls); err != nil {
			logger.Warn("seed article stats failed", zap.Error(err))
		}
	}
	return articles, nil
}

func (s *newsService) WriteCSVSnapshot(ctx context.Context) error {
	articles, err := s.Headlines(ctx, "")
	if err != nil {
		return err
	}

	f, err := os.Create(s.csvPath)
	if err != nil {
		return apperr.Wrap(apperr.KindInternal, "error writing news snapshot", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"Title", "Description", "FetchedAt"}); err != nil {
		return apperr.Wrap(apperr.KindInternal, "error writing news snapshot", err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	for _, a := range articles {
		if err := w.Write([]string{a.Title, a.Description, now}); err != nil {
			return apperr.Wrap(apperr.KindInternal, "error writing news snapshot", err)
		}
	}
	w.Flush()
	return w.Error()
}

func (s *newsService) CSVPath() string { return s.csvPath }
