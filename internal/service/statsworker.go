package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/newsportal/internal/repository"
	"github.com/d60-Lab/newsportal/pkg/logger"
)

type statsAction int

const (
	actionIncrement statsAction = iota + 1
	actionDecrement
)

type statsJob struct {
	action          statsAction
	articleURL      string
	interactionType string
	enqAt           time.Time
}

// StatsWorker 异步落地文章计数的本地执行器。
// 计数是尽力而为的冗余：队列满直接丢弃并告警，绝不阻塞主写入。
type StatsWorker struct {
	statsRepo repository.ArticleStatsRepository
	ch        chan statsJob
	metricsCh chan time.Duration
}

func NewStatsWorker(statsRepo repository.ArticleStatsRepository, queueSize int) *StatsWorker {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &StatsWorker{
		statsRepo: statsRepo,
		ch:        make(chan statsJob, queueSize),
		metricsCh: make(chan time.Duration, 65536),
	}
}

func (w *StatsWorker) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-w.ch:
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					switch job.action {
					case actionIncrement:
						_ = w.statsRepo.Increment(ctx, job.articleURL, job.interactionType)
					case actionDecrement:
						_ = w.statsRepo.Decrement(ctx, job.articleURL, job.interactionType)
					}
					cancel()
					if !job.enqAt.IsZero() {
						select {
						case w.metricsCh <- time.Since(job.enqAt):
						default:
						}
					}
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		// 等待队列自然排空一小段时间
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(w.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

func (w *StatsWorker) EnqueueIncrement(articleURL, interactionType string) {
	select {
	case w.ch <- statsJob{action: actionIncrement, articleURL: articleURL, interactionType: interactionType, enqAt: time.Now()}:
	default:
		logger.Warn("stats queue full, drop increment", zap.String("url", articleURL), zap.String("type", interactionType))
	}
}

func (w *StatsWorker) EnqueueDecrement(articleURL, interactionType string) {
	select {
	case w.ch <- statsJob{action: actionDecrement, articleURL: articleURL, interactionType: interactionType, enqAt: time.Now()}:
	default:
		logger.Warn("stats queue full, drop decrement", zap.String("url", articleURL), zap.String("type", interactionType))
	}
}

// Metrics 返回计数落地耗时的只读通道（每处理一条发送一次 duration）。
func (w *StatsWorker) Metrics() <-chan time.Duration { return w.metricsCh }

// QueueLen 返回当前队列长度（采样值）。
func (w *StatsWorker) QueueLen() int { return len(w.ch) }
