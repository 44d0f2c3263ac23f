package main

import (
    "context"
    "fmt"
    "os"
    "sort"
    "strconv"
    "time"

    "github.com/d60-Lab/newsportal/internal/config"
    "github.com/d60-Lab/newsportal/internal/model"
    "github.com/d60-Lab/newsportal/internal/repository"
    "github.com/d60-Lab/newsportal/internal/service"
    "github.com/d60-Lab/newsportal/pkg/database"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func main() {
    cfg := must(config.Load(""))
    db := must(database.Open(cfg))
    must(0, database.AutoMigrate(db))

    statsRepo := repository.NewArticleStatsRepository(db)
    worker := service.NewStatsWorker(statsRepo, cfg.Stats.QueueSize)
    stop := worker.Start(cfg.Stats.Workers)

    ctx := context.Background()

    N := 10000
    if s := os.Getenv("N"); s != "" {
        if n, err := strconv.Atoi(s); err == nil && n > 0 { N = n }
    }
    CONC := 1
    if s := os.Getenv("CONC"); s != "" {
        if c, err := strconv.Atoi(s); err == nil && c > 0 { CONC = c }
    }

    // seed counter rows for the benchmarked URLs
    urls := make([]string, N)
    for i := 0; i < N; i++ {
        urls[i] = fmt.Sprintf("https://news.example/bench/%d", i)
    }
    must(0, statsRepo.Seed(ctx, urls))

    // collect landing latencies from the worker metrics channel
    repMetrics := worker.Metrics()
    repRecs := make([]time.Duration, 0, N)
    doneRep := make(chan struct{})
    go func() {
        timeout := time.NewTimer(5 * time.Minute)
        defer timeout.Stop()
        for {
            select {
            case d := <-repMetrics:
                repRecs = append(repRecs, d)
            case <-doneRep:
                return
            case <-timeout.C:
                return
            }
        }
    }()

    maxQ := 0
    quitSample := make(chan struct{})
    go func() {
        ticker := time.NewTicker(50 * time.Millisecond)
        defer ticker.Stop()
        for {
            select {
            case <-ticker.C:
                if q := worker.QueueLen(); q > maxQ { maxQ = q }
            case <-quitSample:
                return
            }
        }
    }()

    t0 := time.Now()
    // dispatch N enqueues with CONC workers
    workers := CONC
    if workers > N { workers = N }
    asyncCh := make(chan time.Duration, N)
    errCh := make(chan error, workers)
    feed := make(chan int, N)
    for i := 0; i < N; i++ { feed <- i }
    close(feed)
    for w := 0; w < workers; w++ {
        go func() {
            for i := range feed {
                st := time.Now()
                worker.EnqueueIncrement(urls[i], model.InteractionLike)
                asyncCh <- time.Since(st)
            }
            errCh <- nil
        }()
    }
    for w := 0; w < workers; w++ { <-errCh }
    close(asyncCh)
    asyncRecs := make([]time.Duration, 0, N)
    for d := range asyncCh { asyncRecs = append(asyncRecs, d) }
    asyncDur := time.Since(t0)
    close(quitSample)

    drainStart := time.Now()

    // measure the synchronous path for comparison
    t1 := time.Now()
    for i := 0; i < N; i++ {
        _ = statsRepo.Increment(ctx, urls[i], model.InteractionView)
    }
    syncDur := time.Since(t1)

    // stop worker (waits for the queue to drain internally)
    _ = stop(context.Background())
    drainDur := time.Since(drainStart)
    close(doneRep)

    pct := func(vs []time.Duration, p float64) time.Duration {
        if len(vs) == 0 { return 0 }
        xs := append([]time.Duration(nil), vs...)
        sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
        idx := int(p * float64(len(xs)-1))
        return xs[idx]
    }

    fmt.Printf("N=%d CONC=%d\n", N, CONC)
    fmt.Printf("enqueue:   total=%v p50=%v p99=%v ops/s=%.0f\n",
        asyncDur, pct(asyncRecs, 0.5), pct(asyncRecs, 0.99), float64(N)/asyncDur.Seconds())
    fmt.Printf("sync incr: total=%v ops/s=%.0f\n", syncDur, float64(N)/syncDur.Seconds())
    fmt.Printf("landing:   n=%d p50=%v p99=%v drain=%v maxQ=%d\n",
        len(repRecs), pct(repRecs, 0.5), pct(repRecs, 0.99), drainDur, maxQ)
}
