package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/newsportal/internal/model"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.UserInteraction{},
		&model.RecentlyViewed{},
		&model.SearchHistory{},
		&model.ArticleStats{},
	))
	// sqlite 默认不启用外键
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id string) *model.User {
	t.Helper()
	u := &model.User{ID: id, Name: "u-" + id, Email: id + "@example.com", Password: "hash"}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestUserRepository_DuplicateEmail(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.User{Name: "Alice", Email: "a@x.com", Password: "h1"}))
	err := repo.Create(ctx, &model.User{Name: "Alice2", Email: "a@x.com", Password: "h2"})
	assert.ErrorIs(t, err, ErrDuplicate)

	var cnt int64
	require.NoError(t, db.Model(&model.User{}).Where("email = ?", "a@x.com").Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)
}

func TestUserRepository_UpdateFields_PartialMerge(t *testing.T) {
	db := setupDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "u1")

	require.NoError(t, repo.UpdateFields(ctx, u.ID, map[string]any{"name": "Renamed"}))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, u.Email, got.Email)

	assert.ErrorIs(t, repo.UpdateFields(ctx, "missing", map[string]any{"name": "x"}), ErrNotFound)
}

func TestInteractionRepository_DuplicateTuple(t *testing.T) {
	db := setupDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "u1")

	it := &model.UserInteraction{
		UserID:          u.ID,
		ArticleURL:      "https://news.example/a",
		InteractionType: model.InteractionBookmark,
		ArticleTitle:    "A",
	}
	require.NoError(t, repo.Create(ctx, it))

	dup := &model.UserInteraction{
		UserID:          u.ID,
		ArticleURL:      "https://news.example/a",
		InteractionType: model.InteractionBookmark,
		ArticleTitle:    "A again",
	}
	assert.ErrorIs(t, repo.Create(ctx, dup), ErrDuplicate)

	cnt, err := repo.CountForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)

	// 同文章不同类型不冲突
	like := &model.UserInteraction{
		UserID:          u.ID,
		ArticleURL:      "https://news.example/a",
		InteractionType: model.InteractionLike,
		ArticleTitle:    "A",
	}
	assert.NoError(t, repo.Create(ctx, like))
}

func TestInteractionRepository_DeleteExactRow(t *testing.T) {
	db := setupDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()
	u1 := seedUser(t, db, "u1")
	u2 := seedUser(t, db, "u2")

	for _, uid := range []string{u1.ID, u2.ID} {
		require.NoError(t, repo.Create(ctx, &model.UserInteraction{
			UserID:          uid,
			ArticleURL:      "https://news.example/a",
			InteractionType: model.InteractionBookmark,
			ArticleTitle:    "A",
		}))
	}

	assert.ErrorIs(t, repo.Delete(ctx, u1.ID, "https://news.example/missing", model.InteractionBookmark), ErrNotFound)

	require.NoError(t, repo.Delete(ctx, u1.ID, "https://news.example/a", model.InteractionBookmark))

	// 只删除了 u1 的行
	cnt, err := repo.CountForUser(ctx, u2.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt)
	cnt, err = repo.CountForUser(ctx, u1.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, cnt)
}

func TestInteractionRepository_ListNewestFirstPaged(t *testing.T) {
	db := setupDB(t)
	repo := NewInteractionRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "u1")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Create(ctx, &model.UserInteraction{
			UserID:          u.ID,
			ArticleURL:      fmt.Sprintf("https://news.example/%d", i),
			InteractionType: model.InteractionLike,
			ArticleTitle:    fmt.Sprintf("t%d", i),
			Timestamp:       base.Add(time.Duration(i) * time.Minute),
		}))
	}
	// 另一种类型的行不应出现在过滤结果中
	require.NoError(t, repo.Create(ctx, &model.UserInteraction{
		UserID:          u.ID,
		ArticleURL:      "https://news.example/b",
		InteractionType: model.InteractionBookmark,
		ArticleTitle:    "b",
	}))

	page1, err := repo.List(ctx, u.ID, model.InteractionLike, 0, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	assert.Equal(t, "https://news.example/4", page1[0].ArticleURL)
	assert.Equal(t, "https://news.example/3", page1[1].ArticleURL)

	page2, err := repo.List(ctx, u.ID, model.InteractionLike, 2, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Equal(t, "https://news.example/2", page2[0].ArticleURL)
	assert.Equal(t, "https://news.example/1", page2[1].ArticleURL)
}

func TestRecentlyViewedRepository_UpsertRefreshesInPlace(t *testing.T) {
	db := setupDB(t)
	repo := NewRecentlyViewedRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "u1")

	first := &model.RecentlyViewed{
		UserID:       u.ID,
		ArticleURL:   "https://news.example/a",
		ArticleTitle: "original title",
		ViewedAt:     time.Now().Add(-time.Hour),
	}
	require.NoError(t, repo.Upsert(ctx, first))

	latest := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Upsert(ctx, &model.RecentlyViewed{
			UserID:       u.ID,
			ArticleURL:   "https://news.example/a",
			ArticleTitle: "should not overwrite",
			ViewedAt:     latest.Add(time.Duration(i) * time.Second),
		}))
	}

	cnt, err := repo.CountForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, cnt, "repeat views must not insert duplicate rows")

	rows, err := repo.List(ctx, u.ID, 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	// 行身份与首次捕获的字段保持不变，只有 viewed_at 被刷新
	assert.Equal(t, first.ID, rows[0].ID)
	assert.Equal(t, "original title", rows[0].ArticleTitle)
	assert.WithinDuration(t, latest.Add(2*time.Second), rows[0].ViewedAt, time.Second)
}

func TestRecentlyViewedRepository_ListOrderAndLimit(t *testing.T) {
	db := setupDB(t)
	repo := NewRecentlyViewedRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "u1")

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 7; i++ {
		require.NoError(t, repo.Upsert(ctx, &model.RecentlyViewed{
			UserID:       u.ID,
			ArticleURL:   fmt.Sprintf("https://news.example/%d", i),
			ArticleTitle: fmt.Sprintf("t%d", i),
			ViewedAt:     base.Add(time.Duration(i) * time.Minute),
		}))
	}

	rows, err := repo.List(ctx, u.ID, 5)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "https://news.example/6", rows[0].ArticleURL)
	assert.Equal(t, "https://news.example/2", rows[4].ArticleURL)
}

func TestSearchHistoryRepository_AppendOnly(t *testing.T) {
	db := setupDB(t)
	repo := NewSearchHistoryRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "u1")

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, &model.SearchHistory{
			UserID:    u.ID,
			Query:     "golang", // 重复查询不去重
			Results:   i,
			Timestamp: time.Now().Add(time.Duration(i) * time.Second),
		}))
	}

	rows, err := repo.List(ctx, u.ID, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, 2, rows[0].Results)
}

func TestArticleStatsRepository_IncrementBestEffort(t *testing.T) {
	db := setupDB(t)
	repo := NewArticleStatsRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx, []string{"https://news.example/a"}))
	// Seed 幂等
	require.NoError(t, repo.Seed(ctx, []string{"https://news.example/a"}))

	require.NoError(t, repo.Increment(ctx, "https://news.example/a", model.InteractionLike))
	require.NoError(t, repo.Increment(ctx, "https://news.example/a", model.InteractionLike))
	// 目标行不存在：无副作用也无错误
	require.NoError(t, repo.Increment(ctx, "https://news.example/unknown", model.InteractionLike))

	st, err := repo.Get(ctx, "https://news.example/a")
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.Likes)
	assert.EqualValues(t, 0, st.Views)

	require.NoError(t, repo.Decrement(ctx, "https://news.example/a", model.InteractionLike))
	st, err = repo.Get(ctx, "https://news.example/a")
	require.NoError(t, err)
	assert.EqualValues(t, 1, st.Likes)

	// 下限 0
	require.NoError(t, repo.Decrement(ctx, "https://news.example/a", model.InteractionView))
	st, err = repo.Get(ctx, "https://news.example/a")
	require.NoError(t, err)
	assert.EqualValues(t, 0, st.Views)

	_, err = repo.Get(ctx, "https://news.example/unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserDelete_CascadesOwnedRows(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)
	interactions := NewInteractionRepository(db)
	recents := NewRecentlyViewedRepository(db)
	u := seedUser(t, db, "u1")

	require.NoError(t, interactions.Create(ctx, &model.UserInteraction{
		UserID: u.ID, ArticleURL: "https://news.example/a",
		InteractionType: model.InteractionBookmark, ArticleTitle: "A",
	}))
	require.NoError(t, recents.Upsert(ctx, &model.RecentlyViewed{
		UserID: u.ID, ArticleURL: "https://news.example/a", ArticleTitle: "A",
	}))

	require.NoError(t, users.Delete(ctx, u.ID))

	cnt, err := interactions.CountForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, cnt)
	cnt, err = recents.CountForUser(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, cnt)
}
