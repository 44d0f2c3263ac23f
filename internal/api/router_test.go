package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/newsportal/internal/api/handler"
	"github.com/d60-Lab/newsportal/internal/model"
	"github.com/d60-Lab/newsportal/internal/newsapi"
	"github.com/d60-Lab/newsportal/internal/repository"
	"github.com/d60-Lab/newsportal/internal/service"
	"github.com/d60-Lab/newsportal/internal/tts"
	"github.com/d60-Lab/newsportal/pkg/token"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *token.Manager
}

func setupEnv(t *testing.T, upstream http.HandlerFunc) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.UserInteraction{},
		&model.RecentlyViewed{},
		&model.SearchHistory{},
		&model.ArticleStats{},
	))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	if upstream == nil {
		upstream = func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":"ok","articles":[]}`))
		}
	}
	feed := httptest.NewServer(upstream)
	t.Cleanup(feed.Close)

	tokens := token.NewManager("test-secret", time.Hour)
	userRepo := repository.NewUserRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	recentRepo := repository.NewRecentlyViewedRepository(db)
	searchRepo := repository.NewSearchHistoryRepository(db)
	statsRepo := repository.NewArticleStatsRepository(db)

	h := handler.New(
		service.NewAuthService(userRepo, tokens),
		service.NewInteractionService(interactionRepo, nil, nil, false),
		service.NewHistoryService(recentRepo, searchRepo, nil, rdb),
		service.NewNewsService(newsapi.NewClient(feed.URL, "k", "us", 50, time.Second), statsRepo, t.TempDir()+"/news.csv"),
		tts.NewService(rdb, time.Hour),
	)
	router := NewRouter(h, tokens, RouterOptions{RateRPS: 1000, RateBurst: 1000})
	return &testEnv{router: router, db: db, tokens: tokens}
}

func (e *testEnv) do(t *testing.T, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) signup(t *testing.T, name, email, password string) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/signup", "", gin.H{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func articleBody(u string) gin.H {
	return gin.H{"articleUrl": u, "articleTitle": "Title for " + u}
}

func TestSignupLoginFlow(t *testing.T) {
	env := setupEnv(t, nil)

	env.signup(t, "Alice", "a@x.com", "secret1")

	// 重复邮箱
	w := env.do(t, http.MethodPost, "/api/signup", "", gin.H{
		"name": "Alice2", "email": "a@x.com", "password": "other1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Email already exists")

	// 错误密码
	w = env.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "a@x.com", "password": "wrong1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")

	// 正确登录，token 能用于受保护路由
	w = env.do(t, http.MethodPost, "/api/login", "", gin.H{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))

	w = env.do(t, http.MethodGet, "/api/profile", res.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@x.com")
	assert.NotContains(t, w.Body.String(), "secret1")
}

func TestSignupValidation(t *testing.T) {
	env := setupEnv(t, nil)

	w := env.do(t, http.MethodPost, "/api/signup", "", gin.H{"name": "x", "email": "not-an-email", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodPost, "/api/signup", "", gin.H{"name": "x", "email": "a@x.com", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "short password rejected")
}

func TestAuthShortCircuitsBeforeStore(t *testing.T) {
	env := setupEnv(t, nil)

	// 无 Authorization → 401；无效 token → 403
	w := env.do(t, http.MethodPost, "/api/interactions", "", gin.H{
		"articleUrl": "https://news.example/a", "articleTitle": "A", "interactionType": "like",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/interactions", "garbage-token", gin.H{
		"articleUrl": "https://news.example/a", "articleTitle": "A", "interactionType": "like",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 认证失败的请求不能产生任何存储副作用
	var cnt int64
	require.NoError(t, env.db.Model(&model.UserInteraction{}).Count(&cnt).Error)
	assert.EqualValues(t, 0, cnt)
}

func TestBookmarkLifecycle(t *testing.T) {
	env := setupEnv(t, nil)
	tok := env.signup(t, "Alice", "a@x.com", "secret1")
	articleURL := "https://news.example/a"

	w := env.do(t, http.MethodPost, "/api/user/bookmarks", tok, articleBody(articleURL))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 重复收藏 → 400
	w = env.do(t, http.MethodPost, "/api/user/bookmarks", tok, articleBody(articleURL))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Article already bookmarked")

	w = env.do(t, http.MethodGet, "/api/user/bookmarks", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listRes struct {
		Bookmarks []model.UserInteraction `json:"bookmarks"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listRes))
	require.Len(t, listRes.Bookmarks, 1)

	encoded := url.PathEscape(articleURL)
	w = env.do(t, http.MethodDelete, "/api/user/bookmarks/"+encoded, tok, nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 再删 → 404
	w = env.do(t, http.MethodDelete, "/api/user/bookmarks/"+encoded, tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Bookmark not found")
}

func TestLikesPagination(t *testing.T) {
	env := setupEnv(t, nil)
	tok := env.signup(t, "Alice", "a@x.com", "secret1")

	for i := 0; i < 5; i++ {
		w := env.do(t, http.MethodPost, "/api/user/likes", tok, articleBody(fmt.Sprintf("https://news.example/%d", i)))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		time.Sleep(5 * time.Millisecond) // 保证时间戳可排序
	}

	w := env.do(t, http.MethodGet, "/api/user/likes?page=1&limit=2", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page1 []model.UserInteraction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page1))
	require.Len(t, page1, 2)
	assert.Equal(t, "https://news.example/4", page1[0].ArticleURL)

	w = env.do(t, http.MethodGet, "/api/user/likes?page=2&limit=2", tok, nil)
	var page2 []model.UserInteraction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page2))
	require.Len(t, page2, 2)
	assert.Equal(t, "https://news.example/2", page2[0].ArticleURL)
}

func TestRecentlyViewedUpsertOverHTTP(t *testing.T) {
	env := setupEnv(t, nil)
	tok := env.signup(t, "Alice", "a@x.com", "secret1")

	w := env.do(t, http.MethodPost, "/api/user/recently-viewed", tok, articleBody("https://news.example/a"))
	assert.Equal(t, http.StatusCreated, w.Code)

	// 重复浏览 → 200 刷新
	w = env.do(t, http.MethodPost, "/api/user/recently-viewed", tok, articleBody("https://news.example/a"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "updated")

	w = env.do(t, http.MethodGet, "/api/user/recently-viewed", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var res struct {
		RecentlyViewed []model.RecentlyViewed `json:"recentlyViewed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Len(t, res.RecentlyViewed, 1)
}

func TestSearchHistoryEndpoints(t *testing.T) {
	env := setupEnv(t, nil)
	tok := env.signup(t, "Alice", "a@x.com", "secret1")

	w := env.do(t, http.MethodPost, "/api/search-history", tok, gin.H{"query": "golang", "results": 12})
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/search-history", tok, gin.H{"results": 3})
	assert.Equal(t, http.StatusBadRequest, w.Code, "query is required")

	w = env.do(t, http.MethodGet, "/api/search-history", tok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var rows []model.SearchHistory
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)
}

func TestNewsDegradeOnUpstreamFailure(t *testing.T) {
	env := setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"status":"error","code":"rateLimited"}`))
	})

	w := env.do(t, http.MethodGet, "/api/news", "", nil)
	require.Equal(t, http.StatusOK, w.Code, "degraded, not a hard failure")
	var res struct {
		Articles []newsapi.Article `json:"articles"`
		Degraded string            `json:"degraded"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Empty(t, res.Articles)
	assert.NotEmpty(t, res.Degraded)
}

func TestNewsSeedsArticleStats(t *testing.T) {
	env := setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok","articles":[{"title":"A","url":"https://news.example/a"}]}`))
	})

	w := env.do(t, http.MethodGet, "/api/news", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var cnt int64
	require.NoError(t, env.db.Model(&model.ArticleStats{}).Where("article_url = ?", "https://news.example/a").Count(&cnt).Error)
	assert.EqualValues(t, 1, cnt)
}

func TestSessionRecentlyViewed(t *testing.T) {
	env := setupEnv(t, nil)

	// 首次 POST 会种下会话 cookie
	req := httptest.NewRequest(http.MethodPost, "/api/session/recently-viewed", bytes.NewBufferString(
		`{"url":"https://news.example/a","title":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// 同一会话读取
	req = httptest.NewRequest(http.MethodGet, "/api/session/recently-viewed", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "https://news.example/a")
}

func TestTTSEndpoints(t *testing.T) {
	env := setupEnv(t, nil)

	w := env.do(t, http.MethodGet, "/api/voices", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "en-US-male")

	w = env.do(t, http.MethodPost, "/api/tts", "", gin.H{
		"text":          "read 2 articles",
		"voiceSettings": gin.H{"engine": "browser"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "two articles")

	w = env.do(t, http.MethodPost, "/api/tts", "", gin.H{
		"text":          "hello",
		"voiceSettings": gin.H{"engine": "no-such-engine"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
