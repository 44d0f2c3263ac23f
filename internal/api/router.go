package api

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/newsportal/internal/api/handler"
	"github.com/d60-Lab/newsportal/internal/api/middleware"
	"github.com/d60-Lab/newsportal/pkg/token"
)

// RouterOptions 路由层中间件参数
type RouterOptions struct {
	RateRPS   float64
	RateBurst int
	// Tracing 为 false 时不挂 otelgin（基准与测试用）
	Tracing bool
}

// NewRouter 组装全部路由与中间件
func NewRouter(h *handler.Handler, tokens *token.Manager, opts RouterOptions) *gin.Engine {
	r := gin.New()
	// articleUrl 路径参数是 percent-encode 过的完整 URL，
	// 必须按原始编码匹配，由 handler 自行解码
	r.UseRawPath = true
	r.UnescapePathValues = false
	r.Use(gin.Recovery())
	if opts.Tracing {
		r.Use(otelgin.Middleware("newsportal"))
	}
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.RateLimit(opts.RateRPS, opts.RateBurst))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		api.GET("/test", h.Test)
		api.POST("/signup", h.Signup)
		api.POST("/login", h.Login)

		api.GET("/news", h.GetHeadlines)
		api.GET("/news/csv", h.DownloadNewsCSV)

		api.POST("/tts", h.Synthesize)
		api.GET("/voices", h.Voices)

		// 匿名会话的最近浏览镜像
		api.GET("/session/recently-viewed", h.ListSessionViews)
		api.POST("/session/recently-viewed", h.AddSessionView)

		// 以下路由必须先过 token 校验，失败短路，不触达存储
		authed := api.Group("", middleware.Auth(tokens))
		{
			authed.GET("/profile", h.GetProfile)
			authed.PUT("/profile", h.UpdateProfile)

			authed.POST("/interactions", h.CreateInteraction)
			authed.GET("/interactions", h.ListInteractions)

			authed.POST("/search-history", h.AddSearchHistory)
			authed.GET("/search-history", h.ListSearchHistory)

			authed.POST("/user/bookmarks", h.AddBookmark)
			authed.GET("/user/bookmarks", h.ListBookmarks)
			authed.DELETE("/user/bookmarks/:articleUrl", h.RemoveBookmark)

			authed.POST("/user/likes", h.AddLike)
			authed.GET("/user/likes", h.ListLikes)
			authed.DELETE("/user/likes/:articleUrl", h.RemoveLike)

			authed.POST("/user/recently-viewed", h.AddRecentlyViewed)
			authed.GET("/user/recently-viewed", h.ListRecentlyViewed)
		}
	}
	return r
}
