package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/d60-Lab/newsportal/internal/api/middleware"
	"github.com/d60-Lab/newsportal/internal/service"
	"github.com/d60-Lab/newsportal/pkg/recent"
	"github.com/d60-Lab/newsportal/pkg/response"
)

// AddRecentlyViewed 记录浏览；重复浏览只刷新时间戳
// @Summary 记录最近浏览
// @Tags 历史
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body articleRequest true "文章信息"
// @Success 200 {object} map[string]interface{}
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /api/user/recently-viewed [post]
func (h *Handler) AddRecentlyViewed(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	rv, created, err := h.historySvc.RecordView(c.Request.Context(), middleware.UserID(c), req.ref())
	if err != nil {
		response.Fail(c, err)
		return
	}
	if !created {
		response.Success(c, gin.H{"message": "Recently viewed updated successfully"})
		return
	}
	response.Created(c, gin.H{
		"message":        "Article added to recently viewed",
		"recentlyViewed": rv,
	})
}

// ListRecentlyViewed 最近浏览，时间倒序，默认 5 条
// @Summary 查询最近浏览
// @Tags 历史
// @Produce json
// @Security BearerAuth
// @Param limit query int false "条数" default(5)
// @Success 200 {object} map[string]interface{}
// @Router /api/user/recently-viewed [get]
func (h *Handler) ListRecentlyViewed(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(service.DefaultRecentLimit)))
	rows, err := h.historySvc.ListRecentlyViewed(c.Request.Context(), middleware.UserID(c), limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"recentlyViewed": rows})
}

type searchHistoryRequest struct {
	Query    string         `json:"query" binding:"required"`
	Results  int            `json:"results" binding:"gte=0"`
	Filters  datatypes.JSON `json:"filters"`
	Metadata datatypes.JSON `json:"metadata"`
}

// AddSearchHistory 追加一条搜索历史
// @Summary 记录搜索历史
// @Tags 历史
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body searchHistoryRequest true "搜索信息"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /api/search-history [post]
func (h *Handler) AddSearchHistory(c *gin.Context) {
	var req searchHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	_, err := h.historySvc.RecordSearch(c.Request.Context(), middleware.UserID(c), req.Query, req.Results, req.Filters, req.Metadata)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"message": "Search history saved successfully"})
}

// ListSearchHistory 搜索历史，时间倒序分页
// @Summary 查询搜索历史
// @Tags 历史
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {array} model.SearchHistory
// @Router /api/search-history [get]
func (h *Handler) ListSearchHistory(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := h.historySvc.ListSearchHistory(c.Request.Context(), middleware.UserID(c), page, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, rows)
}

const sessionCookie = "portal_session"

func sessionID(c *gin.Context) string {
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		return sid
	}
	sid := uuid.New().String()
	c.SetCookie(sessionCookie, sid, int((24 * 60 * 60)), "/", "", false, true)
	return sid
}

type sessionViewRequest struct {
	URL         string `json:"url" binding:"required,url"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
}

// AddSessionView 匿名会话的最近浏览：去重置顶，最多 5 条
// @Summary 记录匿名最近浏览
// @Tags 历史
// @Accept json
// @Produce json
// @Param request body sessionViewRequest true "文章信息"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /api/session/recently-viewed [post]
func (h *Handler) AddSessionView(c *gin.Context) {
	var req sessionViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	err := h.historySvc.RecordAnonymousView(c.Request.Context(), sessionID(c), recent.Entry{
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
		Source:      req.Source,
		PublishedAt: req.PublishedAt,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recently viewed updated successfully"})
}

// ListSessionViews 匿名会话的最近浏览列表
// @Summary 查询匿名最近浏览
// @Tags 历史
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/session/recently-viewed [get]
func (h *Handler) ListSessionViews(c *gin.Context) {
	entries, err := h.historySvc.ListAnonymousViews(c.Request.Context(), sessionID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"recentlyViewed": entries})
}
