package handler

import (
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/d60-Lab/newsportal/internal/api/middleware"
	"github.com/d60-Lab/newsportal/internal/model"
	"github.com/d60-Lab/newsportal/internal/service"
	"github.com/d60-Lab/newsportal/pkg/response"
)

// articleRequest 交互/浏览共用的文章快照字段
type articleRequest struct {
	ArticleURL         string     `json:"articleUrl" binding:"required,url"`
	ArticleTitle       string     `json:"articleTitle" binding:"required"`
	ArticleDescription string     `json:"articleDescription"`
	ArticleImage       string     `json:"articleImage"`
	ArticleSource      string     `json:"articleSource"`
	ArticlePublishedAt *time.Time `json:"articlePublishedAt"`
}

func (r articleRequest) ref() service.ArticleRef {
	return service.ArticleRef{
		URL:         r.ArticleURL,
		Title:       r.ArticleTitle,
		Description: r.ArticleDescription,
		Image:       r.ArticleImage,
		Source:      r.ArticleSource,
		PublishedAt: r.ArticlePublishedAt,
	}
}

type interactionRequest struct {
	articleRequest
	InteractionType string         `json:"interactionType" binding:"required,oneof=view like bookmark"`
	Metadata        datatypes.JSON `json:"metadata"`
}

// CreateInteraction 记录一次交互；同 (文章, 类型) 重复提交返回 400
// @Summary 记录交互
// @Tags 交互
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body interactionRequest true "交互信息"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /api/interactions [post]
func (h *Handler) CreateInteraction(c *gin.Context) {
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	it, err := h.interactionSvc.Record(c.Request.Context(), middleware.UserID(c), req.ref(), req.InteractionType, req.Metadata)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, gin.H{
		"message":     "Interaction saved successfully",
		"interaction": it,
	})
}

// ListInteractions 按类型过滤的交互记录，时间倒序分页
// @Summary 查询交互记录
// @Tags 交互
// @Produce json
// @Security BearerAuth
// @Param type query string false "view/like/bookmark"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Success 200 {array} model.UserInteraction
// @Failure 400 {object} response.ErrorBody
// @Router /api/interactions [get]
func (h *Handler) ListInteractions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	rows, err := h.interactionSvc.List(c.Request.Context(), middleware.UserID(c), c.Query("type"), page, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, rows)
}

// AddBookmark 收藏文章
// @Summary 收藏
// @Tags 交互
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body articleRequest true "文章信息"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /api/user/bookmarks [post]
func (h *Handler) AddBookmark(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	it, err := h.interactionSvc.Record(c.Request.Context(), middleware.UserID(c), req.ref(), model.InteractionBookmark, nil)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, gin.H{
		"message":  "Article bookmarked successfully",
		"bookmark": it,
	})
}

// ListBookmarks 当前账号的全部收藏，时间倒序
// @Summary 查询收藏
// @Tags 交互
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/user/bookmarks [get]
func (h *Handler) ListBookmarks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	rows, err := h.interactionSvc.List(c.Request.Context(), middleware.UserID(c), model.InteractionBookmark, page, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"bookmarks": rows})
}

// RemoveBookmark 取消收藏；articleUrl 需 percent-encode
// @Summary 取消收藏
// @Tags 交互
// @Produce json
// @Security BearerAuth
// @Param articleUrl path string true "文章 URL（编码后）"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/user/bookmarks/{articleUrl} [delete]
func (h *Handler) RemoveBookmark(c *gin.Context) {
	h.removeInteraction(c, model.InteractionBookmark, "Bookmark removed successfully")
}

// AddLike 点赞文章
// @Summary 点赞
// @Tags 交互
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body articleRequest true "文章信息"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /api/user/likes [post]
func (h *Handler) AddLike(c *gin.Context) {
	var req articleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	it, err := h.interactionSvc.Record(c.Request.Context(), middleware.UserID(c), req.ref(), model.InteractionLike, nil)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, gin.H{
		"message": "Article liked successfully",
		"like":    it,
	})
}

// ListLikes 当前账号的点赞记录，时间倒序分页
// @Summary 查询点赞
// @Tags 交互
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {array} model.UserInteraction
// @Router /api/user/likes [get]
func (h *Handler) ListLikes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	rows, err := h.interactionSvc.List(c.Request.Context(), middleware.UserID(c), model.InteractionLike, page, limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, rows)
}

// RemoveLike 取消点赞
// @Summary 取消点赞
// @Tags 交互
// @Produce json
// @Security BearerAuth
// @Param articleUrl path string true "文章 URL（编码后）"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} response.ErrorBody
// @Router /api/user/likes/{articleUrl} [delete]
func (h *Handler) RemoveLike(c *gin.Context) {
	h.removeInteraction(c, model.InteractionLike, "Like removed successfully")
}

func (h *Handler) removeInteraction(c *gin.Context, interactionType, okMsg string) {
	raw := c.Param("articleUrl")
	articleURL, err := url.PathUnescape(raw)
	if err != nil || articleURL == "" {
		response.BadRequest(c, "invalid article url")
		return
	}
	if err := h.interactionSvc.Remove(c.Request.Context(), middleware.UserID(c), articleURL, interactionType); err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"message": okMsg})
}
