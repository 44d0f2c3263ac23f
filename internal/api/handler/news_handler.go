package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newsportal/internal/apperr"
	"github.com/d60-Lab/newsportal/internal/newsapi"
	"github.com/d60-Lab/newsportal/pkg/response"
)

// GetHeadlines 代理上游头条；上游失败降级为空列表 + 提示文案
// @Summary 查询头条
// @Tags 新闻
// @Produce json
// @Param category query string false "分类"
// @Success 200 {object} map[string]interface{}
// @Router /api/news [get]
func (h *Handler) GetHeadlines(c *gin.Context) {
	articles, err := h.newsSvc.Headlines(c.Request.Context(), c.Query("category"))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindUpstream {
			// 降级：前端展示提示而不是报错页
			response.Success(c, gin.H{
				"articles": []newsapi.Article{},
				"degraded": apperr.MessageOf(err),
			})
			return
		}
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"articles": articles})
}

// DownloadNewsCSV 下载最近一次头条快照
// @Summary 下载头条 CSV
// @Tags 新闻
// @Produce text/csv
// @Success 200 {file} file
// @Failure 500 {object} response.ErrorBody
// @Router /api/news/csv [get]
func (h *Handler) DownloadNewsCSV(c *gin.Context) {
	c.FileAttachment(h.newsSvc.CSVPath(), "latest_news.csv")
}
