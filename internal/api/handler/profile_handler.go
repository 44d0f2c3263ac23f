package handler

import (
	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/d60-Lab/newsportal/internal/api/middleware"
	"github.com/d60-Lab/newsportal/internal/service"
	"github.com/d60-Lab/newsportal/pkg/response"
)

type updateProfileRequest struct {
	Name         *string         `json:"name"`
	ProfileImage *string         `json:"profileImage"`
	Preferences  *datatypes.JSON `json:"preferences"`
}

// GetProfile 查询当前账号
// @Summary 查询个人信息
// @Tags 账号
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.PublicProfile
// @Failure 401 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/profile [get]
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.authService.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, p)
}

// UpdateProfile 局部更新个人信息；未提交的字段保持不变
// @Summary 更新个人信息
// @Tags 账号
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body updateProfileRequest true "待更新字段"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Failure 404 {object} response.ErrorBody
// @Router /api/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	p, err := h.authService.UpdateProfile(c.Request.Context(), middleware.UserID(c), service.ProfileUpdate{
		Name:         req.Name,
		ProfileImage: req.ProfileImage,
		Preferences:  req.Preferences,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{
		"message": "Profile updated successfully",
		"user":    p,
	})
}
