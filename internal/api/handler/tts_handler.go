package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/newsportal/internal/tts"
	"github.com/d60-Lab/newsportal/pkg/response"
)

type ttsRequest struct {
	Text          string            `json:"text" binding:"required"`
	VoiceSettings tts.VoiceSettings `json:"voiceSettings"`
}

// Synthesize 语音合成：browser 引擎返回 SSML，espeak 引擎返回音频
// @Summary 语音合成
// @Tags TTS
// @Accept json
// @Produce json
// @Param request body ttsRequest true "合成请求"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} response.ErrorBody
// @Router /api/tts [post]
func (h *Handler) Synthesize(c *gin.Context) {
	var req ttsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	res, err := h.ttsSvc.Synthesize(c.Request.Context(), req.Text, req.VoiceSettings)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if res.Type == tts.EngineEspeak {
		c.Data(200, "audio/mp3", res.Audio)
		return
	}
	response.Success(c, gin.H{"type": res.Type, "ssml": res.SSML})
}

// Voices 可用音色目录
// @Summary 查询音色
// @Tags TTS
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/voices [get]
func (h *Handler) Voices(c *gin.Context) {
	response.Success(c, gin.H{"voices": h.ttsSvc.Voices()})
}

// Test 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/test [get]
func (h *Handler) Test(c *gin.Context) {
	response.Success(c, gin.H{"message": "Server is running!"})
}
