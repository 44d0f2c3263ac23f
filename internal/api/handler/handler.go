package handler

import (
	"github.com/d60-Lab/newsportal/internal/service"
	"github.com/d60-Lab/newsportal/internal/tts"
)

// Handler 聚合全部 HTTP handler 的依赖
type Handler struct {
	authService    service.AuthService
	interactionSvc service.InteractionService
	historySvc     service.HistoryService
	newsSvc        service.NewsService
	ttsSvc         *tts.Service
}

func New(
	authService service.AuthService,
	interactionSvc service.InteractionService,
	historySvc service.HistoryService,
	newsSvc service.NewsService,
	ttsSvc *tts.Service,
) *Handler {
	return &Handler{
		authService:    authService,
		interactionSvc: interactionSvc,
		historySvc:     historySvc,
		newsSvc:        newsSvc,
		ttsSvc:         ttsSvc,
	}
}
