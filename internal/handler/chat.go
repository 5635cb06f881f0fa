package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/logging"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/middleware"
	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/usecase/chat"
)

// Chatter answers a message with a response and quiz.
type Chatter interface {
	Chat(ctx context.Context, message string) (*chat.Result, error)
}

// ChatRequest: POST /chat body.
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

// ChatHandler serves the chat routes.
type ChatHandler struct {
	service Chatter
	logger  *slog.Logger
}

// NewChatHandler creates a ChatHandler.
func NewChatHandler(service Chatter, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logging.OrDiscard(logger),
	}
}

// RegisterRoutes mounts POST /chat on router and POST /chat on the api group.
func (h *ChatHandler) RegisterRoutes(router gin.IRoutes, api gin.IRoutes) {
	router.POST("/chat", h.Chat)
	api.POST("/chat", h.Chat)
}

// Chat handles one chat request.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.service.Chat(c.Request.Context(), req.Message)
	if err != nil {
		h.logger.WarnContext(c.Request.Context(), "chat_request_failed",
			"request_id", middleware.GetRequestID(c),
			"err", err,
		)
		_ = c.Error(err)
		writeError(c, err)
		return
	}

	writeJSON(c, http.StatusOK, result)
}
