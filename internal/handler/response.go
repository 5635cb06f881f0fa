package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/park285/llm-kakao-bots/quiz-relay-go/internal/handler/shared"
)

func writeError(c *gin.Context, err error) {
	shared.WriteError(c, err)
}

func writeJSON(c *gin.Context, status int, v any) {
	shared.WriteJSON(c, status, v)
}

func bindJSON(c *gin.Context, out any) bool {
	return shared.BindJSON(c, out)
}
