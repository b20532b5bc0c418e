package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripcraft/internal/app"
	"tripcraft/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type ChatStreamRequest struct {
	Message string        `json:"message" binding:"required"`
	History []HistoryItem `json:"history"`
}

type HistoryItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// Stream proxies the conversation to the model and writes plain-text chunks
// as they arrive. Errors after the first chunk can only terminate the
// stream; the status line is already gone.
func (h *ChatHandler) Stream(c *gin.Context) {
	var req ChatStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Detail(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		response.Detail(c, http.StatusInternalServerError, "stream not supported")
		return
	}

	history := make([]app.HistoryItem, 0, len(req.History))
	for _, item := range req.History {
		history = append(history, app.HistoryItem{Role: item.Role, Content: item.Content})
	}

	started := false
	_, err := h.chatService.StreamChat(c.Request.Context(), app.StreamChatInput{
		Message: req.Message,
		History: history,
	}, func(chunk string) error {
		if !started {
			c.Header("Content-Type", "text/plain; charset=utf-8")
			c.Status(http.StatusOK)
			started = true
		}
		if _, writeErr := c.Writer.WriteString(chunk); writeErr != nil {
			return writeErr
		}
		flusher.Flush()
		return nil
	})
	if err != nil && !started {
		if errors.Is(err, app.ErrMessageEmpty) {
			response.Detail(c, http.StatusBadRequest, err.Error())
			return
		}
		response.Detail(c, http.StatusInternalServerError, err.Error())
	}
}
