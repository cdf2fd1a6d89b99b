package handler

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"awsml-tutor/internal/app"
	"awsml-tutor/internal/model"
	"awsml-tutor/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

// ChatRequest keeps history entries raw so a malformed turn is dropped
// instead of failing the whole request.
type ChatRequest struct {
	Question            string            `json:"question" binding:"required"`
	ConversationHistory []json.RawMessage `json:"conversation_history"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	result, err := h.chatService.Ask(c.Request.Context(), app.ChatInput{
		Question: req.Question,
		History:  conversationTurns(req.ConversationHistory),
	})
	if err != nil {
		writeError(c, err, "processing question")
		return
	}
	response.OK(c, result)
}

// conversationTurns keeps entries that are objects with a string content
// and, when present, a string role.
func conversationTurns(raw []json.RawMessage) []model.ConversationTurn {
	turns := make([]model.ConversationTurn, 0, len(raw))
	for _, item := range raw {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(item, &fields); err != nil {
			continue
		}
		var turn model.ConversationTurn
		if err := json.Unmarshal(fields["content"], &turn.Content); err != nil {
			continue
		}
		if role, ok := fields["role"]; ok {
			if err := json.Unmarshal(role, &turn.Role); err != nil {
				continue
			}
		}
		turns = append(turns, turn)
	}
	return turns
}
