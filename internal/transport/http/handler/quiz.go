package handler

import (
	"github.com/gin-gonic/gin"

	"awsml-tutor/internal/app"
	"awsml-tutor/internal/model"
	"awsml-tutor/internal/transport/http/response"
)

type QuizHandler struct {
	quizGenerator *app.QuizGenerator
}

type QuizRequest struct {
	Topic        string `json:"topic" binding:"required"`
	Difficulty   string `json:"difficulty"`
	NumQuestions int    `json:"num_questions"`
}

type QuizResponse struct {
	Questions []model.QuizQuestion `json:"questions"`
}

func NewQuizHandler(quizGenerator *app.QuizGenerator) *QuizHandler {
	return &QuizHandler{quizGenerator: quizGenerator}
}

func (h *QuizHandler) Generate(c *gin.Context) {
	var req QuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badPayload(c, err)
		return
	}

	result, err := h.quizGenerator.Generate(c.Request.Context(), app.QuizRequest{
		Topic:        req.Topic,
		Difficulty:   req.Difficulty,
		NumQuestions: req.NumQuestions,
	})
	if err != nil {
		writeError(c, err, "generating quiz")
		return
	}
	response.OK(c, QuizResponse{Questions: result.Questions})
}
