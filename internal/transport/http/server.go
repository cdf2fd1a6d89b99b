package http

import (
	"github.com/gin-gonic/gin"

	"awsml-tutor/internal/app"
	"awsml-tutor/internal/bootstrap"
	"awsml-tutor/internal/transport/http/handler"
	"awsml-tutor/internal/transport/http/middleware"
)

func NewRouter(a *bootstrap.App) *gin.Engine {
	gin.SetMode(a.Config.App.GinMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(a.Logger), middleware.Recovery())
	if origins := a.Config.AllowedOrigins(); len(origins) > 0 {
		router.Use(middleware.CORS(origins))
	}

	var answers *app.AnswerGenerator
	var quizzes *app.QuizGenerator
	llmModel := ""
	if a.Generator != nil {
		answers = app.NewAnswerGenerator(a.Generator, a.Config.LLM.MaxHistoryTurns)
		quizzes = app.NewQuizGenerator(a.Generator)
		llmModel = a.Generator.Model()
	}
	embeddingModel := a.Config.Embedding.Model
	if a.Embedder != nil {
		embeddingModel = a.Embedder.ModelID()
	}

	chatService := app.NewChatService(a.Index, answers, a.Config.Retrieval.TopK)
	var historyService *app.HistoryService
	if a.Transcripts != nil {
		var transcriptCache app.TranscriptCache
		if a.TranscriptCache != nil {
			transcriptCache = a.TranscriptCache
		}
		chatService.WithTranscripts(a.Publisher, transcriptCache)
		historyService = app.NewHistoryService(a.Transcripts, transcriptCache, a.Config.Transcript.HistoryLimit)
	}
	statusService := app.NewStatusService(a.Index, embeddingModel, llmModel)

	statusHandler := handler.NewStatusHandler(statusService)
	chatHandler := handler.NewChatHandler(chatService)
	quizHandler := handler.NewQuizHandler(quizzes)
	historyHandler := handler.NewHistoryHandler(historyService)
	healthHandler := handler.NewHealthHandler(a)

	router.GET("/", statusHandler.Root)
	router.GET("/healthz", healthHandler.Check)
	router.GET("/topics", statusHandler.Topics)
	router.GET("/stats", statusHandler.Stats)
	router.POST("/chat", chatHandler.Chat)
	router.POST("/quiz", quizHandler.Generate)
	router.GET("/history", historyHandler.Recent)

	return router
}
