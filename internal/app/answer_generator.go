package app

import (
	"context"
	"fmt"
	"strings"

	"awsml-tutor/internal/ai"
	"awsml-tutor/internal/model"
)

const maxAnswerSources = 3

const instructorRole = "You are an expert AWS AI/ML instructor helping students prepare for AWS certifications."

const answerGuidelines = `Provide a clear, detailed answer that:
1. Directly answers the question
2. Includes relevant AWS service names and features
3. Explains concepts in an educational way
4. Relates to certification exam topics when relevant

If you don't know the answer based on the context, say so clearly.`

// Answer is the model output plus the documents it was grounded on.
type Answer struct {
	Text    string
	Sources []string
}

// AnswerGenerator turns retrieved context into a grounded answer with one
// model call and no retries.
type AnswerGenerator struct {
	generator  ai.Generator
	maxHistory int
}

func NewAnswerGenerator(generator ai.Generator, maxHistory int) *AnswerGenerator {
	if maxHistory < 0 {
		maxHistory = 0
	}
	return &AnswerGenerator{generator: generator, maxHistory: maxHistory}
}

func (g *AnswerGenerator) Answer(
	ctx context.Context,
	question string,
	chunks []model.RetrievalResult,
	history []model.ConversationTurn,
) (*Answer, error) {
	prompt := BuildAnswerPrompt(question, chunks, recentTurns(history, g.maxHistory))
	text, err := g.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate answer failed: %w", err)
	}
	return &Answer{
		Text:    strings.TrimSpace(text),
		Sources: CollectSources(chunks, maxAnswerSources),
	}, nil
}

// BuildAnswerPrompt renders the instructor prompt. Prior turns, when given,
// are placed between the context and the question.
func BuildAnswerPrompt(question string, chunks []model.RetrievalResult, history []model.ConversationTurn) string {
	texts := make([]string, 0, len(chunks))
	for _, c := range chunks {
		texts = append(texts, c.Text)
	}

	var b strings.Builder
	b.WriteString(instructorRole)
	b.WriteString("\n\nContext from AWS documentation:\n")
	b.WriteString(strings.Join(texts, "\n\n"))
	b.WriteString("\n\n")

	if conv := renderHistory(history); conv != "" {
		b.WriteString("Previous conversation:\n")
		b.WriteString(conv)
		b.WriteString("\n\n")
	}

	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\n")
	b.WriteString(answerGuidelines)
	b.WriteString("\n\nAnswer:")
	return b.String()
}

// CollectSources returns distinct chunk origins in retrieval order, at most limit.
func CollectSources(chunks []model.RetrievalResult, limit int) []string {
	sources := make([]string, 0, limit)
	seen := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		if len(sources) >= limit {
			break
		}
		src := c.Metadata[model.MetaSourceURL]
		if src == "" {
			src = c.Metadata[model.MetaTitle]
		}
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		sources = append(sources, src)
	}
	return sources
}

func recentTurns(history []model.ConversationTurn, limit int) []model.ConversationTurn {
	if limit <= 0 {
		return nil
	}
	if len(history) > limit {
		return history[len(history)-limit:]
	}
	return history
}

func renderHistory(history []model.ConversationTurn) string {
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		content := strings.TrimSpace(turn.Content)
		if content == "" {
			continue
		}
		lines = append(lines, speaker(turn.Role)+": "+content)
	}
	return strings.Join(lines, "\n")
}

func speaker(role string) string {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case "assistant", "bot", "model", "ai":
		return "Instructor"
	default:
		return "Student"
	}
}
