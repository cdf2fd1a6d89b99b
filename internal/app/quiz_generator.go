package app

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"awsml-tutor/internal/ai"
	"awsml-tutor/internal/model"
)

const (
	DefaultDifficulty   = "medium"
	DefaultNumQuestions = 5
	MaxNumQuestions     = 20
)

var (
	jsonArrayPattern = regexp.MustCompile(`(?s)\[.*\]`)
	optionLabel      = regexp.MustCompile(`^\s*([A-Da-d])\s*[).:\-]`)

	difficulties = map[string]bool{"easy": true, "medium": true, "hard": true}
)

type QuizRequest struct {
	Topic        string
	Difficulty   string
	NumQuestions int
}

// QuizResult holds the validated questions. Fallback is set when the model
// output could not be used and the placeholder question was returned.
type QuizResult struct {
	Questions []model.QuizQuestion
	Fallback  bool
}

type QuizGenerator struct {
	generator ai.Generator
}

func NewQuizGenerator(generator ai.Generator) *QuizGenerator {
	return &QuizGenerator{generator: generator}
}

// Normalize applies defaults and rejects out-of-range requests.
func (r QuizRequest) Normalize() (QuizRequest, error) {
	r.Topic = strings.TrimSpace(r.Topic)
	if r.Topic == "" {
		return r, fmt.Errorf("%w: topic is required", ErrInvalidInput)
	}
	r.Difficulty = strings.ToLower(strings.TrimSpace(r.Difficulty))
	if r.Difficulty == "" {
		r.Difficulty = DefaultDifficulty
	}
	if !difficulties[r.Difficulty] {
		return r, fmt.Errorf("%w: difficulty must be easy, medium or hard", ErrInvalidInput)
	}
	if r.NumQuestions == 0 {
		r.NumQuestions = DefaultNumQuestions
	}
	if r.NumQuestions < 1 || r.NumQuestions > MaxNumQuestions {
		return r, fmt.Errorf("%w: num_questions must be between 1 and %d", ErrInvalidInput, MaxNumQuestions)
	}
	return r, nil
}

// Generate asks the model for a quiz. Model output that cannot be parsed
// never fails the request; the fallback quiz is returned instead. Only a
// transport or provider error is returned as an error.
func (g *QuizGenerator) Generate(ctx context.Context, req QuizRequest) (*QuizResult, error) {
	if g == nil || g.generator == nil {
		return nil, ErrGeneratorNotReady
	}
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	raw, err := g.generator.Generate(ctx, BuildQuizPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("generate quiz failed: %w", err)
	}
	result := ParseQuiz(raw, req.Topic, req.NumQuestions)
	return &result, nil
}

func BuildQuizPrompt(req QuizRequest) string {
	return fmt.Sprintf(`Generate a %s difficulty quiz with %d multiple-choice questions about %s in AWS.

Format each question as JSON with this structure:
[
  {
    "question": "Question text here?",
    "options": ["A) Option 1", "B) Option 2", "C) Option 3", "D) Option 4"],
    "correct_answer": "A",
    "explanation": "Why this answer is correct"
  }
]

Focus on practical knowledge relevant to AWS AI/ML certifications.
Return ONLY the JSON array, no other text.`, req.Difficulty, req.NumQuestions, req.Topic)
}

// ParseQuiz extracts the first-to-last bracketed span of raw, keeps the
// well-formed questions and truncates to limit.
func ParseQuiz(raw, topic string, limit int) QuizResult {
	span := jsonArrayPattern.FindString(raw)
	if span == "" {
		return QuizResult{Questions: FallbackQuiz(topic), Fallback: true}
	}
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(span), &items); err != nil {
		return QuizResult{Questions: FallbackQuiz(topic), Fallback: true}
	}

	questions := make([]model.QuizQuestion, 0, len(items))
	for _, item := range items {
		q, ok := validQuestion(item)
		if !ok {
			continue
		}
		questions = append(questions, q)
		if limit > 0 && len(questions) == limit {
			break
		}
	}
	if len(questions) == 0 {
		return QuizResult{Questions: FallbackQuiz(topic), Fallback: true}
	}
	return QuizResult{Questions: questions}
}

func FallbackQuiz(topic string) []model.QuizQuestion {
	return []model.QuizQuestion{{
		Question:      fmt.Sprintf("What is the primary use case for %s?", topic),
		Options:       []string{"A) Data storage", "B) Machine learning", "C) Networking", "D) Security"},
		CorrectAnswer: "B",
		Explanation:   "Please try again - quiz generation needs refinement",
	}}
}

func validQuestion(item json.RawMessage) (model.QuizQuestion, bool) {
	var q model.QuizQuestion
	if err := json.Unmarshal(item, &q); err != nil {
		return q, false
	}
	q.Question = strings.TrimSpace(q.Question)
	if q.Question == "" || len(q.Options) != 4 {
		return q, false
	}

	answer := strings.ToUpper(strings.TrimSpace(q.CorrectAnswer))
	if m := optionLabel.FindStringSubmatch(answer); m != nil {
		answer = strings.ToUpper(m[1])
	}
	if len(answer) != 1 || answer < "A" || answer > "D" {
		return q, false
	}

	labelled := false
	for _, opt := range q.Options {
		m := optionLabel.FindStringSubmatch(opt)
		if m == nil {
			continue
		}
		labelled = true
		if strings.ToUpper(m[1]) == answer {
			q.CorrectAnswer = answer
			q.Explanation = strings.TrimSpace(q.Explanation)
			return q, true
		}
	}
	if labelled {
		return q, false
	}

	// unlabelled options are lettered by position
	for i, opt := range q.Options {
		q.Options[i] = fmt.Sprintf("%c) %s", 'A'+i, strings.TrimSpace(opt))
	}
	q.CorrectAnswer = answer
	q.Explanation = strings.TrimSpace(q.Explanation)
	return q, true
}
