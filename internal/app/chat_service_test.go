package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awsml-tutor/internal/model"
)

type failingPublisher struct{}

func (failingPublisher) Publish(context.Context, model.Transcript) error {
	return errors.New("broker down")
}

func TestAskRejectsUninitializedIndex(t *testing.T) {
	gen := &stubGenerator{reply: "made up"}
	answers := NewAnswerGenerator(gen, 6)

	_, err := NewChatService(nil, answers, 3).Ask(context.Background(), ChatInput{Question: "What is SageMaker?"})
	assert.ErrorIs(t, err, ErrIndexNotReady)

	_, err = NewChatService(emptyIndex(t), answers, 3).Ask(context.Background(), ChatInput{Question: "What is SageMaker?"})
	assert.ErrorIs(t, err, ErrIndexNotReady)
	assert.Empty(t, gen.prompts)
}

func TestAskValidatesQuestion(t *testing.T) {
	_, err := NewChatService(sampleIndex(t), NewAnswerGenerator(&stubGenerator{}, 6), 3).
		Ask(context.Background(), ChatInput{Question: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAskAnswersWithSources(t *testing.T) {
	gen := &stubGenerator{reply: "SageMaker is a fully managed ML service."}
	store := &memoryTranscripts{}
	cache := &memoryCache{}
	svc := NewChatService(sampleIndex(t), NewAnswerGenerator(gen, 6), 3).
		WithTranscripts(NewDirectPublisher(store), cache)

	res, err := svc.Ask(context.Background(), ChatInput{Question: "What is Amazon SageMaker?"})
	require.NoError(t, err)

	assert.Equal(t, "SageMaker is a fully managed ML service.", res.Answer)
	assert.NotEmpty(t, res.Sources)
	assert.LessOrEqual(t, len(res.Sources), 3)
	require.NotNil(t, res.Confidence)
	assert.Contains(t, gen.lastPrompt(), "Question: What is Amazon SageMaker?")

	require.Len(t, store.items, 1)
	assert.Equal(t, "What is Amazon SageMaker?", store.items[0].Question)
	assert.Equal(t, res.Sources, store.items[0].Sources)
	assert.Equal(t, 1, cache.invalidated)
}

func TestAskSurvivesPublishFailure(t *testing.T) {
	svc := NewChatService(sampleIndex(t), NewAnswerGenerator(&stubGenerator{reply: "ok"}, 6), 3).
		WithTranscripts(failingPublisher{}, nil)

	res, err := svc.Ask(context.Background(), ChatInput{Question: "What is Amazon Bedrock?"})
	require.NoError(t, err)
	assert.Equal(t, "ok", res.Answer)
}

func TestAskReportsGeneratorFailure(t *testing.T) {
	boom := errors.New("upstream 500")
	svc := NewChatService(sampleIndex(t), NewAnswerGenerator(&stubGenerator{err: boom}, 6), 3)
	_, err := svc.Ask(context.Background(), ChatInput{Question: "What is Amazon Bedrock?"})
	assert.ErrorIs(t, err, boom)

	_, err = NewChatService(sampleIndex(t), nil, 3).Ask(context.Background(), ChatInput{Question: "q"})
	assert.ErrorIs(t, err, ErrGeneratorNotReady)
}
