package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgent_RequiresLLM(t *testing.T) {
	_, err := NewAgent(nil, nil)
	assert.Error(t, err)
}

func TestGenerate_EmptyTopicSkipsLLM(t *testing.T) {
	mock := &MockLLM{}
	agent, err := NewAgent(mock, nil)
	require.NoError(t, err)

	_, err = agent.Generate(context.Background(), Request{Topic: "  ", Difficulty: Easy, Duration: OneWeek, Count: 5})
	assert.ErrorIs(t, err, ErrEmptyTopic)
	assert.Empty(t, mock.Calls())
}

func TestGenerate_InvalidRequestSkipsLLM(t *testing.T) {
	mock := &MockLLM{}
	agent, _ := NewAgent(mock, nil)

	_, err := agent.Generate(context.Background(), Request{Topic: "Go", Difficulty: Easy, Duration: OneWeek, Count: 42})
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Empty(t, mock.Calls())
}

func TestGenerate_Success(t *testing.T) {
	mock := &MockLLM{Reply: "## Project 1\nBuild a chess engine."}
	agent, _ := NewAgent(mock, nil)

	res, err := agent.Generate(context.Background(), Request{Topic: "Chess", Difficulty: Hard, Duration: TwoWeeks, Count: 3})
	require.NoError(t, err)
	assert.Equal(t, "## Project 1\nBuild a chess engine.", res.RawText)
	assert.Equal(t, "mock", res.Model)
	assert.NotEmpty(t, res.ID)

	calls := mock.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, systemPrompt, calls[0].System)
	assert.Contains(t, calls[0].User, "Chess")
}

func TestGenerate_LLMFailureIsWrapped(t *testing.T) {
	upstream := errors.New("quota exceeded")
	agent, _ := NewAgent(&MockLLM{Err: upstream}, nil)

	_, err := agent.Generate(context.Background(), Request{Topic: "Chess", Difficulty: Hard, Duration: TwoWeeks, Count: 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, upstream)
}

func TestGenerate_CancelledContext(t *testing.T) {
	agent, _ := NewAgent(&MockLLM{}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := agent.Generate(ctx, Request{Topic: "Chess", Difficulty: Hard, Duration: TwoWeeks, Count: 3})
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMockLLM_DefaultReplyEchoesPrompt(t *testing.T) {
	mock := &MockLLM{}
	out, err := mock.Complete(context.Background(), Prompt{User: "topic 'Chess'"})
	require.NoError(t, err)
	assert.Contains(t, out.Text, "topic 'Chess'")
	assert.Contains(t, out.Text, "## Project Ideas")
}
