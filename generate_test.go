package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project_navigator/generator"
)

func newAgent(t *testing.T, llm *generator.MockLLM) *generator.Agent {
	t.Helper()
	agent, err := generator.NewAgent(llm, nil)
	require.NoError(t, err)
	return agent
}

func TestRunGenerate_WritesText(t *testing.T) {
	dir := t.TempDir()
	llm := &generator.MockLLM{Reply: "## Idea\n- one"}
	var out bytes.Buffer

	err := runGenerate(context.Background(), newAgent(t, llm), generateOptions{
		topic: "Chess", difficulty: "hard", duration: "14", count: 3, format: "txt", outDir: dir,
	}, &out)
	require.NoError(t, err)

	path := filepath.Join(dir, "Chess_project_ideas.txt")
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Idea\n  - one", string(b))
	assert.Contains(t, out.String(), path)
	require.Len(t, llm.Calls(), 1)
	assert.Contains(t, llm.Calls()[0].User, "3 projects")
}

func TestRunGenerate_WritesPDF(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := runGenerate(context.Background(), newAgent(t, &generator.MockLLM{}), generateOptions{
		topic: "Go", difficulty: "Easy", duration: "7", count: 1, format: "pdf", outDir: dir,
	}, &out)
	require.NoError(t, err)

	b, err := os.ReadFile(filepath.Join(dir, "Go_project_ideas.pdf"))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(b, []byte("%PDF")))
}

func TestRunGenerate_EmptyTopicExitCode(t *testing.T) {
	llm := &generator.MockLLM{}
	err := runGenerate(context.Background(), newAgent(t, llm), generateOptions{
		topic: "", difficulty: "Easy", duration: "7", count: 1, format: "txt", outDir: t.TempDir(),
	}, &bytes.Buffer{})

	var ece *exitCodeError
	require.ErrorAs(t, err, &ece)
	assert.Equal(t, 2, ece.code)
	assert.ErrorIs(t, err, generator.ErrEmptyTopic)
	assert.Empty(t, llm.Calls())
}

func TestBuildRequest_TopicFirst(t *testing.T) {
	_, err := buildRequest(generateOptions{topic: "  ", difficulty: "Godlike", duration: "8", count: 99})
	assert.ErrorIs(t, err, generator.ErrEmptyTopic)

	req, err := buildRequest(generateOptions{topic: "  Chess  ", difficulty: "hard", duration: "30", count: 2})
	require.NoError(t, err)
	assert.Equal(t, generator.Request{Topic: "Chess", Difficulty: generator.Hard, Duration: generator.OneMonth, Count: 2}, req)
}

func TestRunGenerate_TrimsTopic(t *testing.T) {
	dir := t.TempDir()
	llm := &generator.MockLLM{Reply: "idea"}
	err := runGenerate(context.Background(), newAgent(t, llm), generateOptions{
		topic: "  Chess  ", difficulty: "Easy", duration: "7", count: 1, format: "txt", outDir: dir,
	}, &bytes.Buffer{})
	require.NoError(t, err)

	require.Len(t, llm.Calls(), 1)
	assert.Contains(t, llm.Calls()[0].User, "'Chess'")
	_, err = os.Stat(filepath.Join(dir, "Chess_project_ideas.txt"))
	assert.NoError(t, err)
}

func TestRunGenerate_BadFlags(t *testing.T) {
	agent := newAgent(t, &generator.MockLLM{})
	for _, opts := range []generateOptions{
		{topic: "Go", difficulty: "Easy", duration: "7", count: 1, format: "docx"},
		{topic: "Go", difficulty: "Godlike", duration: "7", count: 1, format: "txt"},
		{topic: "Go", difficulty: "Easy", duration: "8", count: 1, format: "txt"},
	} {
		opts.outDir = t.TempDir()
		var ece *exitCodeError
		require.ErrorAs(t, runGenerate(context.Background(), agent, opts, &bytes.Buffer{}), &ece)
		assert.Equal(t, 2, ece.code)
	}
}

func TestRunGenerate_LLMFailure(t *testing.T) {
	dir := t.TempDir()
	err := runGenerate(context.Background(), newAgent(t, &generator.MockLLM{Err: errors.New("down")}), generateOptions{
		topic: "Go", difficulty: "Easy", duration: "7", count: 1, format: "txt", outDir: dir,
	}, &bytes.Buffer{})

	require.ErrorIs(t, err, generator.ErrGenerationFailed)
	var ece *exitCodeError
	assert.False(t, errors.As(err, &ece))
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "projectnav dev\n", out.String())
}
