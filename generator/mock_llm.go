package generator

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// MockLLM 一个简单的占位实现，便于本地调试，不调用外部模型。
// Reply/Err 可覆盖默认输出；所有调用都会被记录。
type MockLLM struct {
	Reply string
	Err   error

	mu    sync.Mutex
	calls []Prompt
}

func (m *MockLLM) Complete(ctx context.Context, prompt Prompt) (Completion, error) {
	if err := ctx.Err(); err != nil {
		return Completion{}, err
	}
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()

	if m.Err != nil {
		return Completion{}, m.Err
	}
	text := m.Reply
	if text == "" {
		text = sampleReply(prompt)
	}
	return Completion{Text: text, Model: "mock"}, nil
}

// Calls returns a copy of every prompt received so far.
func (m *MockLLM) Calls() []Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Prompt, len(m.calls))
	copy(out, m.calls)
	return out
}

// 很简单地把用户输入拼接成 Markdown。
func sampleReply(prompt Prompt) string {
	var sb strings.Builder
	sb.WriteString("## Project Ideas\n\n")
	for i := 1; i <= 3; i++ {
		sb.WriteString(fmt.Sprintf("### %d. Sample Project %d\n\n", i, i))
		sb.WriteString("**Description:** A placeholder project generated offline.\n\n")
		sb.WriteString("**Learning outcomes:**\n- Read the prompt\n- Ship something small\n\n")
		sb.WriteString("**Tools:** Go, a text editor\n\n")
	}
	sb.WriteString("Prompt:\n\n")
	sb.WriteString(prompt.User)
	sb.WriteString("\n")
	return sb.String()
}
