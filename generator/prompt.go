package generator

import (
	"fmt"
	"strings"
)

const systemPrompt = "You are a helpful assistant."

// Prompt 表示发送给 LLM 的消息对（system + user）。
type Prompt struct {
	System string
	User   string
}

// BuildPrompt 将四个字段原样插入固定模板，不做转义。
func BuildPrompt(req Request) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Generate a list of %d projects that I can build to master the topic '%s'. ", req.Count, req.Topic))
	sb.WriteString(fmt.Sprintf("Each project should be designed to be completed in %s days and should have a '%s' level of difficulty. ", req.Duration, req.Difficulty))
	sb.WriteString("For each project, provide: a title, a brief description, the key learning outcomes, and the tools or technologies required.")

	return Prompt{
		System: systemPrompt,
		User:   sb.String(),
	}
}
