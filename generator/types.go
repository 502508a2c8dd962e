package generator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Difficulty 项目难度。
type Difficulty string

const (
	Beginner Difficulty = "Beginner"
	Easy     Difficulty = "Easy"
	Medium   Difficulty = "Medium"
	Hard     Difficulty = "Hard"
	Expert   Difficulty = "Expert"
)

// Duration 项目完成天数，按字符串保存以便原样写入提示词。
type Duration string

const (
	OneWeek    Duration = "7"
	TwoWeeks   Duration = "14"
	OneMonth   Duration = "30"
	TwoMonths  Duration = "60"
	ThreeMonth Duration = "90"
)

const (
	MinCount     = 1
	MaxCount     = 10
	DefaultCount = 5
)

var (
	difficulties = []Difficulty{Beginner, Easy, Medium, Hard, Expert}
	durations    = []Duration{OneWeek, TwoWeeks, OneMonth, TwoMonths, ThreeMonth}
)

// Difficulties returns the selectable difficulty levels, easiest first.
func Difficulties() []Difficulty {
	out := make([]Difficulty, len(difficulties))
	copy(out, difficulties)
	return out
}

// Durations returns the selectable completion times, shortest first.
func Durations() []Duration {
	out := make([]Duration, len(durations))
	copy(out, durations)
	return out
}

// ParseDifficulty 忽略大小写匹配难度。
func ParseDifficulty(s string) (Difficulty, error) {
	s = strings.TrimSpace(s)
	for _, d := range difficulties {
		if strings.EqualFold(string(d), s) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalidRequest, s)
}

// ParseDuration accepts "14" as well as "14 days".
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "days"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return "", fmt.Errorf("%w: unknown duration %q", ErrInvalidRequest, s)
	}
	for _, d := range durations {
		if string(d) == strconv.Itoa(n) {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: unknown duration %q", ErrInvalidRequest, s)
}

// Request 描述一次生成请求（表单提交的四个字段）。
type Request struct {
	Topic      string     `validate:"required"`
	Difficulty Difficulty `validate:"oneof=Beginner Easy Medium Hard Expert"`
	Duration   Duration   `validate:"oneof=7 14 30 60 90"`
	Count      int        `validate:"min=1,max=10"`
}

var validate = validator.New()

// Validate 只有 topic 为空会被当作用户输入错误单独提示，其余为非法请求。
func (r Request) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return ErrEmptyTopic
	}
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// Result is the model reply for one request. Only RawText feeds the formatters;
// the rest is recorded for logs and the JSON API.
type Result struct {
	ID      string
	RawText string
	Model   string
	Usage   Usage
	Elapsed time.Duration
}

// Usage 记录 token 消耗。
type Usage struct {
	PromptTokens     int64 `json:"prompt_tokens"`
	CompletionTokens int64 `json:"completion_tokens"`
}
