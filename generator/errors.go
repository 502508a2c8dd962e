package generator

import "errors"

var (
	// ErrEmptyTopic is returned when the topic is empty or only whitespace.
	ErrEmptyTopic = errors.New("please enter a valid topic")

	// ErrInvalidRequest is returned when difficulty, duration or count is out of range.
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrGenerationFailed wraps any failure of the completion call.
	ErrGenerationFailed = errors.New("an error occurred while generating project ideas")

	// ErrInvalidConfig is returned when an LLM client cannot be built from its settings.
	ErrInvalidConfig = errors.New("invalid llm configuration")
)
