package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleReply = "## Project Ideas\n\n\n\n### 1. Chess Engine\n**Description:** Build a move generator.\n- Learn bitboards\n- Learn search\n\n\n### 2. Opening Trainer\r\nQuiz yourself on openings.\n"

func TestCleanText(t *testing.T) {
	got := CleanText(sampleReply)
	want := "Project Ideas\n\n1. Chess Engine\n**Description:** Build a move generator.\n  - Learn bitboards\n  - Learn search\n\n2. Opening Trainer\nQuiz yourself on openings."
	assert.Equal(t, want, got)
}

func TestCleanText_Idempotent(t *testing.T) {
	inputs := []string{
		sampleReply,
		"",
		"plain text",
		"# # nested ## marks\n- a\n  - b\n",
		"\n\n\n- leading bullet\n\n\n\n\n#\n##\n",
		"  ## indented heading\n\t# tabbed\n",
		"- # not a heading\nC# is a language\n",
	}
	for _, in := range inputs {
		once := CleanText(in)
		assert.Equal(t, once, CleanText(once), "%q", in)
	}
}

func TestCleanText_NoLeadingHashes(t *testing.T) {
	in := "# a\n## b\n### c\n  #### d\n# # e\n#f\nC# stays\n"
	for _, line := range strings.Split(CleanText(in), "\n") {
		assert.False(t, strings.HasPrefix(strings.TrimLeft(line, " \t"), "#"), "%q", line)
	}
	assert.Contains(t, CleanText(in), "C# stays")
}

func TestCleanText_CollapsesBlankRuns(t *testing.T) {
	got := CleanText("a\n\n\n\n\nb\n\n\nc")
	assert.Equal(t, "a\n\nb\n\nc", got)
	assert.NotContains(t, got, "\n\n\n")
}

func TestCleanText_IndentsBullets(t *testing.T) {
	assert.Equal(t, "  - one\n  - two\n-not a bullet", CleanText("- one\n- two\n-not a bullet"))
}
