// Package formatter turns the model's markdown reply into downloadable artifacts.
package formatter

import (
	"regexp"
	"strings"
)

var (
	headingMarks = regexp.MustCompile(`(?m)^[ \t]*(?:#[ \t]*)+`)
	blankRuns    = regexp.MustCompile(`\n{3,}`)
	bulletLines  = regexp.MustCompile(`(?m)^- `)
)

// CleanText 去掉行首的 # 标记，合并多余空行，并把 "- " 列表缩进两格。
// 对已经清理过的文本再次调用结果不变。
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = headingMarks.ReplaceAllString(text, "")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	text = bulletLines.ReplaceAllString(text, "  - ")
	return strings.Trim(text, "\n")
}
