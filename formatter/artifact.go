package formatter

import (
	"fmt"
	"strings"
	"unicode"
)

// Format is the export type chosen by the user.
type Format string

const (
	FormatText Format = "txt"
	FormatPDF  Format = "pdf"
)

// ParseFormat 接受 txt/text/pdf，大小写不敏感。
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "txt", "text", "":
		return FormatText, nil
	case "pdf":
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/plain; charset=utf-8"
}

// Artifact 一次导出的结果文件。
type Artifact struct {
	Filename    string
	ContentType string
	Body        []byte
}

// Export formats the raw model text for download as <topic>_project_ideas.<ext>.
func Export(topic, text string, format Format) (Artifact, error) {
	var body []byte
	switch format {
	case FormatText:
		body = []byte(CleanText(text))
	case FormatPDF:
		b, err := RenderPDF(text, WithTitle("Project Ideas: "+topic))
		if err != nil {
			return Artifact{}, err
		}
		body = b
	default:
		return Artifact{}, fmt.Errorf("unsupported export format %q", format)
	}
	return Artifact{
		Filename:    Filename(topic, format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

// Filename 主题原样保留，仅替换路径分隔符和控制字符。
func Filename(topic string, format Format) string {
	topic = strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, strings.TrimSpace(topic))
	if topic == "" {
		topic = "project"
	}
	return topic + "_project_ideas." + string(format)
}
