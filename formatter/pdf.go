package formatter

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-pdf/fpdf"
)

const defaultHeader = "Project Navigator"

var (
	blockSep   = regexp.MustCompile(`\n[ \t]*\n`)
	headingRe  = regexp.MustCompile(`^[ \t]*#+[ \t]*`)
	listItemRe = regexp.MustCompile(`^[ \t]*(?:[-*•]|\d+[.)])[ \t]+`)
	emphasisRe = regexp.MustCompile(`\*\*|__`)
)

// pdfDocument 页面外观配置（页眉、标题、字号）。
type pdfDocument struct {
	header     string
	title      string
	fontSize   float64
	lineHeight float64
	indent     float64
}

// PDFOption customises RenderPDF.
type PDFOption func(*pdfDocument)

// WithTitle prints a title line on the first page.
func WithTitle(title string) PDFOption {
	return func(d *pdfDocument) { d.title = strings.TrimSpace(title) }
}

// withHeader replaces the page header text.
func withHeader(header string) PDFOption {
	return func(d *pdfDocument) { d.header = header }
}

// withFontSize sets the body font size in points.
func withFontSize(size float64) PDFOption {
	return func(d *pdfDocument) {
		if size > 0 {
			d.fontSize = size
			d.lineHeight = size * 0.55
		}
	}
}

// RenderPDF 把文本按空行切分成段落，逐段写入自动分页的 A4 文档。
// 每页带固定页眉和页码页脚；即使 text 为空也会输出一页合法的 PDF。
func RenderPDF(text string, opts ...PDFOption) ([]byte, error) {
	doc := pdfDocument{
		header:     defaultHeader,
		fontSize:   11,
		lineHeight: 6,
		indent:     6,
	}
	for _, o := range opts {
		o(&doc)
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.header, true)
	pdf.SetCreator(defaultHeader, true)
	pdf.SetAutoPageBreak(true, 20)

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 10, tr(doc.header), "B", 1, "C", false, 0, "")
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	if doc.title != "" {
		pdf.SetFont("Helvetica", "B", doc.fontSize+5)
		pdf.MultiCell(0, doc.lineHeight+2, tr(doc.title), "", "L", false)
		pdf.Ln(doc.lineHeight / 2)
	}

	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	width := pageW - left - right

	for _, block := range splitBlocks(text) {
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimRight(emphasisRe.ReplaceAllString(line, ""), " \t")
			switch {
			case headingRe.MatchString(line):
				pdf.SetFont("Helvetica", "B", doc.fontSize+2)
				pdf.MultiCell(0, doc.lineHeight+1, tr(headingRe.ReplaceAllString(line, "")), "", "L", false)
			case listItemRe.MatchString(line):
				pdf.SetFont("Helvetica", "", doc.fontSize)
				pdf.SetX(left + doc.indent)
				pdf.MultiCell(width-doc.indent, doc.lineHeight, tr(strings.TrimLeft(line, " \t")), "", "L", false)
			default:
				pdf.SetFont("Helvetica", "", doc.fontSize)
				pdf.MultiCell(0, doc.lineHeight, tr(strings.TrimLeft(line, " \t")), "", "L", false)
			}
		}
		pdf.Ln(doc.lineHeight / 2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// splitBlocks 以空行为界切分段落，丢弃空段。
func splitBlocks(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var blocks []string
	for _, b := range blockSep.Split(text, -1) {
		b = strings.Trim(b, "\n")
		if strings.TrimSpace(b) == "" {
			continue
		}
		blocks = append(blocks, b)
	}
	return blocks
}
