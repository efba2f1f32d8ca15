package output

import (
	"regexp"
	"strings"

	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName = "Times New Roman"
	fontSize = 13
)

var (
	reBold      = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reParagraph = regexp.MustCompile(`\n\s*\n`)
)

// writeDocx renders doc as a styled Word document
func writeDocx(path string, doc Document) error {
	d, err := godocx.NewDocument()
	if err != nil {
		return err
	}

	addStyledRun(d.AddParagraph(""), "Summary: "+doc.Title, true, 16)

	for _, line := range metadata(doc) {
		p := d.AddParagraph("")
		p.AddText(line[0]+": ").Font(fontName).Size(fontSize - 2).Color("555555").Bold(true)
		p.AddText(line[1]).Font(fontName).Size(fontSize - 2).Color("555555")
	}
	d.AddParagraph("")

	for _, para := range reParagraph.Split(strings.TrimSpace(doc.Summary.Text), -1) {
		para = strings.Join(strings.Fields(para), " ")
		if para == "" {
			continue
		}
		addRichText(d.AddParagraph(""), para)
	}

	return d.SaveTo(path)
}

func addStyledRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(cleanMarkdownInline(text)).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// addRichText keeps **bold** spans that models sometimes emit
func addRichText(p *docx.Paragraph, text string) {
	parts := reBold.Split(text, -1)
	matches := reBold.FindAllStringSubmatch(text, -1)

	for i, part := range parts {
		if part != "" {
			p.AddText(cleanMarkdownInline(part)).Font(fontName).Size(fontSize).Color("000000")
		}
		if i < len(matches) {
			p.AddText(cleanMarkdownInline(matches[i][1])).Font(fontName).Size(fontSize).Color("000000").Bold(true)
		}
	}
}

func cleanMarkdownInline(s string) string {
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "`", "")
	return s
}
