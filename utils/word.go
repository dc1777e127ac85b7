package utils

import (
	"strings"

	"baliance.com/gooxml/document"
	"baliance.com/gooxml/measurement"
	"baliance.com/gooxml/schema/soo/wml"
)

// GenerateResumeDocx writes resume text to a Word document. The first
// line becomes a bold heading, lines starting with "#" become section
// headings, and everything else renders as body paragraphs.
func GenerateResumeDocx(content, filepath string) error {
	doc := document.New()

	lines := strings.Split(content, "\n")
	first := true
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			doc.AddParagraph()
			continue
		}

		para := doc.AddParagraph()
		run := para.AddRun()

		switch {
		case first:
			run.Properties().SetBold(true)
			run.Properties().SetSize(16 * measurement.Point)
			para.Properties().SetAlignment(wml.ST_JcCenter)
			run.AddText(trimmed)
		case strings.HasPrefix(trimmed, "#"):
			run.Properties().SetBold(true)
			run.Properties().SetSize(12 * measurement.Point)
			run.AddText(strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
		case strings.HasPrefix(trimmed, "-") || strings.HasPrefix(trimmed, "*"):
			run.AddText("• " + strings.TrimSpace(trimmed[1:]))
		default:
			run.AddText(trimmed)
		}
		first = false
	}

	return doc.SaveToFile(filepath)
}
