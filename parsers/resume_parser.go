package parsers

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// ParsedResume is the structured information lifted out of a resume.
type ParsedResume struct {
	Text   string   `json:"text"`
	Name   string   `json:"name,omitempty"`
	Email  string   `json:"email,omitempty"`
	Phone  string   `json:"phone,omitempty"`
	Skills []string `json:"skills"`
}

// ResumeParser extracts contact details and skills from resume text.
type ResumeParser struct {
	extractor  *TextExtractor
	emailRegex *regexp.Regexp
	phoneRegex *regexp.Regexp
	nameRegex  *regexp.Regexp
	skillRegex []*regexp.Regexp
}

func NewResumeParser() *ResumeParser {
	skillPatterns := []string{
		// Programming languages
		`\b(python|javascript|typescript|java|c\+\+|c#|ruby|go|golang|rust|kotlin|swift|php|scala|perl)\b`,
		// Web technologies
		`\b(react|angular|vue|node\.js|nodejs|express|django|flask|spring|laravel|rails)\b`,
		// Databases
		`\b(sql|mysql|postgresql|mongodb|redis|elasticsearch|cassandra|oracle|sqlite)\b`,
		// Cloud and DevOps
		`\b(aws|azure|gcp|docker|kubernetes|jenkins|terraform|ansible|devops)\b`,
		// Data science
		`\b(machine learning|deep learning|tensorflow|pytorch|pandas|numpy|scikit-learn|nlp|data science)\b`,
		// Tools
		`\b(git|github|jira|confluence|figma|photoshop|illustrator)\b`,
		// Soft skills
		`\b(leadership|communication|teamwork|problem solving|analytical|project management)\b`,
	}

	compiled := make([]*regexp.Regexp, 0, len(skillPatterns))
	for _, p := range skillPatterns {
		compiled = append(compiled, regexp.MustCompile(`(?i)`+p))
	}

	return &ResumeParser{
		extractor:  NewTextExtractor(),
		emailRegex: regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
		phoneRegex: regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`),
		nameRegex:  regexp.MustCompile(`^[A-Za-z\s]{2,50}$`),
		skillRegex: compiled,
	}
}

// ParseFile extracts text from a resume file on disk and parses it.
func (p *ResumeParser) ParseFile(filePath string) (*ParsedResume, error) {
	text, err := p.extractor.ExtractFromFile(filePath)
	if err != nil {
		return nil, err
	}
	return p.Parse(text)
}

// Parse extracts structured data from raw resume text.
func (p *ResumeParser) Parse(rawText string) (*ParsedResume, error) {
	text := CleanText(rawText)
	if text == "" {
		return nil, fmt.Errorf("empty resume text")
	}

	return &ParsedResume{
		Text:   text,
		Name:   p.extractName(text),
		Email:  p.emailRegex.FindString(text),
		Phone:  p.phoneRegex.FindString(text),
		Skills: p.extractSkills(text),
	}, nil
}

var (
	multiNewline = regexp.MustCompile(`\n{3,}`)
	multiSpace   = regexp.MustCompile(`  +`)
	tabs         = regexp.MustCompile(`\t+`)
)

// CleanText normalizes line endings and collapses runaway whitespace.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = multiNewline.ReplaceAllString(text, "\n\n")
	text = tabs.ReplaceAllString(text, " ")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

func (p *ResumeParser) extractSkills(text string) []string {
	found := map[string]bool{}
	for _, pattern := range p.skillRegex {
		for _, m := range pattern.FindAllString(text, -1) {
			found[strings.ToLower(m)] = true
		}
	}

	skills := make([]string, 0, len(found))
	for skill := range found {
		skills = append(skills, skill)
	}
	sort.Strings(skills)
	return skills
}

// extractName treats the first non-empty line as the candidate name when
// it looks like one (2-4 plain words).
func (p *ResumeParser) extractName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if p.nameRegex.MatchString(line) && len(strings.Fields(line)) <= 4 {
			return line
		}
		return ""
	}
	return ""
}
