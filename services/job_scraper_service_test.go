package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageText(t *testing.T) {
	html := `<html><head><title>Backend Engineer - Acme</title>
<script>var tracking = "noise";</script>
<style>.hidden { display: none; }</style></head>
<body><h1>Backend Engineer</h1>
<script>console.log("inline noise");</script>
<p>Build &amp; run services.</p></body></html>`

	text, title := PageText(html)

	assert.Equal(t, "Backend Engineer - Acme", title)
	assert.Contains(t, text, "Backend Engineer")
	assert.Contains(t, text, "Build & run services.")
	assert.NotContains(t, text, "tracking")
	assert.NotContains(t, text, "inline noise")
	assert.NotContains(t, text, "display: none")
	assert.NotContains(t, text, "<")
}

func TestPageText_PlainText(t *testing.T) {
	text, title := PageText("Plain text posting, no markup at all.")

	assert.Contains(t, text, "Plain text posting")
	assert.Empty(t, title)
}

func TestCompanyFromURL(t *testing.T) {
	cases := map[string]string{
		"https://jobs.acme-corp.com/backend-engineer": "Acme Corp",
		"https://careers.example.com/p/123":           "Example",
		"https://www.initech.io/jobs/42":              "Initech",
		"https://boards.greenhouse.io/wayne_tech":     "Greenhouse",
		"not a url":                                   "",
	}

	for url, want := range cases {
		assert.Equal(t, want, CompanyFromURL(url), "url=%s", url)
	}
}
