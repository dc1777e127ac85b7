package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"applypilot/models"
)

// JobScraperService loads a job posting page in a browser, strips the
// markup, and asks the LLM for a structured listing. Without an LLM it
// still produces a minimal listing from the page title and URL.
type JobScraperService struct {
	drivers  DriverFactory
	llm      *LLMService
	jobModel *models.JobListingModel
}

func NewJobScraperService(drivers DriverFactory, llm *LLMService, jobModel *models.JobListingModel) *JobScraperService {
	return &JobScraperService{
		drivers:  drivers,
		llm:      llm,
		jobModel: jobModel,
	}
}

var whitespacePattern = regexp.MustCompile(`\s+`)

// Scrape fetches a job URL and stores the extracted listing. An already
// scraped URL returns the stored listing unchanged.
func (s *JobScraperService) Scrape(ctx context.Context, jobURL string) (*models.JobListing, error) {
	if existing, err := s.jobModel.GetByURL(jobURL); err == nil {
		return existing, nil
	}

	driver, err := s.drivers.NewDriver()
	if err != nil {
		return nil, fmt.Errorf("failed to start browser: %v", err)
	}
	defer driver.Close()

	if err := driver.Navigate(ctx, jobURL, 45*time.Second); err != nil {
		return nil, fmt.Errorf("failed to load job page: %v", err)
	}
	driver.Wait(ctx, 2*time.Second)

	html, err := driver.Content(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read job page: %v", err)
	}

	scraped := s.extract(ctx, html, jobURL)

	listing := &models.JobListing{
		Title:          scraped.Title,
		Company:        scraped.Company,
		Location:       scraped.Location,
		Description:    scraped.Description,
		Requirements:   scraped.Requirements,
		URL:            jobURL,
		EmploymentType: scraped.EmploymentType,
		Salary:         scraped.Salary,
	}
	listing, err = s.jobModel.Create(listing)
	if err != nil {
		return nil, fmt.Errorf("failed to save job listing: %v", err)
	}

	log.Printf("Scraped job %q at %s (%d requirements)", listing.Title, jobURL, len(listing.Requirements))
	return listing, nil
}

func (s *JobScraperService) extract(ctx context.Context, html, jobURL string) *ScrapedJob {
	pageText, pageTitle := PageText(html)

	if s.llm != nil && s.llm.Available() {
		scraped, err := s.llm.ExtractJobDetails(ctx, pageText, jobURL)
		if err != nil {
			log.Printf("Job scraper: LLM extraction failed, using page fallback: %v", err)
		} else if scraped != nil {
			s.fillDefaults(scraped, pageTitle, jobURL)
			return scraped
		}
	}

	scraped := &ScrapedJob{Description: truncate(pageText, 5000)}
	s.fillDefaults(scraped, pageTitle, jobURL)
	return scraped
}

func (s *JobScraperService) fillDefaults(scraped *ScrapedJob, pageTitle, jobURL string) {
	if scraped.Title == "" {
		scraped.Title = pageTitle
	}
	if scraped.Title == "" {
		scraped.Title = "Untitled position"
	}
	if scraped.Company == "" {
		scraped.Company = CompanyFromURL(jobURL)
	}
}

// PageText parses a page and returns its visible body text plus the
// document title. Script, style and noscript subtrees are removed
// before the text is read.
func PageText(html string) (string, string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		log.Printf("Job scraper: could not parse page markup: %v", err)
		return "", ""
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, noscript").Remove()
	body := doc.Find("body")
	text := body.Text()
	if body.Length() == 0 {
		text = doc.Text()
	}
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(text, " ")), title
}

// CompanyFromURL guesses a company name from the job URL host, e.g.
// "jobs.acme-corp.com" becomes "Acme Corp".
func CompanyFromURL(jobURL string) string {
	parsed, err := url.Parse(jobURL)
	if err != nil || parsed.Host == "" {
		return ""
	}

	host := parsed.Hostname()
	parts := strings.Split(host, ".")
	// Drop common job-board subdomains and the TLD.
	for len(parts) > 2 {
		switch parts[0] {
		case "www", "jobs", "careers", "apply", "boards", "job-boards":
			parts = parts[1:]
		default:
			parts = parts[:len(parts)-1]
		}
	}
	if len(parts) > 1 {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return ""
	}

	name := strings.NewReplacer("-", " ", "_", " ").Replace(parts[0])
	return cases.Title(language.English).String(name)
}
