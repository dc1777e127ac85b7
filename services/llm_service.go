package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type geminiEmbedRequest struct {
	Content geminiContent `json:"content"`
}

type geminiEmbedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// ScrapedJob is the structured listing the LLM lifts out of a raw
// job page.
type ScrapedJob struct {
	Title          string   `json:"title"`
	Company        string   `json:"company"`
	Location       string   `json:"location"`
	Description    string   `json:"description"`
	Requirements   []string `json:"requirements"`
	EmploymentType string   `json:"employmentType"`
	Salary         string   `json:"salary"`
}

// LLMService talks to the Gemini REST API. Its output is treated as an
// untrusted external function: every response is cleaned, parsed, and
// defaulted before anything downstream relies on it. Transient rate
// limits are retried here with exponential backoff before a failure
// surfaces upward.
type LLMService struct {
	apiKey     string
	model      string
	embedModel string
	client     *http.Client
	maxRetries int
}

// NewLLMService reads its configuration from the environment. A
// missing API key is allowed; Available reports it and callers fall
// back to local heuristics.
func NewLLMService() *LLMService {
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &LLMService{
		apiKey:     os.Getenv("GEMINI_API_KEY"),
		model:      model,
		embedModel: "text-embedding-004",
		client:     &http.Client{Timeout: 60 * time.Second},
		maxRetries: 3,
	}
}

// Available reports whether the service has an API key configured.
func (s *LLMService) Available() bool {
	return s.apiKey != ""
}

// generate sends one prompt and returns the model's text, retrying
// with exponential backoff when the API reports rate limiting.
func (s *LLMService) generate(ctx context.Context, prompt string) (string, error) {
	if !s.Available() {
		return "", fmt.Errorf("no LLM provider configured")
	}

	var lastErr error
	delay := 2 * time.Second
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if attempt > 0 {
			log.Printf("Rate limit hit, retrying in %s (%d retries left)", delay, s.maxRetries-attempt+1)
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		text, err := s.generateOnce(ctx, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !isRateLimited(err) {
			return "", err
		}
	}
	return "", lastErr
}

func (s *LLMService) generateOnce(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{
			{Role: "user", Parts: []geminiPart{{Text: prompt}}},
		},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", geminiBaseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, payload)
	}

	var gemResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gemResp); err != nil {
		return "", err
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}
	return gemResp.Candidates[0].Content.Parts[0].Text, nil
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "status 429") ||
		strings.Contains(msg, "Quota exceeded") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// cleanJSONResponse strips markdown code fences the model likes to
// wrap JSON payloads in.
func cleanJSONResponse(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

// AnswerApplicationQuestions implements AnswerClient: one batched
// request mapping every question id to answer text. Malformed model
// output is an error; the dispatcher decides what that means.
func (s *LLMService) AnswerApplicationQuestions(ctx context.Context, questions []Question, profile *UserProfileData, resumeText, jobContext string) (map[string]string, error) {
	profileJSON, _ := json.Marshal(profile)
	questionsJSON, _ := json.MarshalIndent(questions, "", "  ")

	prompt := fmt.Sprintf(`You are a smart job application assistant.
Your task is to generate answers for the following job application form fields based on the user's profile and resume.

User Profile: %s
Resume Summary: %s
Job Description Context: %s

Form Fields to Fill:
%s

Instructions:
1. For each field, provide the exact text to fill.
2. If the field asks for a cover letter or why you should be hired, write a compelling, professional paragraph (3-5 sentences) connecting the user's skills to the job.
3. If asking for location, use the user's location.
4. If asking for availability, answer "Immediately" unless the profile says otherwise.
5. For numeric fields (experience, salary), provide just the number or range.
6. For fields listing [Options: ...], answer with one of the listed options verbatim.
7. Return ONLY a JSON object mapping id to answer.
Example format: {"field_id_1": "Answer text", "field_id_2": "12"}`,
		profileJSON,
		truncate(resumeText, 3000),
		truncate(jobContext, 1000),
		questionsJSON,
	)

	text, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(cleanJSONResponse(text)), &parsed); err != nil {
		return nil, fmt.Errorf("malformed answer payload: %w", err)
	}

	answers := make(map[string]string, len(parsed))
	for id, value := range parsed {
		switch v := value.(type) {
		case string:
			answers[id] = v
		case bool:
			answers[id] = fmt.Sprintf("%t", v)
		case float64:
			answers[id] = strings.TrimSuffix(fmt.Sprintf("%v", v), ".0")
		}
	}
	return answers, nil
}

// ExtractRequirements pulls the key skills out of a job description.
// Failures degrade to an empty list rather than blocking the caller.
func (s *LLMService) ExtractRequirements(ctx context.Context, jobDescription string) []string {
	prompt := fmt.Sprintf(`Extract the key skills, technologies, and requirements from this job description. Return only a JSON array of strings, no other text.

Job Description:
%s

Return format: ["skill1", "skill2", "skill3"]`, truncate(jobDescription, 8000))

	text, err := s.generate(ctx, prompt)
	if err != nil {
		log.Printf("Error extracting requirements: %v", err)
		return nil
	}

	var requirements []string
	if err := json.Unmarshal([]byte(cleanJSONResponse(text)), &requirements); err != nil {
		log.Printf("Error parsing requirements payload: %v", err)
		return nil
	}
	return requirements
}

// TailorResume rewrites the master resume against a job description.
// On failure the master resume is returned unchanged.
func (s *LLMService) TailorResume(ctx context.Context, masterResume, jobDescription string, requirements []string) string {
	prompt := fmt.Sprintf(`You are an expert resume writer specializing in ATS (Applicant Tracking System) optimization.

Given the user's master resume and a job description, create a tailored resume that:
1. Highlights relevant skills and experiences from the master resume
2. Uses keywords from the job requirements
3. Maintains truthfulness (only include what's in the master resume)
4. Is formatted for ATS systems (plain text, clear sections)

Master Resume:
%s

Job Description:
%s

Key Requirements:
%s

Return the tailored resume as plain text, optimized for this specific job.`,
		truncate(masterResume, 12000),
		truncate(jobDescription, 6000),
		strings.Join(requirements, ", "),
	)

	text, err := s.generate(ctx, prompt)
	if err != nil {
		log.Printf("Error tailoring resume, falling back to master copy: %v", err)
		return masterResume
	}
	return strings.TrimSpace(text)
}

// GenerateEmbedding returns an embedding vector for the given text.
func (s *LLMService) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if !s.Available() {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	body, err := json.Marshal(geminiEmbedRequest{
		Content: geminiContent{Parts: []geminiPart{{Text: truncate(text, 8000)}}},
	})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s:embedContent?key=%s", geminiBaseURL, s.embedModel, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Gemini API error (status %d): %s", resp.StatusCode, payload)
	}

	var embedResp geminiEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, err
	}
	if len(embedResp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding returned")
	}
	return embedResp.Embedding.Values, nil
}

// ExtractJobDetails lifts structured job details out of raw page text.
// Returns nil when the text does not contain a recognizable posting.
func (s *LLMService) ExtractJobDetails(ctx context.Context, pageText, url string) (*ScrapedJob, error) {
	prompt := fmt.Sprintf(`You are a job extraction agent. Extract structured job details from the following raw web page text.

Url: %s

Raw Text:
%s

Return a strict JSON object with these fields:
- title (string): Job title
- company (string): Company name
- location (string): Location
- description (string): Full job description text
- requirements (array of strings): Key skills/requirements
- employmentType (string): "full-time", "part-time", "contract", "internship", etc.
- salary (string or empty): Salary range if found

If you cannot find a valid job posting in the text, return null.
Only return valid JSON, no markdown formatting.`, url, truncate(pageText, 15000))

	text, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	cleaned := cleanJSONResponse(text)
	if strings.EqualFold(cleaned, "null") {
		return nil, nil
	}

	var job ScrapedJob
	if err := json.Unmarshal([]byte(cleaned), &job); err != nil {
		return nil, fmt.Errorf("malformed job payload: %w", err)
	}
	return &job, nil
}
