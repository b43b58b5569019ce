package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/justsurfingit/job-jotter/internal/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const (
	defaultExtractModel = "gemini-2.5-flash"
	maxPostingLength    = 20000
)

var ErrExtractionFailed = errors.New("could not extract application details")

const extractionPrompt = `
You are a job posting extraction agent. Analyze the raw HTML or text of a job
posting and pull out the details needed to track an application.

### INSTRUCTIONS:
1. Ignore navigation menus, footers, "similar jobs" lists and advertisements.
2. Extract only the fields below.
3. Reply with valid JSON only. Do not wrap it in markdown code blocks.

### OUTPUT SCHEMA:
{
    "company": "Name of the company (e.g., Google, StartupInc)",
    "jobTitle": "Job title (e.g., Senior Backend Engineer)",
    "location": "Job location or 'Remote'",
    "notes": "A short summary of responsibilities, requirements, tech stack and salary if stated"
}

### CONSTRAINT:
If a piece of information is missing, set the value to null. Do not guess.

### RAW CONTENT:
%s
`

// ExtractedApplication is a draft application pulled out of a job posting.
type ExtractedApplication struct {
	Company  string `json:"company"`
	JobTitle string `json:"jobTitle"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
	URL      string `json:"url,omitempty"`
}

// ExtractService uses an LLM to prefill applications from job postings.
type ExtractService struct {
	model llms.Model
}

// NewExtractService creates a Gemini backed extractor.
func NewExtractService(ctx context.Context, apiKey string) (*ExtractService, error) {
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(defaultExtractModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return NewExtractServiceWithModel(llm), nil
}

func NewExtractServiceWithModel(model llms.Model) *ExtractService {
	return &ExtractService{model: model}
}

// Extract asks the model for the application fields found in rawHTML.
func (s *ExtractService) Extract(ctx context.Context, rawHTML, url string) (*ExtractedApplication, error) {
	rawHTML = truncatePosting(rawHTML, maxPostingLength)

	resp, err := llms.GenerateFromSinglePrompt(ctx, s.model, fmt.Sprintf(extractionPrompt, rawHTML),
		llms.WithTemperature(0),
		llms.WithJSONMode(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtractionFailed, err)
	}

	var draft struct {
		Company  *string `json:"company"`
		JobTitle *string `json:"jobTitle"`
		Location *string `json:"location"`
		Notes    *string `json:"notes"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &draft); err != nil {
		return nil, fmt.Errorf("%w: model returned invalid json: %w", ErrExtractionFailed, err)
	}

	out := &ExtractedApplication{
		Company:  deref(draft.Company),
		JobTitle: deref(draft.JobTitle),
		Location: deref(draft.Location),
		Notes:    deref(draft.Notes),
		URL:      url,
	}
	if out.Company == "" && out.JobTitle == "" {
		return nil, fmt.Errorf("%w: no company or title in posting: %w", ErrExtractionFailed, models.ErrBadRequest)
	}
	return out, nil
}

// truncatePosting cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncatePosting(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// stripCodeFence removes a ```json fence the model sometimes adds anyway.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
