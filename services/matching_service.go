package services

import (
	"context"
	"log"
	"math"
	"regexp"
	"strings"

	"applypilot/models"
)

// MatchBreakdown carries the individual components of a hybrid match score.
type MatchBreakdown struct {
	Overall    float64 `json:"overall"`
	Semantic   float64 `json:"semantic"`
	Keyword    float64 `json:"keyword"`
	Experience float64 `json:"experience"`
	Industry   float64 `json:"industry"`
}

// MatchingService scores how well a user profile fits a job listing.
// The semantic component needs embeddings; when the LLM is not
// configured the weight shifts onto the keyword score.
type MatchingService struct {
	llm       *LLMService
	userModel *models.UserModel
	jobModel  *models.JobListingModel
}

func NewMatchingService(llm *LLMService, userModel *models.UserModel, jobModel *models.JobListingModel) *MatchingService {
	return &MatchingService{
		llm:       llm,
		userModel: userModel,
		jobModel:  jobModel,
	}
}

// Score computes the hybrid score for a user against a job listing.
func (s *MatchingService) Score(ctx context.Context, user *models.User, job *models.JobListing) (*MatchBreakdown, error) {
	breakdown := &MatchBreakdown{}

	semantic, ok := s.semanticScore(ctx, user, job)
	keyword := keywordScore(user.Skills, job.Description, job.Requirements)
	experience := experienceScore(user.MasterResumeText, job.Description)
	industry := industryScore(user.MasterResumeText, job.Description)

	breakdown.Keyword = keyword
	breakdown.Experience = experience
	breakdown.Industry = industry

	if ok {
		breakdown.Semantic = semantic
		breakdown.Overall = 0.4*semantic + 0.3*keyword + 0.2*experience + 0.1*industry
	} else {
		// No embeddings available, fold the semantic weight into keywords.
		breakdown.Overall = 0.7*keyword + 0.2*experience + 0.1*industry
	}

	breakdown.Overall = clamp01(breakdown.Overall)
	return breakdown, nil
}

func (s *MatchingService) semanticScore(ctx context.Context, user *models.User, job *models.JobListing) (float64, bool) {
	if s.llm == nil || !s.llm.Available() {
		return 0, false
	}

	userVec, err := s.profileVector(ctx, user)
	if err != nil {
		log.Printf("Matching: profile embedding unavailable: %v", err)
		return 0, false
	}

	jobVec, err := s.descriptionVector(ctx, job)
	if err != nil {
		log.Printf("Matching: job embedding unavailable: %v", err)
		return 0, false
	}

	sim := CosineSimilarity(userVec, jobVec)
	// Cosine similarity of text embeddings lands in [-1, 1]; map to [0, 1].
	return clamp01((sim + 1) / 2), true
}

func (s *MatchingService) profileVector(ctx context.Context, user *models.User) ([]float64, error) {
	if len(user.ProfileVector) > 0 {
		return user.ProfileVector, nil
	}

	text := strings.Join(user.Skills, ", ")
	if user.MasterResumeText != "" {
		text += "\n" + user.MasterResumeText
	}
	vec, err := s.llm.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, err
	}

	if s.userModel != nil {
		if err := s.userModel.SaveProfileVector(user.ID, vec); err != nil {
			log.Printf("Matching: failed to cache profile vector for user %d: %v", user.ID, err)
		}
	}
	user.ProfileVector = vec
	return vec, nil
}

func (s *MatchingService) descriptionVector(ctx context.Context, job *models.JobListing) ([]float64, error) {
	if len(job.DescriptionVector) > 0 {
		return job.DescriptionVector, nil
	}

	vec, err := s.llm.GenerateEmbedding(ctx, job.Title+"\n"+job.Description)
	if err != nil {
		return nil, err
	}

	if s.jobModel != nil {
		if err := s.jobModel.SaveDescriptionVector(job.ID, vec); err != nil {
			log.Printf("Matching: failed to cache description vector for job %d: %v", job.ID, err)
		}
	}
	job.DescriptionVector = vec
	return vec, nil
}

// CosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either vector is empty or the dimensions differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// keywordScore is the fraction of the user's skills that appear in the
// job description or requirements.
func keywordScore(skills []string, description string, requirements []string) float64 {
	if len(skills) == 0 {
		return 0
	}

	haystack := strings.ToLower(description + " " + strings.Join(requirements, " "))
	matched := 0
	for _, skill := range skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" {
			continue
		}
		if strings.Contains(haystack, skill) {
			matched++
		}
	}
	return float64(matched) / float64(len(skills))
}

var yearsPattern = regexp.MustCompile(`(\d{1,2})\+?\s*(?:years?|yrs?)`)

// experienceScore compares years of experience mentioned in the resume
// against the years the job asks for.
func experienceScore(resumeText, description string) float64 {
	required := maxYears(description)
	if required == 0 {
		return 0.5
	}

	have := maxYears(resumeText)
	if have >= required {
		return 1
	}
	return float64(have) / float64(required)
}

func maxYears(text string) int {
	max := 0
	for _, m := range yearsPattern.FindAllStringSubmatch(strings.ToLower(text), -1) {
		years := 0
		for _, ch := range m[1] {
			years = years*10 + int(ch-'0')
		}
		if years > max && years < 50 {
			max = years
		}
	}
	return max
}

var industryTerms = []string{
	"fintech", "healthcare", "e-commerce", "ecommerce", "saas", "gaming",
	"education", "logistics", "insurance", "banking", "retail", "biotech",
	"cybersecurity", "advertising", "automotive", "aerospace",
}

// industryScore checks for shared industry vocabulary between the resume
// and the job description.
func industryScore(resumeText, description string) float64 {
	resume := strings.ToLower(resumeText)
	desc := strings.ToLower(description)

	mentioned := 0
	shared := 0
	for _, term := range industryTerms {
		if strings.Contains(desc, term) {
			mentioned++
			if strings.Contains(resume, term) {
				shared++
			}
		}
	}
	if mentioned == 0 {
		return 0.5
	}
	return float64(shared) / float64(mentioned)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
