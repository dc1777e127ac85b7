package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"applypilot/models"
	"applypilot/utils"
)

// ApplicationService drives an application from drafting through
// submission: tailor the resume, write the docx artifact, then hand the
// job page to the automation engine and record the outcome.
type ApplicationService struct {
	automation *AutomationService
	llm        *LLMService
	userModel  *models.UserModel
	jobModel   *models.JobListingModel
	appModel   *models.ApplicationModel
	auditModel *models.AuditLogModel
	resumeDir  string
	maxRetries int
}

func NewApplicationService(
	automation *AutomationService,
	llm *LLMService,
	userModel *models.UserModel,
	jobModel *models.JobListingModel,
	appModel *models.ApplicationModel,
	auditModel *models.AuditLogModel,
	resumeDir string,
	maxRetries int,
) *ApplicationService {
	if resumeDir == "" {
		resumeDir = "./resumes"
	}
	if err := os.MkdirAll(resumeDir, 0755); err != nil {
		log.Printf("Warning: could not create resume directory %s: %v", resumeDir, err)
	}
	if maxRetries < 1 {
		maxRetries = 3
	}
	return &ApplicationService{
		automation: automation,
		llm:        llm,
		userModel:  userModel,
		jobModel:   jobModel,
		appModel:   appModel,
		auditModel: auditModel,
		resumeDir:  resumeDir,
		maxRetries: maxRetries,
	}
}

// Process runs the full pipeline for an application. It is safe to call
// from a goroutine; all failures are recorded on the application row.
func (s *ApplicationService) Process(ctx context.Context, applicationID int) {
	app, err := s.appModel.GetByID(applicationID)
	if err != nil {
		log.Printf("Application %d: failed to load: %v", applicationID, err)
		return
	}

	user, err := s.userModel.GetByID(app.UserID)
	if err != nil {
		s.fail(app.ID, fmt.Sprintf("failed to load user: %v", err), "")
		return
	}

	job, err := s.jobModel.GetByID(app.JobID)
	if err != nil {
		s.fail(app.ID, fmt.Sprintf("failed to load job listing: %v", err), "")
		return
	}

	s.audit(app.ID, "processing_started", job.URL)

	resumeText, resumePath := s.tailorResume(ctx, app, user, job)

	result, err := s.submit(ctx, app, user, job, resumeText, resumePath)
	if err != nil {
		s.fail(app.ID, err.Error(), "")
		return
	}

	if result.Success {
		if err := s.appModel.MarkSubmitted(app.ID, result.ScreenshotURL); err != nil {
			log.Printf("Application %d: failed to mark submitted: %v", app.ID, err)
		}
		s.audit(app.ID, "submitted", result.Message)
		log.Printf("Application %d submitted: %s", app.ID, result.Message)
		return
	}

	s.fail(app.ID, result.Message, result.ScreenshotURL)
}

// Retry re-runs a failed application up to the retry cap.
func (s *ApplicationService) Retry(ctx context.Context, applicationID int) error {
	app, err := s.appModel.GetByID(applicationID)
	if err != nil {
		return fmt.Errorf("application not found: %v", err)
	}
	if app.Status != models.StatusFailed {
		return fmt.Errorf("only failed applications can be retried, status is %q", app.Status)
	}

	count, err := s.appModel.IncrementRetryCount(app.ID)
	if err != nil {
		return fmt.Errorf("failed to update retry count: %v", err)
	}
	if count > s.maxRetries {
		return fmt.Errorf("retry limit of %d reached", s.maxRetries)
	}

	if err := s.appModel.UpdateStatus(app.ID, models.StatusDrafting); err != nil {
		return fmt.Errorf("failed to reset status: %v", err)
	}
	s.audit(app.ID, "retry_requested", fmt.Sprintf("attempt %d", count))

	go s.Process(context.WithoutCancel(ctx), applicationID)
	return nil
}

// tailorResume prepares the resume text and docx path for the run. Any
// failure here degrades to the master resume; a missing resume is not
// fatal because many forms have no upload field.
func (s *ApplicationService) tailorResume(ctx context.Context, app *models.Application, user *models.User, job *models.JobListing) (string, string) {
	resumeText := user.MasterResumeText
	if resumeText == "" {
		return "", user.ResumeFilePath
	}

	requirements := job.Requirements
	if len(requirements) == 0 && s.llm != nil && s.llm.Available() {
		requirements = s.llm.ExtractRequirements(ctx, job.Description)
	}

	if s.llm != nil && s.llm.Available() {
		resumeText = s.llm.TailorResume(ctx, user.MasterResumeText, job.Description, requirements)
	}

	resumePath := filepath.Join(s.resumeDir, fmt.Sprintf("resume_%s_%d.docx", app.ApplicationCode, time.Now().Unix()))
	if err := utils.GenerateResumeDocx(resumeText, resumePath); err != nil {
		log.Printf("Application %d: failed to render resume docx: %v", app.ID, err)
		resumePath = user.ResumeFilePath
	}

	if err := s.appModel.SaveTailoredResume(app.ID, resumeText, resumePath); err != nil {
		log.Printf("Application %d: failed to save tailored resume: %v", app.ID, err)
	}
	s.audit(app.ID, "resume_tailored", resumePath)
	return resumeText, resumePath
}

func (s *ApplicationService) submit(ctx context.Context, app *models.Application, user *models.User, job *models.JobListing, resumeText, resumePath string) (*AutomationResult, error) {
	if err := s.appModel.UpdateStatus(app.ID, models.StatusNeedsApproval); err != nil {
		log.Printf("Application %d: failed to update status: %v", app.ID, err)
	}
	s.audit(app.ID, "automation_started", job.URL)

	actx := &AutomationContext{
		Profile:    buildProfile(user),
		ResumeText: resumeText,
		ResumePath: resumePath,
		JobContext: jobContext(job),
	}

	result, err := s.automation.Run(ctx, job.URL, actx)
	if err != nil {
		return nil, fmt.Errorf("automation failed to start: %v", err)
	}
	return result, nil
}

func (s *ApplicationService) fail(applicationID int, reason, screenshotURL string) {
	if err := s.appModel.MarkFailed(applicationID, reason, screenshotURL); err != nil {
		log.Printf("Application %d: failed to record failure: %v", applicationID, err)
	}
	s.audit(applicationID, "failed", reason)
	log.Printf("Application %d failed: %s", applicationID, reason)
}

func (s *ApplicationService) audit(applicationID int, event, detail string) {
	if s.auditModel == nil {
		return
	}
	if err := s.auditModel.Log(applicationID, event, detail); err != nil {
		log.Printf("Application %d: audit log write failed: %v", applicationID, err)
	}
}

func buildProfile(user *models.User) *UserProfileData {
	return &UserProfileData{
		FullName: user.FullName,
		Email:    user.Email,
		Phone:    user.Phone,
		Location: user.Location,
		Skills:   user.Skills,
		LinkedIn: user.LinkedIn,
	}
}

func jobContext(job *models.JobListing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s at %s", job.Title, job.Company)
	if job.Location != "" {
		fmt.Fprintf(&b, " (%s)", job.Location)
	}
	if job.Description != "" {
		b.WriteString("\n")
		b.WriteString(job.Description)
	}
	return b.String()
}
