package models

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"strings"
	"time"
)

// Application lifecycle states.
const (
	StatusDrafting      = "drafting"
	StatusNeedsApproval = "needs_approval"
	StatusSubmitted     = "submitted"
	StatusFailed        = "failed"
)

type Application struct {
	ID                 int       `json:"id"`
	ApplicationCode    string    `json:"application_code"`
	UserID             int       `json:"user_id"`
	JobID              int       `json:"job_id"`
	Status             string    `json:"status"`
	TailoredResume     string    `json:"tailored_resume,omitempty"`
	TailoredResumePath string    `json:"tailored_resume_path,omitempty"`
	ScreenshotURL      string    `json:"screenshot_url,omitempty"`
	FailureReason      string    `json:"failure_reason,omitempty"`
	RetryCount         int       `json:"retry_count"`
	SubmittedAt        time.Time `json:"submitted_at,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

type ApplicationModel struct {
	DB *sql.DB
}

func NewApplicationModel(db *sql.DB) *ApplicationModel {
	return &ApplicationModel{DB: db}
}

// generateApplicationCode returns an 8-character alphanumeric code.
func generateApplicationCode() string {
	bytes := make([]byte, 4)
	rand.Read(bytes)
	return strings.ToUpper(hex.EncodeToString(bytes))
}

func (m *ApplicationModel) Create(userID, jobID int) (*Application, error) {
	code := generateApplicationCode()
	for {
		var exists bool
		err := m.DB.QueryRow(`SELECT EXISTS(SELECT 1 FROM applications WHERE application_code = $1)`, code).Scan(&exists)
		if err != nil || !exists {
			break
		}
		code = generateApplicationCode()
	}

	app := &Application{}
	query := `
		INSERT INTO applications (application_code, user_id, job_id, status, retry_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 0, $5, $5)
		RETURNING id, application_code, user_id, job_id, status, retry_count, created_at, updated_at
	`
	err := m.DB.QueryRow(query, code, userID, jobID, StatusDrafting, time.Now()).Scan(
		&app.ID, &app.ApplicationCode, &app.UserID, &app.JobID, &app.Status,
		&app.RetryCount, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (m *ApplicationModel) GetByID(id int) (*Application, error) {
	query := `
		SELECT id, application_code, user_id, job_id, status, tailored_resume,
		       tailored_resume_path, screenshot_url, failure_reason, retry_count,
		       submitted_at, created_at, updated_at
		FROM applications WHERE id = $1
	`
	return m.scanApplication(m.DB.QueryRow(query, id))
}

func (m *ApplicationModel) GetByUserAndJob(userID, jobID int) (*Application, error) {
	query := `
		SELECT id, application_code, user_id, job_id, status, tailored_resume,
		       tailored_resume_path, screenshot_url, failure_reason, retry_count,
		       submitted_at, created_at, updated_at
		FROM applications WHERE user_id = $1 AND job_id = $2
	`
	return m.scanApplication(m.DB.QueryRow(query, userID, jobID))
}

func (m *ApplicationModel) scanApplication(row *sql.Row) (*Application, error) {
	app := &Application{}
	var tailoredResume, tailoredPath, screenshotURL, failureReason sql.NullString
	var submittedAt sql.NullTime

	err := row.Scan(
		&app.ID, &app.ApplicationCode, &app.UserID, &app.JobID, &app.Status,
		&tailoredResume, &tailoredPath, &screenshotURL, &failureReason,
		&app.RetryCount, &submittedAt, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	app.TailoredResume = tailoredResume.String
	app.TailoredResumePath = tailoredPath.String
	app.ScreenshotURL = screenshotURL.String
	app.FailureReason = failureReason.String
	if submittedAt.Valid {
		app.SubmittedAt = submittedAt.Time
	}
	return app, nil
}

func (m *ApplicationModel) GetByUserID(userID, limit, offset int) ([]Application, error) {
	query := `
		SELECT id, application_code, user_id, job_id, status, tailored_resume,
		       tailored_resume_path, screenshot_url, failure_reason, retry_count,
		       submitted_at, created_at, updated_at
		FROM applications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := m.DB.Query(query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	apps := []Application{}
	for rows.Next() {
		var app Application
		var tailoredResume, tailoredPath, screenshotURL, failureReason sql.NullString
		var submittedAt sql.NullTime
		err := rows.Scan(
			&app.ID, &app.ApplicationCode, &app.UserID, &app.JobID, &app.Status,
			&tailoredResume, &tailoredPath, &screenshotURL, &failureReason,
			&app.RetryCount, &submittedAt, &app.CreatedAt, &app.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		app.TailoredResume = tailoredResume.String
		app.TailoredResumePath = tailoredPath.String
		app.ScreenshotURL = screenshotURL.String
		app.FailureReason = failureReason.String
		if submittedAt.Valid {
			app.SubmittedAt = submittedAt.Time
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (m *ApplicationModel) UpdateStatus(id int, status string) error {
	_, err := m.DB.Exec(`UPDATE applications SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	return err
}

func (m *ApplicationModel) SaveTailoredResume(id int, resumeText, resumePath string) error {
	_, err := m.DB.Exec(`
		UPDATE applications SET tailored_resume = $1, tailored_resume_path = $2, updated_at = $3
		WHERE id = $4`,
		resumeText, resumePath, time.Now(), id)
	return err
}

func (m *ApplicationModel) MarkSubmitted(id int, screenshotURL string) error {
	now := time.Now()
	_, err := m.DB.Exec(`
		UPDATE applications
		SET status = $1, screenshot_url = $2, failure_reason = NULL, submitted_at = $3, updated_at = $3
		WHERE id = $4`,
		StatusSubmitted, screenshotURL, now, id)
	return err
}

func (m *ApplicationModel) MarkFailed(id int, reason, screenshotURL string) error {
	_, err := m.DB.Exec(`
		UPDATE applications
		SET status = $1, failure_reason = $2, screenshot_url = $3, updated_at = $4
		WHERE id = $5`,
		StatusFailed, reason, screenshotURL, time.Now(), id)
	return err
}

func (m *ApplicationModel) IncrementRetryCount(id int) (int, error) {
	var count int
	err := m.DB.QueryRow(`
		UPDATE applications SET retry_count = retry_count + 1, updated_at = $1
		WHERE id = $2
		RETURNING retry_count`,
		time.Now(), id).Scan(&count)
	return count, err
}
