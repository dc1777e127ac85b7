package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

type JobListing struct {
	ID                int       `json:"id"`
	Title             string    `json:"title"`
	Company           string    `json:"company"`
	Location          string    `json:"location,omitempty"`
	Description       string    `json:"description"`
	Requirements      []string  `json:"requirements,omitempty"`
	URL               string    `json:"url"`
	EmploymentType    string    `json:"employment_type,omitempty"`
	Salary            string    `json:"salary,omitempty"`
	DescriptionVector []float64 `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type JobListingModel struct {
	DB *sql.DB
}

func NewJobListingModel(db *sql.DB) *JobListingModel {
	return &JobListingModel{DB: db}
}

func (m *JobListingModel) Create(job *JobListing) (*JobListing, error) {
	requirementsJSON, err := json.Marshal(job.Requirements)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO job_listings (title, company, location, description, requirements, url, employment_type, salary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
		RETURNING id, created_at, updated_at
	`
	err = m.DB.QueryRow(query,
		job.Title, job.Company, job.Location, job.Description, requirementsJSON,
		job.URL, job.EmploymentType, job.Salary, time.Now(),
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (m *JobListingModel) GetByID(id int) (*JobListing, error) {
	query := `
		SELECT id, title, company, location, description, requirements, url,
		       employment_type, salary, description_vector, created_at, updated_at
		FROM job_listings WHERE id = $1
	`
	row := m.DB.QueryRow(query, id)

	job := &JobListing{}
	var location, employmentType, salary sql.NullString
	var requirementsJSON, vectorJSON []byte
	err := row.Scan(
		&job.ID, &job.Title, &job.Company, &location, &job.Description,
		&requirementsJSON, &job.URL, &employmentType, &salary, &vectorJSON,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	job.Location = location.String
	job.EmploymentType = employmentType.String
	job.Salary = salary.String
	if len(requirementsJSON) > 0 {
		json.Unmarshal(requirementsJSON, &job.Requirements)
	}
	if len(vectorJSON) > 0 {
		json.Unmarshal(vectorJSON, &job.DescriptionVector)
	}
	return job, nil
}

func (m *JobListingModel) GetByURL(url string) (*JobListing, error) {
	var id int
	err := m.DB.QueryRow(`SELECT id FROM job_listings WHERE url = $1`, url).Scan(&id)
	if err != nil {
		return nil, err
	}
	return m.GetByID(id)
}

func (m *JobListingModel) List(limit, offset int) ([]JobListing, error) {
	query := `
		SELECT id, title, company, location, description, requirements, url,
		       employment_type, salary, created_at, updated_at
		FROM job_listings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := m.DB.Query(query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []JobListing{}
	for rows.Next() {
		var job JobListing
		var location, employmentType, salary sql.NullString
		var requirementsJSON []byte
		err := rows.Scan(
			&job.ID, &job.Title, &job.Company, &location, &job.Description,
			&requirementsJSON, &job.URL, &employmentType, &salary,
			&job.CreatedAt, &job.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		job.Location = location.String
		job.EmploymentType = employmentType.String
		job.Salary = salary.String
		if len(requirementsJSON) > 0 {
			json.Unmarshal(requirementsJSON, &job.Requirements)
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (m *JobListingModel) SaveDescriptionVector(id int, vector []float64) error {
	vectorJSON, err := json.Marshal(vector)
	if err != nil {
		return err
	}
	_, err = m.DB.Exec(`UPDATE job_listings SET description_vector = $1, updated_at = $2 WHERE id = $3`,
		vectorJSON, time.Now(), id)
	return err
}
