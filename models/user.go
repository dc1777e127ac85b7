package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

type User struct {
	ID               int       `json:"id"`
	Email            string    `json:"email"`
	FullName         string    `json:"full_name"`
	PasswordHash     string    `json:"-"`
	Phone            string    `json:"phone,omitempty"`
	Location         string    `json:"location,omitempty"`
	LinkedIn         string    `json:"linkedin,omitempty"`
	Skills           []string  `json:"skills,omitempty"`
	MasterResumeText string    `json:"master_resume_text,omitempty"`
	ResumeFilePath   string    `json:"resume_file_path,omitempty"`
	ProfileVector    []float64 `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type UserModel struct {
	DB *sql.DB
}

func NewUserModel(db *sql.DB) *UserModel {
	return &UserModel{DB: db}
}

func (m *UserModel) Create(email, fullName, passwordHash string) (*User, error) {
	user := &User{}
	query := `
		INSERT INTO users (email, full_name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, email, full_name, password_hash, created_at, updated_at
	`
	err := m.DB.QueryRow(query, email, fullName, passwordHash, time.Now()).Scan(
		&user.ID, &user.Email, &user.FullName, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (m *UserModel) GetByEmail(email string) (*User, error) {
	query := `
		SELECT id, email, full_name, password_hash, phone, location, linkedin,
		       skills, master_resume_text, resume_file_path, profile_vector, created_at, updated_at
		FROM users WHERE email = $1
	`
	return m.scanUser(m.DB.QueryRow(query, email))
}

func (m *UserModel) GetByID(id int) (*User, error) {
	query := `
		SELECT id, email, full_name, password_hash, phone, location, linkedin,
		       skills, master_resume_text, resume_file_path, profile_vector, created_at, updated_at
		FROM users WHERE id = $1
	`
	return m.scanUser(m.DB.QueryRow(query, id))
}

func (m *UserModel) scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	var phone, location, linkedin, resumeText, resumePath sql.NullString
	var skillsJSON, vectorJSON []byte

	err := row.Scan(
		&user.ID, &user.Email, &user.FullName, &user.PasswordHash,
		&phone, &location, &linkedin,
		&skillsJSON, &resumeText, &resumePath, &vectorJSON,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Phone = phone.String
	user.Location = location.String
	user.LinkedIn = linkedin.String
	user.MasterResumeText = resumeText.String
	user.ResumeFilePath = resumePath.String
	if len(skillsJSON) > 0 {
		json.Unmarshal(skillsJSON, &user.Skills)
	}
	if len(vectorJSON) > 0 {
		json.Unmarshal(vectorJSON, &user.ProfileVector)
	}
	return user, nil
}

func (m *UserModel) UpdateProfile(id int, fullName, phone, location, linkedin string, skills []string) error {
	skillsJSON, err := json.Marshal(skills)
	if err != nil {
		return err
	}
	query := `
		UPDATE users
		SET full_name = $1, phone = $2, location = $3, linkedin = $4, skills = $5, updated_at = $6
		WHERE id = $7
	`
	_, err = m.DB.Exec(query, fullName, phone, location, linkedin, skillsJSON, time.Now(), id)
	return err
}

func (m *UserModel) UpdateMasterResume(id int, resumeText, resumeFilePath string) error {
	// A new resume invalidates the stored profile embedding.
	query := `
		UPDATE users
		SET master_resume_text = $1, resume_file_path = $2, profile_vector = NULL, updated_at = $3
		WHERE id = $4
	`
	_, err := m.DB.Exec(query, resumeText, resumeFilePath, time.Now(), id)
	return err
}

func (m *UserModel) SaveProfileVector(id int, vector []float64) error {
	vectorJSON, err := json.Marshal(vector)
	if err != nil {
		return err
	}
	_, err = m.DB.Exec(`UPDATE users SET profile_vector = $1, updated_at = $2 WHERE id = $3`,
		vectorJSON, time.Now(), id)
	return err
}
