package models

import (
	"database/sql"
	"time"
)

type AuditLog struct {
	ID            int       `json:"id"`
	ApplicationID int       `json:"application_id"`
	Event         string    `json:"event"`
	Detail        string    `json:"detail,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type AuditLogModel struct {
	DB *sql.DB
}

func NewAuditLogModel(db *sql.DB) *AuditLogModel {
	return &AuditLogModel{DB: db}
}

func (m *AuditLogModel) Log(applicationID int, event, detail string) error {
	_, err := m.DB.Exec(`
		INSERT INTO audit_logs (application_id, event, detail, created_at)
		VALUES ($1, $2, $3, $4)`,
		applicationID, event, detail, time.Now())
	return err
}

func (m *AuditLogModel) ListByApplication(applicationID int) ([]AuditLog, error) {
	rows, err := m.DB.Query(`
		SELECT id, application_id, event, detail, created_at
		FROM audit_logs
		WHERE application_id = $1
		ORDER BY created_at ASC`,
		applicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := []AuditLog{}
	for rows.Next() {
		var entry AuditLog
		var detail sql.NullString
		if err := rows.Scan(&entry.ID, &entry.ApplicationID, &entry.Event, &detail, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entry.Detail = detail.String
		logs = append(logs, entry)
	}
	return logs, rows.Err()
}
