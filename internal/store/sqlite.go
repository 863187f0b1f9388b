package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dataSourceName string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err = store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	schema := `
    CREATE TABLE IF NOT EXISTS users (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        external_user_id TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );

    CREATE TABLE IF NOT EXISTS audits (
        id TEXT PRIMARY KEY, -- UUID
        user_id INTEGER NOT NULL,
        input_data TEXT NOT NULL,  -- SurveyInput as JSON
        ai_response TEXT NOT NULL, -- validated AuditResult as JSON
        created_at DATETIME NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE INDEX IF NOT EXISTS idx_audits_user_created ON audits (user_id, created_at DESC);
    `
	_, err := s.db.Exec(schema)
	return err
}

// User methods
func (s *SQLiteStore) GetUserByExternalID(externalUserID string) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, external_user_id, password_hash, created_at FROM users WHERE external_user_id = ?", externalUserID).Scan(&user.ID, &user.ExternalUserID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &user, nil
}

func (s *SQLiteStore) CreateUser(externalUserID, passwordHash string) (*User, error) {
	res, err := s.db.Exec("INSERT INTO users (external_user_id, password_hash) VALUES (?, ?)", externalUserID, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.getUserByID(id)
}

func (s *SQLiteStore) getUserByID(id int64) (*User, error) {
	var user User
	err := s.db.QueryRow("SELECT id, external_user_id, password_hash, created_at FROM users WHERE id = ?", id).Scan(&user.ID, &user.ExternalUserID, &user.PasswordHash, &user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return &user, nil
}

// Audit methods

// InsertAudit persists one validated audit for the given user and returns the
// stored record, including the assigned id and timestamp.
func (s *SQLiteStore) InsertAudit(userID int64, inputData, aiResponse json.RawMessage) (*AuditRecord, error) {
	auditID := uuid.NewString()
	stmt, err := s.db.Prepare("INSERT INTO audits (id, user_id, input_data, ai_response, created_at) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return nil, fmt.Errorf("failed to prepare audit insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	_, err = stmt.Exec(auditID, userID, string(inputData), string(aiResponse), now)
	if err != nil {
		return nil, fmt.Errorf("failed to execute audit insert: %w", err)
	}
	return &AuditRecord{
		ID:         auditID,
		UserID:     userID,
		InputData:  inputData,
		AIResponse: aiResponse,
		CreatedAt:  now,
	}, nil
}

// ListAuditsByUserID returns the user's audits, most recent first. A limit of
// 0 returns all of them. A user with no audits gets an empty slice, not an
// error.
func (s *SQLiteStore) ListAuditsByUserID(userID int64, limit int) ([]AuditRecord, error) {
	query := "SELECT id, user_id, input_data, ai_response, created_at FROM audits WHERE user_id = ? ORDER BY created_at DESC"
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audits: %w", err)
	}
	defer rows.Close()

	audits := []AuditRecord{}
	for rows.Next() {
		var audit AuditRecord
		var inputData, aiResponse string
		if err := rows.Scan(&audit.ID, &audit.UserID, &inputData, &aiResponse, &audit.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit row: %w", err)
		}
		audit.InputData = json.RawMessage(inputData)
		audit.AIResponse = json.RawMessage(aiResponse)
		audits = append(audits, audit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit rows: %w", err)
	}
	return audits, nil
}
