package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3" // SQLite driver
)

var (
	// ErrDuplicateEmail is returned when an insert or update would violate
	// the unique index on users.email.
	ErrDuplicateEmail = errors.New("email already in use")
	// ErrNotFound is returned by updates that matched no row.
	ErrNotFound = errors.New("not found")
)

// Fallback text for history entries when the prediction service omits the
// optional fields, matching what the frontend has always displayed.
const (
	fallbackDescription = "No description available"
	fallbackPrecaution  = "Consult a healthcare professional"
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
        id TEXT PRIMARY KEY, -- UUID
        name TEXT NOT NULL,
        email TEXT UNIQUE NOT NULL,
        password_hash TEXT NOT NULL,
        profile_picture TEXT,
        created_at DATETIME NOT NULL,
        updated_at DATETIME NOT NULL
    );

    CREATE TABLE IF NOT EXISTS disease_predictions (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        predictions TEXT NOT NULL, -- JSON array, at most the top 3 entries
        symptoms TEXT NOT NULL,    -- JSON array of submitted symptoms
        created_at DATETIME NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS user_history (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        prediction_id TEXT UNIQUE NOT NULL,
        disease_name TEXT NOT NULL,
        confidence REAL NOT NULL,
        description TEXT NOT NULL,
        precautions TEXT NOT NULL, -- JSON array
        visited_at DATETIME NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users (id),
        FOREIGN KEY (prediction_id) REFERENCES disease_predictions (id)
    );

    CREATE TABLE IF NOT EXISTS feedback (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT NOT NULL,
        comment TEXT NOT NULL,
        rating INTEGER NOT NULL,
        created_at DATETIME NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );

    CREATE TABLE IF NOT EXISTS enquiries (
        id TEXT PRIMARY KEY, -- UUID
        user_id TEXT,
        subject TEXT NOT NULL,
        message TEXT NOT NULL,
        created_at DATETIME NOT NULL,
        FOREIGN KEY (user_id) REFERENCES users (id)
    );
    `
	_, err := s.db.Exec(schema)
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// User methods

// CreateUser inserts a new user inside a transaction. The existence check and
// the insert run on the same connection so concurrent registrations with the
// same email cannot both pass the check; the unique index is the backstop.
func (s *SQLiteStore) CreateUser(ctx context.Context, name, email, passwordHash string) (*User, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ?", email).Scan(&exists)
	if err == nil {
		return nil, ErrDuplicateEmail
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	now := time.Now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO users (id, name, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to insert user: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit user insert: %w", err)
	}
	return user, nil
}

func (s *SQLiteStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, profile_picture, created_at, updated_at FROM users WHERE email = ?", email))
}

func (s *SQLiteStore) GetUserByID(ctx context.Context, id string) (*User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		"SELECT id, name, email, password_hash, profile_picture, created_at, updated_at FROM users WHERE id = ?", id))
}

func (s *SQLiteStore) scanUser(row *sql.Row) (*User, error) {
	var user User
	var picture sql.NullString
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash, &picture, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // User not found
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	if picture.Valid {
		user.ProfilePicture = &picture.String
	}
	return &user, nil
}

func (s *SQLiteStore) UpdateProfile(ctx context.Context, id, name, email string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET name = ?, email = ?, updated_at = ? WHERE id = ?",
		name, email, time.Now().UTC(), id)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to update profile: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?",
		passwordHash, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) UpdateProfilePicture(ctx context.Context, id, path string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE users SET profile_picture = ?, updated_at = ? WHERE id = ?",
		path, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update profile picture: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Diagnosis methods

// RecordDiagnosis persists one diagnose event atomically: the prediction row
// always, plus exactly one history row when at least one prediction came
// back. Either both inserts commit or neither does.
func (s *SQLiteStore) RecordDiagnosis(ctx context.Context, userID string, symptoms []string, predictions []DiseasePrediction) (*Prediction, *HistoryEntry, error) {
	predictionsJSON, err := json.Marshal(predictions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal predictions: %w", err)
	}
	symptomsJSON, err := json.Marshal(symptoms)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal symptoms: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	prediction := &Prediction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Predictions: predictions,
		Symptoms:    symptoms,
		CreatedAt:   now,
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO disease_predictions (id, user_id, predictions, symptoms, created_at) VALUES (?, ?, ?, ?, ?)",
		prediction.ID, prediction.UserID, string(predictionsJSON), string(symptomsJSON), prediction.CreatedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to insert prediction: %w", err)
	}

	var entry *HistoryEntry
	if len(predictions) > 0 {
		top := predictions[0]
		if top.Description == "" {
			top.Description = fallbackDescription
		}
		if len(top.Precautions) == 0 {
			top.Precautions = []string{fallbackPrecaution}
		}
		precautionsJSON, err := json.Marshal(top.Precautions)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to marshal precautions: %w", err)
		}

		entry = &HistoryEntry{
			ID:           uuid.NewString(),
			UserID:       userID,
			PredictionID: prediction.ID,
			DiseaseName:  top.DiseaseName,
			Confidence:   top.Confidence,
			Description:  top.Description,
			Precautions:  top.Precautions,
			VisitedAt:    now,
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO user_history (id, user_id, prediction_id, disease_name, confidence, description, precautions, visited_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			entry.ID, entry.UserID, entry.PredictionID, entry.DiseaseName, entry.Confidence, entry.Description, string(precautionsJSON), entry.VisitedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert history entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit diagnosis: %w", err)
	}
	return prediction, entry, nil
}

func (s *SQLiteStore) GetHistoryByUserID(ctx context.Context, userID string) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, prediction_id, disease_name, confidence, description, precautions, visited_at FROM user_history WHERE user_id = ? ORDER BY visited_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []HistoryEntry
	for rows.Next() {
		var entry HistoryEntry
		var precautionsJSON string
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.PredictionID, &entry.DiseaseName, &entry.Confidence, &entry.Description, &precautionsJSON, &entry.VisitedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		if err := json.Unmarshal([]byte(precautionsJSON), &entry.Precautions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal precautions: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *SQLiteStore) GetPredictionsByUserID(ctx context.Context, userID string) ([]Prediction, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, predictions, symptoms, created_at FROM disease_predictions WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []Prediction
	for rows.Next() {
		var p Prediction
		var predictionsJSON, symptomsJSON string
		if err := rows.Scan(&p.ID, &p.UserID, &predictionsJSON, &symptomsJSON, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan prediction row: %w", err)
		}
		if err := json.Unmarshal([]byte(predictionsJSON), &p.Predictions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal predictions: %w", err)
		}
		if err := json.Unmarshal([]byte(symptomsJSON), &p.Symptoms); err != nil {
			return nil, fmt.Errorf("failed to unmarshal symptoms: %w", err)
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}

// Feedback methods

func (s *SQLiteStore) CreateFeedback(ctx context.Context, userID, comment string, rating int) (*Feedback, error) {
	fb := &Feedback{
		ID:        uuid.NewString(),
		UserID:    userID,
		Comment:   comment,
		Rating:    rating,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO feedback (id, user_id, comment, rating, created_at) VALUES (?, ?, ?, ?, ?)",
		fb.ID, fb.UserID, fb.Comment, fb.Rating, fb.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert feedback: %w", err)
	}
	return fb, nil
}

func (s *SQLiteStore) ListFeedback(ctx context.Context) ([]Feedback, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT fb.id, fb.user_id, u.name, fb.comment, fb.rating, fb.created_at
        FROM feedback fb
        JOIN users u ON fb.user_id = u.id
        ORDER BY fb.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer rows.Close()

	var feedbacks []Feedback
	for rows.Next() {
		var fb Feedback
		if err := rows.Scan(&fb.ID, &fb.UserID, &fb.UserName, &fb.Comment, &fb.Rating, &fb.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan feedback row: %w", err)
		}
		feedbacks = append(feedbacks, fb)
	}
	return feedbacks, rows.Err()
}

// Enquiry methods

func (s *SQLiteStore) CreateEnquiry(ctx context.Context, userID *string, subject, message string) (*Enquiry, error) {
	enq := &Enquiry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Subject:   subject,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO enquiries (id, user_id, subject, message, created_at) VALUES (?, ?, ?, ?, ?)",
		enq.ID, enq.UserID, enq.Subject, enq.Message, enq.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert enquiry: %w", err)
	}
	return enq, nil
}
