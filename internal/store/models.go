package store

import "time"

type User struct {
	ID             string    `json:"userId"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	PasswordHash   string    `json:"-"` // Do not expose this in JSON responses
	ProfilePicture *string   `json:"profile_picture"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DiseasePrediction is one ranked entry as returned by the prediction
// service. Description and precautions are optional on the wire.
type DiseasePrediction struct {
	DiseaseName string   `json:"disease_name"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description,omitempty"`
	Precautions []string `json:"precautions,omitempty"`
}

// Prediction is one persisted diagnose event: the truncated ranked list plus
// the symptoms the user submitted.
type Prediction struct {
	ID          string              `json:"prediction_id"`
	UserID      string              `json:"user_id"`
	Predictions []DiseasePrediction `json:"predictions"`
	Symptoms    []string            `json:"symptoms"`
	CreatedAt   time.Time           `json:"created_at"`
}

// HistoryEntry denormalizes the top-ranked prediction of a diagnose event
// for fast recent-history queries.
type HistoryEntry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	PredictionID string    `json:"prediction_id"`
	DiseaseName  string    `json:"disease_name"`
	Confidence   float64   `json:"confidence"`
	Description  string    `json:"description"`
	Precautions  []string  `json:"precautions"`
	VisitedAt    time.Time `json:"visited_at"`
}

type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"name,omitempty"` // joined from users on listing
	Comment   string    `json:"comment"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

type Enquiry struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"` // nil for anonymous enquiries
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
