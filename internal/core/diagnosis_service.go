package core

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/ShuvashreeBharati/FYP-22067184/internal/store"
)

// Predictor is the outbound side of the diagnose flow; *PredictionClient
// implements it, tests substitute a stub.
type Predictor interface {
	Predict(ctx context.Context, symptoms []string, userID string) ([]store.DiseasePrediction, error)
}

type DiagnosisService struct {
	dbStore   *store.SQLiteStore
	predictor Predictor
}

func NewDiagnosisService(db *store.SQLiteStore, predictor Predictor) *DiagnosisService {
	return &DiagnosisService{dbStore: db, predictor: predictor}
}

// Diagnose forwards the symptoms to the prediction service, keeps the top
// three entries and persists the event atomically. When the upstream call
// fails nothing is written.
func (s *DiagnosisService) Diagnose(ctx context.Context, userID string, symptoms []string) ([]store.DiseasePrediction, error) {
	cleaned := make([]string, 0, len(symptoms))
	for _, sym := range symptoms {
		if sym = strings.TrimSpace(sym); sym != "" {
			cleaned = append(cleaned, sym)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: at least one symptom is required", ErrValidation)
	}

	predictions, err := s.predictor.Predict(ctx, cleaned, userID)
	if err != nil {
		return nil, err
	}

	// The service returns a pre-ranked list; keep only the top three.
	if len(predictions) > topPredictions {
		predictions = predictions[:topPredictions]
	}

	prediction, _, err := s.dbStore.RecordDiagnosis(ctx, userID, cleaned, predictions)
	if err != nil {
		return nil, fmt.Errorf("failed to record diagnosis: %w", err)
	}
	log.Printf("Recorded diagnosis %s for user %s (%d predictions)", prediction.ID, userID, len(predictions))

	return predictions, nil
}

// History lists the user's diagnose events newest-first, one denormalized
// entry per event.
func (s *DiagnosisService) History(ctx context.Context, userID string) ([]store.HistoryEntry, error) {
	return s.dbStore.GetHistoryByUserID(ctx, userID)
}
