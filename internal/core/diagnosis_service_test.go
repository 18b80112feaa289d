package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ShuvashreeBharati/FYP-22067184/internal/store"
)

type stubPredictor struct {
	predictions []store.DiseasePrediction
	err         error
	gotSymptoms []string
}

func (p *stubPredictor) Predict(_ context.Context, symptoms []string, _ string) ([]store.DiseasePrediction, error) {
	p.gotSymptoms = symptoms
	return p.predictions, p.err
}

func newDiagnosisFixture(t *testing.T, predictor Predictor) (*DiagnosisService, *store.SQLiteStore, *store.User) {
	t.Helper()
	dbStore := newTestStore(t)
	user, err := dbStore.CreateUser(context.Background(), "Ann", "a@x.com", "hashed")
	require.NoError(t, err)
	return NewDiagnosisService(dbStore, predictor), dbStore, user
}

func TestDiagnosePersistsPredictionAndHistory(t *testing.T) {
	predictor := &stubPredictor{predictions: []store.DiseasePrediction{
		{DiseaseName: "Flu", Confidence: 0.8},
	}}
	svc, dbStore, user := newDiagnosisFixture(t, predictor)
	ctx := context.Background()

	predictions, err := svc.Diagnose(ctx, user.ID, []string{"fever", "cough"})
	require.NoError(t, err)
	require.Len(t, predictions, 1)
	assert.Equal(t, "Flu", predictions[0].DiseaseName)
	assert.Equal(t, []string{"fever", "cough"}, predictor.gotSymptoms)

	stored, err := dbStore.GetPredictionsByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)

	history, err := dbStore.GetHistoryByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Flu", history[0].DiseaseName)
	assert.Equal(t, 0.8, history[0].Confidence)
	assert.Equal(t, stored[0].ID, history[0].PredictionID)
}

func TestDiagnoseTruncatesToTopThree(t *testing.T) {
	predictor := &stubPredictor{predictions: []store.DiseasePrediction{
		{DiseaseName: "A", Confidence: 0.9},
		{DiseaseName: "B", Confidence: 0.7},
		{DiseaseName: "C", Confidence: 0.5},
		{DiseaseName: "D", Confidence: 0.3},
		{DiseaseName: "E", Confidence: 0.1},
	}}
	svc, dbStore, user := newDiagnosisFixture(t, predictor)
	ctx := context.Background()

	predictions, err := svc.Diagnose(ctx, user.ID, []string{"fever"})
	require.NoError(t, err)
	require.Len(t, predictions, 3)
	assert.Equal(t, "A", predictions[0].DiseaseName)
	assert.Equal(t, "C", predictions[2].DiseaseName)

	stored, err := dbStore.GetPredictionsByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Len(t, stored[0].Predictions, 3)

	// The history entry mirrors the top-ranked prediction.
	history, err := dbStore.GetHistoryByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "A", history[0].DiseaseName)
}

func TestDiagnoseEmptySymptoms(t *testing.T) {
	svc, _, user := newDiagnosisFixture(t, &stubPredictor{})
	ctx := context.Background()

	_, err := svc.Diagnose(ctx, user.ID, nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Diagnose(ctx, user.ID, []string{"  ", ""})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDiagnoseUpstreamFailurePersistsNothing(t *testing.T) {
	predictor := &stubPredictor{err: ErrUpstream}
	svc, dbStore, user := newDiagnosisFixture(t, predictor)
	ctx := context.Background()

	_, err := svc.Diagnose(ctx, user.ID, []string{"fever"})
	require.ErrorIs(t, err, ErrUpstream)

	stored, err := dbStore.GetPredictionsByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, stored)

	history, err := dbStore.GetHistoryByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDiagnoseNoPredictionsWritesNoHistory(t *testing.T) {
	predictor := &stubPredictor{predictions: []store.DiseasePrediction{}}
	svc, dbStore, user := newDiagnosisFixture(t, predictor)
	ctx := context.Background()

	predictions, err := svc.Diagnose(ctx, user.ID, []string{"fever"})
	require.NoError(t, err)
	assert.Empty(t, predictions)

	stored, err := dbStore.GetPredictionsByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	history, err := dbStore.GetHistoryByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}
