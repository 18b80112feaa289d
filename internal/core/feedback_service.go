package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/ShuvashreeBharati/FYP-22067184/internal/store"
)

type FeedbackService struct {
	dbStore *store.SQLiteStore
}

func NewFeedbackService(db *store.SQLiteStore) *FeedbackService {
	return &FeedbackService{dbStore: db}
}

func (s *FeedbackService) Submit(ctx context.Context, userID, comment string, rating int) (*store.Feedback, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, fmt.Errorf("%w: comment is required", ErrValidation)
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}
	fb, err := s.dbStore.CreateFeedback(ctx, userID, comment, rating)
	if err != nil {
		return nil, fmt.Errorf("failed to submit feedback: %w", err)
	}
	return fb, nil
}

func (s *FeedbackService) List(ctx context.Context) ([]store.Feedback, error) {
	return s.dbStore.ListFeedback(ctx)
}
