package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/ShuvashreeBharati/FYP-22067184/internal/store"
)

type EnquiryService struct {
	dbStore *store.SQLiteStore
}

func NewEnquiryService(db *store.SQLiteStore) *EnquiryService {
	return &EnquiryService{dbStore: db}
}

// Submit stores a contact enquiry. userID is nil for anonymous submissions.
func (s *EnquiryService) Submit(ctx context.Context, userID *string, subject, message string) (*store.Enquiry, error) {
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if subject == "" || message == "" {
		return nil, fmt.Errorf("%w: subject and message are required", ErrValidation)
	}
	enq, err := s.dbStore.CreateEnquiry(ctx, userID, subject, message)
	if err != nil {
		return nil, fmt.Errorf("failed to submit enquiry: %w", err)
	}
	return enq, nil
}
