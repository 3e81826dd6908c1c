package query

import (
	"context"

	"whisper-service/internal/models"
	"whisper-service/internal/repositories"
)

// Service answers read-side questions, deriving visibility from lifecycle
// state without mutating anything.
type Service struct {
	whispers repositories.WhisperRepository
	shares   repositories.ShareRepository
}

// NewService constructs a Service.
func NewService(whispers repositories.WhisperRepository, shares repositories.ShareRepository) *Service {
	return &Service{whispers: whispers, shares: shares}
}

// ListWhispers returns every whisper in creation order. Category and viewed
// filtering stays client-side.
func (s *Service) ListWhispers(ctx context.Context) ([]models.Whisper, error) {
	return s.whispers.ListWhispers(ctx)
}

// ListSharedWhispers returns shared whispers visible to the requester:
// whispers with at least one community share, plus, when a user id is given,
// whispers shared to or by that user through a directed share.
func (s *Service) ListSharedWhispers(ctx context.Context, requestingUserID *int) ([]models.Whisper, error) {
	whispers, err := s.whispers.ListSharedWhispers(ctx)
	if err != nil {
		return nil, err
	}
	if len(whispers) == 0 {
		return whispers, nil
	}

	shares, err := s.shares.ListShares(ctx)
	if err != nil {
		return nil, err
	}

	visible := map[int]bool{}
	for _, share := range shares {
		if share.Community() {
			visible[share.WhisperID] = true
			continue
		}
		if requestingUserID == nil {
			continue
		}
		if *share.SharedToUserID == *requestingUserID || share.SharedByUserID == *requestingUserID {
			visible[share.WhisperID] = true
		}
	}

	out := make([]models.Whisper, 0, len(whispers))
	for _, w := range whispers {
		if visible[w.ID] {
			out = append(out, w)
		}
	}
	return out, nil
}
