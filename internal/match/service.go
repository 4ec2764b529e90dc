package match

import (
	"context"

	"github.com/rs/zerolog"
)

// defaultPageSize bounds match-list pages when the caller sends no size.
const defaultPageSize = 50

// Service provides read access to a user's match list.
type Service struct {
	matches Repository
	logger  zerolog.Logger
}

// NewService creates a new match service.
func NewService(matches Repository, logger zerolog.Logger) *Service {
	return &Service{matches: matches, logger: logger}
}

// List returns one page of the user's match list. An empty or missing list
// reads as an empty page, never an error.
func (s *Service) List(ctx context.Context, userID string, page, size int) ([]*Match, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}

	matches, err := s.matches.List(ctx, userID, page, size)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []*Match{}
	}
	return matches, nil
}
