package usecase

import (
	"context"
	"strings"

	"github.com/hszk-dev/vidshare/internal/domain/model"
	"github.com/hszk-dev/vidshare/internal/domain/repository"
)

// ProfileService resolves public account profiles.
type ProfileService interface {
	// GetProfile returns the profile for username.
	// Returns model.ErrEmptyUsername for a blank name and
	// repository.ErrAccountNotFound when no account matches.
	GetProfile(ctx context.Context, username string) (*model.Profile, error)
}

type profileService struct {
	repo repository.AccountRepository
}

// NewProfileService creates a new ProfileService instance.
func NewProfileService(repo repository.AccountRepository) ProfileService {
	return &profileService{repo: repo}
}

func (s *profileService) GetProfile(ctx context.Context, username string) (*model.Profile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, model.ErrEmptyUsername
	}
	return s.repo.GetProfile(ctx, username)
}
