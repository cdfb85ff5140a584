package users

import (
	"context"
	"errors"
	"strings"
)

type Service struct {
	Repo Repo

	// reviewerEmails grants the reviewer role on sign-in; all other
	// accounts are applicants.
	reviewerEmails map[string]struct{}
}

func NewService(repo Repo, reviewerEmails []string) *Service {
	granted := make(map[string]struct{}, len(reviewerEmails))
	for _, email := range reviewerEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email != "" {
			granted[email] = struct{}{}
		}
	}
	return &Service{Repo: repo, reviewerEmails: granted}
}

// UpsertFromAuth persists the user identity from OAuth to stabilize record
// ownership, assigning the role from the reviewer grant list.
func (s *Service) UpsertFromAuth(ctx context.Context, user User) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(user.ID) == "" || strings.TrimSpace(user.Email) == "" {
		return errors.New("user id and email are required")
	}
	user.Role = RoleApplicant
	if _, ok := s.reviewerEmails[strings.ToLower(strings.TrimSpace(user.Email))]; ok {
		user.Role = RoleReviewer
	}
	return s.Repo.Upsert(ctx, user)
}

// IsReviewer reports whether the stored account carries the reviewer role.
func (s *Service) IsReviewer(ctx context.Context, userID string) (bool, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.Role == RoleReviewer, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}
