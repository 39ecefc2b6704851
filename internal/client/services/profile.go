// Package services contains the application services of the Smart Voyage
// client: the per-user profile and journey-history stores kept in the local
// database, and the itinerary export and sharing helpers.
package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
	"github.com/dmitrijs2005/smartvoyage/internal/logging"
)

// ProfileService keeps one Profile per user.
//
// Contract:
//   - Get returns (nil, nil) when the user never completed a profile. A
//     stored value that cannot be decoded counts as absent.
//   - Put overwrites unconditionally; the last write wins.
type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Put(ctx context.Context, userID string, p models.Profile) error
}

type profileService struct {
	store Store
	log   logging.Logger
}

func NewProfileService(store Store, log logging.Logger) ProfileService {
	return &profileService{store: store, log: log.With("module", "profiles")}
}

// ProfileKey is the local storage key of a user's profile.
func ProfileKey(userID string) string {
	return "profile_" + userID
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.Profile, error) {
	raw, err := s.store.Local().Get(ctx, ProfileKey(userID))
	if err != nil {
		return nil, fmt.Errorf("error reading profile: %w", err)
	}
	if raw == nil {
		return nil, nil
	}

	var p models.Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		s.log.Warn(ctx, "stored profile is unreadable, treating as absent", "user_id", userID, "error", err)
		return nil, nil
	}
	return &p, nil
}

func (s *profileService) Put(ctx context.Context, userID string, p models.Profile) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("error encoding profile: %w", err)
	}
	if err := s.store.Local().Set(ctx, ProfileKey(userID), raw); err != nil {
		return fmt.Errorf("error saving profile: %w", err)
	}
	return nil
}
