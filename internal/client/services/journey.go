package services

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
	"github.com/dmitrijs2005/smartvoyage/internal/client/repositories/localstore"
	"github.com/dmitrijs2005/smartvoyage/internal/common"
	"github.com/dmitrijs2005/smartvoyage/internal/logging"
)

// JourneyService is the per-user journey history, newest first and bounded
// by models.HistoryLimit. A history that cannot be decoded reads as empty
// and is replaced on the next write.
type JourneyService interface {
	List(ctx context.Context, userID string) ([]models.JourneyHistoryEntry, error)
	Get(ctx context.Context, userID, id string) (*models.JourneyHistoryEntry, error)
	Append(ctx context.Context, userID string, entry models.JourneyHistoryEntry) error
	Record(ctx context.Context, userID, itinerary string, form models.JourneyForm) (models.JourneyHistoryEntry, error)
	Remove(ctx context.Context, userID, id string) error
}

type journeyService struct {
	store Store
	log   logging.Logger
	now   func() time.Time
}

func NewJourneyService(store Store, log logging.Logger) JourneyService {
	return &journeyService{store: store, log: log.With("module", "journeys"), now: time.Now}
}

// HistoryKey is the local storage key of a user's journey history.
func HistoryKey(userID string) string {
	return "journey_history_" + userID
}

func (s *journeyService) load(ctx context.Context, local localstore.Repository, userID string) ([]models.JourneyHistoryEntry, error) {
	raw, err := local.Get(ctx, HistoryKey(userID))
	if err != nil {
		return nil, fmt.Errorf("error reading journey history: %w", err)
	}
	if raw == nil {
		return []models.JourneyHistoryEntry{}, nil
	}

	var list []models.JourneyHistoryEntry
	if err := json.Unmarshal(raw, &list); err != nil {
		s.log.Warn(ctx, "stored journey history is unreadable, treating as empty", "user_id", userID, "error", err)
		return []models.JourneyHistoryEntry{}, nil
	}
	if list == nil {
		list = []models.JourneyHistoryEntry{}
	}
	return list, nil
}

func (s *journeyService) save(ctx context.Context, local localstore.Repository, userID string, list []models.JourneyHistoryEntry) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("error encoding journey history: %w", err)
	}
	if err := local.Set(ctx, HistoryKey(userID), raw); err != nil {
		return fmt.Errorf("error saving journey history: %w", err)
	}
	return nil
}

func (s *journeyService) List(ctx context.Context, userID string) ([]models.JourneyHistoryEntry, error) {
	list, err := s.load(ctx, s.store.Local(), userID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (s *journeyService) Get(ctx context.Context, userID, id string) (*models.JourneyHistoryEntry, error) {
	list, err := s.load(ctx, s.store.Local(), userID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == id {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("journey %s: %w", id, common.ErrorNotFound)
}

func (s *journeyService) Append(ctx context.Context, userID string, entry models.JourneyHistoryEntry) error {
	return s.store.WithTx(ctx, func(ctx context.Context, local localstore.Repository) error {
		list, err := s.load(ctx, local, userID)
		if err != nil {
			return err
		}

		list = slices.Insert(list, 0, entry)
		if len(list) > models.HistoryLimit {
			list = list[:models.HistoryLimit]
		}

		return s.save(ctx, local, userID, list)
	})
}

func (s *journeyService) Record(ctx context.Context, userID, itinerary string, form models.JourneyForm) (models.JourneyHistoryEntry, error) {
	entry := models.NewJourneyEntry(itinerary, form, s.now())
	if err := s.Append(ctx, userID, entry); err != nil {
		return models.JourneyHistoryEntry{}, err
	}
	s.log.Info(ctx, "journey saved to history", "user_id", userID, "journey_id", entry.ID, "destination", entry.Destination)
	return entry, nil
}

func (s *journeyService) Remove(ctx context.Context, userID, id string) error {
	return s.store.WithTx(ctx, func(ctx context.Context, local localstore.Repository) error {
		list, err := s.load(ctx, local, userID)
		if err != nil {
			return err
		}

		list = slices.DeleteFunc(list, func(e models.JourneyHistoryEntry) bool {
			return e.ID == id
		})

		return s.save(ctx, local, userID, list)
	})
}
