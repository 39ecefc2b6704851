package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/smartvoyage/internal/logging"
)

// LocalUsage summarises what this device keeps in the local store.
type LocalUsage struct {
	Profiles  int
	Histories int
	Journeys  int
	Bytes     int
}

// LocalDataService inspects and wipes the local store as a whole. Reset
// removes every user's data, including the saved session.
type LocalDataService interface {
	Usage(ctx context.Context) (LocalUsage, error)
	Reset(ctx context.Context) error
}

type localDataService struct {
	store Store
	log   logging.Logger
}

func NewLocalDataService(store Store, log logging.Logger) LocalDataService {
	return &localDataService{store: store, log: log.With("module", "localdata")}
}

func (s *localDataService) Usage(ctx context.Context) (LocalUsage, error) {
	var u LocalUsage
	local := s.store.Local()

	profiles, err := local.List(ctx, ProfileKey(""))
	if err != nil {
		return u, fmt.Errorf("error listing profiles: %w", err)
	}
	for _, v := range profiles {
		u.Profiles++
		u.Bytes += len(v)
	}

	histories, err := local.List(ctx, HistoryKey(""))
	if err != nil {
		return u, fmt.Errorf("error listing histories: %w", err)
	}
	for key, v := range histories {
		u.Histories++
		u.Bytes += len(v)
		var list []json.RawMessage
		if err := json.Unmarshal(v, &list); err != nil {
			s.log.Warn(ctx, "stored journey history is unreadable", "user_id", strings.TrimPrefix(key, HistoryKey("")), "error", err)
			continue
		}
		u.Journeys += len(list)
	}
	return u, nil
}

func (s *localDataService) Reset(ctx context.Context) error {
	if err := s.store.Local().Clear(ctx); err != nil {
		return fmt.Errorf("error clearing local data: %w", err)
	}
	s.log.Info(ctx, "local data cleared")
	return nil
}
