package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalDataService_Usage(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	profiles := NewProfileService(store, nopLog())
	journeys := NewJourneyService(store, nopLog())
	svc := NewLocalDataService(store, nopLog())

	empty, err := svc.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, LocalUsage{}, empty)

	require.NoError(t, profiles.Put(ctx, "u1", models.Profile{Name: "Asha"}))
	require.NoError(t, profiles.Put(ctx, "u2", models.Profile{Name: "Ravi"}))
	now := time.Now()
	for i := range 3 {
		require.NoError(t, journeys.Append(ctx, "u1", models.NewJourneyEntry("day", models.JourneyForm{Destination: "Goa"}, now.Add(time.Duration(i)*time.Second))))
	}
	require.NoError(t, store.Local().Set(ctx, HistoryKey("u2"), []byte("{not json")))
	require.NoError(t, store.Local().Set(ctx, "auth_session", []byte(`{"access_token":"x"}`)))

	u, err := svc.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, u.Profiles)
	assert.Equal(t, 2, u.Histories)
	assert.Equal(t, 3, u.Journeys, "unreadable histories count no journeys")
	assert.Positive(t, u.Bytes)
}

func TestLocalDataService_Reset(t *testing.T) {
	ctx := context.Background()
	store := setupStore(t)
	profiles := NewProfileService(store, nopLog())
	svc := NewLocalDataService(store, nopLog())

	require.NoError(t, profiles.Put(ctx, "u1", models.Profile{Name: "Asha"}))
	require.NoError(t, store.Local().Set(ctx, "auth_session", []byte(`{}`)))

	require.NoError(t, svc.Reset(ctx))

	p, err := profiles.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, p)
	raw, err := store.Local().Get(ctx, "auth_session")
	require.NoError(t, err)
	assert.Nil(t, raw)

	u, err := svc.Usage(ctx)
	require.NoError(t, err)
	assert.Equal(t, LocalUsage{}, u)
}
