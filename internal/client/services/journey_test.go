package services

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
	"github.com/dmitrijs2005/smartvoyage/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryAt(id string, at time.Time) models.JourneyHistoryEntry {
	return models.JourneyHistoryEntry{ID: id, Destination: "Goa", CreatedAt: at}
}

func newJourneySvc(t *testing.T) (*journeyService, *time.Time) {
	t.Helper()
	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := NewJourneyService(setupStore(t), nopLog()).(*journeyService)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc, &clock
}

func TestJourneyService_ListEmpty(t *testing.T) {
	svc, _ := newJourneySvc(t)

	list, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestJourneyService_AppendPrependsAndListsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJourneySvc(t)
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, svc.Append(ctx, "u1", entryAt("a", base)))
	require.NoError(t, svc.Append(ctx, "u1", entryAt("b", base.Add(time.Hour))))
	require.NoError(t, svc.Append(ctx, "u1", entryAt("c", base.Add(2*time.Hour))))

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestJourneyService_ListSortsByCreatedAt(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJourneySvc(t)
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	// written out of order by another process
	raw, err := json.Marshal([]models.JourneyHistoryEntry{
		entryAt("old", base),
		entryAt("new", base.Add(time.Hour)),
	})
	require.NoError(t, err)
	require.NoError(t, svc.store.Local().Set(ctx, HistoryKey("u1"), raw))

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
}

func TestJourneyService_CapEvictsOldest(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJourneySvc(t)
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < models.HistoryLimit+5; i++ {
		require.NoError(t, svc.Append(ctx, "u1", entryAt(fmt.Sprintf("j%02d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, models.HistoryLimit)
	assert.Equal(t, "j54", list[0].ID)
	assert.Equal(t, "j05", list[len(list)-1].ID)

	for _, e := range list {
		assert.NotContains(t, []string{"j00", "j01", "j02", "j03", "j04"}, e.ID)
	}
}

func TestJourneyService_CorruptHistoryIsEmptyAndSelfHeals(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJourneySvc(t)

	require.NoError(t, svc.store.Local().Set(ctx, HistoryKey("u1"), []byte("[{broken")))

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, svc.Append(ctx, "u1", entryAt("fresh", time.Now())))

	list, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "fresh", list[0].ID)
}

func TestJourneyService_RecordBuildsEntry(t *testing.T) {
	ctx := context.Background()
	svc, clock := newJourneySvc(t)

	form := models.JourneyForm{Origin: "Pune", Date: "2025-10-10", Travelers: "1 traveler(s)", Budget: "5000"}
	e, err := svc.Record(ctx, "u1", "Day 1", form)
	require.NoError(t, err)

	assert.Regexp(t, `^journey_\d+_[0-9a-z]{9}$`, e.ID)
	assert.Equal(t, models.UnknownDestination, e.Destination)
	assert.Equal(t, "Pune", e.Origin)
	assert.Equal(t, "2025-10-10", e.TravelDate)
	assert.True(t, e.CreatedAt.Equal(*clock))

	got, err := svc.Get(ctx, "u1", e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Day 1", got.Itinerary)
	assert.Equal(t, form, got.Form)
}

func TestJourneyService_GetMissing(t *testing.T) {
	svc, _ := newJourneySvc(t)

	_, err := svc.Get(context.Background(), "u1", "journey_1_abc")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestJourneyService_Remove(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJourneySvc(t)
	now := time.Now()

	require.NoError(t, svc.Append(ctx, "u1", entryAt("a", now)))
	require.NoError(t, svc.Append(ctx, "u1", entryAt("b", now.Add(time.Second))))
	require.NoError(t, svc.Append(ctx, "u2", entryAt("a", now)))

	require.NoError(t, svc.Remove(ctx, "u1", "a"))
	require.NoError(t, svc.Remove(ctx, "u1", "does-not-exist"))

	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].ID)

	other, err := svc.List(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, other, 1, "other users are untouched")
}
