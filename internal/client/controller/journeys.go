package controller

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
	"github.com/dmitrijs2005/smartvoyage/internal/client/services"
	"github.com/dmitrijs2005/smartvoyage/internal/client/surprise"
	"github.com/dmitrijs2005/smartvoyage/internal/common"
)

func (c *Controller) GenerateItinerary(ctx context.Context, form models.JourneyForm) (string, error) {
	if _, _, err := c.currentUser(); err != nil {
		return "", err
	}
	itinerary, err := c.gen.GenerateItinerary(ctx, form)
	if err != nil {
		c.log.Warn(ctx, "itinerary generation failed", "error", err)
		c.notify(ctx, KindError, "Error", userMessage(err, "Could not generate itinerary"))
		return "", &GenerationError{Op: "generate itinerary", Err: err}
	}
	return itinerary, nil
}

func (c *Controller) FindSurprise(ctx context.Context, form models.JourneyForm) (string, error) {
	if _, _, err := c.currentUser(); err != nil {
		return "", err
	}
	text, err := c.gen.FindSurprise(ctx, form)
	if err != nil {
		c.log.Warn(ctx, "surprise search failed", "error", err)
		c.notify(ctx, KindError, "Error", userMessage(err, "Could not find surprise destinations"))
		return "", &GenerationError{Op: "find surprise", Err: err}
	}
	return text, nil
}

// SendChatMessage asks the assistant. Failures are returned to the chat view
// only.
func (c *Controller) SendChatMessage(ctx context.Context, text string) (string, error) {
	if _, _, err := c.currentUser(); err != nil {
		return "", err
	}
	reply, err := c.gen.Chat(ctx, text)
	if err != nil {
		c.log.Warn(ctx, "chat failed", "error", err)
		return "", &GenerationError{Op: "chat", Err: err}
	}
	return reply, nil
}

// PlanJourney generates an itinerary for form, records it in the history of
// the requesting user and opens it. Failing to record does not block the
// result. If the user changed while the itinerary was being generated, the
// result is recorded but not opened.
func (c *Controller) PlanJourney(ctx context.Context, form models.JourneyForm) (ItineraryPage, error) {
	uid, epoch, err := c.currentUser()
	if err != nil {
		return ItineraryPage{}, err
	}
	if err := form.Validate(models.JourneyNew); err != nil {
		return ItineraryPage{}, err
	}

	itinerary, err := c.GenerateItinerary(ctx, form)
	if err != nil {
		return ItineraryPage{}, err
	}

	page := ItineraryPage{Itinerary: itinerary, Form: form}
	entry, err := c.journeys.Record(ctx, uid, itinerary, form)
	if err != nil {
		c.log.Warn(ctx, "could not save journey to history", "user_id", uid, "error", err)
	} else {
		page.EntryID = entry.ID
	}

	c.mu.Lock()
	current := c.epoch == epoch
	if current {
		c.state.Page = page
	}
	c.mu.Unlock()

	if !current {
		c.log.Info(ctx, "itinerary arrived after session change", "user_id", uid)
		c.notify(ctx, KindInfo, "Itinerary ready", "The itinerary was saved to the history of the account that requested it.")
	}
	return page, nil
}

// DiscoverDestinations asks for surprise destinations. An answer without
// recognisable sections yields an empty slice, not an error.
func (c *Controller) DiscoverDestinations(ctx context.Context, form models.JourneyForm) ([]surprise.Destination, error) {
	if err := form.Validate(models.JourneySurprise); err != nil {
		return nil, err
	}
	text, err := c.FindSurprise(ctx, form)
	if err != nil {
		return nil, err
	}
	dests := surprise.Parse(text)
	if len(dests) == 0 {
		c.log.Warn(ctx, "no destinations recognised in recommendations", "length", len(text))
	}
	return dests, nil
}

// ChooseDestination plans the journey for one of the discovered destinations.
func (c *Controller) ChooseDestination(ctx context.Context, form models.JourneyForm, destination string) (ItineraryPage, error) {
	return c.PlanJourney(ctx, form.WithDestination(destination))
}

func (c *Controller) History(ctx context.Context) ([]models.JourneyHistoryEntry, error) {
	uid, _, err := c.currentUser()
	if err != nil {
		return nil, err
	}
	return c.journeys.List(ctx, uid)
}

func (c *Controller) DeleteJourney(ctx context.Context, id string) error {
	uid, _, err := c.currentUser()
	if err != nil {
		return err
	}
	if err := c.journeys.Remove(ctx, uid, id); err != nil {
		return fmt.Errorf("delete journey %s: %w", id, err)
	}
	return nil
}

// OpenJourney shows a saved itinerary.
func (c *Controller) OpenJourney(ctx context.Context, id string) (ItineraryPage, error) {
	uid, epoch, err := c.currentUser()
	if err != nil {
		return ItineraryPage{}, err
	}
	entry, err := c.journeys.Get(ctx, uid, id)
	if err != nil {
		return ItineraryPage{}, err
	}

	page := ItineraryPage{Itinerary: entry.Itinerary, Form: entry.Form, EntryID: entry.ID}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return ItineraryPage{}, ErrNotAuthenticated
	}
	c.state.Page = page
	return page, nil
}

// PackingChecklist fetches the weather-aware checklist for an itinerary. It
// returns (nil, nil) when the form names no place. Errors are never shown to
// the user.
func (c *Controller) PackingChecklist(ctx context.Context, form models.JourneyForm) (*models.LuggageChecklist, error) {
	if !form.HasPlace() {
		return nil, nil
	}
	list, err := c.gen.PackingChecklist(ctx, models.NewChecklistRequest(form))
	if err != nil {
		c.log.Warn(ctx, "packing checklist unavailable", "error", err)
		return nil, &GenerationError{Op: "packing checklist", Err: err}
	}
	return list, nil
}

func (c *Controller) currentItinerary() (ItineraryPage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	page, ok := c.state.Page.(ItineraryPage)
	if !ok || page.Itinerary == "" {
		return ItineraryPage{}, ErrNoItinerary
	}
	return page, nil
}

// ExportItinerary saves the open itinerary as a markdown file and returns
// its path.
func (c *Controller) ExportItinerary(ctx context.Context) (string, error) {
	page, err := c.currentItinerary()
	if err != nil {
		return "", err
	}
	if c.exporter == nil {
		return "", fmt.Errorf("itinerary export: %w", common.ErrNotConfigured)
	}

	path, err := c.exporter.Export(ctx, page.Itinerary, page.Form)
	if err != nil {
		c.log.Error(ctx, "export failed", "error", err)
		c.notify(ctx, KindError, "Error", "Could not save the itinerary")
		return "", err
	}
	c.notify(ctx, KindSuccess, "Itinerary downloaded", path)
	return path, nil
}

// ShareItinerary publishes the open itinerary and returns a link to it.
func (c *Controller) ShareItinerary(ctx context.Context) (string, error) {
	page, err := c.currentItinerary()
	if err != nil {
		return "", err
	}
	if c.sharer == nil {
		return "", services.ErrSharingDisabled
	}

	link, err := c.sharer.Share(ctx, page.Itinerary, page.Form)
	if err != nil {
		if errors.Is(err, common.ErrNotConfigured) {
			return "", err
		}
		c.log.Error(ctx, "share failed", "error", err)
		c.notify(ctx, KindError, "Error", "Could not share the itinerary")
		return "", err
	}
	c.notify(ctx, KindSuccess, "Share link ready", link)
	return link, nil
}
