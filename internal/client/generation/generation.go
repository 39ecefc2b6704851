// Package generation is the client of the itinerary and recommendation
// service: four stateless request/response procedures backed by a hosted
// language model.
//
// Two transports implement Service. FunctionsClient calls the platform's
// HTTP edge functions; GRPCClient calls the same procedures over gRPC with a
// JSON codec. Both attach the caller's access token taken from a TokenSource
// and map transport failures to ErrUnauthorized and ErrUnavailable.
package generation

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
)

var (
	ErrUnavailable   = errors.New("generation service unavailable")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrEmptyResponse = errors.New("generation service returned an empty response")
)

type Service interface {
	GenerateItinerary(ctx context.Context, form models.JourneyForm) (string, error)
	// FindSurprise returns markdown with up to three "## N. Name" sections.
	FindSurprise(ctx context.Context, form models.JourneyForm) (string, error)
	PackingChecklist(ctx context.Context, req models.ChecklistRequest) (*models.LuggageChecklist, error)
	Chat(ctx context.Context, message string) (string, error)
}

// TokenSource returns the access token of the signed-in user, or "" when
// the call should go out with the anonymous key only.
type TokenSource func(ctx context.Context) (string, error)

// Procedure names, shared by both transports.
const (
	procGenerateItinerary = "generate-itinerary"
	procFindSurprise      = "find-surprise"
	procPackingChecklist  = "generate-luggage-checklist"
	procChat              = "chatbot"
)

type chatRequest struct {
	Message string `json:"message"`
}

// envelope is the union of all response bodies. Error is set by the
// functions on failure.
type envelope struct {
	Itinerary        string                   `json:"itinerary,omitempty"`
	Recommendations  string                   `json:"recommendations,omitempty"`
	LuggageChecklist *models.LuggageChecklist `json:"luggageChecklist,omitempty"`
	Reply            string                   `json:"reply,omitempty"`
	Error            string                   `json:"error,omitempty"`
}

func nonEmpty(s string) (string, error) {
	if s == "" {
		return "", ErrEmptyResponse
	}
	return s, nil
}
