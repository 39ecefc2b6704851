package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/smartvoyage/internal/client/models"
	"github.com/dmitrijs2005/smartvoyage/internal/common"
	"github.com/dmitrijs2005/smartvoyage/internal/logging"
)

// RemoteError is a non-2xx answer of an edge function.
type RemoteError struct {
	Function string
	Status   int
	Message  string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Function, e.Message)
}

func (e *RemoteError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return ErrUnauthorized
	case e.Status >= 500 || e.Status == http.StatusTooManyRequests:
		return ErrUnavailable
	}
	return nil
}

type FunctionsClient struct {
	baseURL    string
	anonKey    string
	token      TokenSource
	httpClient *http.Client
	log        logging.Logger
}

func NewFunctionsClient(baseURL, anonKey string, token TokenSource, httpClient *http.Client, log logging.Logger) *FunctionsClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &FunctionsClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		token:      token,
		httpClient: httpClient,
		log:        log.With("module", "generation", "transport", "http"),
	}
}

func (c *FunctionsClient) invoke(ctx context.Context, fn string, body any) (*envelope, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/functions/v1/"+fn, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}

	bearer := c.anonKey
	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return nil, err
		}
		if tok != "" {
			bearer = tok
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.APIKeyHeaderName, c.anonKey)
	req.Header.Set(common.AuthorizationHeaderName, "Bearer "+bearer)

	c.log.Debug(ctx, "invoking function", "function", fn)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", fn, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", fn, ErrUnavailable, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(data, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Error
		if msg == "" {
			msg = strings.TrimSpace(string(data))
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		c.log.Warn(ctx, "function failed", "function", fn, "status", resp.StatusCode, "error", msg)
		return nil, &RemoteError{Function: fn, Status: resp.StatusCode, Message: msg}
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("decode %s response: %w", fn, decodeErr)
	}
	if env.Error != "" {
		return nil, &RemoteError{Function: fn, Status: resp.StatusCode, Message: env.Error}
	}
	return &env, nil
}

func (c *FunctionsClient) GenerateItinerary(ctx context.Context, form models.JourneyForm) (string, error) {
	env, err := c.invoke(ctx, procGenerateItinerary, form)
	if err != nil {
		return "", err
	}
	return nonEmpty(env.Itinerary)
}

func (c *FunctionsClient) FindSurprise(ctx context.Context, form models.JourneyForm) (string, error) {
	env, err := c.invoke(ctx, procFindSurprise, form)
	if err != nil {
		return "", err
	}
	return nonEmpty(env.Recommendations)
}

func (c *FunctionsClient) PackingChecklist(ctx context.Context, req models.ChecklistRequest) (*models.LuggageChecklist, error) {
	env, err := c.invoke(ctx, procPackingChecklist, req)
	if err != nil {
		return nil, err
	}
	if env.LuggageChecklist.Empty() {
		return nil, ErrEmptyResponse
	}
	return env.LuggageChecklist, nil
}

func (c *FunctionsClient) Chat(ctx context.Context, message string) (string, error) {
	env, err := c.invoke(ctx, procChat, chatRequest{Message: message})
	if err != nil {
		return "", err
	}
	return nonEmpty(env.Reply)
}
