package cashflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// syncRequest is the body of POST /sync
type syncRequest struct {
	UserID  string `json:"userId"`
	Payload string `json:"payload"`
}

// fetchResponse is the body returned by GET /fetch
type fetchResponse struct {
	Payload *string `json:"payload"`
}

// syncService implements SyncService
type syncService struct {
	client *Client
}

func (s *syncService) configured() error {
	if s.client.syncAPI == nil || s.client.options.UserID == "" {
		return errors.Wrap(ErrNotConfigured, "remote sync")
	}
	return nil
}

// Push uploads the state as a JSON string payload
func (s *syncService) Push(ctx context.Context, state *State) error {
	if err := s.configured(); err != nil {
		return err
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "failed to marshal state")
	}

	req := &syncRequest{
		UserID:  s.client.options.UserID,
		Payload: string(payload),
	}
	if err := s.client.syncAPI.Do(ctx, http.MethodPost, "/sync", nil, req, nil); err != nil {
		return errors.Wrap(err, "failed to push state")
	}
	return nil
}

// Pull downloads the user's state
func (s *syncService) Pull(ctx context.Context) (*State, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("userId", s.client.options.UserID)

	var resp fetchResponse
	if err := s.client.syncAPI.Do(ctx, http.MethodGet, "/fetch", query, nil, &resp); err != nil {
		return nil, errors.Wrap(err, "failed to fetch state")
	}
	if resp.Payload == nil || *resp.Payload == "" {
		return nil, errors.Wrapf(ErrNotFound, "no remote state for user %s", s.client.options.UserID)
	}

	state := NewState()
	if err := json.Unmarshal([]byte(*resp.Payload), state); err != nil {
		return nil, errors.Wrap(err, "failed to parse remote state")
	}
	state.Normalize()
	return state, nil
}
