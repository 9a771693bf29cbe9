// Package ynab makes requests to the YNAB API
package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

const DefaultURL = "https://api.ynab.com/v1"

var ErrMissingID = errors.New("missing ID")

type YNAB struct {
	client     *http.Client
	token, url string
	calls      atomic.Uint64
	errors     atomic.Uint64
}

func New(client *http.Client, token, url string) *YNAB {
	if url == "" {
		url = DefaultURL
	}
	return &YNAB{
		client: client,
		token:  token,
		url:    strings.TrimSuffix(url, "/"),
	}
}

// Stats counts requests made by the client and how many of them failed.
type Stats struct {
	Calls  uint64
	Errors uint64
}

func (y *YNAB) Stats() Stats {
	return Stats{
		Calls:  y.calls.Load(),
		Errors: y.errors.Load(),
	}
}

// APIError is the error body YNAB returns with a non-2xx status.
type APIError struct {
	Status int    `json:"-"`
	ID     string `json:"id"`
	Name   string `json:"name"`
	Detail string `json:"detail"`
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("ynab: %d %s: %s", e.Status, e.Name, e.Detail)
	}
	return fmt.Sprintf("ynab: got status %d", e.Status)
}

type errorResponse struct {
	Error APIError `json:"error"`
}

// do sends a request and decodes the "data" member of the response envelope
// into out. out may be nil.
func (y *YNAB) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, y.url+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Add("Authorization", "Bearer "+y.token)
	req.Header.Add("Accept", "application/json")
	if in != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	y.calls.Add(1)
	resp, err := y.client.Do(req)
	if err != nil {
		y.errors.Add(1)
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		y.errors.Add(1)
		var e errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
			log.Debug().Err(err).Int("status", resp.StatusCode).Msg("Could not decode YNAB error body")
		}
		e.Error.Status = resp.StatusCode
		return &e.Error
	}

	if out == nil {
		return nil
	}

	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// User fetches the authenticated user. It is the cheapest authenticated call
// and doubles as a health check.
func (y *YNAB) User(ctx context.Context) (User, error) {
	var res struct {
		User User `json:"user"`
	}
	if err := y.do(ctx, http.MethodGet, "/user", nil, &res); err != nil {
		return User{}, err
	}
	return res.User, nil
}
