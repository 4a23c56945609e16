package mealreg

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"mess-market/internal/domain/listing"
	"mess-market/internal/pkg/config"
	"mess-market/internal/pkg/errs"
	"mess-market/internal/usecase/shared"
)

// Client talks to the campus meal-registration service. The stored credential
// is an opaque bearer token the student linked from the dining portal; the
// service answers which mess a (date, meal) registration points at and, for
// settled sales, the transferable redemption token.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.MealRegConfig) shared.MealRegistry {
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type registrationResponse struct {
	Mess  string `json:"mess"`
	Token string `json:"token"`
}

func (c *Client) Registration(ctx context.Context, credential string, date listing.MealDate, meal listing.MealType) (*shared.Registration, error) {
	endpoint := fmt.Sprintf("%s/api/registrations?%s", c.baseURL, url.Values{
		"date": {date.String()},
		"meal": {meal.String()},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build meal registry request")
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "meal registry request failed")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return nil, errs.Mark(errs.New("meal registry rejected credential"), shared.ErrCredentialExpired)
	case http.StatusNotFound:
		return nil, errs.Mark(errs.New("no registration for slot"), shared.ErrNotRegistered)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errs.New(fmt.Sprintf("meal registry returned %d: %s", resp.StatusCode, string(body)))
	}

	var payload registrationResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errs.Wrap(err, "failed to decode meal registry response")
	}
	if payload.Mess == "" {
		return nil, errs.New("meal registry response missing mess")
	}

	return &shared.Registration{Mess: payload.Mess, Token: payload.Token}, nil
}
