package cas

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"mess-market/internal/pkg/config"
	"mess-market/internal/pkg/errs"
	"mess-market/internal/usecase/shared"
)

// Client validates CAS 2.0 one-time tickets against the campus SSO server.
// serviceValidate returns an XML envelope; the roll number rides in cas:user
// and the profile attributes carry name and email.
type Client struct {
	baseURL    string
	serviceURL string
	http       *http.Client
}

func NewClient(cfg config.CASConfig) shared.TicketValidator {
	return &Client{
		baseURL:    cfg.BaseURL,
		serviceURL: cfg.ServiceURL,
		http:       &http.Client{Timeout: cfg.Timeout},
	}
}

type serviceResponse struct {
	XMLName xml.Name `xml:"serviceResponse"`
	Success *struct {
		User       string `xml:"user"`
		Attributes struct {
			Name  string `xml:"Name"`
			Email string `xml:"E-Mail_Address"`
		} `xml:"attributes"`
	} `xml:"authenticationSuccess"`
	Failure *struct {
		Code    string `xml:"code,attr"`
		Message string `xml:",chardata"`
	} `xml:"authenticationFailure"`
}

func (c *Client) Validate(ctx context.Context, ticket string) (*shared.CampusIdentity, error) {
	endpoint := fmt.Sprintf("%s/serviceValidate?%s", c.baseURL, url.Values{
		"ticket":  {ticket},
		"service": {c.serviceURL},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errs.Wrap(err, "failed to build cas request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errs.Wrap(err, "cas request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.New(fmt.Sprintf("cas returned %d", resp.StatusCode))
	}

	var envelope serviceResponse
	if err := xml.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, errs.Wrap(err, "failed to decode cas response")
	}

	if envelope.Failure != nil {
		return nil, errs.Mark(
			errs.New(fmt.Sprintf("cas rejected ticket: %s %s",
				envelope.Failure.Code, strings.TrimSpace(envelope.Failure.Message))),
			shared.ErrInvalidTicket)
	}
	if envelope.Success == nil || envelope.Success.User == "" {
		return nil, errs.Mark(errs.New("cas response missing user"), shared.ErrInvalidTicket)
	}

	identity := &shared.CampusIdentity{
		Roll:        strings.ToUpper(strings.TrimSpace(envelope.Success.User)),
		DisplayName: strings.TrimSpace(envelope.Success.Attributes.Name),
		Email:       strings.TrimSpace(envelope.Success.Attributes.Email),
	}
	if identity.DisplayName == "" {
		identity.DisplayName = identity.Roll
	}
	return identity, nil
}
