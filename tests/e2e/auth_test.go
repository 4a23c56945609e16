//go:build e2e

package e2e

import (
	"net/http"
	"testing"

	"mess-market/internal/pkg/cookie"
	"mess-market/tests/common/httptest"

	"github.com/stretchr/testify/suite"
)

type AuthFlowSuite struct {
	SharedSuite
}

func TestAuthFlowSuite(t *testing.T) {
	suite.Run(t, new(AuthFlowSuite))
}

func (s *AuthFlowSuite) login(ticket string) map[string]any {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/auth/login",
		map[string]string{"ticket": ticket}, "")

	var body map[string]any
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Require().NotEmpty(body["accessToken"])
	s.Require().NotEmpty(body["refreshToken"])
	return body
}

func (s *AuthFlowSuite) TestLogin() {
	s.Run("a ticket becomes a session and a profile", func() {
		body := s.login("ST-2023CS10042")
		s.Equal("2023CS10042", body["roll"])

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/auth/me",
			nil, body["accessToken"].(string))

		var profile map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &profile)
		s.Equal("2023CS10042", profile["roll"])
		s.Equal("Student 2023CS10042", profile["displayName"])
		s.Equal(false, profile["hasMealCredential"])
	})

	s.Run("logging in twice keeps one account", func() {
		first := s.login("ST-2023CS10042")
		second := s.login("ST-2023CS10042")
		s.Equal(first["userId"], second["userId"])
	})

	s.Run("a garbage ticket is rejected", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/auth/login",
			map[string]string{"ticket": "not-a-ticket"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "SSO rejected the ticket")
	})

	s.Run("login sets the token cookies", func() {
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/auth/login",
			map[string]string{"ticket": "ST-2023CS10042"}, "")
		s.Equal(http.StatusOK, rec.Code)
		s.NotNil(httptest.ExtractCookie(rec, cookie.AccessTokenCookieName))
		s.NotNil(httptest.ExtractCookie(rec, cookie.RefreshTokenCookieName))
	})
}

func (s *AuthFlowSuite) TestRefresh() {
	s.Run("the refresh token rotates the pair", func() {
		body := s.login("ST-2023CS10077")

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/auth/refresh",
			map[string]string{"refresh_token": body["refreshToken"].(string)}, "")

		var refreshed map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &refreshed)
		s.NotEmpty(refreshed["accessToken"])
		s.NotEmpty(refreshed["refreshToken"])
	})

	s.Run("an access token is not a refresh token", func() {
		body := s.login("ST-2023CS10077")

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/auth/refresh",
			map[string]string{"refresh_token": body["accessToken"].(string)}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")
	})
}

func (s *AuthFlowSuite) TestUpdateCredential() {
	s.Run("linking a credential shows up on the profile", func() {
		body := s.login("ST-2023CS10088")
		token := body["accessToken"].(string)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPut, "/api/auth/credential",
			map[string]string{"credential": "dining-portal-session"}, token)
		s.Equal(http.StatusNoContent, rec.Code)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/auth/me", nil, token)
		var profile map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &profile)
		s.Equal(true, profile["hasMealCredential"])
	})

	s.Run("an empty credential is rejected", func() {
		body := s.login("ST-2023CS10088")

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPut, "/api/auth/credential",
			map[string]string{"credential": ""}, body["accessToken"].(string))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("listing without a credential fails with 401", func() {
		body := s.login("ST-2023CS10099")

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/listings",
			map[string]any{"meal_date": "2099-01-01", "meal_type": "dinner", "min_price": 50},
			body["accessToken"].(string))
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")
	})
}
