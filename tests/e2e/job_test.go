//go:build e2e

package e2e

import (
	"context"
	"net/http"
	nethttptest "net/http/httptest"
	"testing"
	"time"

	"mess-market/tests/common/authtest"
	"mess-market/tests/common/dbtest"
	"mess-market/tests/common/httptest"

	"github.com/stretchr/testify/suite"
)

type ExpirySweepSuite struct {
	SharedSuite
	jwtHelper *authtest.JWTHelper
}

func (s *ExpirySweepSuite) SetupSuite() {
	s.SetupSharedSuite(s.T())
	s.jwtHelper = authtest.NewJWTHelper(s.Config.JWT)
}

func TestExpirySweepSuite(t *testing.T) {
	suite.Run(t, new(ExpirySweepSuite))
}

// The test config's sweep hash is bcrypt("password").
const sweepSecret = "password"

func (s *ExpirySweepSuite) sweep(secret string) *nethttptest.ResponseRecorder {
	return httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/jobs/expiry-sweep",
		map[string]string{"secret": secret}, "")
}

func (s *ExpirySweepSuite) TestExpirySweep() {
	s.Run("expired listings are deleted and sellers told", func() {
		sellerID := dbtest.CreateTestUser(s.T(), s.DB, "2023CS10100", "Seller Singh", "dining-portal-session")
		buyerID := dbtest.CreateTestUser(s.T(), s.DB, "2023CS10200", "Buyer Basu", "dining-portal-session")

		loc, err := time.LoadLocation(s.Config.App.TimeZone)
		s.Require().NoError(err)
		yesterday := time.Now().In(loc).AddDate(0, 0, -1)

		// Seeded straight into the table: the API refuses expired slots.
		listingID := dbtest.CreateTestListing(s.T(), s.DB, sellerID, yesterday, "dinner", E2EMess, 50)
		dbtest.CreateTestBid(s.T(), s.DB, listingID, buyerID, 45, false)

		rec := s.sweep(sweepSecret)
		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(float64(1), body["deleted"])

		var listings, bids int
		s.Require().NoError(s.DB.QueryRow(context.Background(),
			"SELECT count(*) FROM listings").Scan(&listings))
		s.Require().NoError(s.DB.QueryRow(context.Background(),
			"SELECT count(*) FROM bids").Scan(&bids))
		s.Zero(listings)
		s.Zero(bids)

		token := s.jwtHelper.GenerateToken(s.T(), sellerID, "2023CS10100")
		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/notifications", nil, token)
		var feed map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &feed)

		found := false
		for _, raw := range feed["notifications"].([]any) {
			if raw.(map[string]any)["type"] == "listing_expired" {
				found = true
			}
		}
		s.True(found, "seller never learned the listing expired")
	})

	s.Run("a clean market reports none found", func() {
		rec := s.sweep(sweepSecret)
		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("none found", body["message"])
	})

	s.Run("a wrong secret is rejected", func() {
		rec := s.sweep("not-the-secret")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")
	})

	s.Run("tomorrow's listings survive the sweep", func() {
		sellerID := dbtest.CreateTestUser(s.T(), s.DB, "2023CS10100", "Seller Singh", "dining-portal-session")

		loc, err := time.LoadLocation(s.Config.App.TimeZone)
		s.Require().NoError(err)
		tomorrow := time.Now().In(loc).AddDate(0, 0, 1)
		dbtest.CreateTestListing(s.T(), s.DB, sellerID, tomorrow, "dinner", E2EMess, 50)

		rec := s.sweep(sweepSecret)
		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("none found", body["message"])

		var listings int
		s.Require().NoError(s.DB.QueryRow(context.Background(),
			"SELECT count(*) FROM listings").Scan(&listings))
		s.Equal(1, listings)
	})
}
