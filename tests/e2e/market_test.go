//go:build e2e

package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"
	"time"

	"mess-market/tests/common/authtest"
	"mess-market/tests/common/dbtest"
	"mess-market/tests/common/httptest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type MarketFlowSuite struct {
	SharedSuite
	jwtHelper *authtest.JWTHelper
}

func (s *MarketFlowSuite) SetupSuite() {
	s.SetupSharedSuite(s.T())
	s.jwtHelper = authtest.NewJWTHelper(s.Config.JWT)
}

func TestMarketFlowSuite(t *testing.T) {
	suite.Run(t, new(MarketFlowSuite))
}

type marketActor struct {
	ID    uuid.UUID
	Token string
}

func (s *MarketFlowSuite) newActor(roll, name string) marketActor {
	id := dbtest.CreateTestUser(s.T(), s.DB, roll, name, "dining-portal-session")
	return marketActor{ID: id, Token: s.jwtHelper.GenerateToken(s.T(), id, roll)}
}

// tomorrowDate keeps the listed slot ahead of every cutoff no matter when the
// suite runs.
func (s *MarketFlowSuite) tomorrowDate() string {
	loc, err := time.LoadLocation(s.Config.App.TimeZone)
	s.Require().NoError(err)
	return time.Now().In(loc).AddDate(0, 0, 1).Format("2006-01-02")
}

func (s *MarketFlowSuite) createListing(seller marketActor, minPrice int32) string {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/listings",
		map[string]any{"meal_date": s.tomorrowDate(), "meal_type": "dinner", "min_price": minPrice},
		seller.Token)

	var body map[string]string
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
	s.Require().NotEmpty(body["id"])
	return body["id"]
}

func (s *MarketFlowSuite) placeBid(buyer marketActor, listingID string, price int32) string {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/listings/"+listingID+"/bids",
		map[string]any{"price": price}, buyer.Token)

	var body map[string]string
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
	return body["id"]
}

func (s *MarketFlowSuite) listingDetail(actor marketActor, listingID string) map[string]any {
	rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/listings/"+listingID, nil, actor.Token)
	var body map[string]any
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	return body
}

func (s *MarketFlowSuite) TestSettlementFlow() {
	s.Run("a bid is placed, accepted, paid, and settled", func() {
		seller := s.newActor("2023CS10100", "Seller Singh")
		buyer := s.newActor("2023CS10200", "Buyer Basu")

		listingID := s.createListing(seller, 60)
		bidID := s.placeBid(buyer, listingID, 45)

		detail := s.listingDetail(buyer, listingID)
		s.Equal(E2EMess, detail["mess"])
		s.Equal(float64(1), detail["bidCount"])
		s.Equal(float64(45), detail["topBid"])
		s.Equal(false, detail["isOwn"])

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/listings/"+listingID+"/bids/"+bidID+"/accept", nil, seller.Token)
		s.Equal(http.StatusNoContent, rec.Code)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/listings/"+listingID+"/bids/"+bidID+"/pay", nil, seller.Token)
		s.Equal(http.StatusNoContent, rec.Code)

		// The listing is gone from the open market
		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/listings", nil, buyer.Token)
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq("[]", rec.Body.String())

		// The buyer holds a redeemable purchase
		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/purchases/active", nil, buyer.Token)
		var purchases []map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &purchases)
		s.Require().Len(purchases, 1)
		s.Equal(E2EToken, purchases[0]["redemptionToken"])
		s.Equal(E2EMess, purchases[0]["mess"])
		s.Equal(float64(45), purchases[0]["soldPrice"])
		s.Equal("Seller Singh", purchases[0]["sellerName"])

		// Both sides see the sale in their history
		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/transactions", nil, seller.Token)
		var sellerTxns []map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &sellerTxns)
		s.Require().Len(sellerTxns, 1)
		s.Equal("sold", sellerTxns[0]["role"])
		s.Equal("Buyer Basu", sellerTxns[0]["counterpartyName"])
		s.Equal(float64(45), sellerTxns[0]["soldPrice"])
		s.Equal(float64(60), sellerTxns[0]["listingPrice"])

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/transactions", nil, buyer.Token)
		var buyerTxns []map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &buyerTxns)
		s.Require().Len(buyerTxns, 1)
		s.Equal("bought", buyerTxns[0]["role"])
		s.Equal("Seller Singh", buyerTxns[0]["counterpartyName"])

		// Paying again hits a listing that no longer exists
		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/listings/"+listingID+"/bids/"+bidID+"/pay", nil, seller.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Listing not found")
	})

	s.Run("accepting a second bid moves the acceptance", func() {
		seller := s.newActor("2023CS10100", "Seller Singh")
		alice := s.newActor("2023CS10201", "Alice")
		bob := s.newActor("2023CS10202", "Bob")

		listingID := s.createListing(seller, 50)
		aliceBid := s.placeBid(alice, listingID, 40)
		bobBid := s.placeBid(bob, listingID, 48)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/listings/"+listingID+"/bids/"+aliceBid+"/accept", nil, seller.Token)
		s.Equal(http.StatusNoContent, rec.Code)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/listings/"+listingID+"/bids/"+bobBid+"/accept", nil, seller.Token)
		s.Equal(http.StatusNoContent, rec.Code)

		detail := s.listingDetail(seller, listingID)
		bidsJSON, err := json.Marshal(detail["bids"])
		s.Require().NoError(err)
		var bids []map[string]any
		s.Require().NoError(json.Unmarshal(bidsJSON, &bids))
		s.Require().Len(bids, 2)

		accepted := map[string]bool{}
		for _, b := range bids {
			accepted[b["id"].(string)] = b["accepted"].(bool)
		}
		s.False(accepted[aliceBid])
		s.True(accepted[bobBid])
	})

	s.Run("concurrent accepts leave exactly one accepted bid", func() {
		seller := s.newActor("2023CS10100", "Seller Singh")
		alice := s.newActor("2023CS10201", "Alice")
		bob := s.newActor("2023CS10202", "Bob")

		listingID := s.createListing(seller, 50)
		bids := []string{
			s.placeBid(alice, listingID, 40),
			s.placeBid(bob, listingID, 48),
		}

		var wg sync.WaitGroup
		for i := range 10 {
			wg.Add(1)
			go func(bidID string) {
				defer wg.Done()
				httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
					"/api/listings/"+listingID+"/bids/"+bidID+"/accept", nil, seller.Token)
			}(bids[i%2])
		}
		wg.Wait()

		var accepted int
		s.Require().NoError(s.DB.QueryRow(context.Background(),
			"SELECT count(*) FROM bids WHERE listing_id = $1 AND accepted", listingID).Scan(&accepted))
		s.Equal(1, accepted)
	})

	s.Run("an accepted bid cannot be withdrawn", func() {
		seller := s.newActor("2023CS10100", "Seller Singh")
		buyer := s.newActor("2023CS10200", "Buyer Basu")

		listingID := s.createListing(seller, 50)
		bidID := s.placeBid(buyer, listingID, 45)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/listings/"+listingID+"/bids/"+bidID+"/accept", nil, seller.Token)
		s.Equal(http.StatusNoContent, rec.Code)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodDelete,
			"/api/bids/"+bidID, nil, buyer.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "An accepted bid cannot be withdrawn")
	})

	s.Run("cancelling an acceptance reopens the listing", func() {
		seller := s.newActor("2023CS10100", "Seller Singh")
		buyer := s.newActor("2023CS10200", "Buyer Basu")

		listingID := s.createListing(seller, 50)
		bidID := s.placeBid(buyer, listingID, 45)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/listings/"+listingID+"/bids/"+bidID+"/accept", nil, seller.Token)
		s.Equal(http.StatusNoContent, rec.Code)

		rec = httptest.PerformRequest(s.T(), s.Router, http.MethodDelete,
			"/api/listings/"+listingID+"/bids/"+bidID+"/accept", nil, seller.Token)
		s.Equal(http.StatusNoContent, rec.Code)

		detail := s.listingDetail(seller, listingID)
		s.Equal(false, detail["hasAcceptedBid"])
		s.Equal(float64(0), detail["bidCount"])
	})

	s.Run("settlement tells both sides", func() {
		seller := s.newActor("2023CS10100", "Seller Singh")
		buyer := s.newActor("2023CS10200", "Buyer Basu")

		listingID := s.createListing(seller, 60)
		bidID := s.placeBid(buyer, listingID, 45)

		for _, step := range []string{"accept", "pay"} {
			rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
				"/api/listings/"+listingID+"/bids/"+bidID+"/"+step, nil, seller.Token)
			s.Equal(http.StatusNoContent, rec.Code)
		}

		for actor, wantTypes := range map[marketActor][]string{
			buyer:  {"bid_accepted", "payment_confirmed"},
			seller: {"bid_placed", "sale_recorded"},
		} {
			rec := httptest.PerformRequest(s.T(), s.Router, http.MethodGet, "/api/notifications", nil, actor.Token)
			var feed map[string]any
			httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &feed)

			got := map[string]bool{}
			for _, raw := range feed["notifications"].([]any) {
				got[raw.(map[string]any)["type"].(string)] = true
			}
			for _, want := range wantTypes {
				s.True(got[want], "missing %s notification", want)
			}
		}
	})

	s.Run("only the seller can run settlement steps", func() {
		seller := s.newActor("2023CS10100", "Seller Singh")
		buyer := s.newActor("2023CS10200", "Buyer Basu")

		listingID := s.createListing(seller, 50)
		bidID := s.placeBid(buyer, listingID, 45)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/listings/"+listingID+"/bids/"+bidID+"/accept", nil, buyer.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "Only the seller can do this")
	})

	s.Run("paying an unaccepted bid conflicts", func() {
		seller := s.newActor("2023CS10100", "Seller Singh")
		buyer := s.newActor("2023CS10200", "Buyer Basu")

		listingID := s.createListing(seller, 50)
		bidID := s.placeBid(buyer, listingID, 45)

		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost,
			"/api/listings/"+listingID+"/bids/"+bidID+"/pay", nil, seller.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "Bid is not accepted")
	})

	s.Run("a second listing for the same slot conflicts", func() {
		seller := s.newActor("2023CS10100", "Seller Singh")

		s.createListing(seller, 50)
		rec := httptest.PerformRequest(s.T(), s.Router, http.MethodPost, "/api/listings",
			map[string]any{"meal_date": s.tomorrowDate(), "meal_type": "dinner", "min_price": 70},
			seller.Token)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "You already listed this slot")
	})
}
