//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"mess-market/internal/handler/api"
	resdto "mess-market/internal/handler/dto/response"
	"mess-market/internal/usecase/commands"
	"mess-market/internal/usecase/queries"
	"mess-market/internal/usecase/shared"
	"mess-market/tests/common/builder"
	"mess-market/tests/common/httptest"
	"mess-market/tests/common/testutil"
	commandsmock "mess-market/tests/mock/commands"
	queriesmock "mess-market/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ListingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockListingCommands
	mockQueries  *queriesmock.MockListingQueries
	handler      *api.ListingHandler
	userID       uuid.UUID
}

func (s *ListingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockListingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockListingQueries(s.mockCtrl)
	s.handler = api.NewListingHandler(s.mockCommands, s.mockQueries)
	s.userID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Next()
	}

	s.router.GET("/listings", authMiddleware, s.handler.List)
	s.router.GET("/listings/mine", authMiddleware, s.handler.Mine)
	s.router.POST("/listings", authMiddleware, s.handler.Create)
	s.router.GET("/listings/:id", authMiddleware, s.handler.Get)
	s.router.PUT("/listings/:id/price", authMiddleware, s.handler.UpdatePrice)
	s.router.DELETE("/listings/:id", authMiddleware, s.handler.Delete)
}

func (s *ListingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestListingHandlerSuite(t *testing.T) {
	suite.Run(t, new(ListingHandlerTestSuite))
}

func (s *ListingHandlerTestSuite) TestCreate() {
	url := "/listings"
	reqBody := builder.NewListingBuilder().BuildCreateRequestDTO()
	listingID := uuid.New()

	s.Run("201 Created for a valid request", func() {
		s.mockCommands.EXPECT().
			Create(gomock.Any(), s.userID, gomock.Any(), gomock.Any(), reqBody.MinPrice).
			Return(listingID, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")

		var body map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(listingID.String(), body["id"])
	})

	s.Run("401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("400 on malformed input", func() {
		cases := []struct {
			name   string
			mutate func(map[string]any)
		}{
			{"missing meal_date", testutil.Field("meal_date", nil)},
			{"missing meal_type", testutil.Field("meal_type", nil)},
			{"bad date format", testutil.Field("meal_date", "14-03-2026")},
			{"unknown meal type", testutil.Field("meal_type", "brunch")},
			{"negative price", testutil.Field("min_price", -5)},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				body := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("command errors map to statuses", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{"expired credential", shared.ErrCredentialExpired, http.StatusUnauthorized},
			{"not registered for slot", shared.ErrNotRegistered, http.StatusUnprocessableEntity},
			{"slot already passed", commands.ErrListingExpired, http.StatusUnprocessableEntity},
			{"slot already listed", commands.ErrDuplicateListing, http.StatusConflict},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().
					Create(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(uuid.Nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})
}

func (s *ListingHandlerTestSuite) TestList() {
	s.Run("200 with open listings", func() {
		items := []*queries.ListingListItem{
			builder.NewListingBuilder().BuildListItem(),
			builder.NewListingBuilder().BuildListItem(),
		}
		s.mockQueries.EXPECT().OpenListings(gomock.Any(), s.userID).Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/listings", nil, "token")

		var body []resdto.ListingResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 2)
		s.Equal(items[0].ID, body[0].ID)
		s.Equal(items[0].MealDate, body[0].MealDate)
	})

	s.Run("200 with empty array", func() {
		s.mockQueries.EXPECT().OpenListings(gomock.Any(), s.userID).
			Return([]*queries.ListingListItem{}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/listings", nil, "token")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq("[]", rec.Body.String())
	})
}

func (s *ListingHandlerTestSuite) TestGet() {
	s.Run("200 with bids attached", func() {
		item := builder.NewListingBuilder().BuildListItem()
		detail := &queries.ListingDetailView{
			ListingListItem: *item,
			Bids: []*queries.ListingBidItem{
				{ID: uuid.New(), BuyerID: uuid.New(), BuyerName: "Buyer", Price: 45},
			},
		}
		s.mockQueries.EXPECT().GetByID(gomock.Any(), s.userID, item.ID).Return(detail, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/listings/"+item.ID.String(), nil, "token")

		var body resdto.ListingDetailResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(item.ID, body.ID)
		s.Len(body.Bids, 1)
		s.Equal(int32(45), body.Bids[0].Price)
	})

	s.Run("400 on a malformed id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/listings/not-a-uuid", nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}

func (s *ListingHandlerTestSuite) TestUpdatePrice() {
	listingID := uuid.New()
	url := "/listings/" + listingID.String() + "/price"
	reqBody := map[string]any{"min_price": 75}

	cases := []struct {
		name       string
		err        error
		expectCode int
	}{
		{"204 on success", nil, http.StatusNoContent},
		{"404 unknown listing", commands.ErrListingNotFound, http.StatusNotFound},
		{"403 not the seller", commands.ErrNotSeller, http.StatusForbidden},
		{"409 price frozen by accepted bid", commands.ErrListingLocked, http.StatusConflict},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.mockCommands.EXPECT().
				UpdateMinPrice(gomock.Any(), s.userID, listingID, int32(75)).
				Return(tc.err).Times(1)

			rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "token")
			s.Equal(tc.expectCode, rec.Code)
		})
	}
}

func (s *ListingHandlerTestSuite) TestDelete() {
	listingID := uuid.New()
	url := "/listings/" + listingID.String()

	s.Run("204 on success", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), s.userID, listingID).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("403 not the seller", func() {
		s.mockCommands.EXPECT().Delete(gomock.Any(), s.userID, listingID).
			Return(commands.ErrNotSeller).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusForbidden, "")
	})
}
