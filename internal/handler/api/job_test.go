//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"mess-market/internal/handler/api"
	"mess-market/internal/pkg/config"
	"mess-market/tests/common/httptest"
	commandsmock "mess-market/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type JobHandlerTestSuite struct {
	suite.Suite
	router    *gin.Engine
	mockCtrl  *gomock.Controller
	mockSweep *commandsmock.MockSweepCommands
}

func (s *JobHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockSweep = commandsmock.NewMockSweepCommands(s.mockCtrl)

	handler := api.NewJobHandler(s.mockSweep, config.NewTestConfig().Sweep)
	s.router.POST("/jobs/expiry-sweep", handler.ExpirySweep)
}

func (s *JobHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestJobHandlerSuite(t *testing.T) {
	suite.Run(t, new(JobHandlerTestSuite))
}

// The test config's hash is bcrypt("password").
const testSweepSecret = "password"

func (s *JobHandlerTestSuite) TestExpirySweep() {
	url := "/jobs/expiry-sweep"

	s.Run("200 with the number of deleted listings", func() {
		s.mockSweep.EXPECT().Sweep(gomock.Any()).Return(3, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]string{"secret": testSweepSecret}, "")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(float64(3), body["deleted"])
	})

	s.Run("200 none found when nothing expired", func() {
		s.mockSweep.EXPECT().Sweep(gomock.Any()).Return(0, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]string{"secret": testSweepSecret}, "")

		var body map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("none found", body["message"])
	})

	s.Run("401 on a wrong secret, sweep never runs", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]string{"secret": "wrong"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "")
	})

	s.Run("400 on a missing secret", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]string{}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}
