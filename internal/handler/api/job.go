package api

import (
	"net/http"

	reqdto "mess-market/internal/handler/dto/request"
	"mess-market/internal/handler/httperr"
	"mess-market/internal/pkg/config"
	"mess-market/internal/usecase/commands"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// JobHandler fronts operations triggered by the external cron, not by users.
type JobHandler struct {
	sweepCommands commands.SweepCommands
	sweepCfg      config.SweepConfig
}

func NewJobHandler(sweepCommands commands.SweepCommands, sweepCfg config.SweepConfig) *JobHandler {
	return &JobHandler{
		sweepCommands: sweepCommands,
		sweepCfg:      sweepCfg,
	}
}

// @Summary Run the expiry sweep
// @Description Deletes listings whose service window has closed; safe to re-run
// @Tags jobs
// @Accept json
// @Produce json
// @Param request body reqdto.SweepRequest true "Shared secret"
// @Success 200 {object} map[string]any
// @Failure 401 {object} httperr.Response
// @Router /jobs/expiry-sweep [post]
func (h *JobHandler) ExpirySweep(c *gin.Context) {
	var req reqdto.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.sweepCfg.SecretHash), []byte(req.Secret)); err != nil {
		httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid sweep secret", nil)
		return
	}

	deleted, err := h.sweepCommands.Sweep(c.Request.Context())
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Sweep failed", nil)
		return
	}

	if deleted == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "none found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
