package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventhub/internal/services"
)

type inactivityRunner interface {
	Run(ctx context.Context) (services.InactivityRunResult, error)
}

type digestRunner interface {
	Run(ctx context.Context) (int, error)
}

// JobsHandler lets admins trigger the scheduled jobs on demand.
type JobsHandler struct {
	inactivity inactivityRunner
	digest     digestRunner
}

func NewJobsHandler(inactivity inactivityRunner, digest digestRunner) *JobsHandler {
	return &JobsHandler{inactivity: inactivity, digest: digest}
}

// @Summary  Run the inactivity check now
// @Tags     Jobs
// @Produce  json
// @Success  200  {object}  services.InactivityRunResult
// @Router   /api/jobs/inactivity-check [post]
func (h *JobsHandler) RunInactivityCheck(c *gin.Context) {
	res, err := h.inactivity.Run(c.Request.Context())
	if err != nil {
		respondError(c, "jobs", "inactivity", err)
		return
	}
	log.Printf("[jobs][inactivity][ok] rid=%s notified=%d", requestID(c), res.Notified)
	c.JSON(http.StatusOK, res)
}

// @Summary  Send today's pending-task digest now
// @Tags     Jobs
// @Produce  json
// @Success  200  {object}  map[string]int
// @Router   /api/jobs/pending-digest [post]
func (h *JobsHandler) RunPendingDigest(c *gin.Context) {
	sent, err := h.digest.Run(c.Request.Context())
	if err != nil {
		respondError(c, "jobs", "digest", err)
		return
	}
	log.Printf("[jobs][digest][ok] rid=%s sent=%d", requestID(c), sent)
	c.JSON(http.StatusOK, gin.H{"departmentsNotified": sent})
}
