package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/squadworks/backoffice/internal/syncer"
)

// triggerSync runs a reconciliation job on demand. Per-item failures are
// part of the summary and still yield a 200; only total inability to run
// (missing credentials) surfaces as a 5xx.
func triggerSync(job SyncJob) gin.HandlerFunc {
	return func(c *gin.Context) {
		if job == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": syncer.ErrNotConfigured.Error()})
			return
		}

		sum, err := job.Run(c.Request.Context())
		if err != nil {
			if errors.Is(err, syncer.ErrNotConfigured) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, sum)
	}
}
