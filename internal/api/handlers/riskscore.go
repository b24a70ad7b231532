package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/maxesser1776/mcf-dashboard/internal/riskscore"
	"github.com/maxesser1776/mcf-dashboard/internal/store"
)

// RiskScoreHandler serves the composite macro risk score.
type RiskScoreHandler struct {
	store  riskscore.Loader
	logger *logrus.Logger
}

func NewRiskScoreHandler(st riskscore.Loader, logger *logrus.Logger) *RiskScoreHandler {
	return &RiskScoreHandler{store: st, logger: logger}
}

// Latest recomputes the score from the current processed files and returns
// the most recent reading. When input files are missing or share no dates
// the score is simply unavailable, not an internal error.
func (h *RiskScoreHandler) Latest(c *gin.Context) {
	snapshot, err := riskscore.Latest(h.store)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) || errors.Is(err, riskscore.ErrNoOverlap) {
			c.JSON(http.StatusNotFound, gin.H{"error": "macro risk score unavailable: " + err.Error()})
			return
		}
		h.logger.WithError(err).Error("failed to compute macro risk score")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute macro risk score"})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
