package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// respondError answers domain errors with 400 and their message; anything else is logged
// and answered with a generic 500.
func respondError(c *gin.Context, logger *zap.Logger, op string, err error) {
	if models.IsClientError(err) {
		logger.Warn(op+" rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "message": err.Error()})
		return
	}

	logger.Error(op+" failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "message": "internal error"})
}
