package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/etec-programacion-3/programacion-3-2025-serrano-JuliSerraaa/pkg/errors"
)

// fail translates an error into the API's error envelope. Domain errors keep
// their message; anything else is logged and answered with a generic 500 so
// storage details never reach the client.
func fail(c *gin.Context, log *slog.Logger, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		c.JSON(apperrors.HTTPStatus(appErr.Code), gin.H{"message": appErr.Message})
		return
	}
	if log != nil {
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "err", err)
	}
	c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body", "error": err.Error()})
}
