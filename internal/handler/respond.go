package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"propchat/internal/apperror"
	"propchat/internal/model"
)

// respondError writes err as an {error, code} body with the matching status
func respondError(c *gin.Context, logger zerolog.Logger, err error) {
	appErr := apperror.As(err)
	status := appErr.HTTPStatus()

	event := logger.Warn()
	if status >= 500 {
		event = logger.Error()
	}
	event.Err(appErr.Err).
		Str("code", appErr.Code).
		Int("status", status).
		Str("path", c.FullPath()).
		Msg(appErr.Message)

	c.AbortWithStatusJSON(status, model.ErrorResponse{Error: appErr.Message, Code: appErr.Code})
}
