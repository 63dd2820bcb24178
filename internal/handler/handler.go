package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Lucifer-FallenAngel/cmoon-chat-appliction/pkg/errors"
)

// respondError maps the application error taxonomy onto HTTP statuses.
// A blocked send must be distinguishable from a generic failure, so
// BLOCKED gets its own 403 with the code in the body.
func respondError(c *gin.Context, err error) {
	code := apperrors.CodeOf(err)

	status := http.StatusInternalServerError
	switch code {
	case apperrors.CodeInvalidArgument:
		status = http.StatusBadRequest
	case apperrors.CodeBlocked:
		status = http.StatusForbidden
	case apperrors.CodeNotFound:
		status = http.StatusNotFound
	case apperrors.CodeUnavailable:
		status = http.StatusServiceUnavailable
	}

	message := err.Error()
	if appErr, ok := err.(*apperrors.AppError); ok {
		message = appErr.Message
	}

	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
