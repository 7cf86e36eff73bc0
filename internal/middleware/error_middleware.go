package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/minilms/minilms/internal/app/models/dto"
	"github.com/minilms/minilms/internal/pkg/apperrors"
	"github.com/minilms/minilms/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	if ve, ok := apperrors.AsValidationError(err); ok {
		abortWithError(c, http.StatusBadRequest, dto.NewValidationErrorDetail(ve))
		return
	}

	message := err.Error()

	switch {
	case errors.Is(err, apperrors.ErrResourceNotFound):
		abortWithError(c, http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message))
	case errors.Is(err, apperrors.ErrValidationFailed):
		abortWithError(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message))
	case errors.Is(err, apperrors.ErrBadRequest):
		abortWithError(c, http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeBadRequest, message))
	case errors.Is(err, apperrors.ErrResourceAlreadyExists):
		abortWithError(c, http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, message))
	case errors.Is(err, apperrors.ErrConflict):
		abortWithError(c, http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, message))
	default:
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("Unhandled request error")
		abortWithError(c, http.StatusInternalServerError,
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"))
	}
}

// HandleInvalidID responds 400 for a path parameter that is not a positive integer.
func HandleInvalidID(c *gin.Context, name string) {
	detail := dto.NewErrorDetail(dto.ErrorCodeBadRequest, "Invalid "+name).
		WithField(name).
		WithDetails(name + " must be a positive integer")
	abortWithError(c, http.StatusBadRequest, detail)
}

func abortWithError(c *gin.Context, status int, detail *dto.ErrorDetail) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}
