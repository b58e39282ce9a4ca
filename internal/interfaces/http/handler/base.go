package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/shopbridge/backend/internal/domain/marketplace"
	"github.com/shopbridge/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with an explicit code
func (h *BaseHandler) Error(c *gin.Context, code, message string) {
	c.JSON(dto.HTTPStatusForCode(code), dto.NewErrorResponse(code, message))
}

// DomainError maps a marketplace error to the matching HTTP response
func (h *BaseHandler) DomainError(c *gin.Context, err error) {
	code := dto.ErrCodeInternal
	switch {
	case errors.Is(err, marketplace.ErrConnectionNotFound),
		errors.Is(err, marketplace.ErrOrderNotFound),
		errors.Is(err, marketplace.ErrProductNotFound):
		code = dto.ErrCodeNotFound
	case errors.Is(err, marketplace.ErrOrderNotShippable):
		code = dto.ErrCodeInvalidState
	case errors.Is(err, marketplace.ErrNotConnected):
		code = dto.ErrCodeNotConnected
	case errors.Is(err, marketplace.ErrAuthFailed):
		code = dto.ErrCodeAuthFailed
	case errors.Is(err, marketplace.ErrSyncInProgress):
		code = dto.ErrCodeSyncInProgress
	case errors.Is(err, marketplace.ErrRemoteUnavailable):
		code = dto.ErrCodeRemoteUnavailable
	case errors.Is(err, marketplace.ErrRemoteRejected):
		code = dto.ErrCodeRemoteRejected
	case errors.Is(err, marketplace.ErrItemMapping):
		code = dto.ErrCodeValidation
	}
	c.JSON(dto.HTTPStatusForCode(code), dto.NewErrorResponse(code, err.Error()))
}
