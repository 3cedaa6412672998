package httperror

import (
	"catalog/domain"
	"catalog/pkg/validation"
	"errors"

	"go.uber.org/zap"
)

// FromError translates a service error into an HTTP error. code is the dotted
// operation prefix, e.g. "product.update".
func FromError(code string, err error) *Error {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr
	}

	var ve *validation.Error
	if errors.As(err, &ve) {
		return UnprocessableEntity(code+".validation_failed", "Validation failed.", ve.Fields)
	}

	if errors.Is(err, domain.ErrNotFound) {
		return NotFound(code+".not_found", "Resource not found.", nil)
	}

	if errors.Is(err, domain.ErrUnavailable) {
		return ServiceUnavailable(code+".unavailable", "Service temporarily unavailable.", nil)
	}

	zap.L().Error("Unexpected service error", zap.String("code", code), zap.Error(err))
	return InternalServerError("internal_server_error", "Internal server error.", nil)
}
