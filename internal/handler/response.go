package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	apperrors "marketplace/internal/errors"
	"marketplace/internal/logging"
)

var errMalformedBody = fmt.Errorf("%w: malformed request body", apperrors.ErrInvalidInput)

// MessageResponse is returned by operations that have nothing else to report.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError converts err to the JSON error body. Internal failures are
// logged with the request id; their details never reach the client.
func respondError(c echo.Context, log logging.Logger, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.IsInternal() {
		log.Error(c.Request().Context(), "request failed",
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// bindAndValidate decodes the request into req and runs the struct validator.
// Validation failures name the offending JSON fields.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errMalformedBody
	}
	return validate(c, req)
}

func validate(c echo.Context, req interface{}) error {
	err := c.Validate(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		return apperrors.NewValidationError(fields...)
	}
	return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
}
