package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/portfolio-site/internal/adapt"
	"github.com/jonathan/portfolio-site/internal/analysis"
	"github.com/jonathan/portfolio-site/internal/catalog"
	"github.com/jonathan/portfolio-site/internal/session"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		encodingErr   *analysis.EncodingError
		transportErr  *analysis.TransportError
		parseErr      *analysis.ParseError
		adaptErr      *adapt.ValidationError
		tooLarge      *http.MaxBytesError
	)

	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validationErr), errors.As(err, &encodingErr):
		return http.StatusBadRequest
	case errors.As(err, &adaptErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &transportErr), errors.As(err, &parseErr):
		return http.StatusBadGateway
	case errors.Is(err, session.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
