// Package handlers exposes the HTTP surface of the marketplace core.
// Handlers translate between the JSON contract and application
// services; all lifecycle rules live below this layer.
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Pratik980/GharNirman-sub000/internal/domainerrors"
	"github.com/Pratik980/GharNirman-sub000/pkg/response"
)

// writeDomainError maps the domain error taxonomy onto HTTP statuses.
// ErrConflict means a stale expected-status guard lost the race (409);
// ErrInvalidTransition means the request asked for something the
// lifecycle forbids (400).
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domainerrors.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, domainerrors.ErrConflict):
		response.Conflict(c, err.Error())
	case errors.Is(err, domainerrors.ErrInvalidTransition):
		response.BadRequest(c, err.Error(), nil)
	default:
		response.InternalError(c, "internal error")
	}
}
