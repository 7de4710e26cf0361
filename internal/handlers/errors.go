package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mustafajawed/Budget-Manager/internal/apperrors"
)

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondWithError maps the apperrors taxonomy onto HTTP statuses.
// Validation problems carry their message to the user; everything else
// gets a generic body so internals don't leak.
func respondWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientRemaining):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Expense exceeds remaining budget"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Resource not found"})
	case errors.Is(err, apperrors.ErrNoActiveSession):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "No active session, please log in again"})
	case errors.Is(err, apperrors.ErrAuth), errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid credentials"})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "Resource already exists"})
	case errors.Is(err, apperrors.ErrRemoteRead), errors.Is(err, apperrors.ErrRemoteWrite):
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Document store unavailable, please retry"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}
