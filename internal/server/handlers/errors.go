package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/cart"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/checkout"
)

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, cart.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, cart.ErrUnknownProduct), errors.Is(err, checkout.ErrUnknownContact), errors.Is(err, cart.ErrLineIndex):
		return http.StatusNotFound
	case errors.Is(err, cart.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, cart.ErrEmptyCart), errors.Is(err, checkout.ErrRoleMismatch):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	body := gin.H{"error": err.Error()}
	var stockErr *cart.InsufficientStockError
	if errors.As(err, &stockErr) {
		body["available"] = stockErr.Available
		body["requested"] = stockErr.Requested
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Debug("invalid request body", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

// looseString accepts a JSON string or a bare JSON number.
type looseString string

func (s *looseString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = looseString(str)
		return nil
	}
	*s = looseString(b)
	return nil
}
