package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/checkout"
)

// CartService is the cart and checkout surface.
type CartService interface {
	Cart(direction models.Direction) (checkout.CartView, error)
	AddToCart(direction models.Direction, productID string, quantity int, priceOverride string) (checkout.CartView, error)
	RemoveFromCart(direction models.Direction, index int) (checkout.CartView, error)
	ClearCart(direction models.Direction) error
	Checkout(ctx context.Context, direction models.Direction, contactID, notes string) (models.Transaction, error)
}

// CartHandler serves the inward and outward carts.
type CartHandler struct {
	svc    CartService
	logger *zap.Logger
}

// NewCartHandler constructs the HTTP handler adapter.
func NewCartHandler(svc CartService, logger *zap.Logger) *CartHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartHandler{svc: svc, logger: logger}
}

type addLineRequest struct {
	ProductID     string      `json:"productId" binding:"required"`
	Quantity      int         `json:"quantity"`
	PriceOverride looseString `json:"priceOverride"`
}

type checkoutRequest struct {
	ContactID string `json:"contactId" binding:"required"`
	Notes     string `json:"notes"`
}

func (h *CartHandler) direction(c *gin.Context) (models.Direction, bool) {
	direction, err := models.ParseDirection(c.Param("direction"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return direction, true
}

// Get returns the cart lines and total.
func (h *CartHandler) Get(c *gin.Context) {
	direction, ok := h.direction(c)
	if !ok {
		return
	}
	view, err := h.svc.Cart(direction)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// AddLine adds or merges a line.
func (h *CartHandler) AddLine(c *gin.Context) {
	direction, ok := h.direction(c)
	if !ok {
		return
	}
	var req addLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	view, err := h.svc.AddToCart(direction, req.ProductID, req.Quantity, string(req.PriceOverride))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// RemoveLine drops the line at :index.
func (h *CartHandler) RemoveLine(c *gin.Context) {
	direction, ok := h.direction(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "line index must be a number"})
		return
	}

	view, err := h.svc.RemoveFromCart(direction, index)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Clear empties the cart.
func (h *CartHandler) Clear(c *gin.Context) {
	direction, ok := h.direction(c)
	if !ok {
		return
	}
	if err := h.svc.ClearCart(direction); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Checkout commits the cart and applies it to the stock.
func (h *CartHandler) Checkout(c *gin.Context) {
	direction, ok := h.direction(c)
	if !ok {
		return
	}
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	tx, err := h.svc.Checkout(c.Request.Context(), direction, req.ContactID, req.Notes)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}
