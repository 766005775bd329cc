package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/reporting"
)

// Catalog owns products and contacts.
type Catalog interface {
	Snapshot() models.AppData
	AddProduct(ctx context.Context, input models.NewProduct) (models.Product, error)
	AddContact(ctx context.Context, input models.NewContact) (models.Contact, error)
}

// Views provides the read-only aggregates.
type Views interface {
	Dashboard() reporting.Dashboard
	History() []models.Transaction
}

// Selector restricts products and contacts to the ones usable for a direction.
type Selector interface {
	SelectableProducts(direction models.Direction) []models.Product
	Counterparties(direction models.Direction) []models.Contact
}

// InventoryHandler serves the catalogue, contacts, history and dashboard.
type InventoryHandler struct {
	catalog  Catalog
	views    Views
	selector Selector
	logger   *zap.Logger
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(catalog Catalog, views Views, selector Selector, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{catalog: catalog, views: views, selector: selector, logger: logger}
}

// Dashboard returns the overview figures.
func (h *InventoryHandler) Dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.Dashboard())
}

// ListProducts returns the catalogue, or the products selectable for ?direction=.
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	if raw := c.Query("direction"); raw != "" {
		direction, err := models.ParseDirection(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, nonNil(h.selector.SelectableProducts(direction)))
		return
	}
	c.JSON(http.StatusOK, nonNil(h.catalog.Snapshot().Products))
}

// CreateProduct adds a product with zero stock.
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	product, err := h.catalog.AddProduct(c.Request.Context(), input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// ListContacts returns every contact, or those with ?role=.
func (h *InventoryHandler) ListContacts(c *gin.Context) {
	data := h.catalog.Snapshot()
	if raw := c.Query("role"); raw != "" {
		role, err := models.ParseRole(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, nonNil(data.ContactsByRole(role)))
		return
	}
	c.JSON(http.StatusOK, nonNil(data.Contacts))
}

// CreateContact adds a buyer or a seller.
func (h *InventoryHandler) CreateContact(c *gin.Context) {
	var input models.NewContact
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, h.logger, err)
		return
	}

	contact, err := h.catalog.AddContact(c.Request.Context(), input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, contact)
}

// ListTransactions returns the last 90 days of transactions, newest first.
func (h *InventoryHandler) ListTransactions(c *gin.Context) {
	c.JSON(http.StatusOK, h.views.History())
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
