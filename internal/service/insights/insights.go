// Package insights produces a free-text executive summary of the business through a text generation service.
package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
)

const (
	// ErrorFallback is shown when the summary could not be produced.
	ErrorFallback = "Error generating analysis. Please check your API key and try again."
	// EmptyFallback is shown when the service answered with no text.
	EmptyFallback = "No analysis could be generated at this time."

	maxRecentSales = 50
	dateLayout     = "2006-01-02"
)

// SystemInstruction frames the analysis requested from the text service.
const SystemInstruction = `
You are a senior business analyst for a retail inventory management system.
Analyze the provided JSON data containing product lists and transaction history.
Provide a concise executive summary consisting of:
1. Best performing products (by quantity sold).
2. Stock alerts (items with low or high inventory compared to sales).
3. A strategic pricing recommendation based on margins.
4. A general business health sentiment (Positive, Neutral, Negative) with a short reason.
Keep the output valid markdown, bulleted, and professional.
`

// Summarizer turns a prompt into generated text.
type Summarizer interface {
	Summarize(ctx context.Context, systemPrompt, userContent string) (string, error)
}

// ProductProjection is the reduced product sent to the text service.
type ProductProjection struct {
	Name  string          `json:"name"`
	Stock int             `json:"stock"`
	Buy   decimal.Decimal `json:"buy"`
	Sell  decimal.Decimal `json:"sell"`
}

// SaleProjection is the reduced outward transaction sent to the text service.
type SaleProjection struct {
	Date  string   `json:"date"`
	Items []string `json:"items"`
}

// Projection is the payload sent to the text service.
type Projection struct {
	Products    []ProductProjection `json:"products"`
	RecentSales []SaleProjection    `json:"recentSales"`
}

// BuildProjection reduces the state to every product and the first 50 outward transactions in log order.
func BuildProjection(data models.AppData) Projection {
	p := Projection{
		Products:    make([]ProductProjection, 0, len(data.Products)),
		RecentSales: []SaleProjection{},
	}
	for _, product := range data.Products {
		p.Products = append(p.Products, ProductProjection{
			Name:  product.Name,
			Stock: product.CurrentStock,
			Buy:   product.DefaultBuyPrice,
			Sell:  product.DefaultSellPrice,
		})
	}
	for _, tx := range data.Transactions {
		if tx.Type != models.Outward {
			continue
		}
		if len(p.RecentSales) == maxRecentSales {
			break
		}
		items := make([]string, 0, len(tx.Items))
		for _, item := range tx.Items {
			items = append(items, fmt.Sprintf("%s (x%d)", item.ProductName, item.Quantity))
		}
		p.RecentSales = append(p.RecentSales, SaleProjection{Date: tx.Date.UTC().Format(dateLayout), Items: items})
	}
	return p
}

// Service asks the configured Summarizer for an analysis. A nil summarizer means no credential is configured.
type Service struct {
	summarizer Summarizer
	logger     *zap.Logger
}

// NewService builds an insights service.
func NewService(summarizer Summarizer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{summarizer: summarizer, logger: logger}
}

// Analyze returns the summary text, or one of the fallback texts. It never fails.
func (s *Service) Analyze(ctx context.Context, data models.AppData) string {
	if s.summarizer == nil {
		s.logger.Warn("analysis requested without an API key")
		return ErrorFallback
	}

	payload, err := json.Marshal(BuildProjection(data))
	if err != nil {
		s.logger.Error("failed to encode analysis context", zap.Error(err))
		return ErrorFallback
	}

	text, err := s.summarizer.Summarize(ctx, SystemInstruction, "Here is the current business data: "+string(payload))
	if err != nil {
		s.logger.Error("analysis failed", zap.Error(err))
		return ErrorFallback
	}
	if strings.TrimSpace(text) == "" {
		return EmptyFallback
	}
	return text
}
