package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/config"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/reporting"
	client "github.com/Mohan-0108/KSM-ENTERPRIES/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// ErrNoRecipient is returned by Notify when no owner number is configured.
var ErrNoRecipient = errors.New("no whatsapp owner number configured")

// MessagingService describes the operations the HTTP layer can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// Notifier pushes a text to the business owner.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}

// NopNotifier drops notifications; it is used when WhatsApp is not configured.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(context.Context, string) error { return nil }

// InventoryQueries answers the read-only chat questions.
type InventoryQueries interface {
	FindProduct(term string) (models.Product, bool)
	LowStock() []models.Product
	TopSellers(limit int) []reporting.TopSeller
	FormatAmount(amount decimal.Decimal) string
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg     config.WhatsAppConfig
	client  client.Client
	queries InventoryQueries
	logger  *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, queries InventoryQueries, logger *zap.Logger) *MetaWhatsAppService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaWhatsAppService{
		cfg:     cfg,
		client:  client,
		queries: queries,
		logger:  logger,
	}
}

const helpText = `StockFlow commands:
stock <sku or name> - stock level and prices of a product
low - products running low
top - best selling products
help - this message`

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if s.cfg.VerifyToken == "" || verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook answers every inbound message of the payload.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	if s.cfg.OwnerID != "" && msg.From != s.cfg.OwnerID {
		s.logger.Warn("ignoring message from unknown sender", zap.String("from", msg.From))
		return nil
	}

	text := extractMessageText(msg)
	if text == "" {
		s.logger.Debug("ignoring message without text", zap.String("type", msg.Type))
		return nil
	}

	query := models.ParseQuery(text)
	s.logger.Info("parsed inbound query",
		zap.String("from", msg.From),
		zap.String("query", string(query.Type)),
		zap.Strings("args", query.Args))

	return s.send(ctx, msg.From, s.Answer(query))
}

// Answer builds the reply to a chat query.
func (s *MetaWhatsAppService) Answer(query models.Query) string {
	switch query.Type {
	case models.QueryStock:
		if len(query.Args) == 0 {
			return "Usage: stock <sku or name>"
		}
		term := strings.Join(query.Args, " ")
		p, ok := s.queries.FindProduct(term)
		if !ok {
			return fmt.Sprintf("No product matches %q.", term)
		}
		return fmt.Sprintf("%s (%s): %d in stock. Buy %s, sell %s.",
			p.Name, p.SKU, p.CurrentStock, s.queries.FormatAmount(p.DefaultBuyPrice), s.queries.FormatAmount(p.DefaultSellPrice))
	case models.QueryLow:
		low := s.queries.LowStock()
		if len(low) == 0 {
			return fmt.Sprintf("All products have at least %d units in stock.", reporting.LowStockThreshold)
		}
		lines := []string{"Low stock:"}
		for _, p := range low {
			lines = append(lines, fmt.Sprintf("- %s (%s): %d", p.Name, p.SKU, p.CurrentStock))
		}
		return strings.Join(lines, "\n")
	case models.QueryTop:
		top := s.queries.TopSellers(reporting.DefaultTopSellers)
		if len(top) == 0 {
			return "No sales recorded yet."
		}
		lines := []string{"Top sellers:"}
		for i, t := range top {
			lines = append(lines, fmt.Sprintf("%d. %s: %d sold", i+1, t.Name, t.Quantity))
		}
		return strings.Join(lines, "\n")
	case models.QueryHelp:
		return helpText
	default:
		return "Unknown command.\n" + helpText
	}
}

// Notify sends text to the configured owner number.
func (s *MetaWhatsAppService) Notify(ctx context.Context, text string) error {
	if s.cfg.OwnerID == "" {
		return ErrNoRecipient
	}
	return s.send(ctx, s.cfg.OwnerID, text)
}

// SendOutbound lets the operator push a message through the HTTP API. An empty recipient means the owner.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	if req.To == "" {
		return s.Notify(ctx, req.Message)
	}
	return s.send(ctx, req.To, req.Message)
}

func (s *MetaWhatsAppService) send(ctx context.Context, to, body string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{To: to, Body: body})
	return err
}

func extractMessageText(msg models.InboundMessage) string {
	if msg.Text != nil {
		return msg.Text.Body
	}

	if msg.Interactive != nil {
		if msg.Interactive.ButtonReply != nil {
			return msg.Interactive.ButtonReply.ID
		}
		if msg.Interactive.ListReply != nil {
			return msg.Interactive.ListReply.ID
		}
	}

	return ""
}
