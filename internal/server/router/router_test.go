package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/domain/models"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/ledger"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/repository"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/server/handlers"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/checkout"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/insights"
	"github.com/Mohan-0108/KSM-ENTERPRIES/internal/service/reporting"
)

type memoryRepository struct {
	data    *models.AppData
	saveErr error
}

func (m *memoryRepository) Load(context.Context) (*models.AppData, error) {
	if m.data == nil {
		return nil, repository.ErrStateNotFound
	}
	clone := m.data.Clone()
	return &clone, nil
}

func (m *memoryRepository) Save(_ context.Context, data *models.AppData) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	clone := data.Clone()
	m.data = &clone
	return nil
}

type stubMessaging struct {
	sent    []models.OutboundMessageRequest
	sendErr error
	handled int
}

func (s *stubMessaging) VerifyWebhookToken(mode, token, challenge string) (string, error) {
	if mode == "subscribe" && token == "secret" {
		return challenge, nil
	}
	return "", errors.New("verification failed")
}

func (s *stubMessaging) HandleWebhook(context.Context, models.WebhookPayload) error {
	s.handled++
	return errors.New("reply failed")
}

func (s *stubMessaging) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	s.sent = append(s.sent, req)
	return s.sendErr
}

type fixture struct {
	engine    http.Handler
	store     *ledger.Store
	repo      *memoryRepository
	messaging *stubMessaging
}

func newFixture(t *testing.T, withWebhook bool) *fixture {
	t.Helper()
	repo := &memoryRepository{}
	store, err := ledger.NewStore(context.Background(), repo, nil)
	require.NoError(t, err)

	checkoutSvc := checkout.NewService(store, nil)
	reportingSvc := reporting.NewService(store, "USD", nil)
	tracker := insights.NewTracker(insights.NewService(nil, nil))

	f := &fixture{store: store, repo: repo, messaging: &stubMessaging{}}
	h := Handlers{
		Inventory: handlers.NewInventoryHandler(store, reportingSvc, checkoutSvc, nil),
		Cart:      handlers.NewCartHandler(checkoutSvc, nil),
		Insights:  handlers.NewInsightsHandler(tracker, store, nil),
	}
	if withWebhook {
		h.Webhook = handlers.NewWebhookHandler(f.messaging, nil)
	}
	f.engine = New(h, nil)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestDashboard(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, http.MethodGet, "/api/dashboard", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	decode(t, rec, &body)
	assert.EqualValues(t, 4, body["productCount"])
	assert.EqualValues(t, 0, body["lowStockCount"])
	assert.EqualValues(t, 2, body["recentOrders"])
}

func TestProductsListAndCreate(t *testing.T) {
	f := newFixture(t, false)

	var products []models.Product
	rec := f.do(t, http.MethodGet, "/api/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &products)
	assert.Len(t, products, 4)

	rec = f.do(t, http.MethodPost, "/api/products", `{"name":"Monitor","sku":"TECH-003","defaultBuyPrice":100,"defaultSellPrice":180}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created models.Product
	decode(t, rec, &created)
	assert.NotEmpty(t, created.ID)
	assert.Zero(t, created.CurrentStock)
	assert.Len(t, f.store.Snapshot().Products, 5)

	// zero stock is not sellable
	rec = f.do(t, http.MethodGet, "/api/products?direction=outward", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &products)
	assert.Len(t, products, 4)

	rec = f.do(t, http.MethodGet, "/api/products?direction=sideways", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodPost, "/api/products", `{"sku":"X"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/products", `{"name":"Bad","sku":"X","defaultBuyPrice":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, f.store.Snapshot().Products, 4)
}

func TestContacts(t *testing.T) {
	f := newFixture(t, false)

	var contacts []models.Contact
	rec := f.do(t, http.MethodGet, "/api/contacts?role=buyer", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &contacts)
	require.Len(t, contacts, 2)
	assert.Equal(t, "c3", contacts[0].ID)

	rec = f.do(t, http.MethodPost, "/api/contacts", `{"name":"Carol","type":"BUYER"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/contacts", "")
	decode(t, rec, &contacts)
	assert.Len(t, contacts, 5)

	rec = f.do(t, http.MethodPost, "/api/contacts", `{"name":"Dave","type":"BROKER"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTransactions(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, http.MethodGet, "/api/transactions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var txs []models.Transaction
	decode(t, rec, &txs)
	require.Len(t, txs, 2)
	assert.Equal(t, "t1", txs[0].ID)
}

func TestCartCheckoutFlow(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodPost, "/api/carts/outward/lines", `{"productId":"p1","quantity":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Lines []models.TransactionLine `json:"lines"`
		Total json.Number              `json:"total"`
	}
	decode(t, rec, &view)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "175", view.Total.String())

	rec = f.do(t, http.MethodPost, "/api/carts/outward/checkout", `{"contactId":"c3","notes":"walk-in"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	p, ok := f.store.Snapshot().Product("p1")
	require.True(t, ok)
	assert.Equal(t, 115, p.CurrentStock)
	require.NotNil(t, f.repo.data)

	rec = f.do(t, http.MethodGet, "/api/carts/outward", "")
	decode(t, rec, &view)
	assert.Empty(t, view.Lines)
}

func TestCartErrors(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodPost, "/api/carts/outward/lines", `{"productId":"p3","quantity":130}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	var body map[string]any
	decode(t, rec, &body)
	assert.EqualValues(t, 12, body["available"])
	assert.EqualValues(t, 130, body["requested"])

	rec = f.do(t, http.MethodPost, "/api/carts/outward/lines", `{"productId":"nope","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/carts/inward/lines", `{"productId":"p1","quantity":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/carts/inward/lines/3", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodDelete, "/api/carts/inward/lines/x", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/carts/inward/checkout", `{"contactId":"c1"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/carts/sideways", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutRoleMismatch(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodPost, "/api/carts/inward/lines", `{"productId":"p1","quantity":10,"priceOverride":"12.50"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/carts/inward/checkout", `{"contactId":"c3"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/carts/inward/checkout", `{"contactId":"c9"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckoutSaveFailure(t *testing.T) {
	f := newFixture(t, false)
	f.repo.saveErr = errors.New("disk full")

	rec := f.do(t, http.MethodPost, "/api/carts/inward/lines", `{"productId":"p1","quantity":10}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/carts/inward/checkout", `{"contactId":"c1"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())

	p, _ := f.store.Snapshot().Product("p1")
	assert.Equal(t, 120, p.CurrentStock)
}

func TestRemoveLineAndClear(t *testing.T) {
	f := newFixture(t, false)

	f.do(t, http.MethodPost, "/api/carts/inward/lines", `{"productId":"p1","quantity":1}`)
	f.do(t, http.MethodPost, "/api/carts/inward/lines", `{"productId":"p2","quantity":1}`)

	rec := f.do(t, http.MethodDelete, "/api/carts/inward/lines/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Lines []models.TransactionLine `json:"lines"`
	}
	decode(t, rec, &view)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, "p2", view.Lines[0].ProductID)

	rec = f.do(t, http.MethodDelete, "/api/carts/inward", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestInsightsWithoutSummarizer(t *testing.T) {
	f := newFixture(t, false)

	rec := f.do(t, http.MethodGet, "/api/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var status insights.Status
	decode(t, rec, &status)
	assert.Equal(t, insights.StateIdle, status.State)

	rec = f.do(t, http.MethodPost, "/api/insights", "")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	assert.Eventually(t, func() bool {
		rec := f.do(t, http.MethodGet, "/api/insights", "")
		var s insights.Status
		if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
			return false
		}
		return s.State == insights.StateResolved && s.Text == insights.ErrorFallback
	}, time.Second, 10*time.Millisecond)
}

func TestWebhookRoutesOnlyWhenEnabled(t *testing.T) {
	f := newFixture(t, false)
	rec := f.do(t, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f = newFixture(t, true)
	rec = f.do(t, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=42", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=42", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestWebhookReceiveAcknowledgesFailures(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodPost, "/webhook", `{"object":"whatsapp_business_account","entry":[]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, f.messaging.handled)

	rec = f.do(t, http.MethodPost, "/webhook", `{"object":"whatsapp_business_account","entry":[{"changes":[{"value":{"messages":[{"from":"1555","type":"text","text":{"body":"stock mouse"}}]}}]}]}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, f.messaging.handled)

	rec = f.do(t, http.MethodPost, "/webhook", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotify(t *testing.T) {
	f := newFixture(t, true)

	rec := f.do(t, http.MethodPost, "/api/notify", `{"message":"restock p3"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, f.messaging.sent, 1)
	assert.Equal(t, "restock p3", f.messaging.sent[0].Message)

	rec = f.do(t, http.MethodPost, "/api/notify", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.messaging.sendErr = errors.New("meta down")
	rec = f.do(t, http.MethodPost, "/api/notify", `{"message":"x"}`)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
