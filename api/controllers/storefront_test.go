package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/currency"

	"github.com/daghlis/gallery-backend/api/middleware"
	"github.com/daghlis/gallery-backend/internal/cart"
	"github.com/daghlis/gallery-backend/internal/catalog"
	"github.com/daghlis/gallery-backend/internal/checkout"
	"github.com/daghlis/gallery-backend/internal/gateway"
	"github.com/daghlis/gallery-backend/internal/pricing"
	"github.com/daghlis/gallery-backend/internal/storefront"
	"github.com/daghlis/gallery-backend/pkg/enums"
)

type stubGateway struct {
	mu       sync.Mutex
	requests []gateway.OrderRequest
	result   gateway.OrderResult
	err      error
}

func (s *stubGateway) CreateOrder(_ context.Context, req gateway.OrderRequest) (*gateway.OrderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if s.err != nil {
		return nil, s.err
	}
	res := s.result
	return &res, nil
}

type storefrontHarness struct {
	t       *testing.T
	handler http.Handler
	session string
	gw      *stubGateway
}

func newStorefrontHarness(t *testing.T) *storefrontHarness {
	t.Helper()
	store, err := catalog.NewStore(catalog.DefaultCollection()...)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	calc, err := pricing.NewCalculator(pricing.DefaultConfig())
	if err != nil {
		t.Fatalf("new calculator: %v", err)
	}
	gw := &stubGateway{result: gateway.OrderResult{OrderID: "ord-1", Status: gateway.StatusCompleted, PaymentID: "pi_1"}}
	reg, err := storefront.NewRegistry(storefront.Options{
		NewFlow: func(sessionID string, c *cart.Engine) (*checkout.Flow, error) {
			return checkout.NewFlow(checkout.Deps{SessionID: sessionID, Cart: c, Pricing: calc, Gateway: gw})
		},
	})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}

	display := Display{DefaultLanguage: enums.LanguageEnglish, Currency: currency.EUR}
	r := chi.NewRouter()
	r.Use(middleware.StorefrontSession(reg, nil))
	r.Get("/catalog", CatalogList(store, display, nil))
	r.Get("/catalog/{itemId}", CatalogGet(store, display, nil))
	r.Get("/cart", CartGet(display, nil))
	r.Post("/cart/items", CartAddItem(store, display, nil))
	r.Put("/cart/items/{itemId}", CartSetQuantity(display, nil))
	r.Delete("/cart/items/{itemId}", CartRemoveItem(display, nil))
	r.Post("/checkout", CheckoutStart(reg, nil))
	r.Get("/checkout", CheckoutGet(nil))
	r.Delete("/checkout", CheckoutCancel(nil))
	r.Put("/checkout/customer", CheckoutSetCustomer(nil))
	r.Put("/checkout/payment", CheckoutSelectPayment(nil))
	r.Post("/checkout/next", CheckoutNext(nil))
	r.Post("/checkout/back", CheckoutBack(nil))
	r.Get("/checkout/review", CheckoutReview(display, nil))
	r.Post("/checkout/submit", CheckoutSubmit(nil))

	return &storefrontHarness{t: t, handler: r, gw: gw}
}

func (h *storefrontHarness) do(method, path, body string) (int, map[string]any) {
	h.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if h.session != "" {
		req.Header.Set(middleware.SessionHeader, h.session)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	h.session = rec.Header().Get(middleware.SessionHeader)

	var envelope map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			h.t.Fatalf("decode %s %s: %v (%s)", method, path, err, rec.Body.String())
		}
	}
	return rec.Code, envelope
}

func dataOf(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %v", envelope)
	}
	return data
}

func errorCode(envelope map[string]any) string {
	e, _ := envelope["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

func TestCatalogListFiltersAndTranslates(t *testing.T) {
	h := newStorefrontHarness(t)

	status, env := h.do(http.MethodGet, "/catalog", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200 got %d", status)
	}
	if items := env["data"].([]any); len(items) != 6 {
		t.Fatalf("expected 6 artworks, got %d", len(items))
	}

	status, env = h.do(http.MethodGet, "/catalog?category=portraits", "")
	if status != http.StatusOK {
		t.Fatalf("expected 200 got %d", status)
	}
	for _, raw := range env["data"].([]any) {
		if raw.(map[string]any)["category"] != "portraits" {
			t.Fatalf("filter leaked %v", raw)
		}
	}

	if status, _ := h.do(http.MethodGet, "/catalog?category=sculpture", ""); status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown category, got %d", status)
	}
	if status, _ := h.do(http.MethodGet, "/catalog/404", ""); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}

func TestCartRejectsSoldArtworkAndNegativeQuantity(t *testing.T) {
	h := newStorefrontHarness(t)

	if status, env := h.do(http.MethodPost, "/cart/items", `{"item_id":"3"}`); status != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for sold artwork, got %d %v", status, env)
	}
	if status, _ := h.do(http.MethodPost, "/cart/items", `{"item_id":"1"}`); status != http.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if status, env := h.do(http.MethodPut, "/cart/items/1", `{"quantity":-1}`); status != http.StatusBadRequest || errorCode(env) != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error, got %d %v", status, env)
	}
	status, env := h.do(http.MethodPut, "/cart/items/1", `{"quantity":3}`)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	cartData := dataOf(t, env)
	if cartData["total_items"].(float64) != 3 {
		t.Fatalf("expected 3 items, got %v", cartData["total_items"])
	}
	if cartData["subtotal"].(map[string]any)["amount"] != "3750.00" {
		t.Fatalf("unexpected subtotal %v", cartData["subtotal"])
	}

	status, env = h.do(http.MethodDelete, "/cart/items/1", "")
	if status != http.StatusOK || dataOf(t, env)["total_items"].(float64) != 0 {
		t.Fatalf("expected empty cart after remove, got %d %v", status, env)
	}
}

func TestCheckoutHappyPathClearsCart(t *testing.T) {
	h := newStorefrontHarness(t)

	if status, env := h.do(http.MethodPost, "/checkout", ""); status != http.StatusBadRequest {
		t.Fatalf("empty cart must not start checkout, got %d %v", status, env)
	}

	h.do(http.MethodPost, "/cart/items", `{"item_id":"1"}`)
	if status, _ := h.do(http.MethodPost, "/checkout", ""); status != http.StatusCreated {
		t.Fatalf("expected checkout to start, got %d", status)
	}

	status, env := h.do(http.MethodPost, "/checkout/next", "")
	if status != http.StatusBadRequest {
		t.Fatalf("expected validation error for missing customer info, got %d", status)
	}
	details, _ := env["error"].(map[string]any)["details"].(map[string]any)
	if details["email"] == nil || details["full_name"] == nil {
		t.Fatalf("expected per-field details, got %v", env)
	}

	customer := `{"full_name":"Layla Haddad","email":"layla@example.com","phone":"+33 6 12 34 56 78","address":"12 Rue des Arts","city":"Lyon","postal_code":"69001","country":"domestic"}`
	if status, _ := h.do(http.MethodPut, "/checkout/customer", customer); status != http.StatusOK {
		t.Fatalf("set customer: %d", status)
	}
	if status, env := h.do(http.MethodPost, "/checkout/next", ""); status != http.StatusOK || dataOf(t, env)["step"] != "collecting_payment" {
		t.Fatalf("expected payment step, got %d %v", status, env)
	}

	if status, _ := h.do(http.MethodPost, "/checkout/back", ""); status != http.StatusOK {
		t.Fatalf("back: %d", status)
	}
	status, env = h.do(http.MethodGet, "/checkout", "")
	if status != http.StatusOK || dataOf(t, env)["customer"].(map[string]any)["email"] != "layla@example.com" {
		t.Fatalf("customer data should survive back navigation: %v", env)
	}
	h.do(http.MethodPost, "/checkout/next", "")

	payment := `{"method":"card","card":{"cardholder_name":"L Haddad","card_number":"4242 4242 4242 4242","expiry":"12/29","cvv":"123"}}`
	if status, _ := h.do(http.MethodPut, "/checkout/payment", payment); status != http.StatusOK {
		t.Fatalf("select payment: %d", status)
	}
	if status, env := h.do(http.MethodPost, "/checkout/next", ""); status != http.StatusOK || dataOf(t, env)["step"] != "reviewing_order" {
		t.Fatalf("expected review step, got %d %v", status, env)
	}

	status, env = h.do(http.MethodGet, "/checkout/review", "")
	if status != http.StatusOK {
		t.Fatalf("review: %d", status)
	}
	quote := dataOf(t, env)["pricing"].(map[string]any)
	if quote["shipping"].(map[string]any)["amount"] != "0.00" ||
		quote["tax"].(map[string]any)["amount"] != "250.00" ||
		quote["total"].(map[string]any)["amount"] != "1500.00" {
		t.Fatalf("unexpected quote %v", quote)
	}
	if card := dataOf(t, env)["payment"].(map[string]any)["card"].(map[string]any); card["card_number"] != "**** 4242" || card["cvv"] != "" {
		t.Fatalf("card must be masked in review, got %v", card)
	}

	status, env = h.do(http.MethodPost, "/checkout/submit", "")
	if status != http.StatusCreated || dataOf(t, env)["order_id"] != "ord-1" {
		t.Fatalf("submit: %d %v", status, env)
	}
	if len(h.gw.requests) != 1 || h.gw.requests[0].Total.String() != "1500.00" {
		t.Fatalf("unexpected gateway requests %+v", h.gw.requests)
	}

	status, env = h.do(http.MethodGet, "/cart", "")
	if status != http.StatusOK || dataOf(t, env)["total_items"].(float64) != 0 {
		t.Fatalf("cart should be cleared after submit, got %v", env)
	}
	if status, _ := h.do(http.MethodDelete, "/checkout", ""); status != http.StatusUnprocessableEntity {
		t.Fatalf("cancel after submit should be rejected, got %d", status)
	}
}

func TestCheckoutCancelKeepsCart(t *testing.T) {
	h := newStorefrontHarness(t)
	h.do(http.MethodPost, "/cart/items", `{"item_id":"2"}`)
	h.do(http.MethodPost, "/checkout", "")

	if status, _ := h.do(http.MethodDelete, "/checkout", ""); status != http.StatusOK {
		t.Fatalf("cancel: %d", status)
	}
	if status, _ := h.do(http.MethodPost, "/checkout/next", ""); status != http.StatusUnprocessableEntity {
		t.Fatalf("cancelled flow should reject navigation, got %d", status)
	}
	_, env := h.do(http.MethodGet, "/cart", "")
	if dataOf(t, env)["total_items"].(float64) != 1 {
		t.Fatalf("cancel must keep the cart, got %v", env)
	}
	if status, env := h.do(http.MethodPost, "/checkout", ""); status != http.StatusCreated || dataOf(t, env)["cancelled"] != false {
		t.Fatalf("a fresh checkout should replace the cancelled one, got %d %v", status, env)
	}
}

func TestCheckoutWithoutFlowIsNotFound(t *testing.T) {
	h := newStorefrontHarness(t)
	if status, _ := h.do(http.MethodGet, "/checkout/review", ""); status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
}
