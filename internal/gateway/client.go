package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/daghlis/gallery-backend/pkg/config"
	"github.com/daghlis/gallery-backend/pkg/enums"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/logger"
)

const (
	breakerName     = "order_gateway"
	maxResponseBody = 1 << 20

	opCreateOrder   = "orders.create"
	opGetOrder      = "orders.get"
	opCreateIntent  = "card.create_intent"
	opConfirmIntent = "card.confirm"
	opWalletCreate  = "wallet.create"
	opWalletExecute = "wallet.execute"
)

// Observer receives call timings and breaker transitions.
type Observer interface {
	ObserveGatewayCall(op string, elapsed time.Duration, success bool)
	SetBreakerState(name string, state int)
}

// Client talks to the remote order and payment service over HTTP. Calls
// are never retried; a breaker stops hammering a service that keeps
// failing.
type Client struct {
	baseURL    string
	http       *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
	processors map[enums.PaymentMethod]Processor
	logg       *logger.Logger
	observer   Observer
}

// NewClient builds a gateway client. logg and observer may be nil.
func NewClient(cfg config.GatewayConfig, logg *logger.Logger, observer Observer) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("gateway base url required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid gateway base url: %w", err)
	}
	if logg == nil {
		logg = logger.Nop()
	}
	threshold := cfg.BreakerFailureThreshold
	if threshold == 0 {
		threshold = 5
	}

	c := &Client{
		baseURL:  base,
		http:     &http.Client{Timeout: cfg.Timeout},
		logg:     logg,
		observer: observer,
	}
	c.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: countsAsHealthy,
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logg.Warn(c.logg.WithFields(context.Background(), map[string]any{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}), "gateway.breaker_state_change")
			if c.observer != nil {
				c.observer.SetBreakerState(name, int(to))
			}
		},
	})
	c.processors = map[enums.PaymentMethod]Processor{
		enums.PaymentMethodCard:   cardProcessor{client: c},
		enums.PaymentMethodWallet: walletProcessor{client: c},
	}
	return c, nil
}

// CreateOrder validates req, records the order remotely and runs the
// payment sub-flow for the selected method.
func (c *Client) CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	processor, ok := c.processors[req.PaymentMethod]
	if !ok {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported payment method %q", req.PaymentMethod)
	}

	var record OrderRecord
	if err := c.do(ctx, opCreateOrder, http.MethodPost, "/api/orders", newOrderPayload(req), &record); err != nil {
		return nil, err
	}
	if record.ID == "" {
		return nil, &Error{Op: opCreateOrder, Message: "response missing order id"}
	}

	ctx = c.logg.WithOrderID(ctx, record.ID)
	result, err := processor.Process(ctx, record, req)
	if err != nil {
		return nil, err
	}
	c.logg.Info(c.logg.WithFields(ctx, map[string]any{
		"payment_method": req.PaymentMethod.String(),
		"status":         result.Status,
	}), "gateway.order_created")
	return result, nil
}

// ExecuteWallet completes a wallet payment after the buyer approved it.
func (c *Client) ExecuteWallet(ctx context.Context, paymentID, payerID string) (*ExecutionResult, error) {
	paymentID = strings.TrimSpace(paymentID)
	payerID = strings.TrimSpace(payerID)
	if paymentID == "" || payerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment_id and payer_id are required")
	}
	var resp statusResponse
	if err := c.do(ctx, opWalletExecute, http.MethodPost, "/api/payment/paypal/execute",
		walletExecutePayload{PaymentID: paymentID, PayerID: payerID}, &resp); err != nil {
		return nil, err
	}
	if resp.Status == "" {
		resp.Status = StatusCompleted
	}
	if Settle(resp.Status) == SettlementFailed {
		return nil, declined(opWalletExecute, resp.Status)
	}
	return &ExecutionResult{PaymentID: paymentID, Status: resp.Status}, nil
}

// GetOrder fetches the remote order record.
func (c *Client) GetOrder(ctx context.Context, id string) (*OrderRecord, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	var record OrderRecord
	if err := c.do(ctx, opGetOrder, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// BreakerState reports the breaker as 0 closed, 1 half-open, 2 open.
func (c *Client) BreakerState() int {
	return int(c.breaker.State())
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	start := time.Now()
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, op, method, path, in)
	})
	if c.observer != nil {
		c.observer.ObserveGatewayCall(op, time.Since(start), err == nil)
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return &Error{Op: op, Message: "payment service temporarily unavailable", Err: err}
		}
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{Op: op, Message: "decode response", Err: err}
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, in any) ([]byte, error) {
	var reader io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, &Error{Op: op, Message: "encode request", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, &Error{Op: op, Message: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		msg := "request failed"
		if errors.Is(err, context.DeadlineExceeded) {
			msg = "request timed out"
		}
		return nil, &Error{Op: op, Message: msg, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: "read response", Err: err}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &Error{Op: op, StatusCode: resp.StatusCode, Message: remoteMessage(body, resp.Status)}
	}
	return body, nil
}

func remoteMessage(body []byte, fallback string) string {
	var remote remoteError
	if err := json.Unmarshal(body, &remote); err == nil {
		if remote.Message != "" {
			return remote.Message
		}
		if remote.Error != "" {
			return remote.Error
		}
	}
	return fallback
}

// countsAsHealthy keeps client-side rejections (4xx) from tripping the breaker.
func countsAsHealthy(err error) bool {
	if err == nil {
		return true
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr.StatusCode >= http.StatusBadRequest && gwErr.StatusCode < http.StatusInternalServerError
	}
	return false
}
