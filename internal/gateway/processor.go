package gateway

import (
	"context"
	"net/http"

	"github.com/daghlis/gallery-backend/pkg/enums"
)

// Processor runs the provider-specific payment steps for a recorded order.
type Processor interface {
	Method() enums.PaymentMethod
	Process(ctx context.Context, order OrderRecord, req OrderRequest) (*OrderResult, error)
}

// cardProcessor creates a payment intent and confirms it in one go.
type cardProcessor struct {
	client *Client
}

func (cardProcessor) Method() enums.PaymentMethod { return enums.PaymentMethodCard }

func (p cardProcessor) Process(ctx context.Context, order OrderRecord, req OrderRequest) (*OrderResult, error) {
	var intent createIntentResponse
	err := p.client.do(ctx, opCreateIntent, http.MethodPost, "/api/payment/stripe/create-intent", createIntentPayload{
		Amount:        amount(req.Total),
		Currency:      req.Currency,
		OrderID:       order.ID,
		CustomerEmail: req.CustomerEmail,
		CustomerName:  req.CustomerName,
	}, &intent)
	if err != nil {
		return nil, err
	}
	if intent.PaymentIntentID == "" {
		return nil, &Error{Op: opCreateIntent, Message: "response missing payment_intent_id"}
	}

	var confirm statusResponse
	if err := p.client.do(ctx, opConfirmIntent, http.MethodPost, "/api/payment/stripe/confirm",
		confirmIntentPayload{PaymentIntentID: intent.PaymentIntentID}, &confirm); err != nil {
		return nil, err
	}
	status := confirm.Status
	if status == "" {
		status = StatusCompleted
	}
	if Settle(status) == SettlementFailed {
		return nil, declined(opConfirmIntent, status)
	}
	return &OrderResult{OrderID: order.ID, Status: status, PaymentID: intent.PaymentIntentID}, nil
}

// walletProcessor creates a redirect payment. The order stays pending until
// the buyer returns and ExecuteWallet runs.
type walletProcessor struct {
	client *Client
}

func (walletProcessor) Method() enums.PaymentMethod { return enums.PaymentMethodWallet }

func (p walletProcessor) Process(ctx context.Context, order OrderRecord, req OrderRequest) (*OrderResult, error) {
	var created walletCreateResponse
	err := p.client.do(ctx, opWalletCreate, http.MethodPost, "/api/payment/paypal/create", walletCreatePayload{
		Amount:        amount(req.Total),
		Currency:      req.Currency,
		OrderID:       order.ID,
		CustomerEmail: req.CustomerEmail,
		Description:   "Order " + order.ID,
	}, &created)
	if err != nil {
		return nil, err
	}
	if created.PaymentID == "" || created.ApprovalURL == "" {
		return nil, &Error{Op: opWalletCreate, Message: "response missing payment_id or approval_url"}
	}
	return &OrderResult{
		OrderID:     order.ID,
		Status:      StatusPending,
		PaymentID:   created.PaymentID,
		RedirectURL: created.ApprovalURL,
	}, nil
}
