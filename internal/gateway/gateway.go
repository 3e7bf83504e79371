package gateway

import (
	"context"
	"encoding/json"

	"github.com/daghlis/gallery-backend/pkg/enums"
	"github.com/daghlis/gallery-backend/pkg/money"
	"github.com/daghlis/gallery-backend/pkg/types"
)

// Result statuses echoed back to the storefront.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)

// Gateway places orders with the remote payment service.
type Gateway interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*OrderResult, error)
}

// LineItem is the frozen view of one cart line sent with an order.
type LineItem struct {
	ItemID    string
	Title     string
	Image     string
	Size      string
	Year      int
	UnitPrice money.Amount
	Quantity  int
	LineTotal money.Amount
}

// OrderRequest is assembled once per submit from the cart and checkout data.
type OrderRequest struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress types.ShippingAddress
	Destination     enums.DestinationTier
	Items           []LineItem
	PaymentMethod   enums.PaymentMethod
	Subtotal        money.Amount
	Shipping        money.Amount
	Tax             money.Amount
	Total           money.Amount
	Currency        string
	Language        enums.Language
}

// OrderResult is the provider-agnostic outcome of a submit. RedirectURL is
// set when the buyer must approve the payment with the wallet provider.
type OrderResult struct {
	OrderID     string `json:"order_id"`
	Status      string `json:"status"`
	PaymentID   string `json:"payment_id,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// OrderRecord is the remote view of an order.
type OrderRecord struct {
	ID            string      `json:"id"`
	Status        string      `json:"status"`
	CustomerName  string      `json:"customer_name,omitempty"`
	CustomerEmail string      `json:"customer_email,omitempty"`
	TotalAmount   json.Number `json:"total_amount,omitempty"`
	Currency      string      `json:"currency,omitempty"`
}

// ExecutionResult is returned once the buyer is back from the wallet provider.
type ExecutionResult struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}
