package gateway

import (
	"encoding/json"

	"github.com/daghlis/gallery-backend/pkg/money"
	"github.com/daghlis/gallery-backend/pkg/types"
)

func amount(a money.Amount) json.Number {
	return json.Number(a.String())
}

type orderPayload struct {
	CustomerName    string                `json:"customer_name"`
	CustomerEmail   string                `json:"customer_email"`
	CustomerPhone   string                `json:"customer_phone"`
	ShippingAddress types.ShippingAddress `json:"shipping_address"`
	Destination     string                `json:"destination"`
	Items           []itemPayload         `json:"items"`
	PaymentMethod   string                `json:"payment_method"`
	Subtotal        json.Number           `json:"subtotal"`
	Shipping        json.Number           `json:"shipping"`
	Tax             json.Number           `json:"tax"`
	TotalAmount     json.Number           `json:"total_amount"`
	Currency        string                `json:"currency"`
	Language        string                `json:"language"`
}

type itemPayload struct {
	ItemID    string      `json:"item_id"`
	Title     string      `json:"title"`
	Image     string      `json:"image,omitempty"`
	Size      string      `json:"size,omitempty"`
	Year      int         `json:"year,omitempty"`
	UnitPrice json.Number `json:"unit_price"`
	Quantity  int         `json:"quantity"`
	LineTotal json.Number `json:"line_total"`
}

func newOrderPayload(req OrderRequest) orderPayload {
	items := make([]itemPayload, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, itemPayload{
			ItemID:    it.ItemID,
			Title:     it.Title,
			Image:     it.Image,
			Size:      it.Size,
			Year:      it.Year,
			UnitPrice: amount(it.UnitPrice),
			Quantity:  it.Quantity,
			LineTotal: amount(it.LineTotal),
		})
	}
	return orderPayload{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress,
		Destination:     req.Destination.String(),
		Items:           items,
		PaymentMethod:   req.PaymentMethod.String(),
		Subtotal:        amount(req.Subtotal),
		Shipping:        amount(req.Shipping),
		Tax:             amount(req.Tax),
		TotalAmount:     amount(req.Total),
		Currency:        req.Currency,
		Language:        req.Language.String(),
	}
}

type createIntentPayload struct {
	Amount        json.Number `json:"amount"`
	Currency      string      `json:"currency"`
	OrderID       string      `json:"order_id"`
	CustomerEmail string      `json:"customer_email"`
	CustomerName  string      `json:"customer_name"`
}

type createIntentResponse struct {
	PaymentIntentID string `json:"payment_intent_id"`
	ClientSecret    string `json:"client_secret,omitempty"`
}

type confirmIntentPayload struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type walletCreatePayload struct {
	Amount        json.Number `json:"amount"`
	Currency      string      `json:"currency"`
	OrderID       string      `json:"order_id"`
	CustomerEmail string      `json:"customer_email"`
	Description   string      `json:"description"`
}

type walletCreateResponse struct {
	PaymentID   string `json:"payment_id"`
	ApprovalURL string `json:"approval_url"`
}

type walletExecutePayload struct {
	PaymentID string `json:"payment_id"`
	PayerID   string `json:"payer_id"`
}

type remoteError struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
