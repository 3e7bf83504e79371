package controllers

import (
	"net/http"

	"golang.org/x/text/currency"

	"github.com/daghlis/gallery-backend/api/middleware"
	"github.com/daghlis/gallery-backend/api/validators"
	"github.com/daghlis/gallery-backend/internal/cart"
	"github.com/daghlis/gallery-backend/internal/catalog"
	"github.com/daghlis/gallery-backend/internal/checkout"
	"github.com/daghlis/gallery-backend/internal/gateway"
	"github.com/daghlis/gallery-backend/internal/pricing"
	"github.com/daghlis/gallery-backend/internal/storefront"
	"github.com/daghlis/gallery-backend/pkg/enums"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/money"
)

// Display carries the storefront defaults used when rendering responses.
type Display struct {
	DefaultLanguage enums.Language
	Currency        currency.Unit
}

type priceView struct {
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

func (d Display) price(a money.Amount, lang enums.Language) priceView {
	return priceView{Amount: a.String(), Display: money.Format(a, d.Currency, lang)}
}

type artworkResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Medium      string                `json:"medium,omitempty"`
	Description string                `json:"description,omitempty"`
	Category    enums.ArtworkCategory `json:"category"`
	Price       priceView             `json:"price"`
	Available   bool                  `json:"available"`
	Year        int                   `json:"year,omitempty"`
	Size        string                `json:"size,omitempty"`
	Image       string                `json:"image,omitempty"`
}

func (d Display) artwork(item catalog.Item, lang enums.Language) artworkResponse {
	return artworkResponse{
		ID:          item.ID,
		Title:       item.Title.Get(lang),
		Medium:      item.Medium.Get(lang),
		Description: item.Description.Get(lang),
		Category:    item.Category,
		Price:       d.price(item.Price, lang),
		Available:   item.Available,
		Year:        item.Year,
		Size:        item.Size,
		Image:       item.Image,
	}
}

type cartLineResponse struct {
	ItemID    string    `json:"item_id"`
	Title     string    `json:"title"`
	Image     string    `json:"image,omitempty"`
	Size      string    `json:"size,omitempty"`
	Year      int       `json:"year,omitempty"`
	UnitPrice priceView `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	LineTotal priceView `json:"line_total"`
}

type cartResponse struct {
	Lines      []cartLineResponse `json:"lines"`
	TotalItems int                `json:"total_items"`
	Subtotal   priceView          `json:"subtotal"`
	Currency   string             `json:"currency"`
}

func (d Display) lines(lines []cart.Line, lang enums.Language) []cartLineResponse {
	out := make([]cartLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, cartLineResponse{
			ItemID:    l.ItemID,
			Title:     l.Title.Get(lang),
			Image:     l.Image,
			Size:      l.Size,
			Year:      l.Year,
			UnitPrice: d.price(l.UnitPrice, lang),
			Quantity:  l.Quantity,
			LineTotal: d.price(l.Total(), lang),
		})
	}
	return out
}

func (d Display) cart(e *cart.Engine, lang enums.Language) cartResponse {
	return cartResponse{
		Lines:      d.lines(e.Lines(), lang),
		TotalItems: e.TotalItemCount(),
		Subtotal:   d.price(e.TotalPrice(), lang),
		Currency:   d.Currency.String(),
	}
}

type breakdownResponse struct {
	Subtotal     priceView `json:"subtotal"`
	Shipping     priceView `json:"shipping"`
	Tax          priceView `json:"tax"`
	Total        priceView `json:"total"`
	FreeShipping bool      `json:"free_shipping"`
}

func (d Display) breakdown(b pricing.Breakdown, lang enums.Language) breakdownResponse {
	return breakdownResponse{
		Subtotal:     d.price(b.Subtotal, lang),
		Shipping:     d.price(b.Shipping, lang),
		Tax:          d.price(b.Tax, lang),
		Total:        d.price(b.Total, lang),
		FreeShipping: b.FreeShipping,
	}
}

type checkoutResponse struct {
	Step       enums.CheckoutStep         `json:"step"`
	StepNumber int                        `json:"step_number"`
	Customer   checkout.CustomerInfo      `json:"customer"`
	Payment    *checkout.PaymentSelection `json:"payment,omitempty"`
	InFlight   bool                       `json:"in_flight"`
	Cancelled  bool                       `json:"cancelled"`
	Result     *gateway.OrderResult       `json:"result,omitempty"`
}

func checkoutView(snap checkout.Snapshot) checkoutResponse {
	return checkoutResponse{
		Step:       snap.Step,
		StepNumber: snap.StepNumber,
		Customer:   snap.Customer,
		Payment:    snap.Payment,
		InFlight:   snap.InFlight,
		Cancelled:  snap.Cancelled,
		Result:     snap.Result,
	}
}

type reviewResponse struct {
	Lines     []cartLineResponse        `json:"lines"`
	ItemCount int                       `json:"item_count"`
	Pricing   breakdownResponse         `json:"pricing"`
	Customer  checkout.CustomerInfo     `json:"customer"`
	Payment   checkout.PaymentSelection `json:"payment"`
	Currency  string                    `json:"currency"`
}

func (d Display) review(s checkout.Summary, lang enums.Language) reviewResponse {
	return reviewResponse{
		Lines:     d.lines(s.Lines, lang),
		ItemCount: s.ItemCount,
		Pricing:   d.breakdown(s.Pricing, lang),
		Customer:  s.Customer,
		Payment:   s.Payment,
		Currency:  s.Currency,
	}
}

func (d Display) language(r *http.Request) enums.Language {
	return validators.RequestLanguage(r, d.DefaultLanguage)
}

func sessionFrom(r *http.Request) (*storefront.Session, error) {
	s := middleware.SessionFromContext(r.Context())
	if s == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "storefront session missing")
	}
	return s, nil
}
