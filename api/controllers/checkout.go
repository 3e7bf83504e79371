package controllers

import (
	"net/http"

	"github.com/daghlis/gallery-backend/api/responses"
	"github.com/daghlis/gallery-backend/api/validators"
	"github.com/daghlis/gallery-backend/internal/checkout"
	"github.com/daghlis/gallery-backend/internal/storefront"
	"github.com/daghlis/gallery-backend/pkg/enums"
	"github.com/daghlis/gallery-backend/pkg/logger"
)

type checkoutStarter interface {
	StartCheckout(s *storefront.Session) (*checkout.Flow, error)
}

// Customer and payment bodies are accepted as drafts; the flow validates
// them when the buyer moves to the next step.
type customerInfoRequest struct {
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

func (c customerInfoRequest) toInput() checkout.CustomerInfo {
	return checkout.CustomerInfo{
		FullName:   c.FullName,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		Country:    enums.DestinationTier(c.Country),
	}
}

type cardRequest struct {
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number"`
	Expiry         string `json:"expiry"`
	CVV            string `json:"cvv"`
}

type paymentRequest struct {
	Method string       `json:"method" validate:"required"`
	Card   *cardRequest `json:"card,omitempty"`
}

func (p paymentRequest) toInput() checkout.PaymentSelection {
	sel := checkout.PaymentSelection{Method: enums.PaymentMethod(p.Method)}
	if p.Card != nil {
		sel.Card = &checkout.CardDetails{
			CardholderName: p.Card.CardholderName,
			CardNumber:     p.Card.CardNumber,
			Expiry:         p.Card.Expiry,
			CVV:            p.Card.CVV,
		}
	}
	return sel
}

type walletReturnRequest struct {
	PaymentID string `json:"payment_id" validate:"required"`
	PayerID   string `json:"payer_id" validate:"required"`
}

type stepResponse struct {
	Step       enums.CheckoutStep `json:"step"`
	StepNumber int                `json:"step_number"`
}

func currentFlow(r *http.Request) (*checkout.Flow, error) {
	s, err := sessionFrom(r)
	if err != nil {
		return nil, err
	}
	return s.Checkout()
}

// withFlow resolves the session's checkout and hands it to fn.
func withFlow(logg *logger.Logger, fn func(w http.ResponseWriter, r *http.Request, flow *checkout.Flow) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flow, err := currentFlow(r)
		if err == nil {
			err = fn(w, r, flow)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
		}
	}
}

// CheckoutStart begins a checkout, or resumes the one in progress.
func CheckoutStart(registry checkoutStarter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		flow, err := registry.StartCheckout(s)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutView(flow.Snapshot()))
	}
}

func CheckoutGet(logg *logger.Logger) http.HandlerFunc {
	return withFlow(logg, func(w http.ResponseWriter, r *http.Request, flow *checkout.Flow) error {
		responses.WriteSuccess(w, checkoutView(flow.Snapshot()))
		return nil
	})
}

func CheckoutSetCustomer(logg *logger.Logger) http.HandlerFunc {
	return withFlow(logg, func(w http.ResponseWriter, r *http.Request, flow *checkout.Flow) error {
		var body customerInfoRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		if err := flow.SetCustomerInfo(body.toInput()); err != nil {
			return err
		}
		responses.WriteSuccess(w, checkoutView(flow.Snapshot()))
		return nil
	})
}

func CheckoutSelectPayment(logg *logger.Logger) http.HandlerFunc {
	return withFlow(logg, func(w http.ResponseWriter, r *http.Request, flow *checkout.Flow) error {
		var body paymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		if err := flow.SelectPayment(body.toInput()); err != nil {
			return err
		}
		responses.WriteSuccess(w, checkoutView(flow.Snapshot()))
		return nil
	})
}

func CheckoutNext(logg *logger.Logger) http.HandlerFunc {
	return withFlow(logg, func(w http.ResponseWriter, r *http.Request, flow *checkout.Flow) error {
		step, err := flow.Next()
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, stepResponse{Step: step, StepNumber: step.Number()})
		return nil
	})
}

func CheckoutBack(logg *logger.Logger) http.HandlerFunc {
	return withFlow(logg, func(w http.ResponseWriter, r *http.Request, flow *checkout.Flow) error {
		step, err := flow.Back()
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, stepResponse{Step: step, StepNumber: step.Number()})
		return nil
	})
}

// CheckoutReview returns the order summary with the pricing breakdown.
func CheckoutReview(display Display, logg *logger.Logger) http.HandlerFunc {
	return withFlow(logg, func(w http.ResponseWriter, r *http.Request, flow *checkout.Flow) error {
		summary, err := flow.Review()
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, display.review(summary, display.language(r)))
		return nil
	})
}

// CheckoutSubmit places the order. Wallet orders come back pending with the
// provider's approval URL.
func CheckoutSubmit(logg *logger.Logger) http.HandlerFunc {
	return withFlow(logg, func(w http.ResponseWriter, r *http.Request, flow *checkout.Flow) error {
		result, err := flow.Submit(r.Context())
		if err != nil {
			return err
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
		return nil
	})
}

func CheckoutCancel(logg *logger.Logger) http.HandlerFunc {
	return withFlow(logg, func(w http.ResponseWriter, r *http.Request, flow *checkout.Flow) error {
		if err := flow.Cancel(); err != nil {
			return err
		}
		responses.WriteSuccess(w, checkoutView(flow.Snapshot()))
		return nil
	})
}

// CheckoutWalletReturn executes the wallet payment once the buyer comes back
// from the provider's approval page.
func CheckoutWalletReturn(logg *logger.Logger) http.HandlerFunc {
	return withFlow(logg, func(w http.ResponseWriter, r *http.Request, flow *checkout.Flow) error {
		var body walletReturnRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		result, err := flow.ConfirmWallet(r.Context(), body.PaymentID, body.PayerID)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, result)
		return nil
	})
}
