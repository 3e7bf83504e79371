package checkout

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/daghlis/gallery-backend/pkg/enums"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/types"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// CustomerInfo is collected on the first checkout step.
type CustomerInfo struct {
	FullName   string                `json:"full_name" validate:"required"`
	Email      string                `json:"email" validate:"required,email"`
	Phone      string                `json:"phone" validate:"required"`
	Address    string                `json:"address" validate:"required"`
	City       string                `json:"city" validate:"required"`
	PostalCode string                `json:"postal_code" validate:"required"`
	Country    enums.DestinationTier `json:"country" validate:"required,oneof=domestic regional international"`
}

func (c CustomerInfo) normalized() CustomerInfo {
	c.FullName = strings.TrimSpace(c.FullName)
	c.Email = strings.TrimSpace(c.Email)
	c.Phone = strings.TrimSpace(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
	c.City = strings.TrimSpace(c.City)
	c.PostalCode = strings.TrimSpace(c.PostalCode)
	c.Country = enums.DestinationTier(strings.ToLower(strings.TrimSpace(string(c.Country))))
	return c
}

// Validate reports every missing or malformed field at once.
func (c CustomerInfo) Validate() error {
	if err := validate.Struct(c.normalized()); err != nil {
		return fieldErrors("customer information is incomplete", err)
	}
	return nil
}

func (c CustomerInfo) shippingAddress() types.ShippingAddress {
	return types.ShippingAddress{
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		Country:    c.Country.String(),
	}
}

// CardDetails are only checked for presence. Numbers are never persisted.
type CardDetails struct {
	CardholderName string `json:"cardholder_name"`
	CardNumber     string `json:"card_number" validate:"required"`
	Expiry         string `json:"expiry" validate:"required"`
	CVV            string `json:"cvv" validate:"required"`
}

// PaymentSelection is either a card with details or the redirect wallet.
type PaymentSelection struct {
	Method enums.PaymentMethod `json:"method"`
	Card   *CardDetails        `json:"card,omitempty"`
}

func (p PaymentSelection) normalized() PaymentSelection {
	out := PaymentSelection{Method: enums.PaymentMethod(strings.ToLower(strings.TrimSpace(string(p.Method))))}
	if out.Method == enums.PaymentMethodCard && p.Card != nil {
		card := CardDetails{
			CardholderName: strings.TrimSpace(p.Card.CardholderName),
			CardNumber:     strings.ReplaceAll(strings.TrimSpace(p.Card.CardNumber), " ", ""),
			Expiry:         strings.TrimSpace(p.Card.Expiry),
			CVV:            strings.TrimSpace(p.Card.CVV),
		}
		out.Card = &card
	}
	return out
}

// Validate checks the active branch only.
func (p PaymentSelection) Validate() error {
	switch p.Method {
	case enums.PaymentMethodWallet:
		return nil
	case enums.PaymentMethodCard:
		if p.Card == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "card details are incomplete").WithDetails(map[string]string{
				"card_number": "is required",
				"expiry":      "is required",
				"cvv":         "is required",
			})
		}
		if err := validate.Struct(p.Card); err != nil {
			return fieldErrors("card details are incomplete", err)
		}
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "payment method is required").
			WithDetails(map[string]string{"method": "must be one of card, wallet"})
	}
}

func (p PaymentSelection) masked() PaymentSelection {
	out := PaymentSelection{Method: p.Method}
	if p.Card != nil {
		last4 := p.Card.CardNumber
		if len(last4) > 4 {
			last4 = last4[len(last4)-4:]
		}
		out.Card = &CardDetails{
			CardholderName: p.Card.CardholderName,
			CardNumber:     "**** " + last4,
			Expiry:         p.Card.Expiry,
		}
	}
	return out
}

func fieldErrors(message string, err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, message)
	}
	details := map[string]string{}
	for _, fe := range errs {
		details[fe.Field()] = validationMessage(fe)
	}
	return pkgerrors.New(pkgerrors.CodeValidation, message).WithDetails(details)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return fmt.Sprintf("must be one of %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	}
	return "is invalid"
}
