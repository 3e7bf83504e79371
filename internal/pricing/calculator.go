package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/daghlis/gallery-backend/pkg/config"
	"github.com/daghlis/gallery-backend/pkg/enums"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/money"
)

// Config is the shipping and tax policy in minor units.
type Config struct {
	FreeShippingThreshold money.Amount
	Fees                  map[enums.DestinationTier]money.Amount
	TaxRate               decimal.Decimal
}

// DefaultConfig mirrors the storefront's launch policy.
func DefaultConfig() Config {
	return Config{
		FreeShippingThreshold: money.FromMinor(10000),
		Fees: map[enums.DestinationTier]money.Amount{
			enums.DestinationDomestic:      money.FromMinor(1500),
			enums.DestinationRegional:      money.FromMinor(2500),
			enums.DestinationInternational: money.FromMinor(4500),
		},
		TaxRate: decimal.RequireFromString("0.20"),
	}
}

// ConfigFromEnv converts the env-loaded policy into minor units.
func ConfigFromEnv(cfg config.PricingConfig) Config {
	return Config{
		FreeShippingThreshold: money.FromMajor(cfg.FreeShippingThreshold),
		Fees: map[enums.DestinationTier]money.Amount{
			enums.DestinationDomestic:      money.FromMajor(cfg.DomesticFee),
			enums.DestinationRegional:      money.FromMajor(cfg.RegionalFee),
			enums.DestinationInternational: money.FromMajor(cfg.InternationalFee),
		},
		TaxRate: cfg.TaxRate,
	}
}

// Breakdown is the priced view of a subtotal for one destination.
type Breakdown struct {
	Subtotal     money.Amount
	Shipping     money.Amount
	Tax          money.Amount
	Total        money.Amount
	FreeShipping bool
}

// Calculator is pure and safe for concurrent use.
type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) (*Calculator, error) {
	if cfg.FreeShippingThreshold < 0 {
		return nil, fmt.Errorf("free shipping threshold must not be negative")
	}
	for _, tier := range []enums.DestinationTier{enums.DestinationDomestic, enums.DestinationRegional, enums.DestinationInternational} {
		fee, ok := cfg.Fees[tier]
		if !ok {
			return nil, fmt.Errorf("missing shipping fee for %s", tier)
		}
		if fee < 0 {
			return nil, fmt.Errorf("shipping fee for %s must not be negative", tier)
		}
	}
	if cfg.TaxRate.IsNegative() || cfg.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("tax rate must be between 0 and 1")
	}
	return &Calculator{cfg: cfg}, nil
}

// Quote prices subtotal for tier. Only domestic orders at or above the
// threshold ship free. Tax applies to the subtotal at the same flat rate
// for every destination.
func (c *Calculator) Quote(subtotal money.Amount, tier enums.DestinationTier) (Breakdown, error) {
	if subtotal < 0 {
		return Breakdown{}, pkgerrors.New(pkgerrors.CodeValidation, "subtotal must not be negative")
	}
	fee, ok := c.cfg.Fees[tier]
	if !ok {
		return Breakdown{}, pkgerrors.Newf(pkgerrors.CodeValidation, "unknown destination %q", tier).
			WithDetails(map[string]string{"country": "must be one of domestic, regional, international"})
	}

	b := Breakdown{Subtotal: subtotal, Shipping: fee}
	if tier == enums.DestinationDomestic && subtotal >= c.cfg.FreeShippingThreshold {
		b.Shipping = 0
		b.FreeShipping = true
	}
	b.Tax = subtotal.MulRate(c.cfg.TaxRate)
	b.Total = b.Subtotal.Add(b.Shipping).Add(b.Tax)
	return b, nil
}

// TaxRate is exposed for display.
func (c *Calculator) TaxRate() decimal.Decimal {
	return c.cfg.TaxRate
}
