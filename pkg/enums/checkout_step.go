package enums

import "fmt"

// CheckoutStep is the position of a checkout flow in its linear state machine.
type CheckoutStep string

const (
	CheckoutStepCustomerInfo CheckoutStep = "collecting_customer_info"
	CheckoutStepPayment      CheckoutStep = "collecting_payment"
	CheckoutStepReview       CheckoutStep = "reviewing_order"
	CheckoutStepSubmitted    CheckoutStep = "submitted"
)

var checkoutStepOrder = []CheckoutStep{
	CheckoutStepCustomerInfo,
	CheckoutStepPayment,
	CheckoutStepReview,
	CheckoutStepSubmitted,
}

func (s CheckoutStep) String() string {
	return string(s)
}

func (s CheckoutStep) IsValid() bool {
	return s.index() >= 0
}

// IsTerminal reports whether no further transition is possible.
func (s CheckoutStep) IsTerminal() bool {
	return s == CheckoutStepSubmitted
}

// Number is the 1-based position shown to customers, 0 when unknown.
func (s CheckoutStep) Number() int {
	return s.index() + 1
}

// Next returns the following step. The terminal step has no successor.
func (s CheckoutStep) Next() (CheckoutStep, bool) {
	i := s.index()
	if i < 0 || i+1 >= len(checkoutStepOrder) {
		return s, false
	}
	return checkoutStepOrder[i+1], true
}

// Previous returns the preceding step. The initial and terminal steps have none.
func (s CheckoutStep) Previous() (CheckoutStep, bool) {
	i := s.index()
	if i <= 0 || s.IsTerminal() {
		return s, false
	}
	return checkoutStepOrder[i-1], true
}

func (s CheckoutStep) index() int {
	for i, candidate := range checkoutStepOrder {
		if candidate == s {
			return i
		}
	}
	return -1
}

func ParseCheckoutStep(value string) (CheckoutStep, error) {
	for _, candidate := range checkoutStepOrder {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", value)
}
