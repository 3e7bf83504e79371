package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/daghlis/gallery-backend/internal/cart"
	"github.com/daghlis/gallery-backend/internal/gateway"
	"github.com/daghlis/gallery-backend/internal/pricing"
	"github.com/daghlis/gallery-backend/pkg/enums"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/logger"
	"github.com/daghlis/gallery-backend/pkg/money"
)

// DefaultTimeout bounds one submit, including every call to the gateway.
const DefaultTimeout = 15 * time.Second

// Recorder keeps the admin order book in step with the gateway.
type Recorder interface {
	Record(ctx context.Context, sessionID string, req gateway.OrderRequest, res gateway.OrderResult) error
	MarkCompleted(ctx context.Context, gatewayOrderID string) error
}

// WalletExecutor finishes a redirect payment once the buyer is back.
type WalletExecutor interface {
	ExecuteWallet(ctx context.Context, paymentID, payerID string) (*gateway.ExecutionResult, error)
}

type submissionCounter interface {
	IncSubmission(method string, success bool)
}

// Deps wires a Flow to the session's cart and the shared collaborators.
type Deps struct {
	SessionID string
	Cart      *cart.Engine
	Pricing   *pricing.Calculator
	Gateway   gateway.Gateway
	Wallet    WalletExecutor
	Recorder  Recorder
	Metrics   submissionCounter
	Logger    *logger.Logger
	Timeout   time.Duration
	Currency  string
	Language  enums.Language
}

// Summary is what the buyer reviews before submitting.
type Summary struct {
	Lines     []cart.Line
	Pricing   pricing.Breakdown
	Customer  CustomerInfo
	Payment   PaymentSelection
	Currency  string
	ItemCount int
}

// Snapshot is a read-only view of the flow.
type Snapshot struct {
	Step       enums.CheckoutStep
	StepNumber int
	Customer   CustomerInfo
	Payment    *PaymentSelection
	InFlight   bool
	Cancelled  bool
	Result     *gateway.OrderResult
}

// Flow walks one buyer through customer info, payment, review and submit.
// At most one submit is outstanding at any time.
type Flow struct {
	deps Deps

	mu         sync.Mutex
	step       enums.CheckoutStep
	customer   CustomerInfo
	payment    PaymentSelection
	hasPayment bool
	inFlight   bool
	cancelled  bool
	result     *gateway.OrderResult
	walletDone bool
	watchers   map[int]func(Event)
	nextSub    int
}

func NewFlow(deps Deps) (*Flow, error) {
	if deps.Cart == nil {
		return nil, fmt.Errorf("cart engine required")
	}
	if deps.Pricing == nil {
		return nil, fmt.Errorf("pricing calculator required")
	}
	if deps.Gateway == nil {
		return nil, fmt.Errorf("order gateway required")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Timeout <= 0 {
		deps.Timeout = DefaultTimeout
	}
	if deps.Currency == "" {
		deps.Currency = "EUR"
	}
	if !deps.Language.IsValid() {
		deps.Language = enums.LanguageEnglish
	}
	return &Flow{
		deps:     deps,
		step:     enums.CheckoutStepCustomerInfo,
		watchers: map[int]func(Event){},
	}, nil
}

// SetCustomerInfo stores the buyer's details. Validation happens on Next.
func (f *Flow) SetCustomerInfo(info CustomerInfo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(enums.CheckoutStepCustomerInfo); err != nil {
		return err
	}
	f.customer = info.normalized()
	return nil
}

// SelectPayment makes sel the only active payment selection.
func (f *Flow) SelectPayment(sel PaymentSelection) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(enums.CheckoutStepPayment); err != nil {
		return err
	}
	f.payment = sel.normalized()
	f.hasPayment = true
	return nil
}

// Next validates the current step and advances.
func (f *Flow) Next() (enums.CheckoutStep, error) {
	f.mu.Lock()
	if err := f.activeLocked(); err != nil {
		f.mu.Unlock()
		return "", err
	}

	switch f.step {
	case enums.CheckoutStepCustomerInfo:
		if err := f.customer.Validate(); err != nil {
			f.mu.Unlock()
			return "", err
		}
	case enums.CheckoutStepPayment:
		if !f.hasPayment {
			f.mu.Unlock()
			return "", pkgerrors.New(pkgerrors.CodeValidation, "payment method is required").
				WithDetails(map[string]string{"method": "must be one of card, wallet"})
		}
		if err := f.payment.Validate(); err != nil {
			f.mu.Unlock()
			return "", err
		}
	case enums.CheckoutStepReview:
		f.mu.Unlock()
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "order is ready, submit to place it").
			WithDetails(map[string]any{"step": enums.CheckoutStepReview.String()})
	}

	next, _ := f.step.Next()
	f.step = next
	watchers := f.snapshotWatchersLocked()
	f.mu.Unlock()

	notify(watchers, Event{Kind: EventStepChanged, Step: next})
	return next, nil
}

// Back returns to the previous step, keeping what was entered.
func (f *Flow) Back() (enums.CheckoutStep, error) {
	f.mu.Lock()
	if err := f.activeLocked(); err != nil {
		f.mu.Unlock()
		return "", err
	}
	prev, ok := f.step.Previous()
	if !ok {
		step := f.step
		f.mu.Unlock()
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, "already at the first step").
			WithDetails(map[string]any{"step": step.String()})
	}
	f.step = prev
	watchers := f.snapshotWatchersLocked()
	f.mu.Unlock()

	notify(watchers, Event{Kind: EventStepChanged, Step: prev})
	return prev, nil
}

// Review prices the current cart for the chosen destination.
func (f *Flow) Review() (Summary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.usableLocked(); err != nil {
		return Summary{}, err
	}
	if f.step != enums.CheckoutStepReview {
		return Summary{}, stepConflict(f.step, enums.CheckoutStepReview)
	}
	return f.summaryLocked()
}

// Submit places the order. On failure the flow stays in review and the
// cart is untouched so the buyer can retry, which sends a new request.
func (f *Flow) Submit(ctx context.Context) (*gateway.OrderResult, error) {
	f.mu.Lock()
	if err := f.usableLocked(); err != nil {
		f.mu.Unlock()
		return nil, err
	}
	if f.inFlight {
		f.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "submission in progress")
	}
	if f.step != enums.CheckoutStepReview {
		step := f.step
		f.mu.Unlock()
		return nil, stepConflict(step, enums.CheckoutStepReview)
	}
	summary, err := f.summaryLocked()
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	req := f.orderRequest(summary)
	f.inFlight = true
	watchers := f.snapshotWatchersLocked()
	f.mu.Unlock()

	notify(watchers, Event{Kind: EventSubmitStarted, Step: enums.CheckoutStepReview})

	logCtx := f.deps.Logger.WithFields(ctx, map[string]any{
		"payment_method": req.PaymentMethod.String(),
		"total":          req.Total.String(),
		"items":          len(req.Items),
	})

	callCtx, cancel := context.WithTimeout(ctx, f.deps.Timeout)
	result, err := f.deps.Gateway.CreateOrder(callCtx, req)
	cancel()
	if err == nil && result == nil {
		err = &gateway.Error{Op: "checkout.submit", Message: "empty gateway response"}
	}
	if err == nil && gateway.Settle(result.Status) == gateway.SettlementFailed {
		err = &gateway.Error{Op: "checkout.submit", Message: "payment " + result.Status, Declined: true}
	}
	if err != nil {
		err = asGatewayError(err)
	}

	f.mu.Lock()
	f.inFlight = false
	if err != nil {
		watchers = f.snapshotWatchersLocked()
		f.mu.Unlock()
		f.countSubmission(req.PaymentMethod, false)
		f.deps.Logger.Error(logCtx, "checkout.submit_failed", err)
		notify(watchers, Event{Kind: EventSubmitFailed, Step: enums.CheckoutStepReview, Err: err})
		return nil, err
	}
	f.step = enums.CheckoutStepSubmitted
	stored := *result
	f.result = &stored
	watchers = f.snapshotWatchersLocked()
	f.mu.Unlock()

	f.deps.Cart.RemoveOrdered(summary.Lines)
	f.countSubmission(req.PaymentMethod, true)

	logCtx = f.deps.Logger.WithOrderID(logCtx, result.OrderID)
	if f.deps.Recorder != nil {
		if recErr := f.deps.Recorder.Record(ctx, f.deps.SessionID, req, stored); recErr != nil {
			f.deps.Logger.Error(logCtx, "checkout.record_failed", recErr)
		}
	}
	f.deps.Logger.Info(logCtx, "checkout.submitted")
	notify(watchers, Event{Kind: EventSubmitted, Step: enums.CheckoutStepSubmitted})

	out := stored
	return &out, nil
}

// ConfirmWallet completes a wallet payment after the buyer approved it with
// the provider. paymentID must match the one handed out on submit.
func (f *Flow) ConfirmWallet(ctx context.Context, paymentID, payerID string) (*gateway.ExecutionResult, error) {
	f.mu.Lock()
	if f.deps.Wallet == nil {
		f.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "wallet payments are not enabled")
	}
	if f.step != enums.CheckoutStepSubmitted || f.result == nil || f.result.RedirectURL == "" {
		f.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "no wallet payment awaiting approval")
	}
	if f.walletDone {
		f.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "wallet payment already confirmed")
	}
	if f.inFlight {
		f.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "submission in progress")
	}
	if paymentID != f.result.PaymentID {
		f.mu.Unlock()
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id does not match this checkout").
			WithDetails(map[string]string{"payment_id": "does not match"})
	}
	orderID := f.result.OrderID
	f.inFlight = true
	f.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, f.deps.Timeout)
	exec, err := f.deps.Wallet.ExecuteWallet(callCtx, paymentID, payerID)
	cancel()

	f.mu.Lock()
	f.inFlight = false
	if err != nil {
		f.mu.Unlock()
		err = asGatewayError(err)
		f.deps.Logger.Error(f.deps.Logger.WithOrderID(ctx, orderID), "checkout.wallet_confirm_failed", err)
		return nil, err
	}
	settlement := gateway.Settle(exec.Status)
	if settlement == gateway.SettlementFailed {
		f.mu.Unlock()
		err = &gateway.Error{Op: "checkout.wallet_confirm", Message: "payment " + exec.Status, Declined: true}
		f.deps.Logger.Error(f.deps.Logger.WithOrderID(ctx, orderID), "checkout.wallet_confirm_failed", err)
		return nil, err
	}
	f.walletDone = true
	f.result.Status = exec.Status
	f.mu.Unlock()

	// A wallet still settling stays pending in the order book until the
	// reconciliation job sees the final status.
	if settlement == gateway.SettlementCompleted && f.deps.Recorder != nil {
		if recErr := f.deps.Recorder.MarkCompleted(ctx, orderID); recErr != nil {
			f.deps.Logger.Error(f.deps.Logger.WithOrderID(ctx, orderID), "checkout.record_failed", recErr)
		}
	}
	return exec, nil
}

// Cancel drops everything entered and retires the flow. The cart is kept.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	if f.cancelled {
		f.mu.Unlock()
		return nil
	}
	if f.inFlight {
		f.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeConflict, "submission in progress")
	}
	if f.step == enums.CheckoutStepSubmitted {
		f.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order already submitted")
	}
	f.customer = CustomerInfo{}
	f.payment = PaymentSelection{}
	f.hasPayment = false
	f.step = enums.CheckoutStepCustomerInfo
	f.cancelled = true
	watchers := f.snapshotWatchersLocked()
	f.mu.Unlock()

	notify(watchers, Event{Kind: EventCancelled, Step: enums.CheckoutStepCustomerInfo})
	return nil
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	snap := Snapshot{
		Step:       f.step,
		StepNumber: f.step.Number(),
		Customer:   f.customer,
		InFlight:   f.inFlight,
		Cancelled:  f.cancelled,
	}
	if f.hasPayment {
		masked := f.payment.masked()
		snap.Payment = &masked
	}
	if f.result != nil {
		res := *f.result
		snap.Result = &res
	}
	return snap
}

// Done reports whether the flow can no longer change.
func (f *Flow) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled || f.step.IsTerminal()
}

func (f *Flow) summaryLocked() (Summary, error) {
	lines := f.deps.Cart.Lines()
	if len(lines) == 0 {
		return Summary{}, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	var subtotal money.Amount
	count := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
		count += l.Quantity
	}
	breakdown, err := f.deps.Pricing.Quote(subtotal, f.customer.Country)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Lines:     lines,
		Pricing:   breakdown,
		Customer:  f.customer,
		Payment:   f.payment.masked(),
		Currency:  f.deps.Currency,
		ItemCount: count,
	}, nil
}

func (f *Flow) orderRequest(s Summary) gateway.OrderRequest {
	items := make([]gateway.LineItem, 0, len(s.Lines))
	for _, l := range s.Lines {
		items = append(items, gateway.LineItem{
			ItemID:    l.ItemID,
			Title:     l.Title.Get(f.deps.Language),
			Image:     l.Image,
			Size:      l.Size,
			Year:      l.Year,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.Total(),
		})
	}
	return gateway.OrderRequest{
		CustomerName:    f.customer.FullName,
		CustomerEmail:   f.customer.Email,
		CustomerPhone:   f.customer.Phone,
		ShippingAddress: f.customer.shippingAddress(),
		Destination:     f.customer.Country,
		Items:           items,
		PaymentMethod:   f.payment.Method,
		Subtotal:        s.Pricing.Subtotal,
		Shipping:        s.Pricing.Shipping,
		Tax:             s.Pricing.Tax,
		Total:           s.Pricing.Total,
		Currency:        f.deps.Currency,
		Language:        f.deps.Language,
	}
}

func (f *Flow) usableLocked() error {
	if f.cancelled {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "checkout was cancelled")
	}
	if f.step == enums.CheckoutStepSubmitted {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order already submitted")
	}
	return nil
}

func (f *Flow) activeLocked() error {
	if err := f.usableLocked(); err != nil {
		return err
	}
	if f.inFlight {
		return pkgerrors.New(pkgerrors.CodeConflict, "submission in progress")
	}
	return nil
}

func (f *Flow) editableLocked(step enums.CheckoutStep) error {
	if err := f.activeLocked(); err != nil {
		return err
	}
	if f.step != step {
		return stepConflict(f.step, step)
	}
	return nil
}

func (f *Flow) countSubmission(method enums.PaymentMethod, success bool) {
	if f.deps.Metrics != nil {
		f.deps.Metrics.IncSubmission(method.String(), success)
	}
}

func stepConflict(current, required enums.CheckoutStep) error {
	return pkgerrors.Newf(pkgerrors.CodeStateConflict, "not allowed in step %s", current).
		WithDetails(map[string]any{"step": current.String(), "required_step": required.String()})
}

// asGatewayError folds deadline expiry and untyped failures into a
// gateway error. Coded errors pass through.
func asGatewayError(err error) error {
	var gwErr *gateway.Error
	if errors.As(err, &gwErr) || pkgerrors.As(err) != nil {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &gateway.Error{Op: "checkout.submit", Message: "request timed out", Err: err}
	}
	return &gateway.Error{Op: "checkout.submit", Message: "order could not be placed", Err: err}
}
