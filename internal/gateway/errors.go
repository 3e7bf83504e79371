package gateway

import (
	"fmt"

	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
)

// Error is any failure talking to the remote service: transport, HTTP
// status at or above 400, undecodable body or an open breaker. A payment
// the provider refused is an Error with Declined set. Every Error is
// retryable by the buyer.
type Error struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
	Declined   bool
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("gateway %s: status %d: %s", e.Op, e.StatusCode, msg)
	}
	return fmt.Sprintf("gateway %s: %s", e.Op, msg)
}

// Unwrap exposes the transport cause and the coded dependency error the
// HTTP layer renders.
func (e *Error) Unwrap() []error {
	out := []error{e.coded()}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func (e *Error) coded() *pkgerrors.Error {
	details := map[string]any{"operation": e.Op, "retryable": true}
	if e.StatusCode > 0 {
		details["status"] = e.StatusCode
	}
	msg := "payment service unavailable, please try again"
	if e.Declined {
		details["declined"] = true
		msg = "payment was declined, please check your details and try again"
	}
	return pkgerrors.New(pkgerrors.CodeDependency, msg).WithDetails(details)
}
