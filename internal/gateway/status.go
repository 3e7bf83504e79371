package gateway

import "strings"

// Settlement is how a remote order or payment status reads for the buyer.
type Settlement int

const (
	SettlementPending Settlement = iota
	SettlementCompleted
	SettlementFailed
)

// Settle classifies a status string from the payment service. Unknown
// values read as pending.
func Settle(status string) Settlement {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusCompleted, "succeeded", "paid", "approved":
		return SettlementCompleted
	case "cancelled", "canceled", "failed", "declined":
		return SettlementFailed
	default:
		return SettlementPending
	}
}

func declined(op, status string) *Error {
	return &Error{Op: op, Message: "payment " + strings.ToLower(strings.TrimSpace(status)), Declined: true}
}
