package gateway

import (
	"strings"

	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
)

// Validate checks the fields the remote service requires. It never touches
// the network.
func Validate(req OrderRequest) error {
	var missing []string
	if strings.TrimSpace(req.CustomerEmail) == "" {
		missing = append(missing, "customer_email")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if len(req.Items) == 0 {
		missing = append(missing, "items")
	}
	if !req.Total.IsPositive() {
		missing = append(missing, "total_amount")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required fields: "+strings.Join(missing, ", ")).
			WithDetails(map[string]any{"missing_fields": missing})
	}
	return nil
}
