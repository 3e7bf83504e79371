package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daghlis/gallery-backend/api/responses"
	"github.com/daghlis/gallery-backend/internal/gateway"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/logger"
)

type orderLookup interface {
	GetOrder(ctx context.Context, id string) (*gateway.OrderRecord, error)
}

// OrderStatus proxies an order lookup to the payment service.
func OrderStatus(lookup orderLookup, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "orderId")
		if id == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order id is required"))
			return
		}
		record, err := lookup.GetOrder(r.Context(), id)
		if err != nil {
			var gwErr *gateway.Error
			if errors.As(err, &gwErr) && gwErr.StatusCode == http.StatusNotFound {
				err = pkgerrors.Newf(pkgerrors.CodeNotFound, "order %s not found", id)
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}
