package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daghlis/gallery-backend/api/responses"
	"github.com/daghlis/gallery-backend/api/validators"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/logger"
)

type addCartItemRequest struct {
	ItemID string `json:"item_id" validate:"required"`
}

type setQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// CartGet returns the session's cart.
func CartGet(display Display, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, display.cart(s.Cart, display.language(r)))
	}
}

// CartAddItem adds one unit of an artwork. Sold artworks cannot be added.
func CartAddItem(store catalogReader, display Display, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := store.Get(body.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !item.Available {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Newf(pkgerrors.CodeStateConflict, "artwork %s is sold", item.ID))
			return
		}

		s.Cart.Add(item)
		responses.WriteSuccessStatus(w, http.StatusCreated, display.cart(s.Cart, display.language(r)))
	}
}

// CartSetQuantity replaces a line's quantity. Zero removes the line.
func CartSetQuantity(display Display, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setQuantityRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := s.Cart.SetQuantity(chi.URLParam(r, "itemId"), *body.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, display.cart(s.Cart, display.language(r)))
	}
}

func CartRemoveItem(display Display, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessionFrom(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		s.Cart.Remove(chi.URLParam(r, "itemId"))
		responses.WriteSuccess(w, display.cart(s.Cart, display.language(r)))
	}
}
