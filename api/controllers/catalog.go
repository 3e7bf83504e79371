package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/daghlis/gallery-backend/api/responses"
	"github.com/daghlis/gallery-backend/internal/catalog"
	"github.com/daghlis/gallery-backend/pkg/enums"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/logger"
)

type catalogReader interface {
	Get(id string) (catalog.Item, error)
	List(f catalog.Filter) []catalog.Item
}

func parseCatalogFilter(r *http.Request) (catalog.Filter, error) {
	var f catalog.Filter
	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" && raw != "all" {
		category, err := enums.ParseArtworkCategory(raw)
		if err != nil {
			return f, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category").
				WithDetails(map[string]string{"category": "must be one of landscapes, portraits, abstract"})
		}
		f.Category = category
	}
	f.AvailableOnly = strings.EqualFold(r.URL.Query().Get("available"), "true")
	return f, nil
}

// CatalogList returns the gallery, optionally filtered by category.
func CatalogList(store catalogReader, display Display, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseCatalogFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		lang := display.language(r)
		items := store.List(filter)
		out := make([]artworkResponse, 0, len(items))
		for _, item := range items {
			out = append(out, display.artwork(item, lang))
		}
		responses.WriteSuccess(w, out)
	}
}

func CatalogGet(store catalogReader, display Display, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := store.Get(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, display.artwork(item, display.language(r)))
	}
}
