package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/daghlis/gallery-backend/api/responses"
	"github.com/daghlis/gallery-backend/api/validators"
	"github.com/daghlis/gallery-backend/internal/catalog"
	"github.com/daghlis/gallery-backend/pkg/enums"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/logger"
	"github.com/daghlis/gallery-backend/pkg/money"
	"github.com/daghlis/gallery-backend/pkg/types"
)

type catalogAdmin interface {
	catalogReader
	Create(item catalog.Item) (catalog.Item, error)
	Update(id string, item catalog.Item) (catalog.Item, error)
	Delete(id string, confirmed bool) error
}

// artworkRequest is the admin payload. Price is in major units, e.g. "1250.00".
type artworkRequest struct {
	ID          string              `json:"id,omitempty"`
	Title       types.LocalizedText `json:"title" validate:"required"`
	Medium      types.LocalizedText `json:"medium,omitempty"`
	Description types.LocalizedText `json:"description,omitempty"`
	Category    string              `json:"category" validate:"required"`
	Price       string              `json:"price" validate:"required"`
	Available   *bool               `json:"available,omitempty"`
	Year        int                 `json:"year,omitempty"`
	Size        string              `json:"size,omitempty"`
	Image       string              `json:"image,omitempty"`
}

func (a artworkRequest) toItem() (catalog.Item, error) {
	price, err := money.ParseMajor(a.Price)
	if err != nil {
		return catalog.Item{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price").
			WithDetails(map[string]string{"price": "must be a decimal amount"})
	}
	available := true
	if a.Available != nil {
		available = *a.Available
	}
	return catalog.Item{
		ID:          a.ID,
		Title:       a.Title,
		Medium:      a.Medium,
		Description: a.Description,
		Category:    enums.ArtworkCategory(a.Category),
		Price:       price,
		Available:   available,
		Year:        a.Year,
		Size:        a.Size,
		Image:       a.Image,
	}, nil
}

type adminArtworkResponse struct {
	ID          string                `json:"id"`
	Title       types.LocalizedText   `json:"title"`
	Medium      types.LocalizedText   `json:"medium,omitempty"`
	Description types.LocalizedText   `json:"description,omitempty"`
	Category    enums.ArtworkCategory `json:"category"`
	Price       string                `json:"price"`
	Available   bool                  `json:"available"`
	Year        int                   `json:"year,omitempty"`
	Size        string                `json:"size,omitempty"`
	Image       string                `json:"image,omitempty"`
}

func adminArtwork(item catalog.Item) adminArtworkResponse {
	return adminArtworkResponse{
		ID:          item.ID,
		Title:       item.Title,
		Medium:      item.Medium,
		Description: item.Description,
		Category:    item.Category,
		Price:       item.Price.String(),
		Available:   item.Available,
		Year:        item.Year,
		Size:        item.Size,
		Image:       item.Image,
	}
}

func AdminArtworkList(store catalogAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseCatalogFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items := store.List(filter)
		out := make([]adminArtworkResponse, 0, len(items))
		for _, item := range items {
			out = append(out, adminArtwork(item))
		}
		responses.WriteSuccess(w, out)
	}
}

func AdminArtworkCreate(store catalogAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body artworkRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := body.toItem()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := store.Create(item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "artwork_id", created.ID), "catalog.artwork_created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, adminArtwork(created))
	}
}

// AdminArtworkUpdate replaces the artwork wholesale.
func AdminArtworkUpdate(store catalogAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body artworkRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := body.toItem()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id := chi.URLParam(r, "itemId")
		updated, err := store.Update(id, item)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "artwork_id", id), "catalog.artwork_updated")
		}
		responses.WriteSuccess(w, adminArtwork(updated))
	}
}

// AdminArtworkDelete requires ?confirm=true.
func AdminArtworkDelete(store catalogAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		confirmed, err := validators.ParseQueryBool(r, "confirm")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		id := chi.URLParam(r, "itemId")
		if err := store.Delete(id, confirmed); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "artwork_id", id), "catalog.artwork_deleted")
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
