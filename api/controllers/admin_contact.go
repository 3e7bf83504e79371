package controllers

import (
	"net/http"

	"github.com/daghlis/gallery-backend/api/responses"
	"github.com/daghlis/gallery-backend/api/validators"
	"github.com/daghlis/gallery-backend/internal/contact"
	"github.com/daghlis/gallery-backend/pkg/logger"
	"github.com/daghlis/gallery-backend/pkg/pagination"
)

func AdminContactList(svc contact.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
