package controllers

import (
	"net/http"

	"github.com/daghlis/gallery-backend/api/responses"
	"github.com/daghlis/gallery-backend/api/validators"
	"github.com/daghlis/gallery-backend/internal/contact"
	"github.com/daghlis/gallery-backend/pkg/logger"
)

// ContactSubmit stores a message from the public contact form.
func ContactSubmit(svc contact.Service, display Display, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body contact.SubmitRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if body.Language == "" {
			body.Language = display.language(r).String()
		}
		msg, err := svc.Submit(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]any{
			"id":     msg.ID,
			"status": "received",
		})
	}
}
