package controllers

import (
	"context"
	"net/http"

	"github.com/daghlis/gallery-backend/api/responses"
	"github.com/daghlis/gallery-backend/internal/dashboard"
	"github.com/daghlis/gallery-backend/pkg/enums"
	"github.com/daghlis/gallery-backend/pkg/logger"
)

type dashboardSummarizer interface {
	Summary(ctx context.Context, lang enums.Language) (*dashboard.Summary, error)
}

func AdminDashboard(svc dashboardSummarizer, display Display, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, err := svc.Summary(r.Context(), display.language(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}
