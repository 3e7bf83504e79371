package validators

import (
	"net/http"
	"strings"

	"github.com/daghlis/gallery-backend/pkg/enums"
)

// RequestLanguage picks the display language from the lang query parameter,
// then the first supported Accept-Language entry, then fallback.
func RequestLanguage(r *http.Request, fallback enums.Language) enums.Language {
	if lang, err := enums.ParseLanguage(r.URL.Query().Get("lang")); err == nil {
		return lang
	}
	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(part, ";")
		if lang, err := enums.ParseLanguage(tag); err == nil {
			return lang
		}
	}
	if fallback.IsValid() {
		return fallback
	}
	return enums.LanguageEnglish
}
