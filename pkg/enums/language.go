package enums

import (
	"fmt"
	"strings"
)

// Language is a storefront display language.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
	LanguageFrench  Language = "fr"
)

var validLanguages = []Language{
	LanguageArabic,
	LanguageEnglish,
	LanguageFrench,
}

func (l Language) String() string {
	return string(l)
}

func (l Language) IsValid() bool {
	for _, candidate := range validLanguages {
		if candidate == l {
			return true
		}
	}
	return false
}

// IsRTL reports whether text in this language is laid out right to left.
func (l Language) IsRTL() bool {
	return l == LanguageArabic
}

// ParseLanguage accepts a bare code or a tag such as "fr-FR".
func ParseLanguage(value string) (Language, error) {
	code := strings.ToLower(strings.TrimSpace(value))
	if i := strings.IndexAny(code, "-_"); i > 0 {
		code = code[:i]
	}
	if lang := Language(code); lang.IsValid() {
		return lang, nil
	}
	return "", fmt.Errorf("invalid language %q", value)
}

// Languages lists every supported language in display order.
func Languages() []Language {
	out := make([]Language, len(validLanguages))
	copy(out, validLanguages)
	return out
}
