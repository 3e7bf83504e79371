package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/daghlis/gallery-backend/pkg/enums"
)

// LocalizedText maps a display language to its translation.
type LocalizedText map[enums.Language]string

// Get returns the text for lang, falling back to English and then to any
// non-empty translation.
func (t LocalizedText) Get(lang enums.Language) string {
	if v := strings.TrimSpace(t[lang]); v != "" {
		return v
	}
	if v := strings.TrimSpace(t[enums.LanguageEnglish]); v != "" {
		return v
	}
	for _, l := range enums.Languages() {
		if v := strings.TrimSpace(t[l]); v != "" {
			return v
		}
	}
	return ""
}

// IsEmpty reports whether no language carries any text.
func (t LocalizedText) IsEmpty() bool {
	return t.Get(enums.LanguageEnglish) == ""
}

func (t LocalizedText) Clone() LocalizedText {
	if t == nil {
		return nil
	}
	out := make(LocalizedText, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Validate rejects unknown language keys.
func (t LocalizedText) Validate() error {
	for lang := range t {
		if !lang.IsValid() {
			return fmt.Errorf("localized text: unsupported language %q", lang)
		}
	}
	return nil
}

// Value stores the translations as a JSON object.
func (t LocalizedText) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(map[enums.Language]string(t))
	if err != nil {
		return nil, fmt.Errorf("localized text: %w", err)
	}
	return string(raw), nil
}

func (t *LocalizedText) Scan(value interface{}) error {
	if value == nil {
		*t = LocalizedText{}
		return nil
	}
	raw, ok := toBytes(value)
	if !ok {
		return fmt.Errorf("localized text: unsupported scan type %T", value)
	}
	decoded := map[enums.Language]string{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fmt.Errorf("localized text: %w", err)
	}
	*t = LocalizedText(decoded)
	return nil
}
