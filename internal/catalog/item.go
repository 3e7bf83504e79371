package catalog

import (
	"strings"

	"github.com/daghlis/gallery-backend/pkg/enums"
	pkgerrors "github.com/daghlis/gallery-backend/pkg/errors"
	"github.com/daghlis/gallery-backend/pkg/money"
	"github.com/daghlis/gallery-backend/pkg/types"
)

// Item is a purchasable artwork.
type Item struct {
	ID          string
	Title       types.LocalizedText
	Medium      types.LocalizedText
	Description types.LocalizedText
	Category    enums.ArtworkCategory
	Price       money.Amount
	Available   bool
	Year        int
	Size        string
	Image       string
}

// Clone returns a deep copy so callers never share the translation maps.
func (i Item) Clone() Item {
	out := i
	out.Title = i.Title.Clone()
	out.Medium = i.Medium.Clone()
	out.Description = i.Description.Clone()
	return out
}

// Validate checks the fields an admin must supply.
func (i Item) Validate() error {
	details := map[string]string{}
	if i.Title.IsEmpty() {
		details["title"] = "at least one translation is required"
	} else if err := i.Title.Validate(); err != nil {
		details["title"] = err.Error()
	}
	if err := i.Medium.Validate(); err != nil {
		details["medium"] = err.Error()
	}
	if err := i.Description.Validate(); err != nil {
		details["description"] = err.Error()
	}
	if !i.Category.IsValid() {
		details["category"] = "must be one of landscapes, portraits, abstract"
	}
	if !i.Price.IsPositive() {
		details["price"] = "must be positive"
	}
	if i.Year < 0 {
		details["year"] = "must not be negative"
	}
	if strings.ContainsAny(i.ID, " /?#") {
		details["id"] = "must not contain spaces or URL delimiters"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid artwork").WithDetails(details)
	}
	return nil
}
