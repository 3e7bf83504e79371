package enums

import "fmt"

// ArtworkCategory groups catalog items for gallery filtering.
type ArtworkCategory string

const (
	ArtworkCategoryLandscapes ArtworkCategory = "landscapes"
	ArtworkCategoryPortraits  ArtworkCategory = "portraits"
	ArtworkCategoryAbstract   ArtworkCategory = "abstract"
)

var validArtworkCategories = []ArtworkCategory{
	ArtworkCategoryLandscapes,
	ArtworkCategoryPortraits,
	ArtworkCategoryAbstract,
}

// String implements fmt.Stringer.
func (c ArtworkCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ArtworkCategory.
func (c ArtworkCategory) IsValid() bool {
	for _, candidate := range validArtworkCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseArtworkCategory converts raw input into an ArtworkCategory.
func ParseArtworkCategory(value string) (ArtworkCategory, error) {
	for _, candidate := range validArtworkCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid artwork category %q", value)
}
