package catalog

import (
	"github.com/daghlis/gallery-backend/pkg/enums"
	"github.com/daghlis/gallery-backend/pkg/money"
	"github.com/daghlis/gallery-backend/pkg/types"
)

const placeholderImage = "/api/placeholder/400/300"

func text(ar, en, fr string) types.LocalizedText {
	return types.LocalizedText{
		enums.LanguageArabic:  ar,
		enums.LanguageEnglish: en,
		enums.LanguageFrench:  fr,
	}
}

// DefaultCollection is the artist's launch collection, priced in EUR.
func DefaultCollection() []Item {
	return []Item{
		{
			ID:          "1",
			Title:       text("غروب الصحراء", "Desert Sunset", "Coucher de Soleil du Désert"),
			Medium:      text("زيت على قماش", "Oil on Canvas", "Huile sur Toile"),
			Description: text("لوحة تجسد جمال الصحراء وقت الغروب", "A painting that embodies the beauty of the desert at sunset", "Une peinture qui incarne la beauté du désert au coucher du soleil"),
			Category:    enums.ArtworkCategoryLandscapes,
			Price:       money.FromMinor(125000),
			Available:   true,
			Year:        2024,
			Size:        "80x60 cm",
			Image:       placeholderImage,
		},
		{
			ID:          "2",
			Title:       text("وجوه من التراث", "Faces of Heritage", "Visages du Patrimoine"),
			Medium:      text("أكريليك على قماش", "Acrylic on Canvas", "Acrylique sur Toile"),
			Description: text("بورتريه يعكس عمق التراث العربي", "A portrait reflecting the depth of Arab heritage", "Un portrait reflétant la profondeur du patrimoine arabe"),
			Category:    enums.ArtworkCategoryPortraits,
			Price:       money.FromMinor(112500),
			Available:   true,
			Year:        2023,
			Size:        "70x50 cm",
			Image:       placeholderImage,
		},
		{
			ID:        "3",
			Title:     text("تجريد معاصر", "Contemporary Abstract", "Abstrait Contemporain"),
			Category:  enums.ArtworkCategoryAbstract,
			Price:     money.FromMinor(87500),
			Available: false,
			Year:      2024,
			Size:      "60x40 cm",
			Image:     placeholderImage,
		},
		{
			ID:        "4",
			Title:     text("ذكريات الطفولة", "Childhood Memories", "Souvenirs d'Enfance"),
			Category:  enums.ArtworkCategoryPortraits,
			Price:     money.FromMinor(150000),
			Available: true,
			Year:      2023,
			Size:      "90x70 cm",
			Image:     placeholderImage,
		},
		{
			ID:        "5",
			Title:     text("أمواج الحنين", "Waves of Nostalgia", "Vagues de Nostalgie"),
			Category:  enums.ArtworkCategoryAbstract,
			Price:     money.FromMinor(100000),
			Available: true,
			Year:      2024,
			Size:      "65x45 cm",
			Image:     placeholderImage,
		},
		{
			ID:        "6",
			Title:     text("جبال الأطلس", "Atlas Mountains", "Montagnes de l'Atlas"),
			Category:  enums.ArtworkCategoryLandscapes,
			Price:     money.FromMinor(95000),
			Available: true,
			Year:      2024,
			Size:      "75x55 cm",
			Image:     placeholderImage,
		},
	}
}
