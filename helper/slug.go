package helper

import (
	"asaan_shaadi/model"
	"fmt"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

func generateUniqueSlug(tx *gorm.DB, table any, name string) string {
	base := slug.Make(name)
	if base == "" {
		base = "listing"
	}
	result := base
	i := 1

	for {
		var count int64
		tx.Model(table).
			Where("slug = ?", result).
			Count(&count)

		if count == 0 {
			break
		}
		result = fmt.Sprintf("%s-%d", base, i)
		i++
	}

	return result
}

func GenerateUniqueVenueSlug(tx *gorm.DB, name string) string {
	return generateUniqueSlug(tx, &model.Venue{}, name)
}

func GenerateUniqueCatererSlug(tx *gorm.DB, name string) string {
	return generateUniqueSlug(tx, &model.Caterer{}, name)
}
