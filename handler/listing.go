package handler

import (
	"asaan_shaadi/model"

	"gorm.io/gorm"
)

type listingCount struct {
	ID    string
	Count int64
}

func bookingCounts(db *gorm.DB, column string, ids []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []listingCount
	err := db.Model(&model.Booking{}).
		Select(column+" AS id, COUNT(*) AS count").
		Where(column+" IN ?", ids).
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r.Count
	}
	return out, nil
}

type imageRow struct {
	OwnerID   string
	URL       string
	IsPrimary bool
	SortOrder int
}

// primaryImages picks, per listing, the image flagged primary or else the lowest ordered one.
func primaryImages(db *gorm.DB, table any, column string, ids []string) (map[string]string, error) {
	out := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []imageRow
	err := db.Model(table).
		Select(column+" AS owner_id, url, is_primary, sort_order").
		Where(column+" IN ?", ids).
		Order("is_primary DESC, sort_order ASC, created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if _, ok := out[r.OwnerID]; !ok {
			out[r.OwnerID] = r.URL
		}
	}
	return out, nil
}

func attachVenueStats(db *gorm.DB, venues []model.Venue) error {
	ids := make([]string, 0, len(venues))
	for _, v := range venues {
		ids = append(ids, v.ID)
	}
	counts, err := bookingCounts(db, "venue_id", ids)
	if err != nil {
		return err
	}
	images, err := primaryImages(db, &model.VenueImage{}, "venue_id", ids)
	if err != nil {
		return err
	}
	for i := range venues {
		venues[i].BookingCount = counts[venues[i].ID]
		if url, ok := images[venues[i].ID]; ok {
			venues[i].PrimaryImage = &url
		}
		if venues[i].Amenities == nil {
			venues[i].Amenities = []model.Amenity{}
		}
	}
	return nil
}

func attachCatererStats(db *gorm.DB, caterers []model.Caterer) error {
	ids := make([]string, 0, len(caterers))
	for _, c := range caterers {
		ids = append(ids, c.ID)
	}
	counts, err := bookingCounts(db, "caterer_id", ids)
	if err != nil {
		return err
	}
	images, err := primaryImages(db, &model.CatererImage{}, "caterer_id", ids)
	if err != nil {
		return err
	}
	for i := range caterers {
		caterers[i].BookingCount = counts[caterers[i].ID]
		if url, ok := images[caterers[i].ID]; ok {
			caterers[i].PrimaryImage = &url
		}
		caterers[i].FillNames()
	}
	return nil
}

func reviewerColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "first_name", "last_name", "avatar_url")
}

func ownerColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "first_name", "last_name", "email", "phone")
}

func newestReviews(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Limit(10)
}
