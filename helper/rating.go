package helper

import (
	"asaan_shaadi/model"
	"asaan_shaadi/utils"

	"gorm.io/gorm"
)

type ratingSummary struct {
	Average float64
	Count   int64
}

func summarizeReviews(tx *gorm.DB, column, id string) (ratingSummary, error) {
	var s ratingSummary
	err := tx.Model(&model.Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where(column+" = ?", id).
		Scan(&s).Error
	return s, err
}

// RecalculateVenueRating stores the average review rating (one decimal) and review count on the venue.
func RecalculateVenueRating(tx *gorm.DB, venueID string) error {
	s, err := summarizeReviews(tx, "venue_id", venueID)
	if err != nil {
		return err
	}
	return tx.Model(&model.Venue{}).Where("id = ?", venueID).Updates(map[string]any{
		"rating":       utils.Round(s.Average, 1),
		"review_count": s.Count,
	}).Error
}

func RecalculateCatererRating(tx *gorm.DB, catererID string) error {
	s, err := summarizeReviews(tx, "caterer_id", catererID)
	if err != nil {
		return err
	}
	return tx.Model(&model.Caterer{}).Where("id = ?", catererID).Updates(map[string]any{
		"rating":       utils.Round(s.Average, 1),
		"review_count": s.Count,
	}).Error
}
