package services

import (
	"github.com/alkhazraji96/yelp-camp/models"

	"gorm.io/gorm"
)

// CalculateAverage returns the arithmetic mean of the ratings, and exactly 0
// for an empty set.
func CalculateAverage(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var sum float64
	for _, review := range reviews {
		sum += float64(review.Rating)
	}
	return sum / float64(len(reviews))
}

// RecomputeRating reloads the campground's full review set and persists the
// cached average. Every review mutation path calls this afterwards; the
// cached value is never patched incrementally.
func RecomputeRating(db *gorm.DB, campgroundID uint) (float64, error) {
	var reviews []models.Review
	if err := db.Where("campground_id = ?", campgroundID).Find(&reviews).Error; err != nil {
		return 0, err
	}

	rating := CalculateAverage(reviews)

	err := db.Model(&models.Campground{}).
		Where("id = ?", campgroundID).
		Update("rating", rating).Error
	if err != nil {
		return 0, err
	}

	return rating, nil
}
