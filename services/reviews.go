package services

import (
	"github.com/alkhazraji96/yelp-camp/models"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// AlreadyReviewed reports whether the principal authored any review in the
// campground's populated review list.
func AlreadyReviewed(reviews []models.Review, userID uint) bool {
	return slices.ContainsFunc(reviews, func(r models.Review) bool {
		return r.AuthorID == userID
	})
}

// HasReviewed loads the campground's reviews and scans for the principal.
// Best effort only: a concurrent insert between this check and a create is
// not prevented (no uniqueness constraint at the storage layer).
func HasReviewed(db *gorm.DB, campgroundID, userID uint) (bool, error) {
	var reviews []models.Review
	if err := db.Where("campground_id = ?", campgroundID).Find(&reviews).Error; err != nil {
		return false, err
	}
	return AlreadyReviewed(reviews, userID), nil
}
