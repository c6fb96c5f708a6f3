package services

import (
	"github.com/alkhazraji96/yelp-camp/models"

	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// ToggleLike flips membership of userID in the like set: present means
// remove, absent means add. Order of the remaining ids is preserved.
func ToggleLike(likes []uint, userID uint) []uint {
	if i := slices.Index(likes, userID); i != -1 {
		return append(likes[:i:i], likes[i+1:]...)
	}
	return append(likes, userID)
}

// ApplyLikeToggle toggles the principal's like on the campground row and
// saves it. Read-modify-write: two toggles by the same principal racing each
// other get no isolation.
func ApplyLikeToggle(db *gorm.DB, campground *models.Campground, userID uint) (liked bool, err error) {
	likes := ToggleLike(campground.LikeIDs(), userID)
	if err := campground.SetLikeIDs(likes); err != nil {
		return false, err
	}

	if err := db.Model(campground).Update("likes", campground.Likes).Error; err != nil {
		return false, err
	}

	return slices.Contains(likes, userID), nil
}
