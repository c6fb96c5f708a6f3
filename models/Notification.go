package models

import "gorm.io/gorm"

// Notification is an inbox entry created by the follower fan-out when a
// followed user posts a new campground. Rows are only ever created by the
// fan-out and flipped to read by the mark-as-read route; never deleted.
type Notification struct {
	gorm.Model
	UserID         uint   `json:"userID" gorm:"not null;index"` // inbox owner
	Username       string `json:"username"`                     // who triggered it
	CampgroundSlug string `json:"campgroundSlug"`
	IsRead         bool   `json:"isRead" gorm:"default:false"`
}
