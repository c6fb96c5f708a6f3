package models

import "gorm.io/gorm"

type Review struct {
	gorm.Model
	CampgroundID   uint   `json:"campgroundID" gorm:"not null;index"`
	AuthorID       uint   `json:"authorID" gorm:"not null;index"`
	AuthorUsername string `json:"authorUsername"`
	Rating         int    `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Text           string `json:"text" gorm:"type:text"`
}
