package models

import "gorm.io/gorm"

type Comment struct {
	gorm.Model
	CampgroundID   uint   `json:"campgroundID" gorm:"not null;index"`
	AuthorID       uint   `json:"authorID" gorm:"not null;index"`
	AuthorUsername string `json:"authorUsername"`
	Text           string `json:"text" gorm:"type:text"`
}
