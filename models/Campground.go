package models

import (
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Campground struct {
	gorm.Model
	// Slug is the externally addressable key; routes never expose the numeric id.
	Slug        string  `json:"slug" gorm:"uniqueIndex;not null"`
	Name        string  `json:"name" gorm:"not null"`
	Price       float64 `json:"price"`
	Description string  `json:"description" gorm:"type:text"`
	ImageURL    string  `json:"imageURL"`
	ImageID     string  `json:"imageId"`

	// Author is an immutable snapshot taken at creation time, not a join:
	// the username shown stays the one at authorship time.
	AuthorID       uint   `json:"authorID" gorm:"not null;index"`
	AuthorUsername string `json:"authorUsername"`

	// Rating is the cached arithmetic mean over Reviews; recomputed and
	// persisted after every review mutation, never trusted to self-heal.
	Rating float64 `json:"rating"`

	Likes    datatypes.JSON `json:"likes"`
	Comments []Comment      `json:"comments,omitempty" gorm:"foreignKey:CampgroundID"`
	Reviews  []Review       `json:"reviews,omitempty" gorm:"foreignKey:CampgroundID"`
}

// LikeIDs decodes the likes JSON column into the set of liking user ids.
func (c *Campground) LikeIDs() []uint {
	var ids []uint
	if c.Likes != nil {
		json.Unmarshal(c.Likes, &ids)
	}
	return ids
}

func (c *Campground) SetLikeIDs(ids []uint) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	c.Likes = datatypes.JSON(raw)
	return nil
}

// Custom JSON marshaling so the likes column renders as an id array
func (c *Campground) MarshalJSON() ([]byte, error) {
	type Alias Campground
	aux := &struct {
		Likes []uint `json:"likes"`
		*Alias
	}{
		Likes: []uint{},
		Alias: (*Alias)(c),
	}

	if ids := c.LikeIDs(); ids != nil {
		aux.Likes = ids
	}

	return json.Marshal(aux)
}
