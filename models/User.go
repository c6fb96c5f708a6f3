package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username             string         `json:"username" gorm:"uniqueIndex;not null"`
	Email                string         `json:"email" gorm:"uniqueIndex;not null"`
	Password             string         `json:"-"`
	FirstName            string         `json:"firstname"`
	LastName             string         `json:"lastname"`
	Bio                  string         `json:"bio"`
	ImageURL             string         `json:"imageURL"`
	ImageID              string         `json:"imageId"`
	IsAdmin              bool           `json:"isAdmin" gorm:"default:false"`
	ResetPasswordToken   string         `json:"-" gorm:"index"`
	ResetPasswordExpires *time.Time     `json:"-"`
	Followers            datatypes.JSON `json:"followers"`
	Notifications        []Notification `json:"notifications,omitempty" gorm:"foreignKey:UserID"`
	Campgrounds          []Campground   `json:"campgrounds,omitempty" gorm:"foreignKey:AuthorID"`
}

// FollowerIDs decodes the followers JSON column. The stored order is the
// append order of Follow operations; duplicates are possible because Follow
// never checks membership first.
func (u *User) FollowerIDs() []uint {
	var ids []uint
	if u.Followers != nil {
		json.Unmarshal(u.Followers, &ids)
	}
	return ids
}

func (u *User) SetFollowerIDs(ids []uint) error {
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	u.Followers = datatypes.JSON(raw)
	return nil
}

// Custom JSON marshaling so the followers column renders as an id array
func (u *User) MarshalJSON() ([]byte, error) {
	type Alias User
	aux := &struct {
		Followers []uint `json:"followers"`
		*Alias
	}{
		Followers: []uint{},
		Alias:     (*Alias)(u),
	}

	if ids := u.FollowerIDs(); ids != nil {
		aux.Followers = ids
	}

	return json.Marshal(aux)
}
