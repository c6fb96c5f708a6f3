// Package routes contains the HTTP handlers. Handlers hang off a Handler
// value that carries every collaborator they need; main builds it once and
// registers the methods.
package routes

import (
	"github.com/alkhazraji96/yelp-camp/services"
	"github.com/alkhazraji96/yelp-camp/storage"
	"github.com/alkhazraji96/yelp-camp/utils"

	"gorm.io/gorm"
)

type Handler struct {
	DB            *gorm.DB
	Images        storage.ImageStore
	Mail          *utils.Mailer
	Tokens        *utils.TokenManager
	Notifications *services.NotificationService

	// BaseURL is prepended to password-reset links in outgoing mail.
	BaseURL string
}

func NewHandler(db *gorm.DB, images storage.ImageStore, mail *utils.Mailer, tokens *utils.TokenManager, baseURL string) *Handler {
	return &Handler{
		DB:            db,
		Images:        images,
		Mail:          mail,
		Tokens:        tokens,
		Notifications: services.NewNotificationService(db),
		BaseURL:       baseURL,
	}
}
