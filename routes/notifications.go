package routes

import (
	"errors"

	"github.com/alkhazraji96/yelp-camp/middleware"
	"github.com/alkhazraji96/yelp-camp/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

// GetNotifications returns the principal's inbox newest first; ?unread=true
// narrows it to unread entries.
func (h *Handler) GetNotifications(ctx iris.Context) {
	principal := middleware.Principal(ctx)
	if principal == nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "you need to be logged in", ctx)
		return
	}

	unreadOnly := ctx.URLParam("unread") == "true"

	notifications, err := h.Notifications.Inbox(principal.ID, unreadOnly)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"notifications": notifications})
}

// ReadNotification marks one of the principal's notifications as read and
// returns the campground slug it points at, so the client can follow it.
func (h *Handler) ReadNotification(ctx iris.Context) {
	principal := middleware.Principal(ctx)
	if principal == nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "you need to be logged in", ctx)
		return
	}

	id := ctx.Params().GetUintDefault("id", 0)

	notification, err := h.Notifications.MarkRead(id, principal.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.CreateError(iris.StatusNotFound, "Not Found", "notification not found", ctx)
			return
		}
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"notification":   notification,
		"campgroundSlug": notification.CampgroundSlug,
	})
}
