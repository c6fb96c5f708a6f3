package routes

import (
	"github.com/alkhazraji96/yelp-camp/middleware"
	"github.com/alkhazraji96/yelp-camp/models"
	"github.com/alkhazraji96/yelp-camp/utils"

	"github.com/kataras/iris/v12"
)

type CommentInput struct {
	Text string `json:"text" validate:"required,max=2000"`
}

// CreateComment attaches a comment to the campground in the slug param,
// stamped with an author snapshot taken from the access token.
func (h *Handler) CreateComment(ctx iris.Context) {
	principal := middleware.Principal(ctx)
	if principal == nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "you need to be logged in", ctx)
		return
	}

	var input CommentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	slug := ctx.Params().Get("slug")

	var campground models.Campground
	found := h.DB.Where("slug = ?", slug).Find(&campground)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "campground not found", ctx)
		return
	}

	comment := models.Comment{
		CampgroundID:   campground.ID,
		AuthorID:       principal.ID,
		AuthorUsername: principal.Username,
		Text:           input.Text,
	}

	if err := h.DB.Create(&comment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&comment)
}

// UpdateComment runs behind the comment ownership guard.
func (h *Handler) UpdateComment(ctx iris.Context) {
	comment := ctx.Values().Get(middleware.CommentKey).(*models.Comment)

	var input CommentInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	comment.Text = input.Text
	if err := h.DB.Save(comment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(comment)
}

// DeleteComment runs behind the comment ownership guard.
func (h *Handler) DeleteComment(ctx iris.Context) {
	comment := ctx.Values().Get(middleware.CommentKey).(*models.Comment)

	if err := h.DB.Delete(comment).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}
