package routes

import (
	"github.com/alkhazraji96/yelp-camp/middleware"
	"github.com/alkhazraji96/yelp-camp/models"
	"github.com/alkhazraji96/yelp-camp/services"
	"github.com/alkhazraji96/yelp-camp/utils"

	"github.com/kataras/iris/v12"
)

type ReviewInput struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Text   string `json:"text" validate:"max=2000"`
}

// ListReviews returns a campground's reviews newest first.
func (h *Handler) ListReviews(ctx iris.Context) {
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

	var reviews []models.Review
	err := h.DB.
		Where("campground_id = ?", campground.ID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"reviews": reviews, "rating": campground.Rating})
}

// CreateReview runs behind the review existence guard, which resolved the
// campground and ruled out a prior review by this principal.
func (h *Handler) CreateReview(ctx iris.Context) {
	principal := middleware.Principal(ctx)
	campground := ctx.Values().Get(middleware.CampgroundKey).(*models.Campground)

	var input ReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	review := models.Review{
		CampgroundID:   campground.ID,
		AuthorID:       principal.ID,
		AuthorUsername: principal.Username,
		Rating:         input.Rating,
		Text:           input.Text,
	}

	if err := h.DB.Create(&review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	rating, err := services.RecomputeRating(h.DB, campground.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(iris.Map{"review": &review, "rating": rating})
}

// UpdateReview runs behind the review ownership guard (author only) and
// recomputes the cached average afterwards.
func (h *Handler) UpdateReview(ctx iris.Context) {
	review := ctx.Values().Get(middleware.ReviewKey).(*models.Review)

	var input ReviewInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	review.Rating = input.Rating
	review.Text = input.Text
	if err := h.DB.Save(review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	rating, err := services.RecomputeRating(h.DB, review.CampgroundID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"review": review, "rating": rating})
}

// DeleteReview runs behind the review ownership guard (author only). Deleting
// the last review drops the cached average back to zero.
func (h *Handler) DeleteReview(ctx iris.Context) {
	review := ctx.Values().Get(middleware.ReviewKey).(*models.Review)

	if err := h.DB.Delete(review).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	rating, err := services.RecomputeRating(h.DB, review.CampgroundID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"rating": rating})
}
