package routes

import (
	"fmt"
	"math"
	"time"

	"github.com/alkhazraji96/yelp-camp/middleware"
	"github.com/alkhazraji96/yelp-camp/models"
	"github.com/alkhazraji96/yelp-camp/services"
	"github.com/alkhazraji96/yelp-camp/utils"

	"github.com/kataras/iris/v12"
	"gorm.io/gorm"
)

const campgroundsPerPage = 8

type CreateCampgroundInput struct {
	Name        string  `json:"name" validate:"required,max=256"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description" validate:"max=2000"`
	Image       string  `json:"image" validate:"required"` // base64
}

type UpdateCampgroundInput struct {
	Name        string  `json:"name" validate:"required,max=256"`
	Price       float64 `json:"price" validate:"gte=0"`
	Description string  `json:"description" validate:"max=2000"`
	Image       string  `json:"image"` // base64, replaces the current image when set
}

// ListCampgrounds returns one page of campgrounds, optionally filtered by a
// search term matched as an escaped case-insensitive regex against the name.
func (h *Handler) ListCampgrounds(ctx iris.Context) {
	page := ctx.URLParamIntDefault("page", 1)
	if page < 1 {
		page = 1
	}
	search := ctx.URLParam("search")

	query := h.DB.Model(&models.Campground{})
	if search != "" {
		query = h.applySearch(query, search)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var campgrounds []models.Campground
	err := query.
		Offset((page - 1) * campgroundsPerPage).
		Limit(campgroundsPerPage).
		Find(&campgrounds).Error
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	noMatch := ""
	if search != "" && len(campgrounds) == 0 {
		noMatch = "no campgrounds match that query, please try again"
	}

	ctx.JSON(iris.Map{
		"campgrounds": campgrounds,
		"meta":        utils.PageMeta{Page: page, PerPage: campgroundsPerPage, Total: total},
		"pages":       int(math.Ceil(float64(total) / float64(campgroundsPerPage))),
		"noMatch":     noMatch,
		"search":      search,
	})
}

// applySearch narrows the listing to names containing the query as a literal,
// case-insensitive substring. Postgres gets the regex operator with the query's
// metacharacters neutralized; other dialects get an escaped LIKE.
func (h *Handler) applySearch(query *gorm.DB, search string) *gorm.DB {
	if h.DB.Dialector.Name() == "postgres" {
		return query.Where("name ~* ?", utils.EscapeSearch(search))
	}
	return query.Where(`name LIKE ? ESCAPE '\'`, "%"+utils.EscapeLike(search)+"%")
}

// CreateCampground uploads the image, creates the campground with an author
// snapshot, then fans notifications out to the author's followers. A fan-out
// failure surfaces to the requester but the campground stays created.
func (h *Handler) CreateCampground(ctx iris.Context) {
	principal := middleware.Principal(ctx)
	if principal == nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "you need to be logged in", ctx)
		return
	}

	var input CreateCampgroundInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	publicID := fmt.Sprintf("campground_%d", time.Now().UnixNano()/int64(time.Millisecond))
	uploaded, uploadErr := h.Images.Upload(input.Image, publicID)
	if uploadErr != nil {
		utils.CreateError(iris.StatusBadGateway, "Upstream Failure", "image upload failed: "+uploadErr.Error(), ctx)
		return
	}

	campground := models.Campground{
		Slug:           utils.Slugify(input.Name),
		Name:           input.Name,
		Price:          input.Price,
		Description:    input.Description,
		ImageURL:       uploaded.URL,
		ImageID:        uploaded.PublicID,
		AuthorID:       principal.ID,
		AuthorUsername: principal.Username,
	}

	if err := h.DB.Create(&campground).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	var owner models.User
	if err := h.DB.First(&owner, principal.ID).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	if _, err := h.Notifications.FanOutNewCampground(&owner, &campground); err != nil {
		// Partial delivery: the campground and any notifications already
		// written stay; only the remainder of the fan-out is lost.
		utils.CreateError(iris.StatusBadGateway, "Upstream Failure",
			"campground created but notifying followers failed", ctx)
		return
	}

	ctx.StatusCode(iris.StatusCreated)
	ctx.JSON(&campground)
}

// GetCampground returns one campground with comments and reviews populated,
// reviews newest first.
func (h *Handler) GetCampground(ctx iris.Context) {
	slug := ctx.Params().Get("slug")

	var campground models.Campground
	found := h.DB.
		Preload("Comments").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("slug = ?", slug).
		Find(&campground)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "campground not found", ctx)
		return
	}

	ctx.JSON(&campground)
}

// UpdateCampground runs behind the campground ownership guard.
func (h *Handler) UpdateCampground(ctx iris.Context) {
	campground := ctx.Values().Get(middleware.CampgroundKey).(*models.Campground)

	var input UpdateCampgroundInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Image != "" {
		if err := h.Images.Destroy(campground.ImageID); err != nil {
			utils.CreateError(iris.StatusBadGateway, "Upstream Failure", "replacing image failed: "+err.Error(), ctx)
			return
		}
		publicID := fmt.Sprintf("campground_%d", time.Now().UnixNano()/int64(time.Millisecond))
		uploaded, uploadErr := h.Images.Upload(input.Image, publicID)
		if uploadErr != nil {
			utils.CreateError(iris.StatusBadGateway, "Upstream Failure", "image upload failed: "+uploadErr.Error(), ctx)
			return
		}
		campground.ImageURL = uploaded.URL
		campground.ImageID = uploaded.PublicID
	}

	campground.Name = input.Name
	campground.Price = input.Price
	campground.Description = input.Description

	if err := h.DB.Save(campground).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(campground)
}

// DeleteCampground runs behind the campground ownership guard. The image,
// the comments, the reviews and the row itself go as a sequence of
// independent deletes, not one transaction; the first failure stops the
// sequence where it is.
func (h *Handler) DeleteCampground(ctx iris.Context) {
	campground := ctx.Values().Get(middleware.CampgroundKey).(*models.Campground)

	if err := h.Images.Destroy(campground.ImageID); err != nil {
		utils.CreateError(iris.StatusBadGateway, "Upstream Failure", "deleting image failed: "+err.Error(), ctx)
		return
	}

	if err := h.DB.Where("campground_id = ?", campground.ID).Delete(&models.Comment{}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if err := h.DB.Where("campground_id = ?", campground.ID).Delete(&models.Review{}).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if err := h.DB.Delete(campground).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.StatusCode(iris.StatusNoContent)
}

// LikeCampground toggles the principal's membership in the like set.
func (h *Handler) LikeCampground(ctx iris.Context) {
	principal := middleware.Principal(ctx)
	if principal == nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "you need to be logged in", ctx)
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
		utils.CreateError(iris.StatusNotFound, "Not Found", "no campground found", ctx)
		return
	}

	liked, err := services.ApplyLikeToggle(h.DB, &campground, principal.ID)
	if err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"slug":  campground.Slug,
		"liked": liked,
		"likes": len(campground.LikeIDs()),
	})
}
