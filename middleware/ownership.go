// Package middleware holds the ownership checks that gate every mutation.
// Each check runs to completion before the guarded handler: it resolves the
// resource, decides, and only then hands over, so a handler never starts on a
// resource the principal may not touch. The resolved resource is stashed in
// the request values to spare the handler a second lookup.
package middleware

import (
	"github.com/alkhazraji96/yelp-camp/models"
	"github.com/alkhazraji96/yelp-camp/services"
	"github.com/alkhazraji96/yelp-camp/utils"

	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

// Values keys for resources resolved by the guards.
const (
	CampgroundKey = "campground"
	CommentKey    = "comment"
	ReviewKey     = "review"
)

// Guard carries the persistence handle the ownership checks resolve against.
type Guard struct {
	DB *gorm.DB
}

func NewGuard(db *gorm.DB) *Guard {
	return &Guard{DB: db}
}

// Principal returns the authenticated principal, or nil for anonymous
// requests (e.g. when the access verifier was not on the route).
func Principal(ctx iris.Context) *utils.AccessToken {
	if claims, ok := jwt.Get(ctx).(*utils.AccessToken); ok {
		return claims
	}
	return nil
}

// Decision is the outcome of an ownership check.
type Decision struct {
	Allowed bool
	Status  int
	Message string
}

// Decide applies the ownership rules in order: an absent principal is always
// denied; the author is always allowed regardless of admin flag; an admin is
// allowed only where the resource kind grants the override.
func Decide(principal *utils.AccessToken, authorID uint, adminOverride bool) Decision {
	if principal == nil {
		return Decision{Status: iris.StatusUnauthorized, Message: "you need to be logged in"}
	}
	if principal.ID == authorID {
		return Decision{Allowed: true}
	}
	if adminOverride && principal.IsAdmin {
		return Decision{Allowed: true}
	}
	return Decision{Status: iris.StatusForbidden, Message: "you don't have permission to do that"}
}

func deny(ctx iris.Context, d Decision) {
	if d.Status == iris.StatusUnauthorized {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", d.Message, ctx)
		return
	}
	utils.CreateForbidden(ctx)
}

// CampgroundOwnership resolves the campground by slug and lets the owner or
// an admin through.
func (g *Guard) CampgroundOwnership(ctx iris.Context) {
	principal := Principal(ctx)
	if principal == nil {
		deny(ctx, Decide(nil, 0, false))
		return
	}

	slug := ctx.Params().Get("slug")

	var campground models.Campground
	found := g.DB.Where("slug = ?", slug).Find(&campground)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "campground not found", ctx)
		return
	}

	if d := Decide(principal, campground.AuthorID, true); !d.Allowed {
		deny(ctx, d)
		return
	}

	ctx.Values().Set(CampgroundKey, &campground)
	ctx.Next()
}

// CommentOwnership resolves the comment by id and lets the author or an
// admin through.
func (g *Guard) CommentOwnership(ctx iris.Context) {
	principal := Principal(ctx)
	if principal == nil {
		deny(ctx, Decide(nil, 0, false))
		return
	}

	commentID := ctx.Params().GetUintDefault("commentID", 0)

	var comment models.Comment
	found := g.DB.Find(&comment, commentID)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "comment not found", ctx)
		return
	}

	if d := Decide(principal, comment.AuthorID, true); !d.Allowed {
		deny(ctx, d)
		return
	}

	ctx.Values().Set(CommentKey, &comment)
	ctx.Next()
}

// ReviewOwnership resolves the review by id. Only the author may pass; there
// is no admin override on reviews.
func (g *Guard) ReviewOwnership(ctx iris.Context) {
	principal := Principal(ctx)
	if principal == nil {
		deny(ctx, Decide(nil, 0, false))
		return
	}

	reviewID := ctx.Params().GetUintDefault("reviewID", 0)

	var review models.Review
	found := g.DB.Find(&review, reviewID)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "review not found", ctx)
		return
	}

	if d := Decide(principal, review.AuthorID, false); !d.Allowed {
		deny(ctx, d)
		return
	}

	ctx.Values().Set(ReviewKey, &review)
	ctx.Next()
}

// ReviewExistence blocks a second review by the same principal for the same
// campground. The check is best effort: it scans the current review list and
// is not atomic against a concurrent insert.
func (g *Guard) ReviewExistence(ctx iris.Context) {
	principal := Principal(ctx)
	if principal == nil {
		deny(ctx, Decide(nil, 0, false))
		return
	}

	slug := ctx.Params().Get("slug")

	var campground models.Campground
	found := g.DB.Preload("Reviews").Where("slug = ?", slug).Find(&campground)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "campground not found", ctx)
		return
	}

	if services.AlreadyReviewed(campground.Reviews, principal.ID) {
		utils.CreateError(iris.StatusConflict, "Conflict", "you already wrote a review", ctx)
		return
	}

	ctx.Values().Set(CampgroundKey, &campground)
	ctx.Next()
}
