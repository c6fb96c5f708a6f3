package main

import (
	"log"

	"github.com/alkhazraji96/yelp-camp/config"
	"github.com/alkhazraji96/yelp-camp/middleware"
	"github.com/alkhazraji96/yelp-camp/routes"
	"github.com/alkhazraji96/yelp-camp/storage"
	"github.com/alkhazraji96/yelp-camp/utils"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

func main() {
	cfg := config.Load()

	db, err := storage.InitializeDB(cfg.DatabaseURL)
	if err != nil {
		log.Panic(err)
	}

	redisClient := storage.InitializeRedis(cfg.RedisURL)

	images := storage.NewCloudinary(
		cfg.CloudinaryCloudName,
		cfg.CloudinaryAPIKey,
		cfg.CloudinaryAPISecret,
		cfg.CloudinaryFolder,
	)
	mail := utils.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.MailFrom)
	tokens := utils.NewTokenManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, redisClient, db)
	guard := middleware.NewGuard(db)
	h := routes.NewHandler(db, images, mail, tokens, cfg.BaseURL)

	app := iris.New()
	app.Validator = validator.New()

	app.AllowMethods(iris.MethodOptions)
	app.UseRouter(func(ctx iris.Context) {
		ctx.Header("Access-Control-Allow-Origin", ctx.GetHeader("Origin"))
		ctx.Header("Vary", "Origin")
		ctx.Header("Access-Control-Allow-Credentials", "true")
		ctx.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Requested-With")
		ctx.Header("Access-Control-Allow-Methods", "GET,POST,PATCH,PUT,DELETE,OPTIONS")
		if ctx.Method() == iris.MethodOptions {
			ctx.StatusCode(iris.StatusNoContent)
			return
		}
		ctx.Next()
	})

	app.Use(iris.Compression)

	accessVerifier := tokens.AccessVerifier()

	app.Get("/health", func(ctx iris.Context) {
		ctx.JSON(iris.Map{"status": "ok"})
	})

	user := app.Party("/api/user")
	{
		user.Post("/register", h.Register)
		user.Post("/login", h.Login)
		user.Post("/forgotpassword", h.ForgotPassword)
		user.Post("/resetpassword", h.ResetPassword)
		user.Get("/{id:uint}", h.GetUser)
		user.Post("/{id:uint}/follow", accessVerifier, h.FollowUser)
	}

	app.Post("/api/refresh", tokens.RefreshVerifier(), tokens.Refresh)

	notifications := app.Party("/api/notifications", accessVerifier)
	{
		notifications.Get("/", h.GetNotifications)
		notifications.Post("/{id:uint}/read", h.ReadNotification)
	}

	campgrounds := app.Party("/api/campgrounds")
	{
		campgrounds.Get("/", h.ListCampgrounds)
		campgrounds.Post("/", accessVerifier, h.CreateCampground)
		campgrounds.Get("/{slug}", h.GetCampground)
		campgrounds.Put("/{slug}", accessVerifier, guard.CampgroundOwnership, h.UpdateCampground)
		campgrounds.Delete("/{slug}", accessVerifier, guard.CampgroundOwnership, h.DeleteCampground)
		campgrounds.Post("/{slug}/like", accessVerifier, h.LikeCampground)

		campgrounds.Post("/{slug}/comments", accessVerifier, h.CreateComment)
		campgrounds.Put("/{slug}/comments/{commentID:uint}", accessVerifier, guard.CommentOwnership, h.UpdateComment)
		campgrounds.Delete("/{slug}/comments/{commentID:uint}", accessVerifier, guard.CommentOwnership, h.DeleteComment)

		campgrounds.Get("/{slug}/reviews", h.ListReviews)
		campgrounds.Post("/{slug}/reviews", accessVerifier, guard.ReviewExistence, h.CreateReview)
		campgrounds.Put("/{slug}/reviews/{reviewID:uint}", accessVerifier, guard.ReviewOwnership, h.UpdateReview)
		campgrounds.Delete("/{slug}/reviews/{reviewID:uint}", accessVerifier, guard.ReviewOwnership, h.DeleteReview)
	}

	app.Listen(":" + cfg.Port)
}
