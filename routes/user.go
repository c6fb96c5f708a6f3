package routes

import (
	"fmt"
	"strings"
	"time"

	"github.com/alkhazraji96/yelp-camp/middleware"
	"github.com/alkhazraji96/yelp-camp/models"
	"github.com/alkhazraji96/yelp-camp/utils"

	"github.com/kataras/iris/v12"
	"golang.org/x/crypto/bcrypt"
)

type RegisterUserInput struct {
	Username  string `json:"username" validate:"required,min=3,max=64"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=256"`
	FirstName string `json:"firstname" validate:"max=128"`
	LastName  string `json:"lastname" validate:"max=128"`
	Bio       string `json:"bio" validate:"max=1000"`
	Image     string `json:"image"` // base64 avatar, optional
}

type LoginUserInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Register(ctx iris.Context) {
	var userInput RegisterUserInput
	if err := ctx.ReadJSON(&userInput); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var existing models.User
	taken := h.DB.
		Where("email = ? OR username = ?", strings.ToLower(userInput.Email), userInput.Username).
		Find(&existing)
	if taken.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if taken.RowsAffected > 0 {
		utils.CreateUsernameOrEmailTaken(ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(userInput.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	newUser := models.User{
		Username:  userInput.Username,
		Email:     strings.ToLower(userInput.Email),
		Password:  hashedPassword,
		FirstName: userInput.FirstName,
		LastName:  userInput.LastName,
		Bio:       userInput.Bio,
	}

	if userInput.Image != "" {
		publicID := fmt.Sprintf("user_%d", time.Now().UnixNano()/int64(time.Millisecond))
		uploaded, err := h.Images.Upload(userInput.Image, publicID)
		if err != nil {
			utils.CreateError(iris.StatusBadGateway, "Upstream Failure", "avatar upload failed: "+err.Error(), ctx)
			return
		}
		newUser.ImageURL = uploaded.URL
		newUser.ImageID = uploaded.PublicID
	}

	if err := h.DB.Create(&newUser).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	h.returnUser(&newUser, ctx)
}

func (h *Handler) Login(ctx iris.Context) {
	var userInput LoginUserInput
	if err := ctx.ReadJSON(&userInput); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	errorMsg := "invalid username or password"

	var existingUser models.User
	found := h.DB.Where("username = ?", userInput.Username).Find(&existingUser)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	passwordErr := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(userInput.Password))
	if passwordErr != nil {
		utils.CreateError(iris.StatusUnauthorized, "Credentials Error", errorMsg, ctx)
		return
	}

	h.returnUser(&existingUser, ctx)
}

type ForgotPasswordInput struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) ForgotPassword(ctx iris.Context) {
	var input ForgotPasswordInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	var user models.User
	found := h.DB.Where("email = ?", strings.ToLower(input.Email)).Find(&user)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "no account with that email address exists", ctx)
		return
	}

	token := utils.GenerateShortToken(20)
	expires := time.Now().Add(time.Hour)
	user.ResetPasswordToken = token
	user.ResetPasswordExpires = &expires

	if err := h.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	body := "You are receiving this because you (or someone else) have requested the reset of the password for your account.\n\n" +
		"Please click on the following link, or paste this into your browser to complete the process:\n\n" +
		h.BaseURL + "/reset/" + token + "\n\n" +
		"If you did not request this, please ignore this email and your password will remain unchanged.\n"

	if err := h.Mail.Send(user.Email, "Password Reset", body); err != nil {
		utils.CreateError(iris.StatusBadGateway, "Upstream Failure", "could not send reset email", ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "an e-mail has been sent to " + user.Email + " with further instructions"})
}

type ResetPasswordInput struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=256"`
	Confirm  string `json:"confirm" validate:"required"`
}

func (h *Handler) ResetPassword(ctx iris.Context) {
	var input ResetPasswordInput
	if err := ctx.ReadJSON(&input); err != nil {
		utils.HandleValidationErrors(err, ctx)
		return
	}

	if input.Password != input.Confirm {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "passwords do not match", ctx)
		return
	}

	var user models.User
	found := h.DB.
		Where("reset_password_token = ? AND reset_password_expires > ?", input.Token, time.Now()).
		Find(&user)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateError(iris.StatusBadRequest, "Bad Request", "password reset token is invalid or has expired", ctx)
		return
	}

	hashedPassword, hashErr := hashAndSaltPassword(input.Password)
	if hashErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	user.Password = hashedPassword
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil

	if err := h.DB.Save(&user).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	// Confirmation mail failing does not undo the reset.
	confirmation := "Hello,\n\nThis is a confirmation that the password for your account " +
		user.Email + " has just been changed.\n"
	if err := h.Mail.Send(user.Email, "Your password has been changed", confirmation); err != nil {
		ctx.Application().Logger().Warnf("reset confirmation mail to %s failed: %v", user.Email, err)
	}

	h.returnUser(&user, ctx)
}

// GetUser is the public profile: the user plus the campgrounds they authored.
func (h *Handler) GetUser(ctx iris.Context) {
	id := ctx.Params().GetUintDefault("id", 0)

	var user models.User
	found := h.DB.Find(&user, id)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "profile not found", ctx)
		return
	}

	var campgrounds []models.Campground
	if err := h.DB.Where("author_id = ?", user.ID).Find(&campgrounds).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"user": &user, "campgrounds": campgrounds})
}

// FollowUser appends the current principal to the target's follower list.
// No membership check first; following twice stores the id twice.
func (h *Handler) FollowUser(ctx iris.Context) {
	principal := middleware.Principal(ctx)
	if principal == nil {
		utils.CreateError(iris.StatusUnauthorized, "Unauthorized", "you need to be logged in", ctx)
		return
	}

	id := ctx.Params().GetUintDefault("id", 0)

	var user models.User
	found := h.DB.Find(&user, id)
	if found.Error != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if found.RowsAffected == 0 {
		utils.CreateError(iris.StatusNotFound, "Not Found", "profile not found", ctx)
		return
	}

	followers := append(user.FollowerIDs(), principal.ID)
	if err := user.SetFollowerIDs(followers); err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}
	if err := h.DB.Model(&user).Update("followers", user.Followers).Error; err != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{"message": "successfully followed " + user.Username + "!"})
}

func (h *Handler) returnUser(user *models.User, ctx iris.Context) {
	tokenPair, tokenErr := h.Tokens.CreateTokenPair(user)
	if tokenErr != nil {
		utils.CreateInternalServerError(ctx)
		return
	}

	ctx.JSON(iris.Map{
		"user":         user,
		"accessToken":  string(tokenPair.AccessToken),
		"refreshToken": string(tokenPair.RefreshToken),
	})
}

func hashAndSaltPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
